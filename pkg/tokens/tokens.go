// Package tokens signs and verifies the bearer tokens used by the API:
// short-lived access tokens carrying subject + email, and longer-lived
// refresh tokens whose hashes are tracked server-side for revocation.
package tokens

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	Issuer   = "nutrilens.app"
	Audience = "nutrilens-app"

	refreshType = "refresh"
)

// AccessClaims is the claim set embedded in access tokens.
type AccessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// RefreshClaims is the claim set embedded in refresh tokens. Type
// discriminates refresh tokens from access tokens signed with the same
// algorithm.
type RefreshClaims struct {
	jwt.RegisteredClaims
	Type string `json:"type"`
}

// Codec issues and verifies tokens. It is stateless: validity is a pure
// function of secret + claims, which is what keeps access-token checks off
// the database on every request. Refresh tokens additionally need a store
// lookup because they must be revocable before natural expiry.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewCodec builds a Codec. Access and refresh tokens are signed with
// distinct secrets so one class of token can never pass as the other.
func NewCodec(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// AccessTTL returns the configured access token lifetime.
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// IssueAccess signs an access token for the user.
func (c *Codec) IssueAccess(userID, email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.accessTTL)),
		},
		Email: email,
	})
	return token.SignedString(c.accessSecret)
}

// IssueRefresh signs a refresh token for the user. Each token carries a
// fresh jti so two tokens issued to the same user in the same second still
// hash to distinct digests.
func (c *Codec) IssueRefresh(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.refreshTTL)),
		},
		Type: refreshType,
	})
	return token.SignedString(c.refreshSecret)
}

// VerifyAccess validates signature, issuer, audience and expiry. Every
// failure mode collapses to ErrInvalidToken so callers cannot tell a forged
// token from an expired one.
func (c *Codec) VerifyAccess(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, c.keyfunc(c.accessSecret),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyRefresh validates signature, issuer, expiry and the refresh type
// discriminant.
func (c *Codec) VerifyRefresh(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, c.keyfunc(c.refreshSecret),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != refreshType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (c *Codec) keyfunc(secret []byte) jwt.Keyfunc {
	return func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return secret, nil
	}
}

// Digest returns the hex SHA-256 of a token, used only for refresh-token
// storage lookups. Access tokens are never stored.
func Digest(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
