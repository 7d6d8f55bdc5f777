package main

import (
	"context"
	"log"
	"strings"
	"time"

	"nutrilens/models"
	"nutrilens/pkg/password"
	"nutrilens/pkg/tokens"

	"github.com/google/uuid"
)

// AuthService orchestrates signup, login, refresh and logout over the user
// and token stores. All dependencies are injected; nothing reads ambient
// state.
type AuthService struct {
	users    UserStore
	tokens   TokenStore
	consents ConsentStore
	audit    AuditStore
	codec    *tokens.Codec
	policy   password.Policy
}

func NewAuthService(users UserStore, tokenStore TokenStore, consents ConsentStore, audit AuditStore, codec *tokens.Codec, policy password.Policy) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokenStore,
		consents: consents,
		audit:    audit,
		codec:    codec,
		policy:   policy,
	}
}

type SignupInput struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirmPassword"`
	AcceptTerms      bool   `json:"acceptTerms"`
	AcceptPrivacy    bool   `json:"acceptPrivacy"`
	AcceptGDPR       bool   `json:"acceptGDPR"`
	ConsentMarketing bool   `json:"consentMarketing"`
	IP               string `json:"-"`
}

type SignupResult struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	DeviceID string `json:"deviceId"`
	IP       string `json:"-"`
}

type LoginResult struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresIn    int       `json:"expiresIn"`
	LastLogin    time.Time `json:"lastLogin"`
}

type RefreshResult struct {
	AccessToken string `json:"token"`
	ExpiresIn   int    `json:"expiresIn"`
}

// Signup validates the request, creates the user and issues the first token
// pair. Checks run in a fixed order so the first failure is deterministic:
// missing fields, policy acceptance, email format, email uniqueness, name,
// password confirmation, password strength, common-password deny list.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*SignupResult, error) {
	missing := missingFields(map[string]string{
		"name":            in.Name,
		"email":           in.Email,
		"password":        in.Password,
		"confirmPassword": in.ConfirmPassword,
	}, []string{"name", "email", "password", "confirmPassword"})
	if len(missing) > 0 {
		return nil, validationErr("Missing required fields", map[string]any{"missing": missing})
	}
	if !in.AcceptTerms || !in.AcceptPrivacy || !in.AcceptGDPR {
		return nil, validationErr("You must accept all policies to create an account", nil)
	}
	email := strings.ToLower(sanitize(in.Email))
	if !validEmail(email) {
		return nil, validationErr("Invalid email format", nil)
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, errEmailExists
	} else if err != errNoRow {
		return nil, err
	}
	name := sanitize(in.Name)
	if msg := validateName(name); msg != "" {
		return nil, validationErr(msg, nil)
	}
	if in.Password != in.ConfirmPassword {
		return nil, validationErr("Passwords do not match", nil)
	}
	if errs := s.policy.Validate(in.Password); len(errs) > 0 {
		return nil, validationErr("Password does not meet requirements", map[string]any{"errors": errs})
	}
	if password.IsCommon(in.Password) {
		return nil, validationErr("Password is too common. Please choose a stronger password.", nil)
	}

	hash, err := s.policy.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if isUniqueConstraintError(err) { // lost the race after the optimistic check
			return nil, errEmailExists
		}
		return nil, err
	}

	// best-effort sequential writes past this point: a crash leaves a user
	// without a token and the client recovers by logging in
	if err := s.consents.Record(ctx, &models.ConsentRecord{
		ID:               uuid.NewString(),
		UserID:           user.ID,
		ConsentGDPR:      in.AcceptGDPR,
		ConsentTerms:     in.AcceptTerms,
		ConsentPrivacy:   in.AcceptPrivacy,
		ConsentMarketing: in.ConsentMarketing,
	}); err != nil {
		log.Printf("warning: failed to record consent for user %s: %v", user.ID, err)
	}

	pair, err := s.issueTokenPair(ctx, user, "", in.IP)
	if err != nil {
		return nil, err
	}
	s.auditEvent(user.ID, "USER_SIGNUP", in.IP)

	return &SignupResult{
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.Name,
		AccessToken:  pair.access,
		RefreshToken: pair.refresh,
		ExpiresIn:    int(s.codec.AccessTTL().Seconds()),
	}, nil
}

// Login authenticates by email + password. Unknown email and wrong password
// return the same error so the endpoint is not a user-existence oracle.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	missing := missingFields(map[string]string{
		"email":    in.Email,
		"password": in.Password,
	}, []string{"email", "password"})
	if len(missing) > 0 {
		return nil, validationErr("Email and password are required", map[string]any{"missing": missing})
	}
	email := strings.ToLower(sanitize(in.Email))
	if !validEmail(email) {
		return nil, validationErr("Invalid email format", nil)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err == errNoRow {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !password.Verify(in.Password, user.PasswordHash) {
		return nil, errInvalidCredentials
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		log.Printf("warning: failed to update last_login for user %s: %v", user.ID, err)
	}

	pair, err := s.issueTokenPair(ctx, user, in.DeviceID, in.IP)
	if err != nil {
		return nil, err
	}
	s.auditEvent(user.ID, "USER_LOGIN", in.IP)

	return &LoginResult{
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.Name,
		AccessToken:  pair.access,
		RefreshToken: pair.refresh,
		ExpiresIn:    int(s.codec.AccessTTL().Seconds()),
		LastLogin:    now,
	}, nil
}

// Refresh exchanges a live refresh token for a new access token. The store
// row is authoritative: a revoked token fails here even while its signature
// is still valid. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	if refreshToken == "" {
		return nil, validationErr("Refresh token is required", nil)
	}
	if _, err := s.codec.VerifyRefresh(refreshToken); err != nil {
		return nil, errInvalidRefresh
	}
	rec, err := s.tokens.FindLive(ctx, tokens.Digest(refreshToken))
	if err == errNoRow {
		return nil, errInvalidRefresh
	}
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, rec.UserID)
	if err == errNoRow {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, err
	}
	access, err := s.codec.IssueAccess(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &RefreshResult{
		AccessToken: access,
		ExpiresIn:   int(s.codec.AccessTTL().Seconds()),
	}, nil
}

// Logout revokes the supplied refresh token, if any. Revocation is
// idempotent: logging out twice with the same token succeeds both times.
func (s *AuthService) Logout(ctx context.Context, userID, refreshToken, ip string) error {
	if refreshToken != "" {
		if err := s.tokens.Revoke(ctx, tokens.Digest(refreshToken)); err != nil {
			return err
		}
	}
	s.auditEvent(userID, "USER_LOGOUT", ip)
	return nil
}

type tokenPair struct {
	access  string
	refresh string
}

func (s *AuthService) issueTokenPair(ctx context.Context, user *models.User, deviceID, ip string) (*tokenPair, error) {
	access, err := s.codec.IssueAccess(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.IssueRefresh(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Record(ctx, &models.AuthToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: tokens.Digest(refresh),
		DeviceID:  deviceID,
		IPAddress: ip,
		ExpiresAt: time.Now().Add(s.codec.RefreshTTL()),
	}); err != nil {
		return nil, err
	}
	return &tokenPair{access: access, refresh: refresh}, nil
}

// auditEvent writes the audit row on a detached context so a slow or broken
// sink never delays the response.
func (s *AuthService) auditEvent(userID, action, ip string) {
	entry := &models.AuditLog{
		ID:        uuid.NewString(),
		UserID:    userID,
		Action:    action,
		Status:    "SUCCESS",
		IPAddress: ip,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.audit.Record(ctx, entry); err != nil {
			log.Printf("warning: audit log write failed (%s): %v", action, err)
		}
	}()
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}
