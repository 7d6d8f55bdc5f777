package main

import (
	"context"
	"errors"
	"time"

	"nutrilens/models"

	"gorm.io/gorm"
)

// errNoRow is the store-level not-found sentinel shared by all backends.
var errNoRow = errors.New("record not found")

// UserStore persists user records. Deletion is soft: lookups by email only
// see rows with deleted_at IS NULL.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// TokenStore persists refresh-token records keyed by token digest. A record
// is live while revoked=false and expires_at is in the future; once dead it
// never becomes live again.
type TokenStore interface {
	Record(ctx context.Context, t *models.AuthToken) error
	// FindLive returns errNoRow for absent, revoked or expired digests alike.
	FindLive(ctx context.Context, digest string) (*models.AuthToken, error)
	// Revoke is idempotent; revoking an unknown digest is not an error.
	Revoke(ctx context.Context, digest string) error
}

// ConsentStore records policy acceptances given at signup.
type ConsentStore interface {
	Record(ctx context.Context, c *models.ConsentRecord) error
}

// AuditStore is the fire-and-forget audit sink.
type AuditStore interface {
	Record(ctx context.Context, e *models.AuditLog) error
}

type gormUserStore struct{ db *gorm.DB }

func (s *gormUserStore) Create(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *gormUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("email = ? AND deleted_at IS NULL", email).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errNoRow
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *gormUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errNoRow
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *gormUserStore) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login", at).Error
}

type gormTokenStore struct{ db *gorm.DB }

func (s *gormTokenStore) Record(ctx context.Context, t *models.AuthToken) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *gormTokenStore) FindLive(ctx context.Context, digest string) (*models.AuthToken, error) {
	var t models.AuthToken
	err := s.db.WithContext(ctx).
		Where("token_hash = ? AND revoked = false AND expires_at > ?", digest, time.Now()).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errNoRow
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *gormTokenStore) Revoke(ctx context.Context, digest string) error {
	now := time.Now()
	// single-row update; zero rows affected means already revoked or unknown,
	// which is fine
	return s.db.WithContext(ctx).Model(&models.AuthToken{}).
		Where("token_hash = ?", digest).
		Updates(map[string]any{"revoked": true, "revoked_at": &now}).Error
}

type gormConsentStore struct{ db *gorm.DB }

func (s *gormConsentStore) Record(ctx context.Context, c *models.ConsentRecord) error {
	return s.db.WithContext(ctx).Create(c).Error
}

type gormAuditStore struct{ db *gorm.DB }

func (s *gormAuditStore) Record(ctx context.Context, e *models.AuditLog) error {
	return s.db.WithContext(ctx).Create(e).Error
}
