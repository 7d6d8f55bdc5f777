package models

import "time"

// AuthToken stores a hashed representation of a refresh token so individual
// sessions can be revoked. The raw token value is never persisted.
type AuthToken struct {
	ID        string `gorm:"primaryKey;size:50"`
	CreatedAt time.Time
	UserID    string    `gorm:"size:50;index;not null"`
	TokenHash string    `gorm:"size:128;not null;uniqueIndex"`
	DeviceID  string    `gorm:"size:100"`
	IPAddress string    `gorm:"size:45"`
	ExpiresAt time.Time `gorm:"index;not null"`
	Revoked   bool      `gorm:"default:false;index"`
	RevokedAt *time.Time
}
