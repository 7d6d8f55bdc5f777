package models

import "time"

// ConsentRecord captures the policy acceptances given at signup.
type ConsentRecord struct {
	ID               string `gorm:"primaryKey;size:50"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	UserID           string `gorm:"size:50;index;not null"`
	ConsentGDPR      bool   `gorm:"not null"`
	ConsentTerms     bool   `gorm:"not null"`
	ConsentPrivacy   bool   `gorm:"not null"`
	ConsentMarketing bool   `gorm:"default:false"`
}
