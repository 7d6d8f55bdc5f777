package models

import (
	"time"
)

// User model. IDs are UUID strings assigned by the service layer.
type User struct {
	ID           string `gorm:"primaryKey;size:50"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time `gorm:"index"`
	Email        string     `gorm:"size:255;not null;uniqueIndex"` // stored lowercased
	PasswordHash []byte     `gorm:"not null"`
	Name         string     `gorm:"size:100;not null"`
	LastLogin    *time.Time
	Scans        []Scan       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	PantryItems  []PantryItem `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
