package models

import "time"

// Scan represents one uploaded label image and the ingredients read from it.
// Ingredients are stored as a JSON-encoded string array.
type Scan struct {
	ID          string `gorm:"primaryKey;size:50"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	UserID      string `gorm:"size:50;index;not null"`
	ImagePath   string `gorm:"size:512;not null"` // relative to upload base
	ContentType string `gorm:"size:128"`
	RawText     string `gorm:"type:text"`
	Ingredients string `gorm:"type:text"`
	// Mark scan as failed during extraction (record kept for review)
	Failed       bool   `gorm:"default:false;index"`
	FailedReason string `gorm:"size:255"`
}
