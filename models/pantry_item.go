package models

import "time"

// PantryItem is an ingredient the user keeps at home, optionally linked to
// the scan it was confirmed from.
type PantryItem struct {
	ID           string `gorm:"primaryKey;size:50"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UserID       string  `gorm:"size:50;index;not null;uniqueIndex:idx_user_item"`
	Name         string  `gorm:"size:255;not null;uniqueIndex:idx_user_item"`
	Quantity     string  `gorm:"size:64"`
	SourceScanID *string `gorm:"size:50;index"`
}
