package models

import "time"

// AuditLog is an append-only record of auth events. Writes are
// fire-and-forget; a failed insert never fails the request.
type AuditLog struct {
	ID        string `gorm:"primaryKey;size:50"`
	CreatedAt time.Time `gorm:"index"`
	UserID    string    `gorm:"size:50;index"`
	Action    string    `gorm:"size:100;not null;index"` // e.g. USER_LOGIN
	Status    string    `gorm:"size:20"`                 // SUCCESS / FAILURE
	IPAddress string    `gorm:"size:45"`
}
