package models

import "time"

// LogEntry is an append-only audit record. UserID is nil for system actions.
type LogEntry struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    *int64    `gorm:"column:user_id;index" json:"user_id"`
	Action    string    `gorm:"size:64;not null;index" json:"action"` // "create_comment", "update_comment"
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}

func (LogEntry) TableName() string {
	return "logs"
}
