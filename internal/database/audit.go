package database

import (
	"context"

	"comment-service/internal/models"

	"gorm.io/gorm/clause"
)

// LogStore writes and reads the audit journal (logs table). Entries are
// never updated or deleted.
type LogStore struct {
	db *DB
}

func NewLogStore(db *DB) *LogStore {
	return &LogStore{db: db}
}

// Append stores one entry; entry.ID is filled in on success.
func (s *LogStore) Append(ctx context.Context, entry *models.LogEntry) error {
	tx, cancel := s.db.WithContext(ctx)
	defer cancel()

	if err := tx.Create(entry).Error; err != nil {
		return storageErr("inserting log entry", err)
	}
	return nil
}

// List returns up to limit entries, newest first.
func (s *LogStore) List(ctx context.Context, limit int) ([]models.LogEntry, error) {
	tx, cancel := s.db.WithContext(ctx)
	defer cancel()

	entries := []models.LogEntry{}
	err := tx.
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true}).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, storageErr("listing log entries", err)
	}
	return entries, nil
}
