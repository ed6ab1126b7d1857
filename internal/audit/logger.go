// Package audit records user actions in the append-only logs journal.
package audit

import (
	"context"
	"time"

	"comment-service/internal/models"

	"go.uber.org/zap"
)

// EntryStore persists audit entries.
type EntryStore interface {
	Append(ctx context.Context, entry *models.LogEntry) error
}

// Publisher mirrors stored entries to an external consumer.
type Publisher interface {
	Publish(ctx context.Context, entry *models.LogEntry) error
}

// Logger writes audit entries synchronously. A store failure is returned
// to the caller; a publish failure is only logged.
type Logger struct {
	store     EntryStore
	publisher Publisher
	log       *zap.Logger
	now       func() time.Time
}

// NewLogger builds a Logger. publisher may be nil.
func NewLogger(store EntryStore, publisher Publisher, log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{
		store:     store,
		publisher: publisher,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// LogAction appends one entry. When ts is nil the entry is stamped with
// the current time.
func (l *Logger) LogAction(ctx context.Context, userID *int64, action string, ts *time.Time) error {
	entry := &models.LogEntry{
		UserID: userID,
		Action: action,
	}
	if ts != nil {
		entry.Timestamp = ts.UTC()
	} else {
		entry.Timestamp = l.now()
	}

	if err := l.store.Append(ctx, entry); err != nil {
		return err
	}

	if l.publisher != nil {
		if err := l.publisher.Publish(ctx, entry); err != nil {
			l.log.Warn("publishing audit entry",
				zap.Int64("log_id", entry.ID),
				zap.String("action", action),
				zap.Error(err),
			)
		}
	}
	return nil
}
