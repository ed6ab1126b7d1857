package service

import (
	"context"

	"comment-service/internal/models"
)

const (
	DefaultLogLimit = 50
	MaxLogLimit     = 200
)

type LogReader interface {
	List(ctx context.Context, limit int) ([]models.LogEntry, error)
}

// LogService exposes the audit journal read-only.
type LogService struct {
	logs LogReader
}

func NewLogService(logs LogReader) *LogService {
	return &LogService{logs: logs}
}

// ListLogs returns the newest entries first. limit is clamped to
// 1..MaxLogLimit; zero means DefaultLogLimit.
func (s *LogService) ListLogs(ctx context.Context, limit int) ([]models.LogEntry, error) {
	switch {
	case limit == 0:
		limit = DefaultLogLimit
	case limit < 1:
		limit = 1
	case limit > MaxLogLimit:
		limit = MaxLogLimit
	}
	return s.logs.List(ctx, limit)
}
