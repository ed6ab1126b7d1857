// Package service holds the comment and audit-log use cases between the
// HTTP handlers and the stores.
package service

import (
	"context"
	"fmt"
	"time"

	"comment-service/internal/models"

	"go.uber.org/zap"
)

const (
	ActionCreateComment = "create_comment"
	ActionUpdateComment = "update_comment"

	DefaultPage      = 1
	DefaultLimit     = 10
	DefaultSortField = "created_at"
	DefaultSortOrder = "desc"
)

// ErrEmptyPage is returned when a paginated listing has no rows. It still
// matches models.ErrNotFound so callers that only care about "nothing
// there" keep working.
var ErrEmptyPage = fmt.Errorf("comment page is empty: %w", models.ErrNotFound)

// CommentStore is the persistence contract for comments.
type CommentStore interface {
	Create(ctx context.Context, userID int64, content string) (*models.Comment, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	ListAll(ctx context.Context) ([]models.Comment, error)
	Paginate(ctx context.Context, page, limit int, sortField, sortOrder string) (*models.CommentPage, error)
	Update(ctx context.Context, c *models.Comment) (*models.Comment, error)
}

// AuditRecorder writes one audit entry. audit.Logger and audit.Dispatcher
// both implement it.
type AuditRecorder interface {
	LogAction(ctx context.Context, userID *int64, action string, ts *time.Time) error
}

// PageQuery selects one page. Zero values take the defaults above.
type PageQuery struct {
	Page  int
	Limit int
	Sort  string
	Order string
}

func (q PageQuery) withDefaults() PageQuery {
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.Sort == "" {
		q.Sort = DefaultSortField
	}
	if q.Order == "" {
		q.Order = DefaultSortOrder
	}
	return q
}

type CommentService struct {
	store CommentStore
	audit AuditRecorder
	log   *zap.Logger
}

func NewCommentService(store CommentStore, audit AuditRecorder, log *zap.Logger) *CommentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CommentService{store: store, audit: audit, log: log}
}

// CreateComment stores a comment and records create_comment for its author.
// Nothing is logged when the store fails.
func (s *CommentService) CreateComment(ctx context.Context, userID int64, content string) (*models.Comment, error) {
	c, err := s.store.Create(ctx, userID, content)
	if err != nil {
		return nil, err
	}

	if err := s.audit.LogAction(ctx, &userID, ActionCreateComment, nil); err != nil {
		return nil, fmt.Errorf("recording %s: %w", ActionCreateComment, err)
	}

	s.log.Debug("comment created", zap.Int64("post_id", c.ID), zap.Int64("user_id", userID))
	return c, nil
}

// ListPaginated returns ErrEmptyPage when the requested page holds no rows.
func (s *CommentService) ListPaginated(ctx context.Context, q PageQuery) (*models.CommentPage, error) {
	q = q.withDefaults()

	page, err := s.store.Paginate(ctx, q.Page, q.Limit, q.Sort, q.Order)
	if err != nil {
		return nil, err
	}
	if page == nil || len(page.Comments) == 0 {
		return nil, ErrEmptyPage
	}
	return page, nil
}

func (s *CommentService) ListAll(ctx context.Context) ([]models.Comment, error) {
	return s.store.ListAll(ctx)
}

func (s *CommentService) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("comment %d: %w", id, models.ErrNotFound)
	}
	return c, nil
}

// UpdateComment replaces the content of comment id. A nil or empty content
// leaves the text alone and writes no audit entry, but the row is still
// persisted so updated_at moves. The update_comment entry is recorded
// before the write and is attributed to the comment's author.
func (s *CommentService) UpdateComment(ctx context.Context, id int64, content *string) (*models.Comment, error) {
	c, err := s.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}

	if content != nil && *content != "" {
		c.Content = *content
		author := c.UserID
		if err := s.audit.LogAction(ctx, &author, ActionUpdateComment, nil); err != nil {
			return nil, fmt.Errorf("recording %s: %w", ActionUpdateComment, err)
		}
	}

	updated, err := s.store.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// deleted between the read and the write
		return nil, fmt.Errorf("comment %d: %w", id, models.ErrNotFound)
	}
	return updated, nil
}
