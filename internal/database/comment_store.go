package database

import (
	"context"
	"errors"
	"math"
	"strings"

	"comment-service/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultSortField = "created_at"
	defaultSortOrder = "desc"
)

// only these columns may appear in ORDER BY
var sortableFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
}

// CommentStore maps the comments table to models.Comment.
type CommentStore struct {
	db *DB
}

func NewCommentStore(db *DB) *CommentStore {
	return &CommentStore{db: db}
}

// Create inserts a comment and returns it with the store-assigned ID and
// timestamps.
func (s *CommentStore) Create(ctx context.Context, userID int64, content string) (*models.Comment, error) {
	tx, cancel := s.db.WithContext(ctx)
	defer cancel()

	c := models.Comment{UserID: userID, Content: content}
	if err := tx.Create(&c).Error; err != nil {
		return nil, storageErr("inserting comment", err)
	}
	return &c, nil
}

// GetByID returns nil, nil when no comment has the given ID.
func (s *CommentStore) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	tx, cancel := s.db.WithContext(ctx)
	defer cancel()

	var c models.Comment
	err := tx.Where("post_id = ?", id).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("querying comment", err)
	}
	return &c, nil
}

// ListAll returns every comment in storage order. Unbounded.
func (s *CommentStore) ListAll(ctx context.Context) ([]models.Comment, error) {
	tx, cancel := s.db.WithContext(ctx)
	defer cancel()

	comments := []models.Comment{}
	if err := tx.Find(&comments).Error; err != nil {
		return nil, storageErr("listing comments", err)
	}
	return comments, nil
}

// Paginate returns one page of comments and the total row count.
//
// Unknown sort fields fall back to created_at and unknown orders to desc.
// A page past the end yields an empty slice, not an error. Rows and total
// are read by two separate queries outside a transaction, so a concurrent
// write can make them disagree.
func (s *CommentStore) Paginate(ctx context.Context, page, limit int, sortField, sortOrder string) (*models.CommentPage, error) {
	field, desc := normalizeSort(sortField, sortOrder)

	tx, cancel := s.db.WithContext(ctx)
	defer cancel()

	comments := []models.Comment{}
	if offset, ok := pageOffset(page, limit); ok {
		err := tx.
			Order(clause.OrderByColumn{Column: clause.Column{Name: field}, Desc: desc}).
			Order(clause.OrderByColumn{Column: clause.Column{Name: "post_id"}, Desc: desc}).
			Limit(limit).
			Offset(offset).
			Find(&comments).Error
		if err != nil {
			return nil, storageErr("paginating comments", err)
		}
	}

	var total int64
	if err := tx.Model(&models.Comment{}).Count(&total).Error; err != nil {
		return nil, storageErr("counting comments", err)
	}

	return &models.CommentPage{
		Comments: comments,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

// pageOffset returns (page-1)*limit, or false when the product does not
// fit in an int. Such a page is past the end of any table.
func pageOffset(page, limit int) (int, bool) {
	if page <= 1 || limit < 1 {
		return 0, true
	}
	if page-1 > math.MaxInt/limit {
		return 0, false
	}
	return (page - 1) * limit, true
}

// Update replaces the content and refreshes updated_at. It returns nil, nil
// when the comment does not exist.
func (s *CommentStore) Update(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	db, cancel := s.db.WithContext(ctx)
	defer cancel()

	var updated models.Comment
	found := true
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Comment{}).
			Where("post_id = ?", c.ID).
			Updates(map[string]interface{}{
				"content":    c.Content,
				"updated_at": tx.NowFunc(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			found = false
			return nil
		}
		return tx.Where("post_id = ?", c.ID).Take(&updated).Error
	})
	if err != nil {
		return nil, storageErr("updating comment", err)
	}
	if !found {
		return nil, nil
	}
	return &updated, nil
}

func normalizeSort(field, order string) (string, bool) {
	if !sortableFields[field] {
		field = defaultSortField
	}
	order = strings.ToLower(order)
	if order != "asc" && order != "desc" {
		order = defaultSortOrder
	}
	return field, order == "desc"
}
