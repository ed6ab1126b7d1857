package database

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"testing"
	"time"

	"comment-service/internal/config"
	"comment-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// openTestDB creates a temporary sqlite database with the schema applied.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	cfg := &config.Config{
		DBDriver:          config.DriverSQLite,
		DBDSN:             filepath.Join(t.TempDir(), "comments.db"),
		DBConnectAttempts: 1,
		DBCommandTimeout:  5 * time.Second,
	}
	db, err := Open(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	return db
}

func seedComments(t *testing.T, store *CommentStore, n int) []*models.Comment {
	t.Helper()
	var out []*models.Comment
	for i := 0; i < n; i++ {
		c, err := store.Create(context.Background(), 1, fmt.Sprintf("Comment %d", i))
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

func TestCommentStore_Create(t *testing.T) {
	store := NewCommentStore(openTestDB(t))

	c, err := store.Create(context.Background(), 7, "hi")
	require.NoError(t, err)

	assert.NotZero(t, c.ID)
	assert.Equal(t, int64(7), c.UserID)
	assert.Equal(t, "hi", c.Content)
	assert.False(t, c.CreatedAt.IsZero())
	assert.False(t, c.UpdatedAt.IsZero())
}

func TestCommentStore_GetByID(t *testing.T) {
	store := NewCommentStore(openTestDB(t))
	created := seedComments(t, store, 1)[0]

	first, err := store.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := store.GetByID(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, created.Content, first.Content)
}

func TestCommentStore_GetByIDMissing(t *testing.T) {
	store := NewCommentStore(openTestDB(t))

	c, err := store.GetByID(context.Background(), 9999)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestCommentStore_ListAll(t *testing.T) {
	store := NewCommentStore(openTestDB(t))

	empty, err := store.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	seedComments(t, store, 3)

	all, err := store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCommentStore_Paginate(t *testing.T) {
	store := NewCommentStore(openTestDB(t))
	seedComments(t, store, 15)

	page, err := store.Paginate(context.Background(), 2, 5, "created_at", "desc")
	require.NoError(t, err)

	assert.Len(t, page.Comments, 5)
	assert.Equal(t, int64(15), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.Limit)

	// second page of newest-first: comments 9..5
	assert.Equal(t, "Comment 9", page.Comments[0].Content)
	assert.Equal(t, "Comment 5", page.Comments[4].Content)
	for i := 1; i < len(page.Comments); i++ {
		assert.False(t, page.Comments[i].CreatedAt.After(page.Comments[i-1].CreatedAt))
	}
}

func TestCommentStore_PaginateNewestFirst(t *testing.T) {
	store := NewCommentStore(openTestDB(t))
	seedComments(t, store, 3)

	page, err := store.Paginate(context.Background(), 1, 3, "created_at", "desc")
	require.NoError(t, err)
	require.Len(t, page.Comments, 3)

	var got []string
	for _, c := range page.Comments {
		got = append(got, c.Content)
	}
	assert.Equal(t, []string{"Comment 2", "Comment 1", "Comment 0"}, got)
}

func TestCommentStore_PaginateSortFallback(t *testing.T) {
	store := NewCommentStore(openTestDB(t))
	seedComments(t, store, 6)

	want, err := store.Paginate(context.Background(), 1, 4, "created_at", "desc")
	require.NoError(t, err)

	tests := []struct {
		name  string
		sort  string
		order string
	}{
		{"unknown field", "dropTable", "desc"},
		{"injection attempt", "created_at; DROP TABLE comments", "desc"},
		{"unknown order", "created_at", "sideways"},
		{"empty values", "", ""},
		{"upper case order", "created_at", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Paginate(context.Background(), 1, 4, tt.sort, tt.order)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestCommentStore_PaginateAscending(t *testing.T) {
	store := NewCommentStore(openTestDB(t))
	seedComments(t, store, 3)

	page, err := store.Paginate(context.Background(), 1, 10, "updated_at", "asc")
	require.NoError(t, err)
	require.Len(t, page.Comments, 3)
	assert.Equal(t, "Comment 0", page.Comments[0].Content)
	assert.Equal(t, "Comment 2", page.Comments[2].Content)
}

func TestCommentStore_PaginateOutOfRange(t *testing.T) {
	store := NewCommentStore(openTestDB(t))
	seedComments(t, store, 3)

	page, err := store.Paginate(context.Background(), 5, 10, "created_at", "desc")
	require.NoError(t, err)
	assert.Empty(t, page.Comments)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 5, page.Page)
}

func TestCommentStore_PaginateHugePage(t *testing.T) {
	store := NewCommentStore(openTestDB(t))
	seedComments(t, store, 3)

	for _, p := range []int{math.MaxInt, 200000000000000000} {
		page, err := store.Paginate(context.Background(), p, 100, "created_at", "desc")
		require.NoError(t, err)
		assert.Empty(t, page.Comments, "page %d", p)
		assert.Equal(t, int64(3), page.Total)
		assert.Equal(t, p, page.Page)
	}
}

func TestPageOffset(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        int
		wantOK      bool
	}{
		{"first page", 1, 10, 0, true},
		{"second page", 2, 5, 5, true},
		{"zero page", 0, 10, 0, true},
		{"largest representable", math.MaxInt/100 + 1, 100, math.MaxInt / 100 * 100, true},
		{"overflow", math.MaxInt/100 + 2, 100, 0, false},
		{"max int", math.MaxInt, 100, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pageOffset(tt.page, tt.limit)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommentStore_Update(t *testing.T) {
	store := NewCommentStore(openTestDB(t))
	created := seedComments(t, store, 1)[0]

	updated, err := store.Update(context.Background(), &models.Comment{ID: created.ID, Content: "X"})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.UserID, updated.UserID)
	assert.Equal(t, "X", updated.Content)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt), "updated_at %v should be after %v", updated.UpdatedAt, created.UpdatedAt)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
}

func TestCommentStore_UpdateMissing(t *testing.T) {
	store := NewCommentStore(openTestDB(t))

	updated, err := store.Update(context.Background(), &models.Comment{ID: 4242, Content: "X"})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestCommentStore_ClosedExecutor(t *testing.T) {
	db := openTestDB(t)
	store := NewCommentStore(db)
	require.NoError(t, db.Close())

	_, err := store.Create(context.Background(), 1, "hi")
	assert.ErrorIs(t, err, models.ErrStorage)

	_, err = store.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, models.ErrStorage)

	_, err = store.Paginate(context.Background(), 1, 10, "created_at", "desc")
	assert.ErrorIs(t, err, models.ErrStorage)
}

func TestNormalizeSort(t *testing.T) {
	tests := []struct {
		field, order string
		wantField    string
		wantDesc     bool
	}{
		{"created_at", "desc", "created_at", true},
		{"updated_at", "asc", "updated_at", false},
		{"updated_at", "ASC", "updated_at", false},
		{"dropTable", "asc", "created_at", false},
		{"post_id", "desc", "created_at", true},
		{"created_at", "random", "created_at", true},
	}

	for _, tt := range tests {
		t.Run(tt.field+"_"+tt.order, func(t *testing.T) {
			field, desc := normalizeSort(tt.field, tt.order)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}
