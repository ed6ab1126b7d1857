package handlers

import (
	"context"
	"net/http"
	"strconv"

	"comment-service/internal/models"
	"comment-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	minLimit = 1
	maxLimit = 100
)

// CommentService is the use-case surface the comment routes need.
type CommentService interface {
	CreateComment(ctx context.Context, userID int64, content string) (*models.Comment, error)
	ListPaginated(ctx context.Context, q service.PageQuery) (*models.CommentPage, error)
	ListAll(ctx context.Context) ([]models.Comment, error)
	GetComment(ctx context.Context, id int64) (*models.Comment, error)
	UpdateComment(ctx context.Context, id int64, content *string) (*models.Comment, error)
}

type CommentHandler struct {
	svc CommentService
	log *zap.Logger
}

func NewCommentHandler(svc CommentService, log *zap.Logger) *CommentHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CommentHandler{svc: svc, log: log}
}

type createCommentRequest struct {
	UserID  *int64 `json:"user_id" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type updateCommentRequest struct {
	Content *string `json:"content"`
}

func (h *CommentHandler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/comments")
	g.POST("/", h.Create)
	g.GET("/", h.List)
	g.GET("/all", h.ListAll)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
}

func (h *CommentHandler) Create(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	comment, err := h.svc.CreateComment(c.Request.Context(), *req.UserID, req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) ListAll(c *gin.Context) {
	comments, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// List serves GET /comments/?page=&limit=&sort=&order=.
func (h *CommentHandler) List(c *gin.Context) {
	page, ok := queryInt(c, "page", service.DefaultPage)
	if !ok || page < 1 {
		badRequest(c, "page must be an integer >= 1")
		return
	}
	limit, ok := queryInt(c, "limit", service.DefaultLimit)
	if !ok || limit < minLimit || limit > maxLimit {
		badRequest(c, "limit must be an integer between 1 and 100")
		return
	}

	result, err := h.svc.ListPaginated(c.Request.Context(), service.PageQuery{
		Page:  page,
		Limit: limit,
		Sort:  c.DefaultQuery("sort", service.DefaultSortField),
		Order: c.DefaultQuery("order", service.DefaultSortOrder),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CommentHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	comment, err := h.svc.GetComment(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	comment, err := h.svc.UpdateComment(c.Request.Context(), id, req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) fail(c *gin.Context, err error) {
	writeError(c, h.log, err)
}

func queryInt(c *gin.Context, key string, def int) (int, bool) {
	raw, present := c.GetQuery(key)
	if !present {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		badRequest(c, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
