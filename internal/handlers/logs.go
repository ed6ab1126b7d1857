package handlers

import (
	"context"
	"net/http"

	"comment-service/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LogService interface {
	ListLogs(ctx context.Context, limit int) ([]models.LogEntry, error)
}

// LogHandler serves the audit journal read-only.
type LogHandler struct {
	svc LogService
	log *zap.Logger
}

func NewLogHandler(svc LogService, log *zap.Logger) *LogHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogHandler{svc: svc, log: log}
}

func (h *LogHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/logs", h.List)
}

func (h *LogHandler) List(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		badRequest(c, "limit must be an integer")
		return
	}

	logs, err := h.svc.ListLogs(c.Request.Context(), limit)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
