package handlers

import (
	"errors"
	"net/http"

	"comment-service/internal/middleware"
	"comment-service/internal/models"
	"comment-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// writeError maps domain errors to status codes. Storage and unknown
// errors become an opaque 500 and are logged with the request id.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyPage):
		c.JSON(http.StatusNotFound, gin.H{"error": "no comments on this page"})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		log.Error("request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// bindError answers a body that failed to decode or validate.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  models.ErrValidation.Error(),
			"fields": fields,
		})
		return
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "malformed request body"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
