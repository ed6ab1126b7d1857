package server

import (
	"comment-service/internal/handlers"
	"comment-service/internal/metrics"
	"comment-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the collaborators the router hands to its handlers.
type Deps struct {
	Comments handlers.CommentService
	Logs     handlers.LogService
	DB       handlers.Pinger
	Metrics  *metrics.Metrics
	Log      *zap.Logger
}

func NewRouter(d Deps) *gin.Engine {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	// COMMENTS
	handlers.NewCommentHandler(d.Comments, log).RegisterRoutes(r)

	// AUDIT
	handlers.NewLogHandler(d.Logs, log).RegisterRoutes(r)

	// HEALTHCHECK
	r.GET("/health", handlers.Health(d.DB))

	return r
}
