package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"comment-service/internal/audit"
	"comment-service/internal/config"
	"comment-service/internal/database"
	"comment-service/internal/logging"
	"comment-service/internal/metrics"
	"comment-service/internal/server"
	"comment-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long:  "Connect to the database, apply the schema and serve the comment API until SIGINT or SIGTERM.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.ServerPort = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "port to listen on (overrides SERVER_PORT)")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("closing database", zap.Error(err))
		}
	}()

	m := metrics.New()
	logStore := database.NewLogStore(db)

	var publisher audit.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaAuditTopic)
		defer func() {
			if err := kp.Close(); err != nil {
				log.Warn("closing kafka writer", zap.Error(err))
			}
		}()
		publisher = kp
		log.Info("mirroring audit entries to kafka",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaAuditTopic),
		)
	}

	auditLogger := audit.NewLogger(logStore, publisher, log)

	var recorder service.AuditRecorder = auditLogger
	if cfg.AuditMode == config.AuditModeAsync {
		d := audit.NewDispatcher(auditLogger, log,
			audit.WithQueueSize(cfg.AuditQueueSize),
			audit.WithWriteTimeout(cfg.DBAcquireTimeout+cfg.DBCommandTimeout),
			audit.WithFailureCounter(m),
		)
		defer func() {
			drainCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := d.Close(drainCtx); err != nil {
				log.Warn("audit queue not drained", zap.Error(err))
			}
		}()
		recorder = d
	}

	router := server.NewRouter(server.Deps{
		Comments: service.NewCommentService(database.NewCommentStore(db), recorder, log),
		Logs:     service.NewLogService(logStore),
		DB:       db,
		Metrics:  m,
		Log:      log,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server",
			zap.String("addr", srv.Addr),
			zap.String("audit_mode", cfg.AuditMode),
			zap.String("version", Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server exited")
	return nil
}
