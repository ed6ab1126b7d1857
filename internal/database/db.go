package database

import (
	"context"
	"fmt"
	"time"

	"comment-service/internal/config"
	"comment-service/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	defaultCallTimeout = 70 * time.Second
	connectRetryDelay  = 2 * time.Second
)

// DB is the query executor shared by the stores. Every call made through
// WithContext is bounded by the configured acquire + command budget.
type DB struct {
	gorm    *gorm.DB
	timeout time.Duration
}

// New wraps an already opened gorm handle.
func New(g *gorm.DB, callTimeout time.Duration) *DB {
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}
	return &DB{gorm: g, timeout: callTimeout}
}

// Open connects to the configured database, applies pool settings and
// creates the comments and logs tables when missing. The caller owns the
// returned DB and must Close it.
func Open(cfg *config.Config, log *zap.Logger) (*DB, error) {
	gormCfg := &gorm.Config{
		SkipDefaultTransaction: true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
		Logger: gormlogger.New(gormWriter{log.Sugar()}, gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	attempts := cfg.DBConnectAttempts
	if attempts < 1 {
		attempts = 1
	}

	var (
		g   *gorm.DB
		err error
	)
	for i := 1; i <= attempts; i++ {
		log.Info("connecting to database",
			zap.String("driver", cfg.DBDriver),
			zap.Int("attempt", i),
			zap.Int("max_attempts", attempts),
		)

		g, err = connect(cfg, gormCfg)
		if err == nil {
			break
		}

		log.Warn("database connection failed", zap.Error(err))
		if i < attempts {
			time.Sleep(connectRetryDelay)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to database after %d attempts: %w", attempts, err)
	}

	if err := g.AutoMigrate(&models.Comment{}, &models.LogEntry{}); err != nil {
		closeQuietly(g)
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	log.Info("connected to database")
	return New(g, cfg.DBAcquireTimeout+cfg.DBCommandTimeout), nil
}

func connect(cfg *config.Config, gormCfg *gorm.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DBDSN)
	default:
		dialector = postgres.Open(cfg.DBDSN)
	}

	g, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := g.DB()
	if err != nil {
		return nil, err
	}

	maxOpen := cfg.DBMaxOpenConns
	if cfg.DBDriver == config.DriverSQLite {
		// one writer at a time, otherwise sqlite reports "database is locked"
		maxOpen = 1
	}
	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if cfg.DBMaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}

	connectTimeout := cfg.DBConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		closeQuietly(g)
		return nil, err
	}

	return g, nil
}

// WithContext returns a gorm session bound to ctx plus the per-call deadline.
// The cancel func must always be called.
func (d *DB) WithContext(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	return d.gorm.WithContext(ctx), cancel
}

// Ping checks that a connection can be acquired.
func (d *DB) Ping(ctx context.Context) error {
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (d *DB) Close() error {
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func closeQuietly(g *gorm.DB) {
	if sqlDB, err := g.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", models.ErrStorage, op, err)
}

// gormWriter routes gorm's own warnings (slow queries, errors) to zap.
type gormWriter struct {
	log *zap.SugaredLogger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warnf(format, args...)
}
