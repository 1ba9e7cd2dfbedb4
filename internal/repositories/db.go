package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/dib506676/fast-api/internal/config"
	"github.com/dib506676/fast-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	connectAttempts = 5
	connectDelay    = 500 * time.Millisecond
	connectMaxDelay = 5 * time.Second
)

// Connect opens the postgres pool described by cfg.DB_URL, retrying with
// backoff while the database comes up. Unique violations are translated to
// gorm.ErrDuplicatedKey.
func Connect(ctx context.Context, cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	if cfg.DB_URL == "" {
		return nil, fmt.Errorf("DB_URL is not set")
	}

	logLevel := gormlogger.Warn
	if !cfg.IsProduction() {
		logLevel = gormlogger.Info
	}
	gcfg := &gorm.Config{
		Logger:         NewGormLogger(log, logLevel),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	delay := connectDelay
	for attempt := 1; ; attempt++ {
		db, err = gorm.Open(postgres.Open(cfg.DB_URL), gcfg)
		if err == nil {
			break
		}
		if attempt >= connectAttempts {
			return nil, fmt.Errorf("connect database after %d attempts: %w", attempt, err)
		}
		log.Warn("database not ready, retrying", zap.Int("attempt", attempt), zap.Duration("delay", delay), zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connect database: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay = min(delay*2, connectMaxDelay)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the users, blogs and comments tables together
// with their foreign keys.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Blog{},
		&models.Comment{},
	); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Close releases the underlying pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
