// Package orm wires GORM on top of an already opened *sql.DB and owns schema migration.
package orm

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	gormpostgres "gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"authrel-demo/internal/models"
	"authrel-demo/internal/repository/postgres"
	"authrel-demo/internal/repository/sqlite"
)

// Connect opens the raw connection pool for driver ("sqlite" or "postgres").
func Connect(ctx context.Context, driver, dsn string, maxOpenConns int) (*sql.DB, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn, maxOpenConns)
	case "postgres":
		return postgres.Open(ctx, dsn, maxOpenConns)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Open builds a *gorm.DB sharing sqlDB and registers the association join tables.
func Open(driver string, sqlDB *sql.DB, logger *logrus.Logger, logLevel string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = gormsqlite.New(gormsqlite.Config{Conn: sqlDB})
	case "postgres":
		dialector = gormpostgres.New(gormpostgres.Config{Conn: sqlDB})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newLogger(logger, logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	// both sides of the many-to-many use the association model so its count/unit_price columns exist
	if err := db.SetupJoinTable(&models.Order{}, "Products", &models.OrderProductAssociation{}); err != nil {
		return nil, fmt.Errorf("setup order products join table: %w", err)
	}
	if err := db.SetupJoinTable(&models.Product{}, "Orders", &models.OrderProductAssociation{}); err != nil {
		return nil, fmt.Errorf("setup product orders join table: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table of the schema.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func newLogger(logger *logrus.Logger, level string) gormlogger.Interface {
	if logger == nil {
		return gormlogger.Discard
	}

	lvl := gormlogger.Warn
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		lvl = gormlogger.Silent
	case "error":
		lvl = gormlogger.Error
	case "info":
		lvl = gormlogger.Info
	}

	return gormlogger.New(logger, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
	})
}
