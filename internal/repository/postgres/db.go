package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Open connects to postgres and verifies the connection.
func Open(ctx context.Context, dsn string, maxOpenConns int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}

	maxOpen, maxIdle := poolSize(maxOpenConns)
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// poolSize keeps at least one idle connection so a single-connection pool is reused.
func poolSize(maxOpenConns int) (maxOpen, maxIdle int) {
	if maxOpenConns <= 0 {
		maxOpenConns = 5
	}
	return maxOpenConns, max(1, maxOpenConns/2)
}
