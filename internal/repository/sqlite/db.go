package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Open opens (or creates) a sqlite database at the given path and ensures directories exist.
// In-memory DSNs ("file:name?mode=memory&cache=shared", ":memory:") skip the directory step.
func Open(path string, maxOpenConns int) (*sql.DB, error) {
	if !isMemory(path) {
		if err := os.MkdirAll(filepath.Dir(strings.TrimPrefix(path, "file:")), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", withForeignKeys(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if maxOpenConns <= 0 {
		maxOpenConns = 1
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxOpenConns)

	return db, nil
}

// withForeignKeys adds the foreign_keys pragma to the DSN so the driver runs it
// on every new connection of the pool.
func withForeignKeys(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}
