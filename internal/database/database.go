package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/tursodatabase/go-libsql"
)

const memory = ":memory:"

// IsRemote reports whether path names a hosted libSQL database rather than
// a local file.
func IsRemote(path string) bool {
	return strings.HasPrefix(path, "libsql://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "http://")
}

// IsFile reports whether path is a database file on local disk.
func IsFile(path string) bool { return path != memory && !IsRemote(path) }

func dsn(path string) string {
	if IsFile(path) {
		return "file:" + path
	}
	return path
}

// pragmas returns the connection settings for path. Hosted databases are
// configured server side. WAL needs a real file.
func pragmas(path string) []string {
	switch {
	case IsRemote(path):
		return nil
	case path == memory:
		return []string{"PRAGMA busy_timeout=5000", "PRAGMA foreign_keys=ON"}
	}
	return []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000", "PRAGMA foreign_keys=ON"}
}

// Open connects to the game database via libSQL. path is a file path,
// ":memory:" or a libsql:// URL with its auth token in the query string.
// An in-memory database is pinned to one connection so every query sees
// the same data.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("libsql", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == memory {
		db.SetMaxOpenConns(1)
	}

	// libSQL rejects Exec for PRAGMAs that return rows, so run them all as
	// queries and drain.
	for _, p := range pragmas(path) {
		rows, err := db.QueryContext(ctx, p)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("executing %s: %w", p, err)
		}
		rows.Close()
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}
