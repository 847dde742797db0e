package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/tursodatabase/go-libsql"
)

// Open creates a SQLite connection via libSQL, configured for concurrent
// use: WAL journal mode, a 5 s busy timeout, and foreign keys enabled.
// The busy timeout matters here because session joins contend on the same
// row and must queue rather than fail.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// PRAGMAs are per-connection, so the pool is capped at one connection.
	// With a larger pool the settings below would only hold on whichever
	// connection happened to run them, and concurrent writers on the bare
	// connections would surface SQLITE_BUSY instead of queueing.
	db.SetMaxOpenConns(1)

	// libSQL rejects Exec for PRAGMAs that return rows, while others return
	// nothing. QueryContext with a drained rows handles both uniformly.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
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
