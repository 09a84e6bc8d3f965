// Package storage is the record access layer over the SQLite box-score store.
package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a sql.DB for the box-score store.
type DB struct {
	conn     *sql.DB
	pushdown bool
}

// Option configures a DB.
type Option func(*DB)

// WithoutPushdown makes Totals fetch ordered events and aggregate in process
// instead of rendering the expression into SQL.
func WithoutPushdown() Option {
	return func(db *DB) { db.pushdown = false }
}

// Open opens (or creates) the SQLite database at the given path and applies the schema.
func Open(path string, opts ...Option) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise get its own empty database.
		conn.SetMaxOpenConns(1)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	db := &DB{conn: conn, pushdown: true}
	for _, opt := range opts {
		opt(db)
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the store is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}
