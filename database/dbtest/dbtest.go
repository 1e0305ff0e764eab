// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"testing"

	"blog-service/database"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// New opens a private in-memory SQLite database with the schema applied.
// The pool is pinned to one connection so every query sees the same database.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	dbConn, err := sqlx.Connect("sqlite3", "file::memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	dbConn.SetMaxOpenConns(1)

	if err := database.ApplySchema(dbConn); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	t.Cleanup(func() { dbConn.Close() })
	return dbConn
}
