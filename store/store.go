package store

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	pkgerrors "github.com/pkg/errors"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrUsernameTaken = errors.New("username is already taken")
	ErrEmailTaken    = errors.New("email is already registered")
	ErrAuthorMissing = errors.New("author does not exist")
)

// Store is the persistence layer for users, posts and comments
type Store struct {
	db *sqlx.DB
}

// New creates a store on top of an open connection
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// notFound maps sql.ErrNoRows to ErrNotFound and wraps anything else
func notFound(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return pkgerrors.Wrap(err, msg)
}

// uniqueViolation reports which UNIQUE column a SQLite constraint error refers to
func uniqueViolation(err error) (string, bool) {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique {
		return "", false
	}
	// Message form: "UNIQUE constraint failed: users.username"
	msg := sqliteErr.Error()
	if i := strings.LastIndex(msg, "."); i >= 0 {
		return msg[i+1:], true
	}
	return "", true
}

// foreignKeyViolation reports whether err is a SQLite FOREIGN KEY failure
func foreignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}
