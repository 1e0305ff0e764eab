package store

import (
	"context"
	"time"

	"blog-service/models"

	"github.com/pkg/errors"
)

const userColumns = "id, username, email, password, created_at"

// CreateUser inserts u and sets its ID and CreatedAt
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.CreatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password, created_at) VALUES (?, ?, ?, ?)",
		u.Username, u.Email, u.Password, u.CreatedAt)
	if err != nil {
		if column, ok := uniqueViolation(err); ok {
			if column == "email" {
				return ErrEmailTaken
			}
			return ErrUsernameTaken
		}
		return errors.Wrap(err, "insert user")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "read user id")
	}
	u.ID = id
	return nil
}

// EnsureUser returns the user named u.Username, inserting u first if it is absent.
// Concurrent callers converge on the same row. It returns ErrEmailTaken when
// the username is free but another user already owns u.Email.
func (s *Store) EnsureUser(ctx context.Context, u *models.User) (*models.User, error) {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password, created_at) VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING",
		u.Username, u.Email, u.Password, time.Now().UTC())
	if err != nil {
		return nil, errors.Wrap(err, "ensure user")
	}

	user, err := s.GetUserByUsername(ctx, u.Username)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrEmailTaken
	}
	return user, err
}

func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	if err != nil {
		return nil, notFound(err, "get user")
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
	if err != nil {
		return nil, notFound(err, "get user by username")
	}
	return &u, nil
}

func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE username = ?)", username)
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE email = ?)", email)
}

func (s *Store) UserExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)", id)
}

func (s *Store) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var found bool
	if err := s.db.GetContext(ctx, &found, query, arg); err != nil {
		return false, errors.Wrap(err, "exists query")
	}
	return found, nil
}
