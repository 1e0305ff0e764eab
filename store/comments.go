package store

import (
	"context"
	"time"

	"blog-service/models"

	"github.com/pkg/errors"
)

const commentSelect = `SELECT c.id, c.content, c.created_at, c.updated_at,
	u.id AS author_id, u.username AS author_username, u.email AS author_email, u.created_at AS author_created_at,
	c.post_id
	FROM comments c
	JOIN users u ON u.id = c.author_id`

type commentRow struct {
	ID              int64     `db:"id"`
	Content         string    `db:"content"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
	AuthorID        int64     `db:"author_id"`
	AuthorUsername  string    `db:"author_username"`
	AuthorEmail     string    `db:"author_email"`
	AuthorCreatedAt time.Time `db:"author_created_at"`
	PostID          int64     `db:"post_id"`
}

func (r commentRow) toComment(post *models.Post) models.Comment {
	return models.Comment{
		ID:        r.ID,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Author: &models.User{
			ID:        r.AuthorID,
			Username:  r.AuthorUsername,
			Email:     r.AuthorEmail,
			CreatedAt: r.AuthorCreatedAt,
		},
		Post: post,
	}
}

// ListCommentsByPost returns the comments of post in insertion order
func (s *Store) ListCommentsByPost(ctx context.Context, post *models.Post) ([]models.Comment, error) {
	var rows []commentRow
	if err := s.db.SelectContext(ctx, &rows, commentSelect+" WHERE c.post_id = ? ORDER BY c.id", post.ID); err != nil {
		return nil, errors.Wrap(err, "query comments")
	}

	comments := make([]models.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, row.toComment(post))
	}
	return comments, nil
}

// GetComment loads a comment together with its author and post
func (s *Store) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	var row commentRow
	if err := s.db.GetContext(ctx, &row, commentSelect+" WHERE c.id = ?", id); err != nil {
		return nil, notFound(err, "get comment")
	}

	post, err := s.GetPost(ctx, row.PostID)
	if err != nil {
		return nil, err
	}
	comment := row.toComment(post)
	return &comment, nil
}

// CreateComment inserts c under c.Post by c.Author and sets its ID and timestamps
func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	if c.Author == nil || c.Post == nil {
		return ErrAuthorMissing
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO comments (content, post_id, author_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		c.Content, c.Post.ID, c.Author.ID, now, now)
	if err != nil {
		if foreignKeyViolation(err) {
			return ErrAuthorMissing
		}
		return errors.Wrap(err, "insert comment")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "read comment id")
	}
	c.ID = id
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

// UpdateCommentContent replaces the content of a comment; author and post are untouched
func (s *Store) UpdateCommentContent(ctx context.Context, id int64, content string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE comments SET content = ?, updated_at = ? WHERE id = ?",
		content, time.Now().UTC(), id)
	if err != nil {
		return errors.Wrap(err, "update comment")
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM comments WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "delete comment")
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
