package store

import (
	"context"
	"time"

	"blog-service/models"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const postSelect = `SELECT p.id, p.title, p.content, p.category, p.created_at, p.updated_at,
	u.id AS author_id, u.username AS author_username, u.email AS author_email, u.created_at AS author_created_at
	FROM posts p
	JOIN users u ON u.id = p.author_id`

// postRow is one posts row joined with its author
type postRow struct {
	ID             int64     `db:"id"`
	Title          string    `db:"title"`
	Content        string    `db:"content"`
	Category       string    `db:"category"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
	AuthorID       int64     `db:"author_id"`
	AuthorUsername string    `db:"author_username"`
	AuthorEmail    string    `db:"author_email"`
	AuthorCreated  time.Time `db:"author_created_at"`
}

func (r postRow) toPost() models.Post {
	return models.Post{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Category:  r.Category,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Author: &models.User{
			ID:        r.AuthorID,
			Username:  r.AuthorUsername,
			Email:     r.AuthorEmail,
			CreatedAt: r.AuthorCreated,
		},
	}
}

type tagRow struct {
	PostID int64  `db:"post_id"`
	Tag    string `db:"tag"`
}

func (s *Store) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.queryPosts(ctx, postSelect+" ORDER BY p.id")
}

func (s *Store) ListPostsByCategory(ctx context.Context, category string) ([]models.Post, error) {
	return s.queryPosts(ctx, postSelect+" WHERE p.category = ? ORDER BY p.id", category)
}

// ListPostsByTag returns posts whose tag list contains tag exactly (case-sensitive)
func (s *Store) ListPostsByTag(ctx context.Context, tag string) ([]models.Post, error) {
	return s.queryPosts(ctx, postSelect+
		" WHERE p.id IN (SELECT post_id FROM post_tags WHERE tag = ?) ORDER BY p.id", tag)
}

func (s *Store) ListPostsByAuthor(ctx context.Context, authorID int64) ([]models.Post, error) {
	return s.queryPosts(ctx, postSelect+" WHERE p.author_id = ? ORDER BY p.id", authorID)
}

func (s *Store) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	var row postRow
	if err := s.db.GetContext(ctx, &row, postSelect+" WHERE p.id = ?", id); err != nil {
		return nil, notFound(err, "get post")
	}

	post := row.toPost()
	tags, err := s.loadTags(ctx, []int64{post.ID})
	if err != nil {
		return nil, err
	}
	post.Tags = tags[post.ID]
	return &post, nil
}

func (s *Store) PostExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, "SELECT EXISTS (SELECT 1 FROM posts WHERE id = ?)", id)
}

func (s *Store) PostTitleExists(ctx context.Context, title string) (bool, error) {
	return s.exists(ctx, "SELECT EXISTS (SELECT 1 FROM posts WHERE title = ?)", title)
}

// CreatePost inserts p with its tags in one transaction and sets p.ID.
// p.Author must reference an existing user.
func (s *Store) CreatePost(ctx context.Context, p *models.Post) error {
	if p.Author == nil {
		return ErrAuthorMissing
	}

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO posts (title, content, category, author_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			p.Title, p.Content, p.Category, p.Author.ID, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			if foreignKeyViolation(err) {
				return ErrAuthorMissing
			}
			return errors.Wrap(err, "insert post")
		}

		id, err := result.LastInsertId()
		if err != nil {
			return errors.Wrap(err, "read post id")
		}
		p.ID = id
		return insertTags(ctx, tx, p.ID, p.Tags)
	})
}

// UpdatePost overwrites every stored field of p (tags included) in one transaction.
// It returns ErrNotFound without writing anything if p.ID does not exist.
func (s *Store) UpdatePost(ctx context.Context, p *models.Post) error {
	if p.Author == nil {
		return ErrAuthorMissing
	}

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE posts SET title = ?, content = ?, category = ?, author_id = ?, created_at = ?, updated_at = ?
			WHERE id = ?`,
			p.Title, p.Content, p.Category, p.Author.ID, p.CreatedAt, p.UpdatedAt, p.ID)
		if err != nil {
			if foreignKeyViolation(err) {
				return ErrAuthorMissing
			}
			return errors.Wrap(err, "update post")
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			return ErrNotFound
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM post_tags WHERE post_id = ?", p.ID); err != nil {
			return errors.Wrap(err, "clear post tags")
		}
		return insertTags(ctx, tx, p.ID, p.Tags)
	})
}

// DeletePost removes a post; its tags and comments are removed by cascade
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "delete post")
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) queryPosts(ctx context.Context, query string, args ...interface{}) ([]models.Post, error) {
	var rows []postRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "query posts")
	}

	posts := make([]models.Post, 0, len(rows))
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.toPost())
		ids = append(ids, row.ID)
	}

	tags, err := s.loadTags(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Tags = tags[posts[i].ID]
	}
	return posts, nil
}

// loadTags returns the ordered tag lists of the given posts keyed by post id
func (s *Store) loadTags(ctx context.Context, postIDs []int64) (map[int64][]string, error) {
	tags := make(map[int64][]string, len(postIDs))
	if len(postIDs) == 0 {
		return tags, nil
	}

	query, args, err := sqlx.In(
		"SELECT post_id, tag FROM post_tags WHERE post_id IN (?) ORDER BY post_id, position", postIDs)
	if err != nil {
		return nil, errors.Wrap(err, "build tag query")
	}

	var rows []tagRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "query post tags")
	}
	for _, row := range rows {
		tags[row.PostID] = append(tags[row.PostID], row.Tag)
	}
	return tags, nil
}

func insertTags(ctx context.Context, tx *sqlx.Tx, postID int64, tags []string) error {
	for position, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO post_tags (post_id, position, tag) VALUES (?, ?, ?)",
			postID, position, tag); err != nil {
			return errors.Wrap(err, "insert post tag")
		}
	}
	return nil
}

// inTx runs fn inside a transaction, committing only if fn succeeds
func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "commit transaction")
}
