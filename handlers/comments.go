package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"blog-service/models"
	"blog-service/store"

	"github.com/pkg/errors"
	"github.com/umakantv/go-utils/errs"
	"go.uber.org/zap"
)

// CommentHandler handles comments. Responses carry the raw comment
// with its author and post nested, not a DTO.
type CommentHandler struct {
	store *store.Store
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(st *store.Store) *CommentHandler {
	return &CommentHandler{store: st}
}

// ListByPost handles GET /comments/post/{id}
func (h *CommentHandler) ListByPost(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}

	post, ok := h.loadPost(ctx, w, postID)
	if !ok {
		return
	}

	comments, err := h.store.ListCommentsByPost(ctx, post)
	if err != nil {
		internalError(ctx, w, "Database error", err)
		return
	}

	logRequest(ctx, "info", "Comments retrieved", zap.Int64("post_id", postID), zap.Int("count", len(comments)))
	writeJSON(w, http.StatusOK, comments)
}

// CreateComment handles POST /comments/post/{id}
func (h *CommentHandler) CreateComment(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}

	var req models.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError("Invalid JSON"))
		return
	}

	post, ok := h.loadPost(ctx, w, postID)
	if !ok {
		return
	}

	if req.Author == nil || req.Author.ID == nil {
		logRequest(ctx, "error", "Comment without author", zap.Int64("post_id", postID))
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError("Comment author is required"))
		return
	}

	author, err := h.store.GetUser(ctx, *req.Author.ID)
	if errors.Is(err, store.ErrNotFound) {
		logRequest(ctx, "error", "Comment author not found", zap.Int64("author_id", *req.Author.ID))
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError("Comment author not found"))
		return
	}
	if err != nil {
		internalError(ctx, w, "Database error", err)
		return
	}

	comment := &models.Comment{Content: req.Content, Author: author, Post: post}
	err = h.store.CreateComment(ctx, comment)
	if errors.Is(err, store.ErrAuthorMissing) {
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError("Comment author not found"))
		return
	}
	if err != nil {
		internalError(ctx, w, "Failed to create comment", err)
		return
	}

	logRequest(ctx, "info", "Comment created", zap.Int64("comment_id", comment.ID), zap.Int64("post_id", postID))
	writeJSON(w, http.StatusOK, comment)
}

// UpdateComment handles PUT /comments/{id}; only the content changes
func (h *CommentHandler) UpdateComment(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}

	var req models.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError("Invalid JSON"))
		return
	}

	err := h.store.UpdateCommentContent(ctx, id, req.Content)
	if errors.Is(err, store.ErrNotFound) {
		logRequest(ctx, "info", "Comment not found for update", zap.Int64("comment_id", id))
		writeJSON(w, http.StatusNotFound, errs.NewNotFoundError("Comment not found"))
		return
	}
	if err != nil {
		internalError(ctx, w, "Failed to update comment", err)
		return
	}

	comment, err := h.store.GetComment(ctx, id)
	if err != nil {
		internalError(ctx, w, "Database error", err)
		return
	}

	logRequest(ctx, "info", "Comment updated", zap.Int64("comment_id", id))
	writeJSON(w, http.StatusOK, comment)
}

// DeleteComment handles DELETE /comments/{id}
func (h *CommentHandler) DeleteComment(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}

	err := h.store.DeleteComment(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		logRequest(ctx, "info", "Comment not found for deletion", zap.Int64("comment_id", id))
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Comment not found"})
		return
	}
	if err != nil {
		internalError(ctx, w, "Failed to delete comment", err)
		return
	}

	logRequest(ctx, "info", "Comment deleted", zap.Int64("comment_id", id))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted successfully"})
}

func (h *CommentHandler) loadPost(ctx context.Context, w http.ResponseWriter, id int64) (*models.Post, bool) {
	post, err := h.store.GetPost(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		logRequest(ctx, "info", "Post not found", zap.Int64("post_id", id))
		writeJSON(w, http.StatusNotFound, errs.NewNotFoundError("Post not found"))
		return nil, false
	}
	if err != nil {
		internalError(ctx, w, "Database error", err)
		return nil, false
	}
	return post, true
}
