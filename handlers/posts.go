package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"blog-service/accounts"
	"blog-service/models"
	"blog-service/store"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/umakantv/go-utils/cache"
	"github.com/umakantv/go-utils/errs"
	"go.uber.org/zap"
)

const postListCacheKey = "posts:list"

func postCacheKey(id int64) string {
	return "post:" + strconv.FormatInt(id, 10)
}

// PostHandler handles post CRUD and the category/tag/author filters
type PostHandler struct {
	store      *store.Store
	cache      cache.Cache
	cacheTTL   time.Duration
	bcryptCost int // for lazily creating the default author
}

// NewPostHandler creates a new post handler
func NewPostHandler(st *store.Store, cache cache.Cache, cacheTTL time.Duration, bcryptCost int) *PostHandler {
	return &PostHandler{
		store:      st,
		cache:      cache,
		cacheTTL:   cacheTTL,
		bcryptCost: bcryptCost,
	}
}

// ListPosts handles GET /posts
func (h *PostHandler) ListPosts(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, "info", "Listing posts")

	if cached, ok := cachedJSON(h.cache, postListCacheKey); ok {
		logRequest(ctx, "debug", "Serving from cache")
		writeRaw(w, cached)
		return
	}

	posts, err := h.store.ListPosts(ctx)
	if err != nil {
		internalError(ctx, w, "Database error", err)
		return
	}

	response, _ := json.Marshal(models.ToPostDTOs(posts))
	h.cache.Set(postListCacheKey, string(response), h.cacheTTL)

	logRequest(ctx, "info", "Posts retrieved successfully", zap.Int("count", len(posts)))
	writeRaw(w, response)
}

// GetPost handles GET /posts/{id}
func (h *PostHandler) GetPost(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}

	cacheKey := postCacheKey(id)
	if cached, ok := cachedJSON(h.cache, cacheKey); ok {
		logRequest(ctx, "debug", "Serving post from cache", zap.Int64("post_id", id))
		writeRaw(w, cached)
		return
	}

	post, err := h.store.GetPost(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		logRequest(ctx, "info", "Post not found", zap.Int64("post_id", id))
		writeJSON(w, http.StatusNotFound, errs.NewNotFoundError("Post not found"))
		return
	}
	if err != nil {
		internalError(ctx, w, "Database error", err)
		return
	}

	response, _ := json.Marshal(models.ToPostDTO(post))
	h.cache.Set(cacheKey, string(response), h.cacheTTL)

	writeRaw(w, response)
}

// CreatePost handles POST /posts
// The author is the caller named by X-User-ID, or the default "admin" user.
func (h *PostHandler) CreatePost(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError("Invalid JSON"))
		return
	}

	author, ok := h.resolveAuthor(ctx, w)
	if !ok {
		return
	}

	now := time.Now().UTC()
	post := &models.Post{
		Title:     req.Title,
		Content:   req.Content,
		Category:  req.Category,
		Tags:      req.Tags,
		CreatedAt: now,
		UpdatedAt: now,
		Author:    author,
	}
	if err := h.store.CreatePost(ctx, post); err != nil {
		internalError(ctx, w, "Failed to create post", err)
		return
	}

	h.cache.Delete(postListCacheKey)

	logRequest(ctx, "info", "Post created", zap.Int64("post_id", post.ID), zap.Int64("author_id", author.ID))
	writeJSON(w, http.StatusOK, models.ToPostDTO(post))
}

// UpdatePost handles PUT /posts/{id}
// Title, content, category and tags are replaced; createdAt is kept from the stored post
// and the author only changes when the body names an existing user.
func (h *PostHandler) UpdatePost(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}

	var req models.PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError("Invalid JSON"))
		return
	}

	existing, err := h.store.GetPost(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		logRequest(ctx, "info", "Post not found for update", zap.Int64("post_id", id))
		writeJSON(w, http.StatusNotFound, errs.NewNotFoundError("Post not found"))
		return
	}
	if err != nil {
		internalError(ctx, w, "Database error", err)
		return
	}

	author := existing.Author
	if req.Author != nil && req.Author.ID != nil {
		author, err = h.store.GetUser(ctx, *req.Author.ID)
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusBadRequest, errs.NewValidationError("Author not found"))
			return
		}
		if err != nil {
			internalError(ctx, w, "Database error", err)
			return
		}
	}

	post := &models.Post{
		ID:        id,
		Title:     req.Title,
		Content:   req.Content,
		Category:  req.Category,
		Tags:      req.Tags,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: time.Now().UTC(),
		Author:    author,
	}
	err = h.store.UpdatePost(ctx, post)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errs.NewNotFoundError("Post not found"))
		return
	}
	if err != nil {
		internalError(ctx, w, "Failed to update post", err)
		return
	}

	h.cache.Delete(postListCacheKey)
	h.cache.Delete(postCacheKey(id))

	logRequest(ctx, "info", "Post updated", zap.Int64("post_id", id))
	writeJSON(w, http.StatusOK, models.ToPostDTO(post))
}

// DeletePost handles DELETE /posts/{id}; the post's comments go with it
func (h *PostHandler) DeletePost(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}

	err := h.store.DeletePost(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		logRequest(ctx, "info", "Post not found for deletion", zap.Int64("post_id", id))
		writeJSON(w, http.StatusNotFound, errs.NewNotFoundError("Post not found"))
		return
	}
	if err != nil {
		internalError(ctx, w, "Failed to delete post", err)
		return
	}

	h.cache.Delete(postListCacheKey)
	h.cache.Delete(postCacheKey(id))

	logRequest(ctx, "info", "Post deleted", zap.Int64("post_id", id))
	w.WriteHeader(http.StatusOK)
}

// ListByCategory handles GET /posts/category/{category}
func (h *PostHandler) ListByCategory(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]
	posts, err := h.store.ListPostsByCategory(ctx, category)
	if err != nil {
		internalError(ctx, w, "Database error", err)
		return
	}
	logRequest(ctx, "info", "Posts by category", zap.String("category", category), zap.Int("count", len(posts)))
	writeJSON(w, http.StatusOK, models.ToPostResponses(posts))
}

// ListByTag handles GET /posts/tag/{tag}
func (h *PostHandler) ListByTag(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	tag := mux.Vars(r)["tag"]
	posts, err := h.store.ListPostsByTag(ctx, tag)
	if err != nil {
		internalError(ctx, w, "Database error", err)
		return
	}
	logRequest(ctx, "info", "Posts by tag", zap.String("tag", tag), zap.Int("count", len(posts)))
	writeJSON(w, http.StatusOK, models.ToPostResponses(posts))
}

// ListByAuthor handles GET /posts/author/{id}
func (h *PostHandler) ListByAuthor(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	authorID, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}

	exists, err := h.store.UserExists(ctx, authorID)
	if err != nil {
		internalError(ctx, w, "Database error", err)
		return
	}
	if !exists {
		logRequest(ctx, "info", "Author not found", zap.Int64("author_id", authorID))
		writeJSON(w, http.StatusNotFound, errs.NewNotFoundError("Author not found"))
		return
	}

	posts, err := h.store.ListPostsByAuthor(ctx, authorID)
	if err != nil {
		internalError(ctx, w, "Database error", err)
		return
	}
	writeJSON(w, http.StatusOK, models.ToPostResponses(posts))
}

// resolveAuthor picks the author of a new post. It writes the error response itself.
func (h *PostHandler) resolveAuthor(ctx context.Context, w http.ResponseWriter) (*models.User, bool) {
	id, present, err := callerID(ctx)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError("Invalid "+CallerHeader+" header"))
		return nil, false
	}

	if !present {
		admin, err := accounts.EnsureAdmin(ctx, h.store, h.bcryptCost)
		if err != nil {
			internalError(ctx, w, "Failed to resolve default author", err)
			return nil, false
		}
		return admin, true
	}

	user, err := h.store.GetUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		logRequest(ctx, "info", "Unknown caller", zap.Int64("user_id", id))
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError("Author not found"))
		return nil, false
	}
	if err != nil {
		internalError(ctx, w, "Database error", err)
		return nil, false
	}
	return user, true
}
