package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"blog-service/accounts"
	"blog-service/models"
	"blog-service/store"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const invalidCredentials = "Invalid username or password"

// AuthHandler handles registration and password login.
// No session or token is issued; callers identify themselves per request.
type AuthHandler struct {
	store      *store.Store
	bcryptCost int
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(st *store.Store, bcryptCost int) *AuthHandler {
	return &AuthHandler{
		store:      st,
		bcryptCost: bcryptCost,
	}
}

func errorBody(message string) map[string]interface{} {
	return map[string]interface{}{"error": message}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid register body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorBody("Invalid JSON"))
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		logRequest(ctx, "error", "Missing required fields", zap.String("username", req.Username))
		writeJSON(w, http.StatusBadRequest, errorBody("Username, email and password are required"))
		return
	}

	logRequest(ctx, "info", "Registering user", zap.String("username", req.Username))

	taken, err := h.store.UsernameExists(ctx, req.Username)
	if err != nil {
		internalError(ctx, w, "Failed to register user", err)
		return
	}
	if taken {
		logRequest(ctx, "info", "Username taken", zap.String("username", req.Username))
		writeJSON(w, http.StatusBadRequest, errorBody("Username is already taken"))
		return
	}

	taken, err = h.store.EmailExists(ctx, req.Email)
	if err != nil {
		internalError(ctx, w, "Failed to register user", err)
		return
	}
	if taken {
		logRequest(ctx, "info", "Email taken", zap.String("email", req.Email))
		writeJSON(w, http.StatusBadRequest, errorBody("Email is already registered"))
		return
	}

	hashed, err := accounts.HashPassword(req.Password, h.bcryptCost)
	if err != nil {
		internalError(ctx, w, "Failed to process password", err)
		return
	}

	user := &models.User{Username: req.Username, Email: req.Email, Password: hashed}
	err = h.store.CreateUser(ctx, user)
	switch {
	case errors.Is(err, store.ErrUsernameTaken):
		writeJSON(w, http.StatusBadRequest, errorBody("Username is already taken"))
		return
	case errors.Is(err, store.ErrEmailTaken):
		writeJSON(w, http.StatusBadRequest, errorBody("Email is already registered"))
		return
	case err != nil:
		internalError(ctx, w, "Failed to register user", err)
		return
	}

	logRequest(ctx, "info", "User registered", zap.Int64("user_id", user.ID))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User registered successfully",
		"userId":  user.ID,
	})
}

// Login handles POST /auth/login
// A missing user and a wrong password produce the same response.
func (h *AuthHandler) Login(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid login body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorBody("Invalid JSON"))
		return
	}

	user, err := h.store.GetUserByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		internalError(ctx, w, "Server error", err)
		return
	}
	if err != nil || !accounts.CheckPassword(user.Password, req.Password) {
		logRequest(ctx, "info", "Login rejected", zap.String("username", req.Username))
		writeJSON(w, http.StatusBadRequest, errorBody(invalidCredentials))
		return
	}

	logRequest(ctx, "info", "Login successful", zap.Int64("user_id", user.ID))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Login successful",
		"userId":   user.ID,
		"username": user.Username,
	})
}
