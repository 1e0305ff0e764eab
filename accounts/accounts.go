package accounts

import (
	"context"

	"blog-service/models"
	"blog-service/store"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// Default author used for posts created without a caller identity, and by the seed
const (
	AdminUsername = "admin"
	AdminEmail    = "admin@example.com"
	AdminPassword = "admin"
)

// HashPassword hashes a plaintext password with bcrypt (random salt per call)
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// EnsureAdmin returns the default "admin" user, creating it if it does not exist yet.
// The password is only hashed when the lookup misses. If another user already
// registered AdminEmail, the admin gets a generated address instead.
func EnsureAdmin(ctx context.Context, st *store.Store, cost int) (*models.User, error) {
	admin, err := st.GetUserByUsername(ctx, AdminUsername)
	if err == nil {
		return admin, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hashed, err := HashPassword(AdminPassword, cost)
	if err != nil {
		return nil, err
	}
	admin, err = st.EnsureUser(ctx, &models.User{
		Username: AdminUsername,
		Email:    AdminEmail,
		Password: hashed,
	})
	if !errors.Is(err, store.ErrEmailTaken) {
		return admin, err
	}

	return st.EnsureUser(ctx, &models.User{
		Username: AdminUsername,
		Email:    fallbackAdminEmail(),
		Password: hashed,
	})
}

func fallbackAdminEmail() string {
	return "admin+" + uuid.NewString()[:8] + "@example.com"
}
