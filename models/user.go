package models

import "time"

// User represents a blog account
// Password is stored hashed (bcrypt); never return it in JSON responses
type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"` // Hashed; omitted from JSON
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"` // Plaintext; hashed in handler
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserRef is a reference to an existing user inside a request body, e.g. {"author": {"id": 1}}
type UserRef struct {
	ID *int64 `json:"id"`
}
