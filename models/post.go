package models

import "time"

// Post is a blog entry written by exactly one user
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"` // Ordered; duplicates and case variants are kept
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Author    *User     `json:"author"`
}

// PostRequest is the body of POST /posts and PUT /posts/{id}
// Author is optional: creation falls back to the caller or the default author,
// update keeps the stored author unless a known user id is given.
type PostRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Author   *UserRef `json:"author,omitempty"`
}
