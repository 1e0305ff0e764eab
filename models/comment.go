package models

import "time"

// Comment belongs to one post and one author.
// It is serialised as-is, with the author and post nested.
type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Author    *User     `json:"author"`
	Post      *Post     `json:"post"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentRequest is the body of POST /comments/post/{id} and PUT /comments/{id}
type CommentRequest struct {
	Content string   `json:"content"`
	Author  *UserRef `json:"author,omitempty"`
}
