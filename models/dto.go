package models

import "time"

// UserDTO is the public view of a user; it never carries the password hash
type UserDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// PostDTO is returned by the primary post endpoints (list, get, create, update)
type PostDTO struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Author    *UserDTO  `json:"author"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthorResponse is the author as shown by the filter endpoints
type AuthorResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// PostResponse is returned by the category, tag and author filters.
// It differs from PostDTO only in the author shape; both are part of the public API.
type PostResponse struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Category  string          `json:"category"`
	Tags      []string        `json:"tags"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Author    *AuthorResponse `json:"author"`
}

func ToUserDTO(u *User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{ID: u.ID, Username: u.Username, Email: u.Email}
}

func ToPostDTO(p *Post) PostDTO {
	return PostDTO{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Category:  p.Category,
		Author:    ToUserDTO(p.Author),
		Tags:      nonNilTags(p.Tags),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func ToPostDTOs(posts []Post) []PostDTO {
	out := make([]PostDTO, 0, len(posts))
	for i := range posts {
		out = append(out, ToPostDTO(&posts[i]))
	}
	return out
}

func ToPostResponse(p *Post) PostResponse {
	resp := PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Category:  p.Category,
		Tags:      nonNilTags(p.Tags),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Author != nil {
		resp.Author = &AuthorResponse{ID: p.Author.ID, Username: p.Author.Username}
	}
	return resp
}

func ToPostResponses(posts []Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, ToPostResponse(&posts[i]))
	}
	return out
}

// nonNilTags keeps "tags": [] in JSON instead of null
func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
