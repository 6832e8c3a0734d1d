package posts

import (
	"time"

	"Chirp/internal/core/identity"
)

// Post is a single emoji status update
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// EnrichedPost pairs a post with its author's profile for display.
// Built per response; never persisted.
type EnrichedPost struct {
	Post   *Post             `json:"post"`
	Author *identity.Profile `json:"author"`
}

// CreatePostRequest is the input for creating a post.
// AuthorID is set by the handler from the authenticated principal, never
// taken from the client payload.
type CreatePostRequest struct {
	AuthorID string `json:"-"`
	Content  string `json:"content"`
}
