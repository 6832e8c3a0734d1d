package posts

import "context"

// DefaultFeedLimit caps how many posts a single feed read returns
const DefaultFeedLimit = 100

// Service defines the business logic interface for posts.
// Read operations return posts enriched with author profiles from the
// identity provider; create returns the bare stored post.
type Service interface {
	// GetAll returns the newest posts across all authors, enriched
	GetAll(ctx context.Context) ([]EnrichedPost, error)

	// GetPostsByUserID returns the newest posts by one author, enriched.
	// An author with no posts yields an empty slice, not an error.
	GetPostsByUserID(ctx context.Context, userID string) ([]EnrichedPost, error)

	// GetPostByID returns a single enriched post.
	// Returns ErrNotFound if no post has that id.
	GetPostByID(ctx context.Context, postID string) (*EnrichedPost, error)

	// CreatePost validates content, consumes the author's rate limit
	// allowance, and stores the post.
	// Flow: Validate -> RateCheck -> Insert; any failure stops the chain
	// before side effects.
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)
}

// Repository defines the data access interface for posts
type Repository interface {
	// Insert stores a new post and returns it with id and createdAt set.
	// Content validation is the caller's responsibility.
	Insert(ctx context.Context, authorID, content string) (*Post, error)

	// ListAll returns up to limit posts, newest first
	ListAll(ctx context.Context, limit int) ([]*Post, error)

	// ListByAuthor returns up to limit posts by authorID, newest first.
	// Unknown authors yield an empty slice.
	ListByAuthor(ctx context.Context, authorID string, limit int) ([]*Post, error)

	// GetByID returns a post by id, or ErrNotFound
	GetByID(ctx context.Context, id string) (*Post, error)
}
