package posts

import (
	"context"
	"fmt"
	"log"
	"strings"

	"Chirp/internal/api/middleware"
	"Chirp/internal/core/identity"
	"Chirp/internal/core/ratelimit"
)

type postService struct {
	repo      Repository
	directory identity.Directory
	limiter   ratelimit.Limiter
}

// NewPostService creates a new post service
func NewPostService(repo Repository, directory identity.Directory, limiter ratelimit.Limiter) Service {
	return &postService{
		repo:      repo,
		directory: directory,
		limiter:   limiter,
	}
}

// GetAll returns the newest posts across all authors, enriched
func (s *postService) GetAll(ctx context.Context) ([]EnrichedPost, error) {
	batch, err := s.repo.ListAll(ctx, DefaultFeedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return s.addAuthorsToPosts(ctx, batch)
}

// GetPostsByUserID returns the newest posts by one author, enriched.
// An author with no posts yields an empty slice.
func (s *postService) GetPostsByUserID(ctx context.Context, userID string) ([]EnrichedPost, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, NewValidationError("userId", "userId is required")
	}

	batch, err := s.repo.ListByAuthor(ctx, userID, DefaultFeedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts for author %s: %w", userID, err)
	}

	return s.addAuthorsToPosts(ctx, batch)
}

// GetPostByID returns a single enriched post
func (s *postService) GetPostByID(ctx context.Context, postID string) (*EnrichedPost, error) {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return nil, NewValidationError("postId", "postId is required")
	}

	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get post %s: %w", postID, err)
	}

	enriched, err := s.addAuthorsToPosts(ctx, []*Post{post})
	if err != nil {
		return nil, err
	}

	return &enriched[0], nil
}

// CreatePost creates a new post for the authenticated author
// Flow:
// 1. Validate content (emoji-only, 1-280 characters)
// 2. Verify the request author matches the authenticated principal
// 3. Consume one slot of the author's sliding-window rate allowance
// 4. Insert into the post store
// Each step fails before the next runs; steps 1-3 have no side effects to
// roll back.
func (s *postService) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	// 1. Validate before touching anything
	if err := validateContent(req.Content); err != nil {
		return nil, err
	}

	// 2. Extract authenticated user id from context (set by auth middleware).
	// Defense-in-depth: the service verifies the principal even if a handler
	// is bypassed or miswired.
	authenticatedID := middleware.GetAuthenticatedUserID(ctx)
	if authenticatedID == "" {
		return nil, fmt.Errorf("no authenticated user in context - authentication required")
	}
	if req.AuthorID == "" {
		req.AuthorID = authenticatedID
	}
	if req.AuthorID != authenticatedID {
		log.Printf("[SECURITY] author mismatch: authenticated=%s, request=%s", authenticatedID, req.AuthorID)
		return nil, fmt.Errorf("authenticated user does not match author")
	}

	// 3. Rate limit keyed by the author, shared across instances
	res, err := s.limiter.Allow(ctx, req.AuthorID)
	if err != nil {
		// Fail closed: an unreachable limiter must not grant unlimited posts
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}
	if !res.Allowed {
		log.Printf("[POST-CREATE] rate limited: author=%s reset=%s", req.AuthorID, res.Reset.Format("15:04:05"))
		return nil, ErrRateLimited
	}

	// 4. Insert
	post, err := s.repo.Insert(ctx, req.AuthorID, req.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}

	return post, nil
}
