package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"

	"Chirp/internal/core/posts"
)

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

// Insert stores a new post and returns it with id and createdAt set.
// The id is generated here; created_at comes from the database clock so
// ordering is consistent across server instances.
func (r *postgresPostRepo) Insert(ctx context.Context, authorID, content string) (*posts.Post, error) {
	post := &posts.Post{
		ID:       uuid.NewString(),
		AuthorID: authorID,
		Content:  content,
	}

	query := `
		INSERT INTO posts (id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query, post.ID, post.AuthorID, post.Content).
		Scan(&post.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}

	return post, nil
}

// ListAll returns up to limit posts, newest first
func (r *postgresPostRepo) ListAll(ctx context.Context, limit int) ([]*posts.Post, error) {
	query := `
		SELECT id, author_id, content, created_at
		FROM posts
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}

	return scanPosts(rows)
}

// ListByAuthor returns up to limit posts by authorID, newest first.
// Unknown authors yield an empty slice.
func (r *postgresPostRepo) ListByAuthor(ctx context.Context, authorID string, limit int) ([]*posts.Post, error) {
	query := `
		SELECT id, author_id, content, created_at
		FROM posts
		WHERE author_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, authorID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query posts by author: %w", err)
	}

	return scanPosts(rows)
}

// GetByID retrieves a post by its id
func (r *postgresPostRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	query := `
		SELECT id, author_id, content, created_at
		FROM posts
		WHERE id = $1
	`

	var post posts.Post
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&post.ID, &post.AuthorID, &post.Content, &post.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}

	return &post, nil
}

// clampLimit keeps feed queries inside sane bounds
func clampLimit(limit int) int {
	if limit <= 0 {
		return posts.DefaultFeedLimit
	}
	if limit > posts.DefaultFeedLimit {
		return posts.DefaultFeedLimit
	}
	return limit
}

// scanPosts drains rows into a slice of posts
func scanPosts(rows *sql.Rows) ([]*posts.Post, error) {
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("WARN: failed to close rows: %v", err)
		}
	}()

	result := []*posts.Post{}
	for rows.Next() {
		var post posts.Post
		if err := rows.Scan(&post.ID, &post.AuthorID, &post.Content, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		result = append(result, &post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return result, nil
}
