package posts

import (
	"context"
	"fmt"
	"log"

	"Chirp/internal/core/identity"
)

// addAuthorsToPosts joins a batch of posts to their author profiles.
// One batched directory lookup covers all distinct authors; output order
// preserves input order.
//
// Enrichment is atomic: a post whose author is unresolvable, or resolves to
// a profile without a username, fails the whole call with ErrAuthorNotFound.
// A dangling author id means the store and the identity provider disagree,
// which is an internal fault rather than something to skip per item.
func (s *postService) addAuthorsToPosts(ctx context.Context, batch []*Post) ([]EnrichedPost, error) {
	if len(batch) == 0 {
		return []EnrichedPost{}, nil
	}

	// Distinct author ids, first-seen order
	seen := make(map[string]bool, len(batch))
	ids := make([]string, 0, len(batch))
	for _, post := range batch {
		if !seen[post.AuthorID] {
			seen[post.AuthorID] = true
			ids = append(ids, post.AuthorID)
		}
	}

	profiles, err := s.directory.GetUsersByIDs(ctx, ids, identity.MaxBatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch post authors: %w", err)
	}

	byID := make(map[string]*identity.Profile, len(profiles))
	for i := range profiles {
		byID[profiles[i].ID] = &profiles[i]
	}

	enriched := make([]EnrichedPost, 0, len(batch))
	for _, post := range batch {
		author, ok := byID[post.AuthorID]
		if !ok || !author.HasUsername() {
			log.Printf("[ENRICH] unresolvable author %s for post %s", post.AuthorID, post.ID)
			return nil, ErrAuthorNotFound
		}
		enriched = append(enriched, EnrichedPost{
			Post:   post,
			Author: author,
		})
	}

	return enriched, nil
}
