package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client talks to the identity provider's backend REST API.
// The provider owns all user records; this client never writes.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClient creates a directory client for the identity provider.
// baseURL is the provider's API origin (e.g. https://api.idp.example.com),
// secretKey is the server-side API key.
func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// providerUser mirrors the provider's wire format for a user record.
// Only the fields we surface are decoded.
type providerUser struct {
	ID              string  `json:"id"`
	Username        *string `json:"username"`
	ProfileImageURL string  `json:"profile_image_url"`
}

// GetUsersByIDs resolves a batch of user ids in a single provider call.
// Unknown ids are absent from the result rather than an error.
func (c *Client) GetUsersByIDs(ctx context.Context, ids []string, limit int) ([]Profile, error) {
	if len(ids) == 0 {
		return []Profile{}, nil
	}
	if len(ids) > MaxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds maximum %d", len(ids), MaxBatchSize)
	}
	if limit <= 0 || limit > MaxBatchSize {
		limit = MaxBatchSize
	}

	params := url.Values{}
	for _, id := range ids {
		params.Add("user_id", id)
	}
	params.Set("limit", strconv.Itoa(limit))

	users, err := c.listUsers(ctx, params)
	if err != nil {
		return nil, err
	}

	profiles := make([]Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, Profile{
			ID:              u.ID,
			Username:        u.Username,
			ProfileImageURL: u.ProfileImageURL,
		})
	}
	return profiles, nil
}

// GetUserByUsername resolves a username to a profile.
// The provider guarantees usernames are unique, so at most one match exists.
func (c *Client) GetUserByUsername(ctx context.Context, username string) (*Profile, error) {
	if username == "" {
		return nil, &ErrLookupFailed{Query: "username", Reason: "username cannot be empty"}
	}

	params := url.Values{}
	params.Set("username", username)

	users, err := c.listUsers(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}

	u := users[0]
	return &Profile{
		ID:              u.ID,
		Username:        u.Username,
		ProfileImageURL: u.ProfileImageURL,
	}, nil
}

// listUsers calls GET /v1/users with the given query parameters
func (c *Client) listUsers(ctx context.Context, params url.Values) ([]providerUser, error) {
	endpoint := fmt.Sprintf("%s/v1/users?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ErrLookupFailed{Query: params.Encode(), Reason: err.Error()}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Printf("Warning: failed to close provider response body: %v", closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Truncate error bodies before logging (no provider internals in errors)
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "... (truncated)"
		}
		log.Printf("[IDENTITY] provider returned status %d: %s", resp.StatusCode, bodyPreview)
		return nil, &ErrLookupFailed{
			Query:  params.Encode(),
			Reason: fmt.Sprintf("provider returned status %d", resp.StatusCode),
		}
	}

	var users []providerUser
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("failed to parse provider response: %w", err)
	}

	return users, nil
}
