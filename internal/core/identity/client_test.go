package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

// newTestProvider spins up a fake identity provider serving the given users
func newTestProvider(t *testing.T, users []providerUser) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk_test_secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		query := r.URL.Query()
		var matched []providerUser
		if username := query.Get("username"); username != "" {
			for _, u := range users {
				if u.Username != nil && *u.Username == username {
					matched = append(matched, u)
				}
			}
		} else {
			wanted := make(map[string]bool)
			for _, id := range query["user_id"] {
				wanted[id] = true
			}
			for _, u := range users {
				if wanted[u.ID] {
					matched = append(matched, u)
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if matched == nil {
			matched = []providerUser{}
		}
		if err := json.NewEncoder(w).Encode(matched); err != nil {
			t.Errorf("failed to encode response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetUsersByIDs(t *testing.T) {
	srv := newTestProvider(t, []providerUser{
		{ID: "user_alice", Username: strPtr("alice"), ProfileImageURL: "https://img.test/alice.png"},
		{ID: "user_bob", Username: strPtr("bob"), ProfileImageURL: "https://img.test/bob.png"},
		{ID: "user_carol", Username: nil, ProfileImageURL: "https://img.test/carol.png"},
	})

	client := NewClient(srv.URL, "sk_test_secret")

	profiles, err := client.GetUsersByIDs(context.Background(), []string{"user_alice", "user_carol"}, 100)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	byID := make(map[string]Profile)
	for _, p := range profiles {
		byID[p.ID] = p
	}
	assert.Equal(t, "alice", *byID["user_alice"].Username)
	assert.True(t, byID["user_alice"].HasUsername())
	assert.False(t, byID["user_carol"].HasUsername())
}

func TestGetUsersByIDs_EmptyBatch(t *testing.T) {
	client := NewClient("http://unused.test", "sk_test_secret")

	profiles, err := client.GetUsersByIDs(context.Background(), nil, 100)
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestGetUsersByIDs_BatchTooLarge(t *testing.T) {
	client := NewClient("http://unused.test", "sk_test_secret")

	ids := make([]string, MaxBatchSize+1)
	for i := range ids {
		ids[i] = "user_x"
	}

	_, err := client.GetUsersByIDs(context.Background(), ids, 100)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
}

func TestGetUsersByIDs_UnknownIDsAbsent(t *testing.T) {
	srv := newTestProvider(t, []providerUser{
		{ID: "user_alice", Username: strPtr("alice")},
	})

	client := NewClient(srv.URL, "sk_test_secret")

	profiles, err := client.GetUsersByIDs(context.Background(), []string{"user_alice", "user_ghost"}, 100)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "user_alice", profiles[0].ID)
}

func TestGetUserByUsername(t *testing.T) {
	srv := newTestProvider(t, []providerUser{
		{ID: "user_alice", Username: strPtr("alice"), ProfileImageURL: "https://img.test/alice.png"},
	})

	client := NewClient(srv.URL, "sk_test_secret")

	profile, err := client.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "user_alice", profile.ID)
	assert.Equal(t, "https://img.test/alice.png", profile.ProfileImageURL)
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	srv := newTestProvider(t, nil)

	client := NewClient(srv.URL, "sk_test_secret")

	_, err := client.GetUserByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserByUsername_Empty(t *testing.T) {
	client := NewClient("http://unused.test", "sk_test_secret")

	_, err := client.GetUserByUsername(context.Background(), "")
	assert.True(t, IsLookupFailed(err), "expected ErrLookupFailed")
}

func TestListUsers_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test_secret")

	_, err := client.GetUsersByIDs(context.Background(), []string{"user_alice"}, 100)
	assert.True(t, IsLookupFailed(err), "expected ErrLookupFailed")
	assert.Contains(t, err.Error(), "status 500")
}
