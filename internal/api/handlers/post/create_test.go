package post

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Chirp/internal/api/middleware"
	"Chirp/internal/core/posts"
)

func authedRequest(body, userID string) *http.Request {
	req := httptest.NewRequest("POST", "/api/post.create", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req = req.WithContext(middleware.SetTestUserID(req.Context(), userID))
	}
	return req
}

func TestHandleCreate_Success(t *testing.T) {
	var gotReq posts.CreatePostRequest
	service := &mockPostService{
		createPostFunc: func(ctx context.Context, req posts.CreatePostRequest) (*posts.Post, error) {
			gotReq = req
			return &posts.Post{
				ID:        "post_new",
				AuthorID:  req.AuthorID,
				Content:   req.Content,
				CreatedAt: time.Now(),
			}, nil
		},
	}
	handler := NewCreateHandler(service)

	w := httptest.NewRecorder()
	handler.HandleCreate(w, authedRequest(`{"content":"🔥🔥"}`, "user_abc123"))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	if gotReq.Content != "🔥🔥" {
		t.Errorf("expected content passed through, got %q", gotReq.Content)
	}
	if gotReq.AuthorID != "user_abc123" {
		t.Errorf("expected author from session, got %q", gotReq.AuthorID)
	}

	var created posts.Post
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.ID != "post_new" {
		t.Errorf("expected created post id 'post_new', got %q", created.ID)
	}
}

func TestHandleCreate_AuthorComesFromSessionNotPayload(t *testing.T) {
	var gotReq posts.CreatePostRequest
	service := &mockPostService{
		createPostFunc: func(ctx context.Context, req posts.CreatePostRequest) (*posts.Post, error) {
			gotReq = req
			return &posts.Post{ID: "post_new", AuthorID: req.AuthorID, Content: req.Content}, nil
		},
	}
	handler := NewCreateHandler(service)

	// A client-supplied authorId must be ignored in favor of the session
	w := httptest.NewRecorder()
	handler.HandleCreate(w, authedRequest(`{"content":"🔥","authorId":"user_spoofed"}`, "user_abc123"))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotReq.AuthorID != "user_abc123" {
		t.Errorf("expected author 'user_abc123' from session, got %q", gotReq.AuthorID)
	}
}

func TestHandleCreate_NoPrincipal(t *testing.T) {
	service := &mockPostService{
		createPostFunc: func(ctx context.Context, req posts.CreatePostRequest) (*posts.Post, error) {
			t.Error("service should not be called")
			return nil, nil
		},
	}
	handler := NewCreateHandler(service)

	w := httptest.NewRecorder()
	handler.HandleCreate(w, authedRequest(`{"content":"🔥"}`, ""))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestHandleCreate_InvalidJSON(t *testing.T) {
	handler := NewCreateHandler(&mockPostService{})

	w := httptest.NewRecorder()
	handler.HandleCreate(w, authedRequest(`{not json`, "user_abc123"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestHandleCreate_ValidationError(t *testing.T) {
	service := &mockPostService{
		createPostFunc: func(ctx context.Context, req posts.CreatePostRequest) (*posts.Post, error) {
			return nil, posts.NewValidationError("content", "only emojis are allowed")
		},
	}
	handler := NewCreateHandler(service)

	w := httptest.NewRecorder()
	handler.HandleCreate(w, authedRequest(`{"content":"hello"}`, "user_abc123"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Error != "InvalidRequest" {
		t.Errorf("expected error type 'InvalidRequest', got %q", resp.Error)
	}
}

func TestHandleCreate_RateLimited(t *testing.T) {
	service := &mockPostService{
		createPostFunc: func(ctx context.Context, req posts.CreatePostRequest) (*posts.Post, error) {
			return nil, posts.ErrRateLimited
		},
	}
	handler := NewCreateHandler(service)

	w := httptest.NewRecorder()
	handler.HandleCreate(w, authedRequest(`{"content":"🔥"}`, "user_abc123"))

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", w.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Error != "RateLimitExceeded" {
		t.Errorf("expected error type 'RateLimitExceeded', got %q", resp.Error)
	}
}

func TestHandleCreate_BodyTooLarge(t *testing.T) {
	handler := NewCreateHandler(&mockPostService{})

	// Over the 64KB cap
	body := `{"content":"` + strings.Repeat("a", 70*1024) + `"}`
	w := httptest.NewRecorder()
	handler.HandleCreate(w, authedRequest(body, "user_abc123"))

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected status 413, got %d", w.Code)
	}
}
