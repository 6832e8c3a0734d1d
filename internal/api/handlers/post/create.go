package post

import (
	"encoding/json"
	"net/http"

	"Chirp/internal/api/middleware"
	"Chirp/internal/core/posts"
)

// CreateHandler handles post creation requests
type CreateHandler struct {
	service posts.Service
}

// NewCreateHandler creates a new create handler
func NewCreateHandler(service posts.Service) *CreateHandler {
	return &CreateHandler{
		service: service,
	}
}

// HandleCreate handles POST /api/post.create
// Creates a new post authored by the authenticated principal
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	// Emoji content is tiny; anything bigger than 64KB is abuse
	r.Body = http.MaxBytesReader(w, r.Body, 64*1024)

	var req posts.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err.Error() == "http: request body too large" {
			writeError(w, http.StatusRequestEntityTooLarge, "RequestTooLarge",
				"Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	// Author always comes from the verified session, never the payload
	userID := middleware.GetUserID(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication required")
		return
	}
	req.AuthorID = userID

	created, err := h.service.CreatePost(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, created)
}
