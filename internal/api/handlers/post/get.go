package post

import (
	"net/http"

	"Chirp/internal/core/posts"
)

// GetHandler handles post read requests
type GetHandler struct {
	service posts.Service
}

// NewGetHandler creates a new get handler
func NewGetHandler(service posts.Service) *GetHandler {
	return &GetHandler{
		service: service,
	}
}

// HandleGetAll handles GET /api/post.getAll
// Returns the newest posts across all authors, enriched with author profiles
func (h *GetHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	enriched, err := h.service.GetAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, enriched)
}

// HandleGetPostsByUserID handles GET /api/post.getPostsByUserId?userId=...
// Returns one author's newest posts; an unknown author yields an empty feed
func (h *GetHandler) HandleGetPostsByUserID(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "userId is required")
		return
	}

	enriched, err := h.service.GetPostsByUserID(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, enriched)
}

// HandleGetPostByID handles GET /api/post.getPostById?postId=...
func (h *GetHandler) HandleGetPostByID(w http.ResponseWriter, r *http.Request) {
	postID := r.URL.Query().Get("postId")
	if postID == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "postId is required")
		return
	}

	enriched, err := h.service.GetPostByID(r.Context(), postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, enriched)
}
