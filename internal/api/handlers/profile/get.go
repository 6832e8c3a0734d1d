package profile

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"Chirp/internal/core/identity"
)

// GetHandler handles profile lookup requests
type GetHandler struct {
	directory identity.Directory
}

// NewGetHandler creates a new profile get handler
func NewGetHandler(directory identity.Directory) *GetHandler {
	return &GetHandler{
		directory: directory,
	}
}

// HandleGetUserByUsername handles GET /api/profile.getUserByUsername?username=...
// Resolves a username against the identity provider
func (h *GetHandler) HandleGetUserByUsername(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "username is required")
		return
	}

	profile, err := h.directory.GetUserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "NotFound", "User not found")
			return
		}
		log.Printf("Unexpected error in profile handler: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(profile); err != nil {
		log.Printf("Failed to encode profile response: %v", err)
	}
}
