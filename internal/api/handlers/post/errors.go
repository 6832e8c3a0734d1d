package post

import (
	"encoding/json"
	"log"
	"net/http"

	"Chirp/internal/core/identity"
	"Chirp/internal/core/posts"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(errorResponse{
		Error:   errorType,
		Message: message,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}

// writeJSON writes a JSON success response
func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers already sent; log and move on
		log.Printf("Failed to encode response: %v", err)
	}
}

// handleServiceError maps service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case posts.IsValidationError(err):
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())

	case posts.IsNotFound(err):
		writeError(w, http.StatusNotFound, "NotFound", "Post not found")

	case posts.IsRateLimited(err):
		writeError(w, http.StatusTooManyRequests, "RateLimitExceeded",
			"Rate limit exceeded. Please try again later.")

	case posts.IsAuthorNotFound(err):
		// Referential-integrity fault: the store references an author the
		// identity provider doesn't know. A server problem, not the client's.
		log.Printf("Author integrity error: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"Author for posts not found")

	case identity.IsLookupFailed(err):
		log.Printf("Identity provider error: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")

	default:
		// Don't leak internal error details to clients
		log.Printf("Unexpected error in post handler: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}
