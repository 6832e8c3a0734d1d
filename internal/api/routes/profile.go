package routes

import (
	"Chirp/internal/api/handlers/profile"
	"Chirp/internal/core/identity"

	"github.com/go-chi/chi/v5"
)

// RegisterProfileRoutes registers the profile procedure endpoints on the router
func RegisterProfileRoutes(r chi.Router, directory identity.Directory) {
	getHandler := profile.NewGetHandler(directory)

	r.Get("/api/profile.getUserByUsername", getHandler.HandleGetUserByUsername)
}
