package routes

import (
	"Chirp/internal/api/handlers/post"
	"Chirp/internal/api/middleware"
	"Chirp/internal/core/posts"

	"github.com/go-chi/chi/v5"
)

// RegisterPostRoutes registers the post procedure endpoints on the router
func RegisterPostRoutes(r chi.Router, service posts.Service, authMiddleware *middleware.AuthMiddleware) {
	getHandler := post.NewGetHandler(service)
	createHandler := post.NewCreateHandler(service)

	// Query endpoints (GET) - public
	r.Get("/api/post.getAll", getHandler.HandleGetAll)
	r.Get("/api/post.getPostsByUserId", getHandler.HandleGetPostsByUserID)
	r.Get("/api/post.getPostById", getHandler.HandleGetPostByID)

	// Procedure endpoints (POST) - require a valid session token
	r.With(authMiddleware.RequireAuth).Post("/api/post.create", createHandler.HandleCreate)
}
