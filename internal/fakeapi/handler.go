// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package fakeapi is an in-memory rendition of the Dizesi REST API.

It exists so the client can be developed and tested end to end without the
hosted backend: every endpoint the client calls is served here with the same
paths and JSON shapes.

# Security

Bearer tokens are HS256 JWTs minted by [sec.TokenService]. Moderation routes
require the admin role.
*/
package fakeapi

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/dizesi/internal/platform/middleware"
	"github.com/taibuivan/dizesi/internal/platform/sec"
)

// Handler implements the HTTP layer of the fake API.
type Handler struct {
	store    *Store
	tokens   *sec.TokenService
	tokenTTL time.Duration
}

// NewHandler constructs a new [Handler].
func NewHandler(store *Store, tokens *sec.TokenService, tokenTTL time.Duration) *Handler {
	return &Handler{store: store, tokens: tokens, tokenTTL: tokenTTL}
}

// Routes returns a [chi.Router] with every endpoint the client calls.
// It is mounted under "/api".
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Authentication
	router.Post("/auth/login", handler.login)
	router.Post("/auth/register", handler.register)
	router.Get("/auth/check-username", handler.checkUsername)

	// Posts
	router.Get("/posts", handler.feed)
	router.Get("/posts/{id}/comments", handler.listComments)
	router.Get("/profile/{username}", handler.getProfile)
	router.Get("/search", handler.search)

	router.Group(func(private chi.Router) {
		private.Use(middleware.RequireAuth)

		private.Post("/posts", handler.createPost)
		private.Delete("/posts/{id}", handler.deletePost)
		private.Post("/posts/like", handler.like)
		private.Post("/posts/follow", handler.follow)
		private.Post("/posts/{id}/comments", handler.addComment)
		private.Post("/posts/{id}/report", handler.report)

		private.Patch("/profile", handler.updateProfile)
		private.Get("/notifications", handler.notifications)
		private.Post("/notifications/read", handler.markNotificationsRead)
	})

	// Moderation
	router.Route("/admin", func(moderation chi.Router) {
		moderation.Use(middleware.RequireRole(sec.RoleAdmin))

		moderation.Get("/users", handler.listUsers)
		moderation.Get("/pending-posts", handler.listPending)
		moderation.Get("/reports", handler.listReports)
		moderation.Patch("/posts/{id}/approve", handler.approve)
		moderation.Delete("/posts/{id}/reject", handler.reject)
		moderation.Delete("/posts/{id}", handler.forceDelete)
	})

	return router
}

// UploadRoutes serves stored images. It is mounted at the server root so
// paths like "/uploads/abc.png" resolve against the asset origin.
func (handler *Handler) UploadRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/{name}", handler.serveUpload)
	return router
}

