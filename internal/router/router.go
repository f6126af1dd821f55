// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chains for the
// InkPress API. Public reads, authenticated writes, and privileged
// category management get their own middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkpress/internal/auth"
	"inkpress/internal/handlers"
	"inkpress/internal/middleware"
)

// Deps carries everything the router wires together.
type Deps struct {
	Guard        *auth.Guard
	LoginLimiter middleware.Limiter
	Auth         *handlers.Auth
	Users        *handlers.Users
	Categories   *handlers.Categories
	Posts        *handlers.Posts
}

// New creates the configured chi router.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.Principal(d.Guard))

	r.Get("/health", healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit(d.LoginLimiter)).Post("/login", d.Auth.Login)
			r.Post("/logout", d.Auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Get("/me", d.Auth.Me)
				r.Post("/2fa/enroll", d.Auth.TwoFAEnroll)
				r.Post("/2fa/activate", d.Auth.TwoFAActivate)
				r.Post("/2fa/disable", d.Auth.TwoFADisable)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", d.Users.Register)
			r.Get("/", d.Users.List)
			r.With(middleware.RequireUser).Put("/me", d.Users.UpdateMe)
			r.Get("/username/{username}", d.Users.GetByUsername)
			r.Get("/{id}", d.Users.Get)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", d.Categories.List)
			r.Get("/{slug}", d.Categories.Get)
			r.Get("/{slug}/posts", d.Categories.Posts)

			// Category management is privileged.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Use(middleware.RequireSuperuser)
				r.Post("/", d.Categories.Create)
				r.Put("/{id}", d.Categories.Update)
				r.Delete("/{id}", d.Categories.Delete)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", d.Posts.List)
			r.Get("/featured", d.Posts.Featured)
			r.Get("/search", d.Posts.Search)
			r.Get("/author/{id}", d.Posts.ByAuthor)
			r.Get("/{slug}", d.Posts.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Post("/", d.Posts.Create)
				r.Put("/{id}", d.Posts.Update)
				r.Delete("/{id}", d.Posts.Delete)
			})
		})
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
