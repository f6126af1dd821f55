// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkpress/internal/apperr"
	"inkpress/internal/middleware"
	"inkpress/internal/models"
	"inkpress/internal/store"
)

// Users groups the user account endpoints.
type Users struct {
	users *store.UserStore
}

// NewUsers creates the users handler group.
func NewUsers(users *store.UserStore) *Users {
	return &Users{users: users}
}

// Register creates a new account. Username and email collisions answer 409.
func (h *Users) Register(w http.ResponseWriter, r *http.Request) {
	var in models.UserRegistration
	if err := decode(r, &in); err != nil {
		fail(w, r, err)
		return
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" {
		fail(w, r, apperr.Validation("username and email are required"))
		return
	}
	if len(in.Password) < 8 {
		fail(w, r, apperr.Validation("password must be at least 8 characters"))
		return
	}

	user, err := h.users.Register(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, user)
}

// List returns a page of users.
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	p := parsePagination(r)

	users, err := h.users.List(r.Context(), p.skip(), p.size)
	if err != nil {
		fail(w, r, err)
		return
	}
	total, err := h.users.Count(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, envelope(users, total, p))
}

// Get returns a user by id.
func (h *Users) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, apperr.NotFound("User"))
		return
	}

	user, err := h.users.GetOrFail(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, user)
}

// GetByUsername returns a user by username.
func (h *Users) GetByUsername(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		fail(w, r, err)
		return
	}
	if user == nil {
		fail(w, r, apperr.NotFound("User"))
		return
	}
	respond(w, http.StatusOK, user)
}

// UpdateMe applies a partial profile update to the caller's own account.
func (h *Users) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var patch models.UserPatch
	if err := decode(r, &patch); err != nil {
		fail(w, r, err)
		return
	}

	user, err := h.users.Update(r.Context(), middleware.UserFromCtx(r.Context()), patch)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, user)
}
