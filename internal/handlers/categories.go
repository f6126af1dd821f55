// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkpress/internal/apperr"
	"inkpress/internal/models"
	"inkpress/internal/slug"
	"inkpress/internal/store"
)

// Categories groups the category endpoints. Reads are public; writes are
// limited to privileged users by the router.
type Categories struct {
	categories *store.CategoryStore
	posts      *store.PostStore
}

// NewCategories creates the categories handler group.
func NewCategories(categories *store.CategoryStore, posts *store.PostStore) *Categories {
	return &Categories{categories: categories, posts: posts}
}

// List returns categories. with_post_count=true includes per-category post
// counts; popular=true orders by association count and honors limit.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx := r.Context()

	if q.Get("popular") == "true" {
		limit := 5
		if raw := q.Get("limit"); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil && v >= 1 {
				limit = min(v, maxPageSize)
			}
		}
		categories, err := h.categories.ListPopular(ctx, limit)
		if err != nil {
			fail(w, r, err)
			return
		}
		respond(w, http.StatusOK, categories)
		return
	}

	if q.Get("with_post_count") == "true" {
		categories, err := h.categories.ListWithPostCount(ctx)
		if err != nil {
			fail(w, r, err)
			return
		}
		respond(w, http.StatusOK, categories)
		return
	}

	categories, err := h.categories.List(ctx, 0, maxPageSize)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, categories)
}

// Get returns a category by slug.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		fail(w, r, err)
		return
	}
	if category == nil {
		fail(w, r, apperr.NotFound("Category"))
		return
	}
	respond(w, http.StatusOK, category)
}

// Posts returns the published posts in a category, paginated.
func (h *Categories) Posts(w http.ResponseWriter, r *http.Request) {
	categorySlug := chi.URLParam(r, "slug")

	category, err := h.categories.GetBySlug(r.Context(), categorySlug)
	if err != nil {
		fail(w, r, err)
		return
	}
	if category == nil {
		fail(w, r, apperr.NotFound("Category"))
		return
	}

	p := parsePagination(r)
	posts, err := h.posts.ListByCategory(r.Context(), categorySlug, p.skip(), p.size)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, envelope(posts, len(posts), p))
}

// Create adds a category. Slug defaults from the name when omitted.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if err := decode(r, &in); err != nil {
		fail(w, r, err)
		return
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		fail(w, r, apperr.Validation("name is required"))
		return
	}
	if in.Slug == "" {
		in.Slug = slug.Generate(in.Name)
	}
	if !slug.Valid(in.Slug) {
		fail(w, r, apperr.Validation("invalid slug"))
		return
	}

	category, err := h.categories.CreateCategory(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, category)
}

// Update applies a partial update to a category by id.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, apperr.NotFound("Category"))
		return
	}

	var patch models.CategoryPatch
	if err := decode(r, &patch); err != nil {
		fail(w, r, err)
		return
	}
	if patch.Slug != nil && !slug.Valid(*patch.Slug) {
		fail(w, r, apperr.Validation("invalid slug"))
		return
	}

	category, err := h.categories.UpdateCategory(r.Context(), id, patch)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, category)
}

// Delete removes a category by id. Posts keep existing; only the
// associations go with it.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, apperr.NotFound("Category"))
		return
	}

	if _, err := h.categories.Remove(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}
