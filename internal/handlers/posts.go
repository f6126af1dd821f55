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
	"inkpress/internal/auth"
	"inkpress/internal/middleware"
	"inkpress/internal/models"
	"inkpress/internal/slug"
	"inkpress/internal/store"
)

const minSearchLen = 2

// Posts groups the post endpoints. Public reads see published content
// only; authors see their own drafts.
type Posts struct {
	posts *store.PostStore
	guard *auth.Guard
}

// NewPosts creates the posts handler group.
func NewPosts(posts *store.PostStore, guard *auth.Guard) *Posts {
	return &Posts{posts: posts, guard: guard}
}

// List returns published posts. Optional filters narrow the page:
// category (slug), search (min 2 chars), featured=true. Filtered branches
// report the page length as the total; only the plain listing carries the
// full published count.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := parsePagination(r)
	ctx := r.Context()

	switch {
	case q.Get("search") != "":
		query := q.Get("search")
		if len(strings.TrimSpace(query)) < minSearchLen {
			fail(w, r, apperr.Validation("search query must be at least 2 characters"))
			return
		}
		posts, err := h.posts.Search(ctx, query, p.skip(), p.size)
		if err != nil {
			fail(w, r, err)
			return
		}
		respond(w, http.StatusOK, envelope(posts, len(posts), p))

	case q.Get("category") != "":
		posts, err := h.posts.ListByCategory(ctx, q.Get("category"), p.skip(), p.size)
		if err != nil {
			fail(w, r, err)
			return
		}
		respond(w, http.StatusOK, envelope(posts, len(posts), p))

	case q.Get("featured") == "true":
		posts, err := h.posts.ListFeatured(ctx, p.size)
		if err != nil {
			fail(w, r, err)
			return
		}
		respond(w, http.StatusOK, envelope(posts, len(posts), p))

	default:
		posts, err := h.posts.ListPublished(ctx, p.skip(), p.size)
		if err != nil {
			fail(w, r, err)
			return
		}
		total, err := h.posts.CountPublished(ctx)
		if err != nil {
			fail(w, r, err)
			return
		}
		respond(w, http.StatusOK, envelope(posts, total, p))
	}
}

// Featured returns the featured published posts.
func (h *Posts) Featured(w http.ResponseWriter, r *http.Request) {
	limit := defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 {
			limit = min(v, maxPageSize)
		}
	}

	posts, err := h.posts.ListFeatured(r.Context(), limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, posts)
}

// Search returns published posts matching q in title or content.
func (h *Posts) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if len(strings.TrimSpace(query)) < minSearchLen {
		fail(w, r, apperr.Validation("search query must be at least 2 characters"))
		return
	}

	p := parsePagination(r)
	posts, err := h.posts.Search(r.Context(), query, p.skip(), p.size)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, envelope(posts, len(posts), p))
}

// Get returns a post by slug. Drafts are visible only to their author or
// a superuser; everyone else gets a 404, never a 403, so the slug's
// existence is not disclosed.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		fail(w, r, err)
		return
	}
	if post == nil {
		fail(w, r, apperr.NotFound("Post"))
		return
	}

	if !post.IsPublished {
		user := middleware.UserFromCtx(r.Context())
		if user == nil || !user.CanAccess(post.AuthorID) {
			fail(w, r, apperr.NotFound("Post"))
			return
		}
	}
	respond(w, http.StatusOK, post)
}

// ByAuthor returns an author's posts. Requesting your own posts (or being
// a superuser) includes drafts; everyone else sees published posts only.
func (h *Posts) ByAuthor(w http.ResponseWriter, r *http.Request) {
	authorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, apperr.NotFound("User"))
		return
	}

	p := parsePagination(r)
	posts, err := h.posts.ListByAuthor(r.Context(), authorID, p.skip(), p.size)
	if err != nil {
		fail(w, r, err)
		return
	}

	user := middleware.UserFromCtx(r.Context())
	if user == nil || !user.CanAccess(authorID) {
		published := posts[:0:0]
		for _, post := range posts {
			if post.IsPublished {
				published = append(published, post)
			}
		}
		posts = published
	}
	respond(w, http.StatusOK, envelope(posts, len(posts), p))
}

// Create adds a post owned by the caller. Slug defaults from the title
// when omitted.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var in models.PostInput
	if err := decode(r, &in); err != nil {
		fail(w, r, err)
		return
	}

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || in.Content == "" {
		fail(w, r, apperr.Validation("title and content are required"))
		return
	}
	if in.Slug == "" {
		in.Slug = slug.Generate(in.Title)
	}
	if !slug.Valid(in.Slug) {
		fail(w, r, apperr.Validation("invalid slug"))
		return
	}

	user := middleware.UserFromCtx(r.Context())
	post, err := h.posts.CreatePost(r.Context(), in, user.ID)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, post)
}

// Update applies a partial update to a post the caller owns.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, apperr.NotFound("Post"))
		return
	}

	var patch models.PostPatch
	if err := decode(r, &patch); err != nil {
		fail(w, r, err)
		return
	}
	if patch.Slug != nil && !slug.Valid(*patch.Slug) {
		fail(w, r, apperr.Validation("invalid slug"))
		return
	}

	user := middleware.UserFromCtx(r.Context())
	if _, err := h.guard.VerifyPostOwnership(r.Context(), user, id); err != nil {
		fail(w, r, err)
		return
	}

	post, err := h.posts.UpdatePost(r.Context(), id, patch)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, post)
}

// Delete removes a post the caller owns.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, apperr.NotFound("Post"))
		return
	}

	user := middleware.UserFromCtx(r.Context())
	if _, err := h.guard.VerifyPostOwnership(r.Context(), user, id); err != nil {
		fail(w, r, err)
		return
	}

	if _, err := h.posts.Remove(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}
