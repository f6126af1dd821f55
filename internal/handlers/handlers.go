// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API boundary: request decoding,
// pagination parsing, and the translation of domain failures into HTTP
// status codes. Handlers stay thin; all domain rules live in the stores
// and the auth guard.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"inkpress/internal/apperr"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// pageParams is the parsed page/size query pair.
type pageParams struct {
	page int
	size int
}

func (p pageParams) skip() int { return (p.page - 1) * p.size }

// parsePagination reads page and size from the query string, clamping to
// page >= 1 and 1 <= size <= 100. Unparseable values fall back to defaults.
func parsePagination(r *http.Request) pageParams {
	p := pageParams{page: 1, size: defaultPageSize}

	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 {
			p.page = v
		}
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 {
			p.size = min(v, maxPageSize)
		}
	}
	return p
}

// listEnvelope is the paginated response shape shared by every listing
// endpoint.
type listEnvelope struct {
	Items any `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Pages int `json:"pages"`
}

// envelope builds the listing response. Pages is ceil(total/size).
func envelope(items any, total int, p pageParams) listEnvelope {
	pages := (total + p.size - 1) / p.size
	return listEnvelope{Items: items, Total: total, Page: p.page, Size: p.size, Pages: pages}
}

// respond writes v as JSON with the given status.
func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("encode response failed", "error", err)
		}
	}
}

// decode reads the request body into dst, failing on malformed JSON.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}

// fail translates a domain failure into its HTTP status. Anything outside
// the taxonomy is a 500 and gets logged; its detail never leaks to the
// client.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case apperr.IsNotFound(err):
		respond(w, http.StatusNotFound, errBody(err))
	case apperr.IsConflict(err):
		respond(w, http.StatusConflict, errBody(err))
	case apperr.IsValidation(err):
		respond(w, http.StatusBadRequest, errBody(err))
	case errors.Is(err, apperr.ErrUnauthorized):
		w.Header().Set("WWW-Authenticate", "Bearer")
		respond(w, http.StatusUnauthorized, errBody(err))
	case errors.Is(err, apperr.ErrInactiveAccount), errors.Is(err, apperr.ErrForbidden):
		respond(w, http.StatusForbidden, errBody(err))
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respond(w, http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
	}
}

func errBody(err error) map[string]string {
	return map[string]string{"detail": err.Error()}
}
