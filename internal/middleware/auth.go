// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"inkpress/internal/apperr"
	"inkpress/internal/auth"
	"inkpress/internal/models"
)

type ctxKey int

const (
	userKey ctxKey = iota
	authErrKey
)

// BearerToken extracts the token from the Authorization header, or ""
// when no bearer credential is present.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Principal resolves the bearer token, if any, into a user and stores the
// outcome in the request context. Requests without a credential pass
// through anonymous; failures are recorded but not rejected here, so
// public endpoints stay reachable and protected ones can report the
// precise failure via RequireUser.
func Principal(guard *auth.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			user, err := guard.CurrentUser(ctx, token)
			if err != nil {
				ctx = context.WithValue(ctx, authErrKey, err)
			} else {
				ctx = context.WithValue(ctx, userKey, user)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects requests that did not resolve to a live user:
// 401 for missing or bad credentials, 403 for a deactivated account.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromCtx(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}

		if err, ok := r.Context().Value(authErrKey).(error); ok {
			if errors.Is(err, apperr.ErrInactiveAccount) {
				jsonError(w, http.StatusForbidden, "inactive account")
				return
			}
			if !errors.Is(err, apperr.ErrUnauthorized) {
				jsonError(w, http.StatusInternalServerError, "internal server error")
				return
			}
		}
		w.Header().Set("WWW-Authenticate", "Bearer")
		jsonError(w, http.StatusUnauthorized, "invalid or missing credentials")
	})
}

// RequireSuperuser rejects authenticated callers without the superuser
// flag. Must run after RequireUser.
func RequireSuperuser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromCtx(r.Context())
		if user == nil || !user.IsSuperuser {
			jsonError(w, http.StatusForbidden, "insufficient permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromCtx returns the authenticated user, or nil for anonymous
// callers.
func UserFromCtx(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// WithUser injects a principal directly into the context. Handler tests
// use this to exercise protected endpoints without minting tokens.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}
