// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"context"

	"github.com/google/uuid"

	"inkpress/internal/apperr"
	"inkpress/internal/models"
	"inkpress/internal/store"
)

// Guard resolves credentials into live user records and enforces the
// ownership and privilege rules.
type Guard struct {
	issuer *Issuer
	users  *store.UserStore
	posts  *store.PostStore
}

// NewGuard creates a Guard backed by the given issuer and stores.
func NewGuard(issuer *Issuer, users *store.UserStore, posts *store.PostStore) *Guard {
	return &Guard{issuer: issuer, users: users, posts: posts}
}

// CurrentUser resolves a bearer token into the user it belongs to.
// Fails ErrUnauthorized on a missing, invalid, or expired token, or when
// the user behind it no longer exists, and ErrInactiveAccount when the
// account has been deactivated.
func (g *Guard) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperr.ErrUnauthorized
	}

	userID, err := g.issuer.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := g.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, apperr.ErrInactiveAccount
	}
	return user, nil
}

// CurrentUserOptional resolves a token if one is present and usable,
// downgrading every credential failure to an anonymous caller. Endpoints
// that merely personalize for logged-in users use this so a stale token
// never blocks public content.
func (g *Guard) CurrentUserOptional(ctx context.Context, token string) (*models.User, error) {
	user, err := g.CurrentUser(ctx, token)
	if err != nil {
		if err == apperr.ErrUnauthorized || err == apperr.ErrInactiveAccount {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// RequirePrivileged fails ErrForbidden unless the user is a superuser.
func (g *Guard) RequirePrivileged(user *models.User) error {
	if !user.IsSuperuser {
		return apperr.ErrForbidden
	}
	return nil
}

// VerifyPostOwnership loads the post and checks the user may modify it:
// either they authored it or they are a superuser. Fails NotFound when
// the post is missing and ErrForbidden when access is denied.
func (g *Guard) VerifyPostOwnership(ctx context.Context, user *models.User, postID uuid.UUID) (*models.Post, error) {
	post, err := g.posts.GetOrFail(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !user.CanAccess(post.AuthorID) {
		return nil, apperr.ErrForbidden
	}
	return post, nil
}
