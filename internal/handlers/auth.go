// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"time"

	"inkpress/internal/apperr"
	"inkpress/internal/auth"
	"inkpress/internal/middleware"
	"inkpress/internal/store"
)

// Auth groups the authentication endpoints: login, current user, logout,
// and TOTP enrollment.
type Auth struct {
	users  *store.UserStore
	issuer *auth.Issuer
	twofa  *auth.TwoFactor
}

// NewAuth creates the auth handler group.
func NewAuth(users *store.UserStore, issuer *auth.Issuer, twofa *auth.TwoFactor) *Auth {
	return &Auth{users: users, issuer: issuer, twofa: twofa}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Login verifies credentials and issues an access token. Unknown username
// and wrong password answer identically; a TOTP code is demanded only for
// accounts that enabled it.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	user, err := a.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	if user == nil {
		fail(w, r, apperr.ErrUnauthorized)
		return
	}
	if !user.IsActive {
		fail(w, r, apperr.ErrInactiveAccount)
		return
	}
	if err := a.twofa.Verify(user, req.TOTPCode); err != nil {
		fail(w, r, err)
		return
	}

	token, err := a.issuer.Issue(user.ID)
	if err != nil {
		fail(w, r, err)
		return
	}

	respond(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(a.issuer.TTL() / time.Second),
	})
}

// Me returns the authenticated user's own record.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, middleware.UserFromCtx(r.Context()))
}

// Logout acknowledges the client discarding its token. Tokens are
// stateless and expire on their own; there is nothing to revoke
// server-side.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{"detail": "logged out"})
}

// TwoFAEnroll generates a provisional TOTP secret for the caller and
// returns it with a provisioning QR code.
func (a *Auth) TwoFAEnroll(w http.ResponseWriter, r *http.Request) {
	enrollment, err := a.twofa.Enroll(r.Context(), middleware.UserFromCtx(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, enrollment)
}

type totpCodeRequest struct {
	Code string `json:"code"`
}

// TwoFAActivate turns two-factor on after the caller proves possession of
// the enrolled secret.
func (a *Auth) TwoFAActivate(w http.ResponseWriter, r *http.Request) {
	var req totpCodeRequest
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	if err := a.twofa.Activate(r.Context(), middleware.UserFromCtx(r.Context()), req.Code); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"detail": "two-factor authentication enabled"})
}

// TwoFADisable clears the caller's TOTP secret.
func (a *Auth) TwoFADisable(w http.ResponseWriter, r *http.Request) {
	if err := a.twofa.Reset(r.Context(), middleware.UserFromCtx(r.Context())); err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"detail": "two-factor authentication disabled"})
}
