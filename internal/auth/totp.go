// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"inkpress/internal/apperr"
	"inkpress/internal/models"
	"inkpress/internal/store"
)

const totpIssuer = "InkPress"

// Enrollment carries what a user needs to register an authenticator app:
// the shared secret and a QR code of the otpauth URL as base64 PNG.
type Enrollment struct {
	Secret string `json:"secret"`
	QRCode string `json:"qr_code"`
}

// TwoFactor manages TOTP enrollment and verification. A fresh secret is
// provisional until the user proves possession with a valid code; only
// then is two-factor marked enabled on the account.
type TwoFactor struct {
	users *store.UserStore
}

// NewTwoFactor creates a TwoFactor service backed by the user store.
func NewTwoFactor(users *store.UserStore) *TwoFactor {
	return &TwoFactor{users: users}
}

// Enroll generates a new TOTP secret for the user, stores it unactivated,
// and returns the secret with its QR code. Re-enrolling before activation
// simply replaces the provisional secret.
func (t *TwoFactor) Enroll(ctx context.Context, user *models.User) (*Enrollment, error) {
	if user.TOTPEnabled {
		return nil, apperr.Validation("two-factor authentication is already enabled")
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("generate totp key: %w", err)
	}

	if err := t.users.SetTOTPSecret(ctx, user.ID, key.Secret()); err != nil {
		return nil, err
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode totp qr: %w", err)
	}

	return &Enrollment{
		Secret: key.Secret(),
		QRCode: base64.StdEncoding.EncodeToString(qrPNG),
	}, nil
}

// Activate validates the first code against the provisional secret and
// marks two-factor enabled on success.
func (t *TwoFactor) Activate(ctx context.Context, user *models.User, code string) error {
	if user.TOTPSecret == nil {
		return apperr.Validation("two-factor authentication has not been set up")
	}
	if !totp.Validate(code, *user.TOTPSecret) {
		return apperr.ErrUnauthorized
	}
	if user.TOTPEnabled {
		return nil
	}
	return t.users.EnableTOTP(ctx, user.ID)
}

// Verify checks a code for a user with two-factor enabled. Users without
// an enabled secret pass trivially, so login flows can call this
// unconditionally.
func (t *TwoFactor) Verify(user *models.User, code string) error {
	if !user.TOTPEnabled || user.TOTPSecret == nil {
		return nil
	}
	if !totp.Validate(code, *user.TOTPSecret) {
		return apperr.ErrUnauthorized
	}
	return nil
}

// Reset clears the user's secret and disables two-factor.
func (t *TwoFactor) Reset(ctx context.Context, user *models.User) error {
	return t.users.ResetTOTP(ctx, user.ID)
}
