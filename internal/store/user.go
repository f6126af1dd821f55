// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"inkpress/internal/apperr"
	"inkpress/internal/models"
)

const userColumns = `id, username, email, full_name, password_hash, is_active, is_superuser,
	bio, avatar_url, website_url, totp_secret, totp_enabled, created_at, updated_at`

type userMapper struct{}

func (userMapper) Table() string   { return "users" }
func (userMapper) Kind() string    { return "User" }
func (userMapper) Columns() string { return userColumns }

func (userMapper) ScanRow(s Scanner) (*models.User, error) {
	u := &models.User{}
	err := s.Scan(
		&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash,
		&u.IsActive, &u.IsSuperuser, &u.Bio, &u.AvatarURL, &u.WebsiteURL,
		&u.TOTPSecret, &u.TOTPEnabled, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UserStore handles all user-related database operations, including
// password hashing and verification.
type UserStore struct {
	*Store[models.User]
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{Store: NewStore[models.User](db, userMapper{}), db: db}
}

// GetByUsername retrieves a user by username. Returns nil if not found.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := userMapper{}.ScanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

// GetByEmail retrieves a user by email address. Returns nil if not found.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := userMapper{}.ScanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// Register creates a new account. Fails with Conflict if the username or
// email is already taken. Only the bcrypt hash of the password is stored;
// the plaintext is discarded.
func (s *UserStore) Register(ctx context.Context, in models.UserRegistration) (*models.User, error) {
	if existing, err := s.GetByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflict("username")
	}
	if existing, err := s.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflict("email")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, full_name, password_hash, bio, avatar_url, website_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		in.Username, in.Email, in.FullName, hash, in.Bio, in.AvatarURL, in.WebsiteURL,
	)
	u, err := userMapper{}.ScanRow(row)
	if err != nil {
		return nil, asConflict(err, "register user")
	}
	return u, nil
}

// Authenticate looks up a user by username and verifies the password.
// Returns nil for both an unknown user and a password mismatch so callers
// cannot distinguish the two.
func (s *UserStore) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil || !CheckPassword(u, password) {
		return nil, nil
	}
	return u, nil
}

// Update applies a partial profile update and re-persists the user.
func (s *UserStore) Update(ctx context.Context, u *models.User, patch models.UserPatch) (*models.User, error) {
	if patch.FullName != nil {
		u.FullName = *patch.FullName
	}
	patch.Bio.Apply(&u.Bio)
	patch.AvatarURL.Apply(&u.AvatarURL)
	patch.WebsiteURL.Apply(&u.WebsiteURL)

	row := s.db.QueryRowContext(ctx, `
		UPDATE users SET full_name = $1, bio = $2, avatar_url = $3, website_url = $4,
			updated_at = NOW()
		WHERE id = $5
		RETURNING `+userColumns,
		u.FullName, u.Bio, u.AvatarURL, u.WebsiteURL, u.ID,
	)
	updated, err := userMapper{}.ScanRow(row)
	if err != nil {
		return nil, asConflict(err, "update user")
	}
	return updated, nil
}

// PostsCount returns the number of posts authored by the given user.
// A missing user counts zero posts.
func (s *UserStore) PostsCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE author_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count posts by author: %w", err)
	}
	return count, nil
}

// SetTOTPSecret saves the TOTP secret for a user (during 2FA setup).
func (s *UserStore) SetTOTPSecret(ctx context.Context, userID uuid.UUID, secret string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET totp_secret = $1, updated_at = NOW() WHERE id = $2`, secret, userID)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active for a user (after successful code verification).
func (s *UserStore) EnableTOTP(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// ResetTOTP clears the TOTP secret and disables 2FA for a user.
func (s *UserStore) ResetTOTP(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET totp_secret = NULL, totp_enabled = FALSE, updated_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("reset totp: %w", err)
	}
	return nil
}

// HashPassword produces a salted one-way bcrypt hash of the plaintext.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
