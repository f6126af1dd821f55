// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the typed failures the service layer raises and the
// HTTP boundary translates. Services never format user-facing text beyond the
// short reason strings carried here; status-code mapping lives in the handlers.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for failures that need no extra context.
var (
	// ErrUnauthorized is returned when a credential is missing, malformed,
	// expired, or refers to a user that no longer exists.
	ErrUnauthorized = errors.New("invalid or missing credentials")

	// ErrInactiveAccount is returned when a credential resolves to a
	// deactivated account.
	ErrInactiveAccount = errors.New("inactive account")

	// ErrForbidden is returned when an authenticated user lacks ownership
	// or the elevated privilege required for an operation.
	ErrForbidden = errors.New("insufficient permissions")
)

// NotFoundError reports that no entity exists at the given key.
// Kind names the entity ("Post", "Category", "User").
type NotFoundError struct {
	Kind string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Kind)
}

// NotFound creates a NotFoundError for the given entity kind.
func NotFound(kind string) error {
	return &NotFoundError{Kind: kind}
}

// IsNotFound checks whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ConflictError reports a uniqueness violation on create or update.
// Field names the colliding attribute ("slug", "username", "email", "name").
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

// Conflict creates a ConflictError for the given field.
func Conflict(field string) error {
	return &ConflictError{Field: field}
}

// IsConflict checks whether err is a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// ValidationError reports that a referenced related entity does not exist or
// an input value is unusable, e.g. an unknown category id on a post.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation creates a ValidationError with the given message.
func Validation(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation checks whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
