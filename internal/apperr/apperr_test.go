// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFound(t *testing.T) {
	err := NotFound("Post")
	if !IsNotFound(err) {
		t.Error("expected IsNotFound to match")
	}
	if got := err.Error(); got != "Post not found" {
		t.Errorf("message: got %q", got)
	}
	if IsConflict(err) || IsValidation(err) {
		t.Error("NotFound must not match other categories")
	}
}

func TestNotFoundWrapped(t *testing.T) {
	err := fmt.Errorf("load post: %w", NotFound("Post"))
	if !IsNotFound(err) {
		t.Error("expected IsNotFound to match through wrapping")
	}
}

func TestConflict(t *testing.T) {
	err := Conflict("slug")
	if !IsConflict(err) {
		t.Error("expected IsConflict to match")
	}
	if got := err.Error(); got != "slug already exists" {
		t.Errorf("message: got %q", got)
	}

	var c *ConflictError
	if !errors.As(err, &c) || c.Field != "slug" {
		t.Error("expected field to survive errors.As")
	}
}

func TestValidation(t *testing.T) {
	err := Validation("one or more categories not found")
	if !IsValidation(err) {
		t.Error("expected IsValidation to match")
	}
	if got := err.Error(); got != "one or more categories not found" {
		t.Errorf("message: got %q", got)
	}
}

func TestSentinels(t *testing.T) {
	if !errors.Is(fmt.Errorf("auth: %w", ErrUnauthorized), ErrUnauthorized) {
		t.Error("ErrUnauthorized should match through wrapping")
	}
	if errors.Is(ErrForbidden, ErrUnauthorized) {
		t.Error("sentinels must be distinct")
	}
}
