// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups posts. Name and slug are globally unique; posts relate to
// categories many-to-many through the post_categories table.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	Color       *string   `json:"color,omitempty"` // Hex color like #FF5733
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// PostCount is populated by ListWithPostCount; zero elsewhere.
	PostCount int `json:"post_count,omitempty"`
}

// CategoryInput is the input for creating a category. Slug may be empty,
// in which case it is derived from the name.
type CategoryInput struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

// CategoryPatch is a partial update for a category.
type CategoryPatch struct {
	Name        *string     `json:"name"`
	Slug        *string     `json:"slug"`
	Description Opt[string] `json:"description"`
	Color       Opt[string] `json:"color"`
}
