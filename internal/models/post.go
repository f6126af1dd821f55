// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a blog post with exactly one author and zero or more categories.
// IsFeatured only matters publicly when IsPublished also holds; the read
// queries enforce that, writes accept any combination.
type Post struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Excerpt         *string    `json:"excerpt,omitempty"`
	Content         string     `json:"content"`
	ImageURL        *string    `json:"image_url,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	IsPublished     bool       `json:"is_published"`
	IsFeatured      bool       `json:"is_featured"`
	MetaTitle       *string    `json:"meta_title,omitempty"`
	MetaDescription *string    `json:"meta_description,omitempty"`
	AuthorID        uuid.UUID  `json:"author_id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Populated by eager-loading queries; nil on bare row fetches.
	Author     *User      `json:"author,omitempty"`
	Categories []Category `json:"categories,omitempty"`
}

// PostInput is the input for creating a post. Slug may be empty, in which
// case it is derived from the title. CategoryIDs must all resolve to
// existing categories.
type PostInput struct {
	Title           string      `json:"title"`
	Slug            string      `json:"slug"`
	Excerpt         *string     `json:"excerpt,omitempty"`
	Content         string      `json:"content"`
	ImageURL        *string     `json:"image_url,omitempty"`
	PublishedAt     *time.Time  `json:"published_at,omitempty"`
	IsPublished     bool        `json:"is_published"`
	IsFeatured      bool        `json:"is_featured"`
	MetaTitle       *string     `json:"meta_title,omitempty"`
	MetaDescription *string     `json:"meta_description,omitempty"`
	CategoryIDs     []uuid.UUID `json:"category_ids,omitempty"`
}

// PostPatch is a partial update for a post. A non-nil CategoryIDs fully
// replaces the association set; nil leaves it untouched.
type PostPatch struct {
	Title           *string        `json:"title"`
	Slug            *string        `json:"slug"`
	Excerpt         Opt[string]    `json:"excerpt"`
	Content         *string        `json:"content"`
	ImageURL        Opt[string]    `json:"image_url"`
	PublishedAt     Opt[time.Time] `json:"published_at"`
	IsPublished     *bool          `json:"is_published"`
	IsFeatured      *bool          `json:"is_featured"`
	MetaTitle       Opt[string]    `json:"meta_title"`
	MetaDescription Opt[string]    `json:"meta_description"`
	CategoryIDs     []uuid.UUID    `json:"category_ids"`
}
