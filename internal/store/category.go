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

	"inkpress/internal/apperr"
	"inkpress/internal/models"
)

const categoryColumns = `id, name, slug, description, color, created_at, updated_at`

type categoryMapper struct{}

func (categoryMapper) Table() string   { return "categories" }
func (categoryMapper) Kind() string    { return "Category" }
func (categoryMapper) Columns() string { return categoryColumns }

func (categoryMapper) ScanRow(s Scanner) (*models.Category, error) {
	c := &models.Category{}
	err := s.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CategoryStore manages categories in the database.
type CategoryStore struct {
	*Store[models.Category]
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{Store: NewStore[models.Category](db, categoryMapper{}), db: db}
}

// GetBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	c, err := categoryMapper{}.ScanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// GetByName retrieves a category by its exact name. Returns nil if not found.
func (s *CategoryStore) GetByName(ctx context.Context, name string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE name = $1`, name)
	c, err := categoryMapper{}.ScanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	return c, nil
}

// CreateCategory inserts a new category. Fails with Conflict if the slug or
// name collides with an existing category. The pre-checks give precise
// fields; the unique constraints remain the final authority.
func (s *CategoryStore) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	if existing, err := s.GetBySlug(ctx, in.Slug); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflict("slug")
	}
	if existing, err := s.GetByName(ctx, in.Name); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflict("name")
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, description, color)
		VALUES ($1, $2, $3, $4)
		RETURNING `+categoryColumns,
		in.Name, in.Slug, in.Description, in.Color,
	)
	c, err := categoryMapper{}.ScanRow(row)
	if err != nil {
		return nil, asConflict(err, "create category")
	}
	return c, nil
}

// UpdateCategory applies a partial update. Fails NotFound if the id is
// absent and Conflict if the new slug or name collides with a different
// category; re-asserting the current value is allowed.
func (s *CategoryStore) UpdateCategory(ctx context.Context, id uuid.UUID, patch models.CategoryPatch) (*models.Category, error) {
	c, err := s.GetOrFail(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Slug != nil && *patch.Slug != c.Slug {
		existing, err := s.GetBySlug(ctx, *patch.Slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != c.ID {
			return nil, apperr.Conflict("slug")
		}
		c.Slug = *patch.Slug
	}
	if patch.Name != nil && *patch.Name != c.Name {
		existing, err := s.GetByName(ctx, *patch.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != c.ID {
			return nil, apperr.Conflict("name")
		}
		c.Name = *patch.Name
	}
	patch.Description.Apply(&c.Description)
	patch.Color.Apply(&c.Color)

	row := s.db.QueryRowContext(ctx, `
		UPDATE categories SET name = $1, slug = $2, description = $3, color = $4,
			updated_at = NOW()
		WHERE id = $5
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.Color, c.ID,
	)
	updated, err := categoryMapper{}.ScanRow(row)
	if err != nil {
		return nil, asConflict(err, "update category")
	}
	return updated, nil
}

// ListWithPostCount returns all categories decorated with the number of
// associated posts.
func (s *CategoryStore) ListWithPostCount(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.slug, c.description, c.color, c.created_at, c.updated_at,
		       COUNT(pc.post_id) AS post_count
		FROM categories c
		LEFT JOIN post_categories pc ON pc.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories with post count: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color,
			&c.CreatedAt, &c.UpdatedAt, &c.PostCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// ListPopular returns categories ordered by descending post-association
// count. Ties break on category id so the order is deterministic.
func (s *CategoryStore) ListPopular(ctx context.Context, limit int) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.slug, c.description, c.color, c.created_at, c.updated_at,
		       COUNT(pc.post_id) AS post_count
		FROM categories c
		JOIN post_categories pc ON pc.category_id = c.id
		GROUP BY c.id
		ORDER BY post_count DESC, c.id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list popular categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color,
			&c.CreatedAt, &c.UpdatedAt, &c.PostCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
