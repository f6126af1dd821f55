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

const postColumns = `id, title, slug, excerpt, content, image_url, published_at,
	is_published, is_featured, meta_title, meta_description, author_id, created_at, updated_at`

// postAuthorColumns is the select list for post rows joined with their author.
const postAuthorColumns = `p.id, p.title, p.slug, p.excerpt, p.content, p.image_url, p.published_at,
	p.is_published, p.is_featured, p.meta_title, p.meta_description, p.author_id, p.created_at, p.updated_at,
	u.id, u.username, u.email, u.full_name, u.password_hash, u.is_active, u.is_superuser,
	u.bio, u.avatar_url, u.website_url, u.totp_secret, u.totp_enabled, u.created_at, u.updated_at`

type postMapper struct{}

func (postMapper) Table() string   { return "posts" }
func (postMapper) Kind() string    { return "Post" }
func (postMapper) Columns() string { return postColumns }

func (postMapper) ScanRow(s Scanner) (*models.Post, error) {
	p := &models.Post{}
	err := s.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.ImageURL,
		&p.PublishedAt, &p.IsPublished, &p.IsFeatured,
		&p.MetaTitle, &p.MetaDescription, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// scanPostWithAuthor scans a post row joined with its author.
func scanPostWithAuthor(s Scanner) (*models.Post, error) {
	p := &models.Post{}
	u := &models.User{}
	err := s.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.ImageURL,
		&p.PublishedAt, &p.IsPublished, &p.IsFeatured,
		&p.MetaTitle, &p.MetaDescription, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
		&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash,
		&u.IsActive, &u.IsSuperuser, &u.Bio, &u.AvatarURL, &u.WebsiteURL,
		&u.TOTPSecret, &u.TOTPEnabled, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Author = u
	return p, nil
}

// PostStore handles all post-related database operations, including the
// post↔category association table.
type PostStore struct {
	*Store[models.Post]
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{Store: NewStore[models.Post](db, postMapper{}), db: db}
}

// GetBySlug retrieves a post by slug with its author and categories loaded.
// Returns nil if not found. No visibility filter: the boundary decides
// whether unpublished posts are shown.
func (s *PostStore) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+postAuthorColumns+`
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.slug = $1
	`, slug)
	p, err := scanPostWithAuthor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	if err := s.loadCategories(ctx, []*models.Post{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPublished returns published posts ordered by publish date descending,
// creation time descending as tiebreak, with authors and categories loaded.
func (s *PostStore) ListPublished(ctx context.Context, skip, limit int) ([]models.Post, error) {
	return s.queryPosts(ctx, `
		SELECT `+postAuthorColumns+`
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.is_published
		ORDER BY p.published_at DESC NULLS LAST, p.created_at DESC
		OFFSET $1 LIMIT $2
	`, skip, limit)
}

// ListFeatured returns featured published posts ordered by publish date
// descending. A featured draft is never returned.
func (s *PostStore) ListFeatured(ctx context.Context, limit int) ([]models.Post, error) {
	return s.queryPosts(ctx, `
		SELECT `+postAuthorColumns+`
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.is_published AND p.is_featured
		ORDER BY p.published_at DESC NULLS LAST
		LIMIT $1
	`, limit)
}

// ListByCategory returns published posts associated with the category slug.
func (s *PostStore) ListByCategory(ctx context.Context, categorySlug string, skip, limit int) ([]models.Post, error) {
	return s.queryPosts(ctx, `
		SELECT `+postAuthorColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		JOIN post_categories pc ON pc.post_id = p.id
		JOIN categories c ON c.id = pc.category_id
		WHERE c.slug = $1 AND p.is_published
		ORDER BY p.published_at DESC NULLS LAST
		OFFSET $2 LIMIT $3
	`, categorySlug, skip, limit)
}

// ListByAuthor returns all posts by the author, drafts included, newest
// first. Narrowing to published-only for non-author callers is the
// boundary layer's responsibility.
func (s *PostStore) ListByAuthor(ctx context.Context, authorID uuid.UUID, skip, limit int) ([]models.Post, error) {
	return s.queryPosts(ctx, `
		SELECT `+postAuthorColumns+`
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.author_id = $1
		ORDER BY p.created_at DESC
		OFFSET $2 LIMIT $3
	`, authorID, skip, limit)
}

// Search returns published posts whose title or content contains the query,
// case-insensitively. Minimum-length enforcement is the boundary layer's
// job; a short query here still runs.
func (s *PostStore) Search(ctx context.Context, query string, skip, limit int) ([]models.Post, error) {
	return s.queryPosts(ctx, `
		SELECT `+postAuthorColumns+`
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.is_published
		  AND (p.title ILIKE '%' || $1 || '%' OR p.content ILIKE '%' || $1 || '%')
		ORDER BY p.published_at DESC NULLS LAST
		OFFSET $2 LIMIT $3
	`, query, skip, limit)
}

// CountPublished returns the number of published posts.
func (s *PostStore) CountPublished(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE is_published`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count published posts: %w", err)
	}
	return count, nil
}

// CreatePost inserts a new post owned by authorID, associating it with the
// supplied categories in the same transaction. Fails with Conflict if the
// slug exists and with a validation failure if any category id does not
// resolve.
func (s *PostStore) CreatePost(ctx context.Context, in models.PostInput, authorID uuid.UUID) (*models.Post, error) {
	if existing, err := s.GetBySlug(ctx, in.Slug); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflict("slug")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create post begin: %w", err)
	}
	defer tx.Rollback()

	if err := validateCategoryIDs(ctx, tx, in.CategoryIDs); err != nil {
		return nil, err
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO posts (title, slug, excerpt, content, image_url, published_at,
			is_published, is_featured, meta_title, meta_description, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+postColumns,
		in.Title, in.Slug, in.Excerpt, in.Content, in.ImageURL, in.PublishedAt,
		in.IsPublished, in.IsFeatured, in.MetaTitle, in.MetaDescription, authorID,
	)
	p, err := postMapper{}.ScanRow(row)
	if err != nil {
		return nil, asConflict(err, "create post")
	}

	if err := insertAssociations(ctx, tx, p.ID, in.CategoryIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create post commit: %w", err)
	}

	return s.GetBySlug(ctx, p.Slug)
}

// UpdatePost applies a partial update. Supplied category ids fully replace
// the existing association set; all other fields merge. Fails NotFound if
// the post is missing and Conflict on a slug collision with a different post.
func (s *PostStore) UpdatePost(ctx context.Context, id uuid.UUID, patch models.PostPatch) (*models.Post, error) {
	p, err := s.GetOrFail(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Slug != nil && *patch.Slug != p.Slug {
		existing, err := s.GetBySlug(ctx, *patch.Slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != p.ID {
			return nil, apperr.Conflict("slug")
		}
		p.Slug = *patch.Slug
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.IsPublished != nil {
		p.IsPublished = *patch.IsPublished
	}
	if patch.IsFeatured != nil {
		p.IsFeatured = *patch.IsFeatured
	}
	patch.Excerpt.Apply(&p.Excerpt)
	patch.ImageURL.Apply(&p.ImageURL)
	patch.PublishedAt.Apply(&p.PublishedAt)
	patch.MetaTitle.Apply(&p.MetaTitle)
	patch.MetaDescription.Apply(&p.MetaDescription)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("update post begin: %w", err)
	}
	defer tx.Rollback()

	if patch.CategoryIDs != nil {
		if err := validateCategoryIDs(ctx, tx, patch.CategoryIDs); err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM post_categories WHERE post_id = $1`, p.ID); err != nil {
			return nil, fmt.Errorf("clear post categories: %w", err)
		}
		if err := insertAssociations(ctx, tx, p.ID, patch.CategoryIDs); err != nil {
			return nil, err
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE posts SET title = $1, slug = $2, excerpt = $3, content = $4,
			image_url = $5, published_at = $6, is_published = $7, is_featured = $8,
			meta_title = $9, meta_description = $10, updated_at = NOW()
		WHERE id = $11
	`, p.Title, p.Slug, p.Excerpt, p.Content, p.ImageURL, p.PublishedAt,
		p.IsPublished, p.IsFeatured, p.MetaTitle, p.MetaDescription, p.ID,
	)
	if err != nil {
		return nil, asConflict(err, "update post")
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update post commit: %w", err)
	}

	return s.GetBySlug(ctx, p.Slug)
}

// queryer is the subset of *sql.DB and *sql.Tx the association helpers need.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// validateCategoryIDs resolves every id against the categories table and
// fails when any is unknown.
func validateCategoryIDs(ctx context.Context, q queryer, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := q.QueryContext(ctx,
		`SELECT COUNT(DISTINCT id) FROM categories WHERE id IN (`+placeholders(len(ids), 1)+`)`,
		args...)
	if err != nil {
		return fmt.Errorf("resolve categories: %w", err)
	}
	defer rows.Close()

	var found int
	if rows.Next() {
		if err := rows.Scan(&found); err != nil {
			return fmt.Errorf("resolve categories: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("resolve categories: %w", err)
	}

	if found != len(uniqueIDs(ids)) {
		return apperr.Validation("one or more categories not found")
	}
	return nil
}

// insertAssociations links the post to each category id.
func insertAssociations(ctx context.Context, q queryer, postID uuid.UUID, ids []uuid.UUID) error {
	for _, categoryID := range uniqueIDs(ids) {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2)`,
			postID, categoryID); err != nil {
			return fmt.Errorf("associate category %s: %w", categoryID, err)
		}
	}
	return nil
}

// uniqueIDs deduplicates while preserving order.
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// queryPosts runs a post+author query and eager-loads categories for the page.
func (s *PostStore) queryPosts(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPostWithAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*models.Post, len(posts))
	for i := range posts {
		refs[i] = &posts[i]
	}
	if err := s.loadCategories(ctx, refs); err != nil {
		return nil, err
	}
	return posts, nil
}

// loadCategories attaches categories to each post in one query for the
// whole page, keeping I/O cost predictable.
func (s *PostStore) loadCategories(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*models.Post, len(posts))
	args := make([]any, 0, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
		args = append(args, p.ID)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT pc.post_id, c.id, c.name, c.slug, c.description, c.color, c.created_at, c.updated_at
		FROM post_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.post_id IN (`+placeholders(len(args), 1)+`)
		ORDER BY c.name
	`, args...)
	if err != nil {
		return fmt.Errorf("load post categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID uuid.UUID
		var c models.Category
		err := rows.Scan(
			&postID, &c.ID, &c.Name, &c.Slug, &c.Description, &c.Color,
			&c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("scan post category: %w", err)
		}
		if p, ok := byID[postID]; ok {
			p.Categories = append(p.Categories, c)
		}
	}
	return rows.Err()
}
