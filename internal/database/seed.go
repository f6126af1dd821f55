// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: an admin
// account, two authors, a few categories and published posts. It is a
// no-op if any users exist already.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	var adminID string
	err = tx.QueryRow(`
		INSERT INTO users (username, email, full_name, password_hash, is_superuser)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id
	`, "admin", "admin@inkpress.local", "Admin", string(hash)).Scan(&adminID)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	authorHash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	var authorID string
	err = tx.QueryRow(`
		INSERT INTO users (username, email, full_name, password_hash, bio)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, "jdoe", "jdoe@inkpress.local", "Jane Doe", string(authorHash),
		"Writes about software and coffee.").Scan(&authorID)
	if err != nil {
		return fmt.Errorf("seed insert author: %w", err)
	}

	categories := []struct{ name, slug, color string }{
		{"Technology", "technology", "#3B82F6"},
		{"Design", "design", "#EC4899"},
		{"Engineering", "engineering", "#10B981"},
	}
	categoryIDs := make([]string, 0, len(categories))
	for _, c := range categories {
		var id string
		err = tx.QueryRow(`
			INSERT INTO categories (name, slug, color)
			VALUES ($1, $2, $3)
			RETURNING id
		`, c.name, c.slug, c.color).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed insert category %q: %w", c.slug, err)
		}
		categoryIDs = append(categoryIDs, id)
	}

	posts := []struct {
		title, slug, content string
		featured             bool
		category             int
	}{
		{"Welcome to Inkpress", "welcome-to-inkpress",
			"A fresh start for the blog. More soon.", true, 0},
		{"Designing for Readers", "designing-for-readers",
			"Typography and whitespace carry more weight than color.", false, 1},
		{"Shipping Small", "shipping-small",
			"Small releases fail small. Deploy on Fridays if your tests let you.", false, 2},
	}
	for _, p := range posts {
		var postID string
		err = tx.QueryRow(`
			INSERT INTO posts (title, slug, content, is_published, is_featured, published_at, author_id)
			VALUES ($1, $2, $3, TRUE, $4, NOW(), $5)
			RETURNING id
		`, p.title, p.slug, p.content, p.featured, authorID).Scan(&postID)
		if err != nil {
			return fmt.Errorf("seed insert post %q: %w", p.slug, err)
		}
		_, err = tx.Exec(`
			INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2)
		`, postID, categoryIDs[p.category])
		if err != nil {
			return fmt.Errorf("seed associate post %q: %w", p.slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with development data",
		"admin", "admin@inkpress.local",
		"author", "jdoe@inkpress.local",
	)

	return nil
}
