// Package store provides database access for all inkpress entities. A
// generic Store carries the mechanical CRUD shared by every entity; the
// entity stores compose it with the domain rules (uniqueness checks,
// association management, visibility filters).
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"inkpress/internal/apperr"
)

// uniqueViolation is the PostgreSQL error code for a unique-constraint
// violation. The constraint is the final authority against pre-check
// races: a late violation during commit surfaces as Conflict, never as a
// silent retry.
const uniqueViolation = "23505"

// conflictFields maps unique-constraint names to the field reported in the
// resulting Conflict.
var conflictFields = map[string]string{
	"users_username_key":  "username",
	"users_email_key":     "email",
	"categories_name_key": "name",
	"categories_slug_key": "slug",
	"posts_slug_key":      "slug",
}

// asConflict translates a storage-layer unique violation into a typed
// Conflict; any other error is wrapped with the operation name.
func asConflict(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if field, ok := conflictFields[pgErr.ConstraintName]; ok {
			return apperr.Conflict(field)
		}
		return apperr.Conflict(pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Scanner is the subset of *sql.Row / *sql.Rows used by row mappers.
type Scanner interface {
	Scan(dest ...any) error
}

// Mapper describes how an entity type maps onto its table.
type Mapper[T any] interface {
	// Table is the relation name.
	Table() string
	// Kind is the entity name carried by NotFound failures.
	Kind() string
	// Columns is the comma-separated select list matching ScanRow.
	Columns() string
	// ScanRow scans one row into a new entity.
	ScanRow(s Scanner) (*T, error)
}

// Store is the generic record store: fetch-by-id, offset pagination,
// idempotent removal, counting. It enforces no domain rules.
type Store[T any] struct {
	db *sql.DB
	m  Mapper[T]
}

// NewStore creates a generic store for the given mapper.
func NewStore[T any](db *sql.DB, m Mapper[T]) *Store[T] {
	return &Store[T]{db: db, m: m}
}

// Get retrieves an entity by id. Returns nil if not found.
func (s *Store[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+s.m.Columns()+` FROM `+s.m.Table()+` WHERE id = $1`, id)
	ent, err := s.m.ScanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.m.Table(), err)
	}
	return ent, nil
}

// GetOrFail retrieves an entity by id, failing with NotFound when absent.
func (s *Store[T]) GetOrFail(ctx context.Context, id uuid.UUID) (*T, error) {
	ent, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ent == nil {
		return nil, apperr.NotFound(s.m.Kind())
	}
	return ent, nil
}

// List returns a page of entities in store order. Callers needing a
// particular order use the entity store's ordered queries instead.
func (s *Store[T]) List(ctx context.Context, skip, limit int) ([]T, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+s.m.Columns()+` FROM `+s.m.Table()+` OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.m.Table(), err)
	}
	defer rows.Close()
	return collect(rows, s.m)
}

// Remove deletes an entity by id and returns the removed row. Removing a
// missing id is a no-op returning nil, not an error.
func (s *Store[T]) Remove(ctx context.Context, id uuid.UUID) (*T, error) {
	row := s.db.QueryRowContext(ctx,
		`DELETE FROM `+s.m.Table()+` WHERE id = $1 RETURNING `+s.m.Columns(), id)
	ent, err := s.m.ScanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("remove %s: %w", s.m.Table(), err)
	}
	return ent, nil
}

// Count returns the total number of rows in the entity's table.
func (s *Store[T]) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+s.m.Table()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", s.m.Table(), err)
	}
	return count, nil
}

// collect scans all rows through the mapper.
func collect[T any](rows *sql.Rows, m Mapper[T]) ([]T, error) {
	var items []T
	for rows.Next() {
		ent, err := m.ScanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", m.Table(), err)
		}
		items = append(items, *ent)
	}
	return items, rows.Err()
}

// placeholders builds "$start, $start+1, ..." for n arguments.
func placeholders(n, start int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(parts, ", ")
}
