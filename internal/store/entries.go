package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dmitrijs2005/walletbridge/internal/dbx"
)

// entryRow is an entries row as stored: indexes plus sealed fields.
type entryRow struct {
	id          int64
	categoryIdx []byte
	nameIdx     []byte
	category    []byte
	name        []byte
	value       []byte
}

type tagRow struct {
	entryID   int64
	name      []byte
	value     []byte
	plaintext bool
}

type entryRepository struct {
	db      dbx.DBTX
	dialect dialect
}

func newEntryRepository(db dbx.DBTX, d dialect) *entryRepository {
	return &entryRepository{db: db, dialect: d}
}

// Create inserts e and sets its id. A repeated (category, name) index pair
// yields ErrDuplicate.
func (r *entryRepository) Create(ctx context.Context, e *entryRow) error {
	query := r.dialect.rebind(`INSERT INTO entries (category_idx, name_idx, category, name, value)
		VALUES (?, ?, ?, ?, ?) RETURNING id`)
	err := r.db.QueryRowContext(ctx, query, e.categoryIdx, e.nameIdx, e.category, e.name, e.value).Scan(&e.id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

func (r *entryRepository) CreateTag(ctx context.Context, t tagRow) error {
	plain := 0
	if t.plaintext {
		plain = 1
	}
	query := r.dialect.rebind(`INSERT INTO entry_tags (entry_id, name, value, plaintext) VALUES (?, ?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, t.entryID, t.name, t.value, plain); err != nil {
		return fmt.Errorf("failed to insert entry tag: %w", err)
	}
	return nil
}

// List returns entries in insertion order, optionally restricted to one
// category index and capped by limit.
func (r *entryRepository) List(ctx context.Context, categoryIdx []byte, limit int) ([]entryRow, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT id, category, name, value FROM entries`)
	if categoryIdx != nil {
		sb.WriteString(` WHERE category_idx = ?`)
		args = append(args, categoryIdx)
	}
	sb.WriteString(` ORDER BY id`)
	if limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(sb.String()), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []entryRow
	for rows.Next() {
		var e entryRow
		if err := rows.Scan(&e.id, &e.category, &e.name, &e.value); err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entry rows: %w", err)
	}
	return result, nil
}

// ListTags returns tags grouped by entry id, each group in insertion order.
func (r *entryRepository) ListTags(ctx context.Context, categoryIdx []byte) (map[int64][]tagRow, error) {
	query := `SELECT t.entry_id, t.name, t.value, t.plaintext
		FROM entry_tags t JOIN entries e ON e.id = t.entry_id`
	var args []any
	if categoryIdx != nil {
		query += ` WHERE e.category_idx = ?`
		args = append(args, categoryIdx)
	}
	query += ` ORDER BY t.id`

	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select entry tags: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]tagRow)
	for rows.Next() {
		var (
			t     tagRow
			plain int64
		)
		if err := rows.Scan(&t.entryID, &t.name, &t.value, &plain); err != nil {
			return nil, fmt.Errorf("failed to scan entry tag row: %w", err)
		}
		t.plaintext = plain != 0
		result[t.entryID] = append(result[t.entryID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entry tag rows: %w", err)
	}
	return result, nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(se.Error(), "UNIQUE")
		}
		return false
	}
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe.Code == "23505"
	}
	return false
}
