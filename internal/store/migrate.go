package store

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/walletbridge/internal/store/migrations"
)

func newMigrator(db *sql.DB, d dialect) (*goose.Provider, error) {
	sub, err := fs.Sub(migrations.FS, string(d))
	if err != nil {
		return nil, fmt.Errorf("failed to locate %s migrations: %w", d, err)
	}
	gd := goose.DialectSQLite3
	if d == dialectPostgres {
		gd = goose.DialectPostgres
	}
	p, err := goose.NewProvider(gd, db, sub)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return p, nil
}

// migrate applies every pending migration. With reset it first rolls the
// schema all the way down, discarding existing data.
func migrate(ctx context.Context, db *sql.DB, d dialect, reset bool) error {
	p, err := newMigrator(db, d)
	if err != nil {
		return err
	}
	if reset {
		if _, err := p.DownTo(ctx, 0); err != nil {
			return fmt.Errorf("failed to reset schema: %w", err)
		}
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
