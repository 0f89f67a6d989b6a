package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/walletbridge/internal/dbx"
)

const (
	metaKeyMethod = "key_method"
	metaKDFSalt   = "kdf_salt"
	metaStoreKey  = "store_key"
)

type metadataRepository struct {
	db      dbx.DBTX
	dialect dialect
}

func newMetadataRepository(db dbx.DBTX, d dialect) *metadataRepository {
	return &metadataRepository{db: db, dialect: d}
}

// Get returns (nil, nil) when the key is absent.
func (r *metadataRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, r.dialect.rebind(`SELECT value FROM metadata WHERE key = ?`), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (r *metadataRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, r.dialect.rebind(`
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`), key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}
