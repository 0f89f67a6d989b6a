package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/walletbridge/internal/cryptox"
	"github.com/dmitrijs2005/walletbridge/internal/dbx"
	"github.com/dmitrijs2005/walletbridge/internal/filex"
)

const (
	domainCategory byte = 1
	domainName     byte = 2
)

// Store is an open, unlocked store.
type Store struct {
	db     *sql.DB
	loc    Location
	method KeyMethod

	mu     sync.RWMutex
	encKey []byte
	macKey []byte
	closed bool
}

// Provision creates a store at uri protected by key. With recreate, any
// existing store at that location is discarded first; without it, an already
// provisioned store yields ErrAlreadyProvisioned.
func Provision(ctx context.Context, uri string, method KeyMethod, key string, recreate bool) (*Store, error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	var salt []byte
	if method.usesSalt() {
		salt = cryptox.GenerateRandByteArray(cryptox.SaltSize)
	}
	pass, err := method.passKey(key, salt)
	if err != nil {
		return nil, err
	}
	defer cryptox.Wipe(pass)

	if loc.IsFile() && recreate {
		if err := filex.RemoveDatabase(loc.Path); err != nil {
			return nil, fmt.Errorf("failed to remove existing store: %w", err)
		}
	}

	db, err := openDB(loc)
	if err != nil {
		return nil, err
	}

	st, err := provision(ctx, db, loc, method, pass, salt, recreate && !loc.IsFile())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func provision(ctx context.Context, db *sql.DB, loc Location, method KeyMethod, pass, salt []byte, reset bool) (*Store, error) {
	if err := migrate(ctx, db, loc.dialect, reset); err != nil {
		return nil, err
	}

	existing, err := newMetadataRepository(db, loc.dialect).Get(ctx, metaStoreKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyProvisioned
	}

	storeKey := cryptox.GenerateRandByteArray(cryptox.KeySize)
	defer cryptox.Wipe(storeKey)

	sealed, err := cryptox.Seal(pass, storeKey)
	if err != nil {
		return nil, fmt.Errorf("failed to seal store key: %w", err)
	}

	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		meta := newMetadataRepository(tx, loc.dialect)
		if err := meta.Set(ctx, metaKeyMethod, []byte(method)); err != nil {
			return err
		}
		if salt != nil {
			if err := meta.Set(ctx, metaKDFSalt, salt); err != nil {
				return err
			}
		}
		return meta.Set(ctx, metaStoreKey, sealed)
	})
	if err != nil {
		return nil, err
	}

	return newStore(db, loc, method, storeKey)
}

// Open unlocks an existing store. It never creates one: a missing sqlite
// file or an unprovisioned database yields ErrNotFound.
func Open(ctx context.Context, uri string, method KeyMethod, key string) (*Store, error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	if loc.IsFile() {
		ok, err := filex.Exists(loc.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat store: %w", err)
		}
		if !ok {
			return nil, ErrNotFound
		}
	}

	db, err := openDB(loc)
	if err != nil {
		return nil, err
	}

	st, err := open(ctx, db, loc, method, key)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func open(ctx context.Context, db *sql.DB, loc Location, method KeyMethod, key string) (*Store, error) {
	meta := newMetadataRepository(db, loc.dialect)

	stored, err := meta.Get(ctx, metaKeyMethod)
	if err != nil {
		return nil, err
	}
	sealed, err := meta.Get(ctx, metaStoreKey)
	if err != nil {
		return nil, err
	}
	if stored == nil || sealed == nil {
		return nil, ErrNotFound
	}
	if KeyMethod(stored) != method {
		return nil, fmt.Errorf("%w: store uses %q", ErrKeyMethodMismatch, string(stored))
	}

	salt, err := meta.Get(ctx, metaKDFSalt)
	if err != nil {
		return nil, err
	}
	pass, err := method.passKey(key, salt)
	if err != nil {
		return nil, err
	}
	defer cryptox.Wipe(pass)

	storeKey, err := cryptox.Open(pass, sealed)
	if err != nil {
		return nil, ErrInvalidKey
	}
	defer cryptox.Wipe(storeKey)

	return newStore(db, loc, method, storeKey)
}

func openDB(loc Location) (*sql.DB, error) {
	db, err := sql.Open(loc.dialect.driver(), loc.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", loc.dialect, err)
	}
	return db, nil
}

func newStore(db *sql.DB, loc Location, method KeyMethod, storeKey []byte) (*Store, error) {
	enc, mac, err := cryptox.SubKeys(storeKey)
	if err != nil {
		return nil, fmt.Errorf("failed to derive store subkeys: %w", err)
	}
	return &Store{db: db, loc: loc, method: method, encKey: enc, macKey: mac}, nil
}

// URI returns the location the store was opened from.
func (s *Store) URI() string { return s.loc.URI }

// KeyMethod returns the method the store is protected with.
func (s *Store) KeyMethod() KeyMethod { return s.method }

// Session pins a connection for a sequence of operations.
func (s *Store) Session(ctx context.Context) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return &Session{store: s, conn: conn}, nil
}

// Close wipes the key material and releases the database. It is safe to call
// more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	cryptox.Wipe(s.encKey)
	cryptox.Wipe(s.macKey)
	return s.db.Close()
}

// keys runs fn with the live subkeys under the read lock.
func (s *Store) keys(fn func(enc, mac []byte) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return fn(s.encKey, s.macKey)
}
