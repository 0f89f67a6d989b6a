// Package store is the encrypted Store/Session engine behind the wallet bridge.
//
// # Overview
//
// A store is addressed by URI and unlocked by a key. Two backends are
// supported:
//
//   - sqlite://<path>: a single file, via modernc.org/sqlite
//   - postgres:// or postgresql://: a database, via pgx's database/sql driver
//
// Provision creates the schema (embedded goose migrations) and a random store
// key sealed under the caller's key. Open unseals that key; it never creates
// anything. Work against an open store happens through a Session obtained from
// (*Store).Session, which pins one connection for its lifetime.
//
// # Key Methods
//
//   - raw: base58 encoding of exactly 32 bytes
//   - kdf:argon2i: passphrase stretched with Argon2i (moderate cost)
//   - kdf:argon2i:mod: same as kdf:argon2i
//   - kdf:argon2i:int: passphrase stretched with Argon2i (interactive cost)
//
// # Data Model
//
// Category, name and value are sealed per field with AES-256-GCM. An HMAC of
// category and of name forms a unique index, so inserting the same
// (category, name) twice fails with ErrDuplicate. Tags are sealed unless they
// are marked plaintext.
//
// # Errors
//
// Engine conditions are sentinel errors matched with errors.Is:
// ErrNotFound, ErrInvalidKey, ErrKeyMethodMismatch, ErrDuplicate,
// ErrAlreadyProvisioned, ErrUnsupportedScheme, ErrClosed.
//
// Typical Usage
//
//	st, err := store.Open(ctx, "sqlite:///tmp/w.db", store.KeyMethodRaw, key)
//	defer st.Close()
//	sess, err := st.Session(ctx)
//	defer sess.Close()
//	err = sess.Insert(ctx, "item", "name", []byte("v"), nil)
//	all, err := sess.FetchAll(ctx, store.Filter{})
package store
