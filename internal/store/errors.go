package store

import "errors"

var (
	ErrNotFound           = errors.New("store not found")
	ErrAlreadyProvisioned = errors.New("store already provisioned")
	ErrInvalidKey         = errors.New("invalid store key")
	ErrKeyMethodMismatch  = errors.New("key method mismatch")
	ErrUnsupportedScheme  = errors.New("unsupported store uri scheme")
	ErrUnsupportedMethod  = errors.New("unsupported key method")
	ErrDuplicate          = errors.New("duplicate entry")
	ErrClosed             = errors.New("store closed")
)
