package wallet

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/walletbridge/internal/store"
)

// ItemCategory is the category single-entry inserts are filed under.
const ItemCategory = "item"

var (
	ErrMalformedPayload = errors.New("malformed import payload")
	ErrItemNotObject    = errors.New("item is not an object")
	ErrItemNameMissing  = errors.New("item has no string name")
)

// Inserter stores one entry. *store.Session satisfies it.
type Inserter interface {
	Insert(ctx context.Context, category, name string, value []byte, tags []store.Tag) error
}

// Fetcher lists entries. *store.Session satisfies it.
type Fetcher interface {
	FetchAll(ctx context.Context, f store.Filter) ([]store.Entry, error)
}
