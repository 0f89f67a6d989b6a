package bridge

import (
	"context"
	"io"

	"github.com/dmitrijs2005/walletbridge/internal/store"
	"github.com/dmitrijs2005/walletbridge/internal/wallet"
)

// Engine opens and provisions stores.
type Engine interface {
	Provision(ctx context.Context, uri string, method store.KeyMethod, key string, recreate bool) (Wallet, error)
	Open(ctx context.Context, uri string, method store.KeyMethod, key string) (Wallet, error)
}

// Wallet is an open store.
type Wallet interface {
	io.Closer
	Session(ctx context.Context) (Session, error)
}

// Session is a unit of work on an open store.
type Session interface {
	io.Closer
	wallet.Inserter
	wallet.Fetcher
}

// StoreEngine is the Engine backed by internal/store.
type StoreEngine struct{}

func (StoreEngine) Provision(ctx context.Context, uri string, method store.KeyMethod, key string, recreate bool) (Wallet, error) {
	st, err := store.Provision(ctx, uri, method, key, recreate)
	if err != nil {
		return nil, err
	}
	return storeWallet{st}, nil
}

func (StoreEngine) Open(ctx context.Context, uri string, method store.KeyMethod, key string) (Wallet, error) {
	st, err := store.Open(ctx, uri, method, key)
	if err != nil {
		return nil, err
	}
	return storeWallet{st}, nil
}

type storeWallet struct {
	*store.Store
}

func (w storeWallet) Session(ctx context.Context) (Session, error) {
	s, err := w.Store.Session(ctx)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// StoreURI maps a bridge path to a store URI. Paths that already carry a
// supported scheme are used verbatim; anything else is a sqlite file path.
func StoreURI(path string) string {
	if store.HasScheme(path) {
		return path
	}
	return "sqlite://" + path
}
