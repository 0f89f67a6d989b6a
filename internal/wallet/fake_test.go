package wallet

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/walletbridge/internal/store"
)

// memSession is an in-memory Inserter/Fetcher that rejects duplicates like
// the real engine.
type memSession struct {
	entries  []store.Entry
	fetchErr error
}

func (m *memSession) Insert(_ context.Context, category, name string, value []byte, tags []store.Tag) error {
	for _, e := range m.entries {
		if e.Category == category && e.Name == name {
			return store.ErrDuplicate
		}
	}
	m.entries = append(m.entries, store.Entry{Category: category, Name: name, Value: value, Tags: tags})
	return nil
}

func (m *memSession) FetchAll(_ context.Context, _ store.Filter) ([]store.Entry, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.entries, nil
}

var errBoom = errors.New("boom")
