package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/walletbridge/internal/cryptox"
	"github.com/dmitrijs2005/walletbridge/internal/dbx"
)

// Session is a unit of work on one connection. It is not safe for
// concurrent use.
type Session struct {
	store *Store
	conn  *sql.Conn
}

// Insert seals and stores one entry with its tags in a single transaction.
func (s *Session) Insert(ctx context.Context, category, name string, value []byte, tags []Tag) error {
	if s.conn == nil {
		return ErrClosed
	}
	d := s.store.loc.dialect

	return s.store.keys(func(enc, mac []byte) error {
		row, err := sealEntry(enc, mac, category, name, value)
		if err != nil {
			return err
		}
		sealedTags := make([]tagRow, 0, len(tags))
		for _, t := range tags {
			tr, err := sealTag(enc, t)
			if err != nil {
				return err
			}
			sealedTags = append(sealedTags, tr)
		}

		return dbx.WithTx(ctx, s.conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
			repo := newEntryRepository(tx, d)
			if err := repo.Create(ctx, row); err != nil {
				return err
			}
			for _, t := range sealedTags {
				t.entryID = row.id
				if err := repo.CreateTag(ctx, t); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// FetchAll returns matching entries in insertion order.
func (s *Session) FetchAll(ctx context.Context, f Filter) ([]Entry, error) {
	if s.conn == nil {
		return nil, ErrClosed
	}
	var result []Entry
	err := s.store.keys(func(enc, mac []byte) error {
		var categoryIdx []byte
		if f.Category != "" {
			categoryIdx = cryptox.Index(mac, domainCategory, []byte(f.Category))
		}

		repo := newEntryRepository(s.conn, s.store.loc.dialect)
		rows, err := repo.List(ctx, categoryIdx, f.Limit)
		if err != nil {
			return err
		}
		tags, err := repo.ListTags(ctx, categoryIdx)
		if err != nil {
			return err
		}

		result = make([]Entry, 0, len(rows))
		for _, r := range rows {
			e, err := openEntry(enc, r, tags[r.id])
			if err != nil {
				return err
			}
			result = append(result, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Close returns the connection to the pool.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

func sealEntry(enc, mac []byte, category, name string, value []byte) (*entryRow, error) {
	c, err := cryptox.Seal(enc, []byte(category))
	if err != nil {
		return nil, fmt.Errorf("failed to seal category: %w", err)
	}
	n, err := cryptox.Seal(enc, []byte(name))
	if err != nil {
		return nil, fmt.Errorf("failed to seal name: %w", err)
	}
	v, err := cryptox.Seal(enc, value)
	if err != nil {
		return nil, fmt.Errorf("failed to seal value: %w", err)
	}
	return &entryRow{
		categoryIdx: cryptox.Index(mac, domainCategory, []byte(category)),
		nameIdx:     cryptox.Index(mac, domainName, []byte(name)),
		category:    c,
		name:        n,
		value:       v,
	}, nil
}

func sealTag(enc []byte, t Tag) (tagRow, error) {
	if t.Plaintext {
		return tagRow{name: []byte(t.Name), value: []byte(t.Value), plaintext: true}, nil
	}
	n, err := cryptox.Seal(enc, []byte(t.Name))
	if err != nil {
		return tagRow{}, fmt.Errorf("failed to seal tag name: %w", err)
	}
	v, err := cryptox.Seal(enc, []byte(t.Value))
	if err != nil {
		return tagRow{}, fmt.Errorf("failed to seal tag value: %w", err)
	}
	return tagRow{name: n, value: v}, nil
}

func openEntry(enc []byte, r entryRow, tags []tagRow) (Entry, error) {
	c, err := cryptox.Open(enc, r.category)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to open category of entry %d: %w", r.id, err)
	}
	n, err := cryptox.Open(enc, r.name)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to open name of entry %d: %w", r.id, err)
	}
	v, err := cryptox.Open(enc, r.value)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to open value of entry %d: %w", r.id, err)
	}

	e := Entry{Category: string(c), Name: string(n), Value: v}
	for _, t := range tags {
		if t.plaintext {
			e.Tags = append(e.Tags, Tag{Name: string(t.name), Value: string(t.value), Plaintext: true})
			continue
		}
		tn, err := cryptox.Open(enc, t.name)
		if err != nil {
			return Entry{}, fmt.Errorf("failed to open tag name of entry %d: %w", r.id, err)
		}
		tv, err := cryptox.Open(enc, t.value)
		if err != nil {
			return Entry{}, fmt.Errorf("failed to open tag value of entry %d: %w", r.id, err)
		}
		e.Tags = append(e.Tags, Tag{Name: string(tn), Value: string(tv)})
	}
	return e, nil
}
