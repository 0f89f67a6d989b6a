package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/walletbridge/internal/logging"
	"github.com/dmitrijs2005/walletbridge/internal/metrics"
	"github.com/dmitrijs2005/walletbridge/internal/store"
	"github.com/dmitrijs2005/walletbridge/internal/wallet"
)

// Config configures a Bridge. Zero fields take defaults.
type Config struct {
	// KeyMethod defaults to raw.
	KeyMethod store.KeyMethod
	// Engine defaults to StoreEngine.
	Engine Engine
	// Logger defaults to logging.Nop().
	Logger logging.Logger
	// Metrics may be nil.
	Metrics *metrics.Recorder
}

// Bridge runs wallet operations. Across calls it keeps only its
// configuration and the table of unreleased results.
type Bridge struct {
	method  store.KeyMethod
	engine  Engine
	logger  logging.Logger
	metrics *metrics.Recorder
	handles *handleTable
}

func New(cfg Config) *Bridge {
	b := &Bridge{
		method:  cfg.KeyMethod,
		engine:  cfg.Engine,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		handles: newHandleTable(),
	}
	if b.method == "" {
		b.method = store.KeyMethodRaw
	}
	if b.engine == nil {
		b.engine = StoreEngine{}
	}
	if b.logger == nil {
		b.logger = logging.Nop()
	}
	return b
}

// Text returns the text behind h without releasing it.
func (b *Bridge) Text(h Handle) (string, bool) { return b.handles.get(h) }

// Release frees the text behind h. Unknown handles are ignored.
func (b *Bridge) Release(h Handle) { b.handles.release(h) }

// Take returns the text behind h and releases it.
func (b *Bridge) Take(h Handle) string {
	s, _ := b.handles.release(h)
	return s
}

// Outstanding reports how many results have not been released.
func (b *Bridge) Outstanding() int { return b.handles.len() }

// Provision deletes whatever is at path and creates a fresh wallet keyed by
// rawKey.
func (b *Bridge) Provision(path, rawKey string) Handle {
	return b.call("provision", func(ctx context.Context, _ logging.Logger) (any, error) {
		if err := validate(arg{"db_path", path}, arg{"raw_key", rawKey}); err != nil {
			return nil, err
		}
		w, err := b.engine.Provision(ctx, StoreURI(path), b.method, rawKey, true)
		if err != nil {
			return nil, fmt.Errorf("provisioning failed: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("provisioning failed: %w", err)
		}
		return done{Success: true}, nil
	})
}

// InsertEntry stores value's raw bytes under name in the item category.
func (b *Bridge) InsertEntry(path, rawKey, name, value string) Handle {
	return b.call("insert_entry", func(ctx context.Context, _ logging.Logger) (any, error) {
		err := validate(arg{"db_path", path}, arg{"raw_key", rawKey},
			arg{"entry_name", name}, arg{"entry_value", value})
		if err != nil {
			return nil, err
		}
		err = b.withSession(ctx, path, rawKey, func(s Session) error {
			if err := s.Insert(ctx, wallet.ItemCategory, name, []byte(value), nil); err != nil {
				return fmt.Errorf("failed to insert entry: %w", err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return done{Success: true}, nil
	})
}

// ListEntries returns every entry across all categories.
func (b *Bridge) ListEntries(path, rawKey string) Handle {
	return b.call("list_entries", func(ctx context.Context, _ logging.Logger) (any, error) {
		if err := validate(arg{"db_path", path}, arg{"raw_key", rawKey}); err != nil {
			return nil, err
		}
		var views []wallet.EntryView
		err := b.withSession(ctx, path, rawKey, func(s Session) (err error) {
			views, err = wallet.ListEntries(ctx, s)
			if err != nil {
				return fmt.Errorf("failed to fetch entries: %w", err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return entriesResult{Success: true, Entries: views}, nil
	})
}

// ImportBulk imports a category-keyed payload. Individual item failures are
// counted, not fatal.
func (b *Bridge) ImportBulk(path, rawKey, payload string) Handle {
	return b.call("import_bulk", func(ctx context.Context, log logging.Logger) (any, error) {
		err := validate(arg{"db_path", path}, arg{"raw_key", rawKey}, arg{"json_data", payload})
		if err != nil {
			return nil, err
		}
		p, err := wallet.ParsePayload([]byte(payload))
		if err != nil {
			return nil, err
		}

		var report wallet.ImportReport
		err = b.withSession(ctx, path, rawKey, func(s Session) error {
			report = p.Apply(ctx, s, log)
			return nil
		})
		if err != nil {
			return nil, err
		}

		b.metrics.ObserveImport(report.Imported, report.Failed)
		log.Info(ctx, "bulk import finished", "imported", report.Imported, "failed", report.Failed)
		return importResult{Success: true, ImportReport: report}, nil
	})
}

// ListCategories counts entries per category.
func (b *Bridge) ListCategories(path, rawKey string) Handle {
	return b.call("list_categories", func(ctx context.Context, _ logging.Logger) (any, error) {
		if err := validate(arg{"db_path", path}, arg{"raw_key", rawKey}); err != nil {
			return nil, err
		}
		var summary wallet.CategorySummary
		err := b.withSession(ctx, path, rawKey, func(s Session) (err error) {
			summary, err = wallet.SummarizeCategories(ctx, s)
			if err != nil {
				return fmt.Errorf("failed to fetch entries: %w", err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return categoriesResult{Success: true, CategorySummary: summary}, nil
	})
}

func (b *Bridge) withSession(ctx context.Context, path, rawKey string, fn func(Session) error) error {
	w, err := b.engine.Open(ctx, StoreURI(path), b.method, rawKey)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer w.Close()

	s, err := w.Session(ctx)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	defer s.Close()

	return fn(s)
}

// call runs fn in its own scope and turns the outcome into an owned envelope.
func (b *Bridge) call(op string, fn func(ctx context.Context, log logging.Logger) (any, error)) Handle {
	start := time.Now()
	log := b.logger.With("op", op, "call_id", uuid.NewString())

	var result any
	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("internal error: %v", p)
			}
		}()
		result, err = fn(ctx, log)
		return err
	})

	err := g.Wait()
	var out string
	if err == nil {
		out, err = resultJSON(result)
	}
	if err != nil {
		log.Error(ctx, "call failed", "error", err)
		out = failureJSON(err)
	} else {
		log.Debug(ctx, "call succeeded")
	}

	b.metrics.ObserveCall(op, err == nil, time.Since(start))
	return b.handles.put(out)
}
