package cli

import (
	"context"

	"github.com/dmitrijs2005/walletbridge/internal/bridge"
)

// Runner performs wallet operations and returns the envelope text.
// *grpc.Client satisfies it for remote use.
type Runner interface {
	Provision(ctx context.Context, path, rawKey string) (string, error)
	InsertEntry(ctx context.Context, path, rawKey, name, value string) (string, error)
	ListEntries(ctx context.Context, path, rawKey string) (string, error)
	ImportBulk(ctx context.Context, path, rawKey, payload string) (string, error)
	ListCategories(ctx context.Context, path, rawKey string) (string, error)
}

// localRunner runs operations in-process.
type localRunner struct {
	b *bridge.Bridge
}

func (r localRunner) Provision(_ context.Context, path, rawKey string) (string, error) {
	return r.b.Take(r.b.Provision(path, rawKey)), nil
}

func (r localRunner) InsertEntry(_ context.Context, path, rawKey, name, value string) (string, error) {
	return r.b.Take(r.b.InsertEntry(path, rawKey, name, value)), nil
}

func (r localRunner) ListEntries(_ context.Context, path, rawKey string) (string, error) {
	return r.b.Take(r.b.ListEntries(path, rawKey)), nil
}

func (r localRunner) ImportBulk(_ context.Context, path, rawKey, payload string) (string, error) {
	return r.b.Take(r.b.ImportBulk(path, rawKey, payload)), nil
}

func (r localRunner) ListCategories(_ context.Context, path, rawKey string) (string, error) {
	return r.b.Take(r.b.ListCategories(path, rawKey)), nil
}
