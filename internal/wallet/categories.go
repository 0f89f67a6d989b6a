package wallet

import (
	"context"

	"github.com/dmitrijs2005/walletbridge/internal/store"
)

// CategorySummary counts entries per category.
type CategorySummary struct {
	Categories map[string]int `json:"categories"`
	Total      int            `json:"total"`
}

// SummarizeCategories folds the full entry set into per-category counts.
func SummarizeCategories(ctx context.Context, f Fetcher) (CategorySummary, error) {
	entries, err := f.FetchAll(ctx, store.Filter{})
	if err != nil {
		return CategorySummary{}, err
	}

	s := CategorySummary{Categories: make(map[string]int)}
	for _, e := range entries {
		s.Categories[e.Category]++
		s.Total++
	}
	return s, nil
}

// ListEntries returns every entry rendered for callers; never nil.
func ListEntries(ctx context.Context, f Fetcher) ([]EntryView, error) {
	entries, err := f.FetchAll(ctx, store.Filter{})
	if err != nil {
		return nil, err
	}
	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, ViewEntry(e))
	}
	return views, nil
}
