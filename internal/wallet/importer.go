package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/dmitrijs2005/walletbridge/internal/logging"
)

// CategoryReport counts outcomes within one category.
type CategoryReport struct {
	Imported int `json:"imported"`
	Failed   int `json:"failed"`
}

// ImportReport is the outcome of one bulk import.
type ImportReport struct {
	Imported   int                       `json:"imported"`
	Failed     int                       `json:"failed"`
	Categories map[string]CategoryReport `json:"categories"`
}

// Payload is a parsed bulk-import document keyed by category.
type Payload struct {
	categories map[string]any
}

// ParsePayload decodes a bulk-import document. The root must be one JSON
// object with nothing after it.
func ParsePayload(data []byte) (*Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON format: %v", ErrMalformedPayload, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: invalid JSON format: trailing data", ErrMalformedPayload)
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: JSON root must be an object", ErrMalformedPayload)
	}
	return &Payload{categories: obj}, nil
}

// Categories returns the category names in the order Apply visits them.
func (p *Payload) Categories() []string {
	names := make([]string, 0, len(p.categories))
	for k := range p.categories {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Eligible counts the items Apply will attempt: array elements plus bare
// objects.
func (p *Payload) Eligible() int {
	n := 0
	for _, v := range p.categories {
		n += len(candidates(v))
	}
	return n
}

// Apply inserts every candidate item. Per-item failures, malformed or
// rejected by the engine, are counted and logged; they never stop the batch.
func (p *Payload) Apply(ctx context.Context, ins Inserter, logger logging.Logger) ImportReport {
	report := ImportReport{Categories: make(map[string]CategoryReport)}

	for _, category := range p.Categories() {
		value := p.categories[category]
		if !eligibleShape(value) {
			continue
		}

		var cr CategoryReport
		for i, raw := range candidates(value) {
			if name, err := importItem(ctx, ins, category, raw); err != nil {
				cr.Failed++
				logger.Warn(ctx, "import item failed",
					"category", category, "index", i, "name", name, "error", err)
				continue
			}
			cr.Imported++
		}

		report.Categories[category] = cr
		report.Imported += cr.Imported
		report.Failed += cr.Failed
	}
	return report
}

// importItem returns the item name when it has one, for logging.
func importItem(ctx context.Context, ins Inserter, category string, raw any) (string, error) {
	it, err := DecodeItem(raw)
	if err != nil {
		return "", err
	}
	if err := ins.Insert(ctx, category, it.Name, it.Value, it.Tags); err != nil {
		return it.Name, err
	}
	return it.Name, nil
}

func eligibleShape(v any) bool {
	switch v.(type) {
	case []any, map[string]any:
		return true
	}
	return false
}

func candidates(v any) []any {
	switch x := v.(type) {
	case []any:
		return x
	case map[string]any:
		return []any{x}
	}
	return nil
}
