package wallet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/dmitrijs2005/walletbridge/internal/store"
)

// BinaryMarker replaces stored values that are not valid UTF-8.
const BinaryMarker = "<binary data>"

// Item is a decoded import item ready for insertion.
type Item struct {
	Name  string
	Value []byte
	Tags  []store.Tag
}

// TagView is a tag as returned to callers.
type TagView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// EntryView is an entry as returned to callers.
type EntryView struct {
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Value    string    `json:"value"`
	Tags     []TagView `json:"tags"`
}

// DecodeItem converts one JSON item, as produced by a decoder with
// UseNumber, into an Item. The value defaults to null; tags that are not an
// object are ignored.
func DecodeItem(v any) (Item, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Item{}, ErrItemNotObject
	}
	name, ok := obj["name"].(string)
	if !ok {
		return Item{}, ErrItemNameMissing
	}

	value, err := EncodeValue(obj["value"])
	if err != nil {
		return Item{}, err
	}

	it := Item{Name: name, Value: value}
	if tags, ok := obj["tags"].(map[string]any); ok {
		names := make([]string, 0, len(tags))
		for k := range tags {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			it.Tags = append(it.Tags, store.Tag{Name: k, Value: TagText(tags[k])})
		}
	}
	return it, nil
}

// EncodeValue returns the canonical JSON bytes of v: compact, object keys
// sorted, no HTML escaping, U+2028 and U+2029 written raw.
func EncodeValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	return unescapeLineSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes that
// encoding/json always emits back into raw characters. Escape pairs are
// consumed whole so an escaped backslash followed by "u2028" is kept.
func unescapeLineSeparators(b []byte) []byte {
	if !bytes.Contains(b, []byte(`\u202`)) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 >= len(b) {
			out = append(out, b[i])
			continue
		}
		if i+5 < len(b) && string(b[i+1:i+5]) == "u202" && (b[i+5] == '8' || b[i+5] == '9') {
			out = utf8.AppendRune(out, rune(0x2020+int(b[i+5]-'0')))
			i += 5
			continue
		}
		out = append(out, b[i], b[i+1])
		i++
	}
	return out
}

// TagText renders a JSON value as tag text. It is total and deterministic.
func TagText(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		if u, err := strconv.ParseUint(string(x), 10, 64); err == nil {
			return strconv.FormatUint(u, 10)
		}
		if f, err := x.Float64(); err == nil {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	b, err := EncodeValue(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// ViewEntry renders a stored entry for callers.
func ViewEntry(e store.Entry) EntryView {
	v := EntryView{
		Name:     e.Name,
		Category: e.Category,
		Value:    BinaryMarker,
		Tags:     make([]TagView, 0, len(e.Tags)),
	}
	if utf8.Valid(e.Value) {
		v.Value = string(e.Value)
	}
	for _, t := range e.Tags {
		v.Tags = append(v.Tags, TagView{Name: t.Name, Value: t.Value})
	}
	return v
}
