package bridge

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/walletbridge/internal/cryptox"
	"github.com/dmitrijs2005/walletbridge/internal/metrics"
	"github.com/dmitrijs2005/walletbridge/internal/store"
)

const badUTF8 = "\xff\xfe"

func newTestBridge(t *testing.T) (*Bridge, string, string) {
	t.Helper()
	b := New(Config{})
	path := filepath.Join(t.TempDir(), "wallet.db")
	key := cryptox.GenerateRawKey()
	return b, path, key
}

// take decodes and releases the envelope behind h.
func take(t *testing.T, b *Bridge, h Handle) map[string]any {
	t.Helper()
	text, ok := b.Text(h)
	require.True(t, ok, "handle %d not owned", h)
	b.Release(h)

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &m), text)
	return m
}

func requireSuccess(t *testing.T, m map[string]any) {
	t.Helper()
	require.Equal(t, true, m["success"], "envelope: %v", m)
	assert.NotContains(t, m, "error")
}

func requireFailure(t *testing.T, m map[string]any) string {
	t.Helper()
	require.Equal(t, false, m["success"], "envelope: %v", m)
	msg, ok := m["error"].(string)
	require.True(t, ok)
	return msg
}

func TestProvision(t *testing.T) {
	b, path, key := newTestBridge(t)
	requireSuccess(t, take(t, b, b.Provision(path, key)))
	assert.FileExists(t, path)
	assert.Zero(t, b.Outstanding())
}

func TestProvision_WipesExistingData(t *testing.T) {
	b, path, key := newTestBridge(t)
	requireSuccess(t, take(t, b, b.Provision(path, key)))
	requireSuccess(t, take(t, b, b.InsertEntry(path, key, "n", "v")))

	requireSuccess(t, take(t, b, b.Provision(path, key)))
	m := take(t, b, b.ListEntries(path, key))
	requireSuccess(t, m)
	assert.Equal(t, []any{}, m["entries"])
}

func TestProvision_OverArbitraryFile(t *testing.T) {
	b, path, key := newTestBridge(t)
	require.NoError(t, os.WriteFile(path, []byte("garbage that is not a database"), 0o600))
	require.NoError(t, os.WriteFile(path+"-wal", []byte("stale"), 0o600))

	requireSuccess(t, take(t, b, b.Provision(path, key)))
	m := take(t, b, b.ListCategories(path, key))
	requireSuccess(t, m)
	assert.Equal(t, float64(0), m["total"])
}

func TestProvision_BadKey(t *testing.T) {
	b, path, _ := newTestBridge(t)
	msg := requireFailure(t, take(t, b, b.Provision(path, "short")))
	assert.Contains(t, msg, "provisioning failed")
}

func TestProvision_BadKeyKeepsExistingWallet(t *testing.T) {
	b, path, key := newTestBridge(t)
	requireSuccess(t, take(t, b, b.Provision(path, key)))
	requireSuccess(t, take(t, b, b.InsertEntry(path, key, "n", "v")))

	requireFailure(t, take(t, b, b.Provision(path, "short")))

	m := take(t, b, b.ListEntries(path, key))
	requireSuccess(t, m)
	require.Len(t, m["entries"], 1)
}

func TestInsertThenList_LiteralText(t *testing.T) {
	b, path, key := newTestBridge(t)
	requireSuccess(t, take(t, b, b.Provision(path, key)))

	for _, v := range []string{`plain text`, `{"not":"re-encoded"}`, `"quoted"`, ``, `ünïcødé ✓`} {
		name := "entry-" + v
		requireSuccess(t, take(t, b, b.InsertEntry(path, key, name, v)))

		m := take(t, b, b.ListEntries(path, key))
		requireSuccess(t, m)
		var found []map[string]any
		for _, e := range m["entries"].([]any) {
			if e.(map[string]any)["name"] == name {
				found = append(found, e.(map[string]any))
			}
		}
		require.Len(t, found, 1)
		assert.Equal(t, v, found[0]["value"])
		assert.Equal(t, "item", found[0]["category"])
		assert.Equal(t, []any{}, found[0]["tags"])
	}
}

func TestInsertThenList_FileNamesWithURIDelimiters(t *testing.T) {
	b := New(Config{})
	for _, name := range []string{"w?x.db", "w#x.db", "100%25.db"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, name)
			key := cryptox.GenerateRawKey()

			requireSuccess(t, take(t, b, b.Provision(path, key)))
			requireSuccess(t, take(t, b, b.InsertEntry(path, key, "n", "v")))

			m := take(t, b, b.ListEntries(path, key))
			requireSuccess(t, m)
			require.Len(t, m["entries"], 1)
			assert.FileExists(t, path)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			for _, e := range entries {
				assert.Contains(t, e.Name(), name)
			}
		})
	}
}

func TestProvision_RefusesDirectory(t *testing.T) {
	b, _, key := newTestBridge(t)
	dir := filepath.Join(t.TempDir(), "wallet.db")
	require.NoError(t, os.Mkdir(dir, 0o700))

	msg := requireFailure(t, take(t, b, b.Provision(dir, key)))
	assert.Contains(t, msg, "provisioning failed")
	assert.DirExists(t, dir)
}

func TestInsertEntry_Duplicate(t *testing.T) {
	b, path, key := newTestBridge(t)
	requireSuccess(t, take(t, b, b.Provision(path, key)))
	requireSuccess(t, take(t, b, b.InsertEntry(path, key, "n", "1")))

	msg := requireFailure(t, take(t, b, b.InsertEntry(path, key, "n", "2")))
	assert.Contains(t, msg, "failed to insert entry")
	assert.Contains(t, msg, store.ErrDuplicate.Error())
}

func TestOpenFailures(t *testing.T) {
	b, path, key := newTestBridge(t)

	msg := requireFailure(t, take(t, b, b.ListEntries(path, key)))
	assert.Contains(t, msg, "failed to open store")
	assert.NoFileExists(t, path)

	requireSuccess(t, take(t, b, b.Provision(path, key)))
	msg = requireFailure(t, take(t, b, b.ListCategories(path, cryptox.GenerateRawKey())))
	assert.Contains(t, msg, "failed to open store")
	assert.Contains(t, msg, store.ErrInvalidKey.Error())
}

func TestInvalidUTF8(t *testing.T) {
	b, path, key := newTestBridge(t)

	cases := map[string]Handle{
		"invalid db_path":     b.Provision(badUTF8, key),
		"invalid raw_key":     b.ListEntries(path, badUTF8),
		"invalid entry_name":  b.InsertEntry(path, key, badUTF8, "v"),
		"invalid entry_value": b.InsertEntry(path, key, "n", badUTF8),
		"invalid json_data":   b.ImportBulk(path, key, badUTF8),
	}
	for want, h := range cases {
		msg := requireFailure(t, take(t, b, h))
		assert.Contains(t, msg, want)
	}
	assert.NoFileExists(t, path)
}

func TestImportBulk_Examples(t *testing.T) {
	b, path, key := newTestBridge(t)
	requireSuccess(t, take(t, b, b.Provision(path, key)))

	text := b.Take(b.ImportBulk(path, key, `{"creds":[{"name":"a","value":{"x":1},"tags":{"t":"v"}}]}`))
	assert.JSONEq(t, `{"success":true,"imported":1,"failed":0,"categories":{"creds":{"imported":1,"failed":0}}}`, text)

	text = b.Take(b.ListCategories(path, key))
	assert.JSONEq(t, `{"success":true,"categories":{"creds":1},"total":1}`, text)

	text = b.Take(b.ImportBulk(path, key, `{"creds":[{"value":{}}]}`))
	assert.JSONEq(t, `{"success":true,"imported":0,"failed":1,"categories":{"creds":{"imported":0,"failed":1}}}`, text)

	m := take(t, b, b.ImportBulk(path, key, `"not an object"`))
	requireFailure(t, m)
	assert.NotContains(t, m, "imported")
	assert.Zero(t, b.Outstanding())
}

func TestImportBulk_MalformedDoesNotOpenStore(t *testing.T) {
	b, path, key := newTestBridge(t)
	msg := requireFailure(t, take(t, b, b.ImportBulk(path, key, `[1,2]`)))
	assert.Contains(t, msg, "JSON root must be an object")
	assert.NoFileExists(t, path)
}

func TestImportBulk_CountsAndReimport(t *testing.T) {
	b, path, key := newTestBridge(t)
	requireSuccess(t, take(t, b, b.Provision(path, key)))

	payload := `{"a":[{"name":"1"},{"name":"2"},"x"],"b":{"name":"3","value":"s"},"c":42}`
	first := take(t, b, b.ImportBulk(path, key, payload))
	requireSuccess(t, first)
	assert.Equal(t, float64(3), first["imported"])
	assert.Equal(t, float64(1), first["failed"])
	assert.NotContains(t, first["categories"], "c")

	second := take(t, b, b.ImportBulk(path, key, payload))
	requireSuccess(t, second)
	assert.Equal(t, float64(0), second["imported"])
	assert.Equal(t, float64(4), second["failed"])
}

func TestValueEncodingAsymmetry(t *testing.T) {
	b, path, key := newTestBridge(t)
	requireSuccess(t, take(t, b, b.Provision(path, key)))

	requireSuccess(t, take(t, b, b.InsertEntry(path, key, "raw", "x")))
	requireSuccess(t, take(t, b, b.ImportBulk(path, key, `{"item":[{"name":"bulk","value":"x"}]}`)))

	m := take(t, b, b.ListEntries(path, key))
	requireSuccess(t, m)
	values := map[string]any{}
	for _, e := range m["entries"].([]any) {
		em := e.(map[string]any)
		values[em["name"].(string)] = em["value"]
	}
	assert.Equal(t, "x", values["raw"])
	assert.Equal(t, `"x"`, values["bulk"])
}

func TestImportBulk_TagsRoundTrip(t *testing.T) {
	b, path, key := newTestBridge(t)
	requireSuccess(t, take(t, b, b.Provision(path, key)))
	requireSuccess(t, take(t, b, b.ImportBulk(path, key, `{"c":{"name":"n","tags":{"b":2.5,"a":true}}}`)))

	text := b.Take(b.ListEntries(path, key))
	assert.JSONEq(t, `{"success":true,"entries":[{"name":"n","category":"c","value":"null",
		"tags":[{"name":"a","value":"true"},{"name":"b","value":"2.5"}]}]}`, text)
}

func TestHandles(t *testing.T) {
	b := New(Config{})
	h1 := b.handles.put("one")
	h2 := b.handles.put("two")
	assert.NotEqual(t, h1, h2)
	assert.Equal(t, 2, b.Outstanding())

	s, ok := b.Text(h1)
	require.True(t, ok)
	assert.Equal(t, "one", s)

	b.Release(h1)
	_, ok = b.Text(h1)
	assert.False(t, ok)
	b.Release(h1)
	b.Release(Handle(999))

	assert.Equal(t, "two", b.Take(h2))
	assert.Equal(t, "", b.Take(h2))
	assert.Zero(t, b.Outstanding())
}

func TestConcurrentCalls(t *testing.T) {
	b, path, key := newTestBridge(t)
	requireSuccess(t, take(t, b, b.Provision(path, key)))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Release(b.ListCategories(path, key))
		}()
	}
	wg.Wait()
	assert.Zero(t, b.Outstanding())
}

func TestMetricsRecorded(t *testing.T) {
	reg := prometheus.NewRegistry()
	b := New(Config{Metrics: metrics.NewRecorder(reg)})
	path := filepath.Join(t.TempDir(), "w.db")
	key := cryptox.GenerateRawKey()

	b.Release(b.Provision(path, key))
	b.Release(b.ImportBulk(path, key, `{"a":[{"name":"1"},{}]}`))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["walletbridge_calls_total"])
	assert.True(t, names["walletbridge_import_items_total"])
}

func TestStoreURI(t *testing.T) {
	assert.Equal(t, "sqlite:///tmp/w.db", StoreURI("/tmp/w.db"))
	assert.Equal(t, "sqlite://rel.db", StoreURI("rel.db"))
	assert.Equal(t, "sqlite:///x", StoreURI("sqlite:///x"))
	assert.Equal(t, "postgres://u@h/db", StoreURI("postgres://u@h/db"))
}
