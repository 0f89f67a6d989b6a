package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSession(t *testing.T) *Session {
	t.Helper()
	st, _, _ := provisionRaw(t)
	sess, err := st.Session(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })
	return sess
}

func TestSession_InsertAndFetchAll(t *testing.T) {
	ctx := context.Background()
	sess := openSession(t)

	require.NoError(t, sess.Insert(ctx, "item", "k1", []byte(`"v1"`), []Tag{
		{Name: "~plain", Value: "p", Plaintext: true},
		{Name: "color", Value: "red"},
	}))
	require.NoError(t, sess.Insert(ctx, "other", "k2", []byte{0xff, 0xfe}, nil))

	all, err := sess.FetchAll(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.Equal(t, "item", all[0].Category)
	assert.Equal(t, "k1", all[0].Name)
	assert.Equal(t, []byte(`"v1"`), all[0].Value)
	assert.Equal(t, []Tag{
		{Name: "~plain", Value: "p", Plaintext: true},
		{Name: "color", Value: "red"},
	}, all[0].Tags)

	assert.Equal(t, "other", all[1].Category)
	assert.Equal(t, []byte{0xff, 0xfe}, all[1].Value)
	assert.Empty(t, all[1].Tags)
}

func TestSession_FetchAllFilter(t *testing.T) {
	ctx := context.Background()
	sess := openSession(t)

	for _, n := range []string{"a", "b", "c"} {
		require.NoError(t, sess.Insert(ctx, "item", n, []byte("1"), []Tag{{Name: "t", Value: n}}))
	}
	require.NoError(t, sess.Insert(ctx, "other", "z", []byte("1"), nil))

	items, err := sess.FetchAll(ctx, Filter{Category: "item"})
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, e := range items {
		assert.Equal(t, "item", e.Category)
		require.Len(t, e.Tags, 1)
		assert.Equal(t, e.Name, e.Tags[0].Value)
	}

	limited, err := sess.FetchAll(ctx, Filter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "a", limited[0].Name)
	assert.Equal(t, "b", limited[1].Name)

	none, err := sess.FetchAll(ctx, Filter{Category: "missing"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSession_DuplicateIsRejectedAndRolledBack(t *testing.T) {
	ctx := context.Background()
	sess := openSession(t)

	require.NoError(t, sess.Insert(ctx, "item", "k", []byte("1"), nil))
	err := sess.Insert(ctx, "item", "k", []byte("2"), []Tag{{Name: "t", Value: "v"}})
	require.ErrorIs(t, err, ErrDuplicate)

	// Same name in another category is a different entry.
	require.NoError(t, sess.Insert(ctx, "other", "k", []byte("3"), nil))

	all, err := sess.FetchAll(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, []byte("1"), all[0].Value)
	assert.Empty(t, all[0].Tags)
}

func TestSession_ClosedSession(t *testing.T) {
	ctx := context.Background()
	sess := openSession(t)
	require.NoError(t, sess.Close())
	require.NoError(t, sess.Close())

	require.ErrorIs(t, sess.Insert(ctx, "item", "k", nil, nil), ErrClosed)
	_, err := sess.FetchAll(ctx, Filter{})
	require.ErrorIs(t, err, ErrClosed)
}
