package wallet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/walletbridge/internal/logging"
)

func TestSummarizeCategories(t *testing.T) {
	ctx := context.Background()
	mem := &memSession{}

	p, err := ParsePayload([]byte(`{"creds":[{"name":"a","value":{"x":1},"tags":{"t":"v"}}]}`))
	require.NoError(t, err)
	p.Apply(ctx, mem, logging.Nop())
	require.NoError(t, mem.Insert(ctx, ItemCategory, "x", []byte("1"), nil))
	require.NoError(t, mem.Insert(ctx, ItemCategory, "y", []byte("2"), nil))

	s, err := SummarizeCategories(ctx, mem)
	require.NoError(t, err)
	assert.Equal(t, CategorySummary{Categories: map[string]int{"creds": 1, "item": 2}, Total: 3}, s)
}

func TestSummarizeCategories_Empty(t *testing.T) {
	s, err := SummarizeCategories(context.Background(), &memSession{})
	require.NoError(t, err)
	assert.NotNil(t, s.Categories)
	assert.Zero(t, s.Total)
}

func TestFetchErrorsPropagate(t *testing.T) {
	mem := &memSession{fetchErr: errBoom}

	_, err := SummarizeCategories(context.Background(), mem)
	require.ErrorIs(t, err, errBoom)

	_, err = ListEntries(context.Background(), mem)
	require.ErrorIs(t, err, errBoom)
}

func TestListEntries(t *testing.T) {
	ctx := context.Background()
	mem := &memSession{}

	views, err := ListEntries(ctx, mem)
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)

	require.NoError(t, mem.Insert(ctx, ItemCategory, "n", []byte("literal text"), nil))
	views, err = ListEntries(ctx, mem)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "literal text", views[0].Value)
}
