package registry

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewEmptyPath(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestUpsertAndFind(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry := Entry{Symbol: "msft", Name: "Microsoft", Exchange: "NASDAQ", Tradable: true, Fractionable: true}
	require.NoError(t, store.Upsert(ctx, entry))

	found, err := store.Find(ctx, "MSFT")
	require.NoError(t, err)
	assert.Equal(t, "MSFT", found.Symbol)
	assert.Equal(t, "Microsoft", found.Name)
	assert.True(t, found.Tradable)
	assert.Equal(t, AccountAny, found.Account)

	found, err = store.Find(ctx, " msft ")
	require.NoError(t, err)
	assert.Equal(t, "MSFT", found.Symbol)
}

func TestUpsertOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, Entry{Symbol: "CLSK", Tradable: false}))
	require.NoError(t, store.Upsert(ctx, Entry{Symbol: "CLSK", Tradable: true}))

	found, err := store.Find(ctx, "CLSK")
	require.NoError(t, err)
	assert.True(t, found.Tradable)
}

func TestUpsertInvalid(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.Error(t, store.Upsert(ctx, Entry{Symbol: ""}))
	assert.Error(t, store.Upsert(ctx, Entry{Symbol: "MSFT", Account: "margin"}))
}

func TestFindNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Find(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, Entry{Symbol: "MSFT", Tradable: true}))
	require.NoError(t, store.Remove(ctx, "msft"))

	_, err := store.Find(ctx, "MSFT")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Remove(ctx, "MSFT"), ErrNotFound)
}

func TestSetAccount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, Entry{Symbol: "MSFT", Tradable: true}))
	require.NoError(t, store.SetAccount(ctx, "MSFT", AccountPaper))

	found, err := store.Find(ctx, "MSFT")
	require.NoError(t, err)
	assert.Equal(t, AccountPaper, found.Account)

	require.NoError(t, store.SetAccount(ctx, "MSFT", AccountAny))
	found, err = store.Find(ctx, "MSFT")
	require.NoError(t, err)
	assert.Equal(t, AccountAny, found.Account)

	assert.Error(t, store.SetAccount(ctx, "MSFT", "margin"))
	assert.ErrorIs(t, store.SetAccount(ctx, "AAPL", AccountReal), ErrNotFound)
}

func TestList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, Entry{Symbol: "MSFT", Tradable: true}))
	require.NoError(t, store.Upsert(ctx, Entry{Symbol: "AAPL", Tradable: true}))
	require.NoError(t, store.Upsert(ctx, Entry{Symbol: "CLSK", Tradable: true}))

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "AAPL", entries[0].Symbol)
	assert.Equal(t, "CLSK", entries[1].Symbol)
	assert.Equal(t, "MSFT", entries[2].Symbol)
}
