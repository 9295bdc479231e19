package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/store"
	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "client.db")
	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Get(ctx, store.KeyCart)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Set(ctx, store.KeyCart, `[{"id":"yearly"}]`))
	got, err := s.Get(ctx, store.KeyCart)
	require.NoError(t, err)
	require.Equal(t, `[{"id":"yearly"}]`, got)

	// Upsert overwrites in place.
	require.NoError(t, s.Set(ctx, store.KeyCart, `[]`))
	got, err = s.Get(ctx, store.KeyCart)
	require.NoError(t, err)
	require.Equal(t, `[]`, got)

	require.NoError(t, s.Delete(ctx, store.KeyCart))
	_, err = s.Get(ctx, store.KeyCart)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteMissingKeyIsNoop(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Delete(context.Background(), "never_written"))
}

func TestMigrationsAreIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ApplyMigrations())
}
