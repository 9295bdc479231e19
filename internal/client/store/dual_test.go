package store_test

import (
	"context"
	"testing"

	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/store"
	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/store/drivers/memory"
	"github.com/stretchr/testify/require"
)

func newDual() (*store.Dual, *memory.Store, *memory.Store) {
	durable := memory.New()
	session := memory.New()
	return store.NewDual(durable, session), durable, session
}

func requireAbsent(t *testing.T, backend store.KeyValueStore, keys ...string) {
	t.Helper()
	for _, key := range keys {
		_, err := backend.Get(context.Background(), key)
		require.ErrorIs(t, err, store.ErrNotFound, "key %q should be absent", key)
	}
}

func TestWriteTokensExclusivity(t *testing.T) {
	ctx := context.Background()

	t.Run("persist writes durable and clears session", func(t *testing.T) {
		dual, durable, session := newDual()
		require.NoError(t, session.Set(ctx, store.KeyAccessToken, "stale-access"))
		require.NoError(t, session.Set(ctx, store.KeyRefreshToken, "stale-refresh"))

		require.NoError(t, dual.WriteTokens(ctx, "acc", "ref", true))

		got, err := durable.Get(ctx, store.KeyAccessToken)
		require.NoError(t, err)
		require.Equal(t, "acc", got)
		got, err = durable.Get(ctx, store.KeyRefreshToken)
		require.NoError(t, err)
		require.Equal(t, "ref", got)

		requireAbsent(t, session, store.KeyAccessToken, store.KeyRefreshToken)
	})

	t.Run("no persist writes session and clears durable", func(t *testing.T) {
		dual, durable, session := newDual()
		require.NoError(t, durable.Set(ctx, store.KeyAccessToken, "stale-access"))
		require.NoError(t, durable.Set(ctx, store.KeyRefreshToken, "stale-refresh"))

		require.NoError(t, dual.WriteTokens(ctx, "acc", "ref", false))

		got, err := session.Get(ctx, store.KeyRefreshToken)
		require.NoError(t, err)
		require.Equal(t, "ref", got)

		requireAbsent(t, durable, store.KeyAccessToken, store.KeyRefreshToken)
	})
}

func TestActiveBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("follows the refresh token", func(t *testing.T) {
		dual, durable, session := newDual()

		require.NoError(t, dual.WriteTokens(ctx, "a", "r", false))
		require.Same(t, store.KeyValueStore(session), dual.Active(ctx))
		require.False(t, dual.Persisted(ctx))

		require.NoError(t, dual.WriteTokens(ctx, "a", "r", true))
		require.Same(t, store.KeyValueStore(durable), dual.Active(ctx))
		require.True(t, dual.Persisted(ctx))
	})

	t.Run("defaults to durable with no session", func(t *testing.T) {
		dual, durable, _ := newDual()
		require.Same(t, store.KeyValueStore(durable), dual.Active(ctx))
	})

	t.Run("cached state follows the same choice", func(t *testing.T) {
		dual, _, session := newDual()
		require.NoError(t, dual.WriteTokens(ctx, "a", "r", false))

		require.NoError(t, dual.SetActive(ctx, store.KeyUserProfile, `{"id":"u1"}`))

		got, err := session.Get(ctx, store.KeyUserProfile)
		require.NoError(t, err)
		require.Equal(t, `{"id":"u1"}`, got)

		got, err = dual.GetEither(ctx, store.KeyUserProfile)
		require.NoError(t, err)
		require.Equal(t, `{"id":"u1"}`, got)
	})
}

func TestClearTokens(t *testing.T) {
	ctx := context.Background()
	dual, durable, session := newDual()

	require.NoError(t, dual.WriteTokens(ctx, "a", "r", true))
	require.NoError(t, dual.ClearTokens(ctx))

	requireAbsent(t, durable, store.KeyAccessToken, store.KeyRefreshToken)
	requireAbsent(t, session, store.KeyAccessToken, store.KeyRefreshToken)

	_, err := dual.AccessToken(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = dual.RefreshToken(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteBoth(t *testing.T) {
	ctx := context.Background()
	dual, durable, session := newDual()

	require.NoError(t, durable.Set(ctx, store.KeyPayPalPendingSubscription, "I-AAA"))
	require.NoError(t, session.Set(ctx, store.KeyPayPalPendingSubscription, "I-BBB"))

	require.NoError(t, dual.DeleteBoth(ctx, store.KeyPayPalPendingSubscription))
	requireAbsent(t, durable, store.KeyPayPalPendingSubscription)
	requireAbsent(t, session, store.KeyPayPalPendingSubscription)
}
