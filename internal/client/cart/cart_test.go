package cart

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/domain"
	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/store"
	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/store/drivers/memory"
	"github.com/stretchr/testify/require"
)

func newCart(t *testing.T) (*Cart, *memory.Store) {
	t.Helper()
	backend := memory.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(backend, log), backend
}

func courseLine() domain.CartLine {
	return domain.CartLine{
		ID:       "yearly-package",
		Name:     "Annual Package",
		Kind:     domain.ItemKindPackage,
		Price:    197,
		Quantity: 1,
	}
}

func ebookLine() domain.CartLine {
	return domain.CartLine{
		ID:       "ebook-verbs",
		Name:     "Spanish Verbs eBook",
		Kind:     domain.ItemKindEbook,
		Price:    19,
		Quantity: 2,
	}
}

func TestAddMergesDuplicates(t *testing.T) {
	ctx := context.Background()
	c, _ := newCart(t)

	require.NoError(t, c.Add(ctx, courseLine()))
	require.NoError(t, c.Add(ctx, courseLine()))

	lines := c.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, 2, lines[0].Quantity)
	require.Equal(t, 2, c.Count())
}

func TestAddRejectsInvalidItem(t *testing.T) {
	c, _ := newCart(t)
	err := c.Add(context.Background(), domain.CartLine{ID: "x", Name: "X", Kind: "weapon", Price: 1})
	require.ErrorIs(t, err, ErrInvalidItem)
}

func TestSetQuantity(t *testing.T) {
	ctx := context.Background()
	c, _ := newCart(t)
	require.NoError(t, c.Add(ctx, courseLine()))

	require.NoError(t, c.SetQuantity(ctx, "yearly-package", 3))
	require.Equal(t, 3, c.Count())

	// Zero removes the line outright.
	require.NoError(t, c.SetQuantity(ctx, "yearly-package", 0))
	require.Empty(t, c.Lines())

	// Unknown id is a no-op.
	require.NoError(t, c.SetQuantity(ctx, "ghost", 5))
	require.Empty(t, c.Lines())
}

func TestSubtotal(t *testing.T) {
	ctx := context.Background()
	c, _ := newCart(t)

	require.NoError(t, c.Add(ctx, courseLine()))
	require.NoError(t, c.Add(ctx, ebookLine()))

	// 197 + 19*2
	require.InDelta(t, 235.0, c.Subtotal(), 0.001)
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, backend := newCart(t)

	require.NoError(t, c.Add(ctx, courseLine()))
	require.NoError(t, c.Add(ctx, ebookLine()))
	require.NoError(t, c.Remove(ctx, "yearly-package"))

	// A fresh cart over the same backend sees the same contents.
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	restored := New(backend, log)
	require.NoError(t, restored.Load(ctx))

	lines := restored.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, "ebook-verbs", lines[0].ID)
	require.Equal(t, 2, lines[0].Quantity)
}

func TestLoadDropsInvalidEntries(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, backend.Set(ctx, store.KeyCart, `[
		{"id": "yearly-package", "name": "Annual Package", "kind": "package", "price": 197, "quantity": 1},
		{"id": "", "name": "nameless", "kind": "package", "price": 5, "quantity": 1},
		{"id": "bad-kind", "name": "Bad", "kind": "mystery", "price": 5, "quantity": 1},
		"not even an object"
	]`))

	c := New(backend, log)
	require.NoError(t, c.Load(ctx))

	lines := c.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, "yearly-package", lines[0].ID)
}

func TestLoadUnreadablePayloadStartsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, backend.Set(ctx, store.KeyCart, `{{{`))

	c := New(backend, log)
	require.NoError(t, c.Load(ctx))
	require.Empty(t, c.Lines())
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	c, backend := newCart(t)
	require.NoError(t, c.Add(ctx, courseLine()))
	require.NoError(t, c.Clear(ctx))
	require.Empty(t, c.Lines())

	raw, err := backend.Get(ctx, store.KeyCart)
	require.NoError(t, err)
	require.JSONEq(t, `[]`, raw)
}
