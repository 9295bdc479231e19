// Package cart is the durable shopping cart. It lives in the durable store
// under a versioned key, survives logout and restarts, and is written back
// synchronously on every mutation.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/domain"
	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/store"
)

var ErrInvalidItem = errors.New("invalid_cart_item")

// Cart holds the in-memory view of the cart and keeps the durable store in
// sync. All methods are safe for concurrent use.
type Cart struct {
	backend store.KeyValueStore
	log     *slog.Logger

	mu    sync.RWMutex
	lines []domain.CartLine
}

// New creates a cart backed by the given durable store.
func New(backend store.KeyValueStore, log *slog.Logger) *Cart {
	return &Cart{backend: backend, log: log}
}

// Load restores the cart from the durable store. Entries that fail to
// decode or fail validation are dropped individually; one corrupt entry
// must not cost the user the rest of the cart.
func (c *Cart) Load(ctx context.Context) error {
	raw, err := c.backend.Get(ctx, store.KeyCart)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		c.log.Warn("cart payload unreadable, starting empty", "error", err)
		return nil
	}

	lines := make([]domain.CartLine, 0, len(entries))
	for _, entry := range entries {
		var line domain.CartLine
		if err := json.Unmarshal(entry, &line); err != nil || !valid(line) {
			c.log.Warn("dropping invalid cart entry", "entry", string(entry))
			continue
		}
		lines = append(lines, line)
	}

	c.mu.Lock()
	c.lines = lines
	c.mu.Unlock()
	return nil
}

// Add puts an item in the cart. Adding an item already present merges into
// the existing line by summing quantities. A non-positive quantity is
// treated as one.
func (c *Cart) Add(ctx context.Context, line domain.CartLine) error {
	if !valid(line) {
		return ErrInvalidItem
	}
	if line.Quantity <= 0 {
		line.Quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	merged := false
	for i := range c.lines {
		if c.lines[i].ID == line.ID {
			c.lines[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		c.lines = append(c.lines, line)
	}

	return c.persist(ctx)
}

// SetQuantity sets the quantity for an item. A quantity of zero or less
// removes the line. Unknown ids are a no-op.
func (c *Cart) SetQuantity(ctx context.Context, id string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		return c.removeLocked(ctx, id)
	}

	for i := range c.lines {
		if c.lines[i].ID == id {
			c.lines[i].Quantity = quantity
			return c.persist(ctx)
		}
	}
	return nil
}

// Remove deletes the line for id. Unknown ids are a no-op.
func (c *Cart) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeLocked(ctx, id)
}

// Clear empties the cart. Checkout calls this after a verified payment.
func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	return c.persist(ctx)
}

// Lines returns a copy of the current cart lines.
func (c *Cart) Lines() []domain.CartLine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Count returns the total number of units across all lines.
func (c *Cart) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var n int
	for _, line := range c.lines {
		n += line.Quantity
	}
	return n
}

// Subtotal returns the cart total in USD.
func (c *Cart) Subtotal() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var total float64
	for _, line := range c.lines {
		total += line.Total()
	}
	return total
}

func (c *Cart) removeLocked(ctx context.Context, id string) error {
	for i := range c.lines {
		if c.lines[i].ID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return c.persist(ctx)
		}
	}
	return nil
}

// persist writes the full cart back to the durable store. Callers hold the
// write lock.
func (c *Cart) persist(ctx context.Context) error {
	lines := c.lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return c.backend.Set(ctx, store.KeyCart, string(raw))
}

func valid(line domain.CartLine) bool {
	return line.ID != "" && line.Name != "" && line.Kind.Valid() && line.Price >= 0
}
