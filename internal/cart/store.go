// Package cart implements the shopping cart state store: the authoritative,
// persisted set of line items for the current shopper session.
package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/hypecare/storefront/internal/domain"
	"github.com/hypecare/storefront/internal/kvstore"
)

// Store owns the cart's line items. Mutations are serialized, persist the full
// collection to durable storage, and notify subscribers synchronously.
// Aggregates are recomputed from current state on every read.
type Store struct {
	mu      sync.Mutex
	items   []domain.CartItem
	kv      kvstore.Store
	key     string
	logger  *slog.Logger
	subs    map[int]func()
	nextSub int
}

// NewStore loads any previously persisted cart from kv under "<brand>-cart".
// A missing or unreadable record means an empty cart. The store is meant to be
// constructed once and passed explicitly to everything that needs it; calling
// NewStore without a storage backend is a wiring defect.
func NewStore(kv kvstore.Store, brand string, logger *slog.Logger) *Store {
	if kv == nil {
		panic("cart: NewStore called without a kvstore.Store")
	}

	s := &Store{
		kv:     kv,
		key:    brand + "-cart",
		logger: logger,
		subs:   make(map[int]func()),
	}
	s.load()
	return s
}

func (s *Store) load() {
	raw, ok, err := s.kv.Get(context.Background(), s.key)
	if err != nil {
		s.logger.Warn("failed to read persisted cart", "error", err, "key", s.key)
		return
	}
	if !ok || raw == "" {
		return
	}

	var items []domain.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("discarding unreadable cart record", "error", err, "key", s.key)
		return
	}
	s.items = items
}

// Add puts quantity units of the product in the cart. A quantity below 1 is
// treated as 1. Adding a product already present merges into the existing line
// item instead of inserting a duplicate.
func (s *Store) Add(ctx context.Context, product domain.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.apply(ctx, func() {
		for i := range s.items {
			if s.items[i].ID == product.ID {
				s.items[i].Quantity += quantity
				return
			}
		}
		s.items = append(s.items, domain.CartItem{
			ID:            product.ID,
			Name:          product.Name,
			Subtitle:      product.Subtitle,
			Price:         product.Price,
			OriginalPrice: product.OriginalPrice,
			Image:         product.Image,
			Quantity:      quantity,
		})
	})
}

// Remove deletes the line item with the given id. Unknown ids are a no-op.
func (s *Store) Remove(ctx context.Context, id string) {
	s.apply(ctx, func() {
		for i := range s.items {
			if s.items[i].ID == id {
				s.items = append(s.items[:i], s.items[i+1:]...)
				return
			}
		}
	})
}

// UpdateQuantity sets the line item's quantity. A quantity of zero or less
// removes the item; an item is never retained at a non-positive quantity.
// Unknown ids are a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) {
	if quantity <= 0 {
		s.Remove(ctx, id)
		return
	}

	s.apply(ctx, func() {
		for i := range s.items {
			if s.items[i].ID == id {
				s.items[i].Quantity = quantity
				return
			}
		}
	})
}

// Clear empties the cart unconditionally.
func (s *Store) Clear(ctx context.Context) {
	s.apply(ctx, func() {
		s.items = nil
	})
}

// Items returns a copy of the current line items in insertion order.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]domain.CartItem, len(s.items))
	copy(items, s.items)
	return items
}

// TotalItems is the sum of all line item quantities.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the sum of price times quantity over all line items.
func (s *Store) TotalPrice() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, item := range s.items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// Subscribe registers fn to run synchronously after every mutation. The
// returned function removes the subscription; consumers must call it when they
// stop listening.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// apply runs mutate under the store lock, persists the full collection, then
// notifies subscribers outside the lock so they can read the store.
func (s *Store) apply(ctx context.Context, mutate func()) {
	s.mu.Lock()
	mutate()
	s.persistLocked(ctx)
	subs := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// persistLocked writes the item collection wholesale. Persistence is
// best-effort: a storage failure is logged and the in-memory state stays
// authoritative for the session.
func (s *Store) persistLocked(ctx context.Context) {
	items := s.items
	if items == nil {
		items = []domain.CartItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Error("failed to encode cart", "error", err, "key", s.key)
		return
	}

	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		s.logger.Warn("failed to persist cart", "error", err, "key", s.key)
	}
}
