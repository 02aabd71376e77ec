// Package orders implements the order history state store: the authoritative,
// persisted, append-only list of placed orders.
package orders

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hypecare/storefront/internal/domain"
	"github.com/hypecare/storefront/internal/kvstore"
)

// DeliveryLeadTime is the fixed window between placing an order and its
// estimated delivery.
const DeliveryLeadTime = 5 * 24 * time.Hour

// AddOrderData carries everything the caller supplies at placement. The store
// generates the id, creation timestamp, delivery estimate, and status.
type AddOrderData struct {
	Items           []domain.CartItem
	TotalPrice      int64
	ShippingCost    int64
	GrandTotal      int64
	ShippingAddress domain.ShippingAddress
	PaymentMethod   string
}

// Store owns the order history, newest first. Orders are created exactly once,
// never mutated, and never deleted; there is no cancel or edit operation.
type Store struct {
	mu      sync.Mutex
	orders  []domain.Order
	kv      kvstore.Store
	key     string
	prefix  string
	now     func() time.Time
	logger  *slog.Logger
	subs    map[int]func()
	nextSub int
}

type Option func(*Store)

// WithClock overrides the clock used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore loads any previously persisted history from kv under
// "<brand>-orders". A missing or unreadable record means an empty history.
// Calling NewStore without a storage backend is a wiring defect.
func NewStore(kv kvstore.Store, brand string, logger *slog.Logger, opts ...Option) *Store {
	if kv == nil {
		panic("orders: NewStore called without a kvstore.Store")
	}

	s := &Store{
		kv:     kv,
		key:    brand + "-orders",
		prefix: brand + "-",
		now:    time.Now,
		logger: logger,
		subs:   make(map[int]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

func (s *Store) load() {
	raw, ok, err := s.kv.Get(context.Background(), s.key)
	if err != nil {
		s.logger.Warn("failed to read persisted orders", "error", err, "key", s.key)
		return
	}
	if !ok || raw == "" {
		return
	}

	var orders []domain.Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		s.logger.Warn("discarding unreadable orders record", "error", err, "key", s.key)
		return
	}
	s.orders = orders
}

// Add creates the order, prepends it to the history, and returns its id. The
// items slice is copied so later cart changes cannot touch the snapshot. The
// id is derived from the creation instant (base-36, uppercased, brand
// prefixed); collisions under clock skew or rapid double submission are an
// accepted limitation.
func (s *Store) Add(ctx context.Context, data AddOrderData) string {
	now := s.now()

	items := make([]domain.CartItem, len(data.Items))
	copy(items, data.Items)

	order := domain.Order{
		ID:                s.prefix + strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36)),
		Items:             items,
		TotalPrice:        data.TotalPrice,
		ShippingCost:      data.ShippingCost,
		GrandTotal:        data.GrandTotal,
		Status:            domain.OrderStatusConfirmed,
		CreatedAt:         now,
		EstimatedDelivery: now.Add(DeliveryLeadTime),
		ShippingAddress:   data.ShippingAddress,
		PaymentMethod:     data.PaymentMethod,
	}

	s.mu.Lock()
	s.orders = append([]domain.Order{order}, s.orders...)
	s.persistLocked(ctx)
	subs := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}

	return order.ID
}

// Get returns the order with the given id, or ok=false. An unknown id is a
// normal not-found result, never an error.
func (s *Store) Get(id string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.orders {
		if order.ID == id {
			return order, true
		}
	}
	return domain.Order{}, false
}

// Orders returns a copy of the history, newest first.
func (s *Store) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := make([]domain.Order, len(s.orders))
	copy(orders, s.orders)
	return orders
}

// Subscribe registers fn to run synchronously after every placed order. The
// returned function removes the subscription.
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

// persistLocked writes the history wholesale, best-effort: a storage failure
// is logged and the in-memory history stays authoritative for the session.
func (s *Store) persistLocked(ctx context.Context) {
	orders := s.orders
	if orders == nil {
		orders = []domain.Order{}
	}

	data, err := json.Marshal(orders)
	if err != nil {
		s.logger.Error("failed to encode orders", "error", err, "key", s.key)
		return
	}

	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		s.logger.Warn("failed to persist orders", "error", err, "key", s.key)
	}
}
