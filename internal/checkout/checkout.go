// Package checkout orchestrates order placement: shipping policy, simulated
// settlement, order creation, and clearing the cart.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hypecare/storefront/internal/cart"
	"github.com/hypecare/storefront/internal/domain"
	"github.com/hypecare/storefront/internal/messaging"
	"github.com/hypecare/storefront/internal/orders"
	"github.com/hypecare/storefront/internal/telemetry"
)

const (
	// FreeShippingThreshold is the subtotal at which shipping becomes free.
	FreeShippingThreshold int64 = 499
	// FlatShippingFee is charged below the free-shipping threshold.
	FlatShippingFee int64 = 49

	// DefaultSettlementDelay stands in for payment authorization latency.
	DefaultSettlementDelay = 2 * time.Second
)

var ErrEmptyCart = errors.New("cart is empty")

// ShippingCost returns the shipping charge for an order subtotal.
func ShippingCost(totalPrice int64) int64 {
	if totalPrice >= FreeShippingThreshold {
		return 0
	}
	return FlatShippingFee
}

// PlaceOrderInput carries the checkout form values.
type PlaceOrderInput struct {
	Email           string
	ShippingAddress domain.ShippingAddress
	PaymentMethod   string
}

type Checkout struct {
	cart            *cart.Store
	orders          *orders.Store
	producer        *messaging.Producer
	metrics         *telemetry.Metrics
	settlementDelay time.Duration
	logger          *slog.Logger
}

type Option func(*Checkout)

// WithSettlementDelay overrides the simulated settlement duration. Tests set
// it to zero.
func WithSettlementDelay(d time.Duration) Option {
	return func(c *Checkout) { c.settlementDelay = d }
}

func WithMetrics(m *telemetry.Metrics) Option {
	return func(c *Checkout) { c.metrics = m }
}

// New wires the checkout flow. producer may be nil, in which case no
// order-placed event is published.
func New(cartStore *cart.Store, orderStore *orders.Store, producer *messaging.Producer, logger *slog.Logger, opts ...Option) *Checkout {
	c := &Checkout{
		cart:            cartStore,
		orders:          orderStore,
		producer:        producer,
		settlementDelay: DefaultSettlementDelay,
		logger:          logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PlaceOrder snapshots the cart, applies the shipping policy, settles, creates
// the order, clears the cart, and returns the new order id. Placement has no
// failure path beyond an empty cart; the event publish is best-effort.
func (c *Checkout) PlaceOrder(ctx context.Context, input PlaceOrderInput) (string, error) {
	items := c.cart.Items()
	if len(items) == 0 {
		return "", ErrEmptyCart
	}

	totalPrice := c.cart.TotalPrice()
	shippingCost := ShippingCost(totalPrice)
	grandTotal := totalPrice + shippingCost

	c.settle()

	id := c.orders.Add(ctx, orders.AddOrderData{
		Items:           items,
		TotalPrice:      totalPrice,
		ShippingCost:    shippingCost,
		GrandTotal:      grandTotal,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
	})

	c.cart.Clear(ctx)

	if c.producer != nil {
		event := domain.OrderPlacedEvent{
			EventID:    uuid.New().String(),
			OrderID:    id,
			Email:      input.Email,
			Items:      items,
			GrandTotal: grandTotal,
			Timestamp:  time.Now().UTC(),
		}
		if err := c.producer.Publish(ctx, id, event); err != nil {
			c.logger.Error("failed to publish order placed event", "error", err, "order_id", id)
		}
	}

	c.metrics.OrderPlaced(ctx)
	c.logger.Info("order placed",
		"order_id", id,
		"total_price", totalPrice,
		"shipping_cost", shippingCost,
		"grand_total", grandTotal,
		"payment_method", input.PaymentMethod,
	)

	return id, nil
}

// settle blocks for the configured settlement delay. No real payment
// authorization occurs; swap this out when a payment integration lands.
func (c *Checkout) settle() {
	if c.settlementDelay > 0 {
		time.Sleep(c.settlementDelay)
	}
}
