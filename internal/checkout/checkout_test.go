package checkout

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/hypecare/storefront/internal/cart"
	"github.com/hypecare/storefront/internal/domain"
	"github.com/hypecare/storefront/internal/kvstore"
	"github.com/hypecare/storefront/internal/orders"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStores() (*cart.Store, *orders.Store) {
	kv := kvstore.NewMemoryStore()
	logger := discardLogger()
	return cart.NewStore(kv, "HYPE", logger), orders.NewStore(kv, "HYPE", logger)
}

func testInput() PlaceOrderInput {
	return PlaceOrderInput{
		Email: "asha@example.com",
		ShippingAddress: domain.ShippingAddress{
			FirstName: "Asha",
			LastName:  "Rao",
			Address:   "12 MG Road",
			City:      "Mumbai",
			State:     "Maharashtra",
			Pincode:   "400001",
		},
		PaymentMethod: "card",
	}
}

func TestShippingCost(t *testing.T) {
	tests := []struct {
		name       string
		totalPrice int64
		want       int64
	}{
		{"below threshold pays the flat fee", 200, 49},
		{"just below threshold pays the flat fee", 498, 49},
		{"at threshold ships free", 499, 0},
		{"above threshold ships free", 600, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShippingCost(tt.totalPrice); got != tt.want {
				t.Errorf("ShippingCost(%d) = %d, want %d", tt.totalPrice, got, tt.want)
			}
		})
	}
}

func TestCheckout_PlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("below the free-shipping threshold", func(t *testing.T) {
		cartStore, orderStore := testStores()
		cartStore.Add(ctx, domain.Product{ID: "a", Name: "Product a", Price: 100}, 2)

		c := New(cartStore, orderStore, nil, discardLogger(), WithSettlementDelay(0))

		id, err := c.PlaceOrder(ctx, testInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		order, ok := orderStore.Get(id)
		if !ok {
			t.Fatalf("expected order %s to be resolvable", id)
		}
		if order.TotalPrice != 200 || order.ShippingCost != 49 || order.GrandTotal != 249 {
			t.Errorf("unexpected totals: %+v", order)
		}
		if order.Status != domain.OrderStatusConfirmed {
			t.Errorf("expected status confirmed, got %s", order.Status)
		}
		if order.PaymentMethod != "card" {
			t.Errorf("expected payment method card, got %s", order.PaymentMethod)
		}
	})

	t.Run("at or above the free-shipping threshold", func(t *testing.T) {
		cartStore, orderStore := testStores()
		cartStore.Add(ctx, domain.Product{ID: "b", Name: "Product b", Price: 300}, 2)

		c := New(cartStore, orderStore, nil, discardLogger(), WithSettlementDelay(0))

		id, err := c.PlaceOrder(ctx, testInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		order, _ := orderStore.Get(id)
		if order.TotalPrice != 600 || order.ShippingCost != 0 || order.GrandTotal != 600 {
			t.Errorf("unexpected totals: %+v", order)
		}
	})

	t.Run("clears the cart after placement", func(t *testing.T) {
		cartStore, orderStore := testStores()
		cartStore.Add(ctx, domain.Product{ID: "a", Name: "Product a", Price: 100}, 2)

		c := New(cartStore, orderStore, nil, discardLogger(), WithSettlementDelay(0))

		if _, err := c.PlaceOrder(ctx, testInput()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := cartStore.TotalItems(); got != 0 {
			t.Errorf("expected empty cart after placement, got %d items", got)
		}
	})

	t.Run("order snapshot survives later cart changes", func(t *testing.T) {
		cartStore, orderStore := testStores()
		cartStore.Add(ctx, domain.Product{ID: "a", Name: "Product a", Price: 100}, 2)

		c := New(cartStore, orderStore, nil, discardLogger(), WithSettlementDelay(0))

		id, err := c.PlaceOrder(ctx, testInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cartStore.Add(ctx, domain.Product{ID: "z", Name: "Product z", Price: 999}, 5)

		order, _ := orderStore.Get(id)
		if len(order.Items) != 1 || order.Items[0].ID != "a" || order.Items[0].Quantity != 2 {
			t.Errorf("expected snapshot unchanged, got %+v", order.Items)
		}
	})

	t.Run("rejects an empty cart", func(t *testing.T) {
		cartStore, orderStore := testStores()
		c := New(cartStore, orderStore, nil, discardLogger(), WithSettlementDelay(0))

		if _, err := c.PlaceOrder(ctx, testInput()); err != ErrEmptyCart {
			t.Errorf("expected ErrEmptyCart, got %v", err)
		}
	})
}
