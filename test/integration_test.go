//go:build integration

package test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/hypecare/storefront/internal/cart"
	"github.com/hypecare/storefront/internal/catalog"
	"github.com/hypecare/storefront/internal/checkout"
	"github.com/hypecare/storefront/internal/domain"
	"github.com/hypecare/storefront/internal/kvstore"
	"github.com/hypecare/storefront/internal/messaging"
	"github.com/hypecare/storefront/internal/notify"
	"github.com/hypecare/storefront/internal/orders"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCartPersistence(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg := SetupPostgres(ctx, t)
	defer pg.Cleanup()

	db, err := OpenDB(pg.ConnStr)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	kv := kvstore.NewPostgresStore(db)
	logger := discardLogger()

	store := cart.NewStore(kv, "HYPE", logger)
	store.Add(ctx, domain.Product{ID: "car-duster", Name: "HYPE ZIP ZAP Car Duster", Price: 889}, 2)
	store.Add(ctx, domain.Product{ID: "car-perfume", Name: "HYPE Aqua", Price: 790}, 1)

	reloaded := cart.NewStore(kv, "HYPE", logger)

	items := reloaded.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items after reload, got %d", len(items))
	}
	if items[0].ID != "car-duster" || items[0].Quantity != 2 {
		t.Errorf("unexpected first item after reload: %+v", items[0])
	}
	if got := reloaded.TotalPrice(); got != 2568 {
		t.Errorf("expected total price 2568 after reload, got %d", got)
	}
}

func TestCheckoutFlow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg := SetupPostgres(ctx, t)
	defer pg.Cleanup()

	db, err := OpenDB(pg.ConnStr)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	kv := kvstore.NewPostgresStore(db)
	logger := discardLogger()

	cartStore := cart.NewStore(kv, "HYPE", logger)
	orderStore := orders.NewStore(kv, "HYPE", logger)

	cartHandler := cart.NewHandler(cartStore, catalog.New(), nil, logger)
	orderHandler := orders.NewHandler(orderStore, logger)
	checkoutHandler := checkout.NewHandler(
		checkout.New(cartStore, orderStore, nil, logger, checkout.WithSettlementDelay(0)),
		logger,
	)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /cart/items", cartHandler.HandleAddItem)
	mux.HandleFunc("POST /checkout", checkoutHandler.HandlePlaceOrder)
	mux.HandleFunc("GET /orders/{id}", orderHandler.HandleGet)

	addBody := `{"productId": "car-duster", "quantity": 2}`
	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(addBody))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("failed to add item: %d: %s", rec.Code, rec.Body.String())
	}

	checkoutBody := `{
		"email": "asha@example.com",
		"shippingAddress": {"firstName": "Asha", "lastName": "Rao", "address": "12 MG Road", "city": "Mumbai", "state": "Maharashtra", "pincode": "400001"},
		"paymentMethod": "upi"
	}`
	req = httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(checkoutBody))
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var placed struct {
		OrderID string `json:"orderId"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&placed); err != nil {
		t.Fatalf("failed to decode checkout response: %v", err)
	}
	if placed.OrderID == "" {
		t.Fatal("expected an order id")
	}

	req = httptest.NewRequest(http.MethodGet, "/orders/"+placed.OrderID, nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var order domain.Order
	if err := json.NewDecoder(rec.Body).Decode(&order); err != nil {
		t.Fatalf("failed to decode order: %v", err)
	}
	if order.TotalPrice != 1778 || order.ShippingCost != 0 || order.GrandTotal != 1778 {
		t.Errorf("unexpected totals: %+v", order)
	}
	if order.Status != domain.OrderStatusConfirmed {
		t.Errorf("expected status confirmed, got %s", order.Status)
	}

	if got := cartStore.TotalItems(); got != 0 {
		t.Errorf("expected empty cart after checkout, got %d items", got)
	}

	reloadedOrders := orders.NewStore(kv, "HYPE", logger)
	if _, ok := reloadedOrders.Get(placed.OrderID); !ok {
		t.Errorf("expected order %s to survive a restart", placed.OrderID)
	}
	reloadedCart := cart.NewStore(kv, "HYPE", logger)
	if got := reloadedCart.TotalItems(); got != 0 {
		t.Errorf("expected empty cart persisted, got %d items", got)
	}
}

type captureMailer struct {
	sent chan string
}

func (m *captureMailer) Send(_ context.Context, to, subject, _ string) error {
	m.sent <- to + " | " + subject
	return nil
}

func TestOrderPlacedEventDelivery(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	brokers, cleanup := SetupKafka(ctx, t)
	defer cleanup()

	logger := discardLogger()

	kv := kvstore.NewMemoryStore()
	cartStore := cart.NewStore(kv, "HYPE", logger)
	orderStore := orders.NewStore(kv, "HYPE", logger)

	producer := messaging.NewProducer(brokers, messaging.TopicOrderPlaced)
	defer func() { _ = producer.Close() }()

	consumer := messaging.NewConsumer(brokers, messaging.TopicOrderPlaced, "order-notifier-test",
		messaging.WithStartOffset(kafka.FirstOffset),
	)
	defer func() { _ = consumer.Close() }()

	mailer := &captureMailer{sent: make(chan string, 1)}
	handler := notify.NewHandler(mailer, logger)

	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()
	consumeErr := make(chan error, 1)
	go func() {
		consumeErr <- consumer.Consume(consumerCtx, handler.Handle)
	}()

	cartStore.Add(ctx, domain.Product{ID: "car-duster", Name: "HYPE ZIP ZAP Car Duster", Price: 889}, 1)

	c := checkout.New(cartStore, orderStore, producer, logger, checkout.WithSettlementDelay(0))
	id, err := c.PlaceOrder(ctx, checkout.PlaceOrderInput{
		Email:         "asha@example.com",
		PaymentMethod: "upi",
	})
	if err != nil {
		t.Fatalf("failed to place order: %v", err)
	}

	select {
	case mail := <-mailer.sent:
		if !strings.Contains(mail, "asha@example.com") {
			t.Errorf("expected mail to the shopper, got %q", mail)
		}
		if !strings.Contains(mail, id) {
			t.Errorf("expected subject to contain order id %s, got %q", id, mail)
		}
	case <-time.After(90 * time.Second):
		t.Fatal("timed out waiting for the confirmation mail")
	}

	stopConsumer()
	if err := <-consumeErr; err != nil && !errors.Is(err, context.Canceled) {
		t.Errorf("consumer exited with error: %v", err)
	}
}
