// Package notify consumes order-placed events and sends the shopper a
// confirmation email. It never touches order state: an order's status stays
// confirmed regardless of what happens here.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hypecare/storefront/internal/domain"
)

const fallbackRecipient = "customer@example.com"

type Handler struct {
	mailer Mailer
	logger *slog.Logger
}

func NewHandler(mailer Mailer, logger *slog.Logger) *Handler {
	return &Handler{
		mailer: mailer,
		logger: logger,
	}
}

func (h *Handler) Handle(ctx context.Context, payload []byte) error {
	var event domain.OrderPlacedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal order placed event: %w", err)
	}

	h.logger.Info("processing order placed event", "event_id", event.EventID, "order_id", event.OrderID)

	to := event.Email
	if to == "" {
		to = fallbackRecipient
	}

	var itemCount int
	for _, item := range event.Items {
		itemCount += item.Quantity
	}

	subject := "Order Confirmation: " + event.OrderID
	body := fmt.Sprintf("Your order %s (%d items, Rs. %d) has been confirmed.", event.OrderID, itemCount, event.GrandTotal)

	if err := h.mailer.Send(ctx, to, subject, body); err != nil {
		h.logger.Error("failed to send confirmation email", "error", err, "order_id", event.OrderID)
		return fmt.Errorf("send confirmation email: %w", err)
	}

	h.logger.Info("order confirmation sent", "order_id", event.OrderID, "to", to)
	return nil
}
