package domain

import "time"

type OrderPlacedEvent struct {
	EventID    string     `json:"event_id"`
	OrderID    string     `json:"order_id"`
	Email      string     `json:"email"`
	Items      []CartItem `json:"items"`
	GrandTotal int64      `json:"grand_total"`
	Timestamp  time.Time  `json:"timestamp"`
}
