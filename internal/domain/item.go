package domain

// CartItem is one line item in the shopper's cart. Unit price is captured at
// the time of adding and never re-priced. JSON field names match the persisted
// storage records.
type CartItem struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Subtitle      string `json:"subtitle"`
	Price         int64  `json:"price"`
	OriginalPrice *int64 `json:"originalPrice,omitempty"`
	Image         string `json:"image"`
	Quantity      int    `json:"quantity"`
}

// Product is a catalog entry. OriginalPrice, when present, is the
// struck-through reference price shown next to the selling price.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Subtitle      string   `json:"subtitle"`
	Image         string   `json:"image"`
	Price         int64    `json:"price"`
	OriginalPrice *int64   `json:"originalPrice,omitempty"`
	Description   string   `json:"description,omitempty"`
	Features      []string `json:"features,omitempty"`
}

// DiscountPercent returns the rounded discount relative to OriginalPrice,
// or 0 when there is no reference price.
func (p Product) DiscountPercent() int {
	if p.OriginalPrice == nil || *p.OriginalPrice <= 0 {
		return 0
	}
	return int(float64(*p.OriginalPrice-p.Price)/float64(*p.OriginalPrice)*100 + 0.5)
}
