// Package catalog holds the storefront's product catalog. The catalog is
// seeded at startup and read-only; there is no stock tracking.
package catalog

import "github.com/hypecare/storefront/internal/domain"

type Catalog struct {
	products []domain.Product
	byID     map[string]domain.Product
}

func New() *Catalog {
	products := seedProducts()
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Catalog{products: products, byID: byID}
}

// List returns the catalog in display order.
func (c *Catalog) List() []domain.Product {
	products := make([]domain.Product, len(c.products))
	copy(products, c.products)
	return products
}

// Get returns the product with the given id, or ok=false.
func (c *Catalog) Get(id string) (domain.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

func rupees(v int64) *int64 { return &v }

func seedProducts() []domain.Product {
	return []domain.Product{
		{
			ID:            "car-duster",
			Name:          "HYPE ZIP ZAP Car Duster",
			Subtitle:      "with Ceramic Wax infused fibres",
			Image:         "/images/product-duster.jpg",
			Price:         889,
			OriginalPrice: rupees(1290),
			Description:   "Large soft-bristle duster with ceramic wax infused fibres that lift dust without scratching the paint.",
			Features: []string{
				"Ceramic wax infused fibres",
				"Scratch-free dry dusting",
				"Ergonomic long handle",
			},
		},
		{
			ID:          "microfibre-towel",
			Name:        "HYPE Coral Fleece Microfibre Towel",
			Subtitle:    "550 GSM",
			Image:       "/images/product-towel.jpg",
			Price:       419,
			Description: "Plush 550 GSM coral fleece towel for streak-free drying and buffing.",
			Features: []string{
				"550 GSM coral fleece",
				"Ultra-absorbent, lint-free",
				"Machine washable",
			},
		},
		{
			ID:            "car-perfume",
			Name:          "HYPE Aqua",
			Subtitle:      "Refreshing Car Perfume",
			Image:         "/images/product-perfume.jpg",
			Price:         790,
			OriginalPrice: rupees(1899),
			Description:   "Long-lasting aquatic fragrance that keeps the cabin fresh for weeks.",
			Features: []string{
				"Up to 45 days of fragrance",
				"Spill-proof gel base",
				"Fits any dashboard or vent",
			},
		},
		{
			ID:            "tyre-trim-restorer",
			Name:          "HYPE Tyre & Trim Restorer",
			Subtitle:      "Spray Coating",
			Image:         "/images/product-tyre-spray.jpg",
			Price:         679,
			OriginalPrice: rupees(1290),
			Description:   "DIY nano polymer spray coating that restores and guards tyres and trims against cracking, fading, and environmental damage.",
			Features: []string{
				"Long-lasting protection up to 2 months",
				"Hydrophobic & dust-repellent formula",
				"Non-greasy, non-sticky finish",
				"Convenient aerosol spray application",
				"Restores faded tyres & trims",
				"UV protection against sun damage",
			},
		},
	}
}
