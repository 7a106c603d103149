package cart

import (
	"github.com/shopspring/decimal"
)

// LineItem is one product entry in the cart, carrying its own quantity.
type LineItem struct {
	ID            string  `json:"id" validate:"required"`
	Name          string  `json:"name" validate:"required"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" validate:"gte=0"`
	Category      string  `json:"category"`
	ImageURL      string  `json:"imageUrl"`
	ImagePublicID string  `json:"imagePublicId"`
	Stock         int     `json:"stock"`
	Quantity      int     `json:"quantity" validate:"gte=1"`
}

// Subtotal returns price multiplied by quantity, decimal-safe.
func (li LineItem) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(li.Price).Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Total sums price times quantity over all line items.
func Total(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Count sums the quantities across line items, not the number of distinct entries.
func Count(items []LineItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}
