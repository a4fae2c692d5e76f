package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShoppingCart belongs to exactly one user.
type ShoppingCart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	CreatedAt time.Time  `json:"createdAt"`
	Items     []CartItem `json:"cartItems"`
}

type CartItem struct {
	ID          string          `json:"id"`
	CartID      string          `json:"cartId"`
	GlassesID   string          `json:"glassesId"`
	GlassesName string          `json:"glassesName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// LineTotal is the current price of the line: unit price times quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
