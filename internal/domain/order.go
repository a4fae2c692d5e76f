package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

var statuses = []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

// ParseStatus accepts any letter case. Unknown values are a validation error.
func ParseStatus(s string) (Status, error) {
	want := Status(strings.ToUpper(strings.TrimSpace(s)))
	for _, st := range statuses {
		if st == want {
			return st, nil
		}
	}
	return "", Invalid("unknown order status %q", s)
}

// Owner is either a RegisteredOwner or a GuestOwner.
type Owner interface {
	ContactEmail() string
	isOwner()
}

// RegisteredOwner is a user with an account.
type RegisteredOwner struct {
	UserID string
	Email  string
}

func (o RegisteredOwner) ContactEmail() string { return o.Email }
func (RegisteredOwner) isOwner() {}

// GuestOwner is a temporary user created at guest checkout.
type GuestOwner struct {
	User TemporaryUser
}

func (o GuestOwner) ContactEmail() string { return o.User.Email }
func (GuestOwner) isOwner() {}

type Order struct {
	ID              string
	ShippingAddress string
	Items           []OrderItem
	Total           decimal.Decimal
	Status          Status
	OrderDate       time.Time
	Owner           Owner
}

// OrderItem.Price is the line price frozen at order time: unit price times quantity.
type OrderItem struct {
	ID        string
	OrderID   string
	GlassesID string
	Quantity  int
	Price     decimal.Decimal
	Status    Status
}

// SumItems adds up item prices exactly.
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price)
	}
	return total
}

// Item finds an item of the order by id.
func (o Order) Item(itemID string) (OrderItem, bool) {
	for _, it := range o.Items {
		if it.ID == itemID {
			return it, true
		}
	}
	return OrderItem{}, false
}
