package cart

import (
	"context"

	"opticshop/internal/domain"
)

type Repository interface {
	// Create registers a cart for the user. An existing cart is returned as is.
	Create(ctx context.Context, userID string) (*domain.ShoppingCart, error)
	GetByUserID(ctx context.Context, userID string) (*domain.ShoppingCart, error)
	// LockByUserID loads the cart with SELECT ... FOR UPDATE. Only meaningful inside a transaction.
	LockByUserID(ctx context.Context, userID string) (*domain.ShoppingCart, error)
	AddItem(ctx context.Context, cartID, glassesID string, quantity int) error
	// ChangeItemQuantity sets the quantity of an item; a quantity <= 0 removes it.
	ChangeItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID string) error
	Clear(ctx context.Context, cartID string) error
}
