package order

import (
	"context"

	"opticshop/internal/domain"
)

type Repository interface {
	// Create inserts the order and its items. A guest owner's temporary user must already exist.
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	CreateTemporaryUser(ctx context.Context, u domain.TemporaryUser) (*domain.TemporaryUser, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUserID(ctx context.Context, userID string) ([]domain.Order, error)
	// ListAll returns orders newest first.
	ListAll(ctx context.Context, limit, offset int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
}
