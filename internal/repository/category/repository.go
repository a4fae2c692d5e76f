package category

import (
	"context"

	"opticshop/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, c domain.Category) (*domain.Category, error)
	// EnsureByName returns the category with the given name, creating it when missing.
	EnsureByName(ctx context.Context, name string) (*domain.Category, error)
}
