package glasses

import (
	"context"

	"opticshop/internal/domain"
)

// Repository persists catalog glasses. Listing and search skip soft-deleted rows;
// lookups by id or identifier do not.
type Repository interface {
	List(ctx context.Context) ([]domain.Glasses, error)
	GetByID(ctx context.Context, id string) (*domain.Glasses, error)
	GetByIdentifier(ctx context.Context, identifier string) (*domain.Glasses, error)
	ListVariations(ctx context.Context, model, manufacturer, excludeID string) ([]domain.Glasses, error)
	Search(ctx context.Context, filters []Filter) ([]domain.Glasses, error)
	Create(ctx context.Context, g domain.Glasses) (*domain.Glasses, error)
	Update(ctx context.Context, g domain.Glasses) (*domain.Glasses, error)
	UpsertByIdentifier(ctx context.Context, g domain.Glasses) (*domain.Glasses, error)
	SoftDelete(ctx context.Context, id string) error
}
