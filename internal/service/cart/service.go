package cart

import (
	"context"
	"errors"
	"strings"

	"opticshop/internal/domain"

	"github.com/google/uuid"
)

type Service struct {
	repo        cartRepo
	glassesRepo glassesRepo
}

type cartRepo interface {
	Create(ctx context.Context, userID string) (*domain.ShoppingCart, error)
	GetByUserID(ctx context.Context, userID string) (*domain.ShoppingCart, error)
	AddItem(ctx context.Context, cartID, glassesID string, quantity int) error
	ChangeItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID string) error
	Clear(ctx context.Context, cartID string) error
}

type glassesRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Glasses, error)
}

func New(repo cartRepo, glassesRepo glassesRepo) *Service {
	return &Service{repo: repo, glassesRepo: glassesRepo}
}

type AddItemInput struct {
	GlassesID string `json:"glassesId"`
	Quantity  int    `json:"quantity"`
}

// RegisterNewCart creates the user's cart, or returns the one already registered.
func (s *Service) RegisterNewCart(ctx context.Context, userID string) (*domain.ShoppingCart, error) {
	return s.repo.Create(ctx, userID)
}

func (s *Service) ClearCart(ctx context.Context, cartID string) error {
	return s.repo.Clear(ctx, cartID)
}

// Get returns the user's cart, creating an empty one on first access.
func (s *Service) Get(ctx context.Context, userID string) (*domain.ShoppingCart, error) {
	c, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return s.repo.Create(ctx, userID)
	}
	return c, err
}

// AddItem puts glasses into the cart. Adding glasses already in the cart increases the quantity.
func (s *Service) AddItem(ctx context.Context, userID string, in AddItemInput) (*domain.ShoppingCart, error) {
	glassesID := strings.TrimSpace(in.GlassesID)
	if glassesID == "" {
		return nil, domain.Invalid("glassesId required")
	}
	if in.Quantity <= 0 {
		return nil, domain.Invalid("quantity must be positive")
	}
	if _, err := uuid.Parse(glassesID); err != nil {
		return nil, domain.ErrNotFound
	}
	g, err := s.glassesRepo.GetByID(ctx, glassesID)
	if err != nil {
		return nil, err
	}
	if g.Deleted {
		return nil, domain.ErrNotFound
	}
	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddItem(ctx, c.ID, g.ID, in.Quantity); err != nil {
		return nil, err
	}
	return s.repo.GetByUserID(ctx, userID)
}

// ChangeQuantity sets the quantity of a cart item. Zero or less removes it.
func (s *Service) ChangeQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.ShoppingCart, error) {
	c, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ChangeItemQuantity(ctx, c.ID, itemID, quantity); err != nil {
		return nil, err
	}
	return s.repo.GetByUserID(ctx, userID)
}

func (s *Service) RemoveItem(ctx context.Context, userID, itemID string) (*domain.ShoppingCart, error) {
	c, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveItem(ctx, c.ID, itemID); err != nil {
		return nil, err
	}
	return s.repo.GetByUserID(ctx, userID)
}
