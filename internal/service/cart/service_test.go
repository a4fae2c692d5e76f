package cart

import (
	"context"
	"errors"
	"testing"

	"opticshop/internal/domain"
)

type stubRepo struct {
	cart          *domain.ShoppingCart
	getErr        error
	createCalls   int
	addItemErr    error
	lastAddCartID string
	lastAddID     string
	lastAddQty    int
	lastChangeID  string
	lastChangeQty int
	lastRemoveID  string
	clearedCartID string
}

func (s *stubRepo) Create(_ context.Context, userID string) (*domain.ShoppingCart, error) {
	s.createCalls++
	if s.cart == nil {
		s.cart = &domain.ShoppingCart{ID: "cart-" + userID, UserID: userID}
	}
	s.getErr = nil
	return s.cart, nil
}

func (s *stubRepo) GetByUserID(_ context.Context, _ string) (*domain.ShoppingCart, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.cart == nil {
		return nil, domain.ErrNotFound
	}
	return s.cart, nil
}

func (s *stubRepo) AddItem(_ context.Context, cartID, glassesID string, quantity int) error {
	s.lastAddCartID = cartID
	s.lastAddID = glassesID
	s.lastAddQty = quantity
	return s.addItemErr
}

func (s *stubRepo) ChangeItemQuantity(_ context.Context, _, itemID string, quantity int) error {
	s.lastChangeID = itemID
	s.lastChangeQty = quantity
	return nil
}

func (s *stubRepo) RemoveItem(_ context.Context, _, itemID string) error {
	if itemID == "missing" {
		return domain.ErrNotFound
	}
	s.lastRemoveID = itemID
	return nil
}

func (s *stubRepo) Clear(_ context.Context, cartID string) error {
	s.clearedCartID = cartID
	return nil
}

type stubGlassesRepo struct {
	glasses map[string]domain.Glasses
	lookups int
}

func (s *stubGlassesRepo) GetByID(_ context.Context, id string) (*domain.Glasses, error) {
	s.lookups++
	g, ok := s.glasses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &g, nil
}

const (
	aviatorID = "1d8e6b0a-2f4c-4e7a-9b3d-5c6f7a8b9c0d"
	retiredID = "2e9f7c1b-3a5d-4f8b-8c4e-6d7a8b9c0d1e"
	unknownID = "3fa08d2c-4b6e-4a9c-9d5f-7e8b9c0d1e2f"
)

func newGlassesRepo() *stubGlassesRepo {
	return &stubGlassesRepo{glasses: map[string]domain.Glasses{
		aviatorID: {ID: aviatorID, Name: "Aviator"},
		retiredID: {ID: retiredID, Name: "Retired", Deleted: true},
	}}
}

func TestServiceGetCreatesCartLazily(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, newGlassesRepo())

	got, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "cart-u1" || repo.createCalls != 1 {
		t.Fatalf("expected lazily created cart, got %+v after %d creates", got, repo.createCalls)
	}

	if _, err := svc.Get(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.createCalls != 1 {
		t.Fatalf("expected existing cart to be reused")
	}
}

func TestServiceGetRepoError(t *testing.T) {
	svc := New(&stubRepo{getErr: errors.New("boom")}, newGlassesRepo())
	if _, err := svc.Get(context.Background(), "u1"); err == nil || err.Error() != "boom" {
		t.Fatalf("expected repo error, got %v", err)
	}
}

func TestServiceAddItemValidation(t *testing.T) {
	svc := New(&stubRepo{}, newGlassesRepo())

	_, err := svc.AddItem(context.Background(), "u1", AddItemInput{GlassesID: " ", Quantity: 1})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = svc.AddItem(context.Background(), "u1", AddItemInput{GlassesID: aviatorID, Quantity: 0})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected quantity validation error, got %v", err)
	}
}

func TestServiceAddItemUnknownOrDeletedGlasses(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, newGlassesRepo())

	for _, id := range []string{unknownID, retiredID} {
		_, err := svc.AddItem(context.Background(), "u1", AddItemInput{GlassesID: id, Quantity: 1})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("glasses %s: expected not found, got %v", id, err)
		}
	}
	if repo.lastAddID != "" {
		t.Fatalf("add item must not be called")
	}
}

func TestServiceAddItemMalformedGlassesID(t *testing.T) {
	glasses := newGlassesRepo()
	svc := New(&stubRepo{}, glasses)

	_, err := svc.AddItem(context.Background(), "u1", AddItemInput{GlassesID: "abc", Quantity: 1})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for malformed id, got %v", err)
	}
	if glasses.lookups != 0 {
		t.Fatalf("malformed id must not reach the repository")
	}
}

func TestServiceAddItemSuccess(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, newGlassesRepo())

	got, err := svc.AddItem(context.Background(), "u1", AddItemInput{GlassesID: aviatorID, Quantity: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "cart-u1" {
		t.Fatalf("unexpected cart: %+v", got)
	}
	if repo.lastAddCartID != "cart-u1" || repo.lastAddID != aviatorID || repo.lastAddQty != 2 {
		t.Fatalf("add item not called as expected")
	}
}

func TestServiceAddItemRepoError(t *testing.T) {
	repo := &stubRepo{addItemErr: errors.New("add failed")}
	svc := New(repo, newGlassesRepo())
	_, err := svc.AddItem(context.Background(), "u1", AddItemInput{GlassesID: aviatorID, Quantity: 1})
	if err == nil || err.Error() != "add failed" {
		t.Fatalf("expected repo error, got %v", err)
	}
}

func TestServiceChangeQuantityAndRemove(t *testing.T) {
	repo := &stubRepo{cart: &domain.ShoppingCart{ID: "cart", UserID: "u1"}}
	svc := New(repo, newGlassesRepo())

	if _, err := svc.ChangeQuantity(context.Background(), "u1", "line", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastChangeID != "line" || repo.lastChangeQty != 0 {
		t.Fatalf("change quantity not called as expected")
	}

	if _, err := svc.RemoveItem(context.Background(), "u1", "line"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastRemoveID != "line" {
		t.Fatalf("remove not called as expected")
	}
	if _, err := svc.RemoveItem(context.Background(), "u1", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceChangeQuantityWithoutCart(t *testing.T) {
	svc := New(&stubRepo{}, newGlassesRepo())
	if _, err := svc.ChangeQuantity(context.Background(), "u1", "line", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceClearCart(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, newGlassesRepo())
	if err := svc.ClearCart(context.Background(), "cart"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.clearedCartID != "cart" {
		t.Fatalf("clear not called")
	}
}

func TestServiceRegisterNewCartIsIdempotent(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, newGlassesRepo())

	first, err := svc.RegisterNewCart(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.RegisterNewCart(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != second.ID || first.UserID != "u1" {
		t.Fatalf("expected the same cart twice, got %q and %q", first.ID, second.ID)
	}
}
