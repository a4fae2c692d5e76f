package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"opticshop/internal/domain"
	"opticshop/internal/service/auth"
	cartsvc "opticshop/internal/service/cart"
	catalogsvc "opticshop/internal/service/catalog"
	ordersvc "opticshop/internal/service/order"
	"opticshop/internal/service/passwordreset"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/currency"
)

const (
	testUserID  = "0b7d2f4e-8a1c-4c55-9d57-0d0f4c1e9a01"
	testOrderID = "5f1e2d3c-4b5a-4968-8776-a5b4c3d2e1f0"
	testItemID  = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
	validToken  = "valid-token"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubAuthService struct {
	user        *domain.User
	registerErr error
	loginErr    error
	lastLogin   string
}

func (s *stubAuthService) Register(_ context.Context, in auth.RegisterInput) (*domain.User, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &domain.User{ID: testUserID, Email: in.Email, FirstName: in.FirstName, PasswordHash: "secret-hash", Role: domain.RoleUser}, nil
}

func (s *stubAuthService) Login(_ context.Context, email, _ string) (string, error) {
	s.lastLogin = email
	if s.loginErr != nil {
		return "", s.loginErr
	}
	return validToken, nil
}

func (s *stubAuthService) Authenticate(token string) (auth.Identity, error) {
	if token != validToken {
		return auth.Identity{}, auth.ErrInvalidToken
	}
	return auth.Identity{UserID: testUserID, Email: "jane@example.com", Role: domain.RoleUser}, nil
}

type stubPasswordService struct {
	initiateErr error
	confirmErr  error
	updateErr   error
	lastUserID  string
}

func (s *stubPasswordService) InitiatePasswordChange(context.Context, string) error {
	return s.initiateErr
}

func (s *stubPasswordService) ConfirmPasswordChange(context.Context, string, string, string) error {
	return s.confirmErr
}

func (s *stubPasswordService) UpdatePassword(_ context.Context, userID string, _ passwordreset.UpdatePasswordInput) error {
	s.lastUserID = userID
	return s.updateErr
}

type stubCatalogService struct {
	glasses     []domain.Glasses
	err         error
	lastSearch  catalogsvc.SearchParams
	lastPatch   domain.GlassesPatch
	lastSave    catalogsvc.GlassesInput
	searchCalls int
}

func (s *stubCatalogService) FindAll(context.Context) ([]domain.Glasses, error) {
	return s.glasses, s.err
}

func (s *stubCatalogService) GetByID(_ context.Context, id string) (*domain.Glasses, error) {
	for _, g := range s.glasses {
		if g.ID == id {
			return &g, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCatalogService) FindByIdentifier(_ context.Context, identifier string) (*domain.Glasses, error) {
	for _, g := range s.glasses {
		if g.Identifier == identifier {
			return &g, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCatalogService) Save(_ context.Context, in catalogsvc.GlassesInput) (*domain.Glasses, error) {
	s.lastSave = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Glasses{ID: "new", Name: in.Name, Identifier: in.Identifier, Price: in.Price}, nil
}

func (s *stubCatalogService) Update(_ context.Context, id string, patch domain.GlassesPatch) (*domain.Glasses, error) {
	s.lastPatch = patch
	g, err := s.GetByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	merged := domain.MergeGlasses(*g, patch)
	return &merged, nil
}

func (s *stubCatalogService) DeleteByID(_ context.Context, id string) error {
	_, err := s.GetByID(context.Background(), id)
	return err
}

func (s *stubCatalogService) SearchGlassesByParameters(_ context.Context, p catalogsvc.SearchParams) ([]domain.Glasses, error) {
	s.searchCalls++
	s.lastSearch = p
	return s.glasses, s.err
}

type stubCategoryService struct {
	err error
}

func (s *stubCategoryService) List(context.Context) ([]domain.Category, error) {
	return nil, s.err
}

func (s *stubCategoryService) Create(_ context.Context, c domain.Category) (*domain.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	c.ID = "cat-1"
	return &c, nil
}

type stubCartService struct {
	cart       domain.ShoppingCart
	err        error
	lastUserID string
	lastQty    int
	registered []string
}

func (s *stubCartService) RegisterNewCart(_ context.Context, userID string) (*domain.ShoppingCart, error) {
	s.registered = append(s.registered, userID)
	return &s.cart, nil
}

func (s *stubCartService) Get(_ context.Context, userID string) (*domain.ShoppingCart, error) {
	s.lastUserID = userID
	if s.err != nil {
		return nil, s.err
	}
	return &s.cart, nil
}

func (s *stubCartService) AddItem(_ context.Context, userID string, in cartsvc.AddItemInput) (*domain.ShoppingCart, error) {
	s.lastQty = in.Quantity
	return s.Get(context.Background(), userID)
}

func (s *stubCartService) ChangeQuantity(_ context.Context, userID, _ string, quantity int) (*domain.ShoppingCart, error) {
	s.lastQty = quantity
	return s.Get(context.Background(), userID)
}

func (s *stubCartService) RemoveItem(_ context.Context, userID, _ string) (*domain.ShoppingCart, error) {
	return s.Get(context.Background(), userID)
}

type stubOrderService struct {
	order       *domain.Order
	err         error
	lastPage    ordersvc.Page
	lastStatus  domain.Status
	lastUserID  string
	notifyCalls int
}

func (s *stubOrderService) result() (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.order == nil {
		return nil, domain.ErrNotFound
	}
	return s.order, nil
}

func (s *stubOrderService) AddOrder(_ context.Context, requesterID string, in ordersvc.CreateOrderInput) (*domain.Order, error) {
	s.lastUserID = requesterID
	if in.ShippingAddress == "" {
		return nil, domain.Invalid("shippingAddress required")
	}
	return s.result()
}

func (s *stubOrderService) PlaceOrder(context.Context, ordersvc.GuestOrderInput) (*domain.Order, error) {
	return s.result()
}

func (s *stubOrderService) UpdateOrderStatus(_ context.Context, _ string, status domain.Status) (*domain.Order, error) {
	s.notifyCalls++
	s.lastStatus = status
	return s.result()
}

func (s *stubOrderService) Update(_ context.Context, _ string, in ordersvc.UpdateOrderInput) (*domain.Order, error) {
	s.lastStatus = in.Status
	return s.result()
}

func (s *stubOrderService) FindByID(context.Context, string) (*domain.Order, error) {
	return s.result()
}

func (s *stubOrderService) GetByUserID(_ context.Context, userID string) ([]domain.Order, error) {
	s.lastUserID = userID
	o, err := s.result()
	if err != nil {
		return nil, err
	}
	return []domain.Order{*o}, nil
}

func (s *stubOrderService) FindAllOrders(_ context.Context, p ordersvc.Page) ([]domain.Order, error) {
	s.lastPage = p
	return nil, s.err
}

func (s *stubOrderService) FindAllByUserEmail(context.Context, string) ([]domain.Order, error) {
	return nil, domain.ErrNotFound
}

func (s *stubOrderService) GetByOrderIDAndOrderItemID(_ context.Context, _, itemID string) (*domain.OrderItem, error) {
	o, err := s.result()
	if err != nil {
		return nil, err
	}
	it, ok := o.Item(itemID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &it, nil
}

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error { return s.err }

var errBoom = errors.New("boom")

func testDeps() Deps {
	return Deps{
		Auth:          &stubAuthService{},
		Passwords:     &stubPasswordService{},
		Catalog:       &stubCatalogService{},
		Categories:    &stubCategoryService{},
		Carts:         &stubCartService{},
		Orders:        &stubOrderService{},
		DB:            stubPinger{},
		Currency:      currency.EUR,
		AllowedOrigin: "http://localhost:8080",
	}
}

func newTestRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(logDiscard(), deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func do(router http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func bearer() []string {
	return []string{"Authorization", "Bearer " + validToken}
}
