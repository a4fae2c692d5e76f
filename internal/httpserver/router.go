package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	_ "opticshop/docs"
	"opticshop/internal/domain"
	"opticshop/internal/service/auth"
	cartsvc "opticshop/internal/service/cart"
	catalogsvc "opticshop/internal/service/catalog"
	ordersvc "opticshop/internal/service/order"
	"opticshop/internal/service/passwordreset"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/text/currency"
)

type authService interface {
	Register(ctx context.Context, in auth.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Authenticate(token string) (auth.Identity, error)
}

type passwordService interface {
	InitiatePasswordChange(ctx context.Context, email string) error
	ConfirmPasswordChange(ctx context.Context, email, code, newPassword string) error
	UpdatePassword(ctx context.Context, userID string, in passwordreset.UpdatePasswordInput) error
}

type catalogService interface {
	FindAll(ctx context.Context) ([]domain.Glasses, error)
	GetByID(ctx context.Context, id string) (*domain.Glasses, error)
	FindByIdentifier(ctx context.Context, identifier string) (*domain.Glasses, error)
	Save(ctx context.Context, in catalogsvc.GlassesInput) (*domain.Glasses, error)
	Update(ctx context.Context, id string, patch domain.GlassesPatch) (*domain.Glasses, error)
	DeleteByID(ctx context.Context, id string) error
	SearchGlassesByParameters(ctx context.Context, p catalogsvc.SearchParams) ([]domain.Glasses, error)
}

type categoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, c domain.Category) (*domain.Category, error)
}

type cartService interface {
	RegisterNewCart(ctx context.Context, userID string) (*domain.ShoppingCart, error)
	Get(ctx context.Context, userID string) (*domain.ShoppingCart, error)
	AddItem(ctx context.Context, userID string, in cartsvc.AddItemInput) (*domain.ShoppingCart, error)
	ChangeQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.ShoppingCart, error)
	RemoveItem(ctx context.Context, userID, itemID string) (*domain.ShoppingCart, error)
}

type orderService interface {
	AddOrder(ctx context.Context, requesterID string, in ordersvc.CreateOrderInput) (*domain.Order, error)
	PlaceOrder(ctx context.Context, in ordersvc.GuestOrderInput) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error)
	Update(ctx context.Context, id string, in ordersvc.UpdateOrderInput) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	GetByUserID(ctx context.Context, userID string) ([]domain.Order, error)
	FindAllOrders(ctx context.Context, p ordersvc.Page) ([]domain.Order, error)
	FindAllByUserEmail(ctx context.Context, email string) ([]domain.Order, error)
	GetByOrderIDAndOrderItemID(ctx context.Context, orderID, itemID string) (*domain.OrderItem, error)
}

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Auth          authService
	Passwords     passwordService
	Catalog       catalogService
	Categories    categoryService
	Carts         cartService
	Orders        orderService
	Events        http.Handler
	DB            Pinger
	Currency      currency.Unit
	AllowedOrigin string
}

func (d Deps) validate() error {
	if d.Auth == nil || d.Passwords == nil || d.Catalog == nil || d.Categories == nil || d.Carts == nil || d.Orders == nil {
		return errors.New("httpserver: missing service dependency")
	}
	return nil
}

type handlers struct {
	deps   Deps
	logger *log.Logger
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if deps.Currency == (currency.Unit{}) {
		deps.Currency = currency.EUR
	}
	h := &handlers{deps: deps, logger: logger}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestID(), gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	if deps.AllowedOrigin != "" {
		router.Use(corsMiddleware(deps.AllowedOrigin))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.DB))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if deps.Events != nil {
		router.GET("/ws/orders", gin.WrapH(deps.Events))
	}

	api := router.Group("/", identityMiddleware(deps.Auth))

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.register)
	authGroup.POST("/login", h.login)
	authGroup.PATCH("/password", requireIdentity, h.updatePassword)
	authGroup.POST("/password-reset", h.initiatePasswordReset)
	authGroup.POST("/password-reset/confirm", h.confirmPasswordReset)

	glasses := api.Group("/glasses")
	glasses.GET("", h.listGlasses)
	glasses.GET("/search", h.searchGlasses)
	glasses.GET("/export", h.exportGlasses)
	glasses.GET("/identifier/:identifier", h.getGlassesByIdentifier)
	glasses.GET("/:id", validID("id"), h.getGlasses)
	glasses.POST("", h.createGlasses)
	glasses.PUT("/:id", validID("id"), h.updateGlasses)
	glasses.DELETE("/:id", validID("id"), h.deleteGlasses)

	categories := api.Group("/categories")
	categories.GET("", h.listCategories)
	categories.POST("", h.createCategory)

	cart := api.Group("/cart", requireIdentity)
	cart.GET("", h.getCart)
	cart.POST("/items", h.addCartItem)
	cart.PUT("/items/:id", validID("id"), h.changeCartItem)
	cart.DELETE("/items/:id", validID("id"), h.removeCartItem)

	orders := api.Group("/orders")
	orders.POST("", requireIdentity, h.createOrder)
	orders.POST("/guest", h.placeGuestOrder)
	orders.GET("", h.listOrders)
	orders.GET("/me", requireIdentity, h.myOrders)
	orders.GET("/user/:userId", validID("userId"), h.ordersByUser)
	orders.GET("/email/:email", h.ordersByEmail)
	orders.GET("/:id", validID("id"), h.getOrder)
	orders.GET("/:id/items/:itemId", validID("id", "itemId"), h.getOrderItem)
	orders.PATCH("/:id/status", validID("id"), h.updateOrderStatus)
	orders.PUT("/:id", validID("id"), h.updateOrder)

	return router, nil
}
