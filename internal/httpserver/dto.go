package httpserver

import (
	"time"

	"opticshop/internal/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// moneyResponse renders amounts with two decimals.
type moneyResponse struct {
	Amount   string `json:"amount" example:"153.00"`
	Currency string `json:"currency" example:"EUR"`
}

func toMoney(amount decimal.Decimal, unit currency.Unit) moneyResponse {
	m := domain.Money{Amount: amount, Currency: unit}
	return moneyResponse{Amount: m.Amount.StringFixed(2), Currency: m.Currency.String()}
}

type ownerResponse struct {
	Type        string `json:"type" enums:"registered,guest"`
	UserID      string `json:"userId,omitempty"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

type orderItemResponse struct {
	ID        string        `json:"id"`
	OrderID   string        `json:"orderId"`
	GlassesID string        `json:"glassesId"`
	Quantity  int           `json:"quantity"`
	Price     moneyResponse `json:"price"`
	Status    string        `json:"status"`
}

type orderResponse struct {
	ID              string              `json:"id"`
	ShippingAddress string              `json:"shippingAddress"`
	Items           []orderItemResponse `json:"orderItems"`
	Total           moneyResponse       `json:"total"`
	Status          string              `json:"status"`
	OrderDate       time.Time           `json:"orderDate"`
	Owner           ownerResponse       `json:"owner"`
}

func toOwner(o domain.Owner) ownerResponse {
	switch owner := o.(type) {
	case domain.RegisteredOwner:
		return ownerResponse{Type: "registered", UserID: owner.UserID, Email: owner.Email}
	case domain.GuestOwner:
		return ownerResponse{
			Type:        "guest",
			Email:       owner.User.Email,
			FirstName:   owner.User.FirstName,
			LastName:    owner.User.LastName,
			PhoneNumber: owner.User.PhoneNumber,
		}
	default:
		return ownerResponse{}
	}
}

func toOrderItem(it domain.OrderItem, unit currency.Unit) orderItemResponse {
	return orderItemResponse{
		ID:        it.ID,
		OrderID:   it.OrderID,
		GlassesID: it.GlassesID,
		Quantity:  it.Quantity,
		Price:     toMoney(it.Price, unit),
		Status:    string(it.Status),
	}
}

func toOrder(o domain.Order, unit currency.Unit) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, toOrderItem(it, unit))
	}
	return orderResponse{
		ID:              o.ID,
		ShippingAddress: o.ShippingAddress,
		Items:           items,
		Total:           toMoney(o.Total, unit),
		Status:          string(o.Status),
		OrderDate:       o.OrderDate,
		Owner:           toOwner(o.Owner),
	}
}

func toOrders(list []domain.Order, unit currency.Unit) []orderResponse {
	out := make([]orderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, toOrder(o, unit))
	}
	return out
}

type cartItemResponse struct {
	ID          string        `json:"id"`
	GlassesID   string        `json:"glassesId"`
	GlassesName string        `json:"glassesName"`
	Quantity    int           `json:"quantity"`
	UnitPrice   moneyResponse `json:"unitPrice"`
	LineTotal   moneyResponse `json:"lineTotal"`
}

type cartResponse struct {
	ID     string             `json:"id"`
	UserID string             `json:"userId"`
	Items  []cartItemResponse `json:"cartItems"`
	Total  moneyResponse      `json:"total"`
}

func toCart(c domain.ShoppingCart, unit currency.Unit) cartResponse {
	items := make([]cartItemResponse, 0, len(c.Items))
	total := decimal.Zero
	for _, it := range c.Items {
		line := it.LineTotal()
		total = total.Add(line)
		items = append(items, cartItemResponse{
			ID:          it.ID,
			GlassesID:   it.GlassesID,
			GlassesName: it.GlassesName,
			Quantity:    it.Quantity,
			UnitPrice:   toMoney(it.UnitPrice, unit),
			LineTotal:   toMoney(line, unit),
		})
	}
	return cartResponse{ID: c.ID, UserID: c.UserID, Items: items, Total: toMoney(total, unit)}
}

type glassesResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"glassesName"`
	Price        moneyResponse     `json:"price"`
	Identifier   string            `json:"identifier"`
	Color        string            `json:"color,omitempty"`
	Model        string            `json:"model,omitempty"`
	Manufacturer string            `json:"manufacturer,omitempty"`
	Categories   []domain.Category `json:"categories"`
	Variations   []glassesResponse `json:"variations,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}

func toGlasses(g domain.Glasses, unit currency.Unit) glassesResponse {
	out := glassesResponse{
		ID:           g.ID,
		Name:         g.Name,
		Price:        toMoney(g.Price, unit),
		Identifier:   g.Identifier,
		Color:        g.Color,
		Model:        g.Model,
		Manufacturer: g.Manufacturer,
		Categories:   g.Categories,
		CreatedAt:    g.CreatedAt,
	}
	if out.Categories == nil {
		out.Categories = []domain.Category{}
	}
	for _, v := range g.Variations {
		out.Variations = append(out.Variations, toGlasses(v, unit))
	}
	return out
}

func toGlassesList(list []domain.Glasses, unit currency.Unit) []glassesResponse {
	out := make([]glassesResponse, 0, len(list))
	for _, g := range list {
		out = append(out, toGlasses(g, unit))
	}
	return out
}

type userResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName,omitempty"`
	LastName    string    `json:"lastName,omitempty"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toUser(u domain.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		Role:        string(u.Role),
		CreatedAt:   u.CreatedAt,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type passwordResetRequest struct {
	Email string `json:"email" binding:"required"`
}

type passwordResetConfirmRequest struct {
	Email       string `json:"email" binding:"required"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// glassesPatchRequest distinguishes absent fields (nil) from empty ones.
type glassesPatchRequest struct {
	Name         *string          `json:"glassesName"`
	Price        *decimal.Decimal `json:"price" swaggertype:"number"`
	Identifier   *string          `json:"identifier"`
	Color        *string          `json:"color"`
	Model        *string          `json:"model"`
	Manufacturer *string          `json:"manufacturer"`
	CategoryIDs  *[]string        `json:"categoryIds"`
}

func (r glassesPatchRequest) patch() domain.GlassesPatch {
	return domain.GlassesPatch(r)
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type changeQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required" enums:"PENDING,PROCESSING,SHIPPED,DELIVERED,CANCELLED"`
}
