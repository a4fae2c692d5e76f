// Package order implements checkout, guest orders and order status management.
package order

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"opticshop/internal/domain"
	"opticshop/internal/email"
	"opticshop/internal/events"
	orderrepo "opticshop/internal/repository/order"
	"opticshop/internal/repository/uow"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

type userRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Publisher receives order events after they are committed.
type Publisher interface {
	Publish(e events.Event)
}

type Service struct {
	uow    uow.UnitOfWork
	orders orderrepo.Repository
	users  userRepo
	mail   email.Sender
	events Publisher
	logger *log.Logger
	now    func() time.Time
}

func New(work uow.UnitOfWork, orders orderrepo.Repository, users userRepo, mail email.Sender, pub Publisher, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		uow:    work,
		orders: orders,
		users:  users,
		mail:   mail,
		events: pub,
		logger: logger,
		now:    time.Now,
	}
}

type CreateOrderInput struct {
	ShippingAddress string `json:"shippingAddress"`
}

type GuestOrderInput struct {
	ShippingAddress string `json:"shippingAddress"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	PhoneNumber     string `json:"phoneNumber"`
}

type UpdateOrderInput struct {
	Status domain.Status `json:"status"`
}

// Page bounds a listing. A zero Limit uses the default page size.
type Page struct {
	Limit  int
	Offset int
}

// AddOrder checks out the requester's cart. The order is created and the cart
// emptied in one transaction while the cart row is locked, so concurrent
// checkouts of the same cart cannot both take its items.
func (s *Service) AddOrder(ctx context.Context, requesterID string, in CreateOrderInput) (*domain.Order, error) {
	address := strings.TrimSpace(in.ShippingAddress)
	if address == "" {
		return nil, domain.Invalid("shippingAddress required")
	}
	u, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	var created *domain.Order
	err = s.uow.Do(ctx, func(r uow.Repos) error {
		cart, err := r.Carts.LockByUserID(ctx, u.ID)
		if errors.Is(err, domain.ErrNotFound) {
			cart, err = r.Carts.Create(ctx, u.ID)
		}
		if err != nil {
			return err
		}

		items := make([]domain.OrderItem, 0, len(cart.Items))
		for _, line := range cart.Items {
			items = append(items, domain.OrderItem{
				GlassesID: line.GlassesID,
				Quantity:  line.Quantity,
				Price:     line.LineTotal(),
				Status:    domain.StatusPending,
			})
		}

		created, err = r.Orders.Create(ctx, domain.Order{
			ShippingAddress: address,
			Items:           items,
			Total:           domain.SumItems(items),
			Status:          domain.StatusPending,
			OrderDate:       s.now().UTC(),
			Owner:           domain.RegisteredOwner{UserID: u.ID, Email: u.Email},
		})
		if err != nil {
			return err
		}
		return r.Carts.Clear(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Printf("order service: checkout order_id=%s user_id=%s items=%d total=%s", created.ID, u.ID, len(created.Items), created.Total)
	s.publish(events.OrderCreated, created)
	return created, nil
}

// PlaceOrder records an order for a visitor without an account. Guest orders
// carry no items and a zero total.
func (s *Service) PlaceOrder(ctx context.Context, in GuestOrderInput) (*domain.Order, error) {
	address := strings.TrimSpace(in.ShippingAddress)
	if address == "" {
		return nil, domain.Invalid("shippingAddress required")
	}
	contact, err := domain.NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	var created *domain.Order
	err = s.uow.Do(ctx, func(r uow.Repos) error {
		guest, err := r.Orders.CreateTemporaryUser(ctx, domain.TemporaryUser{
			Email:       contact,
			FirstName:   strings.TrimSpace(in.FirstName),
			LastName:    strings.TrimSpace(in.LastName),
			PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		})
		if err != nil {
			return err
		}
		created, err = r.Orders.Create(ctx, domain.Order{
			ShippingAddress: address,
			Items:           []domain.OrderItem{},
			Total:           domain.SumItems(nil),
			Status:          domain.StatusPending,
			OrderDate:       s.now().UTC(),
			Owner:           domain.GuestOwner{User: *guest},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(events.OrderCreated, created)
	return created, nil
}

// UpdateOrderStatus changes the status and notifies the order owner by email.
// Every call notifies, even when the status does not change. A failed
// notification is logged and does not undo the update.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	o, err := s.setStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if err := s.mail.SendStatusChangeEmail(ctx, o.Owner.ContactEmail(), o.Status); err != nil {
		s.logger.Printf("order service: notify order_id=%s status=%s error=%v", o.ID, o.Status, err)
	}
	s.publish(events.OrderStatusChanged, o)
	return o, nil
}

// Update overwrites the order status without notifying anyone.
func (s *Service) Update(ctx context.Context, id string, in UpdateOrderInput) (*domain.Order, error) {
	return s.setStatus(ctx, id, in.Status)
}

func (s *Service) setStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	st, err := domain.ParseStatus(string(status))
	if err != nil {
		return nil, err
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, o.ID, st); err != nil {
		return nil, err
	}
	o.Status = st
	return o, nil
}

func (s *Service) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// GetByUserID lists the orders of an existing user.
func (s *Service) GetByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.orders.ListByUserID(ctx, userID)
}

// FindAllOrders lists every order, newest first.
func (s *Service) FindAllOrders(ctx context.Context, p Page) ([]domain.Order, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	limit = min(limit, maxPageSize)
	return s.orders.ListAll(ctx, limit, max(p.Offset, 0))
}

func (s *Service) FindAllByUserEmail(ctx context.Context, address string) ([]domain.Order, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(address)))
	if err != nil {
		return nil, err
	}
	return s.orders.ListByUserID(ctx, u.ID)
}

// GetByOrderIDAndOrderItemID returns the item only when it belongs to the order.
func (s *Service) GetByOrderIDAndOrderItemID(ctx context.Context, orderID, itemID string) (*domain.OrderItem, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	it, ok := o.Item(itemID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &it, nil
}

func (s *Service) publish(t events.Type, o *domain.Order) {
	if s.events == nil {
		return
	}
	s.events.Publish(events.Event{Type: t, OrderID: o.ID, Status: string(o.Status), At: s.now().UTC()})
}
