package order

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"opticshop/internal/domain"
	"opticshop/internal/events"
	"opticshop/internal/repository/uow"

	"github.com/shopspring/decimal"
)

// store is an in-memory stand-in for the database. memoryUOW snapshots it
// before fn runs and restores the snapshot when fn fails.
type store struct {
	mu      sync.Mutex
	seq     int
	users   map[string]domain.User
	carts   map[string]domain.ShoppingCart
	glasses map[string]domain.Glasses
	orders  map[string]domain.Order
	guests  map[string]domain.TemporaryUser

	failClear bool
}

func newStore() *store {
	return &store{
		users:   map[string]domain.User{},
		carts:   map[string]domain.ShoppingCart{},
		glasses: map[string]domain.Glasses{},
		orders:  map[string]domain.Order{},
		guests:  map[string]domain.TemporaryUser{},
	}
}

func (s *store) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *store) addUser(email string) domain.User {
	u := domain.User{ID: s.nextID("user"), Email: email, Role: domain.RoleUser}
	s.users[u.ID] = u
	return u
}

func (s *store) addGlasses(name, price string) domain.Glasses {
	g := domain.Glasses{ID: s.nextID("glasses"), Name: name, Price: decimal.RequireFromString(price)}
	s.glasses[g.ID] = g
	return g
}

func (s *store) putInCart(userID string, g domain.Glasses, qty int) {
	c, ok := s.carts[userID]
	if !ok {
		c = domain.ShoppingCart{ID: s.nextID("cart"), UserID: userID}
	}
	c.Items = append(c.Items, domain.CartItem{ID: s.nextID("line"), CartID: c.ID, GlassesID: g.ID, GlassesName: g.Name, Quantity: qty})
	s.carts[userID] = c
}

type snapshot struct {
	seq    int
	carts  map[string]domain.ShoppingCart
	orders map[string]domain.Order
	guests map[string]domain.TemporaryUser
}

func (s *store) snapshot() snapshot {
	return snapshot{seq: s.seq, carts: maps.Clone(s.carts), orders: maps.Clone(s.orders), guests: maps.Clone(s.guests)}
}

func (s *store) restore(snap snapshot) {
	s.seq, s.carts, s.orders, s.guests = snap.seq, snap.carts, snap.orders, snap.guests
}

// memoryUOW serialises units of work, like the row lock on the cart does.
type memoryUOW struct {
	s *store
}

func (u memoryUOW) Do(_ context.Context, fn func(r uow.Repos) error) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	snap := u.s.snapshot()
	if err := fn(uow.Repos{Carts: memoryCarts{u.s}, Orders: memoryOrders{u.s}}); err != nil {
		u.s.restore(snap)
		return err
	}
	return nil
}

type memoryCarts struct {
	s *store
}

func (m memoryCarts) Create(_ context.Context, userID string) (*domain.ShoppingCart, error) {
	if c, ok := m.s.carts[userID]; ok {
		return &c, nil
	}
	c := domain.ShoppingCart{ID: m.s.nextID("cart"), UserID: userID}
	m.s.carts[userID] = c
	return &c, nil
}

// GetByUserID prices cart lines with the current glasses price.
func (m memoryCarts) GetByUserID(_ context.Context, userID string) (*domain.ShoppingCart, error) {
	c, ok := m.s.carts[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.Items = slices.Clone(c.Items)
	for i, it := range c.Items {
		c.Items[i].UnitPrice = m.s.glasses[it.GlassesID].Price
	}
	return &c, nil
}

func (m memoryCarts) LockByUserID(ctx context.Context, userID string) (*domain.ShoppingCart, error) {
	return m.GetByUserID(ctx, userID)
}

func (m memoryCarts) AddItem(context.Context, string, string, int) error { return nil }

func (m memoryCarts) ChangeItemQuantity(context.Context, string, string, int) error { return nil }

func (m memoryCarts) RemoveItem(context.Context, string, string) error { return nil }

func (m memoryCarts) Clear(_ context.Context, cartID string) error {
	if m.s.failClear {
		return fmt.Errorf("clear cart %s: connection reset", cartID)
	}
	for userID, c := range m.s.carts {
		if c.ID == cartID {
			c.Items = nil
			m.s.carts[userID] = c
			return nil
		}
	}
	return domain.ErrNotFound
}

type memoryOrders struct {
	s *store
}

func (m memoryOrders) Create(_ context.Context, o domain.Order) (*domain.Order, error) {
	o.ID = m.s.nextID("order")
	items := make([]domain.OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		it.ID = m.s.nextID("item")
		it.OrderID = o.ID
		items = append(items, it)
	}
	o.Items = items
	m.s.orders[o.ID] = o
	return &o, nil
}

func (m memoryOrders) CreateTemporaryUser(_ context.Context, u domain.TemporaryUser) (*domain.TemporaryUser, error) {
	u.ID = m.s.nextID("guest")
	m.s.guests[u.ID] = u
	return &u, nil
}

func (m memoryOrders) GetByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := m.s.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (m memoryOrders) ListByUserID(_ context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range m.s.orders {
		if owner, ok := o.Owner.(domain.RegisteredOwner); ok && owner.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m memoryOrders) ListAll(_ context.Context, limit, offset int) ([]domain.Order, error) {
	all := slices.Collect(maps.Values(m.s.orders))
	slices.SortFunc(all, func(a, b domain.Order) int { return b.OrderDate.Compare(a.OrderDate) })
	if offset >= len(all) {
		return nil, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (m memoryOrders) UpdateStatus(_ context.Context, id string, status domain.Status) error {
	o, ok := m.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	m.s.orders[id] = o
	return nil
}

type memoryUsers struct {
	s *store
}

func (m memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := m.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (m memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

type sentMail struct {
	Address string
	Status  domain.Status
}

type recordingSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (r *recordingSender) SendStatusChangeEmail(_ context.Context, address string, status domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentMail{Address: address, Status: status})
	return r.err
}

func (r *recordingSender) SendVerificationCode(context.Context, string, string) error { return nil }

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
