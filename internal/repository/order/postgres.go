package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"opticshop/internal/db"
	"opticshop/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const selectOrders = `
SELECT o.id::text, o.shipping_address, o.total::text, o.status, o.order_date,
       o.user_id::text, u.email,
       o.temporary_user_id::text, t.email, t.first_name, t.last_name, t.phone_number, t.created_at
FROM orders o
LEFT JOIN users u ON u.id = o.user_id
LEFT JOIN temporary_users t ON t.id = o.temporary_user_id
`

type postgresRepo struct {
	db     db.DBTX
	logger *log.Logger
}

func NewPostgres(conn db.DBTX, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{db: conn, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	var userID, tempUserID *string
	switch owner := o.Owner.(type) {
	case domain.RegisteredOwner:
		userID = &owner.UserID
	case domain.GuestOwner:
		tempUserID = &owner.User.ID
	default:
		return nil, fmt.Errorf("order repo: unsupported owner %T", o.Owner)
	}

	const orderQuery = `
INSERT INTO orders (user_id, temporary_user_id, shipping_address, total, status, order_date)
VALUES ($1, $2, $3, $4::numeric, $5, $6)
RETURNING id::text
`
	const itemQuery = `
INSERT INTO order_items (order_id, glasses_id, quantity, price, status)
VALUES ($1, $2, $3, $4::numeric, $5)
RETURNING id::text
`
	created, err := db.InTx(ctx, r.db, func(tx pgx.Tx) (domain.Order, error) {
		out := o
		if err := tx.QueryRow(ctx, orderQuery, userID, tempUserID, o.ShippingAddress, o.Total.String(), string(o.Status), o.OrderDate).Scan(&out.ID); err != nil {
			return domain.Order{}, err
		}
		out.Items = make([]domain.OrderItem, 0, len(o.Items))
		for _, it := range o.Items {
			it.OrderID = out.ID
			if err := tx.QueryRow(ctx, itemQuery, out.ID, it.GlassesID, it.Quantity, it.Price.String(), string(it.Status)).Scan(&it.ID); err != nil {
				return domain.Order{}, err
			}
			out.Items = append(out.Items, it)
		}
		return out, nil
	})
	if err != nil {
		r.logger.Printf("order repo: create owner=%T items=%d error=%v", o.Owner, len(o.Items), err)
		return nil, err
	}
	r.logger.Printf("order repo: created id=%s owner=%T items=%d total=%s", created.ID, o.Owner, len(created.Items), created.Total)
	return &created, nil
}

func (r *postgresRepo) CreateTemporaryUser(ctx context.Context, u domain.TemporaryUser) (*domain.TemporaryUser, error) {
	const q = `
INSERT INTO temporary_users (email, first_name, last_name, phone_number)
VALUES ($1, $2, $3, $4)
RETURNING id::text, created_at
`
	out := u
	if err := r.db.QueryRow(ctx, q, u.Email, u.FirstName, u.LastName, u.PhoneNumber).Scan(&out.ID, &out.CreatedAt); err != nil {
		r.logger.Printf("order repo: create temporary user error=%v", err)
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, selectOrders+"WHERE o.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("order repo: get id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get id=%s error=%v", id, err)
		return nil, err
	}
	list := []domain.Order{o}
	if err := r.attachItems(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *postgresRepo) ListByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.query(ctx, selectOrders+"WHERE o.user_id = $1\nORDER BY o.order_date DESC, o.id ASC", userID)
}

func (r *postgresRepo) ListAll(ctx context.Context, limit, offset int) ([]domain.Order, error) {
	result, err := r.query(ctx, selectOrders+"ORDER BY o.order_date DESC, o.id ASC\nLIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		r.logger.Printf("order repo: list all limit=%d offset=%d error=%v", limit, offset, err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	cmd, err := r.db.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		r.logger.Printf("order repo: update status id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("order repo: status id=%s status=%s", id, status)
	return nil
}

func (r *postgresRepo) query(ctx context.Context, q string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, 0, len(orders))
	index := make(map[string]int, len(orders))
	for i := range orders {
		orders[i].Items = []domain.OrderItem{}
		ids = append(ids, orders[i].ID)
		index[orders[i].ID] = i
	}

	const q = `
SELECT id::text, order_id::text, glasses_id::text, quantity, price::text, status
FROM order_items
WHERE order_id::text = ANY($1)
ORDER BY id ASC
`
	rows, err := r.db.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var it domain.OrderItem
		var price, status string
		if err := rows.Scan(&it.ID, &it.OrderID, &it.GlassesID, &it.Quantity, &price, &status); err != nil {
			return err
		}
		if it.Price, err = decimal.NewFromString(price); err != nil {
			return fmt.Errorf("parse item price %q: %w", price, err)
		}
		it.Status = domain.Status(status)
		if i, ok := index[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o                   domain.Order
		total, status       string
		userID, userEmail   *string
		tempID, tempEmail   *string
		tempFirst, tempLast *string
		tempPhone           *string
		tempCreated         *time.Time
	)
	if err := row.Scan(
		&o.ID,
		&o.ShippingAddress,
		&total,
		&status,
		&o.OrderDate,
		&userID,
		&userEmail,
		&tempID,
		&tempEmail,
		&tempFirst,
		&tempLast,
		&tempPhone,
		&tempCreated,
	); err != nil {
		return o, err
	}
	t, err := decimal.NewFromString(total)
	if err != nil {
		return o, fmt.Errorf("parse total %q: %w", total, err)
	}
	o.Total = t
	o.Status = domain.Status(status)

	switch {
	case userID != nil:
		o.Owner = domain.RegisteredOwner{UserID: *userID, Email: deref(userEmail)}
	case tempID != nil:
		guest := domain.TemporaryUser{
			ID:          *tempID,
			Email:       deref(tempEmail),
			FirstName:   deref(tempFirst),
			LastName:    deref(tempLast),
			PhoneNumber: deref(tempPhone),
		}
		if tempCreated != nil {
			guest.CreatedAt = *tempCreated
		}
		o.Owner = domain.GuestOwner{User: guest}
	default:
		return o, fmt.Errorf("order %s has no owner", o.ID)
	}
	return o, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
