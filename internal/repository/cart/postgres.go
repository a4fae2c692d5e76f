package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"opticshop/internal/db"
	"opticshop/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

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

func (r *postgresRepo) Create(ctx context.Context, userID string) (*domain.ShoppingCart, error) {
	const q = `
INSERT INTO shopping_carts (user_id)
VALUES ($1)
ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING id::text, user_id::text, created_at
`
	var cart domain.ShoppingCart
	if err := r.db.QueryRow(ctx, q, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt); err != nil {
		r.logger.Printf("cart repo: create user_id=%s error=%v", userID, err)
		return nil, err
	}
	r.logger.Printf("cart repo: registered cart user_id=%s id=%s", userID, cart.ID)
	return r.withItems(ctx, &cart)
}

func (r *postgresRepo) GetByUserID(ctx context.Context, userID string) (*domain.ShoppingCart, error) {
	const q = `
SELECT id::text, user_id::text, created_at
FROM shopping_carts
WHERE user_id = $1
`
	return r.fetchCart(ctx, q, userID)
}

func (r *postgresRepo) LockByUserID(ctx context.Context, userID string) (*domain.ShoppingCart, error) {
	const q = `
SELECT id::text, user_id::text, created_at
FROM shopping_carts
WHERE user_id = $1
FOR UPDATE
`
	return r.fetchCart(ctx, q, userID)
}

func (r *postgresRepo) AddItem(ctx context.Context, cartID, glassesID string, quantity int) error {
	const q = `
INSERT INTO cart_items (cart_id, glasses_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (cart_id, glasses_id) DO UPDATE
SET quantity = cart_items.quantity + EXCLUDED.quantity
`
	if _, err := r.db.Exec(ctx, q, cartID, glassesID, quantity); err != nil {
		r.logger.Printf("cart repo: add item cart_id=%s glasses_id=%s error=%v", cartID, glassesID, err)
		return err
	}
	return nil
}

func (r *postgresRepo) ChangeItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error {
	if quantity <= 0 {
		return r.RemoveItem(ctx, cartID, itemID)
	}
	cmd, err := r.db.Exec(ctx, `
UPDATE cart_items
SET quantity = $1
WHERE id = $2 AND cart_id = $3
`, quantity, itemID, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) RemoveItem(ctx context.Context, cartID, itemID string) error {
	cmd, err := r.db.Exec(ctx, `
DELETE FROM cart_items
WHERE id = $1 AND cart_id = $2
`, itemID, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Clear(ctx context.Context, cartID string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		r.logger.Printf("cart repo: clear cart_id=%s error=%v", cartID, err)
		return err
	}
	r.logger.Printf("cart repo: cleared cart_id=%s items=%d", cartID, cmd.RowsAffected())
	return nil
}

func (r *postgresRepo) fetchCart(ctx context.Context, cartQuery string, args ...any) (*domain.ShoppingCart, error) {
	var cart domain.ShoppingCart
	if err := r.db.QueryRow(ctx, cartQuery, args...).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return r.withItems(ctx, &cart)
}

func (r *postgresRepo) withItems(ctx context.Context, cart *domain.ShoppingCart) (*domain.ShoppingCart, error) {
	const itemsQuery = `
SELECT ci.id::text, ci.cart_id::text, ci.glasses_id::text, g.name, ci.quantity, g.price::text, ci.created_at
FROM cart_items ci
JOIN glasses g ON g.id = ci.glasses_id
WHERE ci.cart_id = $1
ORDER BY ci.created_at ASC, ci.id ASC
`
	rows, err := r.db.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cart.Items = []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		var price string
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.GlassesID,
			&item.GlassesName,
			&item.Quantity,
			&price,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		if item.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse price %q: %w", price, err)
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cart, nil
}
