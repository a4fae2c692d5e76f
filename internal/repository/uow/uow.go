// Package uow groups repositories that must change together in one transaction.
package uow

import (
	"context"
	"io"
	"log"

	"opticshop/internal/db"
	cartrepo "opticshop/internal/repository/cart"
	orderrepo "opticshop/internal/repository/order"

	"github.com/jackc/pgx/v5"
)

// Repos are bound to the running transaction.
type Repos struct {
	Carts  cartrepo.Repository
	Orders orderrepo.Repository
}

// UnitOfWork runs fn atomically: everything fn writes commits together or not at all.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(r Repos) error) error
}

type postgresUOW struct {
	db     db.DBTX
	logger *log.Logger
}

func NewPostgres(conn db.DBTX, logger *log.Logger) UnitOfWork {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresUOW{db: conn, logger: logger}
}

func (u *postgresUOW) Do(ctx context.Context, fn func(r Repos) error) error {
	_, err := db.InTx(ctx, u.db, func(tx pgx.Tx) (struct{}, error) {
		return struct{}{}, fn(Repos{
			Carts:  cartrepo.NewPostgres(tx, u.logger),
			Orders: orderrepo.NewPostgres(tx, u.logger),
		})
	})
	if err != nil {
		u.logger.Printf("uow: rolled back error=%v", err)
	}
	return err
}
