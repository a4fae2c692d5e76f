//go:build integration

// Package pgtest starts a throwaway Postgres for repository integration tests.
package pgtest

import (
	"context"
	"fmt"

	"opticshop/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// Start runs a postgres container, applies migrations and returns a pool plus a cleanup func.
func Start(ctx context.Context) (*pgxpool.Pool, func(), error) {
	container, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.WithDatabase("optic_test"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return nil, nil, fmt.Errorf("pc.ConnectionString: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := migrate.Apply(ctx, pool); err != nil {
		pool.Close()
		_ = testcontainers.TerminateContainer(container)
		return nil, nil, fmt.Errorf("migrate.Apply: %w", err)
	}

	cleanup := func() {
		pool.Close()
		_ = testcontainers.TerminateContainer(container)
	}
	return pool, cleanup, nil
}

// Reset empties every table.
func Reset(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `TRUNCATE order_items, orders, temporary_users, cart_items, shopping_carts,
glasses_categories, glasses, categories, verification_codes, users RESTART IDENTITY CASCADE`)
	return err
}
