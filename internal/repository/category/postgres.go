package category

import (
	"context"
	"io"
	"log"
	"strings"

	"opticshop/internal/db"
	"opticshop/internal/domain"
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

func (r *postgresRepo) List(ctx context.Context) ([]domain.Category, error) {
	const q = `
SELECT id::text, name, description, created_at
FROM categories
ORDER BY name ASC
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		r.logger.Printf("category repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (name, description)
VALUES ($1, $2)
RETURNING id::text, created_at
`
	out := domain.Category{Name: strings.TrimSpace(c.Name), Description: c.Description}
	if err := r.db.QueryRow(ctx, q, out.Name, out.Description).Scan(&out.ID, &out.CreatedAt); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("category repo: create name=%s error=%v", out.Name, err)
		return nil, err
	}
	r.logger.Printf("category repo: created name=%s id=%s", out.Name, out.ID)
	return &out, nil
}

func (r *postgresRepo) EnsureByName(ctx context.Context, name string) (*domain.Category, error) {
	const q = `
INSERT INTO categories (name)
VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text, name, description, created_at
`
	var out domain.Category
	if err := r.db.QueryRow(ctx, q, strings.TrimSpace(name)).Scan(&out.ID, &out.Name, &out.Description, &out.CreatedAt); err != nil {
		r.logger.Printf("category repo: ensure name=%s error=%v", name, err)
		return nil, err
	}
	return &out, nil
}
