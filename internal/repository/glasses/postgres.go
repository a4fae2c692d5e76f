package glasses

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

const selectGlasses = `
SELECT g.id::text, g.name, g.price::text, g.identifier, g.color, g.model, g.manufacturer, g.is_deleted, g.created_at
FROM glasses g
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

func (r *postgresRepo) List(ctx context.Context) ([]domain.Glasses, error) {
	result, err := r.query(ctx, selectGlasses+"WHERE NOT g.is_deleted\nORDER BY g.name ASC")
	if err != nil {
		r.logger.Printf("glasses repo: list error=%v", err)
		return nil, err
	}
	r.logger.Printf("glasses repo: list count=%d", len(result))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Glasses, error) {
	return r.getOne(ctx, "g.id = $1", id)
}

func (r *postgresRepo) GetByIdentifier(ctx context.Context, identifier string) (*domain.Glasses, error) {
	return r.getOne(ctx, "g.identifier = $1", identifier)
}

func (r *postgresRepo) ListVariations(ctx context.Context, model, manufacturer, excludeID string) ([]domain.Glasses, error) {
	const where = `WHERE NOT g.is_deleted AND g.model = $1 AND g.manufacturer = $2 AND g.id <> $3
ORDER BY g.name ASC`
	return r.query(ctx, selectGlasses+where, model, manufacturer, excludeID)
}

func (r *postgresRepo) Search(ctx context.Context, filters []Filter) ([]domain.Glasses, error) {
	where, args := Where(append([]Filter{notDeleted{}}, filters...))
	result, err := r.query(ctx, selectGlasses+where+"\nORDER BY g.name ASC", args...)
	if err != nil {
		r.logger.Printf("glasses repo: search clauses=%d error=%v", len(filters), err)
		return nil, err
	}
	r.logger.Printf("glasses repo: search clauses=%d count=%d", len(filters), len(result))
	return result, nil
}

func (r *postgresRepo) Create(ctx context.Context, g domain.Glasses) (*domain.Glasses, error) {
	const q = `
INSERT INTO glasses (name, price, identifier, color, model, manufacturer)
VALUES ($1, $2::numeric, $3, $4, $5, $6)
RETURNING id::text
`
	id, err := db.InTx(ctx, r.db, func(tx pgx.Tx) (string, error) {
		var id string
		if err := tx.QueryRow(ctx, q, g.Name, g.Price.String(), g.Identifier, g.Color, g.Model, g.Manufacturer).Scan(&id); err != nil {
			return "", err
		}
		return id, setCategories(ctx, tx, id, g.CategoryIDs())
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("glasses repo: create identifier=%s error=%v", g.Identifier, err)
		return nil, err
	}
	r.logger.Printf("glasses repo: created identifier=%s id=%s", g.Identifier, id)
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) Update(ctx context.Context, g domain.Glasses) (*domain.Glasses, error) {
	const q = `
UPDATE glasses
SET name = $2, price = $3::numeric, identifier = $4, color = $5, model = $6, manufacturer = $7
WHERE id = $1
`
	_, err := db.InTx(ctx, r.db, func(tx pgx.Tx) (struct{}, error) {
		cmd, err := tx.Exec(ctx, q, g.ID, g.Name, g.Price.String(), g.Identifier, g.Color, g.Model, g.Manufacturer)
		if err != nil {
			return struct{}{}, err
		}
		if cmd.RowsAffected() == 0 {
			return struct{}{}, domain.ErrNotFound
		}
		return struct{}{}, setCategories(ctx, tx, g.ID, g.CategoryIDs())
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.Printf("glasses repo: update id=%s error=%v", g.ID, err)
		}
		return nil, err
	}
	r.logger.Printf("glasses repo: updated id=%s", g.ID)
	return r.GetByID(ctx, g.ID)
}

func (r *postgresRepo) UpsertByIdentifier(ctx context.Context, g domain.Glasses) (*domain.Glasses, error) {
	const q = `
INSERT INTO glasses (name, price, identifier, color, model, manufacturer)
VALUES ($1, $2::numeric, $3, $4, $5, $6)
ON CONFLICT (identifier) DO UPDATE SET
    name = EXCLUDED.name,
    price = EXCLUDED.price,
    color = EXCLUDED.color,
    model = EXCLUDED.model,
    manufacturer = EXCLUDED.manufacturer,
    is_deleted = false
RETURNING id::text
`
	id, err := db.InTx(ctx, r.db, func(tx pgx.Tx) (string, error) {
		var id string
		if err := tx.QueryRow(ctx, q, g.Name, g.Price.String(), g.Identifier, g.Color, g.Model, g.Manufacturer).Scan(&id); err != nil {
			return "", err
		}
		return id, setCategories(ctx, tx, id, g.CategoryIDs())
	})
	if err != nil {
		r.logger.Printf("glasses repo: upsert identifier=%s error=%v", g.Identifier, err)
		return nil, err
	}
	r.logger.Printf("glasses repo: upserted identifier=%s id=%s", g.Identifier, id)
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) SoftDelete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE glasses SET is_deleted = true WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("glasses repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("glasses repo: soft deleted id=%s", id)
	return nil
}

func (r *postgresRepo) getOne(ctx context.Context, cond string, arg any) (*domain.Glasses, error) {
	g, err := scanGlasses(r.db.QueryRow(ctx, selectGlasses+"WHERE "+cond, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || db.IsInvalidText(err) {
			r.logger.Printf("glasses repo: get %s not found", cond)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("glasses repo: get %s error=%v", cond, err)
		return nil, err
	}
	list := []domain.Glasses{g}
	if err := r.attachCategories(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *postgresRepo) query(ctx context.Context, q string, args ...any) ([]domain.Glasses, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Glasses
	for rows.Next() {
		g, err := scanGlasses(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachCategories(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) attachCategories(ctx context.Context, list []domain.Glasses) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, 0, len(list))
	index := make(map[string]int, len(list))
	for i := range list {
		list[i].Categories = []domain.Category{}
		ids = append(ids, list[i].ID)
		index[list[i].ID] = i
	}

	const q = `
SELECT gc.glasses_id::text, c.id::text, c.name, c.description, c.created_at
FROM glasses_categories gc
JOIN categories c ON c.id = gc.category_id
WHERE gc.glasses_id::text = ANY($1)
ORDER BY c.name ASC
`
	rows, err := r.db.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var glassesID string
		var c domain.Category
		if err := rows.Scan(&glassesID, &c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return err
		}
		if i, ok := index[glassesID]; ok {
			list[i].Categories = append(list[i].Categories, c)
		}
	}
	return rows.Err()
}

func setCategories(ctx context.Context, tx pgx.Tx, glassesID string, categoryIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM glasses_categories WHERE glasses_id = $1`, glassesID); err != nil {
		return err
	}
	unique := make(map[string]struct{}, len(categoryIDs))
	ids := make([]string, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		if _, seen := unique[id]; seen {
			continue
		}
		unique[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}
	cmd, err := tx.Exec(ctx, `
INSERT INTO glasses_categories (glasses_id, category_id)
SELECT $1, c.id FROM categories c WHERE c.id::text = ANY($2)
`, glassesID, ids)
	if err != nil {
		return err
	}
	if int(cmd.RowsAffected()) != len(ids) {
		return domain.Invalid("unknown category id in %v", ids)
	}
	return nil
}

func scanGlasses(row pgx.Row) (domain.Glasses, error) {
	var g domain.Glasses
	var price string
	if err := row.Scan(&g.ID, &g.Name, &price, &g.Identifier, &g.Color, &g.Model, &g.Manufacturer, &g.Deleted, &g.CreatedAt); err != nil {
		return g, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return g, fmt.Errorf("parse price %q: %w", price, err)
	}
	g.Price = p
	return g, nil
}
