package user

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"opticshop/internal/db"
	"opticshop/internal/domain"

	"github.com/jackc/pgx/v5"
)

type postgresRepo struct {
	db     db.DBTX
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(conn db.DBTX, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{db: conn, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	role := u.Role
	if role == "" {
		role = domain.RoleUser
	}
	const q = `
INSERT INTO users (email, password_hash, first_name, last_name, phone_number, role)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text, email, password_hash, first_name, last_name, phone_number, role, created_at
`
	out, err := r.scanUser(r.db.QueryRow(ctx, q,
		strings.ToLower(u.Email),
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.PhoneNumber,
		string(role),
	))
	if err != nil {
		if db.IsUniqueViolation(err) {
			r.logger.Printf("user repo: create email=%s already exists", u.Email)
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	r.logger.Printf("user repo: created id=%s", out.ID)
	return out, nil
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `
SELECT id::text, email, password_hash, first_name, last_name, phone_number, role, created_at
FROM users
WHERE lower(email) = lower($1)
LIMIT 1
`
	return r.scanUser(r.db.QueryRow(ctx, q, strings.TrimSpace(email)))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `
SELECT id::text, email, password_hash, first_name, last_name, phone_number, role, created_at
FROM users
WHERE id = $1
`
	return r.scanUser(r.db.QueryRow(ctx, q, id))
}

func (r *postgresRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, hash, id)
	if err != nil {
		r.logger.Printf("user repo: update password id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var role string
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.PhoneNumber,
		&role,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if !db.IsUniqueViolation(err) {
			r.logger.Printf("user repo: scan error=%v", err)
		}
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}
