package verification

import (
	"context"
	"errors"
	"io"
	"log"

	"opticshop/internal/db"
	"opticshop/internal/domain"

	"github.com/jackc/pgx/v5"
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

func (r *postgresRepo) Save(ctx context.Context, code domain.VerificationCode) error {
	const q = `
INSERT INTO verification_codes (user_id, code, expires_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id) DO UPDATE
SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at, created_at = now()
`
	if _, err := r.db.Exec(ctx, q, code.UserID, code.Code, code.ExpiresAt); err != nil {
		r.logger.Printf("verification repo: save user_id=%s error=%v", code.UserID, err)
		return err
	}
	return nil
}

func (r *postgresRepo) Get(ctx context.Context, userID string) (*domain.VerificationCode, error) {
	const q = `
SELECT user_id::text, code, expires_at, created_at
FROM verification_codes
WHERE user_id = $1
`
	var out domain.VerificationCode
	if err := r.db.QueryRow(ctx, q, userID).Scan(&out.UserID, &out.Code, &out.ExpiresAt, &out.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, userID string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM verification_codes WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
