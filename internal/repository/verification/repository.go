package verification

import (
	"context"

	"opticshop/internal/domain"
)

// Repository stores at most one pending verification code per user.
type Repository interface {
	Save(ctx context.Context, code domain.VerificationCode) error
	Get(ctx context.Context, userID string) (*domain.VerificationCode, error)
	Delete(ctx context.Context, userID string) error
}
