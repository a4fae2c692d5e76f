//go:build integration

package verification_test

import (
	"testing"
	"time"

	"opticshop/internal/domain"
	"opticshop/internal/repository/pgtest"
	"opticshop/internal/repository/user"
	"opticshop/internal/repository/verification"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgres_OneCodePerUser(t *testing.T) {
	ctx := t.Context()
	pool, cleanup, err := pgtest.Start(ctx)
	require.NoError(t, err)
	defer cleanup()

	u, err := user.NewPostgres(pool, nil).Create(ctx, domain.User{Email: gofakeit.Email(), PasswordHash: "hash"})
	require.NoError(t, err)

	repo := verification.NewPostgres(pool, nil)
	expires := time.Now().Add(15 * time.Minute).UTC().Truncate(time.Microsecond)

	require.NoError(t, repo.Save(ctx, domain.VerificationCode{UserID: u.ID, Code: "111111", ExpiresAt: expires}))
	require.NoError(t, repo.Save(ctx, domain.VerificationCode{UserID: u.ID, Code: "222222", ExpiresAt: expires}))

	got, err := repo.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "222222", got.Code)
	assert.True(t, got.ExpiresAt.Equal(expires))

	require.NoError(t, repo.Delete(ctx, u.ID))
	_, err = repo.Get(ctx, u.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, u.ID), domain.ErrNotFound)
}
