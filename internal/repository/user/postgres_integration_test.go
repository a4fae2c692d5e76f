//go:build integration

package user_test

import (
	"strings"
	"testing"

	"opticshop/internal/domain"
	"opticshop/internal/repository/pgtest"
	"opticshop/internal/repository/user"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgres_CreateGetAndDuplicate(t *testing.T) {
	ctx := t.Context()
	pool, cleanup, err := pgtest.Start(ctx)
	require.NoError(t, err)
	defer cleanup()

	repo := user.NewPostgres(pool, nil)
	email := strings.ToUpper(gofakeit.Email())

	created, err := repo.Create(ctx, domain.User{Email: email, PasswordHash: "hash", FirstName: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, strings.ToLower(email), created.Email)
	assert.Equal(t, domain.RoleUser, created.Role)

	byEmail, err := repo.GetByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.Create(ctx, domain.User{Email: email, PasswordHash: "hash"})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	require.NoError(t, repo.UpdatePasswordHash(ctx, created.ID, "new-hash"))
	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", byID.PasswordHash)

	_, err = repo.GetByID(ctx, gofakeit.UUID())
	require.ErrorIs(t, err, domain.ErrNotFound)
}
