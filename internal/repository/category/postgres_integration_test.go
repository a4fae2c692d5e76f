//go:build integration

package category_test

import (
	"testing"

	"opticshop/internal/domain"
	"opticshop/internal/repository/category"
	"opticshop/internal/repository/pgtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgres_CreateListEnsure(t *testing.T) {
	ctx := t.Context()
	pool, cleanup, err := pgtest.Start(ctx)
	require.NoError(t, err)
	defer cleanup()

	repo := category.NewPostgres(pool, nil)

	sun, err := repo.Create(ctx, domain.Category{Name: "  sun ", Description: "sunglasses"})
	require.NoError(t, err)
	assert.Equal(t, "sun", sun.Name)

	_, err = repo.Create(ctx, domain.Category{Name: "sun"})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	again, err := repo.EnsureByName(ctx, "sun")
	require.NoError(t, err)
	assert.Equal(t, sun.ID, again.ID)
	assert.Equal(t, "sunglasses", again.Description)

	kids, err := repo.EnsureByName(ctx, "kids")
	require.NoError(t, err)
	assert.NotEqual(t, sun.ID, kids.ID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "kids", list[0].Name)
	assert.Equal(t, "sun", list[1].Name)
}
