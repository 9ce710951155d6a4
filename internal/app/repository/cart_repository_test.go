package repository

import (
	"context"
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCartTest(t *testing.T) CartRepository {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return NewCartRepository(testDB)
}

func TestCartRepository_GetMissing(t *testing.T) {
	repo := setupCartTest(t)

	cart, err := repo.Get(context.Background(), "user-1")
	assert.Nil(t, cart)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartRepository_SaveOverwrites(t *testing.T) {
	repo := setupCartTest(t)
	ctx := context.Background()

	first := &model.Cart{UserID: "user-1", Items: []model.CartItem{
		{ID: "p1", Title: "Tee", Price: 100, Quantity: 2, Stock: 5},
		{ID: "p2", Title: "Jean", Price: 300, Quantity: 1, Stock: 1},
	}}
	require.NoError(t, repo.Save(ctx, first))

	loaded, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, "p1", loaded.Items[0].ID)
	assert.Equal(t, "p2", loaded.Items[1].ID)

	second := &model.Cart{UserID: "user-1", Items: []model.CartItem{
		{ID: "p2", Title: "Jean", Price: 300, Quantity: 4, Stock: 1},
	}}
	require.NoError(t, repo.Save(ctx, second))

	loaded, err = repo.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 4, loaded.Items[0].Quantity)
}

func TestCartRepository_SaveEmpty(t *testing.T) {
	repo := setupCartTest(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &model.Cart{UserID: "user-1", Items: []model.CartItem{{ID: "p1", Quantity: 1}}}))
	require.NoError(t, repo.Save(ctx, &model.Cart{UserID: "user-1"}))

	loaded, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, loaded.Items)
}
