package docstore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

// setupMongoTest connects to TEST_MONGO_URI and uses a throwaway database.
func setupMongoTest(t *testing.T) *mongo.Database {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	client, db, err := Connect(ctx, &config.MongoConfig{URI: uri, Database: "storefront_test_" + uuid.NewString()[:8]})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func TestCartStore_UpsertAndOverwrite(t *testing.T) {
	db := setupMongoTest(t)
	repo := NewCartRepository(db)
	ctx := context.Background()

	_, err := repo.Get(ctx, "user-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Save(ctx, &model.Cart{UserID: "user-1", Items: []model.CartItem{{ID: "p1", Quantity: 2}}}))
	require.NoError(t, repo.Save(ctx, &model.Cart{UserID: "user-1"}))

	cart, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestOrderStore_NewestFirst(t *testing.T) {
	db := setupMongoTest(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	first := &model.Order{UserID: "user-1", Status: model.OrderStatusPending}
	second := &model.Order{UserID: "user-1", Status: model.OrderStatusPending}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	orders, err := repo.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)

	require.NoError(t, repo.UpdateStatus(ctx, first.ID, model.OrderStatusDelivered))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, "missing", model.OrderStatusDelivered), repository.ErrNotFound)
}

func TestProductStore_CRUD(t *testing.T) {
	db := setupMongoTest(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	product := &model.Product{Title: "Tee", Slug: "tee", Price: 100, Stock: 2, Category: "remeras"}
	require.NoError(t, repo.Create(ctx, product))
	assert.Error(t, repo.Create(ctx, &model.Product{Title: "Tee", Slug: "tee"}))

	byCategory, err := repo.FindByCategory(ctx, "remeras")
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)

	require.NoError(t, repo.Delete(ctx, product.ID))
	_, err = repo.FindByID(ctx, product.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
