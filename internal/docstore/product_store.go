package docstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type productStore struct {
	coll *mongo.Collection
}

func NewProductRepository(db *mongo.Database) repository.ProductRepository {
	return &productStore{coll: db.Collection(productsCollection)}
}

func (s *productStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]model.Product, error) {
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	products := []model.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *productStore) FindAll(ctx context.Context) ([]model.Product, error) {
	products, err := s.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		logger.Error("Failed to find products in mongodb", err)
		return nil, err
	}
	return products, nil
}

func (s *productStore) FindByCategory(ctx context.Context, category string) ([]model.Product, error) {
	products, err := s.find(ctx, bson.M{"category": category}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		logger.Error("Failed to find products by category in mongodb", err, map[string]interface{}{
			"category": category,
		})
		return nil, err
	}
	return products, nil
}

func (s *productStore) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, translateNotFound(err)
	}
	return &product, nil
}

func (s *productStore) FindLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	return s.find(ctx, bson.M{"stock": bson.M{"$lt": threshold}}, options.Find().SetSort(bson.D{{Key: "stock", Value: 1}}))
}

func (s *productStore) Create(ctx context.Context, product *model.Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, product); err != nil {
		logger.Error("Failed to create product in mongodb", err, map[string]interface{}{
			"slug": product.Slug,
		})
		return err
	}
	return nil
}

func (s *productStore) Update(ctx context.Context, product *model.Product) error {
	product.UpdatedAt = time.Now()

	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		logger.Error("Failed to update product in mongodb", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *productStore) Delete(ctx context.Context, id string) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Error("Failed to delete product in mongodb", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
