package docstore

import (
	"context"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// cartStore keeps one document per user in "carts" keyed by the user ID.
type cartStore struct {
	coll *mongo.Collection
}

func NewCartRepository(db *mongo.Database) repository.CartRepository {
	return &cartStore{coll: db.Collection(cartsCollection)}
}

func (s *cartStore) Get(ctx context.Context, userID string) (*model.Cart, error) {
	var cart model.Cart
	if err := s.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&cart); err != nil {
		err = translateNotFound(err)
		if err != repository.ErrNotFound {
			logger.Error("Failed to load cart document from mongodb", err, map[string]interface{}{
				"user_id": userID,
			})
		}
		return nil, err
	}
	return &cart, nil
}

func (s *cartStore) Save(ctx context.Context, cart *model.Cart) error {
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	cart.UpdatedAt = time.Now()

	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": cart.UserID}, cart, options.Replace().SetUpsert(true))
	if err != nil {
		logger.Error("Failed to save cart document to mongodb", err, map[string]interface{}{
			"user_id": cart.UserID,
		})
		return err
	}
	return nil
}
