package repository

import (
	"context"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository stores one cart document per user. Save overwrites the
// whole item list.
type CartRepository interface {
	Get(ctx context.Context, userID string) (*model.Cart, error)
	Save(ctx context.Context, cart *model.Cart) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Get(ctx context.Context, userID string) (*model.Cart, error) {
	logger.Debug("Loading cart document from database", map[string]interface{}{
		"user_id": userID,
	})

	var cart model.Cart
	if err := r.db.WithContext(ctx).First(&cart, "user_id = ?", userID).Error; err != nil {
		err = translateNotFound(err)
		if err != ErrNotFound {
			logger.Error("Failed to load cart document from database", err, map[string]interface{}{
				"user_id": userID,
			})
		}
		return nil, err
	}

	logger.Debug("Cart document loaded from database", map[string]interface{}{
		"user_id": userID,
		"items":   len(cart.Items),
	})
	return &cart, nil
}

func (r *cartRepository) Save(ctx context.Context, cart *model.Cart) error {
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}

	logger.Debug("Saving cart document to database", map[string]interface{}{
		"user_id": cart.UserID,
		"items":   len(cart.Items),
	})

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
		}).
		Create(cart).Error
	if err != nil {
		logger.Error("Failed to save cart document to database", err, map[string]interface{}{
			"user_id": cart.UserID,
		})
		return err
	}
	return nil
}
