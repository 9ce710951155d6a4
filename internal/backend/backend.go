// Package backend opens the document store selected by STORE_DRIVER and
// hands out its repositories.
package backend

import (
	"context"

	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/ikkim/storefront-backend/internal/docstore"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// Backend bundles the repositories of one store driver.
type Backend struct {
	Driver   string
	Users    repository.UserRepository
	Products repository.ProductRepository
	Carts    repository.CartRepository
	Orders   repository.OrderRepository

	close func() error
}

// Open connects to the configured store and migrates it.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Store.Driver {
	case "mongo":
		client, mdb, err := docstore.Connect(ctx, &cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Driver:   "mongo",
			Users:    docstore.NewUserRepository(mdb),
			Products: docstore.NewProductRepository(mdb),
			Carts:    docstore.NewCartRepository(mdb),
			Orders:   docstore.NewOrderRepository(mdb),
			close:    func() error { return client.Disconnect(context.Background()) },
		}, nil

	default:
		if err := db.Initialize(&cfg.Database); err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
		b := FromGorm(db.GetDB())
		b.close = db.Close
		return b, nil
	}
}

// FromGorm builds a postgres-style backend over an open gorm handle.
func FromGorm(gdb *gorm.DB) *Backend {
	return &Backend{
		Driver:   "postgres",
		Users:    repository.NewUserRepository(gdb),
		Products: repository.NewProductRepository(gdb),
		Carts:    repository.NewCartRepository(gdb),
		Orders:   repository.NewOrderRepository(gdb),
		close:    func() error { return nil },
	}
}

// SeedCatalog inserts the starter catalog when no product exists yet.
func (b *Backend) SeedCatalog(ctx context.Context) error {
	existing, err := b.Products.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info("Products already seeded, skipping...", map[string]interface{}{
			"existing_count": len(existing),
		})
		return nil
	}

	products := db.SampleProducts()
	for i := range products {
		if err := b.Products.Create(ctx, &products[i]); err != nil {
			logger.Error("Failed to seed products", err)
			return err
		}
	}

	logger.Info("Products seeded successfully", map[string]interface{}{
		"total_products": len(products),
	})
	return nil
}

func (b *Backend) Close() error {
	logger.Info("Closing store connection", map[string]interface{}{
		"driver": b.Driver,
	})
	return b.close()
}
