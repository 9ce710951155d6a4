package db

import (
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/ikkim/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

// Models lists every table the storefront owns.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Product{},
		&model.Cart{},
		&model.Order{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds a starter catalog when the products table is empty.
func Seed() error {
	return SeedProducts(DB)
}

// SampleProducts is the starter catalog used by Seed and by tests.
func SampleProducts() []model.Product {
	products := []model.Product{
		{Title: "Remera Básica Blanca", Price: 12000, Stock: 40, Category: "remeras", Brand: "Andes", Description: "Remera de algodón peinado."},
		{Title: "Remera Oversize Negra", Price: 15500, Stock: 8, Category: "remeras", Brand: "Pampa", Description: "Corte amplio, algodón pesado."},
		{Title: "Jean Recto Azul", Price: 32000, Stock: 15, Category: "pantalones", Brand: "Andes", Description: "Denim rígido de tiro medio."},
		{Title: "Buzo Canguro Gris", Price: 28000, Stock: 5, Category: "buzos", Brand: "Patagonia Sur", Description: "Frisa invisible con capucha."},
		{Title: "Zapatillas Urbanas", Price: 54000, Stock: 12, Category: "calzado", Brand: "Pampa", Description: "Suela de goma vulcanizada."},
	}
	for i := range products {
		products[i].Slug = util.Slugify(products[i].Title)
	}
	return products
}

// SeedProducts inserts SampleProducts into an empty catalog.
func SeedProducts(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Products already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	products := SampleProducts()
	if err := tx.Create(&products).Error; err != nil {
		logger.Error("Failed to seed products", err)
		return err
	}

	logger.Info("Products seeded successfully", map[string]interface{}{
		"total_products": len(products),
	})
	return nil
}
