package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a catalog entry. Field names in bson match the catalog
// collection layout used by the storefront.
type Product struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	Title       string    `gorm:"not null" bson:"title" json:"title"`
	Price       float64   `gorm:"not null" bson:"price" json:"price"`
	Stock       int       `gorm:"not null;default:0" bson:"stock" json:"stock"`
	Description string    `gorm:"type:text" bson:"description" json:"description"`
	Category    string    `gorm:"type:varchar(100);index" bson:"category" json:"category"`
	Brand       string    `gorm:"type:varchar(100);index" bson:"brand" json:"brand"`
	ImageURL    string    `bson:"imageURL" json:"image_url"`
	Slug        string    `gorm:"type:varchar(255);uniqueIndex" bson:"slug" json:"slug"`
	CreatedAt   time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// BeforeCreate assigns a generated identifier when none was provided.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// InventoryValue is price times units in stock.
func (p Product) InventoryValue() float64 {
	return p.Price * float64(p.Stock)
}
