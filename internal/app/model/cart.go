package model

import "time"

// CartItem is a product reference plus the fields copied from the catalog
// when it was added. Stock is the ceiling captured at add time and is not
// refreshed afterwards.
type CartItem struct {
	ID       string  `bson:"id" json:"id"`
	Title    string  `bson:"title" json:"title"`
	Slug     string  `bson:"slug" json:"slug"`
	Price    float64 `bson:"price" json:"price"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Stock    int     `bson:"stock" json:"stock"`
	ImageURL string  `bson:"imageURL" json:"image_url"`
}

// LineTotal is price times quantity.
func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// NewCartItem snapshots the catalog fields of p.
func NewCartItem(p *Product, quantity int) CartItem {
	return CartItem{
		ID:       p.ID,
		Title:    p.Title,
		Slug:     p.Slug,
		Price:    p.Price,
		Quantity: quantity,
		Stock:    p.Stock,
		ImageURL: p.ImageURL,
	}
}

// Cart is the per-user cart document. The whole item list is written on
// every save.
type Cart struct {
	UserID    string     `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"user_id"`
	Items     []CartItem `gorm:"serializer:json;type:text" bson:"items" json:"items"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updated_at"`
}

func (Cart) TableName() string {
	return "carts"
}

// CopyItems returns a deep copy of items. CartItem holds only values, so a
// fresh backing array is enough.
func CopyItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	copy(out, items)
	return out
}

// Subtotal sums price times quantity over items.
func Subtotal(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}
