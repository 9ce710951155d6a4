package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string // 주문 상태 코드

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var orderStatusLabels = map[OrderStatus]string{
	OrderStatusPending:    "Pendiente",
	OrderStatusProcessing: "Procesando",
	OrderStatusShipped:    "Enviado",
	OrderStatusDelivered:  "Entregado",
	OrderStatusCancelled:  "Cancelado",
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusLabels[s]
	return ok
}

// Label is the storefront display text; unknown statuses render as-is.
func (s OrderStatus) Label() string {
	if label, ok := orderStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// CustomerInfo is the contact and shipping block captured at checkout.
type CustomerInfo struct {
	FirstName string `bson:"firstName" json:"first_name"`
	LastName  string `bson:"lastName" json:"last_name"`
	Email     string `bson:"email" json:"email"`
	Phone     string `bson:"phone" json:"phone"`
	Address   string `bson:"address" json:"address"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	ZipCode   string `bson:"zipCode" json:"zip_code"`
}

// Order is an immutable snapshot of a checkout. Items are copied from the
// cart, never referenced.
type Order struct {
	ID           string       `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	UserID       string       `gorm:"not null;index;type:varchar(36)" bson:"userId" json:"user_id"`
	Items        []CartItem   `gorm:"serializer:json;type:text" bson:"items" json:"items"`
	Subtotal     float64      `gorm:"not null" bson:"subtotal" json:"subtotal"`
	Shipping     float64      `gorm:"not null" bson:"shipping" json:"shipping"`
	Total        float64      `gorm:"not null" bson:"total" json:"total"`
	Status       OrderStatus  `gorm:"type:varchar(20);default:'pending'" bson:"status" json:"status"`
	CustomerInfo CustomerInfo `gorm:"embedded;embeddedPrefix:customer_" bson:"customerInfo" json:"customer_info"`
	CreatedAt    time.Time    `gorm:"index" bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time    `bson:"updatedAt" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// StatusLabel is exposed alongside the raw status in API responses.
func (o Order) StatusLabel() string {
	return o.Status.Label()
}
