package events

import (
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
)

type OrderCreatedItem struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type OrderCreatedPayload struct {
	OrderID   string             `json:"orderId"`
	UserID    string             `json:"userId"`
	Items     []OrderCreatedItem `json:"items"`
	Subtotal  float64            `json:"subtotal"`
	Shipping  float64            `json:"shipping"`
	Total     float64            `json:"total"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
}

type OrderCreatedEnvelope = EventEnvelope[OrderCreatedPayload]

// NewOrderCreated builds the envelope for order, partitioned by user.
func NewOrderCreated(order *model.Order, correlationID string) OrderCreatedEnvelope {
	payload := OrderCreatedPayload{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Items:     make([]OrderCreatedItem, 0, len(order.Items)),
		Subtotal:  order.Subtotal,
		Shipping:  order.Shipping,
		Total:     order.Total,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
	}
	for _, item := range order.Items {
		payload.Items = append(payload.Items, OrderCreatedItem{
			ProductID: item.ID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	return newEnvelope(OrderCreatedEventName, OrderCreatedEventVersion, OrderCreatedSchema, order.UserID, correlationID, payload)
}
