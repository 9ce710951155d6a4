package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/cart"
	"github.com/ikkim/storefront-backend/internal/events"
	"github.com/ikkim/storefront-backend/pkg/logger"
)

var (
	ErrCartEmpty           = errors.New("cart is empty")
	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidOrderStatus  = errors.New("invalid order status")
	ErrInvalidCustomerInfo = errors.New("invalid customer info")
)

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	zipPattern   = regexp.MustCompile(`^\d{4}$`)
)

// FieldError is one rejected checkout field.
type FieldError struct {
	Field   string
	Message string
}

// CustomerInfoError lists every rejected field in form order.
type CustomerInfoError struct {
	Fields []FieldError
}

func (e *CustomerInfoError) Error() string {
	return e.Fields[0].Message
}

func (e *CustomerInfoError) Unwrap() error {
	return ErrInvalidCustomerInfo
}

// FieldMap returns field name to message.
func (e *CustomerInfoError) FieldMap() map[string]string {
	m := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		m[f.Field] = f.Message
	}
	return m
}

// ValidateCustomerInfo checks the checkout form: names, email, address,
// city and state are required, the phone has exactly 10 digits and the ZIP
// code exactly 4.
func ValidateCustomerInfo(info model.CustomerInfo) error {
	var fields []FieldError
	required := func(field, value, message string) {
		if strings.TrimSpace(value) == "" {
			fields = append(fields, FieldError{Field: field, Message: message})
		}
	}

	required("first_name", info.FirstName, "Please enter your first name")
	required("last_name", info.LastName, "Please enter your last name")
	required("email", info.Email, "Please enter your email")
	if !phonePattern.MatchString(info.Phone) {
		fields = append(fields, FieldError{Field: "phone", Message: "Please enter a valid 10-digit phone number"})
	}
	required("address", info.Address, "Please enter your address")
	required("city", info.City, "Please enter your city")
	required("state", info.State, "Please enter your state")
	if !zipPattern.MatchString(info.ZipCode) {
		fields = append(fields, FieldError{Field: "zip_code", Message: "Please enter a valid 4-digit ZIP code"})
	}

	if len(fields) > 0 {
		return &CustomerInfoError{Fields: fields}
	}
	return nil
}

// CartProvider hands out the in-memory cart of a signed-in user.
type CartProvider interface {
	Get(ctx context.Context, userID string) *cart.Store
}

type OrderService interface {
	CreateOrder(ctx context.Context, draft *model.Order) (string, error)
	PlaceOrder(ctx context.Context, userID string, info model.CustomerInfo) (*model.Order, error)
	GetOrderByID(ctx context.Context, id string) (*model.Order, error)
	GetUserOrders(ctx context.Context, userID string) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	carts       CartProvider
	publisher   events.Publisher
	shippingFee float64
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	carts CartProvider,
	publisher events.Publisher,
	shippingFee float64,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		carts:       carts,
		publisher:   publisher,
		shippingFee: shippingFee,
	}
}

// CreateOrder writes draft as a new pending order with its own copy of the
// items and freshly computed totals. Stock is not touched. The store
// assigns the ID and creation time.
func (s *orderService) CreateOrder(ctx context.Context, draft *model.Order) (string, error) {
	order := &model.Order{
		UserID:       draft.UserID,
		Items:        model.CopyItems(draft.Items),
		Shipping:     draft.Shipping,
		Status:       model.OrderStatusPending,
		CustomerInfo: draft.CustomerInfo,
	}
	order.Subtotal = model.Subtotal(order.Items)
	order.Total = order.Subtotal + order.Shipping

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return "", newOrderError("CreateOrder", "failed to create order", err)
	}

	*draft = *order
	draft.Items = model.CopyItems(order.Items)

	logger.Info("Order created", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"total":    order.Total,
	})
	return order.ID, nil
}

// PlaceOrder checks out the user's cart. The cart is cleared only after the
// order is written, as a separate step.
func (s *orderService) PlaceOrder(ctx context.Context, userID string, info model.CustomerInfo) (*model.Order, error) {
	if err := ValidateCustomerInfo(info); err != nil {
		return nil, err
	}

	store := s.carts.Get(ctx, userID)
	st := store.State()
	if st.Err != nil && st.Err.Op == "load" {
		return nil, st.Err
	}
	items := st.Items
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	order := &model.Order{
		UserID:       userID,
		Items:        items,
		Shipping:     s.shippingFee,
		CustomerInfo: info,
	}
	if _, err := s.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	store.Clear()

	if err := s.publisher.PublishOrderCreated(ctx, order); err != nil {
		logger.Warn("Failed to publish order created event", map[string]interface{}{
			"order_id": order.ID,
			"error":    err.Error(),
		})
	}
	return order, nil
}

// GetOrderByID returns nil, nil when the order does not exist.
func (s *orderService) GetOrderByID(ctx context.Context, id string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, newOrderError("GetOrderByID", "failed to fetch order details", err)
	}
	return order, nil
}

// GetUserOrders lists the user's orders, newest first.
func (s *orderService) GetUserOrders(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := s.orderRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, newOrderError("GetUserOrders", "failed to fetch orders", err)
	}
	return orders, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidOrderStatus
	}

	err := s.orderRepo.UpdateStatus(ctx, id, status)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, newOrderError("UpdateOrderStatus", "failed to update order status", err)
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})
	return s.GetOrderByID(ctx, id)
}
