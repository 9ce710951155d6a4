package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type CheckoutRequest struct {
	CustomerInfo model.CustomerInfo `json:"customer_info"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

// OrderResponse adds the display label to an order.
type OrderResponse struct {
	model.Order
	StatusLabel string `json:"status_label"`
}

func renderOrder(o model.Order) OrderResponse {
	return OrderResponse{Order: o, StatusLabel: o.StatusLabel()}
}

func renderOrders(orders []model.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, renderOrder(o))
	}
	return out
}

// Checkout places an order from the current cart
// POST /api/v1/orders
func (ctrl *OrderController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := currentUserID(c, log)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid checkout form")
		return
	}

	order, err := ctrl.orderService.PlaceOrder(c.Request.Context(), userID, req.CustomerInfo)
	if err != nil {
		respondOrderError(c, log, err)
		return
	}

	log.Info("Order placed", map[string]interface{}{
		"user_id":  userID,
		"order_id": order.ID,
		"total":    order.Total,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed",
		"order":   renderOrder(*order),
	})
}

// GetOrders returns user's orders, newest first
// GET /api/v1/orders
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := currentUserID(c, log)
	if !ok {
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(c.Request.Context(), userID)
	if err != nil {
		respondOrderError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": renderOrders(orders),
		"count":  len(orders),
	})
}

// GetOrderByID returns one of the user's orders
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := currentUserID(c, log)
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondOrderError(c, log, err)
		return
	}
	// Other users' orders are reported as missing.
	if order == nil || order.UserID != userID {
		apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": renderOrder(*order),
	})
}

// UpdateOrderStatus changes an order's status
// PUT /api/v1/admin/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "Status is required")
		return
	}

	order, err := ctrl.orderService.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondOrderError(c, log, err)
		return
	}
	if order == nil {
		apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": renderOrder(*order),
	})
}
