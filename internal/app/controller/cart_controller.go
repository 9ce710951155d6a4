package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/cart"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

type CartController struct {
	carts   service.CartProvider
	catalog service.CatalogService
}

func NewCartController(carts service.CartProvider, catalog service.CatalogService) *CartController {
	return &CartController{
		carts:   carts,
		catalog: catalog,
	}
}

type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse is the rendered cart state.
type CartResponse struct {
	Items   []model.CartItem `json:"items"`
	Count   int              `json:"count"`
	Total   float64          `json:"total"`
	Loading bool             `json:"loading"`
	Error   *CartErrorBody   `json:"error,omitempty"`
}

type CartErrorBody struct {
	Code    string `json:"code"`
	Op      string `json:"op"`
	Message string `json:"message"`
}

// RenderCart converts a cart state into its API shape.
func RenderCart(st cart.State) CartResponse {
	resp := CartResponse{
		Items:   st.Items,
		Count:   len(st.Items),
		Total:   st.Total(),
		Loading: st.Loading,
	}
	if resp.Items == nil {
		resp.Items = []model.CartItem{}
	}
	if st.Err != nil {
		resp.Error = &CartErrorBody{
			Code:    apperrors.CartSyncFailed,
			Op:      st.Err.Op,
			Message: st.Err.Message,
		}
	}
	return resp
}

func findItem(items []model.CartItem, productID string) (model.CartItem, bool) {
	for _, item := range items {
		if item.ID == productID {
			return item, true
		}
	}
	return model.CartItem{}, false
}

// GetCart returns the current user's cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := currentUserID(c, log)
	if !ok {
		return
	}

	store := ctrl.carts.Get(c.Request.Context(), userID)
	c.JSON(http.StatusOK, RenderCart(store.State()))
}

// AddToCart adds a product, or more of it, to the cart
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := currentUserID(c, log)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "Please choose a product and a quantity of at least 1")
		return
	}

	product, err := ctrl.catalog.GetByID(c.Request.Context(), req.ProductID)
	if err != nil {
		respondCatalogError(c, log, err)
		return
	}
	if product == nil {
		apperrors.NotFound(c, apperrors.CatalogProductNotFound, "Product not found")
		return
	}

	store := ctrl.carts.Get(c.Request.Context(), userID)

	// Stock is checked against the snapshot taken when the line was first
	// added, not the current catalog.
	ceiling, inCart := product.Stock, 0
	if item, ok := findItem(store.Items(), product.ID); ok {
		ceiling, inCart = item.Stock, item.Quantity
	}
	if inCart+req.Quantity > ceiling {
		log.Warn("Add to cart exceeds stock", map[string]interface{}{
			"user_id":    userID,
			"product_id": product.ID,
			"requested":  inCart + req.Quantity,
			"stock":      ceiling,
		})
		apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "Not enough stock for that quantity")
		return
	}

	if err := store.Add(product, req.Quantity); err != nil {
		apperrors.BadRequest(c, apperrors.CartInvalidQuantity, err.Error())
		return
	}

	log.Info("Added to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": product.ID,
		"quantity":   req.Quantity,
	})
	c.JSON(http.StatusOK, RenderCart(store.State()))
}

// UpdateCartItem sets a line's quantity; zero or less removes it
// PUT /api/v1/cart/:productId
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := currentUserID(c, log)
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "Invalid quantity")
		return
	}

	productID := c.Param("productId")
	store := ctrl.carts.Get(c.Request.Context(), userID)

	item, found := findItem(store.Items(), productID)
	if !found {
		apperrors.NotFound(c, apperrors.CartItemNotFound, "That product is not in your cart")
		return
	}
	if req.Quantity > item.Stock {
		apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "Not enough stock for that quantity")
		return
	}

	store.SetQuantity(productID, req.Quantity)
	c.JSON(http.StatusOK, RenderCart(store.State()))
}

// RemoveFromCart deletes one line
// DELETE /api/v1/cart/:productId
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := currentUserID(c, log)
	if !ok {
		return
	}

	store := ctrl.carts.Get(c.Request.Context(), userID)
	store.Remove(c.Param("productId"))
	c.JSON(http.StatusOK, RenderCart(store.State()))
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := currentUserID(c, log)
	if !ok {
		return
	}

	store := ctrl.carts.Get(c.Request.Context(), userID)
	store.Clear()

	log.Info("Cart cleared", map[string]interface{}{
		"user_id": userID,
	})
	c.JSON(http.StatusOK, RenderCart(store.State()))
}
