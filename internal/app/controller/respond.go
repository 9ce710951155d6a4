package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/cart"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/ikkim/storefront-backend/pkg/logger"
)

// currentUserID aborts with 401 when the request is not signed in.
func currentUserID(c *gin.Context, log *logger.Logger) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok || userID == "" {
		log.Warn("Unauthenticated access", map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		apperrors.Unauthorized(c, "")
		return "", false
	}
	return userID, true
}

// respondCatalogError maps a catalog failure to its HTTP reply.
func respondCatalogError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.CatalogProductNotFound, "Product not found")
		return
	case errors.Is(err, service.ErrInvalidProduct):
		var catErr *service.CatalogError
		message := "Invalid product"
		if errors.As(err, &catErr) {
			message = catErr.Message
		}
		apperrors.BadRequest(c, apperrors.CatalogInvalidProduct, message)
		return
	case errors.Is(err, service.ErrCategoryRequired),
		errors.Is(err, service.ErrSlugRequired),
		errors.Is(err, service.ErrProductIDRequired):
		apperrors.BadRequest(c, apperrors.CatalogInvalidQuery, err.Error())
		return
	}

	fields := map[string]interface{}{}
	var catErr *service.CatalogError
	if errors.As(err, &catErr) {
		fields["op"] = catErr.Op
		fields["code"] = catErr.Code
	}
	log.Error("Catalog request failed", err, fields)

	if info := apperrors.ParseError(err, "product"); info.Code == apperrors.ResourceAlreadyExists {
		apperrors.Conflict(c, info.Code, info.Message)
		return
	}
	apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.CatalogUnavailable, "The catalog is unavailable right now")
}

// respondOrderError maps an order failure to its HTTP reply.
func respondOrderError(c *gin.Context, log *logger.Logger, err error) {
	var infoErr *service.CustomerInfoError
	var cartErr *cart.Error
	switch {
	case errors.As(err, &cartErr) && cartErr.Op == "load":
		log.Error("Cart unavailable at checkout", err)
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.CartSyncFailed, "We could not load your cart. Please try again")
		return
	case errors.As(err, &infoErr):
		apperrors.RespondWithValidationError(c, apperrors.OrderInvalidCustomer, infoErr.FieldMap())
		return
	case errors.Is(err, service.ErrCartEmpty):
		apperrors.BadRequest(c, apperrors.CartEmpty, "Your cart is empty")
		return
	case errors.Is(err, service.ErrOrderNotFound):
		apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		return
	case errors.Is(err, service.ErrInvalidOrderStatus):
		apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "Unknown order status")
		return
	}

	fields := map[string]interface{}{}
	var orderErr *service.OrderError
	if errors.As(err, &orderErr) {
		fields["op"] = orderErr.Op
		fields["code"] = orderErr.Code
	}
	log.Error("Order request failed", err, fields)
	apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.OrderCreateFailed, "We could not process your order. Please try again")
}
