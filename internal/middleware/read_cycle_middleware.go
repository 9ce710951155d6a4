package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
)

// CatalogReadCycle lets every catalog derivation in one request share a
// single product scan.
func CatalogReadCycle() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(service.WithReadCycle(c.Request.Context()))
		c.Next()
	}
}
