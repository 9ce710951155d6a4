package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

type ProductController struct {
	catalog service.CatalogService
}

func NewProductController(catalog service.CatalogService) *ProductController {
	return &ProductController{
		catalog: catalog,
	}
}

// GetProducts lists the catalog, optionally narrowed by category and brand
// GET /api/v1/products?category=&brand=
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := service.ProductFilter{
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
	}

	log.Debug("Listing products", map[string]interface{}{
		"category": filter.Category,
		"brand":    filter.Brand,
	})

	products, err := ctrl.catalog.Filter(c.Request.Context(), filter)
	if err != nil {
		respondCatalogError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetFacets returns the distinct categories and brands for the filter UI
// GET /api/v1/products/facets
func (ctrl *ProductController) GetFacets(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	ctx := c.Request.Context()

	categories, err := ctrl.catalog.Categories(ctx)
	if err != nil {
		respondCatalogError(c, log, err)
		return
	}
	brands, err := ctrl.catalog.Brands(ctx)
	if err != nil {
		respondCatalogError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"brands":     brands,
	})
}

// GetProductBySlug
// GET /api/v1/products/slug/:slug
func (ctrl *ProductController) GetProductBySlug(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	product, err := ctrl.catalog.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondCatalogError(c, log, err)
		return
	}
	if product == nil {
		apperrors.NotFound(c, apperrors.CatalogProductNotFound, "Product not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// GetProductByID
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	product, err := ctrl.catalog.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondCatalogError(c, log, err)
		return
	}
	if product == nil {
		apperrors.NotFound(c, apperrors.CatalogProductNotFound, "Product not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}
