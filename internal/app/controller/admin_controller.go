package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/catalogxlsx"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminController struct {
	catalog service.CatalogService
}

func NewAdminController(catalog service.CatalogService) *AdminController {
	return &AdminController{
		catalog: catalog,
	}
}

type ProductRequest struct {
	Title       string  `json:"title" binding:"required"`
	Price       float64 `json:"price" binding:"min=0"`
	Stock       int     `json:"stock" binding:"min=0"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	ImageURL    string  `json:"image_url"`
}

func (r ProductRequest) input() service.ProductInput {
	return service.ProductInput{
		Title:       r.Title,
		Price:       r.Price,
		Stock:       r.Stock,
		Description: r.Description,
		Category:    r.Category,
		Brand:       r.Brand,
		ImageURL:    r.ImageURL,
	}
}

// Dashboard summarizes inventory for the back office
// GET /api/v1/admin/dashboard
func (ctrl *AdminController) Dashboard(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	ctx := c.Request.Context()

	summary, err := ctrl.catalog.Dashboard(ctx)
	if err != nil {
		respondCatalogError(c, log, err)
		return
	}
	lowStock, err := ctrl.catalog.LowStock(ctx)
	if err != nil {
		respondCatalogError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":   summary,
		"low_stock": lowStock,
	})
}

// CreateProduct
// POST /api/v1/admin/products
func (ctrl *AdminController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.CatalogInvalidProduct, "Title is required and price and stock must not be negative")
		return
	}

	product, err := ctrl.catalog.CreateProduct(c.Request.Context(), req.input())
	if err != nil {
		respondCatalogError(c, log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"product": product,
	})
}

// UpdateProduct
// PUT /api/v1/admin/products/:id
func (ctrl *AdminController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.CatalogInvalidProduct, "Title is required and price and stock must not be negative")
		return
	}

	product, err := ctrl.catalog.UpdateProduct(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondCatalogError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// DeleteProduct
// DELETE /api/v1/admin/products/:id
func (ctrl *AdminController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if err := ctrl.catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondCatalogError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted",
	})
}

// ExportProducts streams the catalog as a spreadsheet
// GET /api/v1/admin/products/export
func (ctrl *AdminController) ExportProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	products, err := ctrl.catalog.ListProducts(c.Request.Context())
	if err != nil {
		respondCatalogError(c, log, err)
		return
	}

	var buf bytes.Buffer
	if err := catalogxlsx.Write(&buf, products); err != nil {
		log.Error("Failed to render catalog export", err)
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Catalog exported", map[string]interface{}{
		"count": len(products),
	})

	filename := fmt.Sprintf("products-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
