package controller

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/catalogxlsx"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminController_RejectsNonAdmins(t *testing.T) {
	env := setupControllerTest(t)
	_, token := env.signUp(t, "buyer@example.com")

	w := env.do(t, http.MethodGet, "/api/v1/admin/dashboard", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/admin/dashboard", nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	var resp apperrors.ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, apperrors.AuthzAdminOnly, resp.Error)
}

func TestAdminController_ProductCRUD(t *testing.T) {
	env := setupControllerTest(t)
	admin := env.adminToken(t)

	w := env.do(t, http.MethodPost, "/api/v1/admin/products", map[string]interface{}{
		"title": "Remera Lisa", "price": 1500, "stock": 4, "category": "ropa", "brand": "Acme",
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Product model.Product `json:"product"`
	}
	decode(t, w, &created)
	assert.Equal(t, "remera-lisa", created.Product.Slug)

	w = env.do(t, http.MethodPost, "/api/v1/admin/products", map[string]interface{}{
		"title": "Remera Lisa", "price": 1, "stock": 1,
	}, admin)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/admin/products", map[string]interface{}{
		"title": "Rota", "price": -1, "stock": 1,
	}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, "/api/v1/admin/products/"+created.Product.ID, map[string]interface{}{
		"title": "Remera Estampada", "price": 1800, "stock": 2, "category": "ropa", "brand": "Acme",
	}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	var updated struct {
		Product model.Product `json:"product"`
	}
	decode(t, w, &updated)
	assert.Equal(t, "Remera Estampada", updated.Product.Title)
	assert.Equal(t, "remera-lisa", updated.Product.Slug)
	assert.Equal(t, float64(1800), updated.Product.Price)

	w = env.do(t, http.MethodPut, "/api/v1/admin/products/missing", map[string]interface{}{
		"title": "X", "price": 1, "stock": 1,
	}, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/admin/products/"+created.Product.ID, nil, admin)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodDelete, "/api/v1/admin/products/"+created.Product.ID, nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminController_Dashboard(t *testing.T) {
	env := setupControllerTest(t)
	env.seedProduct(t, "Remera", 1000, 10, "ropa", "Acme")
	env.seedProduct(t, "Gorra", 500, 2, "accesorios", "Acme")
	admin := env.adminToken(t)

	w := env.do(t, http.MethodGet, "/api/v1/admin/dashboard", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Summary  service.Dashboard `json:"summary"`
		LowStock []model.Product   `json:"low_stock"`
	}
	decode(t, w, &resp)
	assert.Equal(t, 2, resp.Summary.TotalProducts)
	assert.Equal(t, float64(11000), resp.Summary.InventoryValue)
	assert.Equal(t, 1, resp.Summary.LowStockCount)
	require.Len(t, resp.LowStock, 1)
	assert.Equal(t, "Gorra", resp.LowStock[0].Title)
}

func TestAdminController_ExportProducts(t *testing.T) {
	env := setupControllerTest(t)
	env.seedProduct(t, "Remera", 1000, 10, "ropa", "Acme")
	env.seedProduct(t, "Gorra", 500, 2, "accesorios", "Acme")
	admin := env.adminToken(t)

	w := env.do(t, http.MethodGet, "/api/v1/admin/products/export", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	result, err := catalogxlsx.Read(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	require.Len(t, result.Products, 2)
	assert.Equal(t, "Remera", result.Products[0].Title)
}

func TestUploadController_GeneratePresignedURL(t *testing.T) {
	env := setupControllerTest(t)
	admin := env.adminToken(t)

	w := env.do(t, http.MethodPost, "/api/v1/admin/upload/presigned-url", map[string]string{
		"filename": "tee.png", "content_type": "image/png",
	}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		UploadURL string `json:"upload_url"`
		FileURL   string `json:"file_url"`
		Key       string `json:"key"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "products/tee.png", resp.Key)
	assert.NotEmpty(t, resp.UploadURL)

	w = env.do(t, http.MethodPost, "/api/v1/admin/upload/presigned-url", map[string]string{
		"filename": "doc.pdf", "content_type": "application/pdf",
	}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errResp apperrors.ErrorResponse
	decode(t, w, &errResp)
	assert.Equal(t, apperrors.UploadInvalidFileType, errResp.Error)
}
