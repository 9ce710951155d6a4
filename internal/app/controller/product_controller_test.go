package controller

import (
	"net/http"
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productListResponse struct {
	Products []model.Product `json:"products"`
	Count    int             `json:"count"`
}

func TestProductController_GetProducts_Filters(t *testing.T) {
	env := setupControllerTest(t)
	env.seedProduct(t, "Remera Lisa", 1500, 10, "ropa", "Acme")
	env.seedProduct(t, "Gorra", 800, 3, "accesorios", "Acme")
	env.seedProduct(t, "Buzo", 4200, 2, "ropa", "Norte")

	tests := []struct {
		name   string
		query  string
		titles []string
	}{
		{"all", "", []string{"Remera Lisa", "Gorra", "Buzo"}},
		{"category", "?category=ropa", []string{"Remera Lisa", "Buzo"}},
		{"category and brand", "?category=ropa&brand=Norte", []string{"Buzo"}},
		{"no match", "?brand=Nadie", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/api/v1/products"+tt.query, nil, "")
			require.Equal(t, http.StatusOK, w.Code)

			var resp productListResponse
			decode(t, w, &resp)
			titles := []string{}
			for _, p := range resp.Products {
				titles = append(titles, p.Title)
			}
			assert.Equal(t, tt.titles, titles)
			assert.Equal(t, len(tt.titles), resp.Count)
		})
	}
}

func TestProductController_GetFacets_FirstSeenOrder(t *testing.T) {
	env := setupControllerTest(t)
	env.seedProduct(t, "Remera", 1500, 10, "ropa", "Norte")
	env.seedProduct(t, "Gorra", 800, 3, "accesorios", "Acme")
	env.seedProduct(t, "Buzo", 4200, 2, "ropa", "Acme")

	w := env.do(t, http.MethodGet, "/api/v1/products/facets", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Categories []string `json:"categories"`
		Brands     []string `json:"brands"`
	}
	decode(t, w, &resp)
	assert.Equal(t, []string{"ropa", "accesorios"}, resp.Categories)
	assert.Equal(t, []string{"Norte", "Acme"}, resp.Brands)
}

func TestProductController_GetProductBySlug(t *testing.T) {
	env := setupControllerTest(t)
	p := env.seedProduct(t, "Remera Lisa (Azul)", 1500, 10, "ropa", "Acme")

	w := env.do(t, http.MethodGet, "/api/v1/products/slug/remera-lisa-azul", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Product model.Product `json:"product"`
	}
	decode(t, w, &resp)
	assert.Equal(t, p.ID, resp.Product.ID)

	w = env.do(t, http.MethodGet, "/api/v1/products/slug/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	var errResp apperrors.ErrorResponse
	decode(t, w, &errResp)
	assert.Equal(t, apperrors.CatalogProductNotFound, errResp.Error)
}

func TestProductController_GetProductByID(t *testing.T) {
	env := setupControllerTest(t)
	p := env.seedProduct(t, "Gorra", 800, 3, "accesorios", "Acme")

	w := env.do(t, http.MethodGet, "/api/v1/products/"+p.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Product model.Product `json:"product"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "gorra", resp.Product.Slug)

	w = env.do(t, http.MethodGet, "/api/v1/products/does-not-exist", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
