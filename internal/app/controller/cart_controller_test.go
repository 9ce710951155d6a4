package controller

import (
	"context"
	"net/http"
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/repository"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartOf(t *testing.T, env *testEnv, method, path string, body interface{}, token string) CartResponse {
	t.Helper()
	w := env.do(t, method, path, body, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp CartResponse
	decode(t, w, &resp)
	return resp
}

func TestCartController_RequiresSignIn(t *testing.T) {
	env := setupControllerTest(t)

	w := env.do(t, http.MethodGet, "/api/v1/cart", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp apperrors.ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, apperrors.AuthUnauthorized, resp.Error)
}

func TestCartController_AddAccumulatesAndTotals(t *testing.T) {
	env := setupControllerTest(t)
	_, token := env.signUp(t, "buyer@example.com")
	tee := env.seedProduct(t, "Remera", 1000, 5, "ropa", "Acme")
	hat := env.seedProduct(t, "Gorra", 500, 5, "accesorios", "Acme")

	empty := cartOf(t, env, http.MethodGet, "/api/v1/cart", nil, token)
	assert.Empty(t, empty.Items)
	assert.Zero(t, empty.Total)

	cartOf(t, env, http.MethodPost, "/api/v1/cart", map[string]interface{}{"product_id": tee.ID, "quantity": 1}, token)
	cartOf(t, env, http.MethodPost, "/api/v1/cart", map[string]interface{}{"product_id": hat.ID, "quantity": 2}, token)
	resp := cartOf(t, env, http.MethodPost, "/api/v1/cart", map[string]interface{}{"product_id": tee.ID, "quantity": 1}, token)

	require.Len(t, resp.Items, 2)
	assert.Equal(t, tee.ID, resp.Items[0].ID)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.Equal(t, float64(3000), resp.Total)
	assert.Nil(t, resp.Error)
}

func TestCartController_AddRejections(t *testing.T) {
	env := setupControllerTest(t)
	_, token := env.signUp(t, "buyer@example.com")
	p := env.seedProduct(t, "Remera", 1000, 2, "ropa", "Acme")

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
		wantCode   string
	}{
		{"zero quantity", map[string]interface{}{"product_id": p.ID, "quantity": 0}, http.StatusBadRequest, apperrors.CartInvalidQuantity},
		{"over stock", map[string]interface{}{"product_id": p.ID, "quantity": 3}, http.StatusBadRequest, apperrors.CartInvalidQuantity},
		{"unknown product", map[string]interface{}{"product_id": "nope", "quantity": 1}, http.StatusNotFound, apperrors.CatalogProductNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/v1/cart", tt.body, token)
			assert.Equal(t, tt.wantStatus, w.Code)
			var resp apperrors.ErrorResponse
			decode(t, w, &resp)
			assert.Equal(t, tt.wantCode, resp.Error)
		})
	}
}

func TestCartController_StockCeilingIsAddTimeSnapshot(t *testing.T) {
	env := setupControllerTest(t)
	_, token := env.signUp(t, "buyer@example.com")
	p := env.seedProduct(t, "Remera", 1000, 3, "ropa", "Acme")

	cartOf(t, env, http.MethodPost, "/api/v1/cart", map[string]interface{}{"product_id": p.ID, "quantity": 2}, token)

	// Stock changes in the catalog do not move the ceiling of an existing line.
	input := productInputOf(p)
	input.Stock = 50
	_, err := env.catalog.UpdateProduct(context.Background(), p.ID, input)
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/api/v1/cart", map[string]interface{}{"product_id": p.ID, "quantity": 2}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_UpdateRemoveClear(t *testing.T) {
	env := setupControllerTest(t)
	userID, token := env.signUp(t, "buyer@example.com")
	tee := env.seedProduct(t, "Remera", 1000, 5, "ropa", "Acme")
	hat := env.seedProduct(t, "Gorra", 500, 5, "accesorios", "Acme")

	cartOf(t, env, http.MethodPost, "/api/v1/cart", map[string]interface{}{"product_id": tee.ID, "quantity": 1}, token)
	cartOf(t, env, http.MethodPost, "/api/v1/cart", map[string]interface{}{"product_id": hat.ID, "quantity": 1}, token)

	resp := cartOf(t, env, http.MethodPut, "/api/v1/cart/"+tee.ID, map[string]int{"quantity": 4}, token)
	assert.Equal(t, 4, resp.Items[0].Quantity)
	assert.Equal(t, float64(4500), resp.Total)

	w := env.do(t, http.MethodPut, "/api/v1/cart/"+tee.ID, map[string]int{"quantity": 6}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, "/api/v1/cart/missing", map[string]int{"quantity": 1}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	resp = cartOf(t, env, http.MethodPut, "/api/v1/cart/"+hat.ID, map[string]int{"quantity": 0}, token)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, tee.ID, resp.Items[0].ID)

	resp = cartOf(t, env, http.MethodDelete, "/api/v1/cart/"+hat.ID, nil, token)
	assert.Len(t, resp.Items, 1)

	resp = cartOf(t, env, http.MethodDelete, "/api/v1/cart/"+tee.ID, nil, token)
	assert.Empty(t, resp.Items)

	cartOf(t, env, http.MethodPost, "/api/v1/cart", map[string]interface{}{"product_id": tee.ID, "quantity": 1}, token)
	resp = cartOf(t, env, http.MethodDelete, "/api/v1/cart", nil, token)
	assert.Empty(t, resp.Items)

	env.carts.Flush()
	doc, err := repository.NewCartRepository(env.db).Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, doc.Items)
}

func TestCartController_MirrorsToDocument(t *testing.T) {
	env := setupControllerTest(t)
	userID, token := env.signUp(t, "buyer@example.com")
	p := env.seedProduct(t, "Remera", 1000, 5, "ropa", "Acme")

	cartOf(t, env, http.MethodPost, "/api/v1/cart", map[string]interface{}{"product_id": p.ID, "quantity": 2}, token)
	env.carts.Flush()

	doc, err := repository.NewCartRepository(env.db).Get(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, doc.Items, 1)
	assert.Equal(t, 2, doc.Items[0].Quantity)
	assert.Equal(t, "Remera", doc.Items[0].Title)
}

func TestCartController_SignOutKeepsDocument(t *testing.T) {
	env := setupControllerTest(t)
	userID, token := env.signUp(t, "buyer@example.com")
	p := env.seedProduct(t, "Remera", 1000, 5, "ropa", "Acme")

	cartOf(t, env, http.MethodPost, "/api/v1/cart", map[string]interface{}{"product_id": p.ID, "quantity": 2}, token)
	env.carts.Flush()

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/v1/auth/logout", nil, token).Code)

	w := env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "buyer@example.com", "password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var login authResponse
	decode(t, w, &login)

	resp := cartOf(t, env, http.MethodGet, "/api/v1/cart", nil, login.Tokens.AccessToken)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.Equal(t, userID, login.User.ID)
}
