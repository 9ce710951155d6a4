package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/cart"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/ikkim/storefront-backend/internal/session"
	"github.com/ikkim/storefront-backend/internal/storage"
	"github.com/ikkim/storefront-backend/internal/websocket"
	"github.com/ikkim/storefront-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testJWTSecret     = "test-controller-secret"
	testAdminEmail    = "admin@shop.test"
	testAdminPassword = "admin-secret"
	testShippingFee   = 2500
)

func init() {
	util.UseFastHashing()
}

type memRevoker struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (r *memRevoker) Revoke(_ context.Context, token string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[token] = true
	return nil
}

func (r *memRevoker) IsRevoked(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revoked[token], nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	orders []string
}

func (p *recordingPublisher) PublishOrderCreated(_ context.Context, order *model.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders = append(p.orders, order.ID)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.orders...)
}

type fakePresigner struct{}

func (fakePresigner) PresignProductImage(_ context.Context, filename, contentType string) (*storage.PresignedUpload, error) {
	if !storage.IsImageType(contentType) {
		return nil, storage.ErrUnsupportedContentType
	}
	return &storage.PresignedUpload{
		UploadURL: "https://bucket.test/products/" + filename + "?X-Amz-Signature=x",
		FileURL:   "https://cdn.test/products/" + filename,
		Key:       "products/" + filename,
	}, nil
}

type testEnv struct {
	router    *gin.Engine
	db        *gorm.DB
	catalog   service.CatalogService
	carts     *cart.Manager
	sessions  *session.Registry
	hub       *websocket.Hub
	publisher *recordingPublisher
}

// setupControllerTest wires every controller over an in-memory database
// with the same routes and middleware as the server.
func setupControllerTest(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	adminHash, err := util.HashPassword(testAdminPassword)
	require.NoError(t, err)

	users := repository.NewUserRepository(testDB)
	sessions := session.NewRegistry(users)
	carts := cart.NewManager(repository.NewCartRepository(testDB), sessions)
	revoker := &memRevoker{revoked: make(map[string]bool)}
	publisher := &recordingPublisher{}

	catalog := service.NewCatalogService(repository.NewProductRepository(testDB), 5)
	orders := service.NewOrderService(repository.NewOrderRepository(testDB), carts, publisher, testShippingFee)
	auth := service.NewAuthService(users, sessions, revoker,
		service.AdminCredential{Email: testAdminEmail, PasswordHash: adminHash},
		testJWTSecret, 15*time.Minute, time.Hour)

	hub := websocket.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	t.Cleanup(func() {
		cancel()
		carts.Flush()
		db.CleanupTestDB(testDB)
	})

	authCtrl := NewAuthController(auth)
	productCtrl := NewProductController(catalog)
	cartCtrl := NewCartController(carts, catalog)
	orderCtrl := NewOrderController(orders)
	adminCtrl := NewAdminController(catalog)
	uploadCtrl := NewUploadController(fakePresigner{})
	wsCtrl := NewWSController(hub, sessions, carts, []string{"*"})
	authMW := middleware.NewAuthMiddleware(testJWTSecret, revoker)

	r := gin.New()
	r.Use(middleware.LoggingMiddleware(), middleware.CatalogReadCycle())
	authenticated := authMW.Authenticate()
	adminOnly := authMW.RequireRole("admin")

	v1 := r.Group("/api/v1")
	v1.POST("/auth/register", authCtrl.Register)
	v1.POST("/auth/login", authCtrl.Login)
	v1.POST("/auth/logout", authenticated, authCtrl.Logout)
	v1.GET("/auth/me", authenticated, authCtrl.GetMe)
	v1.POST("/admin/login", authCtrl.AdminLogin)

	v1.GET("/products", productCtrl.GetProducts)
	v1.GET("/products/facets", productCtrl.GetFacets)
	v1.GET("/products/slug/:slug", productCtrl.GetProductBySlug)
	v1.GET("/products/:id", productCtrl.GetProductByID)

	v1.GET("/cart", authenticated, cartCtrl.GetCart)
	v1.POST("/cart", authenticated, cartCtrl.AddToCart)
	v1.PUT("/cart/:productId", authenticated, cartCtrl.UpdateCartItem)
	v1.DELETE("/cart/:productId", authenticated, cartCtrl.RemoveFromCart)
	v1.DELETE("/cart", authenticated, cartCtrl.ClearCart)

	v1.POST("/orders", authenticated, orderCtrl.Checkout)
	v1.GET("/orders", authenticated, orderCtrl.GetOrders)
	v1.GET("/orders/:id", authenticated, orderCtrl.GetOrderByID)

	admin := v1.Group("/admin", authenticated, adminOnly)
	admin.GET("/dashboard", adminCtrl.Dashboard)
	admin.POST("/products", adminCtrl.CreateProduct)
	admin.GET("/products/export", adminCtrl.ExportProducts)
	admin.PUT("/products/:id", adminCtrl.UpdateProduct)
	admin.DELETE("/products/:id", adminCtrl.DeleteProduct)
	admin.PUT("/orders/:id/status", orderCtrl.UpdateOrderStatus)
	admin.POST("/upload/presigned-url", uploadCtrl.GeneratePresignedURL)

	v1.GET("/ws", authenticated, wsCtrl.HandleWebSocket)

	return &testEnv{
		router:    r,
		db:        testDB,
		catalog:   catalog,
		carts:     carts,
		sessions:  sessions,
		hub:       hub,
		publisher: publisher,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

type authResponse struct {
	User   model.User     `json:"user"`
	Tokens util.TokenPair `json:"tokens"`
}

// signUp registers email and returns the user ID and access token.
func (e *testEnv) signUp(t *testing.T, email string) (string, string) {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    email,
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp authResponse
	decode(t, w, &resp)
	return resp.User.ID, resp.Tokens.AccessToken
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/v1/admin/login", map[string]string{
		"email":    testAdminEmail,
		"password": testAdminPassword,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp authResponse
	decode(t, w, &resp)
	return resp.Tokens.AccessToken
}

func (e *testEnv) seedProduct(t *testing.T, title string, price float64, stock int, category, brand string) *model.Product {
	t.Helper()

	p, err := e.catalog.CreateProduct(context.Background(), service.ProductInput{
		Title:    title,
		Price:    price,
		Stock:    stock,
		Category: category,
		Brand:    brand,
	})
	require.NoError(t, err)
	// Keep created_at ordering stable on fast clocks.
	time.Sleep(2 * time.Millisecond)
	return p
}

func validCustomer() model.CustomerInfo {
	return model.CustomerInfo{
		FirstName: "Ana",
		LastName:  "García",
		Email:     "ana@example.com",
		Phone:     "1123456789",
		Address:   "Av. Siempre Viva 742",
		City:      "Buenos Aires",
		State:     "CABA",
		ZipCode:   "1425",
	}
}

func productInputOf(p *model.Product) service.ProductInput {
	return service.ProductInput{
		Title:       p.Title,
		Price:       p.Price,
		Stock:       p.Stock,
		Description: p.Description,
		Category:    p.Category,
		Brand:       p.Brand,
		ImageURL:    p.ImageURL,
	}
}
