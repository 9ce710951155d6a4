package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/ikkim/storefront-backend/pkg/util"
	"golang.org/x/sync/singleflight"
)

var (
	ErrCategoryRequired  = errors.New("category is required")
	ErrSlugRequired      = errors.New("slug is required")
	ErrProductIDRequired = errors.New("product ID is required")
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidProduct    = errors.New("invalid product")
)

// ProductFilter narrows a listing. Empty fields match everything.
type ProductFilter struct {
	Category string
	Brand    string
}

// ProductInput is the admin-editable part of a product. The slug is always
// derived from the title.
type ProductInput struct {
	Title       string
	Price       float64
	Stock       int
	Description string
	Category    string
	Brand       string
	ImageURL    string
}

// Dashboard summarizes the catalog for the back office.
type Dashboard struct {
	TotalProducts     int     `json:"total_products"`
	InventoryValue    float64 `json:"inventory_value"`
	LowStockCount     int     `json:"low_stock_count"`
	LowStockThreshold int     `json:"low_stock_threshold"`
}

type CatalogService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	ListByCategory(ctx context.Context, category string) ([]model.Product, error)
	GetByID(ctx context.Context, id string) (*model.Product, error)
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Brands(ctx context.Context) ([]string, error)
	Filter(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	ProductExists(ctx context.Context, id string) bool
	CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, input ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	Dashboard(ctx context.Context) (*Dashboard, error)
	LowStock(ctx context.Context) ([]model.Product, error)
}

type catalogService struct {
	productRepo       repository.ProductRepository
	lowStockThreshold int
	scans             singleflight.Group
}

func NewCatalogService(productRepo repository.ProductRepository, lowStockThreshold int) CatalogService {
	return &catalogService{
		productRepo:       productRepo,
		lowStockThreshold: lowStockThreshold,
	}
}

type readCycleKey struct{}

// readCycle caches one full product scan for the lifetime of a request.
type readCycle struct {
	mu       sync.Mutex
	loaded   bool
	products []model.Product
}

// WithReadCycle scopes derived catalog reads (categories, brands, slug and
// filter scans) to ctx: the first scan is reused until ctx is discarded.
func WithReadCycle(ctx context.Context) context.Context {
	if _, ok := ctx.Value(readCycleKey{}).(*readCycle); ok {
		return ctx
	}
	return context.WithValue(ctx, readCycleKey{}, &readCycle{})
}

func HasReadCycle(ctx context.Context) bool {
	_, ok := ctx.Value(readCycleKey{}).(*readCycle)
	return ok
}

// scanProducts returns the full product list for read-only derivations.
// Concurrent scans share one repository call. The result must not be
// mutated.
func (s *catalogService) scanProducts(ctx context.Context) ([]model.Product, error) {
	rc, _ := ctx.Value(readCycleKey{}).(*readCycle)
	if rc != nil {
		rc.mu.Lock()
		defer rc.mu.Unlock()
		if rc.loaded {
			return rc.products, nil
		}
	}

	v, err, shared := s.scans.Do("products", func() (interface{}, error) {
		return s.productRepo.FindAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	products := v.([]model.Product)

	if shared {
		logger.Debug("Shared in-flight product scan", map[string]interface{}{
			"count": len(products),
		})
	}
	if rc != nil {
		rc.products = products
		rc.loaded = true
	}
	return products, nil
}

func (s *catalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, newCatalogError("ListProducts", "failed to fetch products", err)
	}
	return products, nil
}

func (s *catalogService) ListByCategory(ctx context.Context, category string) ([]model.Product, error) {
	if category == "" {
		return nil, newCatalogError("ListByCategory", "category is required", ErrCategoryRequired)
	}

	products, err := s.productRepo.FindByCategory(ctx, category)
	if err != nil {
		return nil, newCatalogError("ListByCategory", "failed to fetch products by category", err)
	}
	return products, nil
}

// GetByID returns nil, nil when the product does not exist.
func (s *catalogService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, newCatalogError("GetByID", "product ID is required", ErrProductIDRequired)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, newCatalogError("GetByID", "failed to fetch product by ID", err)
	}
	return product, nil
}

// GetBySlug scans the full list. It returns nil, nil when no product matches.
func (s *catalogService) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	if slug == "" {
		return nil, newCatalogError("GetBySlug", "slug is required", ErrSlugRequired)
	}

	products, err := s.scanProducts(ctx)
	if err != nil {
		return nil, newCatalogError("GetBySlug", "failed to fetch product by slug", err)
	}

	for i := range products {
		if products[i].Slug == slug {
			product := products[i]
			return &product, nil
		}
	}
	return nil, nil
}

func (s *catalogService) Categories(ctx context.Context) ([]string, error) {
	products, err := s.scanProducts(ctx)
	if err != nil {
		return nil, newCatalogError("Categories", "failed to fetch categories", err)
	}
	return distinct(products, func(p model.Product) string { return p.Category }), nil
}

func (s *catalogService) Brands(ctx context.Context) ([]string, error) {
	products, err := s.scanProducts(ctx)
	if err != nil {
		return nil, newCatalogError("Brands", "failed to fetch brands", err)
	}
	return distinct(products, func(p model.Product) string { return p.Brand }), nil
}

// distinct keeps the first occurrence of each value, in list order.
func distinct(products []model.Product, field func(model.Product) string) []string {
	seen := make(map[string]struct{}, len(products))
	values := []string{}
	for _, p := range products {
		v := field(p)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}

func (s *catalogService) Filter(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	products, err := s.scanProducts(ctx)
	if err != nil {
		return nil, newCatalogError("Filter", "failed to fetch products", err)
	}

	filtered := []model.Product{}
	for _, p := range products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Brand != "" && p.Brand != filter.Brand {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered, nil
}

// ProductExists is false on any failure, including lookup errors.
func (s *catalogService) ProductExists(ctx context.Context, id string) bool {
	product, err := s.GetByID(ctx, id)
	return err == nil && product != nil
}

func validateProductInput(input ProductInput) error {
	switch {
	case strings.TrimSpace(input.Title) == "":
		return errors.New("title is required")
	case input.Price < 0:
		return errors.New("price must not be negative")
	case input.Stock < 0:
		return errors.New("stock must not be negative")
	}
	return nil
}

func (s *catalogService) CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, newCatalogError("CreateProduct", err.Error(), ErrInvalidProduct)
	}

	product := &model.Product{
		Title:       strings.TrimSpace(input.Title),
		Price:       input.Price,
		Stock:       input.Stock,
		Description: input.Description,
		Category:    input.Category,
		Brand:       input.Brand,
		ImageURL:    input.ImageURL,
	}
	product.Slug = util.Slugify(product.Title)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, newCatalogError("CreateProduct", "failed to create product", err)
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id string, input ProductInput) (*model.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, newCatalogError("UpdateProduct", err.Error(), ErrInvalidProduct)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newCatalogError("UpdateProduct", "product not found", ErrProductNotFound)
	}
	if err != nil {
		return nil, newCatalogError("UpdateProduct", "failed to fetch product", err)
	}

	// The slug is kept so existing product links stay valid.
	product.Title = strings.TrimSpace(input.Title)
	product.Price = input.Price
	product.Stock = input.Stock
	product.Description = input.Description
	product.Category = input.Category
	product.Brand = input.Brand
	product.ImageURL = input.ImageURL

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, newCatalogError("UpdateProduct", "failed to update product", err)
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
	})
	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id string) error {
	err := s.productRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return newCatalogError("DeleteProduct", "product not found", ErrProductNotFound)
	}
	if err != nil {
		return newCatalogError("DeleteProduct", "failed to delete product", err)
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

func (s *catalogService) Dashboard(ctx context.Context) (*Dashboard, error) {
	products, err := s.scanProducts(ctx)
	if err != nil {
		return nil, newCatalogError("Dashboard", "failed to fetch products", err)
	}

	d := &Dashboard{
		TotalProducts:     len(products),
		LowStockThreshold: s.lowStockThreshold,
	}
	for _, p := range products {
		d.InventoryValue += p.InventoryValue()
		if p.Stock < s.lowStockThreshold {
			d.LowStockCount++
		}
	}
	return d, nil
}

func (s *catalogService) LowStock(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.FindLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, newCatalogError("LowStock", "failed to fetch low-stock products", err)
	}
	return products, nil
}
