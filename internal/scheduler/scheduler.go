package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const (
	CartEvictionSpec = "@every 5m"
	LowStockSpec     = "0 8 * * *" // daily at 08:00
	lowStockTimeout  = 30 * time.Second
)

// CartEvictor drops in-memory carts idle for longer than ttl.
type CartEvictor interface {
	Evict(ttl time.Duration) int
}

// LowStockSource lists products under the configured threshold.
type LowStockSource interface {
	LowStock(ctx context.Context) ([]model.Product, error)
}

// Scheduler runs the storefront's housekeeping jobs.
type Scheduler struct {
	cron        *cron.Cron
	carts       CartEvictor
	catalog     LowStockSource
	cartIdleTTL time.Duration
}

func New(carts CartEvictor, catalog LowStockSource, cartIdleTTL time.Duration) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		carts:       carts,
		catalog:     catalog,
		cartIdleTTL: cartIdleTTL,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(CartEvictionSpec, s.EvictIdleCarts); err != nil {
		logger.Error("Failed to add cron job for cart eviction", err)
		return err
	}
	if _, err := s.cron.AddFunc(LowStockSpec, s.ReportLowStock); err != nil {
		logger.Error("Failed to add cron job for low-stock report", err)
		return err
	}

	s.cron.Start()
	logger.Info("Scheduler started", map[string]interface{}{
		"cart_eviction": CartEvictionSpec,
		"low_stock":     LowStockSpec,
		"cart_idle_ttl": s.cartIdleTTL.String(),
	})
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	logger.Info("Stopping scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Scheduler stopped")
}

// EvictIdleCarts flushes and drops carts idle longer than the TTL.
func (s *Scheduler) EvictIdleCarts() {
	evicted := s.carts.Evict(s.cartIdleTTL)
	if evicted > 0 {
		logger.Info("Evicted idle carts", map[string]interface{}{
			"count": evicted,
		})
	}
}

// ReportLowStock logs every product under the low-stock threshold.
func (s *Scheduler) ReportLowStock() {
	ctx, cancel := context.WithTimeout(context.Background(), lowStockTimeout)
	defer cancel()

	products, err := s.catalog.LowStock(ctx)
	if err != nil {
		logger.Error("Failed to build low-stock report", err)
		return
	}

	for _, p := range products {
		logger.Warn("Low stock", map[string]interface{}{
			"product_id": p.ID,
			"title":      p.Title,
			"stock":      p.Stock,
		})
	}
	logger.Info("Low-stock report finished", map[string]interface{}{
		"count": len(products),
	})
}
