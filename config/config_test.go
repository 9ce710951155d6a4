package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("SHOP_SHIPPING_FEE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, float64(2500), cfg.Shop.ShippingFee)
	assert.Equal(t, 10, cfg.Shop.LowStockThreshold)
	assert.Equal(t, 30*time.Minute, cfg.Scheduler.CartIdleTTL)
	assert.Equal(t, "none", cfg.Events.Broker)
}

func TestLoad_UnsupportedDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "firestore")

	_, err := Load()
	assert.Error(t, err)
}

func TestParseSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, parseSlice("a,b"))
	assert.Equal(t, []string{"a", "b"}, parseSlice("a,,b"))
	assert.Equal(t, []string{}, parseSlice(""))
}

func TestParseFallbacks(t *testing.T) {
	assert.Equal(t, 5*time.Minute, parseDuration("nope", 5*time.Minute))
	assert.Equal(t, 7, parseInt("x", 7))
	assert.Equal(t, 1.5, parseFloat("x", 1.5))
}
