package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "direct", cfg.Relay.Mode)
	assert.Equal(t, 10*time.Second, cfg.Relay.Timeout)
	assert.Equal(t, "777", cfg.Business.AdminPIN)
	assert.InDelta(t, 7.0, cfg.Business.DeliveryFee, 0.0001)
	assert.Equal(t, 10, cfg.Gemini.HistorySize)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 8080
business:
  store_name: TEST BURGER
  delivery_fee: 5.5
relay:
  timeout: 3s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("STOREFRONT_BUSINESS_ADMIN_PIN", "4242")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "TEST BURGER", cfg.Business.StoreName)
	assert.InDelta(t, 5.5, cfg.Business.DeliveryFee, 0.0001)
	assert.Equal(t, 3*time.Second, cfg.Relay.Timeout)
	assert.Equal(t, "4242", cfg.Business.AdminPIN)
}

func TestValidateRejectsQueueWithoutRabbit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("relay:\n  mode: queue\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{Driver: "redis"}, Relay: RelayConfig{Mode: "direct"}}
	assert.Error(t, cfg.Validate())
}
