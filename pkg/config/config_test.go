package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "eventpulse", cfg.App.Name)
	assert.Equal(t, "1.0.0", cfg.App.Version)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, CollectorModeFallback, cfg.Collector.Mode)
	assert.Equal(t, []string{"ticketmaster", "viagogo"}, cfg.Collector.Order)
	assert.Equal(t, 10*time.Second, cfg.Collector.AdapterTimeout)
	assert.Equal(t, "TEST_AID", cfg.Booking.AffiliateID)
	assert.Equal(t, "IL", cfg.Booking.DefaultCountryCode)
	assert.Equal(t, []string{"*"}, cfg.CORS.Origins)
	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.Redis.Enabled)
	assert.True(t, cfg.Viagogo.UseMock)
	assert.Equal(t, time.Duration(0), cfg.Redis.CacheTTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("COLLECTOR_MODE", "Aggregate")
	t.Setenv("COLLECTOR_ORDER", "viagogo, ticketmaster")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://eventpulse.app")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("TICKETMASTER_BASE_URL", "http://tm.local/discovery/v2/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, CollectorModeAggregate, cfg.Collector.Mode)
	assert.Equal(t, []string{"viagogo", "ticketmaster"}, cfg.Collector.Order)
	assert.Equal(t, []string{"http://localhost:5173", "https://eventpulse.app"}, cfg.CORS.Origins)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, "http://tm.local/discovery/v2", cfg.Ticketmaster.BaseURL)
}

func TestLoadWithPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SERVER_PORT=9090\nBOOKING_AFFILIATE_ID=aid-123\n"), 0o600))

	cfg, err := LoadWithPath(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "aid-123", cfg.Booking.AffiliateID)
}

func TestLoadWithPath_Missing(t *testing.T) {
	_, err := LoadWithPath(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:       AppConfig{Name: "eventpulse", Environment: "development"},
			Server:    ServerConfig{Port: 8000},
			Collector: CollectorConfig{Mode: CollectorModeFallback, Order: []string{"ticketmaster"}, AdapterTimeout: 10 * time.Second},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing name", func(c *Config) { c.App.Name = "" }, true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"bad mode", func(c *Config) { c.Collector.Mode = "round_robin" }, true},
		{"empty order", func(c *Config) { c.Collector.Order = nil }, true},
		{"timeout too long", func(c *Config) { c.Collector.AdapterTimeout = 31 * time.Second }, true},
		{"zero timeout", func(c *Config) { c.Collector.AdapterTimeout = 0 }, true},
		{"database without name", func(c *Config) { c.Database.Enabled = true }, true},
		{"production mock key", func(c *Config) { c.App.Environment = "production" }, true},
		{"production real key", func(c *Config) {
			c.App.Environment = "production"
			c.Ticketmaster.APIKey = "live-key"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTicketmasterConfig_MockMode(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"your_api_key_here", true},
		{"test", true},
		{"live-key", false},
		{"testing-key", false},
	}

	for _, tt := range tests {
		cfg := TicketmasterConfig{APIKey: tt.key}
		assert.Equal(t, tt.want, cfg.MockMode(), "key %q", tt.key)
	}
}
