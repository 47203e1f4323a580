package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Collector modes
const (
	CollectorModeFallback  = "fallback"
	CollectorModeAggregate = "aggregate"
)

// maxAdapterTimeout bounds a single provider call
const maxAdapterTimeout = 30 * time.Second

// Config holds all application configuration
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Kafka        KafkaConfig        `mapstructure:"kafka"`
	OTel         OTelConfig         `mapstructure:"otel"`
	Ticketmaster TicketmasterConfig `mapstructure:"ticketmaster"`
	Viagogo      ViagogoConfig      `mapstructure:"viagogo"`
	Collector    CollectorConfig    `mapstructure:"collector"`
	Booking      BookingConfig      `mapstructure:"booking"`
	CORS         CORSConfig         `mapstructure:"cors"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"` // development, staging, production
	Version     string `mapstructure:"version"`
	LogLevel    string `mapstructure:"log_level"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds the optional PostgreSQL event store settings
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int           `mapstructure:"max_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// RedisConfig holds the optional Redis cache settings
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"` // 0 keeps cached events until restart
}

// KafkaConfig holds the optional discovery feed settings
type KafkaConfig struct {
	Brokers        []string `mapstructure:"brokers"`
	ClientID       string   `mapstructure:"client_id"`
	DiscoveryTopic string   `mapstructure:"discovery_topic"`
}

// Enabled reports whether any broker is configured
func (k *KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	ServiceName   string  `mapstructure:"service_name"`
	CollectorAddr string  `mapstructure:"collector_addr"`
	SampleRatio   float64 `mapstructure:"sample_ratio"`
}

// TicketmasterConfig holds the primary provider settings
type TicketmasterConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// MockMode reports whether the API key is missing or a placeholder
func (t *TicketmasterConfig) MockMode() bool {
	key := strings.TrimSpace(t.APIKey)
	return key == "" || strings.HasPrefix(key, "your_") || key == "test"
}

// ViagogoConfig holds the secondary marketplace settings
type ViagogoConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	AffiliateID string `mapstructure:"affiliate_id"`
	UseMock     bool   `mapstructure:"use_mock"`
}

// CollectorConfig holds orchestration settings
type CollectorConfig struct {
	Mode           string        `mapstructure:"mode"`
	Order          []string      `mapstructure:"order"`
	AdapterTimeout time.Duration `mapstructure:"adapter_timeout"`
}

// BookingConfig holds hotel affiliate settings
type BookingConfig struct {
	AffiliateID        string `mapstructure:"affiliate_id"`
	BaseURL            string `mapstructure:"base_url"`
	DefaultCountryCode string `mapstructure:"default_country_code"`
}

// CORSConfig holds allowed browser origins
type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// .env is optional, environment variables are enough
	_ = v.ReadInConfig()

	return load(v)
}

// LoadWithPath loads configuration from a specific env file
func LoadWithPath(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}
	bindConfig(v, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("APP_NAME", "eventpulse")
	v.SetDefault("APP_ENVIRONMENT", "development")
	v.SetDefault("APP_VERSION", "1.0.0")
	v.SetDefault("APP_LOG_LEVEL", "info")

	// Server
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8000)
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "60s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "120s")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "30s")

	// Database (optional event store)
	v.SetDefault("DATABASE_ENABLED", false)
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "")
	v.SetDefault("DATABASE_DBNAME", "eventpulse")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_CONNS", 10)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "1h")
	v.SetDefault("DATABASE_CONN_MAX_IDLE_TIME", "30m")

	// Redis (optional cache layer)
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 20)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")
	v.SetDefault("REDIS_READ_TIMEOUT", "3s")
	v.SetDefault("REDIS_WRITE_TIMEOUT", "3s")
	v.SetDefault("REDIS_CACHE_TTL", "0s")

	// Kafka (optional discovery feed)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_CLIENT_ID", "eventpulse")
	v.SetDefault("KAFKA_DISCOVERY_TOPIC", "events.discovered")

	// OTel
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "eventpulse")
	v.SetDefault("OTEL_COLLECTOR_ADDR", "localhost:4317")
	v.SetDefault("OTEL_SAMPLE_RATIO", 1.0)

	// Providers
	v.SetDefault("TICKETMASTER_API_KEY", "")
	v.SetDefault("TICKETMASTER_BASE_URL", "https://app.ticketmaster.com/discovery/v2")
	v.SetDefault("VIAGOGO_BASE_URL", "https://www.viagogo.com")
	v.SetDefault("VIAGOGO_AFFILIATE_ID", "eventpulse")
	v.SetDefault("VIAGOGO_USE_MOCK", true)

	// Collector
	v.SetDefault("COLLECTOR_MODE", CollectorModeFallback)
	v.SetDefault("COLLECTOR_ORDER", "ticketmaster,viagogo")
	v.SetDefault("COLLECTOR_ADAPTER_TIMEOUT", "10s")

	// Booking.com
	v.SetDefault("BOOKING_AFFILIATE_ID", "TEST_AID")
	v.SetDefault("BOOKING_BASE_URL", "https://www.booking.com/searchresults.html")
	v.SetDefault("DEFAULT_COUNTRY_CODE", "IL")

	// CORS
	v.SetDefault("CORS_ORIGINS", "*")
}

func bindConfig(v *viper.Viper, cfg *Config) {
	// App
	cfg.App.Name = v.GetString("APP_NAME")
	cfg.App.Environment = v.GetString("APP_ENVIRONMENT")
	cfg.App.Version = v.GetString("APP_VERSION")
	cfg.App.LogLevel = v.GetString("APP_LOG_LEVEL")

	// Server
	cfg.Server.Host = v.GetString("SERVER_HOST")
	cfg.Server.Port = v.GetInt("SERVER_PORT")
	cfg.Server.ReadTimeout = v.GetDuration("SERVER_READ_TIMEOUT")
	cfg.Server.WriteTimeout = v.GetDuration("SERVER_WRITE_TIMEOUT")
	cfg.Server.IdleTimeout = v.GetDuration("SERVER_IDLE_TIMEOUT")
	cfg.Server.ShutdownTimeout = v.GetDuration("SERVER_SHUTDOWN_TIMEOUT")

	// Database
	cfg.Database.Enabled = v.GetBool("DATABASE_ENABLED")
	cfg.Database.Host = v.GetString("DATABASE_HOST")
	cfg.Database.Port = v.GetInt("DATABASE_PORT")
	cfg.Database.User = v.GetString("DATABASE_USER")
	cfg.Database.Password = v.GetString("DATABASE_PASSWORD")
	cfg.Database.DBName = v.GetString("DATABASE_DBNAME")
	cfg.Database.SSLMode = v.GetString("DATABASE_SSLMODE")
	cfg.Database.MaxConns = v.GetInt("DATABASE_MAX_CONNS")
	cfg.Database.ConnMaxLifetime = v.GetDuration("DATABASE_CONN_MAX_LIFETIME")
	cfg.Database.ConnMaxIdleTime = v.GetDuration("DATABASE_CONN_MAX_IDLE_TIME")

	// Redis
	cfg.Redis.Enabled = v.GetBool("REDIS_ENABLED")
	cfg.Redis.Host = v.GetString("REDIS_HOST")
	cfg.Redis.Port = v.GetInt("REDIS_PORT")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")
	cfg.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	cfg.Redis.DialTimeout = v.GetDuration("REDIS_DIAL_TIMEOUT")
	cfg.Redis.ReadTimeout = v.GetDuration("REDIS_READ_TIMEOUT")
	cfg.Redis.WriteTimeout = v.GetDuration("REDIS_WRITE_TIMEOUT")
	cfg.Redis.CacheTTL = v.GetDuration("REDIS_CACHE_TTL")

	// Kafka
	cfg.Kafka.Brokers = splitList(v.GetString("KAFKA_BROKERS"))
	cfg.Kafka.ClientID = v.GetString("KAFKA_CLIENT_ID")
	cfg.Kafka.DiscoveryTopic = v.GetString("KAFKA_DISCOVERY_TOPIC")

	// OTel
	cfg.OTel.Enabled = v.GetBool("OTEL_ENABLED")
	cfg.OTel.ServiceName = v.GetString("OTEL_SERVICE_NAME")
	cfg.OTel.CollectorAddr = v.GetString("OTEL_COLLECTOR_ADDR")
	cfg.OTel.SampleRatio = v.GetFloat64("OTEL_SAMPLE_RATIO")

	// Providers
	cfg.Ticketmaster.APIKey = v.GetString("TICKETMASTER_API_KEY")
	cfg.Ticketmaster.BaseURL = strings.TrimRight(v.GetString("TICKETMASTER_BASE_URL"), "/")
	cfg.Viagogo.BaseURL = strings.TrimRight(v.GetString("VIAGOGO_BASE_URL"), "/")
	cfg.Viagogo.AffiliateID = v.GetString("VIAGOGO_AFFILIATE_ID")
	cfg.Viagogo.UseMock = v.GetBool("VIAGOGO_USE_MOCK")

	// Collector
	cfg.Collector.Mode = strings.ToLower(strings.TrimSpace(v.GetString("COLLECTOR_MODE")))
	cfg.Collector.Order = splitList(strings.ToLower(v.GetString("COLLECTOR_ORDER")))
	cfg.Collector.AdapterTimeout = v.GetDuration("COLLECTOR_ADAPTER_TIMEOUT")

	// Booking.com
	cfg.Booking.AffiliateID = v.GetString("BOOKING_AFFILIATE_ID")
	cfg.Booking.BaseURL = v.GetString("BOOKING_BASE_URL")
	cfg.Booking.DefaultCountryCode = strings.ToUpper(v.GetString("DEFAULT_COUNTRY_CODE"))

	// CORS
	cfg.CORS.Origins = splitList(v.GetString("CORS_ORIGINS"))
}

// splitList splits a comma separated value, dropping blanks
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Collector.Mode {
	case CollectorModeFallback, CollectorModeAggregate:
	default:
		return fmt.Errorf("invalid collector mode %q: want %s or %s", c.Collector.Mode, CollectorModeFallback, CollectorModeAggregate)
	}

	if len(c.Collector.Order) == 0 {
		return fmt.Errorf("COLLECTOR_ORDER must name at least one provider")
	}

	if c.Collector.AdapterTimeout <= 0 || c.Collector.AdapterTimeout > maxAdapterTimeout {
		return fmt.Errorf("COLLECTOR_ADAPTER_TIMEOUT must be within (0, %s], got %s", maxAdapterTimeout, c.Collector.AdapterTimeout)
	}

	if c.Database.Enabled && c.Database.DBName == "" {
		return fmt.Errorf("DATABASE_DBNAME is required when DATABASE_ENABLED=true")
	}

	if c.IsProduction() && c.Ticketmaster.MockMode() {
		return fmt.Errorf("TICKETMASTER_API_KEY must be set in production")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
