package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/cardkeeper/card-indexer/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug       bool   `mapstructure:"debug"`
	SentryDSN   string `mapstructure:"sentry_dsn"`
	Environment string `mapstructure:"environment"` // reported to Sentry
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL               string        `mapstructure:"url"`
	StreamName        string        `mapstructure:"stream_name"`
	JobsSubject       string        `mapstructure:"jobs_subject"`
	ConsumerName      string        `mapstructure:"consumer_name"`
	MaxReconnects     int           `mapstructure:"max_reconnects"`
	ReconnectWait     time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName    string        `mapstructure:"connection_name"`
	AckWait           time.Duration `mapstructure:"ack_wait"`
	MaxDeliver        int           `mapstructure:"max_deliver"`
	DuplicateWindow   time.Duration `mapstructure:"duplicate_window"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"` // How often a long running job reports progress to the server
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// BrowserConfig holds page automation configuration
type BrowserConfig struct {
	ControlURL string `mapstructure:"control_url"` // Attach to a running browser instead of launching one
	Bin        string `mapstructure:"bin"`
	Headless   bool   `mapstructure:"headless"`
	Leakless   bool   `mapstructure:"leakless"`
}

// WikiConfig holds the set listing source configuration
type WikiConfig struct {
	PageURLTemplate   string        `mapstructure:"page_url_template"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout"`
}

// CardInfoConfig holds the card info API configuration
type CardInfoConfig struct {
	APIURL      string          `mapstructure:"api_url"`
	HTTPTimeout time.Duration   `mapstructure:"http_timeout"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig holds the request budget of one upstream provider
type RateLimitConfig struct {
	RequestsPerSecond int           `mapstructure:"requests_per_second"` // 0 disables rate limiting
	Burst             int           `mapstructure:"burst"`
	MaxQueueTime      time.Duration `mapstructure:"max_queue_time"` // How long a request may wait for a token
}

// RateLimiterConfig holds the rate limiting proxy configuration shared by every provider
type RateLimiterConfig struct {
	RedisKeyPrefix          string                     `mapstructure:"redis_key_prefix"`
	MaxWorkers              int                        `mapstructure:"max_workers"`
	MaxQueueSize            int                        `mapstructure:"max_queue_size"`
	EnableLocalFallback     bool                       `mapstructure:"enable_local_fallback"`     // Keep serving with a local limiter while Redis is down
	LocalFallbackMultiplier float64                    `mapstructure:"local_fallback_multiplier"` // Share of the provider rate each process takes while on the local limiter
	HealthCheckInterval     time.Duration              `mapstructure:"health_check_interval"`
	Providers               map[string]RateLimitConfig `mapstructure:"-"`
}

// MarketplaceConfig holds the marketplace search configuration
type MarketplaceConfig struct {
	SearchURL         string        `mapstructure:"search_url"`
	SearchSelector    string        `mapstructure:"search_selector"`
	ProductPathMarker string        `mapstructure:"product_path_marker"`
	QueryParams       string        `mapstructure:"query_params"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout"`
}

// DiagnosticsConfig holds the diagnostic sink configuration
type DiagnosticsConfig struct {
	Dir string `mapstructure:"dir"`
}

// HarvesterConfig holds the per-set retry policy of the harvest worker
type HarvesterConfig struct {
	Cooldown            time.Duration `mapstructure:"cooldown"`
	MaxTransientRetries int           `mapstructure:"max_transient_retries"` // 0 retries transient failures forever
}

// EnrichmentSettings holds the enrichment batcher tuning
type EnrichmentSettings struct {
	BatchSize      int           `mapstructure:"batch_size"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay"`
	BatchPause     time.Duration `mapstructure:"batch_pause"`
}

// NotifierConfig holds the completion notifier configuration
type NotifierConfig struct {
	HubPath           string        `mapstructure:"hub_path"`
	KeepAliveInterval time.Duration `mapstructure:"keep_alive_interval"`
	RelayConsumerName string        `mapstructure:"relay_consumer_name"`
	InstanceID        string        `mapstructure:"instance_id"`        // defaults to the hostname
	InactiveThreshold time.Duration `mapstructure:"inactive_threshold"` // idle time before a replica's relay consumer is removed
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host               string   `mapstructure:"host"`
	Port               int      `mapstructure:"port"`
	ReadTimeout        int      `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout       int      `mapstructure:"write_timeout"` // in seconds
	IdleTimeout        int      `mapstructure:"idle_timeout"`  // in seconds
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	RateLimitPerMinute int      `mapstructure:"rate_limit_per_minute"`
}

// HarvestWorkerConfig holds configuration for harvest-worker
type HarvestWorkerConfig struct {
	BaseConfig  `mapstructure:",squash"`
	Database    DatabaseConfig    `mapstructure:"database"`
	NATS        NATSConfig        `mapstructure:"nats"`
	Browser     BrowserConfig     `mapstructure:"browser"`
	Wiki        WikiConfig        `mapstructure:"wiki"`
	CardInfo    CardInfoConfig    `mapstructure:"card_info"`
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics"`
	Harvester   HarvesterConfig   `mapstructure:"harvester"`
	Redis       RedisConfig       `mapstructure:"redis"`
	RateLimiter RateLimiterConfig `mapstructure:"rate_limiter"`
}

// EnrichmentConfig holds configuration for the enrichment command
type EnrichmentConfig struct {
	BaseConfig  `mapstructure:",squash"`
	Database    DatabaseConfig     `mapstructure:"database"`
	Browser     BrowserConfig      `mapstructure:"browser"`
	Marketplace MarketplaceConfig  `mapstructure:"marketplace"`
	Enrichment  EnrichmentSettings `mapstructure:"enrichment"`
}

// APIConfig holds configuration for API server
type APIConfig struct {
	BaseConfig  `mapstructure:",squash"`
	Server      ServerConfig       `mapstructure:"server"`
	Database    DatabaseConfig     `mapstructure:"database"`
	NATS        NATSConfig         `mapstructure:"nats"`
	Redis       RedisConfig        `mapstructure:"redis"`
	Browser     BrowserConfig      `mapstructure:"browser"`
	CardInfo    CardInfoConfig     `mapstructure:"card_info"`
	Marketplace MarketplaceConfig  `mapstructure:"marketplace"`
	Enrichment  EnrichmentSettings `mapstructure:"enrichment"`
	Notifier    NotifierConfig     `mapstructure:"notifier"`
	RateLimiter RateLimiterConfig  `mapstructure:"rate_limiter"`
}

// MigrateConfig holds configuration for the migrate command
type MigrateConfig struct {
	BaseConfig     `mapstructure:",squash"`
	Database       DatabaseConfig `mapstructure:"database"`
	MigrationsPath string         `mapstructure:"migrations_path"`
}

// LoadHarvestWorkerConfig loads configuration for harvest-worker
func LoadHarvestWorkerConfig(configFile string, envPath string) (*HarvestWorkerConfig, error) {
	v := configureViper("harvest-worker", configFile, envPath)

	// Set defaults
	setDatabaseDefaults(v)
	setNATSDefaults(v, "harvest-worker")
	setBrowserDefaults(v)
	v.SetDefault("nats.ack_wait", "5m")
	v.SetDefault("nats.heartbeat_interval", "1m")
	v.SetDefault("wiki.page_url_template", "https://yugipedia.com/wiki/Set_Card_Lists:%s_(TCG-EN)")
	v.SetDefault("wiki.navigation_timeout", "60s")
	setCardInfoDefaults(v)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("diagnostics.dir", "diagnostics")
	v.SetDefault("harvester.cooldown", "30s")
	v.SetDefault("harvester.max_transient_retries", 0)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config HarvestWorkerConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// LoadEnrichmentConfig loads configuration for the enrichment command
func LoadEnrichmentConfig(configFile string, envPath string) (*EnrichmentConfig, error) {
	v := configureViper("enrichment", configFile, envPath)

	// Set defaults
	setDatabaseDefaults(v)
	setBrowserDefaults(v)
	setMarketplaceDefaults(v)
	setEnrichmentDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config EnrichmentConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// LoadAPIConfig loads configuration for API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.rate_limit_per_minute", 30)
	setDatabaseDefaults(v)
	setNATSDefaults(v, "api")
	setBrowserDefaults(v)
	setMarketplaceDefaults(v)
	setEnrichmentDefaults(v)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.cache_ttl", "1h")
	setCardInfoDefaults(v)
	v.SetDefault("notifier.hub_path", "/hubs/notifications")
	v.SetDefault("notifier.keep_alive_interval", "15s")
	v.SetDefault("notifier.relay_consumer_name", "notification-relay")
	v.SetDefault("notifier.inactive_threshold", "1h")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// LoadMigrateConfig loads configuration for the migrate command
func LoadMigrateConfig(configFile string, envPath string) (*MigrateConfig, error) {
	v := configureViper("migrate", configFile, envPath)

	// Set defaults
	setDatabaseDefaults(v)
	v.SetDefault("migrations_path", "db/migrations")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config MigrateConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDatabaseDefaults(v *viper.Viper) {
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
}

func setNATSDefaults(v *viper.Viper, service string) {
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", domain.DEFAULT_JOBS_STREAM_NAME)
	v.SetDefault("nats.jobs_subject", domain.DEFAULT_JOBS_SUBJECT)
	v.SetDefault("nats.consumer_name", service)
	v.SetDefault("nats.connection_name", service)
	v.SetDefault("nats.ack_wait", "30s")
	v.SetDefault("nats.max_deliver", -1)
	v.SetDefault("nats.duplicate_window", "2m")
}

func setCardInfoDefaults(v *viper.Viper) {
	v.SetDefault("card_info.api_url", "https://db.ygoprodeck.com/api/v7")
	v.SetDefault("card_info.http_timeout", "30s")
	v.SetDefault("card_info.rate_limit.requests_per_second", 15)
	v.SetDefault("card_info.rate_limit.burst", 15)
	v.SetDefault("card_info.rate_limit.max_queue_time", "2m")
	v.SetDefault("rate_limiter.redis_key_prefix", "card-indexer:limiter:")
	v.SetDefault("rate_limiter.max_workers", 16)
	v.SetDefault("rate_limiter.max_queue_size", 1000)
	v.SetDefault("rate_limiter.enable_local_fallback", true)
	v.SetDefault("rate_limiter.local_fallback_multiplier", 0.5)
	v.SetDefault("rate_limiter.health_check_interval", "10s")
}

func setBrowserDefaults(v *viper.Viper) {
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.leakless", true)
}

func setMarketplaceDefaults(v *viper.Viper) {
	v.SetDefault("marketplace.search_url", "https://www.cardmarket.com/en/YuGiOh")
	v.SetDefault("marketplace.search_selector", "input[name='searchString']")
	v.SetDefault("marketplace.product_path_marker", "/Products/")
	v.SetDefault("marketplace.query_params", "language=1&minCondition=2")
	v.SetDefault("marketplace.navigation_timeout", "30s")
}

func setEnrichmentDefaults(v *viper.Viper) {
	v.SetDefault("enrichment.batch_size", 3)
	v.SetDefault("enrichment.max_attempts", 2)
	v.SetDefault("enrichment.retry_base_delay", "2s")
	v.SetDefault("enrichment.batch_pause", "5s")
}

// readConfig reads the config file if one exists; environment variables alone are a valid configuration
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Validate checks the values harvest-worker cannot start without
func (c *HarvestWorkerConfig) Validate() error {
	return validate(
		required("database.host", c.Database.Host),
		required("database.dbname", c.Database.DBName),
		required("nats.url", c.NATS.URL),
		required("nats.jobs_subject", c.NATS.JobsSubject),
		required("card_info.api_url", c.CardInfo.APIURL),
		required("diagnostics.dir", c.Diagnostics.Dir),
		notNegative("card_info.rate_limit.requests_per_second", int64(c.CardInfo.RateLimit.RequestsPerSecond)),
		positive("harvester.cooldown", int64(c.Harvester.Cooldown)),
	)
}

// Validate checks the values the enrichment command cannot start without
func (c *EnrichmentConfig) Validate() error {
	return validate(
		required("database.host", c.Database.Host),
		required("database.dbname", c.Database.DBName),
		required("marketplace.search_url", c.Marketplace.SearchURL),
		positive("enrichment.batch_size", int64(c.Enrichment.BatchSize)),
		positive("enrichment.max_attempts", int64(c.Enrichment.MaxAttempts)),
	)
}

// Validate checks the values the API server cannot start without
func (c *APIConfig) Validate() error {
	return validate(
		required("database.host", c.Database.Host),
		required("database.dbname", c.Database.DBName),
		required("nats.url", c.NATS.URL),
		required("redis.addr", c.Redis.Addr),
		required("notifier.hub_path", c.Notifier.HubPath),
		positive("enrichment.batch_size", int64(c.Enrichment.BatchSize)),
		positive("enrichment.max_attempts", int64(c.Enrichment.MaxAttempts)),
	)
}

// Validate checks the values the migrate command cannot start without
func (c *MigrateConfig) Validate() error {
	return validate(
		required("database.host", c.Database.Host),
		required("database.dbname", c.Database.DBName),
		required("migrations_path", c.MigrationsPath),
	)
}

func required(key string, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", key)
	}
	return nil
}

func notNegative(key string, value int64) error {
	if value < 0 {
		return fmt.Errorf("%s must not be negative", key)
	}
	return nil
}

func positive(key string, value int64) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive", key)
	}
	return nil
}

// validate joins every failed check into a single contract error
func validate(checks ...error) error {
	if err := errors.Join(checks...); err != nil {
		return domain.NewError(domain.ErrorKindContract, "", err)
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/harvest-worker/, cmd/api/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("CARD_INDEXER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	commonKeys := []string{
		"debug",
		"sentry_dsn",
		"environment",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.jobs_subject",
		"nats.consumer_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		"nats.ack_wait",
		"nats.max_deliver",
		"nats.duplicate_window",
		"nats.heartbeat_interval",
		// Redis
		"redis.addr",
		"redis.password",
		"redis.db",
		"redis.cache_ttl",
		// Browser
		"browser.control_url",
		"browser.bin",
		"browser.headless",
		"browser.leakless",
		// Wiki
		"wiki.page_url_template",
		"wiki.navigation_timeout",
		// Card info
		"card_info.api_url",
		"card_info.http_timeout",
		"card_info.rate_limit.requests_per_second",
		"card_info.rate_limit.burst",
		"card_info.rate_limit.max_queue_time",
		// Rate limiter
		"rate_limiter.redis_key_prefix",
		"rate_limiter.max_workers",
		"rate_limiter.max_queue_size",
		"rate_limiter.enable_local_fallback",
		"rate_limiter.local_fallback_multiplier",
		"rate_limiter.health_check_interval",
		// Marketplace
		"marketplace.search_url",
		"marketplace.search_selector",
		"marketplace.product_path_marker",
		"marketplace.query_params",
		"marketplace.navigation_timeout",
		// Diagnostics
		"diagnostics.dir",
		// Harvester
		"harvester.cooldown",
		"harvester.max_transient_retries",
		// Enrichment
		"enrichment.batch_size",
		"enrichment.max_attempts",
		"enrichment.retry_base_delay",
		"enrichment.batch_pause",
		// Notifier
		"notifier.hub_path",
		"notifier.keep_alive_interval",
		"notifier.relay_consumer_name",
		"notifier.instance_id",
		"notifier.inactive_threshold",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.cors_allowed_origins",
		"server.rate_limit_per_minute",
		// Migrate
		"migrations_path",
	}

	for _, key := range commonKeys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// WithProvider returns a copy of the limiter configuration with one provider budget set
func (c RateLimiterConfig) WithProvider(name string, limit RateLimitConfig) RateLimiterConfig {
	providers := make(map[string]RateLimitConfig, len(c.Providers)+1)
	for k, v := range c.Providers {
		providers[k] = v
	}
	providers[name] = limit
	c.Providers = providers
	return c
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "go.mod")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL returns the database connection string in URL form, as expected by the migration tool
func (c *DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}
