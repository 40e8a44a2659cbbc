package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort             = "8080"
	defaultReadTimeout      = 15 * time.Second
	defaultWriteTimeout     = 30 * time.Second
	defaultLogLevel         = "info"
	defaultRegion           = "us-east-1"
	defaultOrdersTable      = "orders"
	defaultIdempotencyTable = "idempotency"
	defaultCartTable        = "carts"
	defaultMetricsNamespace = "ClubShop"
	defaultCartStore        = CartStoreDynamo
	defaultCartTTL          = 30 * 24 * time.Hour
	defaultIdempotencyTTL   = 48 * time.Hour
	defaultJWTIssuer        = "clubshop"
)

// Cart store backends.
const (
	CartStoreMemory = "memory"
	CartStoreRedis  = "redis"
	CartStoreDynamo = "dynamodb"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server      ServerConfig
	AWS         AWSConfig
	Tables      TablesConfig
	Queue       QueueConfig
	Metrics     MetricsConfig
	Cart        CartConfig
	Redis       RedisConfig
	Auth        AuthConfig
	Idempotency IdempotencyConfig
	Stores      StoresConfig
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	RunLocal     bool
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	LogLevel     string
}

// AWSConfig selects region and an optional endpoint override (LocalStack).
type AWSConfig struct {
	Region           string
	EndpointOverride string
}

// TablesConfig names the DynamoDB tables.
type TablesConfig struct {
	Orders      string
	Idempotency string
	Carts       string
}

// QueueConfig points at the order events queue.
type QueueConfig struct {
	OrdersURL string
}

// MetricsConfig controls CloudWatch custom metrics.
type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

// CartConfig selects where carts are persisted.
type CartConfig struct {
	Store string
	TTL   time.Duration
}

// RedisConfig is used when Cart.Store is redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AuthConfig holds bearer token verification settings.
type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

// IdempotencyConfig bounds how long a checkout key is remembered.
type IdempotencyConfig struct {
	TTL time.Duration
}

// StoresConfig optionally overrides the built-in store catalog.
type StoresConfig struct {
	File string
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration from defaults and environment variables.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{useSystemEnv: true}
	for _, opt := range opts {
		opt(&options)
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			return os.LookupEnv(key)
		}
		return "", false
	}

	cfg := Config{
		Server: ServerConfig{
			RunLocal:     boolWithDefault(lookup, "RUN_LOCAL", false),
			Port:         stringWithDefault(lookup, "PORT", defaultPort),
			ReadTimeout:  durationWithDefault(lookup, "SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			LogLevel:     stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel),
		},
		AWS: AWSConfig{
			Region:           stringWithDefault(lookup, "AWS_REGION", defaultRegion),
			EndpointOverride: stringWithDefault(lookup, "AWS_ENDPOINT_OVERRIDE", ""),
		},
		Tables: TablesConfig{
			Orders:      stringWithDefault(lookup, "ORDERS_TABLE", defaultOrdersTable),
			Idempotency: stringWithDefault(lookup, "IDEMPOTENCY_TABLE", defaultIdempotencyTable),
			Carts:       stringWithDefault(lookup, "CART_TABLE", defaultCartTable),
		},
		Queue: QueueConfig{
			OrdersURL: stringWithDefault(lookup, "ORDERS_QUEUE_URL", ""),
		},
		Metrics: MetricsConfig{
			Enabled:   boolWithDefault(lookup, "METRICS_ENABLED", true),
			Namespace: stringWithDefault(lookup, "METRICS_NAMESPACE", defaultMetricsNamespace),
		},
		Cart: CartConfig{
			Store: strings.ToLower(stringWithDefault(lookup, "CART_STORE", defaultCartStore)),
			TTL:   durationWithDefault(lookup, "CART_TTL", defaultCartTTL),
		},
		Redis: RedisConfig{
			Addr:     stringWithDefault(lookup, "REDIS_ADDR", ""),
			Password: stringWithDefault(lookup, "REDIS_PASSWORD", ""),
			DB:       intWithDefault(lookup, "REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret: stringWithDefault(lookup, "JWT_SECRET", ""),
			Issuer:    stringWithDefault(lookup, "JWT_ISSUER", defaultJWTIssuer),
		},
		Idempotency: IdempotencyConfig{
			TTL: durationWithDefault(lookup, "IDEMPOTENCY_TTL", defaultIdempotencyTTL),
		},
		Stores: StoresConfig{
			File: stringWithDefault(lookup, "STORES_FILE", ""),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string
	if cfg.Tables.Orders == "" {
		missing = append(missing, "ORDERS_TABLE")
	}
	if cfg.Tables.Idempotency == "" {
		missing = append(missing, "IDEMPOTENCY_TABLE")
	}
	switch cfg.Cart.Store {
	case CartStoreMemory:
	case CartStoreRedis:
		if cfg.Redis.Addr == "" {
			missing = append(missing, "REDIS_ADDR")
		}
	case CartStoreDynamo:
		if cfg.Tables.Carts == "" {
			missing = append(missing, "CART_TABLE")
		}
	default:
		missing = append(missing, "CART_STORE")
	}
	if cfg.Idempotency.TTL <= 0 {
		missing = append(missing, "IDEMPOTENCY_TTL")
	}
	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

// ValidateAPI checks the settings only the HTTP API needs.
func (c Config) ValidateAPI() error {
	var missing []string
	if c.Queue.OrdersURL == "" {
		missing = append(missing, "ORDERS_QUEUE_URL")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
