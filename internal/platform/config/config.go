package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	DatabaseURL   string
	JWTSigningKey string
	MetricsToken  string
	CatalogPath   string
	Logging       Logging
	Models        Models
	Redis         RedisConfig
	Kafka         KafkaConfig
	Scheme        SchemeConfig
	RateLimit     RateLimitConfig
}

// Logging selects the slog handler.
type Logging struct {
	Level  string
	Format string
}

// Models points at exported model artifacts. Empty paths select rule scoring.
type Models struct {
	EligibilityPath string
	TrustPath       string
}

// RedisConfig holds Redis connection settings. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds expense event settings. No brokers disables publishing.
type KafkaConfig struct {
	Brokers      []string
	ExpenseTopic string
	Partitions   int32
	Replicas     int16
}

// SchemeConfig sizes the scheme lookup cache.
type SchemeConfig struct {
	CacheSize int
}

// RateLimitConfig bounds requests per client IP and endpoint class.
type RateLimitConfig struct {
	Disabled bool
	Requests int
	Window   time.Duration
}

// DecideLockTTL bounds how long a single proposal submission may hold the pair lock.
var DecideLockTTL = 10 * time.Second

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:          envOr("EXPENSEAI_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSigningKey: os.Getenv("JWT_SIGNING_KEY"),
		MetricsToken:  os.Getenv("METRICS_TOKEN"),
		CatalogPath:   os.Getenv("CATALOG_PATH"),
		Logging: Logging{
			Level:  envOr("LOG_LEVEL", "info"),
			Format: envOr("LOG_FORMAT", "json"),
		},
		Models: Models{
			EligibilityPath: os.Getenv("ELIGIBILITY_MODEL_PATH"),
			TrustPath:       os.Getenv("TRUST_MODEL_PATH"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:      splitList(os.Getenv("KAFKA_BROKERS")),
			ExpenseTopic: envOr("KAFKA_EXPENSE_TOPIC", "expenseai.expenses"),
			Partitions:   int32(envInt("KAFKA_EXPENSE_PARTITIONS", 3)),
			Replicas:     int16(envInt("KAFKA_EXPENSE_REPLICAS", 1)),
		},
		Scheme: SchemeConfig{
			CacheSize: envInt("SCHEME_CACHE_SIZE", 128),
		},
		RateLimit: RateLimitConfig{
			Disabled: envBool("RATE_LIMIT_DISABLED", false),
			Requests: envInt("RATE_LIMIT_REQUESTS", 120),
			Window:   time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
