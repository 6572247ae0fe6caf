package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP         HTTPConfig
	Graph        GraphConfig
	Logging      LoggingConfig
	Cache        CacheConfig
	Invalidation InvalidationConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	AllowedOriginsCSV string
}

// GraphConfig describes connectivity to the graph database holding the ledger.
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

// CacheConfig selects the response cache backend.
type CacheConfig struct {
	Backend       string // none|memory|redis
	TTL           time.Duration
	ClusterTTL    time.Duration
	SweepInterval time.Duration // memory backend eviction period
	KeyPrefix     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// InvalidationConfig describes the optional Kafka topic the ETL publishes
// ledger updates on. An empty broker list disables the consumer.
type InvalidationConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Cache backends.
const (
	CacheBackendNone   = "none"
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 8000
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 60 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultGraphDatabase    = "helium"
	defaultGraphMaxSessions = 10
	defaultCacheTTL         = 5 * time.Minute
	defaultClusterCacheTTL  = 24 * time.Hour
	defaultCacheSweep       = time.Minute
	defaultCacheKeyPrefix   = "heliumtrace"
	defaultRedisAddr        = "localhost:6379"
	defaultKafkaTopic       = "helium.etl.updates"
	defaultKafkaGroupID     = "heliumtrace-cache"
)

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Host:              valueOrDefault("SERVER_HOST", defaultHost),
			AllowedOriginsCSV: os.Getenv("SERVER_ALLOWED_ORIGINS"),
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			IncludeCaller: parseBoolWithDefault("LOG_INCLUDE_CALLER", false),
		},
		Graph: GraphConfig{
			URI:            os.Getenv("GRAPH_URI"),
			Database:       valueOrDefault("GRAPH_DATABASE", defaultGraphDatabase),
			Username:       os.Getenv("GRAPH_USERNAME"),
			Password:       os.Getenv("GRAPH_PASSWORD"),
			MaxConnections: parseIntWithDefault("GRAPH_MAX_CONNECTIONS", defaultGraphMaxSessions),
		},
		Cache: CacheConfig{
			Backend:       strings.ToLower(valueOrDefault("CACHE_BACKEND", CacheBackendMemory)),
			KeyPrefix:     valueOrDefault("CACHE_KEY_PREFIX", defaultCacheKeyPrefix),
			RedisAddr:     valueOrDefault("REDIS_ADDR", defaultRedisAddr),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       parseIntWithDefault("REDIS_DB", 0),
		},
		Invalidation: InvalidationConfig{
			Brokers: parseCSV(os.Getenv("KAFKA_BROKERS")),
			Topic:   valueOrDefault("KAFKA_INVALIDATION_TOPIC", defaultKafkaTopic),
			GroupID: valueOrDefault("KAFKA_GROUP_ID", defaultKafkaGroupID),
		},
	}

	port, err := parsePort("SERVER_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", defaultReadTimeout, &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", defaultWriteTimeout, &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", defaultIdleTimeout, &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout, &cfg.HTTP.ShutdownTimeout},
		{"CACHE_TTL", defaultCacheTTL, &cfg.Cache.TTL},
		{"CACHE_CLUSTER_TTL", defaultClusterCacheTTL, &cfg.Cache.ClusterTTL},
		{"CACHE_SWEEP_INTERVAL", defaultCacheSweep, &cfg.Cache.SweepInterval},
	}
	for _, d := range durations {
		val, err := parseDuration(d.key, d.fallback)
		if err != nil {
			return Config{}, err
		}
		*d.dst = val
	}

	switch cfg.Cache.Backend {
	case CacheBackendNone, CacheBackendMemory, CacheBackendRedis:
	default:
		return Config{}, fmt.Errorf("invalid CACHE_BACKEND %q", cfg.Cache.Backend)
	}

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}

// ParseCSV splits a comma separated list, dropping blank entries.
func ParseCSV(csv string) []string {
	return parseCSV(csv)
}

func parseCSV(csv string) []string {
	if csv == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
