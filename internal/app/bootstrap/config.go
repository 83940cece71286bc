package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
)

type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	StorageDriver string
	MongoURL      string
	MongoDatabase string
	DatabaseURL   string
	MaxDBConns    int32
	RedisURL      string
	KafkaBrokers  []string
	TopicByEvent  map[string]string

	AllowedOrigins []string

	JWTKeyID         string
	JWTPrivateKeyPEM string
	JWTPublicKeyPEM  string
	TokenTTL         time.Duration
	BcryptCost       int

	OwnerCacheTTL      time.Duration
	LocalCacheTTL      time.Duration
	LocalCacheCapacity int
	MaxWriteAttempts   int

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxRetries   int
}

type configFile struct {
	Service struct {
		ID             string   `yaml:"id"`
		HTTPPort       int      `yaml:"http_port"`
		GRPCPort       int      `yaml:"grpc_port"`
		StorageDriver  string   `yaml:"storage_driver"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"service"`
	Dependencies struct {
		MongoURL      string            `yaml:"mongo_url"`
		MongoDatabase string            `yaml:"mongo_database"`
		PostgresURL   string            `yaml:"postgres_url"`
		RedisURL      string            `yaml:"redis_url"`
		KafkaBrokers  []string          `yaml:"kafka_brokers"`
		KafkaTopics   map[string]string `yaml:"kafka_topics"`
	} `yaml:"dependencies"`
	Tenancy struct {
		TokenTTLHours     int `yaml:"token_ttl_hours"`
		OwnerCacheSeconds int `yaml:"owner_cache_seconds"`
		MaxWriteAttempts  int `yaml:"max_write_attempts"`
	} `yaml:"tenancy"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:          "rental-service",
		HTTPPort:           8080,
		GRPCPort:           9090,
		StorageDriver:      StorageMongo,
		MongoDatabase:      "rental",
		MaxDBConns:         20,
		TopicByEvent:       map[string]string{},
		JWTKeyID:           "rental-key-1",
		TokenTTL:           30 * 24 * time.Hour,
		BcryptCost:         10,
		OwnerCacheTTL:      5 * time.Minute,
		LocalCacheTTL:      30 * time.Second,
		LocalCacheCapacity: 10000,
		MaxWriteAttempts:   5,
		OutboxPollInterval: 2 * time.Second,
		OutboxBatchSize:    100,
		OutboxMaxRetries:   10,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Service.StorageDriver != "" {
			cfg.StorageDriver = f.Service.StorageDriver
		}
		cfg.AllowedOrigins = trimNonEmpty(f.Service.AllowedOrigins)
		if f.Dependencies.MongoURL != "" {
			cfg.MongoURL = f.Dependencies.MongoURL
		}
		if f.Dependencies.MongoDatabase != "" {
			cfg.MongoDatabase = f.Dependencies.MongoDatabase
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = trimNonEmpty(f.Dependencies.KafkaBrokers)
		}
		for event, topic := range f.Dependencies.KafkaTopics {
			cfg.TopicByEvent[event] = strings.TrimSpace(topic)
		}
		if f.Tenancy.TokenTTLHours > 0 {
			cfg.TokenTTL = time.Duration(f.Tenancy.TokenTTLHours) * time.Hour
		}
		if f.Tenancy.OwnerCacheSeconds > 0 {
			cfg.OwnerCacheTTL = time.Duration(f.Tenancy.OwnerCacheSeconds) * time.Second
		}
		if f.Tenancy.MaxWriteAttempts > 0 {
			cfg.MaxWriteAttempts = f.Tenancy.MaxWriteAttempts
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg.ServiceID = envOrDefault("SERVICE_ID", cfg.ServiceID)
	cfg.StorageDriver = strings.ToLower(envOrDefault("STORAGE_DRIVER", cfg.StorageDriver))
	cfg.MongoURL = envOrDefault("MONGO_URL", envOrDefault("MONGO_URI", cfg.MongoURL))
	cfg.MongoDatabase = envOrDefault("MONGO_DATABASE", cfg.MongoDatabase)
	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.AllowedOrigins = envCSV("CORS_ALLOWED_ORIGINS", cfg.AllowedOrigins)
	cfg.JWTKeyID = envOrDefault("JWT_KEY_ID", cfg.JWTKeyID)
	cfg.JWTPrivateKeyPEM = envOrDefault("JWT_PRIVATE_KEY", cfg.JWTPrivateKeyPEM)
	cfg.JWTPublicKeyPEM = envOrDefault("JWT_PUBLIC_KEY", cfg.JWTPublicKeyPEM)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.TokenTTL = time.Duration(envInt("TOKEN_TTL_HOURS", int(cfg.TokenTTL.Hours()))) * time.Hour
	cfg.BcryptCost = envInt("BCRYPT_COST", cfg.BcryptCost)
	cfg.OwnerCacheTTL = time.Duration(envInt("OWNER_CACHE_SECONDS", int(cfg.OwnerCacheTTL.Seconds()))) * time.Second
	cfg.LocalCacheTTL = time.Duration(envInt("LOCAL_CACHE_SECONDS", int(cfg.LocalCacheTTL.Seconds()))) * time.Second
	cfg.LocalCacheCapacity = envInt("LOCAL_CACHE_CAPACITY", cfg.LocalCacheCapacity)
	cfg.MaxWriteAttempts = envInt("MAX_WRITE_ATTEMPTS", cfg.MaxWriteAttempts)
	cfg.OutboxPollInterval = time.Duration(envInt("OUTBOX_POLL_SECONDS", int(cfg.OutboxPollInterval.Seconds()))) * time.Second
	cfg.OutboxBatchSize = envInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.OutboxMaxRetries = envInt("OUTBOX_MAX_RETRIES", cfg.OutboxMaxRetries)

	switch cfg.StorageDriver {
	case StorageMemory:
	case StorageMongo:
		if cfg.MongoURL == "" {
			return Config{}, fmt.Errorf("missing MONGO_URL")
		}
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	if (cfg.JWTPrivateKeyPEM == "") != (cfg.JWTPublicKeyPEM == "") {
		return Config{}, fmt.Errorf("JWT_PRIVATE_KEY and JWT_PUBLIC_KEY must be set together")
	}
	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envCSV(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	return trimNonEmpty(strings.Split(raw, ","))
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
