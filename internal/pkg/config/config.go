package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Presence backends.
const (
	PresenceRedis = "redis"
	PresenceNats  = "nats"
	PresenceNone  = "none"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	JWTSecret string `env:"JWT_SECRET, required"`

	SessionTTL      time.Duration `env:"SESSION_TTL,       default=720h"`
	AccountCacheTTL time.Duration `env:"ACCOUNT_CACHE_TTL, default=30s"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Nats     NatsConfig
	Presence PresenceConfig
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=blog"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type NatsConfig struct {
	URL string `env:"NATS_URL, default=nats://localhost:4222"`
}

type PresenceConfig struct {
	Backend   string        `env:"PRESENCE_BACKEND,    default=redis"`
	Workers   int           `env:"PRESENCE_WORKERS,    default=4"`
	OnlineTTL time.Duration `env:"PRESENCE_ONLINE_TTL, default=12h"`
}

// IsDevelopment reports whether the service runs locally over plain HTTP.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Load reads a .env file when one exists, then configuration from environment
// variables using go-envconfig. Real environment variables win over .env.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Sprintf("config: failed to read .env: %v", err))
	}
	cfg, err := load(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Presence.Backend {
	case PresenceRedis, PresenceNats, PresenceNone:
	default:
		return fmt.Errorf("PRESENCE_BACKEND must be one of redis, nats, none; got %q", c.Presence.Backend)
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	return nil
}
