package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,        default=8080"`
	Env       string        `env:"ENV,         default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,   default=24h"`
	LogLevel  string        `env:"LOG_LEVEL,   default=info"`

	// Store selects the user persistence backend: "mongo" or "memory".
	Store string `env:"STORE, default=mongo"`

	// CORSOrigins is the comma-separated allow-list for browser clients.
	CORSOrigins []string `env:"CORS_ORIGINS, default=http://localhost:3000,http://localhost:5173"`

	Mongo     MongoConfig
	Redis     RedisConfig
	SMTP      SMTPConfig
	RateLimit RateLimitConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=coursin"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Host       string `env:"SMTP_HOST,     default=localhost"`
	Port       int    `env:"SMTP_PORT,     default=587"`
	Username   string `env:"SMTP_USER"`
	Password   string `env:"SMTP_PASSWORD"`
	From       string `env:"SMTP_FROM,     default=no-reply@coursin.example"`
	AdminEmail string `env:"ADMIN_EMAIL"`
	// FrontendURL is linked from outbound emails.
	FrontendURL string `env:"FRONTEND_URL, default=http://localhost:3000"`
}

type RateLimitConfig struct {
	// Store selects the counter backend: "memory" (default, process-local)
	// or "redis" (shared across instances).
	Store  string        `env:"RATE_LIMIT_STORE,  default=memory"`
	Limit  int           `env:"RATE_LIMIT_MAX,    default=2"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW, default=20m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
