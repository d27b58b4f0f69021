package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ModeMock    = "mock"
	ModeNetwork = "network"
)

type Config struct {
	Env    string `env:"APP_ENV" envDefault:"dev"`
	Port   string `env:"API_PORT" envDefault:"8080"`
	DBURL  string `env:"DB_DSN"`                                         // empty: in-memory mock backend
	Origin string `env:"CORS_ORIGIN" envDefault:"http://localhost:3000"` // CORS

	SessionSecret string        `env:"SESSION_SECRET" envDefault:"dev-secret-change-me"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	RateLimit     int           `env:"RATE_LIMIT" envDefault:"200"` // requests per IP per minute

	UploadDir      string `env:"UPLOAD_DIR" envDefault:"./data/uploads"`
	UploadMaxBytes int64  `env:"UPLOAD_MAX_BYTES" envDefault:"10485760"`
	PublicURL      string `env:"PUBLIC_URL" envDefault:"http://localhost:8080"`

	MockLatency time.Duration `env:"MOCK_LATENCY" envDefault:"0s"`

	// client side
	DataMode    string `env:"DATA_MODE" envDefault:"mock"`
	APIURL      string `env:"API_URL" envDefault:"http://localhost:8080"`
	SessionPath string `env:"SESSION_PATH" envDefault:"./data/session.db"`
	RedisAddr   string `env:"REDIS_ADDR"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DataMode != ModeMock && cfg.DataMode != ModeNetwork {
		return cfg, fmt.Errorf("DATA_MODE must be %q or %q, got %q", ModeMock, ModeNetwork, cfg.DataMode)
	}
	if cfg.Env != "dev" && cfg.SessionSecret == "dev-secret-change-me" {
		return cfg, fmt.Errorf("SESSION_SECRET must be set outside dev")
	}
	return cfg, nil
}
