package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	DriverPostgres = "postgres"
	DriverBadger   = "badger"

	BookListGlobal = "global"
	BookListOwner  = "owner"
)

// Config is built once by Load and treated as read-only afterwards.
type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	ServerPort              string        `env:"SERVER_PORT" envDefault:"4040"`
	ServerReadHeaderTimeout time.Duration `env:"SERVER_READ_HEADER_TIMEOUT" envDefault:"10s"`
	ServerWriteTimeout      time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	ServerIdleTimeout       time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout         time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	JWTSecret  string        `env:"JWT_SECRET"`
	JWTTTL     time.Duration `env:"JWT_TTL" envDefault:"1440s"`
	JWTIssuer  string        `env:"JWT_ISSUER" envDefault:"go-book-library"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`

	StoreDriver    string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL    string `env:"DATABASE_URL"`
	DBMaxConns     int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns     int32  `env:"DB_MIN_CONNS" envDefault:"1"`
	BadgerPath     string `env:"BADGER_PATH" envDefault:"./state/badger"`
	BadgerInMemory bool   `env:"BADGER_IN_MEMORY" envDefault:"false"`

	CORSOrigins    []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
	MetricsEnabled bool     `env:"METRICS_ENABLED" envDefault:"true"`

	BookListScope    string `env:"BOOK_LIST_SCOPE" envDefault:"global"`
	ListDefaultLimit int    `env:"LIST_DEFAULT_LIMIT" envDefault:"50"`
	ListMaxLimit     int    `env:"LIST_MAX_LIMIT" envDefault:"100"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.JWTSecret = strings.TrimSpace(c.JWTSecret)
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	c.BookListScope = strings.ToLower(strings.TrimSpace(c.BookListScope))

	origins := make([]string, 0, len(c.CORSOrigins))
	for _, origin := range c.CORSOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.CORSOrigins = origins
}

func (c *Config) Validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return fmt.Errorf("APP_ENV must be one of development, production, test")
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	switch c.StoreDriver {
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
		if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("DB_MIN_CONNS and DB_MAX_CONNS must satisfy 0 <= min <= max, max > 0")
		}
	case DriverBadger:
		if !c.BadgerInMemory && strings.TrimSpace(c.BadgerPath) == "" {
			return fmt.Errorf("BADGER_PATH cannot be empty")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be postgres or badger")
	}

	switch c.BookListScope {
	case BookListGlobal, BookListOwner:
	default:
		return fmt.Errorf("BOOK_LIST_SCOPE must be global or owner")
	}

	if c.ListMaxLimit <= 0 {
		return fmt.Errorf("LIST_MAX_LIMIT must be positive")
	}

	if c.ListDefaultLimit <= 0 || c.ListDefaultLimit > c.ListMaxLimit {
		return fmt.Errorf("LIST_DEFAULT_LIMIT must be between 1 and LIST_MAX_LIMIT")
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}
