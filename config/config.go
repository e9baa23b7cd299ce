package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL       string        `env:"DATABASE_URL"`
	HTTPAddr          string        `env:"HTTP_ADDR" envDefault:":8000"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	QueryTimeout      time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"5s"`
	ConnectTimeout    time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"10s"`
	MaxOpenConns      int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns      int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime   time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	MaxBodyBytes      int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	OTelEndpoint      string        `env:"OTEL_ENDPOINT"`
	ServiceName       string        `env:"SERVICE_NAME" envDefault:"games-service"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
}

// ConfigurationError is returned for any problem that must stop the process
// before it starts listening.
type ConfigurationError struct {
	Msg string
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Err == nil {
		return "configuration: " + e.Msg
	}
	return fmt.Sprintf("configuration: %s: %v", e.Msg, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// LoadDotEnv loads the given .env files into the process environment. Files
// that do not exist are skipped.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return &ConfigurationError{Msg: "load " + name, Err: err}
		}
	}
	return nil
}

// LoadConfig reads the environment, then lets command-line flags override it.
func LoadConfig(flags *flag.FlagSet, args []string) (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, &ConfigurationError{Msg: "parse env", Err: err}
	}

	if flags != nil {
		flags.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "HTTP listen address")
		if args == nil {
			args = []string{}
		}
		if err := flags.Parse(args); err != nil {
			return nil, &ConfigurationError{Msg: "parse flags", Err: err}
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	if c.DatabaseURL == "" {
		return &ConfigurationError{Msg: "DATABASE_URL is required"}
	}
	if c.QueryTimeout <= 0 {
		return &ConfigurationError{Msg: "DB_QUERY_TIMEOUT must be positive"}
	}
	if c.ConnectTimeout <= 0 {
		return &ConfigurationError{Msg: "DB_CONNECT_TIMEOUT must be positive"}
	}
	if c.MaxBodyBytes <= 0 {
		return &ConfigurationError{Msg: "MAX_BODY_BYTES must be positive"}
	}
	if c.MaxOpenConns < 0 || c.MaxIdleConns < 0 {
		return &ConfigurationError{Msg: "connection pool sizes cannot be negative"}
	}
	return nil
}
