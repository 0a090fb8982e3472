// server/config/config.go
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

type Config struct {
	Host       string
	Port       string
	Env        string
	DataDir    string
	BlogsDir   string
	ScriptsDir string
	// FrontendURL is the allowed CORS origin in production.
	FrontendURL string
	MaxScans    int64
	Location    *time.Location
	LogLevel    string
	LogFormat   string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		Host:        getenv("PORTFOLIO_HOST", "0.0.0.0"),
		Port:        getenv("PORT", "5001"),
		Env:         getenv("PORTFOLIO_ENV", EnvDevelopment),
		DataDir:     getenv("PORTFOLIO_DATA_DIR", "./data"),
		BlogsDir:    os.Getenv("PORTFOLIO_BLOGS_DIR"),
		ScriptsDir:  os.Getenv("PORTFOLIO_SCRIPTS_DIR"),
		FrontendURL: os.Getenv("FRONTEND_URL"),
		MaxScans:    8,
		LogLevel:    getenv("LOG_LEVEL", "info"),
		LogFormat:   getenv("LOG_FORMAT", "console"),
	}

	if v := os.Getenv("PORTFOLIO_MAX_SCANS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("PORTFOLIO_MAX_SCANS must be a positive integer, got %q", v)
		}
		cfg.MaxScans = n
	}

	loc, err := time.LoadLocation(getenv("PORTFOLIO_TZ", "Local"))
	if err != nil {
		return nil, fmt.Errorf("PORTFOLIO_TZ: %w", err)
	}
	cfg.Location = loc

	return cfg, nil
}

// BlogsRoot is the Content Store root, <data>/blogs unless set explicitly.
func (c *Config) BlogsRoot() string {
	if c.BlogsDir != "" {
		return c.BlogsDir
	}
	return filepath.Join(c.DataDir, "blogs")
}

func (c *Config) ScriptsRoot() string {
	if c.ScriptsDir != "" {
		return c.ScriptsDir
	}
	return filepath.Join(c.DataDir, "scripts")
}

func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// AllowedOrigin is "*" everywhere except production with FRONTEND_URL set.
func (c *Config) AllowedOrigin() string {
	if c.Env == EnvProduction && c.FrontendURL != "" {
		return c.FrontendURL
	}
	return "*"
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) NewLogger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if c.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
