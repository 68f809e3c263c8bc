package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/isocert"
	"github.com/fwojciec/isocert/mysql"
	isoredis "github.com/fwojciec/isocert/redis"
	"github.com/fwojciec/isocert/search"
	"gopkg.in/yaml.v3"
)

// Config is the program configuration. It is read from a YAML file and
// then overridden by environment variables.
type Config struct {
	Database DatabaseConfig  `yaml:"database"`
	Redis    isoredis.Config `yaml:"redis"`
	LLM      LLMConfig       `yaml:"llm"`
	Search   SearchConfig    `yaml:"search"`
	Server   ServerConfig    `yaml:"server"`
	Log      LogConfig       `yaml:"log"`

	// Platform names the deployment the search timeout was derived from.
	Platform string `yaml:"-"`
}

// DatabaseConfig selects the relational store.
type DatabaseConfig struct {
	// Driver is "sqlite" or "mysql".
	Driver string       `yaml:"driver"`
	Path   string       `yaml:"path"`
	DSN    string       `yaml:"dsn"`
	MySQL  mysql.Config `yaml:"mysql"`
}

// LLMConfig selects the language model provider.
type LLMConfig struct {
	// Provider is "gemini", "openai" or "none". Empty picks the first
	// provider with an API key.
	Provider     string `yaml:"provider"`
	Model        string `yaml:"model"`
	GeminiAPIKey string `yaml:"-"`
	OpenAIAPIKey string `yaml:"-"`
}

// SearchConfig tunes the lookup pipeline.
type SearchConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
	RateLimit float64       `yaml:"rate_limit"`
	Browser   bool          `yaml:"browser"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Database: DatabaseConfig{Driver: "sqlite", Path: defaultDBPath()},
		Search: SearchConfig{
			CacheTTL:  isocert.DefaultCacheTTL,
			RateLimit: 2,
		},
		Server: ServerConfig{Addr: ":8080"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig reads the YAML file at path over the defaults and applies
// environment overrides. A missing file is not an error.
func LoadConfig(path string, getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %q: %w", path, err)
			}
		}
	}

	applyEnv(&cfg, getenv)

	timeout, platform := search.PlatformTimeout(getenv)
	if cfg.Search.Timeout <= 0 {
		cfg.Search.Timeout = timeout
	}
	cfg.Platform = platform

	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("ISOCERT_DB"); v != "" {
		cfg.Database.Driver = "sqlite"
		cfg.Database.Path = v
	}
	if v := getenv("ISOCERT_MYSQL_DSN"); v != "" {
		cfg.Database.Driver = "mysql"
		cfg.Database.DSN = v
	}
	if v := getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := getenv("ISOCERT_LLM"); v != "" {
		cfg.LLM.Provider = v
	}
	cfg.LLM.GeminiAPIKey = getenv("GEMINI_API_KEY")
	cfg.LLM.OpenAIAPIKey = getenv("OPENAI_API_KEY")
}

// Validate returns an error if the configuration is inconsistent.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return isocert.Errorf(isocert.EINVALID, "database path required")
		}
	case "mysql":
		if c.Database.DSN == "" && c.Database.MySQL.Addr == "" {
			return isocert.Errorf(isocert.EINVALID, "mysql dsn or addr required")
		}
	default:
		return isocert.Errorf(isocert.EINVALID, "unknown database driver %q", c.Database.Driver)
	}

	switch strings.ToLower(c.LLM.Provider) {
	case "", "none", "gemini", "openai":
	default:
		return isocert.Errorf(isocert.EINVALID, "unknown llm provider %q", c.LLM.Provider)
	}

	if c.Search.CacheTTL <= 0 {
		return isocert.Errorf(isocert.EINVALID, "cache ttl must be positive")
	}
	return nil
}

// MySQLDSN returns the configured DSN, building one from the MySQL
// settings when none is given.
func (c Config) MySQLDSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}
	return mysql.DSN(c.Database.MySQL)
}

// LLMProvider resolves the provider to use: the configured one, or the
// first with an API key. It returns "none" when no model is available.
func (c Config) LLMProvider() string {
	if p := strings.ToLower(c.LLM.Provider); p != "" {
		return p
	}
	switch {
	case c.LLM.GeminiAPIKey != "":
		return "gemini"
	case c.LLM.OpenAIAPIKey != "":
		return "openai"
	default:
		return "none"
	}
}

// NewLogger returns a logger writing to w per the log settings.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "isocert.db"
	}
	return filepath.Join(home, ".isocert", "isocert.db")
}
