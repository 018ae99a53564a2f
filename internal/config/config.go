// Package config resolves runtime configuration: defaults, then an optional
// YAML file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRemote = "remote"
)

type Config struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	// StaticDir holds the web front-end bundle served by serve. Empty disables it.
	StaticDir string `yaml:"static_dir"`

	Store      Store      `yaml:"store"`
	Describe   Describe   `yaml:"describe"`
	Controller Controller `yaml:"controller"`
	Auth       Auth       `yaml:"auth"`
}

type Store struct {
	Backend       string        `yaml:"backend"`
	SQLitePath    string        `yaml:"sqlite_path"`
	CatalogURL    string        `yaml:"catalog_url"`
	CatalogAPIKey string        `yaml:"catalog_api_key"`
	ReadLatency   time.Duration `yaml:"read_latency"`
	WriteLatency  time.Duration `yaml:"write_latency"`

	// SeedFile is a YAML file or Parquet directory loaded into an empty store.
	SeedFile string `yaml:"seed_file"`
}

type Describe struct {
	Provider     string        `yaml:"provider"`
	Model        string        `yaml:"model"`
	Temperature  float64       `yaml:"temperature"`
	Timeout      time.Duration `yaml:"timeout"`
	PerMinute    int           `yaml:"per_minute"`
	GeminiAPIKey string        `yaml:"gemini_api_key"`
	OpenAIAPIKey string        `yaml:"openai_api_key"`
	OpenAIURL    string        `yaml:"openai_url"`
	OllamaURL    string        `yaml:"ollama_url"`
}

type Controller struct {
	LoadAttempts int           `yaml:"load_attempts"`
	LoadBackoff  time.Duration `yaml:"load_backoff"`
	StoreTimeout time.Duration `yaml:"store_timeout"`
	AccountName  string        `yaml:"account_name"`
}

type Auth struct {
	AdminEmail        string `yaml:"admin_email"`
	AdminPasswordHash string `yaml:"admin_password_hash"`
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Port:     "8888",
		LogLevel: "info",
		Store: Store{
			Backend:      BackendMemory,
			SQLitePath:   "bookadmin.db",
			ReadLatency:  500 * time.Millisecond,
			WriteLatency: 800 * time.Millisecond,
		},
		Describe: Describe{
			Provider:    "gemini",
			Temperature: 0.7,
			Timeout:     30 * time.Second,
			PerMinute:   30,
		},
		Controller: Controller{
			LoadAttempts: 3,
			LoadBackoff:  250 * time.Millisecond,
			StoreTimeout: 10 * time.Second,
			AccountName:  "Admin User",
		},
	}
}

// Load reads path when it is non-empty and applies environment overrides.
// A missing file is an error only when a path was given.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.Port = envOrDefault("PORT", cfg.Port)
	cfg.LogLevel = envOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.StaticDir = envOrDefault("STATIC_DIR", cfg.StaticDir)

	cfg.Store.Backend = strings.ToLower(envOrDefault("STORE_BACKEND", cfg.Store.Backend))
	cfg.Store.SQLitePath = envOrDefault("SQLITE_PATH", cfg.Store.SQLitePath)
	cfg.Store.CatalogURL = envOrDefault("CATALOG_URL", cfg.Store.CatalogURL)
	cfg.Store.CatalogAPIKey = envOrDefault("CATALOG_API_KEY", cfg.Store.CatalogAPIKey)
	cfg.Store.ReadLatency = envDuration("STORE_READ_LATENCY", cfg.Store.ReadLatency)
	cfg.Store.WriteLatency = envDuration("STORE_WRITE_LATENCY", cfg.Store.WriteLatency)
	cfg.Store.SeedFile = envOrDefault("SEED_FILE", cfg.Store.SeedFile)

	cfg.Describe.Provider = strings.ToLower(envOrDefault("DESCRIBE_PROVIDER", cfg.Describe.Provider))
	cfg.Describe.Model = envOrDefault("DESCRIBE_MODEL", cfg.Describe.Model)
	cfg.Describe.Temperature = envFloat("DESCRIBE_TEMPERATURE", cfg.Describe.Temperature)
	cfg.Describe.Timeout = envDuration("DESCRIBE_TIMEOUT", cfg.Describe.Timeout)
	cfg.Describe.PerMinute = envInt("DESCRIBE_PER_MINUTE", cfg.Describe.PerMinute)
	cfg.Describe.GeminiAPIKey = envOrDefault("GEMINI_API_KEY", cfg.Describe.GeminiAPIKey)
	cfg.Describe.OpenAIAPIKey = envOrDefault("OPENAI_API_KEY", cfg.Describe.OpenAIAPIKey)
	cfg.Describe.OpenAIURL = envOrDefault("OPENAI_URL", cfg.Describe.OpenAIURL)
	cfg.Describe.OllamaURL = envOrDefault("OLLAMA_URL", cfg.Describe.OllamaURL)

	cfg.Controller.LoadAttempts = envInt("LOAD_ATTEMPTS", cfg.Controller.LoadAttempts)
	cfg.Controller.LoadBackoff = envDuration("LOAD_BACKOFF", cfg.Controller.LoadBackoff)
	cfg.Controller.StoreTimeout = envDuration("STORE_TIMEOUT", cfg.Controller.StoreTimeout)
	cfg.Controller.AccountName = envOrDefault("ACCOUNT_NAME", cfg.Controller.AccountName)

	cfg.Auth.AdminEmail = envOrDefault("ADMIN_EMAIL", cfg.Auth.AdminEmail)
	cfg.Auth.AdminPasswordHash = envOrDefault("ADMIN_PASSWORD_HASH", cfg.Auth.AdminPasswordHash)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work together
func (c Config) Validate() error {
	var errs []error
	switch c.Store.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite backend requires SQLITE_PATH"))
		}
	case BackendRemote:
		if c.Store.CatalogURL == "" {
			errs = append(errs, errors.New("remote backend requires CATALOG_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store backend %q", c.Store.Backend))
	}
	if (c.Auth.AdminEmail == "") != (c.Auth.AdminPasswordHash == "") {
		errs = append(errs, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD_HASH must be set together"))
	}
	if c.Controller.LoadAttempts < 1 {
		errs = append(errs, errors.New("load attempts must be at least 1"))
	}
	return errors.Join(errs...)
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt falls back on empty or invalid values.
func envInt(name string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(name))
	if err != nil {
		return fallback
	}
	return v
}

func envFloat(name string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(name), 64)
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(name string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(name))
	if err != nil {
		return fallback
	}
	return v
}
