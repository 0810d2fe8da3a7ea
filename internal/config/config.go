package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Sentry    SentryConfig    `yaml:"sentry"`
	LLM       LLMConfig       `yaml:"llm"`
	Cache     CacheConfig     `yaml:"cache"`
	Transport TransportConfig `yaml:"transport"`
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
}

type SentryConfig struct {
	APIToken       string `yaml:"api_token"`
	Organization   string `yaml:"organization"`
	Host           string `yaml:"host"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type LLMConfig struct {
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

type CacheConfig struct {
	TTLSeconds int `yaml:"ttl_seconds"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "stdio" or "http"
}

type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	AuthToken string `yaml:"auth_token"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// Default returns the configuration used before any file or environment is read.
func Default() Config {
	return Config{
		Sentry: SentryConfig{
			Host:           "https://sentry.io",
			TimeoutSeconds: 30,
		},
		LLM: LLMConfig{
			Model: "openai/gpt-4o-mini",
		},
		Cache: CacheConfig{
			TTLSeconds: 300,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		DB: DBConfig{
			Path: defaultDBPath(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from defaults, an optional YAML file, an optional
// .env file and environment variables, in increasing precedence. Variables
// already set in the environment are never replaced by the .env file.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("SENTRY_MCP_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	envFile := os.Getenv("SENTRY_MCP_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Sentry.APIToken, "SENTRY_API_TOKEN")
	setString(&cfg.Sentry.Organization, "SENTRY_ORG")
	setString(&cfg.Sentry.Host, "SENTRY_HOST")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	setString(&cfg.LLM.APIKey, "OPENAI_API_KEY")
	setString(&cfg.LLM.BaseURL, "OPENAI_BASE_URL")
	setString(&cfg.Transport.Mode, "SENTRY_MCP_TRANSPORT")
	setString(&cfg.Server.Host, "SENTRY_MCP_SERVER_HOST")
	setString(&cfg.Server.AuthToken, "SENTRY_MCP_AUTH_TOKEN")
	setString(&cfg.DB.Path, "SENTRY_MCP_DB_PATH")
	setString(&cfg.Log.Level, "SENTRY_MCP_LOG_LEVEL")
	setString(&cfg.Log.Path, "SENTRY_MCP_LOG_PATH")

	if err := setInt(&cfg.Server.Port, "SENTRY_MCP_SERVER_PORT"); err != nil {
		return err
	}
	if err := setInt(&cfg.Cache.TTLSeconds, "SENTRY_MCP_CACHE_TTL"); err != nil {
		return err
	}
	return setInt(&cfg.Sentry.TimeoutSeconds, "SENTRY_MCP_HTTP_TIMEOUT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Sentry.APIToken) == "" {
		missing = append(missing, "SENTRY_API_TOKEN")
	}
	if strings.TrimSpace(c.Sentry.Organization) == "" {
		missing = append(missing, "SENTRY_ORG")
	}
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}

	switch c.Transport.Mode {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport mode %q (want stdio or http)", c.Transport.Mode)
	}
	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %d", c.Cache.TTLSeconds)
	}
	if c.Sentry.TimeoutSeconds <= 0 {
		return fmt.Errorf("http timeout must be positive, got %d", c.Sentry.TimeoutSeconds)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func defaultDBPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "sentry-mcp.db"
	}
	return filepath.Join(dir, "sentry-mcp", "cache.db")
}
