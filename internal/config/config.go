package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"assetmobile/pkg/sdk"
)

const (
	appName             = "assetmobile"
	defaultConfigName   = "config.json"
	defaultDatabaseFile = "session.db"
	defaultPrimaryURL   = "http://localhost:4000"
	defaultHealthPath   = "/api/health"
	defaultTimeout      = 5 * time.Second
	defaultPollInterval = 5 * time.Second

	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Duration reads and writes as a Go duration string ("5s").
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var n float64
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("invalid duration %s", string(b))
		}
		*d = Duration(time.Duration(n) * time.Second)
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

type Config struct {
	PrimaryURL           string   `json:"primary_url"`
	FallbackURLs         []string `json:"fallback_urls"`
	RequestTimeout       Duration `json:"request_timeout"`
	HealthPath           string   `json:"health_path"`
	DefaultToken         string   `json:"default_token"`
	StorageBackend       string   `json:"storage_backend"`
	DatabasePath         string   `json:"database_path"`
	RedisAddr            string   `json:"redis_addr"`
	RedisPassword        string   `json:"redis_password"`
	RedisDB              int      `json:"redis_db"`
	LanguagePollInterval Duration `json:"language_poll_interval"`
	LogLevel             string   `json:"log_level"`
	LogFormat            string   `json:"log_format"`
}

func IsDev() bool {
	return strings.EqualFold(os.Getenv("ASSETMOBILE_ENV"), "dev")
}

// Dir is the per-user configuration directory.
func Dir() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	name := appName
	if IsDev() {
		name = appName + "-dev"
	}
	return filepath.Join(userConfigDir, name), nil
}

// LoadConfig reads config.json from configDir, writing a default one on
// first run, then applies environment overrides.
func LoadConfig(configDir string) (*Config, error) {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, err
	}

	configPath := filepath.Join(configDir, defaultConfigName)

	var cfg *Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg, err = createDefaultConfig(configPath, configDir)
		if err != nil {
			return nil, err
		}
	} else {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg = &Config{}
		if err := json.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", configPath, err)
		}
	}

	cfg.applyDefaults(configDir)
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func createDefaultConfig(configPath, configDir string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults(configDir)

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults(configDir string) {
	if c.PrimaryURL == "" {
		c.PrimaryURL = defaultPrimaryURL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = Duration(defaultTimeout)
	}
	if c.HealthPath == "" {
		c.HealthPath = defaultHealthPath
	}
	if c.StorageBackend == "" {
		c.StorageBackend = BackendSQLite
	}
	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(configDir, defaultDatabaseFile)
	}
	if c.LanguagePollInterval <= 0 {
		c.LanguagePollInterval = Duration(defaultPollInterval)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "console"
	}
}

func (c *Config) applyEnv() error {
	c.PrimaryURL = getenv("ASSETMOBILE_PRIMARY_URL", c.PrimaryURL)
	if v := os.Getenv("ASSETMOBILE_FALLBACK_URLS"); v != "" {
		c.FallbackURLs = splitList(v)
	}
	c.RequestTimeout = Duration(getenvDuration("ASSETMOBILE_REQUEST_TIMEOUT", time.Duration(c.RequestTimeout)))
	c.DefaultToken = getenv("ASSETMOBILE_DEFAULT_TOKEN", c.DefaultToken)
	c.StorageBackend = getenv("ASSETMOBILE_STORAGE", c.StorageBackend)
	c.DatabasePath = getenv("ASSETMOBILE_DATABASE_PATH", c.DatabasePath)
	c.RedisAddr = getenv("ASSETMOBILE_REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getenv("ASSETMOBILE_REDIS_PASSWORD", c.RedisPassword)
	if v := os.Getenv("ASSETMOBILE_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ASSETMOBILE_REDIS_DB: %w", err)
		}
		c.RedisDB = n
	}
	c.LogLevel = getenv("ASSETMOBILE_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getenv("ASSETMOBILE_LOG_FORMAT", c.LogFormat)
	return nil
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("storage backend %q needs redis_addr", c.StorageBackend)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	candidates := c.Candidates()
	if len(candidates) == 0 {
		return fmt.Errorf("no server URL configured")
	}
	for _, raw := range candidates {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid server URL %q", raw)
		}
	}
	return nil
}

// Candidates lists the primary URL then the fallbacks, without blanks or
// repeats.
func (c *Config) Candidates() []string {
	return sdk.Candidates(c.PrimaryURL, c.FallbackURLs...)
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout)
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.LanguagePollInterval)
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
