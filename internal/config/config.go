package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `json:"server" yaml:"server"`
	DexAPI    DexAPIConfig    `json:"dex_api" yaml:"dex_api"`
	Auth      AuthConfig      `json:"auth" yaml:"auth"`
	Redis     RedisConfig     `json:"redis" yaml:"redis"`
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
	RateLimit RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`
	Audit     AuditConfig     `json:"audit" yaml:"audit"`
	Logging   LoggingConfig   `json:"logging" yaml:"logging"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Host         string `json:"host" yaml:"host"`
	Port         int    `json:"port" yaml:"port"`
	ReadTimeout  int    `json:"read_timeout_seconds" yaml:"read_timeout_seconds"`
	WriteTimeout int    `json:"write_timeout_seconds" yaml:"write_timeout_seconds"`
}

// DexAPIConfig represents the upstream DEX API configuration
type DexAPIConfig struct {
	BaseURL        string `json:"base_url" yaml:"base_url"`
	APIKey         string `json:"-" yaml:"-"` // Never serialize API key
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds"`
	RetryAttempts  int    `json:"retry_attempts" yaml:"retry_attempts"`
}

// AuthConfig controls bearer-token handling on the HTTP surface
type AuthConfig struct {
	RequireToken bool `json:"require_token" yaml:"require_token"`
}

// RedisConfig represents the Redis connection used for caching and
// rate limiting. Disabled deployments fall back to in-memory behavior.
type RedisConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"-" yaml:"-"`
	DB       int    `json:"db" yaml:"db"`
}

// CacheConfig represents read-through cache behavior
type CacheConfig struct {
	Enabled    bool `json:"enabled" yaml:"enabled"`
	TTLSeconds int  `json:"ttl_seconds" yaml:"ttl_seconds"`
}

// RateLimitConfig represents per-token rate limiting
type RateLimitConfig struct {
	Enabled       bool `json:"enabled" yaml:"enabled"`
	Limit         int  `json:"limit" yaml:"limit"`
	WindowSeconds int  `json:"window_seconds" yaml:"window_seconds"`
}

// AuditConfig represents the invocation audit log
type AuditConfig struct {
	Enabled      bool   `json:"enabled" yaml:"enabled"`
	DatabasePath string `json:"database_path" yaml:"database_path"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "localhost",
			Port:         9090,
			ReadTimeout:  30,
			WriteTimeout: 30,
		},
		DexAPI: DexAPIConfig{
			BaseURL:        "https://api.dex.example",
			TimeoutSeconds: 30,
			RetryAttempts:  3,
		},
		Auth: AuthConfig{
			RequireToken: true,
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
			DB:      0,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 30,
		},
		RateLimit: RateLimitConfig{
			Enabled:       false,
			Limit:         120,
			WindowSeconds: 60,
		},
		Audit: AuditConfig{
			Enabled:      true,
			DatabasePath: "./data/audit.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig loads configuration from defaults, an optional YAML file
// (DEX_MCP_CONFIG_FILE), a .env file, and environment variables, in
// increasing order of precedence.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := DefaultConfig()

	if path := os.Getenv("DEX_MCP_CONFIG_FILE"); path != "" {
		if err := loadYAMLFile(config, path); err != nil {
			return nil, err
		}
	}

	loadFromEnv(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// loadYAMLFile overlays settings from a YAML file onto the config
func loadYAMLFile(config *Config, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from deployment config
	if err != nil {
		return fmt.Errorf("error reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	return nil
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(config *Config) {
	loadServerConfig(config)
	loadDexAPIConfig(config)
	loadRedisConfig(config)
	loadBehaviorConfig(config)
}

func loadServerConfig(config *Config) {
	if host := os.Getenv("DEX_MCP_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("DEX_MCP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if readTimeout := os.Getenv("DEX_MCP_READ_TIMEOUT_SECONDS"); readTimeout != "" {
		if rt, err := strconv.Atoi(readTimeout); err == nil {
			config.Server.ReadTimeout = rt
		}
	}
	if writeTimeout := os.Getenv("DEX_MCP_WRITE_TIMEOUT_SECONDS"); writeTimeout != "" {
		if wt, err := strconv.Atoi(writeTimeout); err == nil {
			config.Server.WriteTimeout = wt
		}
	}
}

func loadDexAPIConfig(config *Config) {
	if baseURL := os.Getenv("DEX_API_BASE_URL"); baseURL != "" {
		config.DexAPI.BaseURL = baseURL
	}
	if apiKey := os.Getenv("DEX_API_KEY"); apiKey != "" {
		config.DexAPI.APIKey = apiKey
	}
	if timeout := os.Getenv("DEX_API_TIMEOUT_SECONDS"); timeout != "" {
		if ts, err := strconv.Atoi(timeout); err == nil {
			config.DexAPI.TimeoutSeconds = ts
		}
	}
	if retries := os.Getenv("DEX_API_RETRY_ATTEMPTS"); retries != "" {
		if ra, err := strconv.Atoi(retries); err == nil {
			config.DexAPI.RetryAttempts = ra
		}
	}
}

func loadRedisConfig(config *Config) {
	if enabled := os.Getenv("DEX_MCP_REDIS_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Redis.Enabled = e
		}
	}
	if addr := os.Getenv("DEX_MCP_REDIS_ADDR"); addr != "" {
		config.Redis.Addr = addr
	} else if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		config.Redis.Addr = addr
	}
	if password := os.Getenv("DEX_MCP_REDIS_PASSWORD"); password != "" {
		config.Redis.Password = password
	} else if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		config.Redis.Password = password
	}
	if db := os.Getenv("DEX_MCP_REDIS_DB"); db != "" {
		if d, err := strconv.Atoi(db); err == nil {
			config.Redis.DB = d
		}
	}
}

func loadBehaviorConfig(config *Config) {
	if required := os.Getenv("DEX_MCP_REQUIRE_TOKEN"); required != "" {
		if r, err := strconv.ParseBool(required); err == nil {
			config.Auth.RequireToken = r
		}
	}
	if enabled := os.Getenv("DEX_MCP_CACHE_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Cache.Enabled = e
		}
	}
	if ttl := os.Getenv("DEX_MCP_CACHE_TTL_SECONDS"); ttl != "" {
		if t, err := strconv.Atoi(ttl); err == nil {
			config.Cache.TTLSeconds = t
		}
	}
	if enabled := os.Getenv("DEX_MCP_RATE_LIMIT_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.RateLimit.Enabled = e
		}
	}
	if limit := os.Getenv("DEX_MCP_RATE_LIMIT"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			config.RateLimit.Limit = l
		}
	}
	if window := os.Getenv("DEX_MCP_RATE_LIMIT_WINDOW_SECONDS"); window != "" {
		if w, err := strconv.Atoi(window); err == nil {
			config.RateLimit.WindowSeconds = w
		}
	}
	if enabled := os.Getenv("DEX_MCP_AUDIT_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Audit.Enabled = e
		}
	}
	if path := os.Getenv("DEX_MCP_AUDIT_DB_PATH"); path != "" {
		config.Audit.DatabasePath = path
	}
	if level := os.Getenv("DEX_MCP_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("DEX_MCP_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.DexAPI.BaseURL == "" {
		return fmt.Errorf("DEX API base URL cannot be empty")
	}
	if c.DexAPI.TimeoutSeconds <= 0 {
		return fmt.Errorf("DEX API timeout must be positive")
	}
	if c.DexAPI.RetryAttempts < 1 {
		return fmt.Errorf("DEX API retry attempts must be at least 1")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis addr cannot be empty when redis is enabled")
	}
	if c.Cache.Enabled && c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache TTL must be positive when caching is enabled")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.Limit <= 0 {
			return fmt.Errorf("rate limit must be positive when rate limiting is enabled")
		}
		if c.RateLimit.WindowSeconds <= 0 {
			return fmt.Errorf("rate limit window must be positive when rate limiting is enabled")
		}
	}
	if c.Audit.Enabled && c.Audit.DatabasePath == "" {
		return fmt.Errorf("audit database path cannot be empty when auditing is enabled")
	}
	return nil
}
