// Package config loads process configuration from environment variables
// and an optional config file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	// BackendNone runs without a medium; every store serves defaults.
	BackendNone = "none"
)

// ConfigFileEnv names the optional configuration file.
const ConfigFileEnv = "FINDASH_CONFIG"

type Config struct {
	// ConfigFile is the file values were read from, empty when none.
	ConfigFile string
	fileErr    error

	// HTTP Server
	Port               string
	RateLimitPerMinute int
	ShutdownTimeout    time.Duration

	// Storage
	DataBackend   string
	SQLiteDBPath  string
	DataDir       string
	CorruptPolicy string

	// Read-through cache in front of the medium, off by default. Enable it
	// only when this process is the sole writer of the medium.
	CacheTTL  time.Duration
	CacheSize int

	// AMQP change events; disabled when AMQPURL is empty.
	AMQPURL         string
	AMQPExchange    string
	AMQPQueue       string
	EventBufferSize int

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables, optionally layered
// over the file named by FINDASH_CONFIG (json, yaml or toml, keys in
// lower case). Environment variables take precedence over the file.
func Load() *Config {
	v, fileErr := newViper(os.Getenv(ConfigFileEnv))

	return &Config{
		ConfigFile: v.ConfigFileUsed(),
		fileErr:    fileErr,

		Port:               getEnv(v, "PORT", "8081"),
		RateLimitPerMinute: getEnvInt(v, "RATE_LIMIT_PER_MINUTE", 120),
		ShutdownTimeout:    getEnvDuration(v, "SHUTDOWN_TIMEOUT", 10*time.Second),

		DataBackend:   getEnv(v, "DATA_BACKEND", BackendSQLite),
		SQLiteDBPath:  getEnv(v, "SQLITE_DB_PATH", "./data/findash.db"),
		DataDir:       getEnv(v, "DATA_DIR", "./data/snapshots"),
		CorruptPolicy: getEnv(v, "CORRUPT_POLICY", "fallback"),

		CacheTTL:  getEnvDuration(v, "CACHE_TTL", 5*time.Minute),
		CacheSize: getEnvInt(v, "CACHE_SIZE", 0),

		AMQPURL:         getEnv(v, "AMQP_URL", ""),
		AMQPExchange:    getEnv(v, "AMQP_EXCHANGE", "findash"),
		AMQPQueue:       getEnv(v, "AMQP_QUEUE", "snapshot_changes"),
		EventBufferSize: getEnvInt(v, "EVENT_BUFFER_SIZE", 64),

		LogLevel:  getEnv(v, "LOG_LEVEL", "info"),
		LogFormat: getEnv(v, "LOG_FORMAT", "text"),
	}
}

func newViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.AutomaticEnv()
	if configFile == "" {
		return v, nil
	}
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return v, fmt.Errorf("read config file %s: %w", configFile, err)
	}
	return v, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.fileErr != nil {
		errors = append(errors, c.fileErr.Error())
	}

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}

	validBackends := []string{BackendMemory, BackendFile, BackendSQLite, BackendNone}
	if !contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if msg := ensureDir(filepath.Dir(c.SQLiteDBPath)); msg != "" {
			errors = append(errors, fmt.Sprintf("cannot create SQLite database directory: %s", msg))
		}
	case BackendFile:
		if c.DataDir == "" {
			errors = append(errors, "data directory cannot be empty when using file backend")
		} else if msg := ensureDir(c.DataDir); msg != "" {
			errors = append(errors, fmt.Sprintf("cannot create data directory: %s", msg))
		}
	}

	validPolicies := []string{"fallback", "fail"}
	if !contains(validPolicies, strings.ToLower(c.CorruptPolicy)) {
		errors = append(errors, fmt.Sprintf("invalid corrupt policy '%s': must be one of %v", c.CorruptPolicy, validPolicies))
	}

	if c.CacheSize < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must not be negative", c.CacheSize))
	}
	if c.CacheSize > 0 && c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
		if c.EventBufferSize < 1 {
			errors = append(errors, fmt.Sprintf("invalid event buffer size %d: must be at least 1", c.EventBufferSize))
		}
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// EventsEnabled reports whether change events should be published.
func (c *Config) EventsEnabled() bool {
	return c.AMQPURL != ""
}

func ensureDir(dir string) string {
	if dir == "." || dir == "" {
		return ""
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Sprintf("'%s': %v", dir, err)
		}
	}
	return ""
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func getEnv(v *viper.Viper, key, defaultValue string) string {
	if value := v.GetString(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(v *viper.Viper, key string, defaultValue int) int {
	if value := v.GetString(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(v *viper.Viper, key string, defaultValue time.Duration) time.Duration {
	if value := v.GetString(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
