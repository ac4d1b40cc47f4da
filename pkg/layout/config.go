package layout

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config contains all configuration options for the layout engine
type Config struct {
	// CacheMaxSize is the maximum number of compiled layouts to cache. 0 means
	// the default size; use CacheDisabled to turn caching off.
	CacheMaxSize int
	// CacheDisabled compiles every layout afresh
	CacheDisabled bool
	// CacheTTL is the time-to-live for cached layouts. 0 means no expiration.
	CacheTTL time.Duration
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string
	// DefaultEncoding is the encoding name used for collection-scoped sections
	// when the caller does not supply one
	DefaultEncoding string
	// StrictMode makes Compile fail on structural warnings and unknown formatters
	StrictMode bool
	// PreferencesFile is an optional YAML file with formatter preferences
	PreferencesFile string
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func init() {
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		CacheMaxSize:    100,
		CacheTTL:        0,
		LogLevel:        "info",
		DefaultEncoding: "UTF-8",
		StrictMode:      false,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// LAYOUT_CACHE_MAX_SIZE, where 0 disables caching
	if val := os.Getenv("LAYOUT_CACHE_MAX_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			config.CacheMaxSize = size
			config.CacheDisabled = size == 0
		}
	}

	// LAYOUT_CACHE_DISABLED
	if val := os.Getenv("LAYOUT_CACHE_DISABLED"); val != "" {
		config.CacheDisabled = parseBool(val)
	}

	// LAYOUT_CACHE_TTL
	if val := os.Getenv("LAYOUT_CACHE_TTL"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.CacheTTL = duration
		}
	}

	// LAYOUT_LOG_LEVEL
	if val := os.Getenv("LAYOUT_LOG_LEVEL"); val != "" {
		config.LogLevel = strings.ToLower(strings.TrimSpace(val))
	}

	// LAYOUT_DEFAULT_ENCODING
	if val := os.Getenv("LAYOUT_DEFAULT_ENCODING"); val != "" {
		config.DefaultEncoding = val
	}

	// LAYOUT_STRICT_MODE
	if val := os.Getenv("LAYOUT_STRICT_MODE"); val != "" {
		config.StrictMode = parseBool(val)
	}

	// LAYOUT_PREFERENCES
	if val := os.Getenv("LAYOUT_PREFERENCES"); val != "" {
		config.PreferencesFile = val
	}

	return config
}

// NewConfigWithDefaults creates a new configuration with defaults applied to unset fields
func NewConfigWithDefaults(overrides *Config) *Config {
	defaults := DefaultConfig()

	if overrides == nil {
		return defaults
	}

	config := *overrides

	if config.CacheMaxSize == 0 {
		config.CacheMaxSize = defaults.CacheMaxSize
	}

	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}

	if config.DefaultEncoding == "" {
		config.DefaultEncoding = defaults.DefaultEncoding
	}

	return &config
}

// cacheConfig returns the cache settings c describes.
func (c *Config) cacheConfig() CacheConfig {
	if c.CacheDisabled {
		return CacheConfig{TTL: c.CacheTTL}
	}
	return CacheConfig{MaxSize: c.CacheMaxSize, TTL: c.CacheTTL}
}

// Validate checks if the configuration is valid. All problems are reported
// together.
func (c *Config) Validate() error {
	var errs MultiError

	if c.CacheMaxSize < 0 {
		errs.Add(NewConfigError("CacheMaxSize", strconv.Itoa(c.CacheMaxSize), "cannot be negative"))
	}

	if c.CacheTTL < 0 {
		errs.Add(NewConfigError("CacheTTL", c.CacheTTL.String(), "cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}

	if !validLogLevels[c.LogLevel] {
		errs.Add(NewConfigError("LogLevel", c.LogLevel, "invalid log level"))
	}

	if strings.TrimSpace(c.DefaultEncoding) == "" {
		errs.Add(NewConfigError("DefaultEncoding", c.DefaultEncoding, "cannot be empty"))
	}

	return errs.Err()
}

// GetGlobalConfig returns a copy of the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// outside the lock: the logger reads the config back
	UpdateLoggerFromConfig()
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
