package layout

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.CacheMaxSize != 100 {
		t.Errorf("DefaultConfig CacheMaxSize = %d, want 100", config.CacheMaxSize)
	}

	if config.CacheTTL != 0 {
		t.Errorf("DefaultConfig CacheTTL = %v, want 0", config.CacheTTL)
	}

	if config.LogLevel != "info" {
		t.Errorf("DefaultConfig LogLevel = %s, want info", config.LogLevel)
	}

	if config.DefaultEncoding != "UTF-8" {
		t.Errorf("DefaultConfig DefaultEncoding = %s, want UTF-8", config.DefaultEncoding)
	}

	if config.StrictMode {
		t.Errorf("DefaultConfig StrictMode = true, want false")
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		check   func(t *testing.T, config *Config)
	}{
		{
			name:    "cache max size",
			envVars: map[string]string{"LAYOUT_CACHE_MAX_SIZE": "50"},
			check: func(t *testing.T, config *Config) {
				if config.CacheMaxSize != 50 {
					t.Errorf("CacheMaxSize = %d, want 50", config.CacheMaxSize)
				}
			},
		},
		{
			name:    "cache max size zero disables caching",
			envVars: map[string]string{"LAYOUT_CACHE_MAX_SIZE": "0"},
			check: func(t *testing.T, config *Config) {
				if !config.CacheDisabled {
					t.Error("CacheDisabled = false, want true")
				}
			},
		},
		{
			name:    "cache disabled",
			envVars: map[string]string{"LAYOUT_CACHE_DISABLED": "true"},
			check: func(t *testing.T, config *Config) {
				if !config.CacheDisabled || config.CacheMaxSize != 100 {
					t.Errorf("CacheDisabled = %v, CacheMaxSize = %d", config.CacheDisabled, config.CacheMaxSize)
				}
			},
		},
		{
			name:    "cache TTL",
			envVars: map[string]string{"LAYOUT_CACHE_TTL": "5m"},
			check: func(t *testing.T, config *Config) {
				if config.CacheTTL != 5*time.Minute {
					t.Errorf("CacheTTL = %v, want 5m", config.CacheTTL)
				}
			},
		},
		{
			name:    "log level is normalised",
			envVars: map[string]string{"LAYOUT_LOG_LEVEL": " DEBUG "},
			check: func(t *testing.T, config *Config) {
				if config.LogLevel != "debug" {
					t.Errorf("LogLevel = %s, want debug", config.LogLevel)
				}
			},
		},
		{
			name:    "default encoding",
			envVars: map[string]string{"LAYOUT_DEFAULT_ENCODING": "ISO-8859-1"},
			check: func(t *testing.T, config *Config) {
				if config.DefaultEncoding != "ISO-8859-1" {
					t.Errorf("DefaultEncoding = %s, want ISO-8859-1", config.DefaultEncoding)
				}
			},
		},
		{
			name:    "preferences file",
			envVars: map[string]string{"LAYOUT_PREFERENCES": "/etc/layout.yaml"},
			check: func(t *testing.T, config *Config) {
				if config.PreferencesFile != "/etc/layout.yaml" {
					t.Errorf("PreferencesFile = %s", config.PreferencesFile)
				}
			},
		},
		{
			name:    "strict mode",
			envVars: map[string]string{"LAYOUT_STRICT_MODE": "yes"},
			check: func(t *testing.T, config *Config) {
				if !config.StrictMode {
					t.Errorf("StrictMode = false, want true")
				}
			},
		},
		{
			name:    "invalid cache max size",
			envVars: map[string]string{"LAYOUT_CACHE_MAX_SIZE": "invalid"},
			check: func(t *testing.T, config *Config) {
				if config.CacheMaxSize != 100 {
					t.Errorf("CacheMaxSize = %d, want 100 (default)", config.CacheMaxSize)
				}
			},
		},
		{
			name:    "invalid cache TTL",
			envVars: map[string]string{"LAYOUT_CACHE_TTL": "invalid"},
			check: func(t *testing.T, config *Config) {
				if config.CacheTTL != 0 {
					t.Errorf("CacheTTL = %v, want 0 (default)", config.CacheTTL)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}
			tt.check(t, ConfigFromEnvironment())
		})
	}
}

func TestNewConfigWithDefaults(t *testing.T) {
	config := NewConfigWithDefaults(&Config{CacheMaxSize: 200, StrictMode: true})

	if config.CacheMaxSize != 200 {
		t.Errorf("CacheMaxSize = %d, want 200", config.CacheMaxSize)
	}
	if config.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info", config.LogLevel)
	}
	if config.DefaultEncoding != "UTF-8" {
		t.Errorf("DefaultEncoding = %s, want UTF-8", config.DefaultEncoding)
	}
	if !config.StrictMode {
		t.Error("StrictMode should be kept")
	}

	if got := NewConfigWithDefaults(nil); got.CacheMaxSize != 100 {
		t.Errorf("nil overrides CacheMaxSize = %d, want 100", got.CacheMaxSize)
	}
}

func TestConfig_CacheDisabledReachesEngine(t *testing.T) {
	t.Setenv("LAYOUT_CACHE_MAX_SIZE", "0")
	config := NewConfigWithDefaults(ConfigFromEnvironment())
	if !config.CacheDisabled {
		t.Fatal("CacheDisabled should survive NewConfigWithDefaults")
	}

	e := NewWithConfig(config)
	a, _ := e.Compile(`\title`)
	b, _ := e.Compile(`\title`)
	if a.Nodes()[0] == b.Nodes()[0] {
		t.Error("an engine with caching disabled should compile every time")
	}
	if e.cache.Size() != 0 {
		t.Errorf("cache size = %d, want 0", e.cache.Size())
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    *Config
		wantErrs  int
		wantField string
	}{
		{
			name:   "defaults",
			config: DefaultConfig(),
		},
		{
			name:   "log level off",
			config: &Config{CacheMaxSize: 1, LogLevel: "off", DefaultEncoding: "UTF-8"},
		},
		{
			name:      "negative cache size",
			config:    &Config{CacheMaxSize: -1, LogLevel: "info", DefaultEncoding: "UTF-8"},
			wantErrs:  1,
			wantField: "CacheMaxSize",
		},
		{
			name:      "unknown log level",
			config:    &Config{LogLevel: "verbose", DefaultEncoding: "UTF-8"},
			wantErrs:  1,
			wantField: "LogLevel",
		},
		{
			name:     "everything wrong",
			config:   &Config{CacheMaxSize: -1, CacheTTL: -time.Second, LogLevel: "loud"},
			wantErrs: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErrs == 0 {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !IsConfigError(err) {
				t.Errorf("expected a ConfigError in %v", err)
			}

			var multi *MultiError
			if errors.As(err, &multi) {
				if multi.Len() != tt.wantErrs {
					t.Errorf("got %d errors, want %d: %v", multi.Len(), tt.wantErrs, err)
				}
			} else if tt.wantErrs != 1 {
				t.Errorf("got a single error, want %d: %v", tt.wantErrs, err)
			}

			if tt.wantField != "" {
				var ce *ConfigError
				if errors.As(err, &ce) && ce.Field != tt.wantField {
					t.Errorf("Field = %s, want %s", ce.Field, tt.wantField)
				}
			}
		})
	}
}

func TestGlobalConfig(t *testing.T) {
	original := GetGlobalConfig()
	defer SetGlobalConfig(original)

	config := DefaultConfig()
	config.DefaultEncoding = "windows-1252"
	SetGlobalConfig(config)

	got := GetGlobalConfig()
	if got.DefaultEncoding != "windows-1252" {
		t.Errorf("DefaultEncoding = %s, want windows-1252", got.DefaultEncoding)
	}

	// copies are independent
	got.DefaultEncoding = "changed"
	if GetGlobalConfig().DefaultEncoding != "windows-1252" {
		t.Error("GetGlobalConfig should return a copy")
	}
}
