package layout

import (
	"os"
	"time"
)

// Engine compiles layouts against one formatter registry and caches the
// results. Use New() to create a new engine instance.
type Engine struct {
	config   *Config
	cache    *LayoutCache
	registry *Registry
}

// New creates a new layout engine with the global configuration and the
// built-in formatters only.
func New() *Engine {
	return NewWithConfig(GetGlobalConfig())
}

// NewWithConfig creates a new layout engine with custom configuration.
func NewWithConfig(config *Config) *Engine {
	config = NewConfigWithDefaults(config)
	return &Engine{
		config:   config,
		cache:    NewLayoutCacheWithConfig(config.cacheConfig()),
		registry: NewRegistry(nil),
	}
}

// LoadEngine validates config and creates an engine whose registry is
// built from config.PreferencesFile, when set.
func LoadEngine(config *Config) (*Engine, error) {
	config = NewConfigWithDefaults(config)
	if err := config.Validate(); err != nil {
		return nil, err
	}

	e := NewWithConfig(config)
	if config.PreferencesFile != "" {
		prefs, err := LoadPreferences(config.PreferencesFile)
		if err != nil {
			return nil, err
		}
		e.registry = NewRegistry(prefs)
	}
	return e, nil
}

// Option represents a configuration option for the engine.
type Option func(*Engine)

// WithConfig returns an option that sets the engine configuration.
func WithConfig(config *Config) Option {
	return func(e *Engine) {
		e.config = NewConfigWithDefaults(config)
		e.cache = NewLayoutCacheWithConfig(e.config.cacheConfig())
	}
}

// WithCache returns an option that sets the cache size (0 disables caching).
func WithCache(maxSize int) Option {
	return func(e *Engine) {
		e.config.CacheMaxSize = maxSize
		e.config.CacheDisabled = maxSize == 0
		e.cache = NewLayoutCacheWithConfig(e.config.cacheConfig())
	}
}

// WithPreferences returns an option that builds the registry from prefs.
func WithPreferences(prefs *Preferences) Option {
	return func(e *Engine) {
		e.registry = NewRegistry(prefs)
	}
}

// WithRegistry returns an option that sets the formatter registry.
func WithRegistry(registry *Registry) Option {
	return func(e *Engine) {
		e.registry = registry
	}
}

// NewWithOptions creates a new engine with the specified options.
func NewWithOptions(opts ...Option) *Engine {
	engine := New()
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Compile tokenizes and builds src. Identical sources share one cached
// node tree; every call returns its own Layout so a post formatter set by
// one caller is not seen by another. In strict mode, structural warnings
// and unknown formatters make compilation fail with a *ValidationError.
func (e *Engine) Compile(src string) (*Layout, error) {
	l, err := e.cache.GetOrCompile(SourceKey(src), func() (*Layout, error) {
		l, err := Parse(src, e.registry)
		if err != nil {
			return nil, err
		}
		if e.config.StrictMode {
			if err := Validate(l); err != nil {
				return nil, err
			}
		}
		GetLogger().DebugLayout("source", l)
		return l, nil
	})
	if err != nil {
		return nil, err
	}
	return l.clone(), nil
}

// CompileFile reads and compiles a layout file.
func (e *Engine) CompileFile(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewFileError("read layout", path, err)
	}
	l, err := e.Compile(string(data))
	if err != nil {
		return nil, WithContext(err, "compile layout", map[string]interface{}{"path": path})
	}
	return l, nil
}

// Registry returns the engine's formatter registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Config returns the engine's configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// ClearCache removes all layouts from the cache.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// Validate reports the warnings and unknown formatters of l as a
// *ValidationError, or nil when there are none.
func Validate(l *Layout) error {
	var issues []ValidationIssue
	for _, w := range l.Warnings() {
		issues = append(issues, ValidationIssue{Field: w.String(), Message: "structure"})
	}
	for _, name := range l.InvalidFormatters() {
		issues = append(issues, ValidationIssue{Field: name, Message: "unknown formatter"})
	}
	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}

// DefaultEngine is the global default engine instance.
var DefaultEngine = New()

// Compile compiles src with the default engine.
func Compile(src string) (*Layout, error) {
	return DefaultEngine.Compile(src)
}

// CompileFile compiles a layout file with the default engine.
func CompileFile(path string) (*Layout, error) {
	return DefaultEngine.CompileFile(path)
}

// ClearCache clears the default engine's cache.
func ClearCache() {
	DefaultEngine.ClearCache()
}

// SetCacheConfig replaces the default engine's cache.
func SetCacheConfig(maxSize int, ttl time.Duration) {
	DefaultEngine.config.CacheMaxSize = maxSize
	DefaultEngine.config.CacheDisabled = maxSize == 0
	DefaultEngine.config.CacheTTL = ttl
	DefaultEngine.cache = NewLayoutCacheWithConfig(DefaultEngine.config.cacheConfig())
}
