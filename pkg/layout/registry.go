package layout

import (
	"sort"
	"strings"

	"github.com/benjaminschreck/go-layout/pkg/layout/format"
)

// ChainEntry is one resolved position of a formatter chain: either a bound
// formatter or the name of a formatter that could not be found.
type ChainEntry struct {
	Name     string
	Argument string
	// HasArgument reports whether the layout passed an argument
	HasArgument bool

	formatter format.Formatter
}

// Formatter returns the bound formatter, or false for a missing one.
func (e ChainEntry) Formatter() (format.Formatter, bool) {
	return e.formatter, e.formatter != nil
}

// Missing reports whether the name did not resolve.
func (e ChainEntry) Missing() bool {
	return e.formatter == nil
}

// Apply runs the formatter. A missing formatter passes the value through.
func (e ChainEntry) Apply(value string) string {
	if e.formatter == nil {
		return value
	}
	return e.formatter.Format(value)
}

func (e ChainEntry) String() string {
	name := e.Name
	if e.HasArgument {
		name += "(" + e.Argument + ")"
	}
	if e.formatter == nil {
		return "!" + name
	}
	return name
}

// Registry resolves formatter names. It is immutable once built and safe
// for concurrent use.
type Registry struct {
	custom map[string]string
	user   map[string]string
	deps   format.Dependencies
}

// NewRegistry builds a registry from preferences; prefs may be nil.
func NewRegistry(prefs *Preferences) *Registry {
	r := &Registry{
		custom: make(map[string]string),
		user:   make(map[string]string),
	}
	if prefs == nil {
		return r
	}
	for name, pattern := range prefs.CustomNameFormatters {
		r.custom[strings.TrimSpace(name)] = pattern
	}
	for name, pattern := range prefs.NameFormatters {
		r.user[strings.TrimSpace(name)] = pattern
	}
	r.deps = prefs.Dependencies()
	return r
}

// WithCustomNameFormatters returns a copy of r whose layout-set scoped name
// formatters are replaced by custom.
func (r *Registry) WithCustomNameFormatters(custom map[string]string) *Registry {
	c := &Registry{
		custom: make(map[string]string, len(custom)),
		user:   r.user,
		deps:   r.deps,
	}
	for name, pattern := range custom {
		c.custom[strings.TrimSpace(name)] = pattern
	}
	return c
}

// Resolve binds spec to a fresh formatter instance. Lookup order: custom
// name formatters, built-in formatters, user name formatters. A formatter
// that takes an argument receives spec.Argument when one was given.
func (r *Registry) Resolve(spec FormatterSpec) ChainEntry {
	name := strings.TrimSpace(spec.Name)
	entry := ChainEntry{Name: name, Argument: spec.Argument, HasArgument: spec.HasArgument}

	if pattern, ok := r.custom[name]; ok {
		entry.formatter = format.NewNameFormatter(pattern)
		return entry
	}

	if f, ok := format.New(name, r.deps); ok {
		if pf, ok := f.(format.ParamFormatter); ok && spec.HasArgument {
			pf.SetArgument(spec.Argument)
		}
		entry.formatter = f
		return entry
	}

	if pattern, ok := r.user[name]; ok {
		entry.formatter = format.NewNameFormatter(pattern)
		return entry
	}

	WithField("formatter", name).Warn("Unknown formatter")
	return entry
}

// ResolveChain parses and resolves a chain string such as
// "AuthorLastFirst,Default(n.d.)".
func (r *Registry) ResolveChain(chain string) []ChainEntry {
	specs := ParseFormatterCalls(chain)
	entries := make([]ChainEntry, len(specs))
	for i, spec := range specs {
		entries[i] = r.Resolve(spec)
	}
	return entries
}

// Names lists every name the registry resolves, sorted.
func (r *Registry) Names() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, name := range format.Names() {
		add(name)
	}
	for name := range r.custom {
		add(name)
	}
	for name := range r.user {
		add(name)
	}
	sort.Strings(names)
	return names
}
