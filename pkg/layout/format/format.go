// Package format contains the named formatters that can be chained onto
// fields in a layout, e.g. \format[AuthorLastFirst,HTMLChars]{\author}.
//
// Every formatter is a plain string transformation. Formatters never fail:
// when a value cannot be transformed it is returned unchanged (or empty).
package format

import (
	"sort"
	"sync"
	"time"
)

// Formatter transforms a resolved field value
type Formatter interface {
	// Format returns the transformed value
	Format(value string) string
}

// ParamFormatter is a Formatter that accepts a single argument from the
// layout, as in Replace("\s+, ") or Default("n.d.").
type ParamFormatter interface {
	Formatter

	// SetArgument configures the formatter before it is used
	SetArgument(arg string)
}

// Stateful is a Formatter whose output depends on the calls made before,
// such as a running counter. Renderers call Fresh to give every render pass
// its own instance.
type Stateful interface {
	Formatter

	// Fresh returns an instance with the same settings and no history
	Fresh() Formatter
}

// Func adapts an ordinary function to the Formatter interface.
type Func func(string) string

func (f Func) Format(value string) string {
	return f(value)
}

// JournalAbbreviator looks up the abbreviated form of a journal name.
type JournalAbbreviator interface {
	Abbreviation(journal string) (string, bool)
}

// Dependencies carries the configuration some built-in formatters need.
// It is supplied once, when the formatter table is consulted.
type Dependencies struct {
	// FileDirectories are searched (in order) to resolve relative file links
	FileDirectories []string
	// MainFileDirectory is the fallback directory for relative file links
	MainFileDirectory string
	// DOIBaseURL is prepended to bare DOIs by DOICheck
	DOIBaseURL string
	// Journals resolves journal abbreviations for JournalAbbreviator
	Journals JournalAbbreviator
	// Now returns the current time; defaults to time.Now
	Now func() time.Time
}

func (d Dependencies) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Dependencies) doiBase() string {
	if d.DOIBaseURL != "" {
		return d.DOIBaseURL
	}
	return DefaultDOIBaseURL
}

// Constructor creates a fresh formatter instance.
type Constructor func(deps Dependencies) Formatter

var (
	builtins     map[string]Constructor
	builtinsOnce sync.Once
)

func builtinTable() map[string]Constructor {
	builtinsOnce.Do(func() {
		builtins = make(map[string]Constructor)
		registerAuthorFormatters(builtins)
		registerAuthorMarkupFormatters(builtins)
		registerTextFormatters(builtins)
		registerLatexFormatters(builtins)
		registerPageFormatters(builtins)
		registerDateFormatters(builtins)
		registerIdentifierFormatters(builtins)
		registerParamFormatters(builtins)
		registerTypeFormatters(builtins)
		registerFileFormatters(builtins)
		builtins["CompositeFormat"] = func(Dependencies) Formatter { return NewComposite() }
	})
	return builtins
}

// New constructs the built-in formatter called name. Each call returns a
// new instance, so parameterised formatters can be configured independently.
func New(name string, deps Dependencies) (Formatter, bool) {
	ctor, ok := builtinTable()[name]
	if !ok {
		return nil, false
	}
	return ctor(deps), true
}

// Names returns the names of all built-in formatters in sorted order.
func Names() []string {
	table := builtinTable()
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Chain applies formatters in order.
func Chain(value string, formatters ...Formatter) string {
	for _, f := range formatters {
		if f != nil {
			value = f.Format(value)
		}
	}
	return value
}

// Composite applies its formatters in order. With none it returns the value
// unchanged.
type Composite struct {
	formatters []Formatter
}

// NewComposite returns a formatter that runs formatters as one step.
func NewComposite(formatters ...Formatter) *Composite {
	return &Composite{formatters: formatters}
}

// Format implements Formatter.
func (c *Composite) Format(value string) string {
	return Chain(value, c.formatters...)
}

func simple(f func(string) string) Constructor {
	return func(Dependencies) Formatter { return Func(f) }
}
