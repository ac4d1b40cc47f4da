package format

import (
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
)

func registerParamFormatters(table map[string]Constructor) {
	table["Default"] = func(Dependencies) Formatter { return &Default{} }
	table["Replace"] = func(Dependencies) Formatter { return &Replace{} }
	table["IfPlural"] = func(Dependencies) Formatter { return &IfPlural{} }
	table["WrapContent"] = func(Dependencies) Formatter { return &WrapContent{} }
	table["Number"] = func(Dependencies) Formatter { return &Number{} }
	table["Ordinal"] = simple(ordinal)
}

// Default replaces an empty value with its argument.
type Default struct {
	fallback string
}

func (f *Default) SetArgument(arg string) { f.fallback = arg }

func (f *Default) Format(value string) string {
	if strings.TrimSpace(value) == "" {
		return f.fallback
	}
	return value
}

// Replace takes "regexp,replacement" and replaces every match. An invalid
// expression leaves the value unchanged.
type Replace struct {
	re   *regexp.Regexp
	repl string
}

func (f *Replace) SetArgument(arg string) {
	expr, repl, ok := strings.Cut(arg, ",")
	if !ok {
		return
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		f.re = nil
		return
	}
	f.re, f.repl = re, repl
}

func (f *Replace) Format(value string) string {
	if f.re == nil {
		return value
	}
	return f.re.ReplaceAllString(value, f.repl)
}

// IfPlural takes "plural,singular" and picks one depending on whether the
// value names more than one author.
type IfPlural struct {
	plural, singular string
}

func (f *IfPlural) SetArgument(arg string) {
	parts := splitEscaped(arg, ',')
	if len(parts) != 2 {
		return
	}
	f.plural, f.singular = parts[0], parts[1]
}

func (f *IfPlural) Format(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	if len(splitTopLevel(value, " and ")) > 1 {
		return f.plural
	}
	return f.singular
}

// WrapContent takes "prefix,suffix" and wraps non-empty values.
type WrapContent struct {
	prefix, suffix string
}

func (f *WrapContent) SetArgument(arg string) {
	parts := splitEscaped(arg, ',')
	if len(parts) != 2 {
		return
	}
	f.prefix, f.suffix = parts[0], parts[1]
}

func (f *WrapContent) Format(value string) string {
	if value == "" {
		return ""
	}
	return f.prefix + value + f.suffix
}

// Number ignores its input and counts the calls made on this instance,
// starting at 1. It is typically placed once in an entry layout to number
// exported records; a layout counts once per render state.
type Number struct {
	n atomic.Int64
}

func (f *Number) Format(string) string {
	return strconv.FormatInt(f.n.Add(1), 10)
}

func (f *Number) Fresh() Formatter {
	return &Number{}
}

func ordinal(s string) string {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return s
	}
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return s + suffix
}
