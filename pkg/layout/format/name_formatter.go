package format

import (
	"strconv"
	"strings"
	"unicode"
)

// DefaultNameFormat renders a single author as "First von Last, Jr" and
// longer lists separated by ", ".
const DefaultNameFormat = "1@*@{ff }{vv }{ll}{, jj}@@*@1@{ff }{vv }{ll}{, jj}@*@, {ff }{vv }{ll}{, jj}"

// NameFormatter formats an author list with a pattern of the form
//
//	<count>@<range>@<format>[@<range>@<format>...][@@<count>@...]
//
// Cases are separated by "@@". The first case whose count matches the number
// of authors is used ("*" matches any count, "2..3" a range). Within a case
// every author is rendered with the format of the first range containing its
// 1-based position; negative positions count from the end (-1 is the last
// author). A format is literal text with BibTeX-style groups: {ff } renders
// the full first names followed by a space, {f} the initials ("D. E."), {vv} the von
// part, {ll} the last name and {, jj} the junior part preceded by ", ". A
// group whose name part is empty renders nothing.
type NameFormatter struct {
	pattern string
}

// NewNameFormatter returns a NameFormatter for pattern.
func NewNameFormatter(pattern string) *NameFormatter {
	return &NameFormatter{pattern: pattern}
}

func (f *NameFormatter) SetArgument(arg string) {
	if arg != "" {
		f.pattern = arg
	}
}

// Pattern returns the pattern currently in use.
func (f *NameFormatter) Pattern() string {
	return f.pattern
}

func (f *NameFormatter) Format(value string) string {
	list := ParseAuthors(value)
	n := list.Len()
	if n == 0 {
		return ""
	}

	for _, c := range strings.Split(f.pattern, "@@") {
		parts := strings.Split(c, "@")
		if len(parts) < 3 || !countMatches(parts[0], n) {
			continue
		}

		var b strings.Builder
		for i, author := range list.Authors {
			pos := i + 1
			for j := 1; j+1 < len(parts); j += 2 {
				if rangeMatches(parts[j], pos, n) {
					b.WriteString(formatName(author, parts[j+1]))
					break
				}
			}
		}
		if list.Others {
			b.WriteString(" et al.")
		}
		return b.String()
	}
	return list.Join(func(a Author) string { return a.FirstLast(false) }, false)
}

func countMatches(spec string, n int) bool {
	spec = strings.TrimSpace(spec)
	if spec == "*" {
		return true
	}
	if lo, hi, ok := strings.Cut(spec, ".."); ok {
		from, err1 := strconv.Atoi(lo)
		to, err2 := strconv.Atoi(hi)
		return err1 == nil && err2 == nil && n >= from && n <= to
	}
	want, err := strconv.Atoi(spec)
	return err == nil && want == n
}

func rangeMatches(spec string, pos, n int) bool {
	spec = strings.TrimSpace(spec)
	if spec == "*" {
		return true
	}
	resolve := func(s string) (int, bool) {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		if v < 0 {
			v = n + 1 + v
		}
		return v, true
	}
	if lo, hi, ok := strings.Cut(spec, ".."); ok {
		from, ok1 := resolve(lo)
		to, ok2 := resolve(hi)
		return ok1 && ok2 && pos >= from && pos <= to
	}
	want, ok := resolve(spec)
	return ok && want == pos
}

// formatName expands one author format string.
func formatName(a Author, format string) string {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		if format[i] != '{' {
			b.WriteByte(format[i])
			continue
		}
		end := strings.IndexByte(format[i:], '}')
		if end < 0 {
			b.WriteString(format[i:])
			break
		}
		b.WriteString(formatGroup(a, format[i+1:i+end]))
		i += end
	}
	return b.String()
}

func formatGroup(a Author, group string) string {
	start := strings.IndexFunc(group, func(r rune) bool { return strings.ContainsRune("fvlj", r) })
	if start < 0 {
		return group
	}
	letter := group[start]
	end := start
	for end < len(group) && group[end] == letter {
		end++
	}
	full := end-start > 1

	var part string
	switch letter {
	case 'f':
		part = a.First
		if !full {
			part = Initials(a.First)
		}
	case 'v':
		part = a.Von
		if !full {
			part = abbreviateWords(a.Von)
		}
	case 'l':
		part = a.Last
		if !full {
			part = abbreviateWords(a.Last)
		}
	case 'j':
		part = a.Jr
		if !full {
			part = abbreviateWords(a.Jr)
		}
	}
	if part == "" {
		return ""
	}
	return group[:start] + part + group[end:]
}

func abbreviateWords(s string) string {
	words := strings.FieldsFunc(s, unicode.IsSpace)
	for i, w := range words {
		words[i] = initial(w)
	}
	return strings.Join(words, " ")
}
