package format

import (
	"strconv"
	"strings"
	"time"
)

const defaultDatePattern = "yyyy.MM.dd hh:mm:ss z"

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

func registerDateFormatters(table map[string]Constructor) {
	table["CurrentDate"] = func(deps Dependencies) Formatter {
		return &CurrentDate{pattern: defaultDatePattern, now: deps.now}
	}
	table["DateFormatter"] = func(Dependencies) Formatter {
		return &DateFormatter{pattern: "yyyy-MM-dd"}
	}
	table["RisMonth"] = simple(func(s string) string {
		if m := parseMonth(s); m > 0 {
			return twoDigits(m)
		}
		return strings.TrimSpace(s)
	})
	table["Iso690FormatDate"] = simple(iso690Date)
	table["ShortMonth"] = simple(func(s string) string {
		if m := parseMonth(s); m > 0 {
			return monthNames[m-1][:3]
		}
		return strings.TrimSpace(s)
	})
}

// iso690Date turns "day de month de year" into "year-month-day". Fewer
// parts drop the day, then the month.
func iso690Date(s string) string {
	parts := strings.Split(s, "de")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch len(parts) {
	case 1:
		return parts[0]
	case 2:
		return parts[1] + "-" + parts[0]
	case 3:
		return parts[2] + "-" + parts[1] + "-" + parts[0]
	}
	return strings.TrimSpace(s)
}

// CurrentDate ignores its input and renders the current time. The argument
// is a date pattern in the classic letter syntax, e.g. "yyyy-MM-dd".
type CurrentDate struct {
	pattern string
	now     func() time.Time
}

func (f *CurrentDate) SetArgument(arg string) {
	if arg = strings.TrimSpace(arg); arg != "" {
		f.pattern = arg
	}
}

func (f *CurrentDate) Format(string) string {
	return f.now().Format(PatternLayout(f.pattern))
}

// DateFormatter reformats an ISO date ("2009", "2009-08" or "2009-08-11")
// with a pattern. Values that are not dates are returned unchanged.
type DateFormatter struct {
	pattern string
}

func (f *DateFormatter) SetArgument(arg string) {
	if arg = strings.TrimSpace(arg); arg != "" {
		f.pattern = arg
	}
}

func (f *DateFormatter) Format(value string) string {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(PatternLayout(f.pattern))
		}
	}
	return value
}

var patternTokens = []struct {
	letters string
	layout  string
}{
	{"yyyy", "2006"},
	{"yy", "06"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"MM", "01"},
	{"M", "1"},
	{"dd", "02"},
	{"d", "2"},
	{"EEEE", "Monday"},
	{"EEE", "Mon"},
	{"HH", "15"},
	{"hh", "03"},
	{"h", "3"},
	{"mm", "04"},
	{"ss", "05"},
	{"a", "PM"},
	{"z", "MST"},
	{"Z", "-0700"},
}

// PatternLayout converts a date pattern in the classic letter syntax
// ("yyyy.MM.dd hh:mm:ss z") to a Go time layout. Text in single quotes is
// copied literally.
func PatternLayout(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		if pattern[i] == '\'' {
			end := strings.IndexByte(pattern[i+1:], '\'')
			if end < 0 {
				b.WriteString(pattern[i+1:])
				break
			}
			b.WriteString(pattern[i+1 : i+1+end])
			i += end + 2
			continue
		}
		matched := false
		for _, tok := range patternTokens {
			if strings.HasPrefix(pattern[i:], tok.letters) {
				b.WriteString(tok.layout)
				i += len(tok.letters)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(pattern[i])
			i++
		}
	}
	return b.String()
}

// parseMonth accepts "8", "08", "aug", "August" and the BibTeX macro form
// "#aug#", returning 1..12 or 0.
func parseMonth(s string) int {
	s = strings.ToLower(strings.Trim(strings.TrimSpace(s), "#"))
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return n
		}
		return 0
	}
	if len(s) < 3 {
		return 0
	}
	for i, name := range monthNames {
		if strings.HasPrefix(name, s[:3]) && strings.HasPrefix(name, strings.TrimSuffix(s, ".")) {
			return i + 1
		}
	}
	return 0
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
