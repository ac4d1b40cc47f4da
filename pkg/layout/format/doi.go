package format

import (
	"regexp"
	"strings"
)

// DefaultDOIBaseURL is used by DOICheck when no base URL is configured.
const DefaultDOIBaseURL = "https://doi.org/"

var (
	doiPattern    = regexp.MustCompile(`(?i)\b(10\.\d{4,9}/\S+)`)
	doiURLPrefix  = regexp.MustCompile(`(?i)^(https?://)?(dx\.)?doi\.org/`)
	doiNamePrefix = regexp.MustCompile(`(?i)^doi:\s*`)
)

func registerIdentifierFormatters(table map[string]Constructor) {
	table["DOIStrip"] = simple(stripDOI)
	table["DOICheck"] = func(deps Dependencies) Formatter {
		base := deps.doiBase()
		return Func(func(s string) string { return checkDOI(s, base) })
	}
	table["JournalAbbreviator"] = func(deps Dependencies) Formatter {
		return Func(func(s string) string {
			if deps.Journals == nil {
				return s
			}
			if abbr, ok := deps.Journals.Abbreviation(strings.TrimSpace(s)); ok {
				return abbr
			}
			return s
		})
	}
}

// stripDOI removes URL and "doi:" prefixes, leaving the bare DOI.
func stripDOI(s string) string {
	s = strings.TrimSpace(s)
	s = doiURLPrefix.ReplaceAllString(s, "")
	return doiNamePrefix.ReplaceAllString(s, "")
}

// checkDOI turns a bare or prefixed DOI into a resolvable URL. Anything that
// does not contain a DOI is returned unchanged.
func checkDOI(s, base string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	m := doiPattern.FindStringSubmatch(stripDOI(trimmed))
	if m == nil {
		return s
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + m[1]
}
