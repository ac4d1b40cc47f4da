package format

import (
	"regexp"
	"strings"
)

var pageSeparator = regexp.MustCompile(`\s*[-–—]+\s*`)

func registerPageFormatters(table map[string]Constructor) {
	table["FirstPage"] = simple(firstPage)
	table["LastPage"] = simple(lastPage)
	table["FormatPagesForHTML"] = simple(func(s string) string {
		return strings.ReplaceAll(s, "--", "-")
	})
	table["FormatPagesForXML"] = simple(func(s string) string {
		return strings.ReplaceAll(s, "--", "&#x2013;")
	})
}

func firstPage(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return pageSeparator.Split(s, 2)[0]
}

// lastPage returns the page after the range separator, or the only page
// when there is no range.
func lastPage(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	parts := pageSeparator.Split(s, -1)
	return parts[len(parts)-1]
}
