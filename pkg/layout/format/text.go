package format

import (
	"html"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/gomarkdown/markdown"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	markdownPolicy *bluemonday.Policy
	strictPolicy   *bluemonday.Policy
	policiesOnce   sync.Once
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policiesOnce.Do(func() {
		markdownPolicy = bluemonday.UGCPolicy()
		strictPolicy = bluemonday.StrictPolicy()
	})
	return markdownPolicy, strictPolicy
}

func registerTextFormatters(table map[string]Constructor) {
	// a Caser is stateful, so every call gets its own
	table["ToLowerCase"] = simple(func(s string) string {
		return cases.Lower(language.Und).String(s)
	})
	table["ToUpperCase"] = simple(func(s string) string {
		return cases.Upper(language.Und).String(s)
	})
	table["TitleCase"] = simple(func(s string) string {
		return cases.Title(language.Und, cases.NoLower).String(s)
	})

	table["HTMLParagraphs"] = simple(htmlParagraphs)
	table["ReplaceWithEscapedDoubleQuotes"] = simple(func(s string) string {
		return strings.ReplaceAll(s, `"`, `""`)
	})
	table["Markdown"] = simple(markdownToHTML)
	table["HtmlToLatex"] = simple(htmlToLatex)
	table["HTMLToLatexFormatter"] = simple(htmlToLatex)

	table["RemoveBrackets"] = simple(func(s string) string {
		return strings.NewReplacer("{", "", "}", "").Replace(s)
	})
	table["RemoveBracketsAddComma"] = simple(func(s string) string {
		return strings.NewReplacer("{", "", "}", ",").Replace(s)
	})
	table["RemoveTilde"] = simple(removeTilde)
	table["RemoveWhitespace"] = simple(func(s string) string {
		return strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, s)
	})
	table["NoSpaceBetweenAbbreviations"] = simple(noSpaceBetweenAbbreviations)
}

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

func htmlParagraphs(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	var paragraphs []string
	for _, p := range paragraphBreak.Split(s, -1) {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, "<p>\n"+p+"\n</p>")
		}
	}
	return strings.Join(paragraphs, "\n")
}

func markdownToHTML(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	policy, _ := policies()
	out := markdown.ToHTML([]byte(s), nil, nil)
	return strings.TrimSpace(string(policy.SanitizeBytes(out)))
}

var htmlToLatexTags = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`(?i)<(b|strong)(\s[^>]*)?>`), `\textbf{`},
	{regexp.MustCompile(`(?i)<(i|em)(\s[^>]*)?>`), `\emph{`},
	{regexp.MustCompile(`(?i)<sup(\s[^>]*)?>`), `\textsuperscript{`},
	{regexp.MustCompile(`(?i)<sub(\s[^>]*)?>`), `\textsubscript{`},
	{regexp.MustCompile(`(?i)</(b|strong|i|em|sup|sub)\s*>`), `}`},
	{regexp.MustCompile(`(?i)<br\s*/?>`), "\n"},
	{regexp.MustCompile(`(?i)</p\s*>`), "\n\n"},
}

var latexSpecials = strings.NewReplacer("&", `\&`, "%", `\%`, "#", `\#`, "_", `\_`)

// htmlToLatex converts the common inline HTML tags to LaTeX commands and
// strips every other tag.
func htmlToLatex(s string) string {
	_, strict := policies()
	for _, t := range htmlToLatexTags {
		s = t.pattern.ReplaceAllLiteralString(s, t.repl)
	}
	s = html.UnescapeString(strict.Sanitize(s))
	return strings.TrimSpace(latexSpecials.Replace(s))
}

func removeTilde(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '~' && (i == 0 || s[i-1] != '\\') {
			b.WriteByte(' ')
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

var spacedAbbreviation = regexp.MustCompile(`(\p{Lu}\.)\s+(\p{Lu}\.)`)

// noSpaceBetweenAbbreviations turns "A. B. Smith" into "A.B. Smith".
func noSpaceBetweenAbbreviations(s string) string {
	for {
		next := spacedAbbreviation.ReplaceAllString(s, "$1$2")
		if next == s {
			return s
		}
		s = next
	}
}
