package format

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// combining marks for LaTeX accent commands
var latexAccents = map[string]rune{
	"'":  '\u0301',
	"`":  '\u0300',
	"^":  '\u0302',
	"\"": '\u0308',
	"~":  '\u0303',
	"=":  '\u0304',
	".":  '\u0307',
	"u":  '\u0306',
	"v":  '\u030C',
	"H":  '\u030B',
	"c":  '\u0327',
	"k":  '\u0328',
	"r":  '\u030A',
	"d":  '\u0323',
	"b":  '\u0331',
}

var latexSymbols = map[string]string{
	"ss":             "ß",
	"o":              "ø",
	"O":              "Ø",
	"aa":             "å",
	"AA":             "Å",
	"ae":             "æ",
	"AE":             "Æ",
	"oe":             "œ",
	"OE":             "Œ",
	"l":              "ł",
	"L":              "Ł",
	"i":              "ı",
	"j":              "ȷ",
	"dh":             "ð",
	"DH":             "Ð",
	"th":             "þ",
	"TH":             "Þ",
	"S":              "§",
	"P":              "¶",
	"copyright":      "©",
	"pounds":         "£",
	"euro":           "€",
	"ldots":          "…",
	"dots":           "…",
	"textendash":     "–",
	"textemdash":     "—",
	"textquoteleft":  "‘",
	"textregistered": "®",
	"texttrademark":  "™",
	"textdegree":     "°",
	"LaTeX":          "LaTeX",
	"TeX":            "TeX",
}

const latexEscapable = "&%$#_{}"

// reverse tables for UnicodeToLatex
var (
	unicodeSymbols = map[rune]string{}
	unicodeAccents = map[rune]string{}
)

func init() {
	for name, sym := range latexSymbols {
		r, size := utf8.DecodeRuneInString(sym)
		if size != len(sym) || name == "dots" {
			continue
		}
		unicodeSymbols[r] = name
	}
	for name, mark := range latexAccents {
		unicodeAccents[mark] = name
	}
}

// UnicodeToLatex replaces non-ASCII characters that have a LaTeX spelling
// with a braced command such as {\"a} or {\ss}. Other characters are kept.
func UnicodeToLatex(s string) string {
	var b strings.Builder
	for _, r := range norm.NFC.String(s) {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
			continue
		}
		if name, ok := unicodeSymbols[r]; ok {
			b.WriteString("{\\" + name + "}")
			continue
		}
		if d := []rune(norm.NFD.String(string(r))); len(d) == 2 && d[0] <= unicode.MaxASCII {
			if name, ok := unicodeAccents[d[1]]; ok {
				b.WriteString("{\\" + name)
				if isASCIILetter(name[0]) {
					b.WriteByte(' ')
				}
				b.WriteRune(d[0])
				b.WriteByte('}')
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func registerLatexFormatters(table map[string]Constructor) {
	table["LatexToUnicode"] = simple(LatexToUnicode)
	table["FormatChars"] = simple(LatexToUnicode)
	table["RemoveLatexCommands"] = simple(removeLatexCommands)
	table["HTMLChars"] = simple(htmlChars)
	table["RTFChars"] = simple(rtfChars)
	table["XMLChars"] = simple(func(s string) string { return xmlEscape(LatexToUnicode(s)) })
	table["UnicodeToLatex"] = simple(UnicodeToLatex)
	table["UnicodeToLatexFormatter"] = simple(UnicodeToLatex)
	table["OOPreFormatter"] = simple(func(s string) string {
		return latexToMarkup(s, ooTags, func(text string) string { return text })
	})
}

// LatexToUnicode converts LaTeX accent commands, symbol commands and escaped
// characters to Unicode, removes grouping braces and returns the NFC form.
func LatexToUnicode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '\\':
			i = convertCommand(s, i, &b)
		case c == '{' || c == '}':
			i++
		case c == '~':
			b.WriteString(" ")
			i++
		case strings.HasPrefix(s[i:], "---"):
			b.WriteString("—")
			i += 3
		case strings.HasPrefix(s[i:], "--"):
			b.WriteString("–")
			i += 2
		default:
			r, size := utf8.DecodeRuneInString(s[i:])
			b.WriteRune(r)
			i += size
		}
	}
	return norm.NFC.String(b.String())
}

// convertCommand handles the command starting at s[i] == '\\' and returns
// the index after it.
func convertCommand(s string, i int, b *strings.Builder) int {
	if i+1 >= len(s) {
		b.WriteByte('\\')
		return i + 1
	}
	next := s[i+1]
	if strings.IndexByte(latexEscapable, next) >= 0 {
		b.WriteByte(next)
		return i + 2
	}
	if next == '\\' {
		b.WriteByte('\n')
		return i + 2
	}

	name, end := commandName(s, i+1)
	if mark, ok := latexAccents[name]; ok {
		arg, after := accentArgument(s, end, isASCIILetter(next))
		base := LatexToUnicode(arg)
		if base == "" {
			b.WriteRune(mark)
			return after
		}
		r, size := utf8.DecodeRuneInString(base)
		b.WriteRune(r)
		b.WriteRune(mark)
		b.WriteString(base[size:])
		return after
	}
	if sym, ok := latexSymbols[name]; ok {
		b.WriteString(sym)
		return skipCommandTerminator(s, end)
	}
	// unknown command: drop the name and keep its argument text
	return skipSpaces(s, end)
}

func commandName(s string, start int) (string, int) {
	if start >= len(s) {
		return "", start
	}
	if !isASCIILetter(s[start]) {
		return s[start : start+1], start + 1
	}
	end := start
	for end < len(s) && isASCIILetter(s[end]) {
		end++
	}
	return s[start:end], end
}

// accentArgument reads the argument of an accent command: a braced group, a
// single command like \i, or a single character.
func accentArgument(s string, i int, letterCommand bool) (string, int) {
	if letterCommand {
		i = skipSpaces(s, i)
	}
	if i >= len(s) {
		return "", i
	}
	switch s[i] {
	case '{':
		end := matchingBrace(s, i)
		if end < 0 {
			return s[i+1:], len(s)
		}
		return s[i+1 : end], end + 1
	case '\\':
		name, end := commandName(s, i+1)
		return "\\" + name, end
	}
	_, size := utf8.DecodeRuneInString(s[i:])
	return s[i : i+size], i + size
}

func skipCommandTerminator(s string, i int) int {
	if strings.HasPrefix(s[i:], "{}") {
		return i + 2
	}
	if i < len(s) && s[i] == ' ' {
		return i + 1
	}
	return i
}

func skipSpaces(s string, i int) int {
	for i < len(s) && s[i] == ' ' {
		i++
	}
	return i
}

func matchingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func removeLatexCommands(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		switch c := s[i]; {
		case c == '\\' && i+1 < len(s) && strings.IndexByte(latexEscapable, s[i+1]) >= 0:
			b.WriteByte(s[i+1])
			i += 2
		case c == '\\':
			_, end := commandName(s, i+1)
			i = skipSpaces(s, end)
		case c == '{' || c == '}':
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// markupTags maps text style commands to an open/close pair.
type markupTags map[string][2]string

var htmlTags = markupTags{
	"textit":          {"<i>", "</i>"},
	"textsl":          {"<i>", "</i>"},
	"emph":            {"<em>", "</em>"},
	"textbf":          {"<b>", "</b>"},
	"texttt":          {"<tt>", "</tt>"},
	"underline":       {"<u>", "</u>"},
	"textsc":          {`<span style="font-variant: small-caps">`, "</span>"},
	"textsuperscript": {"<sup>", "</sup>"},
	"textsubscript":   {"<sub>", "</sub>"},
}

// OpenOffice reference marks
var ooTags = markupTags{
	"textit":          {"<i>", "</i>"},
	"textsl":          {"<i>", "</i>"},
	"emph":            {"<i>", "</i>"},
	"textbf":          {"<b>", "</b>"},
	"texttt":          {"<tt>", "</tt>"},
	"underline":       {"<u>", "</u>"},
	"sout":            {"<s>", "</s>"},
	"textsc":          {"<smallcaps>", "</smallcaps>"},
	"textsuperscript": {"<sup>", "</sup>"},
	"textsubscript":   {"<sub>", "</sub>"},
}

var rtfTags = markupTags{
	"textit":          {`{\i `, "}"},
	"textsl":          {`{\i `, "}"},
	"emph":            {`{\i `, "}"},
	"textbf":          {`{\b `, "}"},
	"underline":       {`{\ul `, "}"},
	"textsc":          {`{\scaps `, "}"},
	"textsuperscript": {`{\super `, "}"},
	"textsubscript":   {`{\sub `, "}"},
}

// latexToMarkup converts style commands with tags and passes the remaining
// text through LatexToUnicode and escape.
func latexToMarkup(s string, tags markupTags, escape func(string) string) string {
	var out, plain strings.Builder
	flush := func() {
		if plain.Len() > 0 {
			out.WriteString(escape(LatexToUnicode(plain.String())))
			plain.Reset()
		}
	}
	for i := 0; i < len(s); {
		if s[i] == '\\' {
			name, end := commandName(s, i+1)
			if tag, ok := tags[name]; ok && end < len(s) && s[end] == '{' {
				closing := matchingBrace(s, end)
				if closing > 0 {
					flush()
					out.WriteString(tag[0])
					out.WriteString(latexToMarkup(s[end+1:closing], tags, escape))
					out.WriteString(tag[1])
					i = closing + 1
					continue
				}
			}
			// keep escaped characters together with their backslash
			if end > i+1 {
				plain.WriteString(s[i:end])
				i = end
				continue
			}
		}
		plain.WriteByte(s[i])
		i++
	}
	flush()
	return out.String()
}

func htmlChars(s string) string {
	return latexToMarkup(s, htmlTags, func(text string) string {
		var b strings.Builder
		for _, r := range text {
			switch {
			case r == '&':
				b.WriteString("&amp;")
			case r == '<':
				b.WriteString("&lt;")
			case r == '>':
				b.WriteString("&gt;")
			case r == '\n':
				b.WriteString("<br>")
			case r > unicode.MaxASCII:
				b.WriteString("&#")
				b.WriteString(strconv.Itoa(int(r)))
				b.WriteByte(';')
			default:
				b.WriteRune(r)
			}
		}
		return b.String()
	})
}

func rtfChars(s string) string {
	return latexToMarkup(s, rtfTags, func(text string) string {
		var b strings.Builder
		for _, r := range text {
			switch {
			case r == '\\' || r == '{' || r == '}':
				b.WriteByte('\\')
				b.WriteRune(r)
			case r == '\n':
				b.WriteString(`\line `)
			case r > unicode.MaxASCII:
				// RTF code points are signed 16-bit values
				v := int(r)
				if v > 0x7fff {
					v -= 0x10000
				}
				b.WriteString(`\u`)
				b.WriteString(strconv.Itoa(v))
				b.WriteByte('?')
			default:
				b.WriteRune(r)
			}
		}
		return b.String()
	})
}

func xmlEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '&':
			b.WriteString("&amp;")
		case r == '<':
			b.WriteString("&lt;")
		case r == '>':
			b.WriteString("&gt;")
		case r == '"':
			b.WriteString("&quot;")
		case r == '\'':
			b.WriteString("&apos;")
		case r > unicode.MaxASCII:
			b.WriteString("&#")
			b.WriteString(strconv.Itoa(int(r)))
			b.WriteByte(';')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
