package format

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Author is a single parsed BibTeX name.
type Author struct {
	First string
	Von   string
	Last  string
	Jr    string
}

// AuthorList is the parsed content of an author or editor field.
type AuthorList struct {
	Authors []Author
	// Others is set when the list ends with "and others"
	Others bool
}

// ParseAuthors splits a BibTeX name list on top-level " and " separators and
// parses every name in either "First von Last" or "von Last, Jr, First" form.
func ParseAuthors(value string) AuthorList {
	var list AuthorList
	for _, raw := range splitTopLevel(value, " and ") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.EqualFold(raw, "others") {
			list.Others = true
			continue
		}
		list.Authors = append(list.Authors, parseName(raw))
	}
	return list
}

// Len returns the number of named authors, not counting "others".
func (l AuthorList) Len() int {
	return len(l.Authors)
}

func parseName(raw string) Author {
	parts := splitTopLevel(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch len(parts) {
	case 1:
		return parseFirstVonLast(parts[0])
	case 2:
		von, last := splitVonLast(fieldsTopLevel(parts[0]))
		return Author{First: parts[1], Von: von, Last: last}
	default:
		von, last := splitVonLast(fieldsTopLevel(parts[0]))
		return Author{First: strings.Join(parts[2:], ", "), Von: von, Last: last, Jr: parts[1]}
	}
}

func parseFirstVonLast(raw string) Author {
	words := fieldsTopLevel(raw)
	if len(words) == 0 {
		return Author{}
	}
	if len(words) == 1 {
		return Author{Last: words[0]}
	}

	// von starts at the first lower-case word that is not the last word
	vonStart := -1
	for i := 0; i < len(words)-1; i++ {
		if startsLower(words[i]) {
			vonStart = i
			break
		}
	}
	if vonStart < 0 {
		return Author{
			First: strings.Join(words[:len(words)-1], " "),
			Last:  words[len(words)-1],
		}
	}

	vonEnd := vonStart
	for i := vonStart; i < len(words)-1; i++ {
		if startsLower(words[i]) {
			vonEnd = i
		}
	}
	return Author{
		First: strings.Join(words[:vonStart], " "),
		Von:   strings.Join(words[vonStart:vonEnd+1], " "),
		Last:  strings.Join(words[vonEnd+1:], " "),
	}
}

func splitVonLast(words []string) (von, last string) {
	if len(words) == 0 {
		return "", ""
	}
	vonEnd := -1
	for i := 0; i < len(words)-1; i++ {
		if startsLower(words[i]) {
			vonEnd = i
		}
	}
	if vonEnd < 0 {
		return "", strings.Join(words, " ")
	}
	return strings.Join(words[:vonEnd+1], " "), strings.Join(words[vonEnd+1:], " ")
}

func startsLower(word string) bool {
	word = strings.TrimLeft(word, "{")
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsLower(r)
}

// splitTopLevel splits s on sep outside of braces. sep is matched
// case-insensitively so "AND" separates names as well.
func splitTopLevel(s, sep string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		}
		if depth == 0 && len(s)-i >= len(sep) && strings.EqualFold(s[i:i+len(sep)], sep) {
			parts = append(parts, s[start:i])
			i += len(sep) - 1
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func fieldsTopLevel(s string) []string {
	var words []string
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '{':
			depth++
		case r == '}' && depth > 0:
			depth--
		case unicode.IsSpace(r) && depth == 0:
			if b.Len() > 0 {
				words = append(words, b.String())
				b.Reset()
			}
			continue
		}
		b.WriteRune(r)
	}
	if b.Len() > 0 {
		words = append(words, b.String())
	}
	return words
}

// Initials abbreviates given names: "Donald Ervin" -> "D. E.",
// "Jean-Paul" -> "J.-P.".
func Initials(first string) string {
	var out []string
	for _, word := range fieldsTopLevel(first) {
		hyphenated := strings.Split(word, "-")
		for i, part := range hyphenated {
			hyphenated[i] = initial(part)
		}
		out = append(out, strings.Join(hyphenated, "-"))
	}
	return strings.Join(out, " ")
}

func initial(word string) string {
	word = strings.Trim(word, "{}~")
	if word == "" {
		return ""
	}
	if strings.HasSuffix(word, ".") && utf8.RuneCountInString(word) <= 3 {
		return word
	}
	r, _ := utf8.DecodeRuneInString(word)
	return string(r) + "."
}

func (a Author) first(abbreviate bool) string {
	if abbreviate {
		return Initials(a.First)
	}
	return a.First
}

func (a Author) lastWithVon() string {
	return joinNonEmpty(" ", a.Von, a.Last)
}

// FirstLast renders "First von Last, Jr".
func (a Author) FirstLast(abbreviate bool) string {
	name := joinNonEmpty(" ", a.first(abbreviate), a.Von, a.Last)
	if a.Jr != "" {
		name += ", " + a.Jr
	}
	return name
}

// LastFirst renders "von Last, Jr, First".
func (a Author) LastFirst(abbreviate bool) string {
	return joinNonEmpty(", ", a.lastWithVon(), a.Jr, a.first(abbreviate))
}

// LastOnly renders "von Last".
func (a Author) LastOnly() string {
	return a.lastWithVon()
}

// Join renders every author with render and combines them. Two authors are
// joined with " and ", longer lists with ", " and a final " and " (or ", and"
// with the Oxford comma). A trailing "others" becomes "et al.".
func (l AuthorList) Join(render func(Author) string, oxford bool) string {
	names := make([]string, len(l.Authors))
	for i, a := range l.Authors {
		names[i] = render(a)
	}
	if l.Others {
		if len(names) == 0 {
			return "et al."
		}
		return strings.Join(names, ", ") + " et al."
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	}
	last := " and "
	if oxford {
		last = ", and "
	}
	return strings.Join(names[:len(names)-1], ", ") + last + names[len(names)-1]
}

// JoinAnd renders every author with render and joins them with " and ".
func (l AuthorList) JoinAnd(render func(Author) string) string {
	names := make([]string, 0, len(l.Authors)+1)
	for _, a := range l.Authors {
		names = append(names, render(a))
	}
	if l.Others {
		names = append(names, "others")
	}
	return strings.Join(names, " and ")
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
