package format

import (
	"strconv"
	"strings"
)

func registerAuthorFormatters(table map[string]Constructor) {
	firstLast := func(abbr bool) func(Author) string {
		return func(a Author) string { return a.FirstLast(abbr) }
	}
	lastFirst := func(abbr bool) func(Author) string {
		return func(a Author) string { return a.LastFirst(abbr) }
	}
	list := func(render func(Author) string, oxford bool) Constructor {
		return simple(func(s string) string {
			return ParseAuthors(s).Join(render, oxford)
		})
	}
	withAnd := func(render func(Author) string) Constructor {
		return simple(func(s string) string {
			return ParseAuthors(s).JoinAnd(render)
		})
	}

	table["AuthorFirstFirst"] = withAnd(firstLast(false))
	table["AuthorFirstFirstCommas"] = list(firstLast(false), false)
	table["AuthorFirstLastCommas"] = list(firstLast(false), false)
	table["AuthorFirstLastOxfordCommas"] = list(firstLast(false), true)
	table["AuthorFirstAbbrLastCommas"] = list(firstLast(true), false)
	table["AuthorFirstAbbrLastOxfordCommas"] = list(firstLast(true), true)

	table["AuthorLastFirst"] = withAnd(lastFirst(false))
	table["AuthorLastFirstCommas"] = list(lastFirst(false), false)
	table["AuthorLastFirstOxfordCommas"] = list(lastFirst(false), true)
	table["AuthorLastFirstAbbrCommas"] = list(lastFirst(true), false)
	table["AuthorLastFirstAbbrOxfordCommas"] = list(lastFirst(true), true)
	table["AuthorAbbreviator"] = withAnd(lastFirst(true))
	table["AuthorLastFirstAbbreviator"] = withAnd(lastFirst(true))

	table["AuthorLF_FF"] = simple(func(s string) string { return lastFirstThenFirstFirst(s, false) })
	table["AuthorLF_FFAbbr"] = simple(func(s string) string { return lastFirstThenFirstFirst(s, true) })
	table["AuthorNatBib"] = simple(natbib)
	table["AuthorOrgSci"] = simple(orgSci)

	table["AuthorAndsReplacer"] = simple(andsReplacer)
	table["AuthorAndsCommaReplacer"] = simple(andsCommaReplacer)
	table["AuthorAndToSemicolonReplacer"] = simple(func(s string) string {
		return strings.Join(splitTopLevel(s, " and "), "; ")
	})

	table["Authors"] = func(Dependencies) Formatter { return &Authors{} }
	table["NameFormatter"] = func(Dependencies) Formatter { return NewNameFormatter(DefaultNameFormat) }
	table["RisAuthors"] = func(Dependencies) Formatter { return &RisAuthors{tag: "AU"} }
}

// lastFirstThenFirstFirst renders the first author "Last, First" and the rest
// "First Last", joined with " and ".
func lastFirstThenFirstFirst(s string, abbr bool) string {
	list := ParseAuthors(s)
	names := make([]string, 0, list.Len()+1)
	for i, a := range list.Authors {
		if i == 0 {
			names = append(names, a.LastFirst(abbr))
		} else {
			names = append(names, a.FirstLast(abbr))
		}
	}
	if list.Others {
		names = append(names, "others")
	}
	return strings.Join(names, " and ")
}

func natbib(s string) string {
	list := ParseAuthors(s)
	switch {
	case list.Len() == 0:
		return ""
	case list.Len() == 1 && !list.Others:
		return list.Authors[0].LastOnly()
	case list.Len() == 2 && !list.Others:
		return list.Authors[0].LastOnly() + " and " + list.Authors[1].LastOnly()
	default:
		return list.Authors[0].LastOnly() + " et al."
	}
}

func orgSci(s string) string {
	list := ParseAuthors(s)
	names := make([]string, 0, list.Len())
	for i, a := range list.Authors {
		if i == 0 {
			names = append(names, joinNonEmpty(", ", a.lastWithVon(), Initials(a.First)))
		} else {
			names = append(names, joinNonEmpty(" ", Initials(a.First), a.lastWithVon()))
		}
	}
	out := strings.Join(names, ", ")
	if list.Others {
		out += " et al."
	}
	return out
}

func andsReplacer(s string) string {
	names := splitTopLevel(s, " and ")
	switch len(names) {
	case 1:
		return s
	case 2:
		return names[0] + " & " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + " & " + names[len(names)-1]
}

func andsCommaReplacer(s string) string {
	names := splitTopLevel(s, " and ")
	switch len(names) {
	case 1:
		return s
	case 2:
		return names[0] + " and " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}

// Authors is the configurable author list formatter. Its argument is a
// comma separated option list such as "LastFirst,Initials,Sep=; ,EtAl=3".
type Authors struct {
	order      string
	initials   bool
	sep        string
	lastSep    string
	oxford     bool
	etAlLimit  int
	etAlString string
}

func (f *Authors) SetArgument(arg string) {
	for _, opt := range splitEscaped(arg, ',') {
		key, value, hasValue := strings.Cut(opt, "=")
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "firstfirst", "lastfirst", "lastfirstfirstfirst":
			f.order = strings.ToLower(strings.TrimSpace(key))
		case "initials":
			f.initials = true
		case "fullname":
			f.initials = false
		case "oxford":
			f.oxford = true
		case "sep":
			if hasValue {
				f.sep = value
			}
		case "lastsep":
			if hasValue {
				f.lastSep = value
			}
		case "etal":
			if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
				f.etAlLimit = n
			}
		case "etalstring":
			if hasValue {
				f.etAlString = value
			}
		}
	}
}

func (f *Authors) Format(value string) string {
	list := ParseAuthors(value)
	if list.Len() == 0 {
		return ""
	}

	sep := f.sep
	if sep == "" {
		sep = ", "
	}
	lastSep := f.lastSep
	if lastSep == "" {
		lastSep = " and "
		if f.oxford {
			lastSep = ", and "
		}
	}
	etAl := f.etAlString
	if etAl == "" {
		etAl = " et al."
	}

	authors := list.Authors
	truncated := list.Others
	if f.etAlLimit > 0 && len(authors) > f.etAlLimit {
		authors = authors[:1]
		truncated = true
	}

	names := make([]string, len(authors))
	for i, a := range authors {
		lastFirst := f.order == "lastfirst" || (f.order == "lastfirstfirstfirst" && i == 0)
		if lastFirst {
			names[i] = a.LastFirst(f.initials)
		} else {
			names[i] = a.FirstLast(f.initials)
		}
	}

	var out string
	switch {
	case len(names) == 1:
		out = names[0]
	case truncated:
		out = strings.Join(names, sep)
	case len(names) == 2 && f.sep == "":
		out = names[0] + " and " + names[1]
	default:
		out = strings.Join(names[:len(names)-1], sep) + lastSep + names[len(names)-1]
	}
	if truncated {
		out += etAl
	}
	return out
}

// RisAuthors emits one "TAG  - Last, First" line per author.
type RisAuthors struct {
	tag string
}

func (f *RisAuthors) SetArgument(arg string) {
	if arg = strings.TrimSpace(arg); arg != "" {
		f.tag = arg
	}
}

func (f *RisAuthors) Format(value string) string {
	list := ParseAuthors(value)
	lines := make([]string, 0, list.Len())
	for _, a := range list.Authors {
		lines = append(lines, f.tag+"  - "+a.LastFirst(false))
	}
	return strings.Join(lines, "\n")
}

func splitEscaped(s string, sep byte) []string {
	var parts []string
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == sep {
			b.WriteByte(sep)
			i++
			continue
		}
		if s[i] == sep {
			parts = append(parts, b.String())
			b.Reset()
			continue
		}
		b.WriteByte(s[i])
	}
	return append(parts, b.String())
}
