package format

import "strings"

// JournalList is a JournalAbbreviator backed by a map from full journal
// name to abbreviation. Lookups ignore case and surrounding braces.
type JournalList map[string]string

func (l JournalList) Abbreviation(journal string) (string, bool) {
	key := normalizeJournal(journal)
	if key == "" {
		return "", false
	}
	if abbr, ok := l[journal]; ok {
		return abbr, true
	}
	for full, abbr := range l {
		if normalizeJournal(full) == key {
			return abbr, true
		}
	}
	return "", false
}

func normalizeJournal(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "{}")))
}
