package layout

import (
	"sort"
	"strings"

	"github.com/benjaminschreck/go-layout/pkg/layout/format"
)

// Record is a single bibliographic entry as seen by a layout.
type Record interface {
	// ResolveFieldOrAlias returns the value of field name, falling back to
	// its alias. String references in the value are expanded against c,
	// which may be nil.
	ResolveFieldOrAlias(name string, c Collection) (string, bool)
	// DisplayType is the human readable entry type, e.g. "Article"
	DisplayType() string
}

// Collection is the database a record belongs to.
type Collection interface {
	// ResolveText expands #name# string references in text
	ResolveText(text string) string
}

// CollectionContext is what collection-scoped sections (begin, end) render
// against.
type CollectionContext interface {
	Collection() Collection
	// DatabasePath is the file the collection was loaded from, if any
	DatabasePath() (string, bool)
}

// fieldAliases maps a field to the name it is stored under in the other
// dialect (BibTeX / biblatex).
var fieldAliases = map[string]string{
	"address":       "location",
	"annote":        "annotation",
	"annotation":    "annote",
	"archiveprefix": "eprinttype",
	"eprintclass":   "primaryclass",
	"eprinttype":    "archiveprefix",
	"institution":   "school",
	"journal":       "journaltitle",
	"journaltitle":  "journal",
	"location":      "address",
	"primaryclass":  "eprintclass",
	"school":        "institution",
}

// Entry is an in-memory Record.
type Entry struct {
	Type        string
	CitationKey string
	fields      map[string]string
}

// NewEntry creates an entry of the given type, e.g. "article".
func NewEntry(entryType string) *Entry {
	return &Entry{
		Type:   entryType,
		fields: make(map[string]string),
	}
}

// SetField sets a field. Names are case-insensitive and an empty value
// clears the field.
func (e *Entry) SetField(name, value string) *Entry {
	name = strings.ToLower(strings.TrimSpace(name))
	if value == "" {
		delete(e.fields, name)
		return e
	}
	e.fields[name] = value
	return e
}

// SetCitationKey sets the key and returns the entry.
func (e *Entry) SetCitationKey(key string) *Entry {
	e.CitationKey = key
	return e
}

// Field returns the raw value of a field without alias or string
// resolution.
func (e *Entry) Field(name string) (string, bool) {
	v, ok := e.fields[strings.ToLower(strings.TrimSpace(name))]
	return v, ok
}

// FieldNames lists the set fields, sorted.
func (e *Entry) FieldNames() []string {
	names := make([]string, 0, len(e.fields))
	for name := range e.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Entry) DisplayType() string {
	if e == nil {
		return ""
	}
	return format.EntryTypeDisplayName(e.Type)
}

func (e *Entry) ResolveFieldOrAlias(name string, c Collection) (string, bool) {
	if e == nil {
		return "", false
	}
	value, ok := e.resolve(strings.ToLower(strings.TrimSpace(name)))
	if !ok {
		return "", false
	}
	if c != nil {
		value = c.ResolveText(value)
	}
	return value, true
}

func (e *Entry) resolve(name string) (string, bool) {
	switch name {
	case "entrytype":
		return e.DisplayType(), true
	case "citationkey", "bibtexkey":
		return e.CitationKey, e.CitationKey != ""
	}

	if v, ok := e.fields[name]; ok {
		return v, true
	}
	if alias, ok := fieldAliases[name]; ok {
		if v, ok := e.fields[alias]; ok {
			return v, true
		}
	}

	switch name {
	case "year":
		if date, ok := e.fields["date"]; ok && len(date) >= 4 && isDigits(date[:4]) {
			return date[:4], true
		}
	case "month":
		if date, ok := e.fields["date"]; ok {
			parts := strings.Split(date, "-")
			if len(parts) >= 2 && isDigits(parts[1]) {
				return strings.TrimLeft(parts[1], "0"), true
			}
		}
	case "date":
		year, ok := e.fields["year"]
		if !ok {
			return "", false
		}
		if month, ok := e.fields["month"]; ok && isDigits(month) {
			if len(month) == 1 {
				month = "0" + month
			}
			return year + "-" + month, true
		}
		return year, true
	}
	return "", false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Database is an in-memory Collection of entries plus @string definitions.
type Database struct {
	Entries []*Entry
	// Strings maps lowercase @string names to their values
	Strings map[string]string
}

// NewDatabase creates an empty database.
func NewDatabase() *Database {
	return &Database{Strings: make(map[string]string)}
}

// AddString defines a @string constant.
func (d *Database) AddString(name, value string) *Database {
	if d.Strings == nil {
		d.Strings = make(map[string]string)
	}
	d.Strings[strings.ToLower(name)] = value
	return d
}

// AddEntry appends entries and returns the database.
func (d *Database) AddEntry(entries ...*Entry) *Database {
	d.Entries = append(d.Entries, entries...)
	return d
}

// Records returns the entries as records.
func (d *Database) Records() []Record {
	records := make([]Record, len(d.Entries))
	for i, e := range d.Entries {
		records[i] = e
	}
	return records
}

// maxStringDepth bounds the expansion of strings that reference strings.
const maxStringDepth = 10

// ResolveText replaces #name# references with their @string values.
// Unknown names are left as they are. A nil database returns text.
func (d *Database) ResolveText(text string) string {
	if d == nil || len(d.Strings) == 0 {
		return text
	}
	return d.expand(text, 0)
}

func (d *Database) expand(text string, depth int) string {
	if depth >= maxStringDepth || !strings.Contains(text, "#") {
		return text
	}

	var b strings.Builder
	rest := text
	for {
		start := strings.IndexByte(rest, '#')
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[start+1:], '#')
		if end < 0 {
			b.WriteString(rest)
			break
		}
		end += start + 1

		name := rest[start+1 : end]
		value, ok := d.Strings[strings.ToLower(name)]
		if !ok {
			// keep the first '#', the second may open a reference
			b.WriteString(rest[:end])
			rest = rest[end:]
			continue
		}
		b.WriteString(rest[:start])
		b.WriteString(d.expand(value, depth+1))
		rest = rest[end+1:]
	}
	return b.String()
}

// DatabaseContext pairs a database with the file it came from.
type DatabaseContext struct {
	Database *Database
	Path     string
}

func (c *DatabaseContext) Collection() Collection {
	if c.Database == nil {
		return nil
	}
	return c.Database
}

func (c *DatabaseContext) DatabasePath() (string, bool) {
	return c.Path, c.Path != ""
}
