package layout

import (
	"io"
	"sort"
	"strings"
)

// Exporter renders a whole collection: an optional begin section, one
// entry layout per record and an optional end section. All records of one
// export share a RenderState, so group blocks act as headers that are
// printed when the group value changes.
type Exporter struct {
	Begin *Layout
	End   *Layout
	// Entry renders records whose type has no layout in Types
	Entry *Layout
	// Types maps a lowercase entry type to its layout
	Types map[string]*Layout
	// Encoding is the label rendered by \encoding
	Encoding string
}

// Typed is implemented by records that know their raw entry type.
type Typed interface {
	EntryType() string
}

func (e *Entry) EntryType() string {
	return e.Type
}

// LayoutFor returns the layout used for rec, or nil when it is not
// exported.
func (x *Exporter) LayoutFor(rec Record) *Layout {
	if t, ok := rec.(Typed); ok && x.Types != nil {
		if l, ok := x.Types[strings.ToLower(t.EntryType())]; ok {
			return l
		}
	}
	return x.Entry
}

// Export writes the begin section, every record and the end section to w.
func (x *Exporter) Export(w io.Writer, ctx CollectionContext, records []Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = RecoverError(r)
		}
	}()

	if err := x.writeSection(w, x.Begin, ctx, "begin"); err != nil {
		return err
	}
	err = x.ExportEach(ctx, records, func(_ int, _ Record, text string) error {
		_, err := io.WriteString(w, text)
		return err
	})
	if err != nil {
		return err
	}
	return x.writeSection(w, x.End, ctx, "end")
}

// ExportEach renders every record and passes the text to fn. Records
// without a layout are skipped.
func (x *Exporter) ExportEach(ctx CollectionContext, records []Record, fn func(index int, rec Record, text string) error) error {
	var coll Collection
	if ctx != nil {
		coll = ctx.Collection()
	}

	logger := GetLogger()
	state := NewRenderState()
	for i, rec := range records {
		l := x.LayoutFor(rec)
		if l == nil {
			if logger.IsDebugMode() {
				logger.WithField("index", i).Debug("No layout for record, skipping")
			}
			continue
		}
		text, err := l.RenderWithState(state, rec, coll)
		if err != nil {
			return WithContext(err, "render record", map[string]interface{}{"index": i})
		}
		if err := fn(i, rec, text); err != nil {
			return err
		}
	}
	return nil
}

func (x *Exporter) writeSection(w io.Writer, l *Layout, ctx CollectionContext, name string) error {
	if l == nil {
		return nil
	}
	text, err := l.RenderCollection(ctx, x.Encoding)
	if err != nil {
		return WithContext(err, "render section", map[string]interface{}{"section": name})
	}
	_, err = io.WriteString(w, text)
	return err
}

// InvalidFormatters returns the unknown formatter names of all layouts,
// without duplicates.
func (x *Exporter) InvalidFormatters() []string {
	layouts := []*Layout{x.Begin, x.Entry, x.End}
	types := make([]string, 0, len(x.Types))
	for t := range x.Types {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		layouts = append(layouts, x.Types[t])
	}

	seen := make(map[string]bool)
	var names []string
	for _, l := range layouts {
		if l == nil {
			continue
		}
		for _, name := range l.InvalidFormatters() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
