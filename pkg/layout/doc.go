// Package layout renders bibliographic records with JabRef-style layout
// files.
//
// A layout is plain text with backslash commands. It is tokenized once,
// built into a tree of nodes and can then be rendered against any number of
// records.
//
// # Quick Start
//
//	l, err := layout.Compile(`\author[AuthorLastFirst]: \title\begin{year} (\year)\end{year}`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	entry := layout.NewEntry("article").
//	    SetField("author", "Smith, John").
//	    SetField("title", "A Title").
//	    SetField("year", "2020")
//
//	text, err := l.Render(entry, nil)
//	// Smith, John: A Title (2020)
//
// # Layout Syntax
//
// Fields:
//
//	\title                       - Field value, or nothing when missing
//	\title[ToUpperCase]          - Field passed through a formatter chain
//	\format[Authors(sort=last)]{\author} - Formatter chain over arbitrary text
//
// Blocks:
//
//	\begin{year}...\end{year}            - Rendered when year is present
//	\begin{!year}...\end{!year}          - Rendered when year is missing
//	\begin{doi;url}...\end{doi;url}      - All fields present (also &)
//	\begin{doi|url}...\end{doi|url}      - Any field present
//	\begingroup{year}...\endgroup{year}  - Rendered once per run of equal values
//
// Collection commands, valid only in begin and end layouts:
//
//	\encoding    - Display name of the output encoding
//	\filename    - Absolute path of the database file
//	\filepath    - Database path as given
//
// A formatter chain is a comma separated list of calls. Each call is a name
// with an optional argument in parentheses; a quoted argument may contain
// commas and balanced parentheses and ends at the `")` that closes the call.
//
// # Formatters
//
// Names resolve in order: custom name formatters of the layout set, the
// built-in formatters of package format, then user name formatters. A name
// that resolves nowhere is kept in the chain as missing; it leaves the value
// unchanged and is reported by Layout.InvalidFormatters.
//
// # Rendering
//
// Rendering never fails on missing data. Blank lines left behind by skipped
// blocks are collapsed. RenderState carries the active group between records
// so that group blocks act as section headers; Render starts from a fresh
// state each time while RenderWithState and Exporter share one.
//
// Record layouts that use collection commands, and collection layouts that
// use record nodes, fail with a UsageError.
//
// # Engine
//
// Engine compiles layouts through an LRU cache keyed by source. Its Config
// can be built from LAYOUT_* environment variables:
//
//	engine, err := layout.LoadEngine(layout.ConfigFromEnvironment())
//
// In strict mode compilation fails with a ValidationError when a layout has
// structural warnings or unknown formatters.
//
// # Thread Safety
//
// A compiled Layout is safe for concurrent use as long as each goroutine
// renders with its own RenderState. Registry is immutable once built.
package layout
