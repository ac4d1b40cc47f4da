// Package sheet writes rendered layouts into an .xlsx workbook, one row per
// record.
package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/benjaminschreck/go-layout/pkg/layout"
)

// DefaultSheet is the sheet a new workbook starts with.
const DefaultSheet = "Sheet1"

// Column renders one cell of every row.
type Column struct {
	Header string
	Layout *layout.Layout
}

// Writer appends rows to a sheet of a new workbook.
type Writer struct {
	f     *excelize.File
	sheet string
	row   int
}

// NewWriter creates a workbook with a single sheet named sheet.
func NewWriter(sheet string) (*Writer, error) {
	f := excelize.NewFile()
	if sheet == "" {
		sheet = DefaultSheet
	}
	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	}
	return &Writer{f: f, sheet: sheet, row: 1}, nil
}

// File exposes the underlying workbook.
func (w *Writer) File() *excelize.File {
	return w.f
}

// Sheet returns the sheet rows are written to.
func (w *Writer) Sheet() string {
	return w.sheet
}

// WriteRow writes cells to the next row.
func (w *Writer) WriteRow(cells ...string) error {
	for i, v := range cells {
		addr, err := excelize.CoordinatesToCellName(i+1, w.row)
		if err != nil {
			return err
		}
		if err := w.f.SetCellValue(w.sheet, addr, v); err != nil {
			return fmt.Errorf("set %s: %w", addr, err)
		}
	}
	w.row++
	return nil
}

// WriteHeader writes a bold header row.
func (w *Writer) WriteHeader(headers ...string) error {
	style, err := w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	row := w.row
	if err := w.WriteRow(headers...); err != nil {
		return err
	}
	if len(headers) == 0 {
		return nil
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(headers), row)
	return w.f.SetCellStyle(w.sheet, first, last, style)
}

// WriteColumns renders every record with each column layout. A header row is
// written when any column has a header. Each column keeps its own render
// state across the records.
func (w *Writer) WriteColumns(ctx layout.CollectionContext, records []layout.Record, columns []Column) error {
	var coll layout.Collection
	if ctx != nil {
		coll = ctx.Collection()
	}

	headers := make([]string, len(columns))
	hasHeader := false
	for i, c := range columns {
		headers[i] = c.Header
		hasHeader = hasHeader || c.Header != ""
	}
	if hasHeader {
		if err := w.WriteHeader(headers...); err != nil {
			return err
		}
	}

	states := make([]*layout.RenderState, len(columns))
	for i := range states {
		states[i] = layout.NewRenderState()
	}

	cells := make([]string, len(columns))
	for r, rec := range records {
		for i, c := range columns {
			text, err := c.Layout.RenderWithState(states[i], rec, coll)
			if err != nil {
				return layout.WithContext(err, "render cell", map[string]interface{}{
					"record": r,
					"column": c.Header,
				})
			}
			cells[i] = text
		}
		if err := w.WriteRow(cells...); err != nil {
			return err
		}
	}
	return nil
}

// WriteExport runs x over records and writes one row per rendered record.
// Tabs in the rendered text separate cells; a trailing line break is
// dropped.
func (w *Writer) WriteExport(x *layout.Exporter, ctx layout.CollectionContext, records []layout.Record) error {
	return x.ExportEach(ctx, records, func(_ int, _ layout.Record, text string) error {
		text = strings.TrimRight(text, "\r\n")
		return w.WriteRow(strings.Split(text, "\t")...)
	})
}

// SaveAs writes the workbook to path.
func (w *Writer) SaveAs(path string) error {
	if err := w.f.SaveAs(path); err != nil {
		return layout.NewFileError("save workbook", path, err)
	}
	return nil
}

// Close releases the workbook.
func (w *Writer) Close() error {
	return w.f.Close()
}
