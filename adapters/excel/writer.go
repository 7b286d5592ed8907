// Package excel renders assembled sheets into a single XLSX workbook.
// Styling stays deliberately small: frozen header row, bold header,
// auto-fitted column widths, a banded table object per sheet, and a
// highlight fill on the Pareto cutoff row when one was selected.
package excel

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/xuri/excelize/v2"

	"netconvert/domain/table"
)

// WriterConfig controls workbook styling.
type WriterConfig struct {
	FreezeHeader   bool
	AddTables      bool
	MaxColWidth    float64
	HighlightColor string // ARGB fill for the cutoff row
}

// DefaultWriterConfig returns the styling defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		FreezeHeader:   true,
		AddTables:      true,
		MaxColWidth:    60,
		HighlightColor: "FFD966",
	}
}

// Writer builds XLSX workbooks from ordered sheet sequences.
type Writer struct {
	cfg WriterConfig
}

// NewWriter creates a writer with the given styling config.
func NewWriter(cfg WriterConfig) *Writer {
	if cfg.MaxColWidth <= 0 {
		cfg.MaxColWidth = DefaultWriterConfig().MaxColWidth
	}
	if cfg.HighlightColor == "" {
		cfg.HighlightColor = DefaultWriterConfig().HighlightColor
	}
	return &Writer{cfg: cfg}
}

// Write renders the sheets and saves the workbook at path.
func (w *Writer) Write(sheets []*table.Sheet, path string) error {
	f, err := w.build(sheets)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	log.Printf("[ExcelWriter] workbook saved: %s (%d sheets)", path, len(sheets))
	return nil
}

// WriteTo renders the sheets and streams the workbook to out. Used by
// the picker UI to serve the result as a download.
func (w *Writer) WriteTo(sheets []*table.Sheet, out io.Writer) error {
	f, err := w.build(sheets)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func (w *Writer) build(sheets []*table.Sheet) (*excelize.File, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets to write")
	}

	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	highlightStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{w.cfg.HighlightColor}},
	})
	if err != nil {
		return nil, fmt.Errorf("highlight style: %w", err)
	}

	for i, sheet := range sheets {
		if i == 0 {
			// Reuse the default sheet instead of leaving an empty Sheet1 behind.
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return nil, fmt.Errorf("rename default sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return nil, fmt.Errorf("create sheet %s: %w", sheet.Name, err)
			}
		}
		if err := w.renderSheet(f, sheet, headerStyle, highlightStyle, i); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func (w *Writer) renderSheet(f *excelize.File, sheet *table.Sheet, headerStyle, highlightStyle, index int) error {
	t := sheet.Table

	for col, header := range t.Headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet.Name, cell, header); err != nil {
			return fmt.Errorf("sheet %s header: %w", sheet.Name, err)
		}
	}

	for r, row := range t.Rows {
		for col, header := range t.Headers {
			value, ok := row[header]
			if !ok || value == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
			if err := f.SetCellValue(sheet.Name, cell, value); err != nil {
				return fmt.Errorf("sheet %s cell %s: %w", sheet.Name, cell, err)
			}
		}
	}

	if len(t.Headers) > 0 {
		first, _ := excelize.CoordinatesToCellName(1, 1)
		last, _ := excelize.CoordinatesToCellName(len(t.Headers), 1)
		if err := f.SetCellStyle(sheet.Name, first, last, headerStyle); err != nil {
			return fmt.Errorf("sheet %s header style: %w", sheet.Name, err)
		}
	}

	if w.cfg.FreezeHeader {
		if err := f.SetPanes(sheet.Name, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("sheet %s panes: %w", sheet.Name, err)
		}
	}

	if err := w.autofitColumns(f, sheet.Name, t); err != nil {
		return err
	}

	if w.cfg.AddTables && len(t.Rows) > 0 && len(t.Headers) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Headers), len(t.Rows)+1)
		if err := f.AddTable(sheet.Name, &excelize.Table{
			Range:     fmt.Sprintf("A1:%s", last),
			Name:      tableName(sheet.Name, index),
			StyleName: "TableStyleMedium9",
		}); err != nil {
			return fmt.Errorf("sheet %s table: %w", sheet.Name, err)
		}
	}

	if sheet.CutoffRow >= 0 && sheet.CutoffRow < len(t.Rows) && len(t.Headers) > 0 {
		rowIdx := sheet.CutoffRow + 2
		first, _ := excelize.CoordinatesToCellName(1, rowIdx)
		last, _ := excelize.CoordinatesToCellName(len(t.Headers), rowIdx)
		if err := f.SetCellStyle(sheet.Name, first, last, highlightStyle); err != nil {
			return fmt.Errorf("sheet %s cutoff highlight: %w", sheet.Name, err)
		}
	}

	return nil
}

// autofitColumns sizes each column to its longest rendered value plus
// padding, capped so one verbose cell cannot blow the layout up.
func (w *Writer) autofitColumns(f *excelize.File, name string, t *table.Table) error {
	for col, header := range t.Headers {
		width := float64(len(header))
		for _, row := range t.Rows {
			if l := float64(len(cellString(row[header]))); l > width {
				width = l
			}
		}
		width += 2
		if width > w.cfg.MaxColWidth {
			width = w.cfg.MaxColWidth
		}
		colName, _ := excelize.ColumnNumberToName(col + 1)
		if err := f.SetColWidth(name, colName, colName, width); err != nil {
			return fmt.Errorf("sheet %s column width: %w", name, err)
		}
	}
	return nil
}

// cellString renders a cell the way Excel will display it, for width
// estimation.
func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	default:
		return fmt.Sprintf("%v", c)
	}
}

// tableName derives a valid, unique workbook table name from the sheet
// name (letters, digits and underscores only, must not start with a
// digit).
func tableName(sheetName string, index int) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, sheetName)
	return fmt.Sprintf("tbl_%s_%d", clean, index+1)
}
