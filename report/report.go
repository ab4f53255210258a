// Package report renders tabular exports as xlsx workbooks.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// SheetName is the single worksheet every export writes to
const SheetName = "Report"

// ContentType is the MIME type of the rendered workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Column describes one exported column
type Column struct {
	Header string
	Width  float64
}

// Sheet is a rendered-ready table
type Sheet struct {
	Name    string
	Columns []Column
	Rows    [][]interface{}
}

// AddRow appends a row; it must have one value per column
func (s *Sheet) AddRow(values ...interface{}) {
	s.Rows = append(s.Rows, values)
}

// Filename returns an attachment name stamped with the export time
func (s *Sheet) Filename(at time.Time) string {
	return fmt.Sprintf("%s-%s.xlsx", s.Name, at.Format("20060102-150405"))
}

// Write renders the sheet as an xlsx workbook to w
func Write(w io.Writer, sheet *Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	headers := make([]interface{}, len(sheet.Columns))
	for i, c := range sheet.Columns {
		headers[i] = c.Header
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width := c.Width
		if width == 0 {
			width = 20
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}
	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if len(sheet.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(sheet.Columns), 1)
		if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
	}

	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	_, err = f.WriteTo(w)
	return err
}
