// Package export writes a report to an .xlsx workbook.
package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Guliveer/vitalis/activity/internal/models"
	"github.com/Guliveer/vitalis/activity/internal/report"
)

// ErrExport wraps every failure to produce the workbook.
var ErrExport = errors.New("exporting report")

const (
	DefaultSheetName  = "Activity Report"
	DefaultFilePrefix = "activity_report"

	// fileTimestampLayout keeps the filename free of path-hostile characters.
	fileTimestampLayout = "2006-01-02_15-04-05"
)

// Columns is the header row of the exported sheet.
var Columns = []interface{}{"Program Name", "Active Time", "CPU %", "Memory MB"}

// Excel writes reports as single-sheet workbooks.
type Excel struct {
	SheetName string
}

// NewExcel creates an exporter whose sheet is titled sheetName.
func NewExcel(sheetName string) *Excel {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	return &Excel{SheetName: sheetName}
}

// Export writes the header row followed by one row per report row, in order.
// Numeric columns hold raw numbers; Active Time holds the formatted duration.
func (e *Excel) Export(rows []models.ReportRow, path string) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: closing workbook: %w", ErrExport, cerr)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), e.SheetName); err != nil {
		return fmt.Errorf("%w: naming sheet: %w", ErrExport, err)
	}

	if err := f.SetSheetRow(e.SheetName, "A1", &Columns); err != nil {
		return fmt.Errorf("%w: writing header: %w", ErrExport, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExport, err)
		}
		values := []interface{}{
			row.Name,
			report.FormatDuration(row.ActiveDuration),
			row.CPUTotal,
			row.MemoryTotalMB,
		}
		if err := f.SetSheetRow(e.SheetName, cell, &values); err != nil {
			return fmt.Errorf("%w: writing row %d: %w", ErrExport, i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	return nil
}

// DefaultPath builds <dir>/<prefix>_<YYYY-MM-DD_HH-MM-SS>.xlsx.
func DefaultPath(dir, prefix string, now time.Time) string {
	if prefix == "" {
		prefix = DefaultFilePrefix
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s.xlsx", prefix, now.Format(fileTimestampLayout)))
}
