// Package excel adapts xlsx workbooks to the core data model using excelize.
package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/protolab/erf-digest/internal/core"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// LoadWorkbook reads every sheet of an xlsx file into the core model. The
// first row of each sheet is its header; blank header cells get synthesized
// "Unnamed: N" labels and duplicates get a ".N" suffix so column names stay
// unique within a sheet.
func LoadWorkbook(path string, logger *zap.Logger) (*core.Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("workbook %s: %w", path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	wb := &core.Workbook{Name: filepath.Base(path)}
	for _, sheetName := range f.GetSheetList() {
		sheet, err := readSheet(f, sheetName)
		if err != nil {
			logger.Warn("Skipping unreadable sheet",
				zap.String("sheet", sheetName),
				zap.Error(err))
			continue
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}

	logger.Info("Loaded workbook",
		zap.String("file", wb.Name),
		zap.Int("sheets", len(wb.Sheets)))
	return wb, nil
}

func readSheet(f *excelize.File, sheetName string) (core.Sheet, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return core.Sheet{}, err
	}

	sheet := core.Sheet{Name: sheetName}
	if len(rows) == 0 {
		return sheet, nil
	}

	sheet.Columns = headerNames(rows[0])
	for _, raw := range rows[1:] {
		row := make(core.Row, len(sheet.Columns))
		for i, col := range sheet.Columns {
			if i < len(raw) {
				row[col] = strings.TrimSpace(raw[i])
			} else {
				row[col] = ""
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

// headerNames turns a header row into unique column names.
func headerNames(header []string) []string {
	names := make([]string, 0, len(header))
	seen := make(map[string]int, len(header))
	for i, cell := range header {
		name := strings.TrimSpace(cell)
		if name == "" {
			name = fmt.Sprintf("%s %d", core.UnnamedColumnPrefix, i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n)
		}
		seen[name]++
		names = append(names, name)
	}
	return names
}
