package excel

import (
	"fmt"
	"os"

	"github.com/protolab/erf-digest/internal/core"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// MappingFile reads the identifier-to-address table from an xlsx file. It
// implements core.MappingSource. A missing file surfaces as
// core.ErrMappingSourceUnavailable so the resolver can degrade instead of
// failing the run.
type MappingFile struct {
	path   string
	logger *zap.Logger
}

// NewMappingFile creates a mapping source backed by an xlsx file.
func NewMappingFile(path string, logger *zap.Logger) *MappingFile {
	return &MappingFile{path: path, logger: logger}
}

// Load reads the first sheet's columns and rows.
func (m *MappingFile) Load() ([]string, []core.Row, error) {
	if m.path == "" {
		return nil, nil, core.ErrMappingSourceUnavailable
	}
	if _, err := os.Stat(m.path); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", core.ErrMappingSourceUnavailable, m.path)
	}

	f, err := excelize.OpenFile(m.path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", core.ErrMappingSourceUnavailable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%w: workbook has no sheets", core.ErrMappingSourceUnavailable)
	}

	sheet, err := readSheet(f, sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", core.ErrMappingSourceUnavailable, err)
	}

	m.logger.Info("Read mapping source",
		zap.String("file", m.path),
		zap.String("sheet", sheet.Name),
		zap.Int("rows", len(sheet.Rows)),
		zap.Int("columns", len(sheet.Columns)))
	return sheet.Columns, sheet.Rows, nil
}
