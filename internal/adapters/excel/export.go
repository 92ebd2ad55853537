package excel

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/protolab/erf-digest/internal/core"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var exportHeader = []interface{}{
	"Username", "Status", "Mode", "Timestamp", "Recommended Action",
}

// UnmappedWorkbook writes unresolved identifiers to a timestamped xlsx file
// for manual completion. It implements core.UnmappedExporter.
type UnmappedWorkbook struct {
	dir    string
	logger *zap.Logger
}

// NewUnmappedWorkbook creates an exporter writing into dir.
func NewUnmappedWorkbook(dir string, logger *zap.Logger) *UnmappedWorkbook {
	if dir == "" {
		dir = "."
	}
	return &UnmappedWorkbook{dir: dir, logger: logger}
}

// Export writes one row per entry and returns the artifact path. The mode
// tag of the first entry names the file.
func (e *UnmappedWorkbook) Export(entries []core.UnmappedEntry) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	mode := entries[0].Mode
	if mode == "" {
		mode = "run"
	}
	name := fmt.Sprintf("unmapped_users_%s_%s.xlsx", mode, time.Now().Format("20060102_150405"))
	path := filepath.Join(e.dir, name)

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Sheet1"

	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return "", fmt.Errorf("failed to write export header: %w", err)
	}
	for i, entry := range entries {
		row := []interface{}{entry.Identifier, entry.Status, entry.Mode, entry.Timestamp, entry.Action}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return "", fmt.Errorf("failed to write export row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save unmapped export: %w", err)
	}

	e.logger.Info("Wrote unmapped export",
		zap.String("file", path),
		zap.Int("entries", len(entries)))
	return path, nil
}
