package core

import (
	"strings"

	"go.uber.org/zap"
)

// SelectorConfig holds the sheet-selection heuristics. The ratio thresholds
// are the observed tipping points for telling a pivot/summary sheet from a
// flat table; they are configuration, not inline constants, so they can be
// tuned without code changes.
type SelectorConfig struct {
	// RequiredColumns is the full scored column list.
	RequiredColumns []string
	// StatusColumn and RequesterColumn are mandatory: a sheet missing
	// either is never selectable regardless of score.
	StatusColumn    string
	RequesterColumn string

	// UnnamedColumnRatio classifies a sheet as pivot when more than this
	// share of its column names are synthesized placeholders.
	UnnamedColumnRatio float64
	// EmptyFirstRowRatio classifies a sheet as pivot when more than this
	// share of its first row's cells are empty.
	EmptyFirstRowRatio float64
	// PivotMarkers are matched as case-insensitive substrings inside the
	// top-left PivotScanRows x PivotScanCols cell window.
	PivotMarkers []string
	PivotScanRows int
	PivotScanCols int
}

// DefaultSelectorConfig returns the selection heuristics for ERF exports.
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		RequiredColumns: []string{
			"Plnt", "Ship-To-Plant", "ERF Nr", "Item", "Entered by",
			"Material", "Material Description", "Unit", "ERF Itm Qty",
			"ERF Date", "ERF Sched Line Status", "END", "PO Due Date",
			"Expeditor", "Expeditor Status", "Expeditor Remarks",
		},
		StatusColumn:       "ERF Sched Line Status",
		RequesterColumn:    "Entered by",
		UnnamedColumnRatio: 0.70,
		EmptyFirstRowRatio: 0.80,
		PivotMarkers: []string{
			"column labels", "row labels", "count of", "sum of", "grand total",
		},
		PivotScanRows: 5,
		PivotScanCols: 5,
	}
}

// Selector picks the single sheet of a workbook that holds genuine
// row-level data.
type Selector struct {
	cfg    SelectorConfig
	logger *zap.Logger
}

// NewSelector creates a new sheet selector.
func NewSelector(cfg SelectorConfig, logger *zap.Logger) *Selector {
	return &Selector{cfg: cfg, logger: logger}
}

// Select evaluates every sheet in workbook order and returns the
// highest-scoring eligible one. Ties keep the first sheet encountered.
// When no sheet qualifies it returns a *SheetNotFoundError listing why each
// sheet was rejected.
func (s *Selector) Select(wb *Workbook) (*SelectedDataset, error) {
	var (
		best       *SelectedDataset
		rejections []SheetRejection
	)

	for _, sheet := range wb.Sheets {
		if len(sheet.Rows) == 0 {
			s.logger.Debug("Skipping empty sheet", zap.String("sheet", sheet.Name))
			rejections = append(rejections, SheetRejection{SheetName: sheet.Name, Reason: RejectEmpty})
			continue
		}

		// The pivot check runs before the mandatory-column check: required
		// column names alone are not sufficient evidence of a usable table.
		if pivot, detail := s.isPivot(sheet); pivot {
			s.logger.Info("Rejected pivot/summary sheet",
				zap.String("sheet", sheet.Name),
				zap.String("signal", detail))
			rejections = append(rejections, SheetRejection{SheetName: sheet.Name, Reason: RejectPivot, Detail: detail})
			continue
		}

		if missing := s.missingMandatory(sheet); len(missing) > 0 {
			s.logger.Info("Sheet missing mandatory columns",
				zap.String("sheet", sheet.Name),
				zap.Strings("missing", missing))
			rejections = append(rejections, SheetRejection{
				SheetName:      sheet.Name,
				Reason:         RejectMissingMandatory,
				MissingColumns: missing,
			})
			continue
		}

		score := s.score(sheet)
		s.logger.Info("Scored candidate sheet",
			zap.String("sheet", sheet.Name),
			zap.Int("score", score.Score),
			zap.Int("required", len(s.cfg.RequiredColumns)))

		if best == nil || score.Score > best.Score.Score {
			sheetCopy := sheet
			best = &SelectedDataset{Sheet: sheetCopy, Score: score}
		}
	}

	if best == nil {
		return nil, &SheetNotFoundError{WorkbookName: wb.Name, Rejections: rejections}
	}

	s.logger.Info("Selected data sheet",
		zap.String("sheet", best.Score.SheetName),
		zap.Int("score", best.Score.Score),
		zap.Int("rows", len(best.Sheet.Rows)))
	return best, nil
}

// isPivot classifies a sheet as a derived pivot/summary report. It returns
// the signal that tripped for logging.
func (s *Selector) isPivot(sheet Sheet) (bool, string) {
	cols := sheet.Columns
	if len(cols) == 0 {
		return true, "no columns"
	}

	unnamed := 0
	for _, c := range cols {
		if strings.HasPrefix(c, UnnamedColumnPrefix) {
			unnamed++
		}
	}
	if float64(unnamed) > float64(len(cols))*s.cfg.UnnamedColumnRatio {
		return true, "unnamed column ratio"
	}

	empty := 0
	first := sheet.Rows[0]
	for _, c := range cols {
		if first.IsBlank(c) {
			empty++
		}
	}
	if float64(empty) > float64(len(cols))*s.cfg.EmptyFirstRowRatio {
		return true, "empty first row"
	}

	rows := s.cfg.PivotScanRows
	if rows > len(sheet.Rows) {
		rows = len(sheet.Rows)
	}
	colsN := s.cfg.PivotScanCols
	if colsN > len(cols) {
		colsN = len(cols)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < colsN; j++ {
			cell := strings.ToLower(sheet.Rows[i].Get(cols[j]))
			if cell == "" {
				continue
			}
			for _, marker := range s.cfg.PivotMarkers {
				if strings.Contains(cell, marker) {
					return true, "marker " + marker
				}
			}
		}
	}

	return false, ""
}

// missingMandatory returns the mandatory columns the sheet lacks.
func (s *Selector) missingMandatory(sheet Sheet) []string {
	var missing []string
	if !hasColumn(sheet.Columns, s.cfg.StatusColumn) {
		missing = append(missing, s.cfg.StatusColumn)
	}
	if !hasColumn(sheet.Columns, s.cfg.RequesterColumn) {
		missing = append(missing, s.cfg.RequesterColumn)
	}
	return missing
}

// score counts the required columns present verbatim in the sheet.
func (s *Selector) score(sheet Sheet) SheetScore {
	present := make(map[string]struct{}, len(sheet.Columns))
	for _, c := range sheet.Columns {
		present[strings.TrimSpace(c)] = struct{}{}
	}

	var matched []string
	for _, required := range s.cfg.RequiredColumns {
		if _, ok := present[required]; ok {
			matched = append(matched, required)
		}
	}

	return SheetScore{
		SheetName:      sheet.Name,
		MatchedColumns: matched,
		Score:          len(matched),
	}
}

func hasColumn(columns []string, name string) bool {
	for _, c := range columns {
		if strings.TrimSpace(c) == name {
			return true
		}
	}
	return false
}
