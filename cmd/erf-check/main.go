// erf-check inspects a workbook the way the pipeline would see it: per-sheet
// pivot classification, score and missing mandatory columns, with an
// optional resolution test for a list of identifiers.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/protolab/erf-digest/internal/adapters/excel"
	"github.com/protolab/erf-digest/internal/config"
	"github.com/protolab/erf-digest/internal/core"
	"github.com/protolab/erf-digest/internal/factory"
	"github.com/protolab/erf-digest/internal/logging"
	"go.uber.org/zap"
)

var (
	inputFile  = flag.String("file", "", "Workbook to inspect (xlsx)")
	resolveIDs = flag.String("resolve", "", "Comma-separated identifiers to run through the resolver")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.New()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	if *inputFile == "" && *resolveIDs == "" {
		fmt.Println("Usage: erf-check -file <workbook.xlsx> [-resolve \"id1,id2\"]")
		os.Exit(1)
	}

	if *inputFile != "" {
		if err := inspectWorkbook(cfg, logger, *inputFile); err != nil {
			logger.Fatal("Workbook inspection failed", zap.Error(err))
		}
	}

	if *resolveIDs != "" {
		if err := testResolution(cfg, logger, *resolveIDs); err != nil {
			logger.Fatal("Resolution test failed", zap.Error(err))
		}
	}
}

func inspectWorkbook(cfg *config.Config, logger *zap.Logger, file string) error {
	workbookConfig := cfg.GetWorkbook()
	heuristics := cfg.GetSelector()

	selectorConfig := core.DefaultSelectorConfig()
	selectorConfig.RequiredColumns = workbookConfig.RequiredColumns
	selectorConfig.StatusColumn = workbookConfig.StatusColumn
	selectorConfig.RequesterColumn = workbookConfig.RequesterColumn
	selectorConfig.UnnamedColumnRatio = heuristics.UnnamedColumnRatio
	selectorConfig.EmptyFirstRowRatio = heuristics.EmptyFirstRowRatio
	selectorConfig.PivotScanRows = heuristics.PivotScanRows
	selectorConfig.PivotScanCols = heuristics.PivotScanCols
	selectorConfig.PivotMarkers = heuristics.PivotMarkers

	wb, err := excel.LoadWorkbook(file, logger)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== Workbook: %s (%d sheets) ===\n", wb.Name, len(wb.Sheets))
	selector := core.NewSelector(selectorConfig, logger)

	ds, err := selector.Select(wb)
	if err == nil {
		fmt.Printf("\nSelected sheet: %q (score %d/%d, %d rows)\n",
			ds.Score.SheetName, ds.Score.Score, len(selectorConfig.RequiredColumns), len(ds.Sheet.Rows))
		fmt.Printf("Matched columns: %s\n", strings.Join(ds.Score.MatchedColumns, ", "))

		missing := missingColumns(selectorConfig.RequiredColumns, ds.Score.MatchedColumns)
		if len(missing) > 0 {
			fmt.Printf("Missing optional columns: %s\n", strings.Join(missing, ", "))
		}

		statuses := observedStatuses(ds, workbookConfig.StatusColumn)
		fmt.Printf("Statuses present: %s\n", strings.Join(statuses, ", "))
		return nil
	}

	if notFound, ok := err.(*core.SheetNotFoundError); ok {
		fmt.Println("\nNo usable data sheet. Per-sheet rejections:")
		for _, r := range notFound.Rejections {
			fmt.Printf("  - %s\n", r)
		}
		return nil
	}
	return err
}

func missingColumns(required, matched []string) []string {
	have := make(map[string]struct{}, len(matched))
	for _, m := range matched {
		have[m] = struct{}{}
	}
	var missing []string
	for _, r := range required {
		if _, ok := have[r]; !ok {
			missing = append(missing, r)
		}
	}
	return missing
}

func observedStatuses(ds *core.SelectedDataset, statusColumn string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, row := range ds.Sheet.Rows {
		s := row.Get(statusColumn)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

func testResolution(cfg *config.Config, logger *zap.Logger, ids string) error {
	directoryFactory := factory.NewDirectoryFactory(cfg, logger)
	resolverFactory := factory.NewResolverFactory(cfg, logger, directoryFactory)

	resolver, err := resolverFactory.CreateResolver()
	if err != nil {
		return err
	}

	fmt.Printf("\n=== Resolution Test (%d mapping entries) ===\n", resolver.MappingSize())
	ctx := context.Background()
	for _, id := range strings.Split(ids, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if res, ok := resolver.Resolve(ctx, id); ok {
			fmt.Printf("  %s -> %s (tier: %s)\n", id, res.Address, res.Tier)
		} else {
			fmt.Printf("  %s -> NOT FOUND\n", id)
		}
	}

	if unmapped := resolver.Unmapped(); len(unmapped) > 0 {
		fmt.Printf("\nUnmapped: %s\n", strings.Join(unmapped, ", "))
	}
	return nil
}
