package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/protolab/erf-digest/internal/adapters/excel"
	"github.com/protolab/erf-digest/internal/config"
	"github.com/protolab/erf-digest/internal/core"
	"github.com/protolab/erf-digest/internal/di"
	"go.uber.org/zap"
)

var (
	inputFile = flag.String("file", "", "Path to the ERF workbook (xlsx)")
	modeFlag  = flag.String("mode", "preview", "Dispatch mode (preview, demo, live)")
)

func main() {
	flag.Parse()

	if *inputFile == "" && flag.NArg() > 0 {
		*inputFile = flag.Arg(0)
	}
	if *inputFile == "" {
		fmt.Println("Usage: erf-digest -file <workbook.xlsx> [-mode preview|demo|live]")
		os.Exit(1)
	}

	mode, err := core.ParseMode(*modeFlag)
	if err != nil {
		fmt.Printf("Invalid mode: %v\n", err)
		os.Exit(1)
	}

	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the pipeline
	err = container.Invoke(func(
		logger *zap.Logger,
		cfg *config.Config,
		selector *core.Selector,
		resolver *core.Resolver,
		service *core.DigestService,
	) error {
		defer logger.Sync()
		return run(logger, cfg, selector, resolver, service, *inputFile, mode)
	})
	if err != nil {
		fmt.Printf("Run failed: %v\n", err)
		os.Exit(1)
	}
}

// run executes the full pipeline: load, select, filter, group, dispatch.
func run(
	logger *zap.Logger,
	cfg *config.Config,
	selector *core.Selector,
	resolver *core.Resolver,
	service *core.DigestService,
	file string,
	mode core.Mode,
) error {
	ctx := context.Background()
	workbookConfig := cfg.GetWorkbook()
	filterConfig := cfg.GetFilter()

	wb, err := excel.LoadWorkbook(file, logger)
	if err != nil {
		return err
	}

	ds, err := selector.Select(wb)
	if err != nil {
		var notFound *core.SheetNotFoundError
		if errors.As(err, &notFound) {
			fmt.Println("No usable data sheet found. Per-sheet rejections:")
			for _, r := range notFound.Rejections {
				fmt.Printf("  - %s\n", r)
			}
		}
		return err
	}

	filtered := core.FilterByStatus(ds, workbookConfig.StatusColumn, filterConfig.TargetStatuses)
	if filtered.Len() == 0 {
		fmt.Printf("No rows matched statuses %v. Statuses present in the data:\n", filterConfig.TargetStatuses)
		for _, s := range filtered.ObservedStatuses {
			fmt.Printf("  - %s\n", s)
		}
		return &core.NoRowsMatchError{
			StatusField:      workbookConfig.StatusColumn,
			TargetStatuses:   filterConfig.TargetStatuses,
			ObservedStatuses: filtered.ObservedStatuses,
		}
	}

	groups, err := core.GroupByRequester(filtered, workbookConfig.RequesterColumn)
	if err != nil {
		return err
	}

	logger.Info("Pipeline input ready",
		zap.String("sheet", ds.Score.SheetName),
		zap.Int("total_rows", len(ds.Sheet.Rows)),
		zap.Int("filtered_rows", filtered.Len()),
		zap.Int("requesters", len(groups)),
		zap.Int("mapping_entries", resolver.MappingSize()))

	result, err := service.Dispatch(ctx, groups, mode)
	if err != nil {
		return err
	}

	printSummary(result)

	if mode == core.ModeLive && result.Resolved == 0 {
		return fmt.Errorf("no recipient resolved for any of the %d groups", len(groups))
	}
	return nil
}

func printSummary(result *core.DispatchResult) {
	fmt.Printf("\n=== Dispatch Summary (%s) ===\n", result.Mode)
	fmt.Printf("Recipients resolved: %d\n", result.Resolved)
	fmt.Printf("Recipients unresolved: %d\n", result.Unresolved)
	if result.Mode != core.ModePreview {
		fmt.Printf("Messages sent: %d\n", result.Successful)
		fmt.Printf("Messages failed: %d\n", result.Failed)
	}

	fmt.Printf("\nResolution stats: mapped=%d directory=%d failed=%d\n",
		result.Stats.Mapped, result.Stats.DirectoryResolved, result.Stats.Failed)

	for _, r := range result.PerRecipient {
		status := "unresolved"
		if r.Address != "" {
			status = fmt.Sprintf("%s (%s)", r.Address, r.Tier)
		}
		fmt.Printf("  - %s: %d items -> %s\n", r.GroupKey, r.Items, status)
	}

	if result.UnmappedExport != "" {
		fmt.Printf("\nUnmapped identifiers exported to: %s\n", result.UnmappedExport)
	}
}
