package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/protolab/erf-digest/internal/adapters/excel"
	"github.com/protolab/erf-digest/internal/config"
	"github.com/protolab/erf-digest/internal/core"
	"github.com/protolab/erf-digest/internal/factory"
	"github.com/protolab/erf-digest/internal/logging"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewDirectoryFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTransportFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewRendererFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewResolverFactory); err != nil {
		return nil, err
	}

	// Register sheet selector
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *core.Selector {
		selectorConfig := core.DefaultSelectorConfig()
		workbook := cfg.GetWorkbook()
		heuristics := cfg.GetSelector()

		selectorConfig.RequiredColumns = workbook.RequiredColumns
		selectorConfig.StatusColumn = workbook.StatusColumn
		selectorConfig.RequesterColumn = workbook.RequesterColumn
		selectorConfig.UnnamedColumnRatio = heuristics.UnnamedColumnRatio
		selectorConfig.EmptyFirstRowRatio = heuristics.EmptyFirstRowRatio
		selectorConfig.PivotScanRows = heuristics.PivotScanRows
		selectorConfig.PivotScanCols = heuristics.PivotScanCols
		selectorConfig.PivotMarkers = heuristics.PivotMarkers

		return core.NewSelector(selectorConfig, logger)
	}); err != nil {
		return nil, err
	}

	// Register resolver
	if err := container.Provide(func(f *factory.ResolverFactory) (*core.Resolver, error) {
		return f.CreateResolver()
	}); err != nil {
		return nil, err
	}

	// Register mail transport
	if err := container.Provide(func(f *factory.TransportFactory) (core.MailTransport, error) {
		return f.CreateTransport()
	}); err != nil {
		return nil, err
	}

	// Register digest renderer
	if err := container.Provide(func(f *factory.RendererFactory) (core.DigestRenderer, error) {
		return f.CreateRenderer()
	}); err != nil {
		return nil, err
	}

	// Register unmapped exporter
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.UnmappedExporter {
		return excel.NewUnmappedWorkbook(cfg.GetExport().Dir, logger)
	}); err != nil {
		return nil, err
	}

	// Register dispatch orchestrator
	if err := container.Provide(func(
		resolver *core.Resolver,
		renderer core.DigestRenderer,
		transport core.MailTransport,
		exporter core.UnmappedExporter,
		cfg *config.Config,
		logger *zap.Logger,
	) *core.DigestService {
		digest := cfg.GetDigest()
		export := cfg.GetExport()
		return core.NewDigestService(resolver, renderer, transport, exporter, core.DispatchConfig{
			TestAddresses:  digest.TestAddresses,
			DemoGroupLimit: digest.DemoGroupLimit,
			UnmappedAction: export.UnmappedAction,
		}, logger)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
