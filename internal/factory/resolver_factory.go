package factory

import (
	"fmt"

	"github.com/protolab/erf-digest/internal/adapters/excel"
	"github.com/protolab/erf-digest/internal/config"
	"github.com/protolab/erf-digest/internal/core"
	"go.uber.org/zap"
)

// ResolverFactory creates the recipient resolver with its mapping source
// and directory tier wired from configuration
type ResolverFactory struct {
	cfg              *config.Config
	logger           *zap.Logger
	directoryFactory *DirectoryFactory
}

// NewResolverFactory creates a new resolver factory
func NewResolverFactory(cfg *config.Config, logger *zap.Logger, directoryFactory *DirectoryFactory) *ResolverFactory {
	return &ResolverFactory{
		cfg:              cfg,
		logger:           logger,
		directoryFactory: directoryFactory,
	}
}

// CreateResolver builds the resolver, loading the email mapping and any
// manually completed mapping file.
func (f *ResolverFactory) CreateResolver() (*core.Resolver, error) {
	mappingConfig := f.cfg.GetMapping()

	dir, err := f.directoryFactory.CreateDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to create directory searcher: %w", err)
	}

	pace, err := f.cfg.GetDuration("resolver.directory_pace")
	if err != nil {
		return nil, fmt.Errorf("invalid resolver.directory_pace: %w", err)
	}

	resolver := core.NewResolver(
		excel.NewMappingFile(mappingConfig.Path, f.logger),
		dir,
		core.ResolverConfig{
			DirectoryEnabled: f.cfg.GetBool("resolver.directory_enabled") && dir != nil,
			DirectoryPace:    pace,
		},
		f.logger,
	)

	if mappingConfig.ManualPath != "" {
		resolver.LoadManualMappings(excel.NewMappingFile(mappingConfig.ManualPath, f.logger))
	}

	return resolver, nil
}
