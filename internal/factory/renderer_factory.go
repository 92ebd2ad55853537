package factory

import (
	"github.com/protolab/erf-digest/internal/config"
	"github.com/protolab/erf-digest/internal/core"
	"github.com/protolab/erf-digest/internal/templates"
	"go.uber.org/zap"
)

// RendererFactory creates digest renderers based on configuration
type RendererFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewRendererFactory creates a new renderer factory
func NewRendererFactory(cfg *config.Config, logger *zap.Logger) *RendererFactory {
	return &RendererFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateRenderer creates the digest renderer
func (f *RendererFactory) CreateRenderer() (core.DigestRenderer, error) {
	digestConfig := f.cfg.GetDigest()
	workbookConfig := f.cfg.GetWorkbook()
	filterConfig := f.cfg.GetFilter()

	return templates.NewRenderer(templates.Config{
		SubjectTemplate: digestConfig.SubjectTemplate,
		StatusColumn:    workbookConfig.StatusColumn,
		TargetStatuses:  filterConfig.TargetStatuses,
		DisplayColumns:  digestConfig.DisplayColumns,
		TeamName:        digestConfig.TeamName,
		ContactLines:    digestConfig.ContactLines,
	}, f.logger)
}
