package factory

import (
	"fmt"

	"github.com/protolab/erf-digest/internal/adapters/directory"
	"github.com/protolab/erf-digest/internal/config"
	"github.com/protolab/erf-digest/internal/core"
	"go.uber.org/zap"
)

// DirectoryFactory creates directory searchers based on configuration
type DirectoryFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewDirectoryFactory creates a new directory factory
func NewDirectoryFactory(cfg *config.Config, logger *zap.Logger) *DirectoryFactory {
	return &DirectoryFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateDirectory creates a directory searcher based on the configuration.
// Type "none" disables the directory tier entirely.
func (f *DirectoryFactory) CreateDirectory() (core.DirectorySearcher, error) {
	dirConfig := f.cfg.GetDirectory()

	switch dirConfig.Type {
	case "static":
		return directory.NewStaticDirectory(dirConfig.Contacts, f.logger), nil
	case "sqlite":
		return directory.NewSQLiteDirectory(dirConfig.SQLitePath, f.logger)
	case "mysql":
		return directory.NewMySQLDirectory(dirConfig.MySQLDSN, f.logger)
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported directory type: %s", dirConfig.Type)
	}
}
