package factory

import (
	"fmt"
	"time"

	"github.com/protolab/erf-digest/internal/adapters/transport"
	"github.com/protolab/erf-digest/internal/config"
	"github.com/protolab/erf-digest/internal/core"
	"go.uber.org/zap"
)

// TransportFactory creates mail transports based on configuration
type TransportFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewTransportFactory creates a new transport factory
func NewTransportFactory(cfg *config.Config, logger *zap.Logger) *TransportFactory {
	return &TransportFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTransport creates a mail transport based on the configuration
func (f *TransportFactory) CreateTransport() (core.MailTransport, error) {
	transportType := f.cfg.GetString("transport.type")

	switch transportType {
	case "smtp":
		smtpConfig := f.cfg.GetSMTP()
		timeout, err := f.cfg.GetDuration("smtp.timeout")
		if err != nil {
			timeout = 30 * time.Second
		}
		return transport.NewSMTPTransport(
			smtpConfig.Host,
			smtpConfig.Port,
			smtpConfig.Username,
			smtpConfig.Password,
			smtpConfig.From,
			smtpConfig.FromName,
			timeout,
			f.logger,
		), nil
	case "console":
		verbose := f.cfg.GetString("logging.level") == "debug"
		return transport.NewConsoleTransport(f.logger, verbose), nil
	default:
		return nil, fmt.Errorf("unsupported transport type: %s", transportType)
	}
}
