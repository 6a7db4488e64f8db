package factory

import (
	"fmt"

	"github.com/mikey/email-triage/internal/adapters/filter"
	"github.com/mikey/email-triage/internal/config"
	"github.com/mikey/email-triage/internal/ports"
	"github.com/mikey/email-triage/internal/taxonomy"
	"go.uber.org/zap"
)

// FilterFactory creates email filters based on configuration
type FilterFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	service filter.Classifier
}

// NewFilterFactory creates a new filter factory
func NewFilterFactory(cfg *config.Config, logger *zap.Logger, service filter.Classifier) *FilterFactory {
	return &FilterFactory{
		cfg:     cfg,
		logger:  logger,
		service: service,
	}
}

// CreateEmailFilter creates an email filter based on the configuration
func (f *FilterFactory) CreateEmailFilter() (ports.EmailFilter, error) {
	filterType := f.cfg.GetString("server.filter_type")

	switch filterType {
	case "http":
		return filter.NewHTTPFilter(
			f.service,
			taxonomy.Default(),
			f.logger,
			f.cfg.GetString("server.listen_address"),
			f.cfg.GetInt("server.max_batch"),
		), nil
	case "smtp":
		smtpCfg := f.cfg.GetSMTP()
		return filter.NewSMTPFilter(
			f.service,
			f.logger,
			smtpCfg.ListenAddress,
			smtpCfg.Domain,
			smtpCfg.MaxMessageBytes,
			smtpCfg.NextHopEnabled,
			smtpCfg.NextHopAddress,
			smtpCfg.NextHopPort,
			filter.HeaderNames(smtpCfg.Headers),
		), nil
	case "cli":
		return filter.NewCliFilter(
			f.service,
			f.logger,
			f.cfg.GetBool("cli.verbose"),
		), nil
	default:
		return nil, fmt.Errorf("unsupported filter type: %s", filterType)
	}
}
