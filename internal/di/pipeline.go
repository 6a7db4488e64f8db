package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/email-triage/internal/adapters/filter"
	"github.com/mikey/email-triage/internal/config"
	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/factory"
	"github.com/mikey/email-triage/internal/patterns"
	"github.com/mikey/email-triage/internal/preprocess"
	"github.com/mikey/email-triage/internal/rules"
	"github.com/mikey/email-triage/internal/sender"
	"github.com/mikey/email-triage/internal/utils"
)

// providePipeline registers the classification stages shared by the daemon
// and the CLI. It expects *config.Config, *zap.Logger and
// core.CacheRepository to be provided by the caller.
func providePipeline(container *dig.Container) error {
	providers := []any{
		utils.NewTextProcessor,
		factory.NewScorerFactory,
		func(f *factory.ScorerFactory) (core.Scorer, error) {
			return f.CreateScorer()
		},
		preprocess.NewNormalizer,
		patterns.NewEngine,
		func(cfg *config.Config, logger *zap.Logger) *sender.Checker {
			s := cfg.GetSenders()
			return sender.NewChecker(s.Fragments, s.Domains, logger)
		},
		func(cfg *config.Config, engine *patterns.Engine, senders *sender.Checker, logger *zap.Logger) (*rules.Router, error) {
			rulesCfg, err := cfg.GetRules()
			if err != nil {
				return nil, err
			}
			return rules.NewRouter(rulesCfg, engine, senders, logger), nil
		},
		func(cfg *config.Config, logger *zap.Logger) (*core.Arbiter, error) {
			arbiterCfg, err := cfg.GetArbiter()
			if err != nil {
				return nil, err
			}
			return core.NewArbiter(arbiterCfg, logger), nil
		},
		core.NewModelClassifier,
		core.NewStats,
		func(cfg *config.Config, cache core.CacheRepository) (core.ServiceOptions, error) {
			cacheCfg, err := cfg.GetCache()
			if err != nil {
				return core.ServiceOptions{}, err
			}
			batch := cfg.GetBatch()
			return core.ServiceOptions{
				CacheEnabled: cache != nil && cacheCfg.Enabled,
				CacheTTL:     cacheCfg.TTL,
				BatchSize:    batch.Size,
				Workers:      batch.Workers,
			}, nil
		},
		core.NewTriageService,
		factory.NewFilterFactory,
	}

	for _, p := range providers {
		if err := container.Provide(p); err != nil {
			return err
		}
	}

	// Filters depend on the narrow service interface
	return container.Provide(func(s *core.TriageService) filter.Classifier { return s })
}
