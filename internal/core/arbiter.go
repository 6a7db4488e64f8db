package core

import (
	"math"

	"github.com/mikey/email-triage/internal/features"
	"github.com/mikey/email-triage/internal/preprocess"
	"github.com/mikey/email-triage/internal/rules"
	"github.com/mikey/email-triage/internal/taxonomy"
	"go.uber.org/zap"
)

// ArbiterConfig holds the thresholds used to merge model and rule opinions
type ArbiterConfig struct {
	HighConfidence       float64 `mapstructure:"high_confidence"`
	ThreadBonus          float64 `mapstructure:"thread_bonus"`
	ThreadCap            float64 `mapstructure:"thread_cap"`
	ModelMinimum         float64 `mapstructure:"model_minimum"`
	RuleMinimum          float64 `mapstructure:"rule_minimum"`
	ModelWeight          float64 `mapstructure:"model_weight"`
	RuleWeight           float64 `mapstructure:"rule_weight"`
	ComplexityEscalation float64 `mapstructure:"complexity_escalation"`
	UrgencyEscalation    float64 `mapstructure:"urgency_escalation"`
	Escalation           float64 `mapstructure:"escalation"`
	ValidationMinimum    float64 `mapstructure:"validation_minimum"`
	ValidationBonus      float64 `mapstructure:"validation_bonus"`
	ValidationCap        float64 `mapstructure:"validation_cap"`
	ModelFallbackMinimum float64 `mapstructure:"model_fallback_minimum"`
	FinalFallback        float64 `mapstructure:"final_fallback"`
	ErrorFallback        float64 `mapstructure:"error_fallback"`
	Floor                float64 `mapstructure:"floor"`
	Ceiling              float64 `mapstructure:"ceiling"`
}

// DefaultArbiterConfig returns the standard arbitration thresholds
func DefaultArbiterConfig() ArbiterConfig {
	return ArbiterConfig{
		HighConfidence:       0.85,
		ThreadBonus:          0.10,
		ThreadCap:            0.95,
		ModelMinimum:         0.70,
		RuleMinimum:          0.50,
		ModelWeight:          0.6,
		RuleWeight:           0.4,
		ComplexityEscalation: 0.70,
		UrgencyEscalation:    0.80,
		Escalation:           0.75,
		ValidationMinimum:    0.40,
		ValidationBonus:      0.10,
		ValidationCap:        0.80,
		ModelFallbackMinimum: 0.50,
		FinalFallback:        0.5,
		ErrorFallback:        0.3,
		Floor:                0.1,
		Ceiling:              0.98,
	}
}

// Arbiter merges the rule router and model classifier into a final result
type Arbiter struct {
	cfg    ArbiterConfig
	tree   *taxonomy.Tree
	logger *zap.Logger
}

// NewArbiter creates a new arbiter
func NewArbiter(cfg ArbiterConfig, logger *zap.Logger) *Arbiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Arbiter{cfg: cfg, tree: taxonomy.Default(), logger: logger}
}

// Combine applies the decision list; the first satisfied entry wins
func (a *Arbiter) Combine(model ModelResult, rule rules.Result, processed preprocess.ProcessedEmail, analysis features.Analysis) ClassificationResult {
	cfg := a.cfg
	res := ClassificationResult{
		Category:        rule.Category,
		Subcategory:     rule.Subcategory,
		Reason:          rule.Reason,
		MatchedPatterns: rule.MatchedRules,
	}

	switch {
	case rule.Confidence >= cfg.HighConfidence:
		res.Confidence = rule.Confidence
		res.Method = MethodRuleHighConfidence
	case processed.HasThread:
		res.Confidence = math.Min(rule.Confidence+cfg.ThreadBonus, cfg.ThreadCap)
		res.Method = MethodThreadRulePriority
	case model.Confidence >= cfg.ModelMinimum && rule.Confidence >= cfg.RuleMinimum:
		res.Confidence = round2(model.Confidence*cfg.ModelWeight + rule.Confidence*cfg.RuleWeight)
		res.Method = MethodModelRuleCombined
	case analysis.ComplexityScore >= cfg.ComplexityEscalation || analysis.UrgencyScore >= cfg.UrgencyEscalation:
		res.Category, res.Subcategory = taxonomy.ManualReview, taxonomy.ComplexQueries
		res.Confidence = cfg.Escalation
		res.Method = MethodEscalation
		res.Reason = "complexity_urgency_escalation"
	case rule.Confidence >= cfg.ValidationMinimum:
		res.Confidence = math.Min(rule.Confidence+cfg.ValidationBonus, cfg.ValidationCap)
		res.Method = MethodRuleWithValidation
	case model.Confidence >= cfg.ModelFallbackMinimum:
		res.Category, res.Subcategory = model.Category, model.Subcategory
		res.Confidence = model.Confidence
		res.Method = MethodModelFallback
		res.Reason = model.Reason
		res.MatchedPatterns = nil
	default:
		res.Category, res.Subcategory = taxonomy.ManualReview, taxonomy.ComplexQueries
		res.Confidence = cfg.FinalFallback
		res.Method = MethodFinalFallback
		res.Reason = "final_fallback"
		res.MatchedPatterns = nil
	}

	res.Category, res.Subcategory = a.repair(res.Category, res.Subcategory)
	res.Confidence = a.bound(res.Confidence)

	a.logger.Debug("Arbitrated classification",
		zap.String("method", string(res.Method)),
		zap.Float64("rule_confidence", rule.Confidence),
		zap.Float64("model_confidence", model.Confidence),
		zap.Float64("confidence", res.Confidence))

	return res
}

// Fallback builds the error result
func (a *Arbiter) Fallback(reason string) ClassificationResult {
	return ClassificationResult{
		Category:    taxonomy.ManualReview,
		Subcategory: taxonomy.ComplexQueries,
		Confidence:  a.cfg.ErrorFallback,
		Method:      MethodErrorFallback,
		Reason:      reason,
	}
}

// repair moves an invalid edge to the subcategory's top-level category, or
// to manual review when the subcategory is unknown
func (a *Arbiter) repair(category, subcategory string) (string, string) {
	if top, ok := a.tree.TopLevel(category); ok && top == category && subcategory != "" && a.tree.Validate(category, subcategory) {
		return category, subcategory
	}
	if top, ok := a.tree.TopLevel(subcategory); ok {
		a.logger.Warn("Repaired invalid label edge",
			zap.String("category", category),
			zap.String("subcategory", subcategory),
			zap.String("repaired_category", top))
		return top, subcategory
	}
	a.logger.Warn("Unknown label, using manual review",
		zap.String("category", category),
		zap.String("subcategory", subcategory))
	return taxonomy.ManualReview, taxonomy.ComplexQueries
}

func (a *Arbiter) bound(v float64) float64 {
	return round2(math.Max(a.cfg.Floor, math.Min(a.cfg.Ceiling, v)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
