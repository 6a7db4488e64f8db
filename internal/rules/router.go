// Package rules implements the priority cascade that maps cleaned email
// text and its features to a label.
package rules

import (
	"fmt"
	"math"
	"strings"

	"github.com/mikey/email-triage/internal/features"
	"github.com/mikey/email-triage/internal/patterns"
	"github.com/mikey/email-triage/internal/phrases"
	"github.com/mikey/email-triage/internal/sender"
	"github.com/mikey/email-triage/internal/taxonomy"
	"go.uber.org/zap"
)

// Input is everything the router looks at
type Input struct {
	Text           string
	Subject        string
	Sender         string
	HasThread      bool
	HasAttachments bool
	Analysis       features.Analysis
	// ModelCategory is the model classifier's category, logged for diagnostics
	ModelCategory string
}

// Result is the router's verdict
type Result struct {
	Category     string   `json:"category"`
	Subcategory  string   `json:"subcategory"`
	Confidence   float64  `json:"confidence"`
	Reason       string   `json:"reason"`
	MatchedRules []string `json:"matched_rules"`
}

// Router runs the rule cascade
type Router struct {
	cfg     Config
	engine  *patterns.Engine
	senders *sender.Checker
	tree    *taxonomy.Tree
	logger  *zap.Logger
}

// NewRouter creates a new rule router
func NewRouter(cfg Config, engine *patterns.Engine, senders *sender.Checker, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = patterns.NewEngine(logger)
	}
	if senders == nil {
		senders = sender.NewChecker(phrases.SystemSenders, nil, logger)
	}
	return &Router{
		cfg:     cfg,
		engine:  engine,
		senders: senders,
		tree:    taxonomy.Default(),
		logger:  logger,
	}
}

// Route classifies one email. It never panics.
func (r *Router) Route(in Input) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Rule routing failed", zap.Any("panic", rec))
			res = Result{
				Category:    taxonomy.ManualReview,
				Subcategory: taxonomy.ComplexQueries,
				Confidence:  r.cfg.Error,
				Reason:      "error",
			}
		}
	}()

	s := &signals{
		text:    strings.ToLower(strings.TrimSpace(in.Subject + " " + in.Text)),
		subject: strings.ToLower(in.Subject),
		in:      in,
		cfg:     r.cfg,
	}

	steps := []func(*signals) (Result, bool){
		r.attachments,
		r.systemSender,
		r.thread,
		r.regular,
		r.pattern,
		r.topic,
	}
	for _, step := range steps {
		if out, ok := step(s); ok {
			r.log(in, out)
			return out
		}
	}

	out := r.fallback(s)
	r.log(in, out)
	return out
}

func (r *Router) log(in Input, out Result) {
	r.logger.Debug("Routed email",
		zap.String("category", out.Category),
		zap.String("subcategory", out.Subcategory),
		zap.Float64("confidence", out.Confidence),
		zap.String("reason", out.Reason),
		zap.Bool("has_thread", in.HasThread),
		zap.String("model_category", in.ModelCategory))
}

func (r *Router) attachments(s *signals) (Result, bool) {
	if !s.in.HasAttachments {
		return Result{}, false
	}

	res := Result{Category: taxonomy.ManualReview, Confidence: r.cfg.Attachment}
	switch {
	case s.dispute() > 0:
		res.Subcategory, res.Reason = taxonomy.DisputedPayment, "attachment_dispute"
	case s.count(phrases.InvoiceMentions) > 0 || s.count(phrases.PaymentProof) > 0 || s.leaf(phrases.KeyInvoiceReceipt) > 0:
		res.Subcategory, res.Reason = taxonomy.InvoiceReceipt, "attachment_invoice_proof"
	case s.has(paymentCues):
		res.Subcategory, res.Reason = taxonomy.ComplexQueries, "attachment_payment"
	default:
		res.Subcategory, res.Reason = taxonomy.ComplexQueries, "attachment"
	}
	res.MatchedRules = []string{res.Reason}
	return res, true
}

// systemSender yields to dispute phrases so disputes from system mailboxes
// still reach manual review
func (r *Router) systemSender(s *signals) (Result, bool) {
	if s.in.Sender == "" || !r.senders.IsSystem(s.in.Sender) || s.dispute() > 0 {
		return Result{}, false
	}

	for _, c := range senderChecks {
		if c.set.Any(s.text) {
			return Result{
				Category:     taxonomy.NoReply,
				Subcategory:  c.subcategory,
				Confidence:   r.cfg.SenderMatched,
				Reason:       c.name,
				MatchedRules: []string{c.name},
			}, true
		}
	}
	return Result{
		Category:     taxonomy.NoReply,
		Subcategory:  taxonomy.SystemAlerts,
		Confidence:   r.cfg.SenderDefault,
		Reason:       "system_sender",
		MatchedRules: []string{"system_sender"},
	}, true
}

func (r *Router) thread(s *signals) (Result, bool) {
	if !s.in.HasThread {
		return Result{}, false
	}
	for _, c := range threadChecks {
		o, ok := c.eval(s)
		if !ok {
			continue
		}
		conf := math.Min(c.base+r.cfg.ThreadStep*float64(o.hits-1), c.cap)
		return Result{
			Category:     o.category,
			Subcategory:  o.subcategory,
			Confidence:   round2(conf),
			Reason:       c.name,
			MatchedRules: []string{c.name, fmt.Sprintf("hits=%d", o.hits)},
		}, true
	}
	return Result{}, false
}

func (r *Router) regular(s *signals) (Result, bool) {
	for _, c := range regularChecks {
		o, ok := c.eval(s)
		if !ok {
			continue
		}
		return Result{
			Category:     o.category,
			Subcategory:  o.subcategory,
			Confidence:   c.base,
			Reason:       c.name,
			MatchedRules: []string{c.name},
		}, true
	}
	return Result{}, false
}

func (r *Router) pattern(s *signals) (Result, bool) {
	c, ok := r.engine.Match(s.text)
	if !ok || c.Confidence < r.cfg.PatternMinimum || !r.tree.Validate(c.Category, c.Subcategory) {
		return Result{}, false
	}
	if !patternAllowed(c.Subcategory, s) {
		r.logger.Debug("Pattern match rejected by guard", zap.String("subcategory", c.Subcategory))
		return Result{}, false
	}

	conf := c.Confidence
	if s.in.HasThread {
		conf = math.Min(conf+r.cfg.PatternThreadBonus, r.cfg.PatternCap)
	}
	return Result{
		Category:     c.Category,
		Subcategory:  c.Subcategory,
		Confidence:   round2(math.Min(conf, r.cfg.PatternCap)),
		Reason:       "pattern_match",
		MatchedRules: c.MatchedPatterns,
	}, true
}

// patternAllowed applies the regular-check guards to loose pattern matches.
// A request for invoices never speaks of proof or of a payment already made.
func patternAllowed(subcategory string, s *signals) bool {
	switch subcategory {
	case taxonomy.RequestNoInfo:
		return !s.hasProofTerms() && !phrases.ContainsAny(s.text, []string{"payment", "paid"})
	case taxonomy.Survey:
		return !s.has(phrases.BusinessTerms)
	}
	return true
}

func (r *Router) topic(s *signals) (Result, bool) {
	for _, t := range s.in.Analysis.Topics {
		if features.IsFinancialTopic(t) {
			continue
		}
		e, ok := phrases.BySubcategory(t)
		if !ok {
			continue
		}
		conf := r.cfg.Topic
		if s.in.HasThread {
			conf += r.cfg.TopicThreadBonus
		}
		return Result{
			Category:     e.Category,
			Subcategory:  e.Subcategory,
			Confidence:   round2(conf),
			Reason:       "topic_mapping",
			MatchedRules: []string{t},
		}, true
	}
	return Result{}, false
}

func (r *Router) fallback(s *signals) Result {
	var found []string
	for _, term := range phrases.BusinessTerms {
		if strings.Contains(s.text, term) {
			found = append(found, term)
		}
	}

	res := Result{MatchedRules: found}
	switch {
	case len(found) >= 2:
		res.Category, res.Subcategory, res.Confidence = taxonomy.ManualReview, taxonomy.ComplexQueries, r.cfg.FallbackMulti
		res.Reason = "fallback_business_terms"
	case len(found) == 1 && found[0] == "payment":
		res.Category, res.Subcategory, res.Confidence = taxonomy.PaymentsClaim, taxonomy.ClaimsPaidNoInfo, r.cfg.FallbackSingle
		res.Reason = "fallback_payment"
	case len(found) == 1 && found[0] == "invoice":
		res.Category, res.Subcategory, res.Confidence = taxonomy.InvoicesRequest, taxonomy.RequestNoInfo, r.cfg.FallbackSingle
		res.Reason = "fallback_invoice"
	case len(found) == 1:
		res.Category, res.Subcategory, res.Confidence = taxonomy.ManualReview, taxonomy.InquiryRedirection, r.cfg.FallbackOther
		res.Reason = "fallback_" + found[0]
	default:
		res.Category, res.Subcategory, res.Confidence = taxonomy.NoReply, taxonomy.SystemAlerts, r.cfg.FallbackNone
		res.Reason = "fallback_default"
	}
	if s.in.HasThread {
		res.Confidence += r.cfg.FallbackThreadBonus
	}
	res.Confidence = round2(res.Confidence)
	return res
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Engine returns the pattern engine the router consults
func (r *Router) Engine() *patterns.Engine {
	return r.engine
}
