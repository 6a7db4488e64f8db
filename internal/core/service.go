package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/email-triage/internal/features"
	"github.com/mikey/email-triage/internal/patterns"
	"github.com/mikey/email-triage/internal/preprocess"
	"github.com/mikey/email-triage/internal/rules"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize is the number of emails classified per chunk
const DefaultBatchSize = 50

// ServiceOptions tunes caching and batch behavior
type ServiceOptions struct {
	CacheEnabled bool
	CacheTTL     time.Duration
	BatchSize    int
	Workers      int
}

// TriageService is the core service for email classification
type TriageService struct {
	normalizer *preprocess.Normalizer
	model      *ModelClassifier
	router     *rules.Router
	arbiter    *Arbiter
	cache      CacheRepository
	stats      *Stats
	logger     *zap.Logger
	opts       ServiceOptions
}

// NewTriageService creates a new triage service. The cache may be nil.
func NewTriageService(
	normalizer *preprocess.Normalizer,
	model *ModelClassifier,
	router *rules.Router,
	arbiter *Arbiter,
	cache CacheRepository,
	stats *Stats,
	logger *zap.Logger,
	opts ServiceOptions,
) *TriageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if stats == nil {
		stats = NewStats()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Workers <= 0 {
		opts.Workers = opts.BatchSize
	}
	if cache == nil {
		opts.CacheEnabled = false
	}
	return &TriageService{
		normalizer: normalizer,
		model:      model,
		router:     router,
		arbiter:    arbiter,
		cache:      cache,
		stats:      stats,
		logger:     logger,
		opts:       opts,
	}
}

// DebugReport shows the output of every pipeline stage for one email
type DebugReport struct {
	Processed preprocess.ProcessedEmail `json:"preprocessing"`
	Analysis  features.Analysis         `json:"analysis"`
	Pattern   *patterns.Candidate       `json:"pattern_match"`
	Model     ModelResult               `json:"model"`
	Rule      rules.Result              `json:"rule"`
	Result    *ClassificationResult     `json:"result"`
}

// Classify classifies one email. It never fails; internal errors produce an
// error_fallback result.
func (s *TriageService) Classify(ctx context.Context, email *Email) (res *ClassificationResult) {
	start := time.Now()
	var id string

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Classification panicked",
				zap.String("id", id),
				zap.Any("panic", r))
			fb := s.arbiter.Fallback(fmt.Sprintf("error: %v", r))
			res = &fb
		}
		if id == "" {
			id = uuid.NewString()
		}
		res.ID = id
		res.ProcessingTime = time.Since(start)
		res.Timestamp = time.Now()
		s.stats.Record(res.Method != MethodErrorFallback, res.Cached, res.ProcessingTime)
	}()

	if email == nil {
		s.logger.Warn("Skipping nil email")
		fb := s.arbiter.Fallback("nil email")
		fb.FinalLabel = LabelManualReview
		return &fb
	}
	id = email.ID
	if id == "" {
		id = uuid.NewString()
	}

	key := CacheKey(email)
	if s.opts.CacheEnabled {
		if hit, ok := s.cache.Get(ctx, key); ok {
			s.logger.Debug("Cache hit for email", zap.String("id", id))
			cached := *hit
			cached.Cached = true
			return &cached
		}
	}

	report := s.run(ctx, email)
	res = report.Result

	if s.opts.CacheEnabled && res.Method != MethodErrorFallback {
		s.cache.Set(ctx, key, res, s.opts.CacheTTL)
	}

	s.logger.Info("Classified email",
		zap.String("id", id),
		zap.String("category", res.Category),
		zap.String("subcategory", res.Subcategory),
		zap.Float64("confidence", res.Confidence),
		zap.String("method", string(res.Method)),
		zap.String("label", res.FinalLabel))

	return res
}

// Debug runs the pipeline and returns every intermediate result. It bypasses
// the cache and does not touch the counters.
func (s *TriageService) Debug(ctx context.Context, email *Email) *DebugReport {
	if email == nil {
		email = &Email{}
	}
	report := s.run(ctx, email)
	if candidate, ok := s.router.Engine().Match(report.Processed.NormalizedText); ok {
		report.Pattern = &candidate
	}
	return report
}

func (s *TriageService) run(ctx context.Context, email *Email) *DebugReport {
	processed := s.normalizer.Process(email.Subject, email.Body)
	report := &DebugReport{Processed: processed}

	text := processed.NormalizedText
	if strings.TrimSpace(text) == "" {
		s.logger.Warn("Nothing left to classify after cleaning", zap.Error(ErrEmptyInput))
		fb := s.arbiter.Fallback(ErrEmptyInput.Error())
		fb.FinalLabel = LabelManualReview
		report.Result = &fb
		return report
	}

	report.Analysis = features.Analyze(text)
	report.Model = s.model.Classify(ctx, text, processed.HasThread)
	report.Rule = s.router.Route(rules.Input{
		Text:           text,
		Subject:        processed.CleanedSubject,
		Sender:         email.Sender,
		HasThread:      processed.HasThread,
		HasAttachments: email.HasAttachments,
		Analysis:       report.Analysis,
		ModelCategory:  report.Model.Category,
	})

	res := s.arbiter.Combine(report.Model, report.Rule, processed, report.Analysis)
	res.Thread = ThreadContext{
		HasThread:          processed.HasThread,
		ThreadCount:        processed.ThreadCount,
		CurrentReplyLength: len(processed.CurrentReply),
	}
	res.FinalLabel = FinalLabel(res.Category, res.Subcategory, report.Analysis)
	report.Result = &res
	return report
}

// ClassifyBatch classifies emails in chunks, keeping the input order
func (s *TriageService) ClassifyBatch(ctx context.Context, emails []*Email) []*ClassificationResult {
	results := make([]*ClassificationResult, len(emails))

	for lo := 0; lo < len(emails); lo += s.opts.BatchSize {
		hi := min(lo+s.opts.BatchSize, len(emails))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.opts.Workers)
		for i := lo; i < hi; i++ {
			i := i
			g.Go(func() error {
				results[i] = s.Classify(gctx, emails[i])
				return nil
			})
		}
		// Classify never returns an error
		_ = g.Wait()

		s.logger.Debug("Classified batch chunk",
			zap.Int("from", lo),
			zap.Int("to", hi),
			zap.Int("total", len(emails)))
	}

	return results
}

// Stats returns a snapshot of the service counters
func (s *TriageService) Stats() StatsSnapshot {
	return s.stats.Snapshot()
}

// ResetStats zeroes the service counters
func (s *TriageService) ResetStats() {
	s.stats.Reset()
}

// CacheKey derives the content key used for result caching
func CacheKey(email *Email) string {
	h := sha256.New()
	for _, part := range []string{email.Subject, email.Body, email.Sender} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	if email.HasAttachments {
		h.Write([]byte{1})
	}
	return hex.EncodeToString(h.Sum(nil))
}
