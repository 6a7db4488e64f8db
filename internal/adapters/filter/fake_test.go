package filter

import (
	"context"
	"sync"

	"github.com/mikey/email-triage/internal/core"
)

type fakeService struct {
	mu     sync.Mutex
	seen   []*core.Email
	resets int
}

func (f *fakeService) Classify(_ context.Context, email *core.Email) *core.ClassificationResult {
	f.mu.Lock()
	f.seen = append(f.seen, email)
	f.mu.Unlock()

	if email.HasAttachments {
		return &core.ClassificationResult{
			ID:          email.ID,
			Category:    "Payments Claim",
			Subcategory: "Payment Confirmation",
			Confidence:  0.95,
			Method:      core.MethodRuleHighConfidence,
			FinalLabel:  core.LabelClaimsPaidWithProof,
		}
	}
	return &core.ClassificationResult{
		ID:          email.ID,
		Category:    "Manual Review",
		Subcategory: "Complex Queries",
		Confidence:  0.66,
		Method:      core.MethodModelRuleCombined,
		FinalLabel:  core.LabelManualReview,
	}
}

func (f *fakeService) ClassifyBatch(ctx context.Context, emails []*core.Email) []*core.ClassificationResult {
	out := make([]*core.ClassificationResult, len(emails))
	for i, e := range emails {
		out[i] = f.Classify(ctx, e)
	}
	return out
}

func (f *fakeService) Debug(ctx context.Context, email *core.Email) *core.DebugReport {
	return &core.DebugReport{Result: f.Classify(ctx, email)}
}

func (f *fakeService) Stats() core.StatsSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return core.StatsSnapshot{Processed: int64(len(f.seen)), Successes: int64(len(f.seen))}
}

func (f *fakeService) ResetStats() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = nil
	f.resets++
}
