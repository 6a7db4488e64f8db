package filter

import (
	"context"

	"github.com/mikey/email-triage/internal/core"
)

// Classifier is the part of the triage service the filters depend on
type Classifier interface {
	Classify(ctx context.Context, email *core.Email) *core.ClassificationResult
	ClassifyBatch(ctx context.Context, emails []*core.Email) []*core.ClassificationResult
	Debug(ctx context.Context, email *core.Email) *core.DebugReport
	Stats() core.StatsSnapshot
	ResetStats()
}

// HeaderNames are the headers stamped on relayed mail
type HeaderNames struct {
	Category    string
	Subcategory string
	Confidence  string
	Method      string
	Label       string
}

// DefaultHeaderNames returns the X-Triage-* header set
func DefaultHeaderNames() HeaderNames {
	return HeaderNames{
		Category:    "X-Triage-Category",
		Subcategory: "X-Triage-Subcategory",
		Confidence:  "X-Triage-Confidence",
		Method:      "X-Triage-Method",
		Label:       "X-Triage-Label",
	}
}
