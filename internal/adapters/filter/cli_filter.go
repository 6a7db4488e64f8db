package filter

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mikey/email-triage/internal/core"
	"go.uber.org/zap"
)

// CliFilter classifies emails from the command line and prints a report
type CliFilter struct {
	service Classifier
	logger  *zap.Logger
	out     io.Writer
	verbose bool
}

// NewCliFilter creates a new CLI filter writing to stdout
func NewCliFilter(service Classifier, logger *zap.Logger, verbose bool) *CliFilter {
	return &CliFilter{
		service: service,
		logger:  logger,
		out:     os.Stdout,
		verbose: verbose,
	}
}

// SetOutput redirects the report
func (f *CliFilter) SetOutput(w io.Writer) {
	f.out = w
}

// ProcessEmail classifies an email and prints the result
func (f *CliFilter) ProcessEmail(ctx context.Context, email *core.Email) (*core.ClassificationResult, error) {
	f.logger.Debug("Processing email", zap.String("sender", email.Sender))

	fmt.Fprintf(f.out, "\n=== Email Summary ===\n")
	fmt.Fprintf(f.out, "From: %s\n", email.Sender)
	fmt.Fprintf(f.out, "Subject: %s\n", email.Subject)
	fmt.Fprintf(f.out, "Body length: %d bytes\n", len(email.Body))
	fmt.Fprintf(f.out, "Attachments: %t\n", email.HasAttachments)

	if f.verbose {
		preview := email.Body
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		fmt.Fprintf(f.out, "\nBody preview:\n%s\n", preview)
	}

	startTime := time.Now()
	result := f.service.Classify(ctx, email)
	duration := time.Since(startTime)

	fmt.Fprintf(f.out, "\n=== Results ===\n")
	fmt.Fprintf(f.out, "Category: %s\n", result.Category)
	fmt.Fprintf(f.out, "Subcategory: %s\n", result.Subcategory)
	fmt.Fprintf(f.out, "Confidence: %.2f\n", result.Confidence)
	fmt.Fprintf(f.out, "Method: %s\n", result.Method)
	fmt.Fprintf(f.out, "Final label: %s\n", result.FinalLabel)
	fmt.Fprintf(f.out, "Reason: %s\n", result.Reason)
	if len(result.MatchedPatterns) > 0 {
		fmt.Fprintf(f.out, "Matched: %s\n", strings.Join(result.MatchedPatterns, ", "))
	}
	if result.Thread.HasThread {
		fmt.Fprintf(f.out, "Thread: %d prior messages, current reply %d chars\n",
			result.Thread.ThreadCount, result.Thread.CurrentReplyLength)
	}
	fmt.Fprintf(f.out, "Processing time: %v\n", duration)

	return result, nil
}

// Start is a no-op for the CLI filter
func (f *CliFilter) Start() error {
	return nil
}

// Stop is a no-op for the CLI filter
func (f *CliFilter) Stop() error {
	return nil
}
