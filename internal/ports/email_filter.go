package ports

import (
	"context"

	"github.com/mikey/email-triage/internal/core"
)

// EmailFilter defines the interface for the triage front ends
type EmailFilter interface {
	// ProcessEmail classifies an email through the filter
	ProcessEmail(ctx context.Context, email *core.Email) (*core.ClassificationResult, error)

	// Start starts the email filter service
	Start() error

	// Stop stops the email filter service
	Stop() error
}
