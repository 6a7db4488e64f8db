package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/mikey/email-triage/internal/taxonomy"
	"go.uber.org/zap"
)

const (
	// modelWordLimit bounds the text handed to the keyword vote and scorer
	modelWordLimit = 500
	// scorerMinimum is the top score a scorer must beat to pick a category
	scorerMinimum = 0.4

	modelConfidence    = 0.7
	threadConfidence   = 0.6
	fallbackConfidence = 0.5
)

// categoryDescriptions are offered to the scorer, in vote order
var categoryDescriptions = []LabelDescription{
	{taxonomy.ManualReview, "Email requesting payment confirmation, proof of payment, invoice receipts, business closure notifications, disputes, or complex issues requiring human review"},
	{taxonomy.NoReply, "System notifications, alerts, ticket status updates, sales offers, processing errors, or informational messages requiring no response"},
	{taxonomy.InvoicesRequest, "Email requesting invoice copies, invoice documentation, or invoice information without providing details"},
	{taxonomy.PaymentsClaim, "Email claiming payment was made without providing proof, evidence, or documentation"},
	{taxonomy.AutoReply, "Automatic responses including out-of-office messages, thank you confirmations, surveys, or system-generated replies"},
	{taxonomy.Uncategorized, "Email that doesn't clearly fit any specific business category"},
}

// categoryKeywords drive the vote. Each hit is weighted by its word count.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{taxonomy.ManualReview, []string{
		"payment confirmation", "proof of payment", "payment receipt", "confirm payment",
		"invoice receipt", "proof of invoice", "invoice copy", "invoice attached",
		"dispute", "contested", "disagreement", "partial payment", "challenge payment",
		"business closed", "company closed", "out of business", "ceased operations",
		"invoice issue", "invoice problem", "invoice error", "invoice concern",
		"import failed", "import error", "failed import", "unable to import",
		"invoice submission failed", "documents were not processed",
		"payment details", "remittance info", "payment breakdown", "transaction details",
		"redirect", "forward", "contact instead", "reach out to", "please review",
		"manual review", "human review", "complex", "multiple issues",
	}},
	{taxonomy.NoReply, []string{
		"processing error", "failed to process", "processing failed", "import failed",
		"ticket created", "case opened", "ticket resolved", "case closed", "case resolved",
		"support request created", "assigned #", "case number is",
		"sales offer", "promotion", "special offer", "limited time offer",
		"business closure information", "closure notification only",
	}},
	{taxonomy.InvoicesRequest, []string{
		"invoice request", "need invoice", "send invoice", "invoice copy",
		"invoice documentation", "provide invoice", "share invoice",
		"can you send me the invoice", "please provide invoice",
	}},
	{taxonomy.PaymentsClaim, []string{
		"payment made", "already paid", "check sent", "payment completed",
		"payment was sent", "we paid", "payment processed", "has been paid",
		"paid through", "check is being overnighted",
	}},
	{taxonomy.AutoReply, []string{
		"out of office", "automatic reply", "auto-reply", "currently out",
		"limited access", "away from desk", "on vacation", "on leave",
		"thank you", "received your message", "we received your",
		"case confirmed", "support request confirmed", "ticket confirmed",
		"survey", "feedback", "property manager", "contact changed",
		"forwarding to new", "department changed",
	}},
}

// subcategoryRule picks a subcategory when any of its terms appears. When
// also is set, one of those terms must appear as well.
type subcategoryRule struct {
	subcategory string
	terms       []string
	also        []string
}

var subcategoryRules = map[string][]subcategoryRule{
	taxonomy.ManualReview: {
		{taxonomy.DisputedPayment, []string{"dispute", "contested", "disagreement", "refuse", "partial"}, nil},
		{taxonomy.InvoiceReceipt, []string{"invoice receipt", "invoice copy", "invoice attached"}, nil},
		{taxonomy.ExternalSubmission, []string{"import failed", "invoice issue", "submission failed", "invoice error"}, nil},
		{taxonomy.InvoiceErrors, []string{"missing field", "format mismatch", "incomplete invoice"}, nil},
		{taxonomy.ClosurePaymentDue, []string{"closed", "closure"}, []string{"payment"}},
		{taxonomy.ClosureNotification, []string{"closed", "closure", "out of business"}, nil},
		{taxonomy.InquiryRedirection, []string{"redirect", "forward", "contact instead", "please review"}, nil},
	},
	taxonomy.NoReply: {
		{taxonomy.ProcessingErrors, []string{"processing error", "failed to process", "processing failed", "import failed"}, nil},
		{taxonomy.TicketCreated, []string{"ticket created", "case opened", "support request created", "assigned #", "case number is"}, nil},
		{taxonomy.TicketResolved, []string{"ticket resolved", "case closed", "case resolved"}, nil},
		{taxonomy.SalesOffers, []string{"sales offer", "promotion", "special offer", "limited time offer"}, nil},
		{taxonomy.ClosureInfoOnly, []string{"business closure information", "closure notification only"}, nil},
		{taxonomy.ThankYou, []string{"thank you"}, nil},
	},
	taxonomy.PaymentsClaim: {
		{taxonomy.PaymentConfirmation, []string{"payment confirmation", "proof of payment", "payment receipt", "eft#", "check number"}, nil},
		{taxonomy.PaymentDetailsReceived, []string{"payment details", "remittance info", "payment breakdown"}, nil},
	},
	taxonomy.AutoReply: {
		{taxonomy.Survey, []string{"survey", "feedback"}, nil},
		{taxonomy.RedirectsUpdates, []string{"property manager", "contact changed", "forwarding to new", "department changed"}, nil},
		{taxonomy.AlternateContact, []string{"contact", "reach out", "alternate"}, nil},
		{taxonomy.ReturnDate, []string{"return", "back on", "until"}, nil},
	},
}

var defaultSubcategories = map[string]string{
	taxonomy.ManualReview:    taxonomy.ComplexQueries,
	taxonomy.NoReply:         taxonomy.SystemAlerts,
	taxonomy.InvoicesRequest: taxonomy.RequestNoInfo,
	taxonomy.PaymentsClaim:   taxonomy.ClaimsPaidNoInfo,
	taxonomy.AutoReply:       taxonomy.NoInfoAutoreply,
	taxonomy.Uncategorized:   taxonomy.Uncategorized,
}

// ModelClassifier gives a coarse second opinion next to the rule router.
// It votes on keywords first and only asks the scorer when nothing hits.
type ModelClassifier struct {
	scorer Scorer
	logger *zap.Logger
}

// NewModelClassifier creates a new model classifier. A nil scorer limits it
// to keywords and the fallback cues.
func NewModelClassifier(scorer Scorer, logger *zap.Logger) *ModelClassifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelClassifier{scorer: scorer, logger: logger}
}

// Classify returns the model opinion for a cleaned text
func (m *ModelClassifier) Classify(ctx context.Context, text string, hasThread bool) (res ModelResult) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Model classifier panicked", zap.Any("panic", r))
			res = modelFallback(fmt.Sprintf("error: %v", r))
		}
	}()

	text = limitWords(text, modelWordLimit)
	if text == "" {
		return modelFallback("empty text")
	}

	if hasThread {
		return ModelResult{
			Category:    taxonomy.ManualReview,
			Subcategory: taxonomy.ComplexQueries,
			Confidence:  threadConfidence,
			Method:      MethodModelThreadDefer,
			Reason:      "thread email, deferring to rules",
		}
	}

	lowered := strings.ToLower(text)
	category, scorerName := m.category(ctx, text, lowered)
	subcategory := subcategoryFor(category, lowered)

	return ModelResult{
		Category:    category,
		Subcategory: subcategory,
		Confidence:  modelConfidence,
		Method:      MethodModel,
		Reason:      fmt.Sprintf("classified as %s/%s", category, subcategory),
		Scorer:      scorerName,
	}
}

func (m *ModelClassifier) category(ctx context.Context, text, lowered string) (string, string) {
	if category, ok := keywordVote(lowered); ok {
		return category, ""
	}

	if m.scorer != nil {
		scores, err := m.scorer.Rank(ctx, text, categoryDescriptions)
		switch {
		case err != nil:
			m.logger.Warn("Scorer failed, using fallback cues",
				zap.String("scorer", m.scorer.Name()),
				zap.Error(err))
		case len(scores) > 0 && scores[0].Score > scorerMinimum && isMainCategory(scores[0].Label):
			return scores[0].Label, m.scorer.Name()
		}
	}

	return smartFallback(lowered), ""
}

func keywordVote(lowered string) (string, bool) {
	best, bestScore := "", 0
	for _, group := range categoryKeywords {
		score := 0
		for _, kw := range group.keywords {
			if strings.Contains(lowered, kw) {
				score += len(strings.Fields(kw))
			}
		}
		if score > bestScore {
			best, bestScore = group.category, score
		}
	}
	return best, bestScore > 0
}

func smartFallback(lowered string) string {
	switch {
	case containsAny(lowered, "payment", "invoice", "confirm", "receipt", "proof", "dispute"):
		return taxonomy.ManualReview
	case containsAny(lowered, "out of office", "automatic reply", "thank you"):
		return taxonomy.AutoReply
	case containsAny(lowered, "request", "need", "send") && strings.Contains(lowered, "invoice"):
		return taxonomy.InvoicesRequest
	case containsAny(lowered, "paid", "sent", "completed", "made payment"):
		return taxonomy.PaymentsClaim
	case containsAny(lowered, "ticket", "case", "created", "resolved"):
		return taxonomy.NoReply
	}
	return taxonomy.ManualReview
}

func subcategoryFor(category, lowered string) string {
	for _, rule := range subcategoryRules[category] {
		if containsAny(lowered, rule.terms...) && (rule.also == nil || containsAny(lowered, rule.also...)) {
			return rule.subcategory
		}
	}
	return defaultSubcategories[category]
}

func isMainCategory(name string) bool {
	_, ok := defaultSubcategories[name]
	return ok
}

func modelFallback(reason string) ModelResult {
	return ModelResult{
		Category:    taxonomy.ManualReview,
		Subcategory: taxonomy.ComplexQueries,
		Confidence:  fallbackConfidence,
		Method:      MethodModelFallback,
		Reason:      "fallback: " + reason,
	}
}

func limitWords(text string, limit int) string {
	words := strings.Fields(text)
	if len(words) > limit {
		words = words[:limit]
	}
	return strings.Join(words, " ")
}

func containsAny(lowered string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(lowered, t) {
			return true
		}
	}
	return false
}
