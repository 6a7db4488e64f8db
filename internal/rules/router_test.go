package rules

import (
	"strings"
	"testing"

	"github.com/mikey/email-triage/internal/features"
	"github.com/mikey/email-triage/internal/patterns"
	"github.com/mikey/email-triage/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newRouter() *Router {
	return NewRouter(DefaultConfig(), nil, nil, zap.NewNop())
}

func input(text string) Input {
	return Input{Text: text, Analysis: features.Analyze(text)}
}

func threaded(text string) Input {
	in := input(text)
	in.HasThread = true
	return in
}

func TestRouteScenarios(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name       string
		text       string
		category   string
		sub        string
		confidence float64
		reason     string
	}{
		{"confirmation request", "We need confirmation that payment was received for invoice #12345.",
			taxonomy.ManualReview, taxonomy.ComplexQueries, 0.60, "fallback_business_terms"},
		{"dispute", "I dispute this amount. Please provide proof of debt.",
			taxonomy.ManualReview, taxonomy.DisputedPayment, 0.95, "dispute_phrases"},
		{"already paid", "We have already paid this invoice.",
			taxonomy.PaymentsClaim, taxonomy.ClaimsPaidNoInfo, 0.93, "payment_claim"},
		{"out of office", "I am out of office until Monday.",
			taxonomy.AutoReply, taxonomy.ReturnDate, 0.95, "pattern_match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Route(input(tt.text))
			assert.Equal(t, tt.category, res.Category)
			assert.Equal(t, tt.sub, res.Subcategory)
			assert.Equal(t, tt.confidence, res.Confidence)
			assert.Equal(t, tt.reason, res.Reason)
		})
	}
}

func TestRouteLoosePatterns(t *testing.T) {
	r := newRouter()

	tests := []struct {
		text       string
		category   string
		sub        string
		confidence float64
	}{
		{"We do not actually owe this balance to your client at all.",
			taxonomy.ManualReview, taxonomy.DisputedPayment, 0.90},
		{"The balance on this account is not ours and we will not pay.",
			taxonomy.ManualReview, taxonomy.DisputedPayment, 0.90},
		{"The invoice you asked about is attached to this message.",
			taxonomy.ManualReview, taxonomy.InvoiceReceipt, 0.95},
		{"Your ticket #4455 has been resolved by our support staff.",
			taxonomy.NoReply, taxonomy.TicketResolved, 0.95},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			res := r.Route(input(tt.text))
			assert.Equal(t, "pattern_match", res.Reason)
			assert.Equal(t, tt.category, res.Category)
			assert.Equal(t, tt.sub, res.Subcategory)
			assert.Equal(t, tt.confidence, res.Confidence)
		})
	}
}

func TestRoutePatternGuardRejectsPaymentTalk(t *testing.T) {
	text := "We need confirmation that payment was received for invoice #12345."

	c, ok := patterns.NewEngine(nil).Match(strings.ToLower(text))
	assert.True(t, ok)
	assert.Equal(t, taxonomy.RequestNoInfo, c.Subcategory)

	res := newRouter().Route(input(text))
	assert.NotEqual(t, taxonomy.InvoicesRequest, res.Category)
	assert.Equal(t, "fallback_business_terms", res.Reason)
}

func TestRouteRegularChecks(t *testing.T) {
	r := newRouter()

	tests := []struct {
		text       string
		sub        string
		confidence float64
	}{
		{"We owe them nothing.", taxonomy.DisputedPayment, 0.95},
		{"Please see the attached invoices", taxonomy.InvoiceReceipt, 0.92},
		{"Our company closed and there is an outstanding balance.", taxonomy.ClosurePaymentDue, 0.92},
		{"Our business closed permanently last month.", taxonomy.ClosureNotification, 0.90},
		{"Payment was made, receipt attached.", taxonomy.PaymentConfirmation, 0.93},
		{"Payment will be sent next week.", taxonomy.PaymentDetailsReceived, 0.89},
		{"We have sent the check for this account by mail.", taxonomy.ClaimsPaidNoInfo, 0.93},
		{"Please send me the invoice copy.", taxonomy.RequestNoInfo, 0.93},
		{"Please take our customer satisfaction survey.", taxonomy.Survey, 0.90},
		{"Please do not reply to this email.", taxonomy.SystemAlerts, 0.90},
		{"We can set up a payment plan.", taxonomy.DisputedPayment, 0.90},
		{"Please let me know what invoices were not paid", taxonomy.InquiryRedirection, 0.90},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			res := r.Route(input(tt.text))
			assert.Equal(t, tt.sub, res.Subcategory)
			assert.Equal(t, tt.confidence, res.Confidence)
			assert.True(t, taxonomy.Default().Validate(res.Category, res.Subcategory))
		})
	}
}

func TestRouteAutoReplySubject(t *testing.T) {
	in := input("Please contact Jane at jane@example.com")
	in.Subject = "Automatic reply: Statement"

	res := newRouter().Route(in)

	assert.Equal(t, taxonomy.AlternateContact, res.Subcategory)
	assert.Equal(t, 0.93, res.Confidence)
}

func TestRouteAttachments(t *testing.T) {
	r := newRouter()

	tests := []struct {
		text   string
		sub    string
		reason string
	}{
		{"I dispute this.", taxonomy.DisputedPayment, "attachment_dispute"},
		{"Please see the attached invoices", taxonomy.InvoiceReceipt, "attachment_invoice_proof"},
		{"Payment sent today", taxonomy.ComplexQueries, "attachment_payment"},
		{"Hello", taxonomy.ComplexQueries, "attachment"},
	}
	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			in := input(tt.text)
			in.HasAttachments = true
			in.HasThread = true
			in.Sender = "noreply@vendor.com"

			res := r.Route(in)
			assert.Equal(t, taxonomy.ManualReview, res.Category)
			assert.Equal(t, tt.sub, res.Subcategory)
			assert.Equal(t, 0.95, res.Confidence)
			assert.Equal(t, tt.reason, res.Reason)
		})
	}
}

func TestRouteSystemSender(t *testing.T) {
	r := newRouter()

	tests := []struct {
		text       string
		sub        string
		confidence float64
	}{
		{"Delivery failed for your message", taxonomy.ProcessingErrors, 0.90},
		{"Your ticket #4411 has been resolved.", taxonomy.TicketResolved, 0.90},
		{"Weekly newsletter: 20% discount", taxonomy.SalesOffers, 0.90},
		{"Your statement is available.", taxonomy.SystemAlerts, 0.85},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			in := input(tt.text)
			in.Sender = "Vendor <no-reply@vendor.com>"

			res := r.Route(in)
			assert.Equal(t, taxonomy.NoReply, res.Category)
			assert.Equal(t, tt.sub, res.Subcategory)
			assert.Equal(t, tt.confidence, res.Confidence)
		})
	}
}

func TestRouteDisputeBeatsSystemSender(t *testing.T) {
	in := input("We owe them nothing.")
	in.Sender = "noreply@vendor.com"

	res := newRouter().Route(in)

	assert.Equal(t, taxonomy.ManualReview, res.Category)
	assert.Equal(t, taxonomy.DisputedPayment, res.Subcategory)
}

func TestRouteThread(t *testing.T) {
	r := newRouter()

	tests := []struct {
		text       string
		sub        string
		confidence float64
	}{
		{"We owe them nothing and I dispute this.", taxonomy.DisputedPayment, 0.97},
		{"We already paid, receipt attached.", taxonomy.PaymentConfirmation, 0.96},
		{"We have already paid this invoice.", taxonomy.ClaimsPaidNoInfo, 0.93},
		{"Our attorney will respond to the claim.", taxonomy.ComplexQueries, 0.94},
		{"The balance of $25,000.00 remains open on this account.", taxonomy.ComplexQueries, 0.94},
		{"I will be out of the office until Friday.", taxonomy.ReturnDate, 0.90},
		{"I am out of the office, please contact my assistant.", taxonomy.AlternateContact, 0.92},
		{"I am on vacation.", taxonomy.NoInfoAutoreply, 0.89},
		{"Jane is no longer with the company.", taxonomy.RedirectsUpdates, 0.91},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			res := r.Route(threaded(tt.text))
			assert.Equal(t, tt.sub, res.Subcategory)
			assert.Equal(t, tt.confidence, res.Confidence)
		})
	}
}

func TestRouteTopic(t *testing.T) {
	r := newRouter()
	in := Input{
		Text:     "hello there friend",
		Analysis: features.Analysis{Topics: []string{"payment", taxonomy.ClosureInfoOnly}},
	}

	res := r.Route(in)
	assert.Equal(t, taxonomy.NoReply, res.Category)
	assert.Equal(t, taxonomy.ClosureInfoOnly, res.Subcategory)
	assert.Equal(t, 0.80, res.Confidence)
	assert.Equal(t, "topic_mapping", res.Reason)

	in.HasThread = true
	assert.Equal(t, 0.85, r.Route(in).Confidence)
}

func TestRouteFallback(t *testing.T) {
	r := newRouter()

	tests := []struct {
		text       string
		thread     bool
		category   string
		sub        string
		confidence float64
	}{
		{"Regarding the billing question you had", false, taxonomy.ManualReview, taxonomy.InquiryRedirection, 0.50},
		{"Following up about the payment", false, taxonomy.PaymentsClaim, taxonomy.ClaimsPaidNoInfo, 0.55},
		{"Following up about the payment", true, taxonomy.PaymentsClaim, taxonomy.ClaimsPaidNoInfo, 0.60},
		{"Question about the invoice", false, taxonomy.InvoicesRequest, taxonomy.RequestNoInfo, 0.55},
		{"Hello there, just checking in with you.", false, taxonomy.NoReply, taxonomy.SystemAlerts, 0.40},
		{"hello there friend", true, taxonomy.NoReply, taxonomy.SystemAlerts, 0.45},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			in := input(tt.text)
			in.HasThread = tt.thread

			res := r.Route(in)
			assert.Equal(t, tt.category, res.Category)
			assert.Equal(t, tt.sub, res.Subcategory)
			assert.Equal(t, tt.confidence, res.Confidence)
		})
	}
}

func TestRouteRecoversFromPanic(t *testing.T) {
	r := &Router{cfg: DefaultConfig(), logger: zap.NewNop()}

	res := r.Route(Input{Text: "anything", Sender: "noreply@vendor.com"})

	assert.Equal(t, taxonomy.ManualReview, res.Category)
	assert.Equal(t, taxonomy.ComplexQueries, res.Subcategory)
	assert.Equal(t, 0.30, res.Confidence)
	assert.Equal(t, "error", res.Reason)
}

func TestRouteIsDeterministic(t *testing.T) {
	r := newRouter()
	in := threaded("We already paid, receipt attached.")

	assert.Equal(t, r.Route(in), r.Route(in))
}
