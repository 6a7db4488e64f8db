package preprocess

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProcessPlainBody(t *testing.T) {
	n := NewNormalizer(zap.NewNop())

	out := n.Process("RE: Invoice 12345", "We have   already paid\tthis invoice.")

	assert.True(t, out.OK)
	assert.Equal(t, "We have already paid this invoice.", out.NormalizedText)
	assert.Equal(t, "Invoice 12345", out.CleanedSubject)
	assert.False(t, out.HasThread)
	assert.Zero(t, out.ThreadCount)
	assert.Greater(t, out.CompressionRatio, 0.0)
}

func TestProcessSplitsThread(t *testing.T) {
	n := NewNormalizer(nil)
	body := "Please see the attached remittance for the March invoices.\n" +
		"From: Billing Team <billing@example.com>\n" +
		"Sent: Monday, March 4, 2024 10:12 AM\n" +
		"To: Accounts <ap@example.com>\n" +
		"Subject: Past due invoices\n" +
		"Your account has a past due balance, please remit payment."

	out := n.Process("Re: Past due invoices", body)

	assert.True(t, out.HasThread)
	assert.GreaterOrEqual(t, out.ThreadCount, 2)
	assert.Equal(t, "Please see the attached remittance for the March invoices.", out.CurrentReply)
	assert.NotContains(t, out.NormalizedText, "past due balance")
}

func TestExtractCurrentReplyKeepsShortPrefix(t *testing.T) {
	text := "Paid.\n-----Original Message-----\nPlease pay invoice 4411."

	assert.Equal(t, text, ExtractCurrentReply(text))
}

func TestExtractCurrentReplySeparators(t *testing.T) {
	reply := "We mailed the payment for invoice 4411 on Monday."

	tests := []struct {
		name    string
		history string
	}{
		{"outlook block", "From: Billing <billing@example.com>\nSent: Monday, March 4, 2024 10:12 AM\nTo: AP <ap@example.com>\nSubject: Past due"},
		{"agency sender", "From: ABCCollectionsTeamD@abc-amega.com\nDate: March 4, 2024"},
		{"original message", "-----Original Message-----\nPlease pay invoice 4411."},
		{"agency referral", "Dear Accounts Payable: Your Company has been referred to us for collection."},
		{"forwarded", "---------- Forwarded message ---------\nPlease pay invoice 4411."},
		{"inline header", "From: Jane Doe <jane@example.com> Sent: Tuesday, March 5, 2024 To: AP Team Subject: Invoice 4411"},
		{"polish header", "Od: Jan Kowalski <jan@example.pl> Wysłano: wtorek, 5 marca 2024 Do: AP Temat: Faktura"},
		{"long sent date", "From: Jane Doe Sent: Tuesday, March 5, 2024 9:00 AM"},
		{"external banner", "External email. Think before clicking links or opening attachments.\nPlease pay."},
		{"think before clicking", "Think before clicking links or opening attachments.\nPlease pay."},
		{"reply header", "On Tue, Mar 5, 2024 at 9:00 AM Jane Doe wrote:\nPlease pay."},
		{"underscores", "________________________________\nPlease pay."},
		{"quoted lines", "> Please pay invoice 4411."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := reply + "\n" + tt.history

			assert.Equal(t, reply, ExtractCurrentReply(text))
			has, _ := DetectThread(text)
			assert.True(t, has)
		})
	}
}

func TestExtractCurrentReplyFollowsSeparatorOrder(t *testing.T) {
	text := "We mailed the payment for invoice 4411 on Monday.\n> see below\n-----Original Message-----\nPlease pay."

	assert.Equal(t, "We mailed the payment for invoice 4411 on Monday.\n> see below", ExtractCurrentReply(text))
}

func TestProcessCutsAtAgencyReferral(t *testing.T) {
	body := "We have sent the check for this account last Friday morning by mail.\n" +
		"Dear Accounts Payable: Your Company has been referred to us for collection. " +
		"If you dispute this debt, notify us within 30 days."

	out := NewNormalizer(nil).Process("", body)

	assert.True(t, out.HasThread)
	assert.Equal(t, "We have sent the check for this account last Friday morning by mail.", out.NormalizedText)
	assert.NotContains(t, out.NormalizedText, "dispute")
}

func TestProcessExternalBanner(t *testing.T) {
	n := NewNormalizer(nil)

	// Below the reply the banner opens forwarded history and cuts it.
	out := n.Process("", "Please find the remittance for invoice 4411 attached below.\n"+
		"External email. Think before clicking links or opening attachments.\n"+
		"Your account is past due, please pay now.")
	assert.True(t, out.HasThread)
	assert.Equal(t, "Please find the remittance for invoice 4411 attached below.", out.NormalizedText)

	// At the top it is only noise.
	out = n.Process("", "External email. Think before clicking links or opening attachments.\n"+
		"We paid invoice 4411 by check last Friday, check number 1002.")
	assert.Equal(t, "We paid invoice 4411 by check last Friday, check number 1002.", out.NormalizedText)
}

func TestProcessFallsBackToMinimalCleaning(t *testing.T) {
	n := NewNormalizer(nil)
	body := "Thanks\nWe paid this last week by check number 1002."

	out := n.Process("", body)

	// The farewell on the first line strips everything, so the short result
	// is replaced by the minimally cleaned body.
	assert.Equal(t, "Thanks We paid this last week by check number 1002.", out.NormalizedText)
}

func TestCleanLines(t *testing.T) {
	body := strings.Join([]string{
		"CAUTION: This email originated from outside of the organization.",
		"We will send the check on Friday.",
		"Sent from my iPhone",
		"Let me know if you need anything else. Kind regards,",
		"John",
	}, "\n")

	cleaned, skipped := cleanLines(body)

	assert.Equal(t, 1, skipped)
	assert.Equal(t, "We will send the check on Friday.\nLet me know if you need anything else.", cleaned)
}

func TestCleanLinesStopsAtReplyHeader(t *testing.T) {
	body := "Payment was sent today via ACH.\nOn Tue, Mar 5, 2024 at 9:00 AM Jane Doe wrote:\nPlease pay."

	cleaned, _ := cleanLines(body)

	assert.Equal(t, "Payment was sent today via ACH.", cleaned)
}

func TestProcessRemovesNoise(t *testing.T) {
	n := NewNormalizer(nil)
	body := "[EXTERNAL] This email originated from outside the organization. " +
		"Please provide a copy of invoice 7781 and the [remittance](https://example.com/r) **today**."

	out := n.Process("", body)

	assert.Equal(t, "Please provide a copy of invoice 7781 and the remittance today.", out.NormalizedText)
	assert.GreaterOrEqual(t, out.RedactionCount, 1)
}

func TestProcessHTML(t *testing.T) {
	n := NewNormalizer(nil)
	body := `<html><head><style>p{color:red}</style></head><body>` +
		`<p>Our office will be closed permanently as of June 1.</p>` +
		`<img src="https://t.example.com/p.gif" width="1" height="1">` +
		`<script>track()</script><p>Please remit the outstanding balance.</p></body></html>`

	out := n.Process("", body)

	assert.Equal(t, "Our office will be closed permanently as of June 1. Please remit the outstanding balance.", out.NormalizedText)
}

func TestHTMLToTextDropsTrackingPixel(t *testing.T) {
	text := HTMLToText(`<div>Hello<img src="x" style="width: 1px; height: 1px"></div>`)

	assert.Equal(t, "Hello", strings.TrimSpace(text))
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "a & b", collapse(StripTags("<p>a &amp; <b>b</b><script>x()</script>")))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "caf\u00e9 paid", Normalize("cafe\u0301\u00a0\u200bpaid"))
	assert.Equal(t, "", Normalize("  \n\t "))
}

func TestCleanSubject(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"RE: Invoice 12345", "Invoice 12345"},
		{"Fwd:  Payment   status", "Payment status"},
		{"FW: RE: Statement", "RE: Statement"},
		{"[EXTERNAL] Closure notice", "Closure notice"},
		{"ODP: Faktura", "Faktura"},
		{"Remittance", "Remittance"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanSubject(tt.in))
		})
	}
}

func TestDetectThread(t *testing.T) {
	has, count := DetectThread("no history here")
	assert.False(t, has)
	assert.Zero(t, count)

	has, count = DetectThread("ok\n> quoted line")
	require.True(t, has)
	assert.Equal(t, 1, count)
}

func TestProcessEmptyBody(t *testing.T) {
	out := NewNormalizer(nil).Process("", "")

	assert.True(t, out.OK)
	assert.Empty(t, out.NormalizedText)
	assert.Zero(t, out.CompressionRatio)
}
