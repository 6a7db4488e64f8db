package filter

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/emersion/go-smtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const plainMessage = "From: Billing <billing@acme.com>\r\n" +
	"To: ar@example.com\r\n" +
	"Subject: Invoice question\r\n" +
	"X-Triage-Category: Forged\r\n" +
	"Message-ID: <abc123@acme.com>\r\n" +
	"\r\n" +
	"Hello, can you resend invoice 4411?\r\n"

const multipartMessage = "From: ap@vendor.com\r\n" +
	"To: ar@example.com\r\n" +
	"Subject: Remittance\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/mixed; boundary=\"b1\"\r\n" +
	"\r\n" +
	"--b1\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Payment sent, remittance attached.\r\n" +
	"--b1\r\n" +
	"Content-Type: application/pdf\r\n" +
	"Content-Disposition: attachment; filename=\"remit.pdf\"\r\n" +
	"Content-Transfer-Encoding: base64\r\n" +
	"\r\n" +
	"JVBERi0xLjQK\r\n" +
	"--b1--\r\n"

func newTestSMTP(nextHop bool) (*SMTPFilter, *fakeService) {
	svc := &fakeService{}
	f := NewSMTPFilter(svc, zap.NewNop(), "127.0.0.1:0", "", 0, nextHop, "localhost", 10026, DefaultHeaderNames())
	return f, svc
}

func TestParseMIME(t *testing.T) {
	email, err := ParseMIME([]byte(plainMessage))
	require.NoError(t, err)
	assert.Equal(t, "Invoice question", email.Subject)
	assert.Contains(t, email.Body, "resend invoice 4411")
	assert.Equal(t, "abc123@acme.com", email.ID)
	assert.False(t, email.HasAttachments)

	email, err = ParseMIME([]byte(multipartMessage))
	require.NoError(t, err)
	assert.Equal(t, "ap@vendor.com", email.Sender)
	assert.Contains(t, email.Body, "remittance attached")
	assert.True(t, email.HasAttachments)
}

func TestStampHeaders(t *testing.T) {
	out := string(StampHeaders([]byte(plainMessage), []Header{
		{"X-Triage-Category", "Manual Review"},
		{"X-Triage-Label", "bad\r\nInjected: yes"},
	}))

	assert.True(t, strings.HasPrefix(out, "X-Triage-Category: Manual Review\r\nX-Triage-Label: bad  Injected: yes\r\n"))
	assert.NotContains(t, out, "Forged")
	assert.Contains(t, out, "Subject: Invoice question\r\n")
	assert.True(t, strings.HasSuffix(out, "\r\n\r\nHello, can you resend invoice 4411?\r\n"))
}

func TestStampHeadersDropsFoldedLines(t *testing.T) {
	raw := "X-Triage-Reason: first\r\n  continued\r\nSubject: s\r\n\r\nbody"
	out := string(StampHeaders([]byte(raw), []Header{{"X-Triage-Reason", "new"}}))

	assert.Equal(t, "X-Triage-Reason: new\r\nSubject: s\r\n\r\nbody", out)
}

func TestSessionRelaysStampedMessage(t *testing.T) {
	f, svc := newTestSMTP(true)
	var relayed []byte
	var to []string
	f.relay = func(sender string, recipients []string, data []byte) error {
		assert.Equal(t, "ap@vendor.com", sender)
		to = recipients
		relayed = data
		return nil
	}

	s := &smtpSession{filter: f}
	require.NoError(t, s.Mail("ap@vendor.com", nil))
	require.NoError(t, s.Rcpt("ar@example.com", nil))
	require.NoError(t, s.Data(bytes.NewReader([]byte(multipartMessage))))

	assert.Equal(t, []string{"ar@example.com"}, to)
	require.Len(t, svc.seen, 1)
	assert.True(t, svc.seen[0].HasAttachments)
	assert.Contains(t, string(relayed), "X-Triage-Subcategory: Payment Confirmation\r\n")
	assert.Contains(t, string(relayed), "X-Triage-Confidence: 0.95\r\n")
	assert.Contains(t, string(relayed), "X-Triage-Method: rule_engine_high_confidence\r\n")
	assert.Contains(t, string(relayed), "X-Triage-Label: claims_paid_with_proof\r\n")
	assert.Contains(t, string(relayed), "JVBERi0xLjQK")
}

func TestSessionRelayFailureIsTemporary(t *testing.T) {
	f, _ := newTestSMTP(true)
	f.relay = func(string, []string, []byte) error { return errors.New("connection refused") }

	s := &smtpSession{filter: f}
	err := s.Data(bytes.NewReader([]byte(plainMessage)))

	var smtpErr *smtp.SMTPError
	require.ErrorAs(t, err, &smtpErr)
	assert.Equal(t, 451, smtpErr.Code)
}

func TestSessionWithoutNextHop(t *testing.T) {
	f, svc := newTestSMTP(false)
	f.relay = func(string, []string, []byte) error {
		t.Fatal("relay should not be called")
		return nil
	}

	s := &smtpSession{filter: f}
	require.NoError(t, s.Data(bytes.NewReader([]byte(plainMessage))))
	assert.Len(t, svc.seen, 1)

	s.Reset()
	assert.Empty(t, s.sender)
	assert.Nil(t, s.recipients)
}
