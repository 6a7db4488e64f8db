package filter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jhillyerd/enmime"
	"github.com/mikey/email-triage/internal/core"
)

// ParseMIME reads a raw RFC 5322 message into an Email. The plain text part
// is preferred; HTML-only messages keep their markup for the normalizer.
func ParseMIME(raw []byte) (*core.Email, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIME message: %w", err)
	}

	body := env.Text
	if strings.TrimSpace(body) == "" && env.HTML != "" {
		body = env.HTML
	}

	email := &core.Email{
		ID:             strings.Trim(env.GetHeader("Message-ID"), "<> "),
		Subject:        env.GetHeader("Subject"),
		Body:           body,
		Sender:         env.GetHeader("From"),
		HasAttachments: len(env.Attachments) > 0,
		Headers:        make(map[string][]string),
	}
	for _, key := range env.GetHeaderKeys() {
		email.Headers[key] = env.GetHeaderValues(key)
	}

	return email, nil
}

// Header is a single header line to stamp on a message
type Header struct {
	Name  string
	Value string
}

// StampHeaders prepends headers to a raw message. Existing headers with the
// same names are removed first so upstream values cannot be forged.
func StampHeaders(raw []byte, headers []Header) []byte {
	drop := make(map[string]bool, len(headers))
	for _, h := range headers {
		drop[strings.ToLower(h.Name)] = true
	}

	head, body, sep := splitMessage(raw)

	var out bytes.Buffer
	for _, h := range headers {
		fmt.Fprintf(&out, "%s: %s\r\n", h.Name, sanitizeHeaderValue(h.Value))
	}

	skipping := false
	for _, line := range splitLines(head) {
		folded := len(line) > 0 && (line[0] == ' ' || line[0] == '\t')
		if !folded {
			name, _, _ := strings.Cut(line, ":")
			skipping = drop[strings.ToLower(strings.TrimSpace(name))]
		}
		if skipping {
			continue
		}
		out.WriteString(line)
		out.WriteString("\r\n")
	}

	out.WriteString(sep)
	out.Write(body)
	return out.Bytes()
}

// splitMessage returns the header block, the body and the separator that
// ended the headers
func splitMessage(raw []byte) (string, []byte, string) {
	if i := bytes.Index(raw, []byte("\r\n\r\n")); i >= 0 {
		return string(raw[:i]), raw[i+4:], "\r\n"
	}
	if i := bytes.Index(raw, []byte("\n\n")); i >= 0 {
		return string(raw[:i]), raw[i+2:], "\r\n"
	}
	return string(raw), nil, "\r\n"
}

func splitLines(head string) []string {
	head = strings.ReplaceAll(head, "\r\n", "\n")
	if head == "" {
		return nil
	}
	return strings.Split(head, "\n")
}

func sanitizeHeaderValue(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

// ResultHeaders renders a classification as header lines
func ResultHeaders(names HeaderNames, result *core.ClassificationResult) []Header {
	return []Header{
		{names.Category, result.Category},
		{names.Subcategory, result.Subcategory},
		{names.Confidence, fmt.Sprintf("%.2f", result.Confidence)},
		{names.Method, string(result.Method)},
		{names.Label, result.FinalLabel},
	}
}
