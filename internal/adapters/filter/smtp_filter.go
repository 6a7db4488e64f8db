package filter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/email-triage/internal/core"
	"go.uber.org/zap"
)

// SMTPFilter receives mail over SMTP, stamps triage headers and relays the
// message to the next hop
type SMTPFilter struct {
	service         Classifier
	logger          *zap.Logger
	listenAddr      string
	domain          string
	maxMessageBytes int64
	nextHopEnabled  bool
	nextHopAddr     string
	headers         HeaderNames
	server          *smtp.Server
	relay           func(sender string, recipients []string, data []byte) error
}

// NewSMTPFilter creates a new SMTP relay filter
func NewSMTPFilter(
	service Classifier,
	logger *zap.Logger,
	listenAddr string,
	domain string,
	maxMessageBytes int64,
	nextHopEnabled bool,
	nextHopAddress string,
	nextHopPort int,
	headers HeaderNames,
) *SMTPFilter {
	if domain == "" {
		domain = "localhost"
	}
	if maxMessageBytes <= 0 {
		maxMessageBytes = 10 * 1024 * 1024
	}
	f := &SMTPFilter{
		service:         service,
		logger:          logger,
		listenAddr:      listenAddr,
		domain:          domain,
		maxMessageBytes: maxMessageBytes,
		nextHopEnabled:  nextHopEnabled,
		nextHopAddr:     net.JoinHostPort(nextHopAddress, fmt.Sprint(nextHopPort)),
		headers:         headers,
	}
	f.relay = f.sendToNextHop
	return f
}

// Start starts the SMTP listener in the background
func (f *SMTPFilter) Start() error {
	f.server = smtp.NewServer(&smtpBackend{filter: f})

	f.server.Addr = f.listenAddr
	f.server.Domain = f.domain
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = f.maxMessageBytes
	f.server.MaxRecipients = 50
	f.server.AllowInsecureAuth = true

	f.logger.Info("SMTP filter starting",
		zap.String("address", f.listenAddr),
		zap.Bool("next_hop_enabled", f.nextHopEnabled),
		zap.String("next_hop", f.nextHopAddr))

	go func() {
		if err := f.server.ListenAndServe(); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
			f.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the SMTP listener
func (f *SMTPFilter) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// ProcessEmail classifies an email without relaying it
func (f *SMTPFilter) ProcessEmail(ctx context.Context, email *core.Email) (*core.ClassificationResult, error) {
	return f.service.Classify(ctx, email), nil
}

// handle classifies a raw message and returns it with triage headers prepended
func (f *SMTPFilter) handle(ctx context.Context, raw []byte) ([]byte, *core.ClassificationResult) {
	email, err := ParseMIME(raw)
	if err != nil {
		f.logger.Warn("Failed to parse message, relaying with fallback headers", zap.Error(err))
		email = &core.Email{}
	}

	result := f.service.Classify(ctx, email)
	return StampHeaders(raw, ResultHeaders(f.headers, result)), result
}

// sendToNextHop relays the stamped message to the downstream MTA
func (f *SMTPFilter) sendToNextHop(sender string, recipients []string, data []byte) error {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", f.nextHopAddr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to next hop: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}
	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
			continue
		}
		recipientOK = true
	}
	if !recipientOK {
		return errors.New("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		// Already delivered
		f.logger.Warn("QUIT command failed", zap.Error(err))
	}
	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	filter *SMTPFilter
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{filter: b.filter}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	filter     *SMTPFilter
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = nil
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data classifies and relays the message
func (s *smtpSession) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.filter.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stamped, result := s.filter.handle(ctx, raw)

	if s.filter.nextHopEnabled {
		if err := s.filter.relay(s.sender, s.recipients, stamped); err != nil {
			s.filter.logger.Error("Failed to relay message",
				zap.Error(err),
				zap.String("sender", s.sender))
			return &smtp.SMTPError{
				Code:         451,
				EnhancedCode: smtp.EnhancedCode{4, 4, 0},
				Message:      "Relay to next hop failed, try again later",
			}
		}
	} else {
		s.filter.logger.Warn("Next hop disabled, message classified but not relayed")
	}

	s.filter.logger.Info("Processed email",
		zap.String("sender", s.sender),
		zap.Int("recipients", len(s.recipients)),
		zap.String("category", result.Category),
		zap.String("subcategory", result.Subcategory),
		zap.Float64("confidence", result.Confidence),
		zap.String("method", string(result.Method)))

	return nil
}

// Logout handles SMTP logout
func (s *smtpSession) Logout() error {
	return nil
}
