// Package sender recognizes unattended system mailboxes.
package sender

import (
	"net/mail"
	"strings"

	"go.uber.org/zap"
)

// Checker decides whether a sender address belongs to an automated system
type Checker struct {
	fragments []string
	domains   []string
	logger    *zap.Logger
}

// NewChecker creates a checker from mailbox fragments and whole domains
func NewChecker(fragments, domains []string, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Checker{
		fragments: normalize(fragments),
		domains:   normalize(domains),
		logger:    logger,
	}
	if len(c.domains) > 0 {
		logger.Info("Initialized system sender checker",
			zap.Int("fragments", len(c.fragments)),
			zap.Strings("domains", c.domains))
	}
	return c
}

func normalize(list []string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// IsSystem reports whether the sender looks like a no-reply or system mailbox.
// Display names are ignored when the address parses.
func (c *Checker) IsSystem(from string) bool {
	addr := strings.ToLower(strings.TrimSpace(from))
	if addr == "" {
		return false
	}
	if parsed, err := mail.ParseAddress(from); err == nil {
		addr = strings.ToLower(parsed.Address)
	}

	for _, f := range c.fragments {
		if strings.Contains(addr, f) {
			c.logger.Debug("Sender matched system fragment",
				zap.String("sender", addr),
				zap.String("fragment", f))
			return true
		}
	}

	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return false
	}
	domain := addr[at+1:]
	for _, d := range c.domains {
		if domain == d || strings.HasSuffix(domain, "."+d) {
			c.logger.Debug("Sender domain is a system domain",
				zap.String("domain", domain),
				zap.String("sender", addr))
			return true
		}
	}
	return false
}
