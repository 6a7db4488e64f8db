package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mikey/email-triage/internal/adapters/filter"
	"github.com/mikey/email-triage/internal/core"
	"github.com/spf13/cobra"
)

// emailInput is the set of flags that describe one email
type emailInput struct {
	subject     string
	body        string
	sender      string
	attachments bool
	file        string
}

func (in *emailInput) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&in.subject, "subject", "s", "", "Email subject")
	f.StringVarP(&in.body, "body", "b", "", "Email body")
	f.StringVar(&in.sender, "sender", "", "Sender address")
	f.BoolVar(&in.attachments, "attachments", false, "Email has attachments")
	f.StringVarP(&in.file, "file", "f", "", "Read a raw .eml message (- for stdin)")
}

// load builds the email from flags or from a raw message
func (in *emailInput) load(stdin io.Reader) (*core.Email, error) {
	if in.file == "" {
		if in.subject == "" && in.body == "" {
			return nil, errors.New("provide --subject/--body or --file")
		}
		return &core.Email{
			Subject:        in.subject,
			Body:           in.body,
			Sender:         in.sender,
			HasAttachments: in.attachments,
		}, nil
	}

	var raw []byte
	var err error
	if in.file == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(in.file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}

	email, err := filter.ParseMIME(raw)
	if err != nil {
		return nil, err
	}

	// Flags override what the message says
	if in.subject != "" {
		email.Subject = in.subject
	}
	if strings.TrimSpace(in.sender) != "" {
		email.Sender = in.sender
	}
	if in.attachments {
		email.HasAttachments = true
	}
	return email, nil
}
