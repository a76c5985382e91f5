// Package resend implements a Provider that sends emails via the Resend API.
package resend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"github.com/shineum/mailsend/internal/address"
	"github.com/shineum/mailsend/internal/email"
)

// EmailSender is the subset of the Resend emails service used by Provider.
type EmailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Provider sends emails via Resend.
type Provider struct {
	emails EmailSender
}

// New creates a Provider authenticated with apiKey.
func New(apiKey string) *Provider {
	return &Provider{emails: resend.NewClient(apiKey).Emails}
}

// NewWithSender creates a Provider with a custom sender, used for testing.
func NewWithSender(emails EmailSender) *Provider {
	return &Provider{emails: emails}
}

// Send delivers msg in a single API call.
func (p *Provider) Send(ctx context.Context, msg *email.Email) error {
	params := &resend.SendEmailRequest{
		From:    msg.From.String(),
		To:      address.Strings(msg.To),
		Subject: msg.Subject,
		Text:    msg.TextBody,
		Html:    msg.HTMLBody,
	}

	if att := msg.Attachment; att != nil {
		params.Attachments = []*resend.Attachment{{
			Filename: att.Filename,
			Content:  att.Content,
		}}
	}

	result, err := p.emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("Resend send failed: %w", err)
	}

	slog.Debug("sent via Resend", "email_id", result.Id)
	return nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "resend"
}
