// Package provider defines the interface for email delivery backends.
package provider

import (
	"context"

	"github.com/shineum/mailsend/internal/email"
)

// Provider is the interface that email delivery backends must implement.
// Each provider delivers one assembled message to its target service
// (an SMTP server, AWS SES, Resend, or stdout for dry runs).
type Provider interface {
	// Send delivers an email message through this provider.
	// It returns an error if the delivery fails. Failures are not retried.
	Send(ctx context.Context, msg *email.Email) error

	// Name returns the human-readable name of this provider.
	Name() string
}
