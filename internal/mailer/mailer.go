// Package mailer runs the assemble-and-send pipeline for one message.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shineum/mailsend/internal/config"
	"github.com/shineum/mailsend/internal/email"
	"github.com/shineum/mailsend/internal/provider"
)

// Send assembles the message described by cfg and delivers it through p.
// Assembly errors, including attachment errors, are returned before p is
// used. The delivered message is returned on success.
func Send(ctx context.Context, cfg *config.Config, p provider.Provider) (*email.Email, error) {
	msg, err := email.Assemble(email.Spec{
		From:           cfg.Mail.From,
		To:             cfg.Mail.To,
		Subject:        cfg.Message.Subject,
		Body:           cfg.Message.Body,
		BodyHTML:       cfg.Message.BodyHTML,
		AttachmentFile: cfg.Message.AttachmentFile,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("sending email",
		"provider", p.Name(),
		"from", msg.From.Address,
		"recipients", len(msg.To),
		"html", msg.HasHTML(),
		"attachment", msg.Attachment != nil,
	)

	if err := p.Send(ctx, msg); err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name(), err)
	}

	slog.Info("email sent", "provider", p.Name())
	return msg, nil
}
