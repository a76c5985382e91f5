package email

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"
)

// ErrInvalidAddress is returned when the MIME builder rejects a sender or
// recipient. The builder requires a domain, so local-part-only mailboxes such
// as "root" or "postmaster" are rejected before any connection is made.
var ErrInvalidAddress = errors.New("invalid address")

// Msg renders the message as a go-mail message.
func (e *Email) Msg() (*mail.Msg, error) {
	m := mail.NewMsg()

	if err := m.FromFormat(e.From.Name, e.From.Address); err != nil {
		return nil, fmt.Errorf("%w: sender %q: %w", ErrInvalidAddress, e.From.Address, err)
	}
	for _, to := range e.To {
		if err := m.AddToFormat(to.Name, to.Address); err != nil {
			return nil, fmt.Errorf("%w: recipient %q: %w", ErrInvalidAddress, to.Address, err)
		}
	}

	m.Subject(e.Subject)
	m.SetBodyString(mail.TypeTextPlain, e.TextBody)
	if e.HasHTML() {
		m.AddAlternativeString(mail.TypeTextHTML, e.HTMLBody)
	}

	if att := e.Attachment; att != nil {
		err := m.AttachReader(att.Filename, bytes.NewReader(att.Content),
			mail.WithFileContentType(mail.ContentType(att.ContentType)))
		if err != nil {
			return nil, fmt.Errorf("failed to attach %q: %w", att.Filename, err)
		}
	}

	return m, nil
}

// Raw renders the complete RFC 5322 message.
func (e *Email) Raw() ([]byte, error) {
	m, err := e.Msg()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to render message: %w", err)
	}
	return buf.Bytes(), nil
}
