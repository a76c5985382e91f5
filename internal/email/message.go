// Package email defines the outgoing message model and assembles it from
// resolved options.
package email

import "github.com/shineum/mailsend/internal/address"

// ContentTypeAttachment is the content type given to every attachment.
const ContentTypeAttachment = "application/octet-stream"

// Email represents an outgoing message with all its components.
type Email struct {
	From       address.Address
	To         []address.Address
	Subject    string
	TextBody   string
	HTMLBody   string
	Attachment *Attachment
}

// Attachment represents a file attached to an email message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// HasHTML reports whether the message carries an HTML alternative.
func (e *Email) HasHTML() bool {
	return e.HTMLBody != ""
}
