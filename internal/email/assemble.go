package email

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shineum/mailsend/internal/address"
)

// ErrAttachment is returned when the attachment path does not name an
// existing regular file.
var ErrAttachment = errors.New("attachment_file is error")

// Spec is the raw input for Assemble. BodyHTML and AttachmentFile are nil when
// absent.
type Spec struct {
	From           string
	To             string
	Subject        string
	Body           string
	BodyHTML       *string
	AttachmentFile *string
}

// Assemble builds an Email from spec. The attachment, if any, is read fully
// into memory.
func Assemble(spec Spec) (*Email, error) {
	msg := &Email{
		From:     address.ParseSingle(spec.From),
		To:       address.ParseRecipients(spec.To),
		Subject:  spec.Subject,
		TextBody: spec.Body,
	}

	if spec.BodyHTML != nil {
		msg.HTMLBody = *spec.BodyHTML
	}

	if spec.AttachmentFile != nil {
		att, err := LoadAttachment(*spec.AttachmentFile)
		if err != nil {
			return nil, err
		}
		msg.Attachment = att
	}

	return msg, nil
}

// LoadAttachment reads the regular file at path as an octet-stream attachment
// named after the path's last element.
func LoadAttachment(path string) (*Attachment, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, ErrAttachment
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}

	return &Attachment{
		Filename:    filepath.Base(path),
		ContentType: ContentTypeAttachment,
		Content:     data,
	}, nil
}
