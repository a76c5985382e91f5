package ses

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/shineum/mailsend/internal/address"
	"github.com/shineum/mailsend/internal/email"
)

// mockSESClient implements SendEmailAPI for testing.
type mockSESClient struct {
	sendFn    func(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
	callCount int
	lastInput *sesv2.SendEmailInput
}

func (m *mockSESClient) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	m.callCount++
	m.lastInput = params
	if m.sendFn != nil {
		return m.sendFn(ctx, params, optFns...)
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("test-message-id")}, nil
}

func testEmail() *email.Email {
	return &email.Email{
		From: address.Address{Name: "Alice", Address: "alice@example.com"},
		To: []address.Address{
			{Name: "Bob", Address: "bob@example.com"},
			{Name: "carol@example.com", Address: "carol@example.com"},
		},
		Subject:  "Test Subject",
		TextBody: "Hello, World!",
	}
}

func TestName(t *testing.T) {
	t.Parallel()
	p := NewWithClient(&mockSESClient{})
	if got := p.Name(); got != "ses" {
		t.Errorf("Name(): got %q, want %q", got, "ses")
	}
}

func TestSend_SimpleTextEmail(t *testing.T) {
	t.Parallel()

	mock := &mockSESClient{}
	p := NewWithClient(mock)

	if err := p.Send(context.Background(), testEmail()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mock.callCount != 1 {
		t.Errorf("call count: got %d, want 1", mock.callCount)
	}

	input := mock.lastInput
	if input.Content.Simple == nil {
		t.Fatal("expected simple email content, got nil")
	}
	if got := *input.FromEmailAddress; got != `"Alice" <alice@example.com>` {
		t.Errorf("FromEmailAddress: got %q, want %q", got, `"Alice" <alice@example.com>`)
	}
	if got := *input.Content.Simple.Subject.Data; got != "Test Subject" {
		t.Errorf("Subject: got %q, want %q", got, "Test Subject")
	}
	if got := *input.Content.Simple.Body.Text.Data; got != "Hello, World!" {
		t.Errorf("TextBody: got %q, want %q", got, "Hello, World!")
	}
	if input.Content.Simple.Body.Html != nil {
		t.Error("expected no HTML body")
	}

	to := input.Destination.ToAddresses
	if len(to) != 2 || to[0] != `"Bob" <bob@example.com>` || to[1] != "carol@example.com" {
		t.Errorf("ToAddresses: got %v", to)
	}
}

func TestSend_SimpleHtmlEmail(t *testing.T) {
	t.Parallel()

	mock := &mockSESClient{}
	p := NewWithClient(mock)

	msg := testEmail()
	msg.HTMLBody = "<h1>Hello</h1>"

	if err := p.Send(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	input := mock.lastInput
	if got := *input.Content.Simple.Body.Html.Data; got != "<h1>Hello</h1>" {
		t.Errorf("HtmlBody: got %q, want %q", got, "<h1>Hello</h1>")
	}
	if got := *input.Content.Simple.Body.Text.Data; got != "Hello, World!" {
		t.Errorf("TextBody: got %q, want %q", got, "Hello, World!")
	}
}

func TestSend_WithAttachment(t *testing.T) {
	t.Parallel()

	mock := &mockSESClient{}
	p := NewWithClient(mock)

	msg := testEmail()
	msg.Attachment = &email.Attachment{
		Filename:    "report.pdf",
		ContentType: email.ContentTypeAttachment,
		Content:     []byte("fake pdf content"),
	}

	if err := p.Send(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	input := mock.lastInput
	if input.Content.Raw == nil {
		t.Fatal("expected raw email content for attachment")
	}
	if input.Content.Simple != nil {
		t.Error("expected no simple content when sending raw")
	}

	raw := string(input.Content.Raw.Data)
	if !strings.Contains(raw, "Subject: Test Subject") {
		t.Error("raw message missing Subject header")
	}
	if !strings.Contains(raw, "report.pdf") {
		t.Error("raw message missing attachment filename")
	}
	if !strings.Contains(raw, "application/octet-stream") {
		t.Error("raw message missing attachment content type")
	}
}

func TestSend_ErrorNotRetried(t *testing.T) {
	t.Parallel()

	mock := &mockSESClient{
		sendFn: func(_ context.Context, _ *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
			return nil, errors.New("throttled")
		},
	}
	p := NewWithClient(mock)

	err := p.Send(context.Background(), testEmail())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "throttled") {
		t.Errorf("error should wrap the SES error, got %v", err)
	}
	if mock.callCount != 1 {
		t.Errorf("call count: got %d, want 1", mock.callCount)
	}
}

func TestSend_RawBuildError(t *testing.T) {
	t.Parallel()

	mock := &mockSESClient{}
	p := NewWithClient(mock)

	msg := testEmail()
	msg.From = address.ParseSingle("a:b:c")
	msg.Attachment = &email.Attachment{Filename: "x.bin", ContentType: email.ContentTypeAttachment}

	if err := p.Send(context.Background(), msg); err == nil {
		t.Fatal("expected error for malformed sender")
	}
	if mock.callCount != 0 {
		t.Errorf("call count: got %d, want 0", mock.callCount)
	}
}
