// Package smtp implements a Provider that submits mail to an SMTP server.
package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/wneessen/go-mail"

	"github.com/shineum/mailsend/internal/address"
	"github.com/shineum/mailsend/internal/email"
)

// DefaultPort is the plaintext SMTP port.
const DefaultPort = mail.DefaultPort

// Config holds the connection settings for an SMTP Provider.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string

	// AuthEnabled turns on PLAIN authentication with Username and Password.
	AuthEnabled bool

	// TLSConfig is used for the STARTTLS upgrade. Nil keeps go-mail's default.
	TLSConfig *tls.Config
}

// Provider sends each message over a fresh SMTP session. The connection
// starts in plaintext and upgrades with STARTTLS when the server offers it.
type Provider struct {
	cfg Config
}

// New creates a new SMTP Provider. A zero port means DefaultPort.
func New(cfg Config) *Provider {
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	return &Provider{cfg: cfg}
}

// Send connects, authenticates if enabled, and delivers msg. The session is
// closed before returning.
func (p *Provider) Send(ctx context.Context, msg *email.Email) error {
	m, err := msg.Msg()
	if err != nil {
		return fmt.Errorf("failed to build message: %w", err)
	}

	client, err := p.newClient()
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(p.cfg.Host, strconv.Itoa(p.cfg.Port))
	slog.Debug("sending via SMTP",
		"server", addr,
		"auth", p.cfg.AuthEnabled,
		"from", msg.From.Address,
		"to", address.Strings(msg.To),
	)

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("SMTP send to %s failed: %w", addr, err)
	}

	return nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "smtp"
}

// Config returns the connection settings the provider was created with.
func (p *Provider) Config() Config {
	return p.cfg
}

// newClient creates an unconnected go-mail client for the configured server.
func (p *Provider) newClient() (*mail.Client, error) {
	client, err := mail.NewClient(p.cfg.Host, p.options()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return client, nil
}

// options translates the provider configuration into go-mail client options.
func (p *Provider) options() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(p.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}

	if p.cfg.TLSConfig != nil {
		opts = append(opts, mail.WithTLSConfig(p.cfg.TLSConfig))
	}

	if p.cfg.AuthEnabled {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(p.cfg.Username),
			mail.WithPassword(p.cfg.Password),
		)
	}

	return opts
}
