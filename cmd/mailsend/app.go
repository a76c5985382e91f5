package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/shineum/mailsend/internal/config"
	"github.com/shineum/mailsend/internal/mailer"
	"github.com/shineum/mailsend/internal/provider"
	"github.com/shineum/mailsend/internal/provider/resend"
	"github.com/shineum/mailsend/internal/provider/ses"
	"github.com/shineum/mailsend/internal/provider/smtp"
	"github.com/shineum/mailsend/internal/provider/stdout"
	smtptls "github.com/shineum/mailsend/internal/tls"
)

// newApp builds the command-line application.
func newApp() *cli.App {
	return &cli.App{
		Name:        "mailsend",
		Usage:       "send a single email over SMTP",
		HideVersion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "smtp-server", Aliases: []string{"s"}, Usage: "smtp server host (env SMTP_SERVER)"},
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "smtp username (env MAIL_USERNAME)"},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "smtp password (env MAIL_PASSWORD)"},
			&cli.StringFlag{Name: "from", Aliases: []string{"f"}, Usage: "from, name:email or email; the address needs a domain (env MAIL_FROM)"},
			&cli.StringFlag{Name: "to", Aliases: []string{"t"}, Usage: "to, name1:email1|name2:email2|...; addresses need a domain (env MAIL_TO)"},
			&cli.StringFlag{Name: "subject", Required: true, Usage: "subject"},
			&cli.StringFlag{Name: "body", Required: true, Usage: "plain text body"},
			&cli.StringFlag{Name: "body-html", Usage: "html body"},
			&cli.StringFlag{Name: "attachment-file", Aliases: []string{"a"}, Usage: "attachment file path"},
			&cli.StringFlag{Name: "provider", Usage: "delivery provider: smtp, ses, resend or stdout (env MAIL_PROVIDER)"},
			&cli.IntFlag{Name: "port", Usage: "smtp server port (env SMTP_PORT, default 25)"},
			&cli.StringFlag{Name: "tls-ca-file", Usage: "extra CA bundle for STARTTLS (env SMTP_TLS_CA_FILE)"},
			&cli.StringFlag{Name: "config", Usage: "path to YAML configuration file"},
			&cli.StringFlag{Name: "env-file", Usage: "path to dotenv file read before resolving options"},
			&cli.BoolFlag{Name: "dry-run", Usage: "print the message instead of sending it"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error (env LOG_LEVEL)"},
		},
		Action: run,
	}
}

// run resolves the configuration, selects the provider and sends the message.
func run(c *cli.Context) error {
	base := config.Defaults()
	if c.IsSet("config") {
		loaded, err := config.LoadFile(c.String("config"))
		if err != nil {
			return err
		}
		base = loaded
	}

	env := config.EnvFromOS()
	if c.IsSet("env-file") {
		if err := env.LoadEnvFile(c.String("env-file")); err != nil {
			return err
		}
	}

	flags := flagsFromContext(c)
	if c.Bool("dry-run") {
		dry := config.ProviderStdout
		flags.Provider = &dry
	}

	cfg, err := config.Resolve(base, flags, env)
	if err != nil {
		return err
	}

	setupLogger(cfg.Logging.Level, c.App.ErrWriter)

	prov, err := selectProvider(c.Context, cfg, c.App.Writer)
	if err != nil {
		return err
	}

	_, err = mailer.Send(c.Context, cfg, prov)
	return err
}

// flagsFromContext collects the flags that were given on the command line.
func flagsFromContext(c *cli.Context) config.Flags {
	flags := config.Flags{
		Provider:       optString(c, "provider"),
		SMTPServer:     optString(c, "smtp-server"),
		Username:       optString(c, "username"),
		Password:       optString(c, "password"),
		From:           optString(c, "from"),
		To:             optString(c, "to"),
		TLSCAFile:      optString(c, "tls-ca-file"),
		LogLevel:       optString(c, "log-level"),
		Subject:        c.String("subject"),
		Body:           c.String("body"),
		BodyHTML:       optString(c, "body-html"),
		AttachmentFile: optString(c, "attachment-file"),
	}
	if c.IsSet("port") {
		port := c.Int("port")
		flags.Port = &port
	}
	return flags
}

func optString(c *cli.Context, name string) *string {
	if !c.IsSet(name) {
		return nil
	}
	v := c.String(name)
	return &v
}

// setupLogger configures the global slog logger with JSON output and the
// specified log level.
func setupLogger(level string, w io.Writer) {
	var logLevel slog.Level

	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// selectProvider builds the delivery backend named by cfg.Provider. The
// stdout provider writes to out.
func selectProvider(ctx context.Context, cfg *config.Config, out io.Writer) (provider.Provider, error) {
	switch cfg.Provider {
	case config.ProviderSMTP:
		tlsConfig, err := smtptls.ClientConfig(cfg.SMTP.Server, cfg.TLS.CAFile, cfg.TLS.InsecureSkipVerify)
		if err != nil {
			return nil, fmt.Errorf("failed to setup TLS: %w", err)
		}
		slog.Debug("using SMTP provider",
			"server", cfg.SMTP.Server,
			"port", cfg.SMTP.Port,
			"auth_enabled", cfg.AuthEnabled(),
		)
		return smtp.New(smtp.Config{
			Host:        cfg.SMTP.Server,
			Port:        cfg.SMTP.Port,
			Username:    cfg.SMTP.Username,
			Password:    cfg.SMTP.Password,
			AuthEnabled: cfg.AuthEnabled(),
			TLSConfig:   tlsConfig,
		}), nil

	case config.ProviderSES:
		slog.Debug("using AWS SES provider", "region", cfg.SES.Region)
		p, err := ses.New(ctx, ses.SESProviderConfig{
			Region:          cfg.SES.Region,
			AccessKeyID:     cfg.SES.AccessKeyID,
			SecretAccessKey: cfg.SES.SecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create SES provider: %w", err)
		}
		return p, nil

	case config.ProviderResend:
		slog.Debug("using Resend provider")
		return resend.New(cfg.Resend.APIKey), nil

	case config.ProviderStdout:
		slog.Debug("using stdout provider")
		return stdout.NewWithWriter(out), nil

	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
