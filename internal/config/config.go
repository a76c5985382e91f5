// Package config resolves mailsend options from command-line flags, the
// environment and an optional YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultSMTPPort is the plaintext SMTP port used when none is configured.
const DefaultSMTPPort = 25

// Provider names.
const (
	ProviderSMTP   = "smtp"
	ProviderSES    = "ses"
	ProviderResend = "resend"
	ProviderStdout = "stdout"
)

// Environment variable names.
const (
	EnvSMTPServer     = "SMTP_SERVER"
	EnvSMTPPort       = "SMTP_PORT"
	EnvUsername       = "MAIL_USERNAME"
	EnvPassword       = "MAIL_PASSWORD"
	EnvFrom           = "MAIL_FROM"
	EnvTo             = "MAIL_TO"
	EnvProvider       = "MAIL_PROVIDER"
	EnvTLSCAFile      = "SMTP_TLS_CA_FILE"
	EnvTLSInsecure    = "SMTP_TLS_INSECURE_SKIP_VERIFY"
	EnvSESRegion      = "SES_REGION"
	EnvSESAccessKeyID = "SES_ACCESS_KEY_ID"
	EnvSESSecretKey   = "SES_SECRET_ACCESS_KEY"
	EnvResendAPIKey   = "RESEND_API_KEY"
	EnvLogLevel       = "LOG_LEVEL"
)

// Config holds the complete resolved configuration for one send.
type Config struct {
	Provider string        `yaml:"provider"`
	SMTP     SMTPConfig    `yaml:"smtp"`
	Mail     MailConfig    `yaml:"mail"`
	SES      SESConfig     `yaml:"ses"`
	Resend   ResendConfig  `yaml:"resend"`
	TLS      TLSConfig     `yaml:"tls"`
	Logging  LoggingConfig `yaml:"logging"`

	// Message is only ever set from flags.
	Message MessageConfig `yaml:"-"`
}

// SMTPConfig holds the SMTP server and credentials.
type SMTPConfig struct {
	Server   string `yaml:"server"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MailConfig holds the sender and recipient list in "name:address" notation.
type MailConfig struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// SESConfig holds AWS SES v2 settings.
type SESConfig struct {
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// ResendConfig holds Resend API settings.
type ResendConfig struct {
	APIKey string `yaml:"api_key"`
}

// TLSConfig holds STARTTLS client settings.
type TLSConfig struct {
	CAFile             string `yaml:"ca_file"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// MessageConfig holds the message content. BodyHTML and AttachmentFile are nil
// when not given.
type MessageConfig struct {
	Subject        string
	Body           string
	BodyHTML       *string
	AttachmentFile *string
}

// AuthEnabled reports whether SMTP authentication should be attempted. Only
// an empty username together with an empty password disables it.
func (c *Config) AuthEnabled() bool {
	return c.SMTP.Username != "" || c.SMTP.Password != ""
}

// Defaults returns a Config populated with default values.
func Defaults() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadFile loads a YAML file on top of the defaults. The result is meant as
// the base layer for Resolve. Returns an error if the file cannot be read.
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// applyDefaults sets default values for all configuration fields.
func (c *Config) applyDefaults() {
	c.Provider = ProviderSMTP
	c.SMTP.Port = DefaultSMTPPort
	c.Logging.Level = "info"
}

// Flags carries command-line values. A nil pointer means the flag was not
// given; a non-nil pointer to "" is an explicit empty value.
type Flags struct {
	Provider   *string
	SMTPServer *string
	Port       *int
	Username   *string
	Password   *string
	From       *string
	To         *string
	TLSCAFile  *string
	LogLevel   *string

	Subject        string
	Body           string
	BodyHTML       *string
	AttachmentFile *string
}

// MissingError reports a required value that was given neither as a flag nor
// through its environment variable.
type MissingError struct {
	Var string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s: not provided by flag or environment", e.Var)
}

// Resolve overlays flags and the environment snapshot on base and validates
// that every value required by the selected provider is present. Precedence is
// flag, then environment variable, then a non-empty base value. Values are
// checked in a fixed order and the first missing one is reported.
func Resolve(base *Config, flags Flags, env Env) (*Config, error) {
	if base == nil {
		base = Defaults()
	}
	cfg := *base

	if v, ok := pick(flags.Provider, env, EnvProvider, cfg.Provider); ok {
		cfg.Provider = strings.ToLower(v)
	}
	if cfg.Provider == "" {
		cfg.Provider = ProviderSMTP
	}
	switch cfg.Provider {
	case ProviderSMTP, ProviderSES, ProviderResend, ProviderStdout:
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	smtp := cfg.Provider == ProviderSMTP
	fields := []struct {
		env      string
		flag     *string
		dst      *string
		required bool
	}{
		{EnvSMTPServer, flags.SMTPServer, &cfg.SMTP.Server, smtp},
		{EnvUsername, flags.Username, &cfg.SMTP.Username, smtp},
		{EnvPassword, flags.Password, &cfg.SMTP.Password, smtp},
		{EnvFrom, flags.From, &cfg.Mail.From, true},
		{EnvTo, flags.To, &cfg.Mail.To, true},
		{EnvTLSCAFile, flags.TLSCAFile, &cfg.TLS.CAFile, false},
		{EnvSESRegion, nil, &cfg.SES.Region, cfg.Provider == ProviderSES},
		{EnvSESAccessKeyID, nil, &cfg.SES.AccessKeyID, false},
		{EnvSESSecretKey, nil, &cfg.SES.SecretAccessKey, false},
		{EnvResendAPIKey, nil, &cfg.Resend.APIKey, cfg.Provider == ProviderResend},
	}
	for _, f := range fields {
		v, ok := pick(f.flag, env, f.env, *f.dst)
		if !ok {
			if f.required {
				return nil, &MissingError{Var: f.env}
			}
			continue
		}
		*f.dst = v
	}

	if flags.Port != nil {
		cfg.SMTP.Port = *flags.Port
	} else if v, ok := env.Lookup(EnvSMTPPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid port %q: %w", EnvSMTPPort, v, err)
		}
		cfg.SMTP.Port = port
	}
	if cfg.SMTP.Port <= 0 || cfg.SMTP.Port > 65535 {
		return nil, fmt.Errorf("smtp port out of range: %d", cfg.SMTP.Port)
	}

	if v, ok := env.Lookup(EnvTLSInsecure); ok && v != "" {
		insecure, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid boolean %q: %w", EnvTLSInsecure, v, err)
		}
		cfg.TLS.InsecureSkipVerify = insecure
	}

	if v, ok := pick(flags.LogLevel, env, EnvLogLevel, cfg.Logging.Level); ok {
		cfg.Logging.Level = strings.ToLower(v)
	}

	cfg.Message = MessageConfig{
		Subject:        flags.Subject,
		Body:           flags.Body,
		BodyHTML:       flags.BodyHTML,
		AttachmentFile: flags.AttachmentFile,
	}

	return &cfg, nil
}

// pick returns the flag value if given, else the environment value if present,
// else base if non-empty.
func pick(flag *string, env Env, key, base string) (string, bool) {
	if flag != nil {
		return *flag, true
	}
	if v, ok := env.Lookup(key); ok {
		return v, true
	}
	if base != "" {
		return base, true
	}
	return "", false
}
