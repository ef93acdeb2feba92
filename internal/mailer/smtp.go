package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/mail"
	"net/smtp"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/automail-service/internal/config"
	"github.com/example/automail-service/internal/models"
)

// SMTPOption configures the behaviour of the SMTP mailer.
type SMTPOption func(*SMTPMailer)

// WithTLSConfig overrides the TLS configuration used when negotiating STARTTLS.
func WithTLSConfig(cfg *tls.Config) SMTPOption {
	return func(m *SMTPMailer) {
		m.tlsConfig = cfg
	}
}

// WithDialer swaps the network dialer used to establish SMTP connections.
func WithDialer(d Dialer) SMTPOption {
	return func(m *SMTPMailer) {
		if d != nil {
			m.dialer = d
		}
	}
}

// WithAuth supplies a custom SMTP auth strategy. When omitted the mailer
// uses PLAIN auth with the configured credentials.
func WithAuth(auth smtp.Auth) SMTPOption {
	return func(m *SMTPMailer) {
		m.auth = auth
	}
}

// WithClock replaces the clock used for timestamps.
func WithClock(now func() time.Time) SMTPOption {
	return func(m *SMTPMailer) {
		if now != nil {
			m.now = now
		}
	}
}

// WithHelloName customises the EHLO/HELO identity presented to the server.
func WithHelloName(name string) SMTPOption {
	return func(m *SMTPMailer) {
		if strings.TrimSpace(name) != "" {
			m.helloName = strings.TrimSpace(name)
		}
	}
}

// Dialer abstracts net.Dialer to simplify testing.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// SMTPMailer delivers mail through a real SMTP server.
type SMTPMailer struct {
	logger    zerolog.Logger
	host      string
	port      int
	startTLS  bool
	auth      smtp.Auth
	tlsConfig *tls.Config
	dialer    Dialer
	now       func() time.Time
	helloName string
}

// NewSMTPMailer constructs a Mailer backed by an SMTP server.
func NewSMTPMailer(cfg config.SMTPConfig, logger zerolog.Logger, opts ...SMTPOption) (*SMTPMailer, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("smtp mailer: host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("smtp mailer: invalid port %d", cfg.Port)
	}

	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	m := &SMTPMailer{
		logger:    logger,
		host:      cfg.Host,
		port:      cfg.Port,
		startTLS:  cfg.StartTLS,
		dialer:    &net.Dialer{Timeout: 30 * time.Second},
		now:       time.Now,
		helloName: "localhost",
	}

	if strings.TrimSpace(cfg.User) != "" {
		m.auth = smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	}

	if cfg.StartTLS {
		m.tlsConfig = &tls.Config{
			ServerName: cfg.Host,
			MinVersion: tls.VersionTLS12,
		}
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	return m, nil
}

// Send delivers the rendered content to its recipient.
func (m *SMTPMailer) Send(ctx context.Context, id string, content *models.MailContent) (*Receipt, error) {
	if content == nil {
		return nil, errors.New("smtp mailer: content is required")
	}
	if strings.TrimSpace(content.RecipientEmail) == "" {
		return nil, errors.New("smtp mailer: recipient email is required")
	}
	if strings.TrimSpace(content.SenderEmail) == "" {
		return nil, errors.New("smtp mailer: sender email is required")
	}

	message := m.buildMessage(id, content)

	receipt := &Receipt{
		MessageID: id,
		Timestamp: m.now(),
	}

	if err := m.deliver(ctx, content.SenderEmail, content.RecipientEmail, message); err != nil {
		m.logger.Warn().
			Str("message_id", id).
			Str("recipient", content.RecipientEmail).
			Err(err).
			Msg("smtp delivery failed")
		return nil, err
	}

	receipt.Code = 250
	receipt.Detail = "smtp: message accepted"

	m.logger.Info().
		Str("message_id", id).
		Str("recipient", content.RecipientEmail).
		Msg("smtp delivery succeeded")
	return receipt, nil
}

func (m *SMTPMailer) deliver(ctx context.Context, from, rcpt string, message []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))
	conn, err := m.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp mailer: dial: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()
	defer close(done)

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return fmt.Errorf("smtp mailer: new client: %w", err)
	}
	defer client.Close()

	if err := client.Hello(m.helloName); err != nil {
		return fmt.Errorf("smtp mailer: hello: %w", err)
	}

	if cfg := m.sessionTLSConfig(); cfg != nil {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(cfg); err != nil {
				return fmt.Errorf("smtp mailer: starttls: %w", err)
			}
		}
	}

	if m.auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(m.auth); err != nil {
				return fmt.Errorf("smtp mailer: auth: %w", err)
			}
		}
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("smtp mailer: mail from: %w", err)
	}
	if err := client.Rcpt(rcpt); err != nil {
		return fmt.Errorf("smtp mailer: rcpt to %s: %w", rcpt, err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp mailer: data: %w", err)
	}

	if _, err := writer.Write(message); err != nil {
		_ = writer.Close()
		return fmt.Errorf("smtp mailer: data write: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("smtp mailer: data close: %w", err)
	}

	if err := client.Quit(); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("smtp mailer: quit: %w", err)
	}

	return ctx.Err()
}

func (m *SMTPMailer) buildMessage(id string, content *models.MailContent) []byte {
	from := mail.Address{Name: content.SenderName, Address: content.SenderEmail}
	to := mail.Address{Name: content.RecipientName, Address: content.RecipientEmail}

	var buf bytes.Buffer
	writeHeader := func(key, value string) {
		if value == "" {
			return
		}
		buf.WriteString(key)
		buf.WriteString(": ")
		buf.WriteString(sanitizeHeaderValue(value))
		buf.WriteString("\r\n")
	}

	writeHeader("From", from.String())
	writeHeader("To", to.String())
	writeHeader("Subject", content.Subject)
	writeHeader("Date", m.now().UTC().Format(time.RFC1123Z))
	if id != "" {
		writeHeader("Message-Id", "<"+id+"@"+m.helloName+">")
	}
	writeHeader("MIME-Version", "1.0")
	writeHeader("Content-Type", "text/plain; charset=UTF-8")
	buf.WriteString("\r\n")
	buf.WriteString(normalizeBody(content.Body))

	return buf.Bytes()
}

func (m *SMTPMailer) sessionTLSConfig() *tls.Config {
	if !m.startTLS || m.tlsConfig == nil {
		return nil
	}
	cfg := m.tlsConfig.Clone()
	if cfg.ServerName == "" {
		cfg.ServerName = m.host
	}
	return cfg
}

func normalizeBody(body string) string {
	if body == "" {
		return ""
	}
	normalized := strings.ReplaceAll(body, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.ReplaceAll(normalized, "\n", "\r\n")
}

func sanitizeHeaderValue(value string) string {
	clean := strings.ReplaceAll(value, "\r", " ")
	clean = strings.ReplaceAll(clean, "\n", " ")
	return strings.TrimSpace(clean)
}
