// Package mailer sends notification emails over SMTP and composes the
// owner/requester messages for accepted quote requests.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/msplaco/quote-api/internal/config"
	"go.uber.org/zap"
)

// Message is a single outbound plain-text email
type Message struct {
	To      string
	Subject string
	Body    string
	ReplyTo string
}

// Sender delivers a single message. Implementations may fail; callers
// decide whether the failure is fatal.
type Sender interface {
	Send(msg Message) error
}

// SMTPMailer sends mail through a configured SMTP relay.
// With no host configured it logs messages instead of sending, so
// development environments work without a mail account.
type SMTPMailer struct {
	cfg    *config.MailConfig
	logger *zap.Logger
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(cfg *config.MailConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Enabled reports whether a mail relay is configured
func (m *SMTPMailer) Enabled() bool {
	return m.cfg.Host != ""
}

// Send delivers one plain-text message through the relay
func (m *SMTPMailer) Send(msg Message) error {
	if !m.Enabled() {
		m.logger.Info("mail disabled, message not sent",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
		)
		return nil
	}
	if m.cfg.Username == "" || m.cfg.Password == "" {
		return fmt.Errorf("mail relay %s configured without credentials", m.cfg.Host)
	}

	from := m.cfg.FromEmail
	headers := []string{
		fmt.Sprintf("From: %s <%s>", m.cfg.FromName, from),
		fmt.Sprintf("To: %s", msg.To),
		fmt.Sprintf("Subject: %s", msg.Subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
	}
	if msg.ReplyTo != "" {
		headers = append(headers, fmt.Sprintf("Reply-To: %s", msg.ReplyTo))
	}

	data := strings.Join(headers, "\r\n") + "\r\n\r\n" + msg.Body + "\r\n"

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := smtp.SendMail(addr, auth, from, []string{msg.To}, []byte(data)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
