package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/accounts-service/internal/config"
)

// Mailer sends account emails over SMTP.
type Mailer struct {
	cfg    config.MailConfig
	logger *zap.Logger

	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer builds a mailer from config. With no host configured the mailer
// logs and drops messages instead of failing the calling flow.
func NewMailer(cfg config.MailConfig, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger, send: smtp.SendMail}
}

// SendPasswordReset delivers the replacement password to the account owner.
func (m *Mailer) SendPasswordReset(ctx context.Context, recipient, newPassword string) error {
	if err := m.SendAccountNotice(ctx, recipient, "Reset Password", renderPasswordReset(newPassword)); err != nil {
		return fmt.Errorf("send password reset email: %w", err)
	}
	return nil
}

// SendAccountNotice delivers a one-off informational email to an account
// owner, such as a welcome or deactivation notice.
func (m *Mailer) SendAccountNotice(_ context.Context, recipient, subject, htmlBody string) error {
	if m.cfg.Host == "" {
		m.logger.Warn("mail host not configured; dropping email",
			zap.String("recipient", recipient),
			zap.String("subject", subject))
		return nil
	}

	msg := buildMessage(m.cfg.From, recipient, subject, htmlBody)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := m.send(addr, auth, m.cfg.From, []string{recipient}, msg); err != nil {
		return fmt.Errorf("send email %q: %w", subject, err)
	}

	m.logger.Info("email sent", zap.String("recipient", recipient), zap.String("subject", subject))
	return nil
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

func renderPasswordReset(newPassword string) string {
	return fmt.Sprintf(
		"<html><body><p>Your password has been reset.</p><p>New password: <b>%s</b></p><p>Please sign in and change it immediately.</p></body></html>",
		newPassword,
	)
}
