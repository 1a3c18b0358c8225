// internal/app/system/mailer/mailer.go
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Mailer sends transactional mail (password resets) over SMTP. It works
// unauthenticated against a local relay like Mailpit and with PLAIN auth
// against hosted SMTP endpoints.
type Mailer struct {
	host     string
	port     int
	user     string
	pass     string
	from     string
	fromName string
	log      *zap.Logger
}

// New builds a Mailer from SMTP settings.
func New(host string, port int, user, pass, from, fromName string, logger *zap.Logger) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		user:     user,
		pass:     pass,
		from:     from,
		fromName: fromName,
		log:      logger,
	}
}

// Send delivers a plain-text message to a single recipient.
func (m *Mailer) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", m.fromName, m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		m.log.Error("smtp send failed", zap.String("to", to), zap.Error(err))
		return err
	}
	return nil
}

// SendPasswordReset mails a reset link to the account's email.
func (m *Mailer) SendPasswordReset(to, resetURL string) error {
	body := fmt.Sprintf(
		"Someone requested a password reset for the ScienceBridge account using this address.\r\n\r\n"+
			"To choose a new password, open:\r\n\r\n    %s\r\n\r\n"+
			"If you did not request this, you can ignore this message.\r\n",
		resetURL)
	return m.Send(to, "Reset your ScienceBridge password", body)
}
