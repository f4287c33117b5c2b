// Package notify delivers join codes to organization admins over SMTP.
// Mail is best-effort: a send failure is logged, never surfaced to the
// request that triggered it.
package notify

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/teamworkhq/teamwork/internal/logger"
)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
	Log    *logger.Logger
}

// NewMailer builds a mailer from MAIL_* environment variables. When
// MAIL_HOST is unset the mailer is disabled and every send is a no-op.
func NewMailer() *Mailer {
	m := &Mailer{Log: logger.NewLogger("mailer")}

	host := os.Getenv("MAIL_HOST")
	if host == "" {
		return m
	}

	port, err := strconv.Atoi(os.Getenv("MAIL_PORT"))
	if err != nil {
		m.Log.Warn("Invalid MAIL_PORT, mail disabled", "error", err)
		return m
	}

	m.from = os.Getenv("MAIL_USER")
	m.dialer = gomail.NewDialer(host, port, m.from, os.Getenv("MAIL_PASS"))
	return m
}

// Enabled reports whether SMTP is configured.
func (m *Mailer) Enabled() bool {
	return m.dialer != nil
}

// SendJoinCode mails a freshly issued organization code to its admin.
func (m *Mailer) SendJoinCode(to, orgName, code string, expiresAt time.Time) {
	if !m.Enabled() {
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Your %s join code", orgName))
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Your organization code for <b>%s</b> is <code>%s</code>.</p>"+
			"<p>Share it with your team members. It is valid until %s.</p>",
		orgName, code, expiresAt.Format("January 2, 2006"),
	))

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.Log.Error("Failed to send join code mail", "error", err, "to", to)
	}
}
