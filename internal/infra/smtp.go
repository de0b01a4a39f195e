package infra

import (
	"fmt"
	"net/smtp"

	"carniceria/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending notification emails.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// SendHTML sends an HTML email to a single recipient. Authentication is only
// attempted when SMTP_USER is set, so local relays such as MailHog work as-is.
func (m *Mailer) SendHTML(to, subject, html string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.HTML = []byte(html)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	if err := e.Send(m.addr, auth); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", to, err)
	}
	return nil
}
