package mailer

import (
	"fmt"      // Message formatting
	"net/smtp" // SMTP client

	"expense_tracker/internal/config" // Application configuration

	"github.com/sirupsen/logrus" // Logging library
)

// Mailer sends plain-text mail over SMTP. Without SMTP credentials it
// runs in dev mode and only logs the message.
type Mailer struct {
	host      string
	port      string
	user      string
	pass      string
	fromName  string
	fromEmail string
}

// New builds a Mailer from the application configuration
func New(cfg *config.Config) *Mailer {
	fromName := cfg.FromName
	if fromName == "" {
		fromName = "Expense Tracker"
	}
	fromEmail := cfg.FromEmail
	if fromEmail == "" {
		fromEmail = "noreply@expensetracker.com"
	}
	return &Mailer{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		user:      cfg.SMTPUser,
		pass:      cfg.SMTPPass,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// Send delivers a plain-text message to a single recipient
func (m *Mailer) Send(to, subject, body string) error {
	// Dev mode: no credentials configured, log instead of sending
	if m.user == "" || m.pass == "" {
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
			"body":    body,
		}).Info("Email simulation (no SMTP credentials configured)")
		return nil
	}
	msg := []byte("From: " + m.fromName + " <" + m.fromEmail + ">\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body + "\r\n")
	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	return smtp.SendMail(addr, auth, m.fromEmail, []string{to}, msg)
}
