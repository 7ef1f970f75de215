package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"os"
	"strings"
)

// SMTPMailer sends transactional mail over plain SMTP. The defaults match
// a Gmail app-password setup.
type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func NewFromEnv() *SMTPMailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = os.Getenv("GMAIL_USER")
	}
	return &SMTPMailer{
		Host:     host,
		Port:     port,
		Username: os.Getenv("GMAIL_USER"),
		Password: os.Getenv("GMAIL_APP_PASSWORD"),
		From:     from,
	}
}

// SendResetEmail delivers the password-reset link. The context is accepted
// for interface symmetry; net/smtp has no cancellation hook.
func (m *SMTPMailer) SendResetEmail(_ context.Context, to, name, link string) error {
	if m.Username == "" || m.Password == "" {
		return errors.New("mailer is not configured")
	}

	greeting := "Hi,"
	if strings.TrimSpace(name) != "" {
		greeting = "Hi " + name + ","
	}

	body := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: Reset your JobSync password",
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		"<p>" + greeting + "</p>",
		"<p>You requested a password reset. Click the link below to set a new password:</p>",
		fmt.Sprintf(`<p><a href="%s">%s</a></p>`, link, link),
		"<p>If you didn't request this, you can ignore this email.</p>",
	}, "\r\n")

	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	return smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, []byte(body))
}
