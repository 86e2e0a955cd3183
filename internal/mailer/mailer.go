// Package mailer delivers transactional email over SMTP.
package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	gomail "gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// Sender delivers rendered messages to an address. Implementations must
// report delivery failure to the caller; the triggering operation is
// expected to fail rather than pretend an email was sent.
type Sender interface {
	SendVerification(to, name, actionURL string) error
	SendPasswordReset(to, name, actionURL string) error
}

// SMTPSender sends mail through a single SMTP transport.
type SMTPSender struct {
	dialer    *gomail.Dialer
	from      string
	templates *template.Template
}

// NewSMTPSender constructs an SMTPSender. The transport is created once and
// shared; gomail dials per send.
func NewSMTPSender(host string, port int, username, password, from string) (*SMTPSender, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("mailer: parse templates: %w", err)
	}
	return &SMTPSender{
		dialer:    gomail.NewDialer(host, port, username, password),
		from:      from,
		templates: templates,
	}, nil
}

type mailData struct {
	Name      string
	ActionURL string
}

// SendVerification emails an account-verification link.
func (s *SMTPSender) SendVerification(to, name, actionURL string) error {
	if err := s.send(to, "Verify your account", "verification.html", mailData{Name: name, ActionURL: actionURL}); err != nil {
		return fmt.Errorf("mailer: send verification: %w", err)
	}
	return nil
}

// SendPasswordReset emails a password-reset link.
func (s *SMTPSender) SendPasswordReset(to, name, actionURL string) error {
	if err := s.send(to, "Reset Password", "password_reset.html", mailData{Name: name, ActionURL: actionURL}); err != nil {
		return fmt.Errorf("mailer: send password reset: %w", err)
	}
	return nil
}

func (s *SMTPSender) send(to, subject, templateName string, data mailData) error {
	body, err := s.render(templateName, data)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	return s.dialer.DialAndSend(m)
}

func (s *SMTPSender) render(name string, data mailData) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

var _ Sender = (*SMTPSender)(nil)
