package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"
	"strings"
	"unicode"

	"github.com/ukuvago/themeboard/internal/config"
	"github.com/ukuvago/themeboard/internal/logger"
)

// EmailService delivers change notifications over SMTP.
type EmailService struct {
	config *config.Config
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{config: cfg, send: smtp.SendMail}
}

// EmailData contains common email template data
type EmailData struct {
	AppName string
	Subject string
	Event   Event
}

// NotificationTemplate is the HTML body of every change notification.
const NotificationTemplate = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">{{.Subject}}</h2>
  <div style="background-color: #f5f5f5; padding: 20px; border-radius: 5px; margin: 20px 0;">
    <p><strong>{{.Event.EntityType.Title}} Name:</strong> {{.Event.EntityName}}</p>
    {{if .Event.ProjectName}}<p><strong>Project:</strong> {{.Event.ProjectName}}</p>{{end}}
    <p><strong>Action:</strong> {{.Event.Action}}</p>
    <p>A {{.Event.EntityType}} has been {{.Event.Action.Lower}} in the system.</p>
  </div>
  <p style="color: #666; font-size: 12px;">
    This is an automated notification from the {{.AppName}}.
  </p>
</div>
`

var notificationTmpl = template.Must(template.New("notification").Parse(NotificationTemplate))

// Notify renders and sends the notification for e. Without SMTP credentials
// the email is logged and skipped.
func (s *EmailService) Notify(ctx context.Context, e Event) error {
	subject := fmt.Sprintf("%s %s: %s", e.EntityType.Title(), e.Action, e.EntityName)

	body, err := s.renderEmail(EmailData{Subject: subject, Event: e})
	if err != nil {
		return err
	}

	to := s.config.NotificationRecipient()
	if s.config.SMTPHost == "" || s.config.SMTPUser == "" || s.config.SMTPPassword == "" || to == "" {
		logger.Info().Str("subject", subject).Msg("Email not configured, skipping notification")
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return s.sendEmail(to, subject, body)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to, subject, body string) error {
	from := s.config.FromEmail
	auth := smtp.PlainAuth("", s.config.SMTPUser, s.config.SMTPPassword, s.config.SMTPHost)

	headers := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		headerValue(s.config.AppName), from, to, headerValue(subject))

	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	return s.send(addr, auth, from, []string{to}, []byte(headers+body))
}

// headerValue flattens control characters to spaces and encodes the result
// as an RFC 2047 word, so it always stays on its own header line.
func headerValue(value string) string {
	flat := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, value)
	return mime.QEncoding.Encode("utf-8", flat)
}

// renderEmail renders an email using the notification template
func (s *EmailService) renderEmail(data EmailData) (string, error) {
	data.AppName = s.config.AppName

	var buf bytes.Buffer
	if err := notificationTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
