package mailer

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/ceibcn/crm-api/pkg/config"
)

// Message describes one outgoing HTML email.
type Message struct {
	To         string
	Subject    string
	HTMLBody   string
	SenderMail string
	SenderName string
	BCC        []string
}

// Mailer delivers HTML mail through the configured SMTP relay.
type Mailer interface {
	Send(msg Message) error
}

// SMTPMailer is the production Mailer backed by gomail.
type SMTPMailer struct {
	dialer        *gomail.Dialer
	defaultSender string
	defaultName   string
}

// NewSMTPMailer constructs a mailer from SMTP configuration.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer:        gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		defaultSender: cfg.DefaultSender,
		defaultName:   cfg.DefaultName,
	}
}

// Send delivers a single message. BCC recipients receive the delivery without
// appearing in the headers.
func (m *SMTPMailer) Send(msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("recipient required")
	}

	sender := msg.SenderMail
	if sender == "" {
		sender = m.defaultSender
	}
	name := msg.SenderName
	if name == "" {
		name = m.defaultName
	}

	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", sender, name)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	if len(msg.BCC) > 0 {
		gm.SetHeader("Bcc", msg.BCC...)
	}
	gm.SetBody("text/html", msg.HTMLBody)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

// WrapHTML embeds the body in the fixed campaign layout shell.
func WrapHTML(body string) string {
	return `<!DOCTYPE html>
<html lang="es">
<head>
  <meta charset="utf-8">
</head>
<body style="margin:0;padding:0;background:#f5f5f5;">
  <table width="100%" cellpadding="0" cellspacing="0">
    <tr>
      <td align="center" style="padding:20px;">
        <table width="600" cellpadding="0" cellspacing="0" style="background:#ffffff;padding:24px;font-family:Arial,sans-serif;font-size:14px;color:#333;">
          <tr>
            <td>
` + body + `
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
}
