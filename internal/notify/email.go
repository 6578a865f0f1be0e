package notify

import (
	"bytes"
	"context"
	"net"
	"strings"
	"time"

	"bizgenie_backend/platform/config"
	"bizgenie_backend/platform/logger"

	gomail "github.com/wneessen/go-mail"
)

// Attachment is a file attached to an outgoing email.
type Attachment struct {
	FileName string
	MIMEType string
	Content  []byte
}

// EmailMessage is a single outgoing email.
type EmailMessage struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// EmailSender delivers email messages.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) Result
}

// SMTPSender implements EmailSender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	cfg config.SMTPConfig
	log *logger.Logger
}

// NewSMTPSender creates an SMTP email sender.
func NewSMTPSender(cfg config.SMTPConfig, log *logger.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, log: log}
}

// Send delivers the message. Missing configuration yields a failed Result,
// never an error.
func (s *SMTPSender) Send(ctx context.Context, msg EmailMessage) Result {
	if !s.cfg.IsEmailEnabled() {
		return Failed("email sending is disabled")
	}
	if s.cfg.GetSMTPHost() == "" || s.cfg.GetSMTPUsername() == "" || s.cfg.GetSMTPPassword() == "" {
		return Failed("smtp credentials not configured")
	}
	if strings.TrimSpace(msg.To) == "" {
		return Failed("missing recipient email address")
	}

	mail := gomail.NewMsg()
	if err := mail.FromFormat(s.cfg.GetEmailFromName(), s.cfg.GetEmailFromAddress()); err != nil {
		return Failed("invalid sender address: " + err.Error())
	}
	if err := mail.To(msg.To); err != nil {
		return Failed("invalid recipient address: " + err.Error())
	}
	mail.Subject(msg.Subject)
	mail.SetBodyString(gomail.TypeTextPlain, msg.Body)

	for _, att := range msg.Attachments {
		mail.AttachReader(att.FileName, bytes.NewReader(att.Content))
	}

	client, err := gomail.NewClient(s.cfg.GetSMTPHost(),
		gomail.WithPort(s.cfg.GetSMTPPort()),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.GetSMTPUsername()),
		gomail.WithPassword(s.cfg.GetSMTPPassword()),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return Failed("smtp client: " + err.Error())
	}

	if err := client.DialAndSendWithContext(ctx, mail); err != nil {
		if s.log != nil {
			s.log.Warn("email delivery failed", "to", msg.To, "error", err.Error())
		}
		return Failed("smtp send: " + err.Error())
	}

	return Ok("email sent").WithDetail("to", msg.To)
}
