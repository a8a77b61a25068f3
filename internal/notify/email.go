package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"subpay/config"
	"subpay/internal/domain"
)

// EmailAdapter sends plain-text mail over SMTP. Recipient is the target
// address.
type EmailAdapter struct {
	cfg config.SMTPConfig
}

func NewEmailAdapter(cfg config.SMTPConfig) *EmailAdapter {
	return &EmailAdapter{cfg: cfg}
}

func (a *EmailAdapter) Name() string { return domain.ChannelEmail }

func (a *EmailAdapter) IsConfigured() bool {
	return a.cfg.Host != "" && a.cfg.From != ""
}

func (a *EmailAdapter) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", a.cfg.FromName, a.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.Recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")

	addr := fmt.Sprintf("%s:%d", a.cfg.Host, a.cfg.Port)
	var auth smtp.Auth
	if a.cfg.Username != "" {
		auth = smtp.PlainAuth("", a.cfg.Username, a.cfg.Password, a.cfg.Host)
	}
	return smtp.SendMail(addr, auth, a.cfg.From, []string{msg.Recipient}, []byte(b.String()))
}
