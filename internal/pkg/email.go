package pkg

import (
	"crypto/tls"
	"fmt"
	"html"
	"strings"

	"github.com/disposable/disposable"
	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether enough settings exist to dial a server.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.Port > 0
}

// Mailer sends HTML mail through one SMTP dialer.
type Mailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewMailer(cfg SMTPConfig) *Mailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	return &Mailer{cfg: cfg, dialer: d}
}

// SendBcc delivers one message to all recipients without exposing the list.
func (m *Mailer) SendBcc(to []string, subject, htmlBody string) error {
	if len(to) == 0 {
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", m.cfg.From)
	msg.SetHeader("Bcc", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}

func AnnouncementHTML(clubName, title string) string {
	return fmt.Sprintf(`<p>Hello,</p><p><b>%s</b> posted a new announcement: <b>%s</b>.</p><p>Open the club page to read it.</p>`,
		html.EscapeString(clubName), html.EscapeString(title))
}

// IsDisposableEmail reports addresses on throwaway mail domains.
func IsDisposableEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	return disposable.Domain(strings.ToLower(email[at+1:]))
}
