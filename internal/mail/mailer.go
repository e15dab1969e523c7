package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Config holds SMTP settings for outbound mail.
type Config struct {
	Host        string
	Port        string
	Username    string
	Password    string
	FromName    string
	FromAddress string
}

// SMTPMailer sends one-time codes over plain SMTP.
type SMTPMailer struct {
	cfg Config
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendOTP mails a verification code to the given address.
func (m *SMTPMailer) SendOTP(ctx context.Context, email, code string) error {
	subject := "Your Chatteree verification code"
	body := fmt.Sprintf("<p>Your verification code is <b>%s</b>. It expires in 10 minutes.</p>", code)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", m.cfg.FromName, m.cfg.FromAddress)
	fmt.Fprintf(&msg, "To: %s\r\n", email)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := smtp.SendMail(addr, auth, m.cfg.FromAddress, []string{email}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send otp mail: %w", err)
	}
	return nil
}
