package notifier

import (
	"fmt"
	"net/smtp"
	"os"
	"strconv"
	"strings"
)

// SMTPSender delivers mail over plain SMTP.
type SMTPSender struct {
	Host     string
	Port     int
	User     string
	Password string
}

// NewSMTPSenderFromEnv builds a sender from SMTP_HOST, SMTP_PORT, SMTP_USER
// and SMTP_PASSWORD. Port defaults to 587.
func NewSMTPSenderFromEnv() *SMTPSender {
	port := 587

	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}

	return &SMTPSender{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		User:     os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
	}
}

func (s *SMTPSender) Send(subject, body, from string, recipients []string) error {
	if s.Host == "" {
		return fmt.Errorf("smtp host is not configured")
	}

	msg := fmt.Sprintf("From: %s\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(recipients, ","))
	msg += fmt.Sprintf("Subject: %s\r\n", subject)
	msg += "MIME-Version: 1.0\r\n"
	msg += "Content-Type: text/plain; charset=\"UTF-8\"\r\n"
	msg += "\r\n"
	msg += body

	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Password, s.Host)
	}

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

	return smtp.SendMail(addr, auth, from, recipients, []byte(msg))
}
