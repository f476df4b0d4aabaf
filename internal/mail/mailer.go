package mail

import (
	"fmt"
	"net/smtp"

	"reviewhub/internal/config"
)

const confirmationSubject = "Registration confirmation"

// Mailer dispatches confirmation codes. Delivery is synchronous: a failed
// send fails the signup request that triggered it.
type Mailer interface {
	SendConfirmationCode(to, code string) error
}

// SMTPMailer implements Mailer over plain SMTP.
type SMTPMailer struct {
	addr string
	from string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		from: cfg.MailFrom,
	}
}

func (m *SMTPMailer) SendConfirmationCode(to, code string) error {
	msg := buildMessage(m.from, to, confirmationSubject, fmt.Sprintf("Your code: %s", code))
	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	return []byte("From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body + "\r\n")
}
