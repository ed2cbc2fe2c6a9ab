package mailer

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/mail.v2"
)

var ErrMissingSMTPHost = errors.New("smtp host is required")

type dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type SMTPMailer struct {
	fromEmail string
	dialer    dialer
	backoff   time.Duration
}

func NewSMTPMailer(host string, port int, username, password, fromEmail string) (*SMTPMailer, error) {
	if host == "" {
		return nil, ErrMissingSMTPHost
	}

	d := mail.NewDialer(host, port, username, password)
	d.Timeout = 10 * time.Second

	return &SMTPMailer{
		fromEmail: fromEmail,
		dialer:    d,
		backoff:   time.Second,
	}, nil
}

func (m *SMTPMailer) Send(templateFile, username, email string, data any) error {
	subject, body, err := Render(templateFile, data)
	if err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetAddressHeader("From", m.fromEmail, FromName)
	msg.SetAddressHeader("To", email, username)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		if lastErr = m.dialer.DialAndSend(msg); lastErr == nil {
			return nil
		}
		// linear backoff
		time.Sleep(m.backoff * time.Duration(i+1))
	}

	return fmt.Errorf("failed to send email after %d attempts, error: %w", maxRetries, lastErr)
}
