// Package mail sends document emails over SMTP.
package mail

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// Message is one outbound email. Attachments are paths of files already
// written to disk.
type Message struct {
	Subject     string
	To          []string
	Body        string
	Attachments []string
}

// Mailer delivers a message or returns an error; there are no retries at
// this layer.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends through a single SMTP account (STARTTLS on the standard
// submission port in practice; the dialer negotiates based on port).
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, username: username, password: password, from: from}
}

// Configured reports whether credentials are present. An unconfigured mailer
// fails sends instead of silently dropping them.
func (m *SMTPMailer) Configured() bool {
	return m.host != "" && m.username != "" && m.password != ""
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !m.Configured() {
		return fmt.Errorf("smtp not configured")
	}
	em := gomail.NewMessage()
	em.SetHeader("From", m.from)
	em.SetHeader("To", msg.To...)
	em.SetHeader("Subject", msg.Subject)
	em.SetBody("text/plain", msg.Body)
	for _, path := range msg.Attachments {
		em.Attach(path)
	}
	d := gomail.NewDialer(m.host, m.port, m.username, m.password)
	if err := d.DialAndSend(em); err != nil {
		return fmt.Errorf("send mail to %v: %w", msg.To, err)
	}
	return nil
}
