package mailer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Message is one outgoing HTML email
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a message. A failed send is returned to the caller as is.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers mail through an SMTP relay
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	log    *logrus.Logger
}

// NewSMTPSender creates a sender for host:port with plain auth
func NewSMTPSender(host string, port int, username, password, from string, log *logrus.Logger) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		log:    log,
	}
}

// Send dials the relay and sends msg in one attempt
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	s.log.WithFields(logrus.Fields{"to": msg.To, "subject": msg.Subject}).Info("📧 Mail sent")
	return nil
}
