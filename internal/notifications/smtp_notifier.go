package notifications

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPNotifier sends the ticket email with the PDF attached. One attempt,
// no retries; the caller treats any error as a logged soft failure.
type SMTPNotifier struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (n *SMTPNotifier) SendTicket(ctx context.Context, in SendTicketInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", in.Email)
	m.SetHeader("Subject", "Your Ticket for "+in.EventTitle)

	body := fmt.Sprintf(
		"Hi %s,\n\nThank you for registering for %s.\nAttached is your ticket.\n\nSee you at the event!",
		in.Name, in.EventTitle,
	)
	m.SetBody("text/plain", body)

	if in.AttachmentPath != "" {
		m.Attach(in.AttachmentPath)
	}

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send ticket email: %w", err)
	}

	return nil
}
