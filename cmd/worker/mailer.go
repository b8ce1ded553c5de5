package main

import (
	"context"
	"fmt"

	mail "github.com/wneessen/go-mail"
)

// SMTPMailer sends order confirmations over SMTP.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

// NewSMTPMailer dials nothing up front; the connection is established per
// send by DialAndSend.
func NewSMTPMailer(host string, port int, user, pass, from string) (*SMTPMailer, error) {
	opts := []mail.Option{mail.WithPort(port)}
	if user != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(user),
			mail.WithPassword(pass),
		)
	}
	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: from}, nil
}

func (m *SMTPMailer) SendOrderConfirmation(ctx context.Context, to, orderID string, total float64) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	msg.Subject(fmt.Sprintf("Order %s confirmed", orderID))
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Thanks for your order!\n\nOrder %s is confirmed. Total charged: $%.2f.\n", orderID, total))

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send confirmation: %w", err)
	}
	return nil
}
