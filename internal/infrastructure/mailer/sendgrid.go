package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendClient interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

// SendgridSender delivers through the SendGrid v3 mail API.
type SendgridSender struct {
	from      *sgmail.Email
	newClient func() sendClient
}

var _ Sender = (*SendgridSender)(nil)

func NewSendgridSender(apiKey string, from mail.Address) (*SendgridSender, error) {
	if apiKey == "" {
		return nil, errors.New("sendgrid: missing api key")
	}
	if from.Address == "" {
		return nil, errors.New("sendgrid: missing from address")
	}
	return &SendgridSender{
		from: sgmail.NewEmail(from.Name, from.Address),
		// sendgrid.Client keeps the request body on itself, so each send gets its own.
		newClient: func() sendClient { return sendgrid.NewSendClient(apiKey) },
	}, nil
}

func (s *SendgridSender) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.To.Name, msg.To.Address))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.Subject = msg.Subject
	m.AddPersonalizations(p)
	if msg.Text != "" {
		m.AddContent(sgmail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return m
}

func (s *SendgridSender) Send(ctx context.Context, msg Message) error {
	if !msg.HasRecipient() || !msg.HasContent() {
		return fmt.Errorf("sendgrid: %w", ErrEmptyMessage)
	}
	res, err := s.newClient().SendWithContext(ctx, s.prepare(msg))
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
