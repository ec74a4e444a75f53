package mailer

import (
	"context"
	"errors"
	"net/mail"
)

// ErrEmptyMessage is returned by every Sender for a message without a
// recipient or a body.
var ErrEmptyMessage = errors.New("message has no recipient or content")

// Message is one rendered email addressed to a single recipient.
type Message struct {
	To      mail.Address
	Subject string
	Text    string
	HTML    string
}

func (m Message) HasRecipient() bool { return m.To.Address != "" }
func (m Message) HasContent() bool   { return m.Text != "" || m.HTML != "" }

// Sender delivers messages. Implementations are constructed once at startup
// and passed to the components that notify applicants.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
