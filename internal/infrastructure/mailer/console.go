package mailer

import (
	"context"
	"net/mail"
	"sync"

	"github.com/labstack/gommon/log"
)

type infoLogger interface {
	Infoj(j log.JSON)
}

// ConsoleSender logs messages instead of delivering them and keeps a copy
// of each one. Used for local runs and tests.
type ConsoleSender struct {
	from   mail.Address
	logger infoLogger

	mu   sync.Mutex
	sent []Message
}

var _ Sender = (*ConsoleSender)(nil)

func NewConsoleSender(from mail.Address, logger infoLogger) *ConsoleSender {
	return &ConsoleSender{from: from, logger: logger}
}

func (s *ConsoleSender) Send(_ context.Context, msg Message) error {
	if !msg.HasRecipient() || !msg.HasContent() {
		return ErrEmptyMessage
	}
	if s.logger != nil {
		s.logger.Infoj(log.JSON{
			"msg":     "email",
			"from":    s.from.String(),
			"to":      msg.To.String(),
			"subject": msg.Subject,
			"text":    msg.Text,
		})
	}
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()
	return nil
}

func (s *ConsoleSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}

func (s *ConsoleSender) Reset() {
	s.mu.Lock()
	s.sent = nil
	s.mu.Unlock()
}
