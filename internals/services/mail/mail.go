// Package mail sends outbound notifications. SendGrid is used when an API
// key is configured; otherwise messages are only logged.
package mail

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

type Address struct {
	Name  string
	Email string
}

type Message struct {
	To      []Address
	Subject string
	Text    string
	HTML    string
}

func (m Message) HasRecipients() bool { return len(m.To) > 0 }

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New picks SendGrid when apiKey is set.
func New(apiKey, fromName, fromEmail string) Mailer {
	if apiKey == "" {
		logrus.WithField("component", "mail").Info("SENDGRID_API_KEY not set, using console mailer")
		return NewConsoleMailer()
	}
	return NewSendgridMailer(apiKey, fromName, fromEmail)
}

// ConsoleMailer logs every message and keeps a copy.
type ConsoleMailer struct {
	mu   sync.Mutex
	sent []Message
}

func NewConsoleMailer() *ConsoleMailer { return &ConsoleMailer{} }

func (m *ConsoleMailer) Send(_ context.Context, msg Message) error {
	to := make([]string, 0, len(msg.To))
	for _, a := range msg.To {
		to = append(to, a.Email)
	}
	logrus.WithFields(logrus.Fields{"component": "mail", "to": to}).Info(msg.Subject)

	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	return nil
}

func (m *ConsoleMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.sent...)
}
