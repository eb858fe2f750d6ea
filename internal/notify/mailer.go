// Package notify sends user notifications.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/abhishek991-rag/PFM-Backend/internal/logger"
)

// Message is one outgoing email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer records messages in the structured log instead of delivering
// them. The recipient is redacted.
type LogMailer struct {
	log zerolog.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log.With().Str("component", "mailer").Logger()}
}

// Send logs msg.
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.Info().
		Str("to", logger.RedactEmail(msg.To)).
		Str("subject", msg.Subject).
		Str("body", logger.RedactNote(msg.Body)).
		Msg("Email sent")
	return nil
}

// WelcomeMessage is sent after registration.
func WelcomeMessage(name, email string) Message {
	return Message{
		To:      email,
		Subject: "Welcome to your finance tracker",
		Body: fmt.Sprintf("Hi %s, your account is ready. Start by adding your income, "+
			"expenses and a monthly budget.", name),
	}
}
