package mocks

import (
	"context"
	"sync"

	"github.com/abhishek991-rag/PFM-Backend/internal/notify"
)

var _ notify.Mailer = (*Mailer)(nil)

// Mailer records sent messages.
type Mailer struct {
	mu   sync.RWMutex
	sent []notify.Message
	err  error
}

// NewMailer creates a Mailer that accepts every message.
func NewMailer() *Mailer {
	return &Mailer{}
}

// Send records msg unless FailWith was called.
func (m *Mailer) Send(_ context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// FailWith makes Send return err.
func (m *Mailer) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Sent returns a copy of every recorded message.
func (m *Mailer) Sent() []notify.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]notify.Message, len(m.sent))
	copy(out, m.sent)
	return out
}
