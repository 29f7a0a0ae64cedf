package mailer

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Mailer dispatches a single email. Implementations must respect ctx so a
// slow transport cannot hang the request that triggered the dispatch.
type Mailer interface {
	Send(ctx context.Context, toEmail, subject, htmlBody string) error
}

// Message is a dispatched email captured by the Memory mailer.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Memory records dispatched emails instead of sending them. Used in tests.
type Memory struct {
	mu       sync.Mutex
	messages []Message
	// FailWith, when set, makes every Send return this error.
	FailWith error
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Send(_ context.Context, toEmail, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	m.messages = append(m.messages, Message{To: toEmail, Subject: subject, Body: htmlBody})
	return nil
}

func (m *Memory) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// LogMailer logs emails instead of sending them, for development setups
// without mail credentials.
type LogMailer struct {
	logger *zap.SugaredLogger
}

func NewLogMailer(logger *zap.SugaredLogger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (l *LogMailer) Send(_ context.Context, toEmail, subject, htmlBody string) error {
	l.logger.Infow("email dispatch skipped (no mail credentials)",
		"to", toEmail,
		"subject", subject,
		"body", htmlBody,
	)
	return nil
}
