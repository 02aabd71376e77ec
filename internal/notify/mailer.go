package notify

import (
	"context"
	"log/slog"
	"math/rand"
	"time"
)

// Mailer delivers order-confirmation mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer simulates delivery: it sleeps a randomized latency in place of a
// provider round trip and logs the mail instead of sending it.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, to, subject, _ string) error {
	delay := time.Duration(50+rand.Intn(151)) * time.Millisecond
	time.Sleep(delay)

	m.logger.Info("email sent", "to", to, "subject", subject)
	return nil
}
