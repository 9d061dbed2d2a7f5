package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

var _ Mailer = &AsyncMailer{}

// AsyncMailer hands every message to a background goroutine and returns immediately.
// Delivery failures are logged. Close waits for in-flight messages.
type AsyncMailer struct {
	mailer Mailer
	wg     sync.WaitGroup
}

func NewAsyncMailer(mailer Mailer) *AsyncMailer {
	return &AsyncMailer{mailer: mailer}
}

func (m *AsyncMailer) SendPlain(to []string, subject, body string) error {
	m.dispatch(subject, func() error {
		return m.mailer.SendPlain(to, subject, body)
	})
	return nil
}

func (m *AsyncMailer) SendHTML(to []string, subject, tmplName string, data map[string]string) error {
	m.dispatch(subject, func() error {
		return m.mailer.SendHTML(to, subject, tmplName, data)
	})
	return nil
}

func (m *AsyncMailer) dispatch(subject string, send func() error) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := send(); err != nil {
			slog.Error("failed to send email", "subject", subject, "reason", err)
		}
	}()
}

// Close blocks until every pending message is handed off or ctx is done.
func (m *AsyncMailer) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for pending emails: %w", ctx.Err())
	}
}
