package mail

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/skillorbit/skillorbit/services/logging"
	"github.com/skillorbit/skillorbit/services/metrics"
	"go.uber.org/zap"
)

// Dispatcher sends mail fire-and-forget: each send runs in its own goroutine and
// failures, including panics, are logged and counted but never returned to the caller.
type Dispatcher struct {
	sender  Sender
	logger  *logging.Service
	metrics *metrics.Service
	timeout time.Duration

	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool
}

func NewDispatcher(sender Sender, timeout time.Duration, logger *logging.Service, m *metrics.Service) *Dispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{
		sender:  sender,
		logger:  logger,
		metrics: m,
		timeout: timeout,
	}
}

func (d *Dispatcher) Dispatch(templateName, to, subject string, data TemplateData) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Warn("mail dispatcher is shut down, dropping message",
			zap.String("template", templateName))
		d.metrics.RecordMail(templateName, "dropped")
		return
	}

	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("mail send panicked",
					zap.String("template", templateName),
					zap.String("panic", fmt.Sprint(r)))
				d.metrics.RecordMail(templateName, metrics.OutcomeFailure)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.sender.SendTemplate(ctx, templateName, to, subject, data); err != nil {
			d.logger.Error("failed to send email",
				zap.String("template", templateName),
				zap.Error(err))
			d.metrics.RecordMail(templateName, metrics.OutcomeFailure)
			return
		}
		d.metrics.RecordMail(templateName, metrics.OutcomeSuccess)
	}()
}

// Shutdown stops accepting new messages and waits for in-flight sends or ctx, whichever ends first.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		d.logger.Warn("mail drain interrupted", zap.Error(ctx.Err()))
		return ctx.Err()
	}
}
