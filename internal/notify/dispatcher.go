package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain/models"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/utils"
)

const defaultTimeout = 30 * time.Second

// ErrorHandler receives delivery failures. It must be safe for concurrent
// use.
type ErrorHandler func(ctx context.Context, notifier, event string, err error)

// Dispatcher fans each event out to every notifier in its own goroutine and
// returns immediately. Failures go to the error handler and are not retried.
type Dispatcher struct {
	notifiers []Notifier
	timeout   time.Duration
	onError   ErrorHandler

	wg sync.WaitGroup
}

func NewDispatcher(log logrus.FieldLogger, timeout time.Duration, notifiers ...Notifier) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	active := make([]Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			active = append(active, n)
		}
	}
	return &Dispatcher{
		notifiers: active,
		timeout:   timeout,
		onError:   logErrors(log),
	}
}

// OnError replaces the error handler.
func (d *Dispatcher) OnError(h ErrorHandler) {
	if h != nil {
		d.onError = h
	}
}

// Names lists the active notifiers.
func (d *Dispatcher) Names() []string {
	out := make([]string, 0, len(d.notifiers))
	for _, n := range d.notifiers {
		out = append(out, n.Name())
	}
	return out
}

func (d *Dispatcher) BookingCreated(ctx context.Context, b models.Booking) {
	d.fanOut(ctx, EventBookingCreated, func(ctx context.Context, n Notifier) error {
		return n.BookingCreated(ctx, b)
	})
}

func (d *Dispatcher) StatusChanged(ctx context.Context, b models.Booking, status models.BookingStatus) {
	d.fanOut(ctx, EventStatusChanged, func(ctx context.Context, n Notifier) error {
		return n.StatusChanged(ctx, b, status)
	})
}

func (d *Dispatcher) InvoiceIssued(ctx context.Context, b models.Booking, inv models.Invoice) {
	d.fanOut(ctx, EventInvoiceIssued, func(ctx context.Context, n Notifier) error {
		return n.InvoiceIssued(ctx, b, inv)
	})
}

func (d *Dispatcher) CallbackRequested(ctx context.Context, req models.CallbackRequest) {
	d.fanOut(ctx, EventCallbackRequested, func(ctx context.Context, n Notifier) error {
		return n.CallbackRequested(ctx, req)
	})
}

// Wait blocks until in-flight deliveries finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) fanOut(ctx context.Context, event string, call func(context.Context, Notifier) error) {
	// the request context is cancelled as soon as the response is written
	base := context.WithoutCancel(ctx)
	for _, n := range d.notifiers {
		d.wg.Add(1)
		go func(n Notifier) {
			defer d.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					d.onError(base, n.Name(), event, fmt.Errorf("panic: %v", r))
				}
			}()

			runCtx, cancel := context.WithTimeout(base, d.timeout)
			defer cancel()
			if err := call(runCtx, n); err != nil {
				d.onError(base, n.Name(), event, err)
			}
		}(n)
	}
}

func logErrors(log logrus.FieldLogger) ErrorHandler {
	if log == nil {
		log = utils.DiscardLogger()
	}
	return func(ctx context.Context, notifier, event string, err error) {
		log.WithFields(logrus.Fields{
			"module":     "NOTIFY",
			"notifier":   notifier,
			"event":      event,
			"request_id": utils.RequestIDFrom(ctx),
		}).WithError(err).Error("notification failed")
	}
}
