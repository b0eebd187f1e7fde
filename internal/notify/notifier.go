// Package notify delivers booking events to people and systems outside the
// API: email, the operator's Telegram chat and the AMQP event exchange.
package notify

import (
	"context"

	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain/models"
)

// Notifier delivers one kind of notification. Implementations may block;
// the Dispatcher runs them off the request path.
type Notifier interface {
	Name() string
	BookingCreated(ctx context.Context, b models.Booking) error
	StatusChanged(ctx context.Context, b models.Booking, status models.BookingStatus) error
	InvoiceIssued(ctx context.Context, b models.Booking, inv models.Invoice) error
	CallbackRequested(ctx context.Context, req models.CallbackRequest) error
}

const (
	EventBookingCreated    = "booking.created"
	EventStatusChanged     = "booking.status"
	EventInvoiceIssued     = "invoice.issued"
	EventCallbackRequested = "callback.requested"
)
