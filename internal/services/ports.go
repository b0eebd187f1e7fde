package services

import (
	"context"
	"time"

	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain/models"
)

// BookingStore persists bookings. Implementations return
// domain.NotFoundError for unmatched ids and domain.DependencyError for
// storage failures.
type BookingStore interface {
	CreateBooking(ctx context.Context, b models.Booking) error
	ListBookings(ctx context.Context) ([]models.Booking, error)
	GetBooking(ctx context.Context, id string) (models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus, at time.Time) (models.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}

// InvoiceStore persists invoices with their line items.
type InvoiceStore interface {
	CreateInvoice(ctx context.Context, inv models.Invoice) error
	ListInvoices(ctx context.Context) ([]models.Invoice, error)
	ListInvoicesByBooking(ctx context.Context, bookingID string) ([]models.Invoice, error)
	GetInvoice(ctx context.Context, id string) (models.Invoice, error)
	UpdateInvoicePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, method string, at time.Time) (models.Invoice, error)
}

// Notifier is fire-and-forget: calls return immediately and delivery
// failures never reach the caller.
type Notifier interface {
	BookingCreated(ctx context.Context, b models.Booking)
	StatusChanged(ctx context.Context, b models.Booking, status models.BookingStatus)
	InvoiceIssued(ctx context.Context, b models.Booking, inv models.Invoice)
	CallbackRequested(ctx context.Context, req models.CallbackRequest)
}

// Throttle allows one action per key within its window.
type Throttle interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Clock returns the current time; tests pin it.
type Clock func() time.Time

type nopNotifier struct{}

func (nopNotifier) BookingCreated(context.Context, models.Booking) {}
func (nopNotifier) StatusChanged(context.Context, models.Booking, models.BookingStatus) {}
func (nopNotifier) InvoiceIssued(context.Context, models.Booking, models.Invoice) {}
func (nopNotifier) CallbackRequested(context.Context, models.CallbackRequest) {}

type allowAll struct{}

func (allowAll) Allow(context.Context, string) (bool, error) { return true, nil }
