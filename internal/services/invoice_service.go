package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain/models"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/utils"
)

type InvoiceService struct {
	Bookings BookingStore
	Invoices InvoiceStore
	Notifier Notifier
	Log      logrus.FieldLogger
	Now      Clock
}

func (s InvoiceService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return utils.NowUTC()
}

func (s InvoiceService) notifier() Notifier {
	if s.Notifier != nil {
		return s.Notifier
	}
	return nopNotifier{}
}

// CreateFromBooking issues a new invoice for a stored booking. Every call
// issues another invoice.
func (s InvoiceService) CreateFromBooking(ctx context.Context, bookingID string) (models.Invoice, error) {
	bookingID = utils.TrimOrEmpty(bookingID)
	if bookingID == "" {
		return models.Invoice{}, domain.ValidationError{Field: "bookingId", Msg: "is required"}
	}
	b, err := s.Bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return models.Invoice{}, err
	}
	return s.Issue(ctx, b)
}

// Issue builds, stores and announces an invoice for b.
func (s InvoiceService) Issue(ctx context.Context, b models.Booking) (models.Invoice, error) {
	inv, err := domain.BuildInvoice(b, utils.NewID(utils.InvoiceIDPrefix), s.now())
	if err != nil {
		return models.Invoice{}, err
	}
	if err := s.Invoices.CreateInvoice(ctx, inv); err != nil {
		return models.Invoice{}, err
	}

	utils.LogEvent(s.Log, utils.RequestIDFrom(ctx), "invoice", "issue",
		fmt.Sprintf("invoice %s for booking %s total %s", inv.ID, b.ID, utils.FormatRand(inv.Total)))
	s.notifier().InvoiceIssued(ctx, b, inv)
	return inv, nil
}

func (s InvoiceService) List(ctx context.Context) ([]models.Invoice, error) {
	return s.Invoices.ListInvoices(ctx)
}

func (s InvoiceService) ListByBooking(ctx context.Context, bookingID string) ([]models.Invoice, error) {
	bookingID = utils.TrimOrEmpty(bookingID)
	if bookingID == "" {
		return nil, domain.ValidationError{Field: "bookingId", Msg: "is required"}
	}
	return s.Invoices.ListInvoicesByBooking(ctx, bookingID)
}

func (s InvoiceService) Get(ctx context.Context, id string) (models.Invoice, error) {
	id = utils.TrimOrEmpty(id)
	if id == "" {
		return models.Invoice{}, domain.ValidationError{Field: "id", Msg: "is required"}
	}
	return s.Invoices.GetInvoice(ctx, id)
}

// UpdatePaymentStatus records settlement. An empty method keeps the stored
// one.
func (s InvoiceService) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, method string) (models.Invoice, error) {
	id = utils.TrimOrEmpty(id)
	status = models.PaymentStatus(strings.ToLower(utils.TrimOrEmpty(string(status))))
	method = utils.TrimOrEmpty(method)
	if id == "" {
		return models.Invoice{}, domain.ValidationError{Field: "id", Msg: "is required"}
	}
	if !status.Valid() {
		return models.Invoice{}, domain.ValidationError{Field: "paymentStatus", Msg: "must be one of unpaid, paid, overdue"}
	}
	if len(method) > 64 {
		return models.Invoice{}, domain.ValidationError{Field: "paymentMethod", Msg: "must be at most 64 characters"}
	}

	inv, err := s.Invoices.UpdateInvoicePaymentStatus(ctx, id, status, method, s.now())
	if err != nil {
		return models.Invoice{}, err
	}
	utils.LogEvent(s.Log, utils.RequestIDFrom(ctx), "invoice", "update_payment_status",
		fmt.Sprintf("invoice %s marked %s", id, status))
	return inv, nil
}
