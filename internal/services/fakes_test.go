package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain/models"
)

type memStore struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
	invoices map[string]models.Invoice
	failNext error
}

func newMemStore() *memStore {
	return &memStore{bookings: map[string]models.Booking{}, invoices: map[string]models.Invoice{}}
}

func (m *memStore) takeErr() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *memStore) CreateBooking(_ context.Context, b models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return err
	}
	m.bookings[b.ID] = b
	return nil
}

func (m *memStore) ListBookings(context.Context) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Booking{}
	for _, b := range m.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) GetBooking(_ context.Context, id string) (models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", ID: id}
	}
	return b, nil
}

func (m *memStore) UpdateBookingStatus(_ context.Context, id string, status models.BookingStatus, at time.Time) (models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", ID: id}
	}
	b.Status = status
	b.UpdatedAt = &at
	m.bookings[id] = b
	return b, nil
}

func (m *memStore) DeleteBooking(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return domain.NotFoundError{Resource: "booking", ID: id}
	}
	delete(m.bookings, id)
	return nil
}

func (m *memStore) CreateInvoice(_ context.Context, inv models.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return err
	}
	m.invoices[inv.ID] = inv
	return nil
}

func (m *memStore) ListInvoices(context.Context) ([]models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Invoice{}
	for _, inv := range m.invoices {
		out = append(out, inv)
	}
	return out, nil
}

func (m *memStore) ListInvoicesByBooking(_ context.Context, bookingID string) ([]models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Invoice{}
	for _, inv := range m.invoices {
		if inv.BookingID == bookingID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *memStore) GetInvoice(_ context.Context, id string) (models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return models.Invoice{}, domain.NotFoundError{Resource: "invoice", ID: id}
	}
	return inv, nil
}

func (m *memStore) UpdateInvoicePaymentStatus(_ context.Context, id string, status models.PaymentStatus, method string, _ time.Time) (models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return models.Invoice{}, domain.NotFoundError{Resource: "invoice", ID: id}
	}
	inv.PaymentStatus = status
	if method != "" {
		inv.PaymentMethod = method
	}
	m.invoices[id] = inv
	return inv, nil
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) BookingCreated(ctx context.Context, b models.Booking) {
	m.Called(ctx, b)
}

func (m *mockNotifier) StatusChanged(ctx context.Context, b models.Booking, status models.BookingStatus) {
	m.Called(ctx, b, status)
}

func (m *mockNotifier) InvoiceIssued(ctx context.Context, b models.Booking, inv models.Invoice) {
	m.Called(ctx, b, inv)
}

func (m *mockNotifier) CallbackRequested(ctx context.Context, req models.CallbackRequest) {
	m.Called(ctx, req)
}

type stubThrottle struct {
	allow bool
	err   error
	keys  []string
}

func (s *stubThrottle) Allow(_ context.Context, key string) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allow, s.err
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
