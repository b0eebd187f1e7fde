package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain/models"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/http/middleware"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockBookings struct{ mock.Mock }

func (m *mockBookings) Create(ctx context.Context, in services.BookingInput) (models.Booking, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.Booking), args.Error(1)
}

func (m *mockBookings) List(ctx context.Context) ([]models.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *mockBookings) Get(ctx context.Context, id string) (models.Booking, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Booking), args.Error(1)
}

func (m *mockBookings) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (models.Booking, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(models.Booking), args.Error(1)
}

func (m *mockBookings) Cancel(ctx context.Context, id string) (models.Booking, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Booking), args.Error(1)
}

func (m *mockBookings) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockInvoices struct{ mock.Mock }

func (m *mockInvoices) CreateFromBooking(ctx context.Context, bookingID string) (models.Invoice, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(models.Invoice), args.Error(1)
}

func (m *mockInvoices) Issue(ctx context.Context, b models.Booking) (models.Invoice, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(models.Invoice), args.Error(1)
}

func (m *mockInvoices) List(ctx context.Context) ([]models.Invoice, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Invoice), args.Error(1)
}

func (m *mockInvoices) ListByBooking(ctx context.Context, bookingID string) ([]models.Invoice, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]models.Invoice), args.Error(1)
}

func (m *mockInvoices) Get(ctx context.Context, id string) (models.Invoice, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Invoice), args.Error(1)
}

func (m *mockInvoices) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, method string) (models.Invoice, error) {
	args := m.Called(ctx, id, status, method)
	return args.Get(0).(models.Invoice), args.Error(1)
}

type mockCallbacks struct{ mock.Mock }

func (m *mockCallbacks) Request(ctx context.Context, req models.CallbackRequest) (models.CallbackRequest, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.CallbackRequest), args.Error(1)
}

func newEngine(b *mockBookings, i *mockInvoices, cb *mockCallbacks) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	bh := BookingHandler{Bookings: b, Invoices: i}
	ih := InvoiceHandler{Invoices: i}
	fh := FareHandler{Quotes: services.QuoteService{}}
	ch := CallbackHandler{Callbacks: cb}

	r.POST("/api/bookings", bh.Create)
	r.GET("/api/bookings", bh.List)
	r.GET("/api/bookings/:id", bh.Get)
	r.PATCH("/api/bookings/:id/status", bh.UpdateStatus)
	r.POST("/api/bookings/:id/cancel", bh.Cancel)
	r.DELETE("/api/bookings/:id", bh.Delete)
	r.POST("/api/invoices", ih.Create)
	r.GET("/api/invoices", ih.List)
	r.GET("/api/invoices/booking/:booking_id", ih.ListByBooking)
	r.GET("/api/invoices/:id", ih.Get)
	r.PATCH("/api/invoices/:id/payment-status", ih.UpdatePaymentStatus)
	r.GET("/api/fares/estimate", fh.Estimate)
	r.GET("/api/rates", fh.Rates)
	r.POST("/api/callbacks", ch.Create)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestCreateBookingReturnsBookingWithInvoice(t *testing.T) {
	b := &mockBookings{}
	i := &mockInvoices{}
	booking := models.Booking{ID: "BK-1", PassengerName: "Jane", VehicleType: models.VehicleStandard, EstimatedFare: 350, Status: models.StatusPending}
	invoice := models.Invoice{ID: "INV-1", BookingID: "BK-1", Subtotal: 350, Tax: 53, Total: 403}

	b.On("Create", mock.Anything, mock.MatchedBy(func(in services.BookingInput) bool {
		return in.PassengerName == "Jane" && in.VehicleType == models.VehicleStandard && in.DistanceKm == nil
	})).Return(booking, nil)
	i.On("Issue", mock.Anything, booking).Return(invoice, nil)

	w := do(newEngine(b, i, nil), http.MethodPost, "/api/bookings",
		`{"passengerName":"Jane","vehicleType":"standard"}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	out := decode(t, w)
	assert.Equal(t, "BK-1", out["id"])
	assert.Equal(t, "pending", out["status"])
	inv := out["invoice"].(map[string]any)
	assert.Equal(t, "INV-1", inv["id"])
	assert.Equal(t, 403.0, inv["total"])
	b.AssertExpectations(t)
	i.AssertExpectations(t)
}

func TestCreateBookingValidationError(t *testing.T) {
	b := &mockBookings{}
	i := &mockInvoices{}
	b.On("Create", mock.Anything, mock.Anything).
		Return(models.Booking{}, domain.ValidationError{Field: "passengerEmail", Msg: "must be a valid email address"})

	w := do(newEngine(b, i, nil), http.MethodPost, "/api/bookings", `{"passengerEmail":"x"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	out := decode(t, w)
	assert.Equal(t, "validation_error", out["code"])
	assert.Equal(t, "passengerEmail", out["field"])
	assert.NotEmpty(t, out["request_id"])
	i.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
}

func TestCreateBookingRejectsBadJSON(t *testing.T) {
	w := do(newEngine(&mockBookings{}, &mockInvoices{}, nil), http.MethodPost, "/api/bookings", `{"passengers":"two"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "passengers", decode(t, w)["field"])

	w = do(newEngine(&mockBookings{}, &mockInvoices{}, nil), http.MethodPost, "/api/bookings", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(newEngine(&mockBookings{}, &mockInvoices{}, nil), http.MethodPost, "/api/bookings", `{"passengerName":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBookingInvoiceFailureIs500(t *testing.T) {
	b := &mockBookings{}
	i := &mockInvoices{}
	b.On("Create", mock.Anything, mock.Anything).Return(models.Booking{ID: "BK-1"}, nil)
	i.On("Issue", mock.Anything, mock.Anything).
		Return(models.Invoice{}, domain.DependencyError{Dependency: "mysql", Err: errors.New("Error 1205: lock wait timeout")})

	w := do(newEngine(b, i, nil), http.MethodPost, "/api/bookings", `{"passengerName":"Jane"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	out := decode(t, w)
	assert.Equal(t, "internal server error", out["error"])
	assert.NotContains(t, w.Body.String(), "lock wait")
}

func TestGetBookingNotFound(t *testing.T) {
	b := &mockBookings{}
	b.On("Get", mock.Anything, "BK-404").Return(models.Booking{}, domain.NotFoundError{Resource: "booking", ID: "BK-404"})

	w := do(newEngine(b, &mockInvoices{}, nil), http.MethodGet, "/api/bookings/BK-404", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	out := decode(t, w)
	assert.Equal(t, "not_found", out["code"])
	assert.Equal(t, "booking BK-404 not found", out["error"])
}

func TestListBookings(t *testing.T) {
	b := &mockBookings{}
	b.On("List", mock.Anything).Return([]models.Booking{{ID: "BK-2"}, {ID: "BK-1"}}, nil)

	w := do(newEngine(b, &mockInvoices{}, nil), http.MethodGet, "/api/bookings", "")

	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "BK-2", list[0].ID)
}

func TestUpdateBookingStatus(t *testing.T) {
	b := &mockBookings{}
	now := time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC)
	b.On("UpdateStatus", mock.Anything, "BK-1", models.StatusConfirmed).
		Return(models.Booking{ID: "BK-1", Status: models.StatusConfirmed, UpdatedAt: &now}, nil)
	b.On("UpdateStatus", mock.Anything, "BK-1", models.BookingStatus("archived")).
		Return(models.Booking{}, domain.ValidationError{Field: "status", Msg: "must be one of pending, confirmed, completed, cancelled"})

	r := newEngine(b, &mockInvoices{}, nil)
	w := do(r, http.MethodPatch, "/api/bookings/BK-1/status", `{"status":"confirmed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "confirmed", decode(t, w)["status"])

	w = do(r, http.MethodPatch, "/api/bookings/BK-1/status", `{"status":"archived"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "status", decode(t, w)["field"])
}

func TestCancelBooking(t *testing.T) {
	b := &mockBookings{}
	b.On("Cancel", mock.Anything, "BK-1").Return(models.Booking{ID: "BK-1", Status: models.StatusCancelled}, nil)

	w := do(newEngine(b, &mockInvoices{}, nil), http.MethodPost, "/api/bookings/BK-1/cancel", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", decode(t, w)["status"])
}

func TestDeleteBooking(t *testing.T) {
	b := &mockBookings{}
	b.On("Delete", mock.Anything, "BK-1").Return(nil).Once()
	b.On("Delete", mock.Anything, "BK-2").Return(domain.NotFoundError{Resource: "booking", ID: "BK-2"}).Once()

	r := newEngine(b, &mockInvoices{}, nil)
	w := do(r, http.MethodDelete, "/api/bookings/BK-1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(r, http.MethodDelete, "/api/bookings/BK-2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateInvoice(t *testing.T) {
	i := &mockInvoices{}
	i.On("CreateFromBooking", mock.Anything, "BK-1").Return(models.Invoice{ID: "INV-9", BookingID: "BK-1"}, nil)
	i.On("CreateFromBooking", mock.Anything, "BK-x").Return(models.Invoice{}, domain.NotFoundError{Resource: "booking", ID: "BK-x"})

	r := newEngine(&mockBookings{}, i, nil)
	w := do(r, http.MethodPost, "/api/invoices", `{"bookingId":"BK-1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "INV-9", decode(t, w)["id"])

	w = do(r, http.MethodPost, "/api/invoices", `{"bookingId":"BK-x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListInvoicesByBooking(t *testing.T) {
	i := &mockInvoices{}
	i.On("ListByBooking", mock.Anything, "BK-1").Return([]models.Invoice{{ID: "INV-2"}, {ID: "INV-1"}}, nil)
	i.On("List", mock.Anything).Return([]models.Invoice{}, nil)

	r := newEngine(&mockBookings{}, i, nil)
	w := do(r, http.MethodGet, "/api/invoices/booking/BK-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Invoice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	w = do(r, http.MethodGet, "/api/invoices", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestUpdateInvoicePaymentStatus(t *testing.T) {
	i := &mockInvoices{}
	i.On("UpdatePaymentStatus", mock.Anything, "INV-1", models.PaymentPaid, "card").
		Return(models.Invoice{ID: "INV-1", PaymentStatus: models.PaymentPaid, PaymentMethod: "card"}, nil)

	w := do(newEngine(&mockBookings{}, i, nil), http.MethodPatch, "/api/invoices/INV-1/payment-status",
		`{"paymentStatus":"paid","paymentMethod":"card"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "paid", decode(t, w)["paymentStatus"])
}

func TestFareEstimate(t *testing.T) {
	r := newEngine(&mockBookings{}, &mockInvoices{}, nil)

	w := do(r, http.MethodGet, "/api/fares/estimate?vehicleType=premium", "")
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.Equal(t, 515.0, out["estimatedFare"])
	assert.Equal(t, true, out["defaultDistance"])

	w = do(r, http.MethodGet, "/api/fares/estimate?vehicleType=van&distanceKm=12", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 400.0, decode(t, w)["estimatedFare"])

	w = do(r, http.MethodGet, "/api/fares/estimate?vehicleType=van&distanceKm=far", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "distanceKm", decode(t, w)["field"])

	w = do(r, http.MethodGet, "/api/fares/estimate?vehicleType=bus", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "vehicleType", decode(t, w)["field"])
}

func TestRates(t *testing.T) {
	w := do(newEngine(&mockBookings{}, &mockInvoices{}, nil), http.MethodGet, "/api/rates", "")
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.Len(t, out["tariffs"], 3)
	assert.NotEmpty(t, out["fixedRoutes"])
}

func TestCallbackStatuses(t *testing.T) {
	cb := &mockCallbacks{}
	cb.On("Request", mock.Anything, mock.MatchedBy(func(r models.CallbackRequest) bool { return r.Phone == "0821234567" })).
		Return(models.CallbackRequest{Name: "A", Phone: "0821234567"}, nil).Once()
	cb.On("Request", mock.Anything, mock.MatchedBy(func(r models.CallbackRequest) bool { return r.Phone == "0829999999" })).
		Return(models.CallbackRequest{}, domain.ThrottledError{}).Once()
	cb.On("Request", mock.Anything, mock.MatchedBy(func(r models.CallbackRequest) bool { return r.Phone == "" })).
		Return(models.CallbackRequest{}, domain.ValidationError{Field: "phone", Msg: "is required"}).Once()

	r := newEngine(&mockBookings{}, &mockInvoices{}, cb)
	assert.Equal(t, http.StatusAccepted, do(r, http.MethodPost, "/api/callbacks", `{"name":"A","phone":"0821234567"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/api/callbacks", `{"name":"A","phone":"0829999999"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/callbacks", `{"name":"A"}`).Code)
	cb.AssertExpectations(t)
}
