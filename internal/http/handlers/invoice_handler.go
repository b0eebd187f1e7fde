package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain/models"
)

type InvoiceAPI interface {
	CreateFromBooking(ctx context.Context, bookingID string) (models.Invoice, error)
	Issue(ctx context.Context, b models.Booking) (models.Invoice, error)
	List(ctx context.Context) ([]models.Invoice, error)
	ListByBooking(ctx context.Context, bookingID string) ([]models.Invoice, error)
	Get(ctx context.Context, id string) (models.Invoice, error)
	UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, method string) (models.Invoice, error)
}

type InvoiceHandler struct {
	Invoices InvoiceAPI
}

type createInvoiceRequest struct {
	BookingID string `json:"bookingId"`
}

type paymentStatusRequest struct {
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	PaymentMethod string               `json:"paymentMethod"`
}

func (h InvoiceHandler) Create(c *gin.Context) {
	var req createInvoiceRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	inv, err := h.Invoices.CreateFromBooking(c.Request.Context(), req.BookingID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (h InvoiceHandler) List(c *gin.Context) {
	list, err := h.Invoices.List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h InvoiceHandler) ListByBooking(c *gin.Context) {
	list, err := h.Invoices.ListByBooking(c.Request.Context(), c.Param("booking_id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h InvoiceHandler) Get(c *gin.Context) {
	inv, err := h.Invoices.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h InvoiceHandler) UpdatePaymentStatus(c *gin.Context) {
	var req paymentStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	inv, err := h.Invoices.UpdatePaymentStatus(c.Request.Context(), c.Param("id"), req.PaymentStatus, req.PaymentMethod)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}
