package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain/models"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/services"
)

type BookingAPI interface {
	Create(ctx context.Context, in services.BookingInput) (models.Booking, error)
	List(ctx context.Context) ([]models.Booking, error)
	Get(ctx context.Context, id string) (models.Booking, error)
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (models.Booking, error)
	Cancel(ctx context.Context, id string) (models.Booking, error)
	Delete(ctx context.Context, id string) error
}

type BookingHandler struct {
	Bookings BookingAPI
	Invoices InvoiceAPI
}

// bookingResponse is a booking with the invoice issued alongside it.
type bookingResponse struct {
	models.Booking
	Invoice *models.Invoice `json:"invoice,omitempty"`
}

type statusRequest struct {
	Status models.BookingStatus `json:"status"`
}

// Create stores the booking and issues its invoice straight away. If the
// invoice cannot be stored the booking stays and the client gets a 500.
func (h BookingHandler) Create(c *gin.Context) {
	var in services.BookingInput
	if !BindJSONOrError(c, &in) {
		return
	}
	ctx := c.Request.Context()

	b, err := h.Bookings.Create(ctx, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	inv, err := h.Invoices.Issue(ctx, b)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bookingResponse{Booking: b, Invoice: &inv})
}

func (h BookingHandler) List(c *gin.Context) {
	list, err := h.Bookings.List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h BookingHandler) Get(c *gin.Context) {
	b, err := h.Bookings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h BookingHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	b, err := h.Bookings.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h BookingHandler) Cancel(c *gin.Context) {
	b, err := h.Bookings.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h BookingHandler) Delete(c *gin.Context) {
	if err := h.Bookings.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
