package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain/models"
)

const (
	// TaxRate is the flat VAT applied to every invoice subtotal.
	TaxRate = 0.15
	// PaymentTermDays is the gap between issue and due date.
	PaymentTermDays = 14

	dateLayout = "2006-01-02"
)

// RoundMoney rounds half away from zero, which is half-up for the
// non-negative amounts invoices carry (52.5 -> 53).
func RoundMoney(x float64) float64 {
	return math.Round(x)
}

// RoundCents rounds an amount to two decimals, the precision of every money
// column.
func RoundCents(x float64) float64 {
	return math.Round(x*100) / 100
}

// LineItemDescription is the text on the single item of a booking invoice.
func LineItemDescription(v models.VehicleType) string {
	return fmt.Sprintf("Transport Service (%s vehicle)", v)
}

// ComputeTotals returns subtotal, tax and total for items.
func ComputeTotals(items []models.InvoiceItem) (subtotal, tax, total float64) {
	for _, it := range items {
		subtotal += it.Total
	}
	tax = RoundMoney(subtotal * TaxRate)
	return subtotal, tax, RoundCents(subtotal + tax)
}

// DueDate returns issue + PaymentTermDays calendar days.
func DueDate(issue time.Time) time.Time {
	return issue.AddDate(0, 0, PaymentTermDays)
}

// BuildInvoice derives an unpaid invoice from a booking. Dates are taken
// from now in UTC. Calling it twice for one booking yields two invoices; no
// deduplication happens here or downstream.
func BuildInvoice(b models.Booking, invoiceID string, now time.Time) (models.Invoice, error) {
	if strings.TrimSpace(b.ID) == "" {
		return models.Invoice{}, ValidationError{Field: "bookingId", Msg: "is required"}
	}
	if strings.TrimSpace(invoiceID) == "" {
		return models.Invoice{}, ValidationError{Field: "id", Msg: "invoice id is required"}
	}
	fare := b.EstimatedFare
	if math.IsNaN(fare) || math.IsInf(fare, 0) || fare < 0 {
		return models.Invoice{}, ValidationError{Field: "estimatedFare", Msg: "must be a non-negative amount"}
	}

	items := []models.InvoiceItem{{
		Description: LineItemDescription(b.VehicleType),
		Quantity:    1,
		UnitPrice:   fare,
		Total:       fare,
	}}
	subtotal, tax, total := ComputeTotals(items)

	issued := now.UTC()
	return models.Invoice{
		ID:               invoiceID,
		BookingID:        b.ID,
		BookingReference: b.ID,
		PassengerName:    b.PassengerName,
		PassengerEmail:   b.PassengerEmail,
		IssueDate:        issued.Format(dateLayout),
		DueDate:          DueDate(issued).Format(dateLayout),
		Items:            items,
		Subtotal:         subtotal,
		Tax:              tax,
		Total:            total,
		PaymentStatus:    models.PaymentUnpaid,
		CreatedAt:        issued,
	}, nil
}
