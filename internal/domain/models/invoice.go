package models

import "time"

// PaymentStatus tracks settlement of an invoice.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPaid    PaymentStatus = "paid"
	PaymentOverdue PaymentStatus = "overdue"
)

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentUnpaid, PaymentPaid, PaymentOverdue:
		return true
	default:
		return false
	}
}

type InvoiceItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
}

// Invoice is a billing record derived from one booking. Passenger details
// are copied at generation time.
type Invoice struct {
	ID               string        `json:"id"`
	BookingID        string        `json:"bookingId"`
	BookingReference string        `json:"bookingReference"`
	PassengerName    string        `json:"passengerName"`
	PassengerEmail   string        `json:"passengerEmail"`
	IssueDate        string        `json:"issueDate"`
	DueDate          string        `json:"dueDate"`
	Items            []InvoiceItem `json:"items"`
	Subtotal         float64       `json:"subtotal"`
	Tax              float64       `json:"tax"`
	Total            float64       `json:"total"`
	PaymentStatus    PaymentStatus `json:"paymentStatus"`
	PaymentMethod    string        `json:"paymentMethod,omitempty"`
	Notes            string        `json:"notes,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
}
