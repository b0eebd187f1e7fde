package models

import "time"

// VehicleType is the vehicle category a passenger books.
type VehicleType string

const (
	VehicleStandard VehicleType = "standard"
	VehiclePremium  VehicleType = "premium"
	VehicleVan      VehicleType = "van"
)

// VehicleTypes lists the recognised categories in rate-card order.
var VehicleTypes = []VehicleType{VehicleStandard, VehiclePremium, VehicleVan}

func (v VehicleType) Valid() bool {
	switch v {
	case VehicleStandard, VehiclePremium, VehicleVan:
		return true
	default:
		return false
	}
}

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status ends the intended flow.
func (s BookingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IntendedTransition describes the flow staff are expected to follow:
// pending -> confirmed -> completed, and cancelled from any non-terminal
// state. Updates are not rejected when they go against it.
func IntendedTransition(from, to BookingStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCompleted || to == StatusCancelled
	default:
		return false
	}
}

// Booking is a passenger's trip request.
type Booking struct {
	ID              string        `json:"id"`
	PassengerName   string        `json:"passengerName"`
	PassengerEmail  string        `json:"passengerEmail"`
	PassengerPhone  string        `json:"passengerPhone"`
	PickupLocation  string        `json:"pickupLocation"`
	DropoffLocation string        `json:"dropoffLocation"`
	PickupDate      string        `json:"pickupDate"`
	PickupTime      string        `json:"pickupTime"`
	VehicleType     VehicleType   `json:"vehicleType"`
	Passengers      int           `json:"passengers"`
	Notes           string        `json:"notes,omitempty"`
	DistanceKm      float64       `json:"distanceKm"`
	EstimatedFare   float64       `json:"estimatedFare"`
	Status          BookingStatus `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       *time.Time    `json:"updatedAt,omitempty"`
}
