package models

import "time"

// CallbackRequest is left on the landing page by someone who wants the
// operator to phone them back about a trip.
type CallbackRequest struct {
	Name        string    `json:"name" validate:"required,max=255"`
	Phone       string    `json:"phone" validate:"required,max=64"`
	Route       string    `json:"route,omitempty" validate:"max=255"`
	RequestedAt time.Time `json:"requestedAt"`
}

// FixedRoute is a popular one-way trip sold at a flat price.
type FixedRoute struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Price float64 `json:"price"`
}

// Tariff is the per-category pricing used by the fare estimator.
type Tariff struct {
	VehicleType VehicleType `json:"vehicleType"`
	BaseFare    float64     `json:"baseFare"`
	PerKm       float64     `json:"perKm"`
}
