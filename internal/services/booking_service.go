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

// BookingInput is the payload of the public booking form.
type BookingInput struct {
	PassengerName   string             `json:"passengerName" validate:"required,max=255"`
	PassengerEmail  string             `json:"passengerEmail" validate:"required,email,max=255"`
	PassengerPhone  string             `json:"passengerPhone" validate:"required,max=64"`
	PickupLocation  string             `json:"pickupLocation" validate:"required,max=255"`
	DropoffLocation string             `json:"dropoffLocation" validate:"required,max=255"`
	PickupDate      string             `json:"pickupDate" validate:"required,datetime=2006-01-02"`
	PickupTime      string             `json:"pickupTime" validate:"required,datetime=15:04"`
	VehicleType     models.VehicleType `json:"vehicleType" validate:"required,oneof=standard premium van"`
	Passengers      int                `json:"passengers" validate:"gte=0,lte=60"`
	Notes           string             `json:"notes" validate:"max=2000"`
	DistanceKm      *float64           `json:"distanceKm" validate:"omitempty,gte=0,lte=10000"`
}

func (in *BookingInput) normalize() {
	in.PassengerName = utils.NormalizeSpace(in.PassengerName)
	in.PassengerEmail = strings.ToLower(utils.TrimOrEmpty(in.PassengerEmail))
	in.PassengerPhone = utils.TrimOrEmpty(in.PassengerPhone)
	in.PickupLocation = utils.NormalizeSpace(in.PickupLocation)
	in.DropoffLocation = utils.NormalizeSpace(in.DropoffLocation)
	in.PickupDate = utils.TrimOrEmpty(in.PickupDate)
	in.PickupTime = utils.TrimOrEmpty(in.PickupTime)
	in.VehicleType = models.VehicleType(strings.ToLower(utils.TrimOrEmpty(string(in.VehicleType))))
	in.Notes = utils.TrimOrEmpty(in.Notes)
}

type BookingService struct {
	Bookings BookingStore
	Notifier Notifier
	Log      logrus.FieldLogger
	Now      Clock
}

func (s BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return utils.NowUTC()
}

func (s BookingService) notifier() Notifier {
	if s.Notifier != nil {
		return s.Notifier
	}
	return nopNotifier{}
}

// Create validates the form, prices the trip and stores a pending booking.
// BookingCreated is dispatched after the booking is stored.
func (s BookingService) Create(ctx context.Context, in BookingInput) (models.Booking, error) {
	in.normalize()
	if err := validateStruct(in); err != nil {
		return models.Booking{}, err
	}

	passengers := in.Passengers
	if passengers == 0 {
		passengers = 1
	}
	distance := utils.DefaultDistanceKm
	if in.DistanceKm != nil {
		distance = *in.DistanceKm
	}
	distance, fare, err := utils.PriceTrip(in.VehicleType, distance)
	if err != nil {
		return models.Booking{}, err
	}

	b := models.Booking{
		ID:              utils.NewID(utils.BookingIDPrefix),
		PassengerName:   in.PassengerName,
		PassengerEmail:  in.PassengerEmail,
		PassengerPhone:  in.PassengerPhone,
		PickupLocation:  in.PickupLocation,
		DropoffLocation: in.DropoffLocation,
		PickupDate:      in.PickupDate,
		PickupTime:      in.PickupTime,
		VehicleType:     in.VehicleType,
		Passengers:      passengers,
		Notes:           in.Notes,
		DistanceKm:      distance,
		EstimatedFare:   fare,
		Status:          models.StatusPending,
		CreatedAt:       s.now(),
	}
	if err := s.Bookings.CreateBooking(ctx, b); err != nil {
		return models.Booking{}, err
	}

	utils.LogEvent(s.Log, utils.RequestIDFrom(ctx), "booking", "create",
		fmt.Sprintf("booking %s created (%s, %s)", b.ID, b.VehicleType, utils.FormatRand(b.EstimatedFare)))
	s.notifier().BookingCreated(ctx, b)
	return b, nil
}

func (s BookingService) List(ctx context.Context) ([]models.Booking, error) {
	return s.Bookings.ListBookings(ctx)
}

func (s BookingService) Get(ctx context.Context, id string) (models.Booking, error) {
	id = utils.TrimOrEmpty(id)
	if id == "" {
		return models.Booking{}, domain.ValidationError{Field: "id", Msg: "is required"}
	}
	return s.Bookings.GetBooking(ctx, id)
}

// UpdateStatus overwrites the status with any member of the closed set.
// Moves that go against the intended flow are logged, not refused.
func (s BookingService) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (models.Booking, error) {
	id = utils.TrimOrEmpty(id)
	status = models.BookingStatus(strings.ToLower(utils.TrimOrEmpty(string(status))))
	if id == "" {
		return models.Booking{}, domain.ValidationError{Field: "id", Msg: "is required"}
	}
	if !status.Valid() {
		return models.Booking{}, domain.ValidationError{Field: "status", Msg: "must be one of pending, confirmed, completed, cancelled"}
	}

	current, err := s.Bookings.GetBooking(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if !models.IntendedTransition(current.Status, status) && s.Log != nil {
		s.Log.WithFields(logrus.Fields{
			"module":     "BOOKING",
			"action":     "update_status",
			"request_id": utils.RequestIDFrom(ctx),
			"booking_id": id,
			"from":       current.Status,
			"to":         status,
		}).Warn("status change outside the usual flow")
	}

	updated, err := s.Bookings.UpdateBookingStatus(ctx, id, status, s.now())
	if err != nil {
		return models.Booking{}, err
	}

	utils.LogEvent(s.Log, utils.RequestIDFrom(ctx), "booking", "update_status",
		fmt.Sprintf("booking %s %s -> %s", id, current.Status, status))
	s.notifier().StatusChanged(ctx, updated, status)
	return updated, nil
}

func (s BookingService) Cancel(ctx context.Context, id string) (models.Booking, error) {
	return s.UpdateStatus(ctx, id, models.StatusCancelled)
}

// Delete removes the booking. Invoices issued for it stay on record.
func (s BookingService) Delete(ctx context.Context, id string) error {
	id = utils.TrimOrEmpty(id)
	if id == "" {
		return domain.ValidationError{Field: "id", Msg: "is required"}
	}
	if err := s.Bookings.DeleteBooking(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.Log, utils.RequestIDFrom(ctx), "booking", "delete", "booking "+id+" deleted")
	return nil
}
