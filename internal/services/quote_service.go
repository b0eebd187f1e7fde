package services

import (
	"strings"

	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain/models"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/utils"
)

const currency = "ZAR"

// FareQuote is what the booking form shows while the passenger fills it in.
type FareQuote struct {
	VehicleType     models.VehicleType `json:"vehicleType"`
	DistanceKm      float64            `json:"distanceKm"`
	DefaultDistance bool               `json:"defaultDistance"`
	BaseFare        float64            `json:"baseFare"`
	PerKm           float64            `json:"perKm"`
	EstimatedFare   float64            `json:"estimatedFare"`
	Currency        string             `json:"currency"`
}

type RateCard struct {
	Currency    string              `json:"currency"`
	Tariffs     []models.Tariff     `json:"tariffs"`
	FixedRoutes []models.FixedRoute `json:"fixedRoutes"`
}

type QuoteService struct{}

// Quote prices a trip. A nil distance falls back to the default distance.
func (QuoteService) Quote(vehicle models.VehicleType, distanceKm *float64) (FareQuote, error) {
	vehicle = models.VehicleType(strings.ToLower(utils.TrimOrEmpty(string(vehicle))))
	q := FareQuote{VehicleType: vehicle, DistanceKm: utils.DefaultDistanceKm, DefaultDistance: true, Currency: currency}
	if distanceKm != nil {
		q.DistanceKm = *distanceKm
		q.DefaultDistance = false
	}

	distance, fare, err := utils.PriceTrip(vehicle, q.DistanceKm)
	if err != nil {
		return FareQuote{}, err
	}
	q.DistanceKm, q.EstimatedFare = distance, fare
	for _, t := range utils.Tariffs() {
		if t.VehicleType == vehicle {
			q.BaseFare, q.PerKm = t.BaseFare, t.PerKm
		}
	}
	return q, nil
}

func (QuoteService) Rates() RateCard {
	return RateCard{Currency: currency, Tariffs: utils.Tariffs(), FixedRoutes: utils.FixedRoutes()}
}
