package utils

import (
	"fmt"
	"math"

	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain/models"
)

const (
	// DefaultDistanceKm stands in for a real distance lookup until one exists.
	DefaultDistanceKm = 20.0
	// MaxDistanceKm bounds a single trip so its fare fits the money columns.
	MaxDistanceKm = 10000.0
)

var baseFares = map[models.VehicleType]float64{
	models.VehicleStandard: 50,
	models.VehiclePremium:  75,
	models.VehicleVan:      100,
}

var perKmRates = map[models.VehicleType]float64{
	models.VehicleStandard: 15,
	models.VehiclePremium:  22,
	models.VehicleVan:      25,
}

// fixedRoutes is the landing page rate card, one-way fares in rand.
var fixedRoutes = []models.FixedRoute{
	{From: "Hermanus", To: "Stanford", Price: 250},
	{From: "Hermanus", To: "Gansbaai", Price: 350},
	{From: "Hermanus", To: "Caledon", Price: 400},
	{From: "Gansbaai", To: "Cape Agulhas (Struisbaai)", Price: 300},
	{From: "Caledon", To: "Bredasdorp", Price: 320},
	{From: "Bredasdorp", To: "Arniston", Price: 280},
	{From: "Hermanus", To: "Elgin/Grabouw", Price: 450},
}

// EstimateFare returns base fare + distance * per-km rate for the category.
// The result is not rounded.
func EstimateFare(vehicle models.VehicleType, distanceKm float64) (float64, error) {
	if !vehicle.Valid() {
		return 0, domain.ValidationError{Field: "vehicleType", Msg: "must be one of standard, premium, van"}
	}
	if distanceKm < 0 || math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) {
		return 0, domain.ValidationError{Field: "distanceKm", Msg: "must be a non-negative number"}
	}
	return baseFares[vehicle] + distanceKm*perKmRates[vehicle], nil
}

// PriceTrip prices a trip at the precision of the stored columns: distance
// to two decimals, fare to cents.
func PriceTrip(vehicle models.VehicleType, distanceKm float64) (distance, fare float64, err error) {
	if distanceKm < 0 || math.IsNaN(distanceKm) {
		return 0, 0, domain.ValidationError{Field: "distanceKm", Msg: "must be a non-negative number"}
	}
	if distanceKm > MaxDistanceKm {
		return 0, 0, domain.ValidationError{Field: "distanceKm", Msg: fmt.Sprintf("must be at most %g", MaxDistanceKm)}
	}
	distance = domain.RoundCents(distanceKm)
	fare, err = EstimateFare(vehicle, distance)
	if err != nil {
		return 0, 0, err
	}
	return distance, domain.RoundCents(fare), nil
}

// EstimateFareDefault estimates with DefaultDistanceKm.
func EstimateFareDefault(vehicle models.VehicleType) (float64, error) {
	return EstimateFare(vehicle, DefaultDistanceKm)
}

// Tariffs returns the pricing table in rate-card order.
func Tariffs() []models.Tariff {
	out := make([]models.Tariff, 0, len(models.VehicleTypes))
	for _, v := range models.VehicleTypes {
		out = append(out, models.Tariff{VehicleType: v, BaseFare: baseFares[v], PerKm: perKmRates[v]})
	}
	return out
}

// FixedRoutes returns a copy of the flat-price route list.
func FixedRoutes() []models.FixedRoute {
	out := make([]models.FixedRoute, len(fixedRoutes))
	copy(out, fixedRoutes)
	return out
}
