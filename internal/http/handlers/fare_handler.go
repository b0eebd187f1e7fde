package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain/models"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/services"
)

type QuoteAPI interface {
	Quote(vehicle models.VehicleType, distanceKm *float64) (services.FareQuote, error)
	Rates() services.RateCard
}

type FareHandler struct {
	Quotes QuoteAPI
}

// Estimate answers GET /fares/estimate?vehicleType=&distanceKm=.
func (h FareHandler) Estimate(c *gin.Context) {
	var distance *float64
	if raw := strings.TrimSpace(c.Query("distanceKm")); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			RespondDomainError(c, domain.ValidationError{Field: "distanceKm", Msg: "must be a number", Err: err})
			return
		}
		distance = &d
	}
	q, err := h.Quotes.Quote(models.VehicleType(c.Query("vehicleType")), distance)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h FareHandler) Rates(c *gin.Context) {
	c.JSON(http.StatusOK, h.Quotes.Rates())
}
