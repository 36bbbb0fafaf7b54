// README: Pricing service computes deterministic fares from tariff rates.
package pricing

import (
	"math"

	"taxigo/internal/modules/catalog"
	"taxigo/internal/types"
)

// minutesPerKm is the deterministic trip-duration policy used whenever the
// caller does not supply an estimate.
const minutesPerKm = 5.0

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Quote computes base + distance*perKm + (minutes/60)*perMinute. All
// arithmetic runs in major currency units; the single rounding step happens
// at the end, when the total is fixed to two decimal places.
func (s *Service) Quote(t catalog.Tariff, distanceKm, estimatedMin float64) types.Money {
	total := t.BasePrice.Float() +
		distanceKm*t.PricePerKm.Float() +
		estimatedMin/60*t.PricePerMinute.Float()
	return types.FromFloat(total, types.DefaultCurrency)
}

// EstimateMinutes derives trip duration from distance.
func (s *Service) EstimateMinutes(distanceKm float64) float64 {
	return math.Max(distanceKm, 0) * minutesPerKm
}
