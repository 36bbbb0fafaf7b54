// README: Review records aggregated into driver ratings.
package review

import (
	"math"
	"time"

	"taxigo/internal/types"
)

type Review struct {
	ID         types.ID  `json:"id"`
	OrderID    types.ID  `json:"order_id"`
	CustomerID *types.ID `json:"customer_id,omitempty"`
	DriverID   types.ID  `json:"driver_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	Approved   bool      `json:"approved"`
	CreatedAt  time.Time `json:"created_at"`
}

// defaultRating applies to drivers with no approved reviews.
const defaultRating = 5.0

// aggregate turns an average over approved reviews into the persisted
// driver rating: one decimal place, default when nothing counts.
func aggregate(mean float64, count int) float64 {
	if count == 0 {
		return defaultRating
	}
	return math.Round(mean*10) / 10
}
