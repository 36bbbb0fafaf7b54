// README: Driver records and availability status.
package fleet

import "taxigo/internal/types"

type Status string

const (
	StatusAvailable Status = "available"
	StatusBusy      Status = "busy"
	StatusOffline   Status = "offline"
)

func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusAvailable, StatusBusy, StatusOffline:
		return true
	}
	return false
}

type Driver struct {
	ID            types.ID `json:"id"`
	Name          string   `json:"name"`
	CarModel      string   `json:"car_model"`
	CarNumber     string   `json:"car_number"`
	Phone         string   `json:"phone"`
	Rating        float64  `json:"rating"`
	Experience    int      `json:"experience"`
	HasChildSeat  bool     `json:"has_child_seat"`
	HasCargoSpace bool     `json:"has_cargo_space"`
	MaxPassengers int      `json:"max_passengers"`
	Status        Status   `json:"status"`
}

// SpecialFeatures summarizes the capability flags for listings.
func (d Driver) SpecialFeatures() []string {
	var out []string
	if d.HasChildSeat {
		out = append(out, "child_seat")
	}
	if d.HasCargoSpace {
		out = append(out, "cargo_space")
	}
	if d.MaxPassengers > 4 {
		out = append(out, "extra_seats")
	}
	return out
}

// Stats is the availability breakdown shown on the landing page.
type Stats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Busy      int `json:"busy"`
	Offline   int `json:"offline"`
}
