// README: Order aggregate, companion payment, and status definitions.
package order

import (
	"time"

	"taxigo/internal/types"
)

type Status string

const (
	StatusNone       Status = "none"
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
)

type Order struct {
	ID              types.ID    `json:"id"`
	CustomerID      *types.ID   `json:"customer_id,omitempty"`
	CustomerName    string      `json:"customer_name"`
	CustomerPhone   string      `json:"customer_phone"`
	PickupAddress   string      `json:"pickup_address"`
	Destination     string      `json:"destination"`
	TariffID        types.ID    `json:"tariff_id"`
	DriverID        *types.ID   `json:"driver_id,omitempty"`
	DistanceKm      float64     `json:"distance_km"`
	EstimatedMin    float64     `json:"estimated_minutes"`
	Price           types.Money `json:"price"`
	PaymentMethodID types.ID    `json:"payment_method_id"`
	Paid            bool        `json:"paid"`
	Status          Status      `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type Payment struct {
	ID            types.ID      `json:"id"`
	OrderID       types.ID      `json:"order_id"`
	Amount        types.Money   `json:"amount"`
	MethodID      types.ID      `json:"method_id"`
	Status        PaymentStatus `json:"status"`
	TransactionID string        `json:"transaction_id"`
	CreatedAt     time.Time     `json:"created_at"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
}

// Event is one row of the order audit trail.
type Event struct {
	ID         int64     `json:"id"`
	OrderID    types.ID  `json:"order_id"`
	FromStatus Status    `json:"from_status"`
	ToStatus   Status    `json:"to_status"`
	Actor      string    `json:"actor"`
	CreatedAt  time.Time `json:"created_at"`
}

// AllowedTransitions: forward-only, except that cancellation is reachable
// from every non-terminal state.
var AllowedTransitions = map[Status][]Status{
	StatusPending:    {StatusAccepted, StatusCompleted, StatusCancelled},
	StatusAccepted:   {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
