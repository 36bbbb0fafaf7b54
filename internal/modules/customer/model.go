// README: Customer records with running order totals.
package customer

import (
	"time"

	"taxigo/internal/types"
)

type Customer struct {
	ID           types.ID    `json:"id"`
	Phone        string      `json:"phone"`
	Name         string      `json:"name"`
	PasswordHash string      `json:"-"`
	RegisteredAt time.Time   `json:"registered_at"`
	TotalOrders  int         `json:"total_orders"`
	TotalSpent   types.Money `json:"total_spent"`
}
