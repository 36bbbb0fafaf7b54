// README: Tariff and PaymentMethod reference data.
package catalog

import "taxigo/internal/types"

// Tariff is a named pricing tier. Name is the machine type tag, Label the
// single human-readable caption for it.
type Tariff struct {
	ID             types.ID    `json:"id"`
	Name           string      `json:"name"`
	Label          string      `json:"label"`
	Icon           string      `json:"icon"`
	Description    string      `json:"description"`
	BasePrice      types.Money `json:"base_price"`
	PricePerKm     types.Money `json:"price_per_km"`
	PricePerMinute types.Money `json:"price_per_minute"`
	Active         bool        `json:"active"`
}

type PaymentMethod struct {
	ID            types.ID    `json:"id"`
	Name          string      `json:"name"`
	Label         string      `json:"label"`
	Active        bool        `json:"active"`
	CommissionPct float64     `json:"commission_pct"`
	MinAmount     types.Money `json:"min_amount"`
	MaxAmount     types.Money `json:"max_amount"`
	SortOrder     int         `json:"sort_order"`
}

// Commission returns the fee the platform keeps from an amount paid through
// this method, rounded to minor units.
func (m PaymentMethod) Commission(amount types.Money) types.Money {
	return types.FromFloat(amount.Float()*m.CommissionPct/100, amount.Currency)
}

// Allows reports whether an amount falls inside the method's bounds.
func (m PaymentMethod) Allows(amount types.Money) bool {
	return amount.Amount >= m.MinAmount.Amount && amount.Amount <= m.MaxAmount.Amount
}

// tariffFeatures is the per-tier marketing copy; unknown tiers fall back
// to the standard set.
var tariffFeatures = map[string][]string{
	"economy":  {"Недорого", "Быстро", "Базовые условия"},
	"comfort":  {"Комфорт", "Чистый салон", "Водитель с опытом"},
	"business": {"VIP-обслуживание", "Премиум автомобиль", "Вода в салоне"},
	"premium":  {"Лучшие автомобили", "Личный водитель", "Максимальный комфорт"},
	"cargo":    {"Перевозка грузов", "Просторный багажник", "Помощь с погрузкой"},
	"family":   {"Детское кресло", "Безопасная езда", "Игрушки для детей"},
}

func (t Tariff) Features() []string {
	if f, ok := tariffFeatures[t.Name]; ok {
		return f
	}
	return []string{"Стандартные условия"}
}
