// README: Catalog store backed by PostgreSQL.
package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxigo/internal/types"
)

var ErrNotFound = errors.New("catalog entry not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const tariffColumns = `id, name, label, icon, description, base_price, price_per_km, price_per_minute, is_active`

func scanTariff(row pgx.Row) (Tariff, error) {
	var t Tariff
	err := row.Scan(
		&t.ID, &t.Name, &t.Label, &t.Icon, &t.Description,
		&t.BasePrice.Amount, &t.PricePerKm.Amount, &t.PricePerMinute.Amount, &t.Active,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Tariff{}, ErrNotFound
	}
	if err != nil {
		return Tariff{}, err
	}
	t.BasePrice.Currency = types.DefaultCurrency
	t.PricePerKm.Currency = types.DefaultCurrency
	t.PricePerMinute.Currency = types.DefaultCurrency
	return t, nil
}

func (s *Store) ActiveTariffs(ctx context.Context) ([]Tariff, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+tariffColumns+`
		FROM tariffs
		WHERE is_active
		ORDER BY base_price`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Tariff
	for rows.Next() {
		t, err := scanTariff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) TariffByID(ctx context.Context, id types.ID) (Tariff, error) {
	return scanTariff(s.db.QueryRow(ctx, `
		SELECT `+tariffColumns+`
		FROM tariffs
		WHERE id = $1`, int64(id)))
}

func (s *Store) TariffByName(ctx context.Context, name string) (Tariff, error) {
	return scanTariff(s.db.QueryRow(ctx, `
		SELECT `+tariffColumns+`
		FROM tariffs
		WHERE name = $1`, name))
}

const methodColumns = `id, name, label, is_active, commission_pct, min_amount, max_amount, sort_order`

func scanMethod(row pgx.Row) (PaymentMethod, error) {
	var m PaymentMethod
	err := row.Scan(
		&m.ID, &m.Name, &m.Label, &m.Active,
		&m.CommissionPct, &m.MinAmount.Amount, &m.MaxAmount.Amount, &m.SortOrder,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return PaymentMethod{}, ErrNotFound
	}
	if err != nil {
		return PaymentMethod{}, err
	}
	m.MinAmount.Currency = types.DefaultCurrency
	m.MaxAmount.Currency = types.DefaultCurrency
	return m, nil
}

func (s *Store) ActivePaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+methodColumns+`
		FROM payment_methods
		WHERE is_active
		ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PaymentMethod
	for rows.Next() {
		m, err := scanMethod(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) PaymentMethodByID(ctx context.Context, id types.ID) (PaymentMethod, error) {
	return scanMethod(s.db.QueryRow(ctx, `
		SELECT `+methodColumns+`
		FROM payment_methods
		WHERE id = $1`, int64(id)))
}
