// README: Customer store backed by PostgreSQL.
package customer

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxigo/internal/infra"
	"taxigo/internal/types"
)

var ErrNotFound = errors.New("customer not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const customerColumns = `id, phone, name, password_hash, registered_at, total_orders, total_spent`

func scanCustomer(row pgx.Row) (Customer, error) {
	var c Customer
	err := row.Scan(
		&c.ID, &c.Phone, &c.Name, &c.PasswordHash,
		&c.RegisteredAt, &c.TotalOrders, &c.TotalSpent.Amount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, ErrNotFound
	}
	if err != nil {
		return Customer{}, err
	}
	c.TotalSpent.Currency = types.DefaultCurrency
	return c, nil
}

func (s *Store) Get(ctx context.Context, id types.ID) (Customer, error) {
	return scanCustomer(s.db.QueryRow(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE id = $1`, int64(id)))
}

func (s *Store) GetByPhone(ctx context.Context, phone string) (Customer, error) {
	return scanCustomer(s.db.QueryRow(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE phone = $1`, phone))
}

// RecordOrder upserts the customer by phone and bumps the running totals in
// one statement, so the counters are incremented exactly once per created
// order with no read-modify-write window. Runs on the booking transaction.
func (s *Store) RecordOrder(ctx context.Context, q infra.Querier, phone, name string, price types.Money) (types.ID, error) {
	var id types.ID
	err := q.QueryRow(ctx, `
		INSERT INTO customers (phone, name, total_orders, total_spent)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (phone) DO UPDATE
		SET total_orders = customers.total_orders + 1,
		    total_spent  = customers.total_spent + EXCLUDED.total_spent,
		    name         = CASE WHEN customers.name = '' THEN EXCLUDED.name ELSE customers.name END
		RETURNING id`,
		phone, name, price.Amount,
	).Scan(&id)
	return id, err
}

// SetCredentials attaches a password hash to the customer row.
func (s *Store) SetCredentials(ctx context.Context, phone, name, passwordHash string) (types.ID, error) {
	var id types.ID
	err := s.db.QueryRow(ctx, `
		INSERT INTO customers (phone, name, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (phone) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    name          = CASE WHEN EXCLUDED.name = '' THEN customers.name ELSE EXCLUDED.name END
		WHERE customers.password_hash = ''
		RETURNING id`,
		phone, name, passwordHash,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		// Conflict row already carries credentials.
		return 0, ErrPhoneTaken
	}
	return id, err
}
