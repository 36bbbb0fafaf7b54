// README: Order and payment store backed by PostgreSQL.
package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxigo/internal/infra"
	"taxigo/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Begin opens the transaction that a multi-step flow (booking, payment
// confirmation) runs on.
func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	return s.db.Begin(ctx)
}

func (s *Store) CreateOrder(ctx context.Context, q infra.Querier, o *Order) error {
	return q.QueryRow(ctx, `
		INSERT INTO orders (
			customer_id, customer_name, customer_phone, pickup_address, destination,
			tariff_id, driver_id, distance_km, estimated_minutes, price,
			payment_method_id, is_paid, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13, $14, $14
		)
		RETURNING id`,
		idPtr(o.CustomerID), o.CustomerName, o.CustomerPhone, o.PickupAddress, o.Destination,
		int64(o.TariffID), idPtr(o.DriverID), o.DistanceKm, o.EstimatedMin, o.Price.Amount,
		int64(o.PaymentMethodID), o.Paid, string(o.Status), o.CreatedAt,
	).Scan(&o.ID)
}

func (s *Store) CreatePayment(ctx context.Context, q infra.Querier, p *Payment) error {
	return q.QueryRow(ctx, `
		INSERT INTO payments (order_id, amount, method_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		int64(p.OrderID), p.Amount.Amount, int64(p.MethodID), string(p.Status), p.CreatedAt,
	).Scan(&p.ID)
}

const orderColumns = `id, customer_id, customer_name, customer_phone, pickup_address, destination,
	tariff_id, driver_id, distance_km, estimated_minutes, price,
	payment_method_id, is_paid, status, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var customerID, driverID *int64
	err := row.Scan(
		&o.ID, &customerID, &o.CustomerName, &o.CustomerPhone, &o.PickupAddress, &o.Destination,
		&o.TariffID, &driverID, &o.DistanceKm, &o.EstimatedMin, &o.Price.Amount,
		&o.PaymentMethodID, &o.Paid, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	o.CustomerID = toID(customerID)
	o.DriverID = toID(driverID)
	o.Price.Currency = types.DefaultCurrency
	return &o, nil
}

func (s *Store) GetOrder(ctx context.Context, id types.ID) (*Order, error) {
	return scanOrder(s.db.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1`, int64(id)))
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]*Order, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

const paymentColumns = `id, order_id, amount, method_id, status, transaction_id, created_at, paid_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	var paidAt *time.Time
	err := row.Scan(&p.ID, &p.OrderID, &p.Amount.Amount, &p.MethodID, &p.Status, &p.TransactionID, &p.CreatedAt, &paidAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPaymentMissing
	}
	if err != nil {
		return nil, err
	}
	p.PaidAt = paidAt
	p.Amount.Currency = types.DefaultCurrency
	return &p, nil
}

func (s *Store) GetPayment(ctx context.Context, orderID types.ID) (*Payment, error) {
	return scanPayment(s.db.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE order_id = $1`, int64(orderID)))
}

// ClaimPayment flips a pending payment to processing and returns it. The CAS
// admits exactly one confirmation per order: a concurrent claimer observes
// zero rows and gets the current status mapped to a typed error instead.
func (s *Store) ClaimPayment(ctx context.Context, orderID types.ID) (*Payment, error) {
	p, err := scanPayment(s.db.QueryRow(ctx, `
		UPDATE payments
		SET status = 'processing'
		WHERE order_id = $1 AND status = 'pending'
		RETURNING `+paymentColumns, int64(orderID)))
	if !errors.Is(err, ErrPaymentMissing) {
		return p, err
	}
	// No pending row: either the payment record is absent or another
	// confirmation already took it past pending.
	if _, gErr := s.GetPayment(ctx, orderID); gErr != nil {
		return nil, gErr
	}
	return nil, ErrAlreadyPaid
}

// CompletePayment flips a claimed (processing) payment to completed and
// assigns the transaction id. Zero rows affected means the claim was lost.
func (s *Store) CompletePayment(ctx context.Context, q infra.Querier, orderID types.ID, transactionID string, at time.Time) (bool, error) {
	tag, err := q.Exec(ctx, `
		UPDATE payments
		SET status = 'completed', transaction_id = $1, paid_at = $2
		WHERE order_id = $3 AND status = 'processing'`,
		transactionID, at, int64(orderID))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) MarkPaymentFailed(ctx context.Context, orderID types.ID) error {
	_, err := s.db.Exec(ctx, `
		UPDATE payments
		SET status = 'failed'
		WHERE order_id = $1 AND status = 'processing'`, int64(orderID))
	return err
}

// UpdateStatus is a compare-and-swap on the order status; zero rows
// affected signals a concurrent transition.
func (s *Store) UpdateStatus(ctx context.Context, q infra.Querier, id types.ID, from, to Status, paid bool, at time.Time) (bool, error) {
	tag, err := q.Exec(ctx, `
		UPDATE orders
		SET status = $1, is_paid = is_paid OR $2, updated_at = $3
		WHERE id = $4 AND status = $5`,
		string(to), paid, at, int64(id), string(from))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) AppendEvent(ctx context.Context, q infra.Querier, e *Event) error {
	_, err := q.Exec(ctx, `
		INSERT INTO order_events (order_id, from_status, to_status, actor, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		int64(e.OrderID), string(e.FromStatus), string(e.ToStatus), e.Actor, e.CreatedAt)
	return err
}

func idPtr(v *types.ID) *int64 {
	if v == nil {
		return nil
	}
	n := int64(*v)
	return &n
}

func toID(v *int64) *types.ID {
	if v == nil {
		return nil
	}
	id := types.ID(*v)
	return &id
}
