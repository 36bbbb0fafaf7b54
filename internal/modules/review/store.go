// README: Review store backed by PostgreSQL.
package review

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	return s.db.Begin(ctx)
}

func (s *Store) Create(ctx context.Context, q infra.Querier, r *Review) error {
	err := q.QueryRow(ctx, `
		INSERT INTO reviews (order_id, customer_id, driver_id, rating, comment, is_approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		int64(r.OrderID), idPtr(r.CustomerID), int64(r.DriverID),
		r.Rating, r.Comment, r.Approved, r.CreatedAt,
	).Scan(&r.ID)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyReviewed
	}
	return err
}

// ApprovedMean returns the average rating over approved reviews for the
// driver and how many rows contributed.
func (s *Store) ApprovedMean(ctx context.Context, q infra.Querier, driverID types.ID) (float64, int, error) {
	var mean float64
	var count int
	err := q.QueryRow(ctx, `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews
		WHERE driver_id = $1 AND is_approved`, int64(driverID),
	).Scan(&mean, &count)
	return mean, count, err
}

const reviewColumns = `id, order_id, customer_id, driver_id, rating, comment, is_approved, created_at`

func scanReview(row pgx.Row) (*Review, error) {
	var r Review
	var customerID *int64
	err := row.Scan(&r.ID, &r.OrderID, &customerID, &r.DriverID, &r.Rating, &r.Comment, &r.Approved, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if customerID != nil {
		id := types.ID(*customerID)
		r.CustomerID = &id
	}
	return &r, nil
}

func (s *Store) GetByOrder(ctx context.Context, orderID types.ID) (*Review, error) {
	return scanReview(s.db.QueryRow(ctx, `
		SELECT `+reviewColumns+`
		FROM reviews
		WHERE order_id = $1`, int64(orderID)))
}

func (s *Store) ListApproved(ctx context.Context, limit int) ([]*Review, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+reviewColumns+`
		FROM reviews
		WHERE is_approved
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SetApproved flips the administrative approval flag and reports the
// affected driver so the caller can recompute its rating.
func (s *Store) SetApproved(ctx context.Context, q infra.Querier, id types.ID, approved bool) (types.ID, error) {
	var driverID types.ID
	err := q.QueryRow(ctx, `
		UPDATE reviews
		SET is_approved = $1
		WHERE id = $2
		RETURNING driver_id`, approved, int64(id),
	).Scan(&driverID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return driverID, err
}

func idPtr(v *types.ID) *int64 {
	if v == nil {
		return nil
	}
	n := int64(*v)
	return &n
}
