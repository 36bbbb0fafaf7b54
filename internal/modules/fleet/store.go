// README: Fleet store backed by PostgreSQL; reserve/release are single atomic updates.
package fleet

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxigo/internal/infra"
	"taxigo/internal/types"
)

var (
	ErrNotFound = errors.New("driver not found")
	// ErrNoDriver means no available driver offers the requested tariff.
	ErrNoDriver = errors.New("no driver available")
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const driverColumns = `id, name, car_model, car_number, phone, rating, experience,
	has_child_seat, has_cargo_space, max_passengers, status`

func scanDriver(row pgx.Row) (Driver, error) {
	var d Driver
	err := row.Scan(
		&d.ID, &d.Name, &d.CarModel, &d.CarNumber, &d.Phone, &d.Rating, &d.Experience,
		&d.HasChildSeat, &d.HasCargoSpace, &d.MaxPassengers, &d.Status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Driver{}, ErrNotFound
	}
	return d, err
}

func (s *Store) Get(ctx context.Context, id types.ID) (Driver, error) {
	return scanDriver(s.db.QueryRow(ctx, `
		SELECT `+driverColumns+`
		FROM drivers
		WHERE id = $1`, int64(id)))
}

// List returns drivers ordered by rating; status filters when non-empty.
func (s *Store) List(ctx context.Context, status Status) ([]Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers ORDER BY rating DESC, id`
	args := []any{}
	if status != "" {
		query = `SELECT ` + driverColumns + ` FROM drivers WHERE status = $1 ORDER BY rating DESC, id`
		args = append(args, string(status))
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) CountByStatus(ctx context.Context) (Stats, error) {
	rows, err := s.db.Query(ctx, `SELECT status, COUNT(*) FROM drivers GROUP BY status`)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	var st Stats
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return Stats{}, err
		}
		switch Status(status) {
		case StatusAvailable:
			st.Available = n
		case StatusBusy:
			st.Busy = n
		case StatusOffline:
			st.Offline = n
		}
		st.Total += n
	}
	return st, rows.Err()
}

// ReserveAvailable atomically claims one available driver offering the
// tariff and flips it to busy. Two concurrent bookings cannot claim the same
// row: the inner select locks it, SKIP LOCKED steers the loser to the next
// candidate or to zero rows. Zero rows means no eligible driver.
func (s *Store) ReserveAvailable(ctx context.Context, q infra.Querier, tariffID types.ID) (Driver, error) {
	row := q.QueryRow(ctx, `
		UPDATE drivers
		SET status = 'busy'
		WHERE id = (
			SELECT d.id
			FROM drivers d
			JOIN driver_tariffs dt ON dt.driver_id = d.id
			WHERE d.status = 'available' AND dt.tariff_id = $1
			ORDER BY d.id
			FOR UPDATE OF d SKIP LOCKED
			LIMIT 1
		)
		RETURNING `+driverColumns, int64(tariffID))

	d, err := scanDriver(row)
	if errors.Is(err, ErrNotFound) {
		return Driver{}, ErrNoDriver
	}
	return d, err
}

// Release returns a busy driver to the matching pool. Releasing a driver
// that is not busy is a no-op, which keeps the call idempotent.
func (s *Store) Release(ctx context.Context, q infra.Querier, id types.ID) error {
	_, err := q.Exec(ctx, `
		UPDATE drivers
		SET status = 'available'
		WHERE id = $1 AND status = 'busy'`, int64(id))
	return err
}

// SetRating persists a recomputed rating.
func (s *Store) SetRating(ctx context.Context, q infra.Querier, id types.ID, rating float64) error {
	tag, err := q.Exec(ctx, `UPDATE drivers SET rating = $1 WHERE id = $2`, rating, int64(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Pool exposes the underlying pool for services that open transactions
// spanning fleet rows and other tables.
func (s *Store) Pool() *pgxpool.Pool {
	return s.db
}
