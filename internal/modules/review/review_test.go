// README: Review flow tests (DB-backed, skip without TAXIGO_TEST_DSN).
package review_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"taxigo/internal/modules/fleet"
	"taxigo/internal/modules/order"
	"taxigo/internal/modules/review"
	"taxigo/internal/types"
)

type fixture struct {
	db       *pgxpool.Pool
	svc      *review.Service
	driverID types.ID
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := os.Getenv("TAXIGO_TEST_DSN")
	if dsn == "" {
		t.Skip("TAXIGO_TEST_DSN not set; skipping DB-backed review tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "001_init.sql"))
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if _, err := db.Exec(ctx, string(schema)); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
	if _, err := db.Exec(ctx, `
		TRUNCATE TABLE reviews, order_events, payments, orders,
			driver_tariffs, drivers, customers, payment_methods, tariffs
		RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	if _, err := db.Exec(ctx, `
		INSERT INTO tariffs (name, label, base_price, price_per_km, price_per_minute)
		VALUES ('economy', 'Эконом', 10000, 2000, 500)`); err != nil {
		t.Fatalf("seed tariff: %v", err)
	}
	if _, err := db.Exec(ctx, `
		INSERT INTO payment_methods (name, label) VALUES ('cash', 'Наличные')`); err != nil {
		t.Fatalf("seed method: %v", err)
	}
	var driverID int64
	if err := db.QueryRow(ctx, `
		INSERT INTO drivers (name, car_model) VALUES ('Сергей', 'Lada Vesta')
		RETURNING id`).Scan(&driverID); err != nil {
		t.Fatalf("seed driver: %v", err)
	}

	orders := order.NewService(order.NewStore(db), order.Deps{})
	svc := review.NewService(review.NewStore(db), orders, fleet.NewStore(db))
	return &fixture{db: db, svc: svc, driverID: types.ID(driverID)}
}

// completedOrder inserts a completed order assigned to the fixture driver.
func (f *fixture) completedOrder(t *testing.T) types.ID {
	t.Helper()
	var id int64
	err := f.db.QueryRow(context.Background(), `
		INSERT INTO orders (customer_name, customer_phone, pickup_address, destination,
			tariff_id, driver_id, distance_km, estimated_minutes, price, payment_method_id,
			is_paid, status)
		VALUES ('Иван', '+79001234567', 'ул. Ленина, 1', 'пр. Мира, 10',
			1, $1, 10, 50, 30417, 1, TRUE, 'completed')
		RETURNING id`, int64(f.driverID)).Scan(&id)
	if err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return types.ID(id)
}

func (f *fixture) driverRating(t *testing.T) float64 {
	t.Helper()
	var rating float64
	if err := f.db.QueryRow(context.Background(), `
		SELECT rating FROM drivers WHERE id = $1`, int64(f.driverID)).Scan(&rating); err != nil {
		t.Fatalf("driver rating: %v", err)
	}
	return rating
}

func TestSubmitRecomputesRating(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	r, err := f.svc.Submit(ctx, review.SubmitCommand{
		OrderID: f.completedOrder(t),
		Rating:  4,
		Comment: "  Быстро и вежливо  ",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if r.DriverID != f.driverID {
		t.Errorf("driver = %d, want %d", r.DriverID, f.driverID)
	}
	if r.Comment != "Быстро и вежливо" {
		t.Errorf("comment = %q, want trimmed", r.Comment)
	}
	if !r.Approved {
		t.Error("review should be approved by default")
	}
	if got := f.driverRating(t); got != 4.0 {
		t.Errorf("rating = %v, want 4.0", got)
	}

	// Second review from another ride moves the mean, rounded to one decimal.
	if _, err := f.svc.Submit(ctx, review.SubmitCommand{
		OrderID: f.completedOrder(t),
		Rating:  5,
	}); err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if got := f.driverRating(t); got != 4.5 {
		t.Errorf("rating = %v, want 4.5", got)
	}
}

func TestSubmitRejections(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Submit(ctx, review.SubmitCommand{OrderID: 1, Rating: 0}); !errors.Is(err, review.ErrBadRequest) {
		t.Errorf("rating 0: err = %v, want ErrBadRequest", err)
	}
	if _, err := f.svc.Submit(ctx, review.SubmitCommand{OrderID: 1, Rating: 6}); !errors.Is(err, review.ErrBadRequest) {
		t.Errorf("rating 6: err = %v, want ErrBadRequest", err)
	}
	if _, err := f.svc.Submit(ctx, review.SubmitCommand{OrderID: 424242, Rating: 5}); !errors.Is(err, review.ErrOrderNotFound) {
		t.Errorf("unknown order: err = %v, want ErrOrderNotFound", err)
	}

	// Order that never got a driver cannot be reviewed.
	var noDriverOrder int64
	if err := f.db.QueryRow(ctx, `
		INSERT INTO orders (customer_name, customer_phone, pickup_address, destination,
			tariff_id, distance_km, estimated_minutes, price, payment_method_id, status)
		VALUES ('Иван', '+79001234567', 'a', 'b', 1, 5, 25, 20000, 1, 'pending')
		RETURNING id`).Scan(&noDriverOrder); err != nil {
		t.Fatalf("seed order: %v", err)
	}
	if _, err := f.svc.Submit(ctx, review.SubmitCommand{OrderID: types.ID(noDriverOrder), Rating: 5}); !errors.Is(err, review.ErrNoDriver) {
		t.Errorf("no driver: err = %v, want ErrNoDriver", err)
	}
}

func TestSubmitDuplicateRejected(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	orderID := f.completedOrder(t)

	if _, err := f.svc.Submit(ctx, review.SubmitCommand{OrderID: orderID, Rating: 5}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.svc.Submit(ctx, review.SubmitCommand{OrderID: orderID, Rating: 1}); !errors.Is(err, review.ErrAlreadyReviewed) {
		t.Errorf("err = %v, want ErrAlreadyReviewed", err)
	}
	// The rejected duplicate must not move the rating.
	if got := f.driverRating(t); got != 5.0 {
		t.Errorf("rating = %v, want 5.0", got)
	}
}

func TestSetApprovedRecomputes(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	r, err := f.svc.Submit(ctx, review.SubmitCommand{OrderID: f.completedOrder(t), Rating: 2})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := f.driverRating(t); got != 2.0 {
		t.Errorf("rating = %v, want 2.0", got)
	}

	// Unapproving the only review restores the default rating.
	if err := f.svc.SetApproved(ctx, r.ID, false); err != nil {
		t.Fatalf("unapprove: %v", err)
	}
	if got := f.driverRating(t); got != 5.0 {
		t.Errorf("rating after unapprove = %v, want 5.0", got)
	}

	reviews, err := f.svc.ListApproved(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reviews) != 0 {
		t.Errorf("approved reviews = %d, want 0", len(reviews))
	}

	if err := f.svc.SetApproved(ctx, 424242, true); !errors.Is(err, review.ErrNotFound) {
		t.Errorf("unknown review: err = %v, want ErrNotFound", err)
	}
}
