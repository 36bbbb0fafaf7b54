// README: Customer registry tests (DB-backed parts skip without TAXIGO_TEST_DSN).
package customer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"taxigo/internal/modules/customer"
	"taxigo/internal/types"
)

// Input checks run before any store access.
func TestRegisterValidation(t *testing.T) {
	svc := customer.NewService(nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "", "Иван", "secret123"); !errors.Is(err, customer.ErrBadRequest) {
		t.Errorf("empty phone: err = %v, want ErrBadRequest", err)
	}
	if _, err := svc.Register(ctx, "+79001234567", "Иван", "short"); !errors.Is(err, customer.ErrBadRequest) {
		t.Errorf("short password: err = %v, want ErrBadRequest", err)
	}
}

func setupStore(t *testing.T) (*customer.Store, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("TAXIGO_TEST_DSN")
	if dsn == "" {
		t.Skip("TAXIGO_TEST_DSN not set; skipping DB-backed customer tests")
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
	return customer.NewStore(db), db
}

func TestRecordOrderBumpsTotals(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()
	price := types.Money{Amount: 30417, Currency: types.DefaultCurrency}

	id1, err := store.RecordOrder(ctx, db, "+79001234567", "Иван", price)
	if err != nil {
		t.Fatalf("first order: %v", err)
	}
	id2, err := store.RecordOrder(ctx, db, "+79001234567", "", price)
	if err != nil {
		t.Fatalf("second order: %v", err)
	}
	if id1 != id2 {
		t.Errorf("ids differ: %d vs %d", id1, id2)
	}

	c, err := store.Get(ctx, id1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if c.TotalOrders != 2 {
		t.Errorf("total orders = %d, want 2", c.TotalOrders)
	}
	if c.TotalSpent.Amount != 60834 {
		t.Errorf("total spent = %d, want 60834", c.TotalSpent.Amount)
	}
	if c.Name != "Иван" {
		t.Errorf("name = %q, want kept from first order", c.Name)
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	store, _ := setupStore(t)
	svc := customer.NewService(store)
	ctx := context.Background()

	id, err := svc.Register(ctx, "+79001234567", "Иван", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if id == 0 {
		t.Fatal("register returned zero id")
	}

	c, err := svc.Authenticate(ctx, "+79001234567", "secret123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if c.ID != id {
		t.Errorf("id = %d, want %d", c.ID, id)
	}

	if _, err := svc.Authenticate(ctx, "+79001234567", "wrong"); !errors.Is(err, customer.ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate(ctx, "+70000000000", "secret123"); !errors.Is(err, customer.ErrInvalidCredentials) {
		t.Errorf("unknown phone: err = %v, want ErrInvalidCredentials", err)
	}

	// A second registration for the same phone is rejected.
	if _, err := svc.Register(ctx, "+79001234567", "Пётр", "another1"); !errors.Is(err, customer.ErrPhoneTaken) {
		t.Errorf("duplicate register: err = %v, want ErrPhoneTaken", err)
	}
}

// A guest row created by a booking can be claimed once.
func TestRegisterClaimsGuestRow(t *testing.T) {
	store, db := setupStore(t)
	svc := customer.NewService(store)
	ctx := context.Background()

	guestID, err := store.RecordOrder(ctx, db, "+79001234567", "Иван",
		types.Money{Amount: 20000, Currency: types.DefaultCurrency})
	if err != nil {
		t.Fatalf("record order: %v", err)
	}

	id, err := svc.Register(ctx, "+79001234567", "", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if id != guestID {
		t.Errorf("claimed id = %d, want guest row %d", id, guestID)
	}

	c, err := svc.Authenticate(ctx, "+79001234567", "secret123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if c.TotalOrders != 1 {
		t.Errorf("guest history lost: total orders = %d, want 1", c.TotalOrders)
	}
}
