// README: Calculator handler tests (DB-backed, skip without TAXIGO_TEST_DSN).
package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxigo/internal/http/handlers"
	"taxigo/internal/modules/catalog"
	"taxigo/internal/modules/fleet"
	"taxigo/internal/modules/pricing"
)

func newSiteRouter(t *testing.T) (*gin.Engine, int64) {
	t.Helper()

	dsn := os.Getenv("TAXIGO_TEST_DSN")
	if dsn == "" {
		t.Skip("TAXIGO_TEST_DSN not set; skipping DB-backed handler tests")
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

	var retiredID int64
	if _, err := db.Exec(ctx, `
		INSERT INTO tariffs (name, label, base_price, price_per_km, price_per_minute, is_active)
		VALUES ('economy', 'Эконом', 10000, 2000, 500, TRUE)`); err != nil {
		t.Fatalf("seed tariff: %v", err)
	}
	if err := db.QueryRow(ctx, `
		INSERT INTO tariffs (name, label, base_price, price_per_km, price_per_minute, is_active)
		VALUES ('retired', 'Старый', 5000, 1000, 100, FALSE)
		RETURNING id`).Scan(&retiredID); err != nil {
		t.Fatalf("seed retired tariff: %v", err)
	}

	h := handlers.NewSiteHandler(
		catalog.NewService(catalog.NewStore(db), nil),
		pricing.NewService(),
		fleet.NewService(fleet.NewStore(db), nil),
	)
	r := gin.New()
	r.GET("/calculate/", h.Calculate)
	return r, retiredID
}

func TestCalculateQuotesActiveTariff(t *testing.T) {
	r, _ := newSiteRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/calculate/?tariff=economy&distance=10", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"quote"`) {
		t.Errorf("body = %s, want a quote", w.Body.String())
	}
}

// Retired tariffs are not quotable, whether selected by id or by name.
func TestCalculateRejectsInactiveTariff(t *testing.T) {
	r, retiredID := newSiteRouter(t)

	for _, selector := range []string{strconv.FormatInt(retiredID, 10), "retired"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/calculate/?tariff="+selector+"&distance=10", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("selector %q: status = %d, want 404", selector, w.Code)
		}
	}
}

func TestCalculateRejectsBadDistance(t *testing.T) {
	r, _ := newSiteRouter(t)

	for _, dist := range []string{"abc", "0", "-2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/calculate/?tariff=economy&distance="+dist, nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("distance %q: status = %d, want 400", dist, w.Code)
		}
	}
}
