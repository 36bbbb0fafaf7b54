// README: Review service; submission and driver rating recompute.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taxigo/internal/infra"
	"taxigo/internal/modules/order"
	"taxigo/internal/observability"
	"taxigo/internal/types"
)

var (
	ErrNotFound        = errors.New("review not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrNoDriver        = errors.New("order has no assigned driver")
	ErrBadRequest      = errors.New("bad request")
	ErrAlreadyReviewed = errors.New("order already reviewed")
)

// IsExpected reports whether err maps to a user-facing status.
func IsExpected(err error) bool {
	for _, e := range []error{ErrNotFound, ErrOrderNotFound, ErrNoDriver, ErrBadRequest, ErrAlreadyReviewed} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

type Orders interface {
	Get(ctx context.Context, id types.ID) (*order.Order, error)
}

type RatingSink interface {
	SetRating(ctx context.Context, q infra.Querier, id types.ID, rating float64) error
}

type Service struct {
	store  *Store
	orders Orders
	fleet  RatingSink
}

func NewService(store *Store, orders Orders, fleet RatingSink) *Service {
	return &Service{store: store, orders: orders, fleet: fleet}
}

type SubmitCommand struct {
	OrderID types.ID
	Rating  int
	Comment string
}

// Submit creates the review for an order and recomputes its driver's rating
// in the same transaction. Orders without a driver are rejected explicitly
// rather than dropped.
func (s *Service) Submit(ctx context.Context, cmd SubmitCommand) (*Review, error) {
	if cmd.Rating < 1 || cmd.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be 1..5", ErrBadRequest)
	}

	o, err := s.orders.Get(ctx, cmd.OrderID)
	if errors.Is(err, order.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.DriverID == nil {
		return nil, ErrNoDriver
	}

	r := &Review{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		DriverID:   *o.DriverID,
		Rating:     cmd.Rating,
		Comment:    strings.TrimSpace(cmd.Comment),
		Approved:   true,
		CreatedAt:  time.Now(),
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin review tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.store.Create(ctx, tx, r); err != nil {
		return nil, err
	}
	if err := s.recompute(ctx, tx, r.DriverID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit review tx: %w", err)
	}

	observability.ReviewsSubmitted.Inc()
	return r, nil
}

func (s *Service) GetByOrder(ctx context.Context, orderID types.ID) (*Review, error) {
	return s.store.GetByOrder(ctx, orderID)
}

func (s *Service) ListApproved(ctx context.Context, limit int) ([]*Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.ListApproved(ctx, limit)
}

// SetApproved flips the administrative flag and re-aggregates the driver
// rating, since only approved reviews count.
func (s *Service) SetApproved(ctx context.Context, id types.ID, approved bool) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin approve tx: %w", err)
	}
	defer tx.Rollback(ctx)

	driverID, err := s.store.SetApproved(ctx, tx, id, approved)
	if err != nil {
		return err
	}
	if err := s.recompute(ctx, tx, driverID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Service) recompute(ctx context.Context, q infra.Querier, driverID types.ID) error {
	mean, count, err := s.store.ApprovedMean(ctx, q, driverID)
	if err != nil {
		return fmt.Errorf("aggregate reviews: %w", err)
	}
	if err := s.fleet.SetRating(ctx, q, driverID, aggregate(mean, count)); err != nil {
		return fmt.Errorf("set driver rating: %w", err)
	}
	return nil
}
