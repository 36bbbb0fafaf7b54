// README: Order service implements the booking and payment flows.
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"taxigo/internal/infra"
	"taxigo/internal/modules/catalog"
	"taxigo/internal/modules/fleet"
	"taxigo/internal/observability"
	"taxigo/internal/types"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("order not found")
	ErrTariffUnknown  = errors.New("tariff not found")
	ErrMethodUnknown  = errors.New("payment method not found")
	ErrConflict       = errors.New("order state conflict")
	ErrInvalidState   = errors.New("invalid state transition")
	ErrPaymentMissing = errors.New("payment record missing")
	ErrAlreadyPaid    = errors.New("payment already completed")
	ErrPaymentFailed  = errors.New("payment charge failed")
)

type Catalog interface {
	TariffByID(ctx context.Context, id types.ID) (catalog.Tariff, error)
	PaymentMethodByID(ctx context.Context, id types.ID) (catalog.PaymentMethod, error)
}

type Pricing interface {
	Quote(t catalog.Tariff, distanceKm, estimatedMin float64) types.Money
	EstimateMinutes(distanceKm float64) float64
}

type Fleet interface {
	ReserveAvailable(ctx context.Context, q infra.Querier, tariffID types.ID) (fleet.Driver, error)
	Release(ctx context.Context, q infra.Querier, id types.ID) error
}

type Customers interface {
	RecordOrder(ctx context.Context, q infra.Querier, phone, name string, price types.Money) (types.ID, error)
}

// Gateway charges a completed ride and returns an opaque transaction id.
type Gateway interface {
	Charge(ctx context.Context, amount types.Money, orderID types.ID) (string, error)
}

// Publisher ships order events to the message bus; failures are logged,
// never surfaced to the caller.
type Publisher interface {
	PublishOrderEvent(ctx context.Context, e Event) error
}

type Service struct {
	store     *Store
	catalog   Catalog
	pricing   Pricing
	fleet     Fleet
	customers Customers
	gateway   Gateway
	publisher Publisher
	log       *zap.Logger
}

type Deps struct {
	Catalog   Catalog
	Pricing   Pricing
	Fleet     Fleet
	Customers Customers
	Gateway   Gateway
	Publisher Publisher
	Logger    *zap.Logger
}

func NewService(store *Store, deps Deps) *Service {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:     store,
		catalog:   deps.Catalog,
		pricing:   deps.Pricing,
		fleet:     deps.Fleet,
		customers: deps.Customers,
		gateway:   deps.Gateway,
		publisher: deps.Publisher,
		log:       log,
	}
}

type CreateCommand struct {
	CustomerName    string
	CustomerPhone   string
	PickupAddress   string
	Destination     string
	TariffID        types.ID
	PaymentMethodID types.ID
	DistanceKm      float64
	EstimatedMin    float64 // 0 means derive from distance
}

// Create runs the booking flow: validate, resolve catalog references, price,
// match a driver, and persist order + pending payment + customer totals in
// one transaction. No partial state survives a failure at any step.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Order, error) {
	if err := validateCreate(cmd); err != nil {
		return nil, err
	}

	tariff, err := s.catalog.TariffByID(ctx, cmd.TariffID)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, ErrTariffUnknown
	}
	if err != nil {
		return nil, fmt.Errorf("resolve tariff: %w", err)
	}
	if !tariff.Active {
		return nil, ErrTariffUnknown
	}

	method, err := s.catalog.PaymentMethodByID(ctx, cmd.PaymentMethodID)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, ErrMethodUnknown
	}
	if err != nil {
		return nil, fmt.Errorf("resolve payment method: %w", err)
	}
	if !method.Active {
		return nil, ErrMethodUnknown
	}

	minutes := cmd.EstimatedMin
	if minutes <= 0 {
		minutes = s.pricing.EstimateMinutes(cmd.DistanceKm)
	}
	price := s.pricing.Quote(tariff, cmd.DistanceKm, minutes)
	if !method.Allows(price) {
		return nil, fmt.Errorf("%w: price %s outside %s bounds", ErrValidation, price, method.Name)
	}

	now := time.Now()
	o := &Order{
		CustomerName:    strings.TrimSpace(cmd.CustomerName),
		CustomerPhone:   strings.TrimSpace(cmd.CustomerPhone),
		PickupAddress:   strings.TrimSpace(cmd.PickupAddress),
		Destination:     strings.TrimSpace(cmd.Destination),
		TariffID:        tariff.ID,
		DistanceKm:      cmd.DistanceKm,
		EstimatedMin:    minutes,
		Price:           price,
		PaymentMethodID: method.ID,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin booking tx: %w", err)
	}
	defer tx.Rollback(ctx)

	driver, err := s.fleet.ReserveAvailable(ctx, tx, tariff.ID)
	switch {
	case err == nil:
		o.DriverID = &driver.ID
		o.Status = StatusAccepted
	case errors.Is(err, fleet.ErrNoDriver):
		// No eligible driver: the order stays pending with no driver.
	default:
		return nil, fmt.Errorf("reserve driver: %w", err)
	}

	customerID, err := s.customers.RecordOrder(ctx, tx, o.CustomerPhone, o.CustomerName, price)
	if err != nil {
		return nil, fmt.Errorf("record customer: %w", err)
	}
	o.CustomerID = &customerID

	if err := s.store.CreateOrder(ctx, tx, o); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	payment := &Payment{
		OrderID:   o.ID,
		Amount:    price,
		MethodID:  method.ID,
		Status:    PaymentPending,
		CreatedAt: now,
	}
	if err := s.store.CreatePayment(ctx, tx, payment); err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	event := &Event{OrderID: o.ID, FromStatus: StatusNone, ToStatus: o.Status, Actor: "customer", CreatedAt: now}
	if err := s.store.AppendEvent(ctx, tx, event); err != nil {
		return nil, fmt.Errorf("append event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking tx: %w", err)
	}

	observability.OrdersCreated.WithLabelValues(string(o.Status)).Inc()
	if o.DriverID != nil {
		observability.DriversReserved.Inc()
	}
	s.publish(ctx, *event)
	return o, nil
}

// ConfirmPayment runs the payment flow: payment -> completed with a fresh
// transaction id, order -> completed, assigned driver -> available. The
// payment is claimed (pending -> processing) before the gateway charge, so
// only one confirmation per order ever reaches the gateway; the remaining
// mutations share one transaction.
func (s *Service) ConfirmPayment(ctx context.Context, orderID types.ID) (*Payment, error) {
	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == StatusCompleted {
		return nil, ErrAlreadyPaid
	}
	if !CanTransition(o.Status, StatusCompleted) {
		return nil, ErrInvalidState
	}

	p, err := s.store.ClaimPayment(ctx, orderID)
	if err != nil {
		return nil, err
	}

	transactionID, err := s.gateway.Charge(ctx, p.Amount, orderID)
	if err != nil {
		s.log.Error("payment charge failed",
			zap.Int64("order_id", int64(orderID)), zap.Error(err))
		if mErr := s.store.MarkPaymentFailed(ctx, orderID); mErr != nil {
			s.log.Error("mark payment failed", zap.Error(mErr))
		}
		return nil, ErrPaymentFailed
	}

	now := time.Now()
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin payment tx: %w", err)
	}
	defer tx.Rollback(ctx)

	ok, err := s.store.CompletePayment(ctx, tx, orderID, transactionID, now)
	if err != nil {
		return nil, fmt.Errorf("complete payment: %w", err)
	}
	if !ok {
		return nil, ErrConflict
	}

	ok, err = s.store.UpdateStatus(ctx, tx, orderID, o.Status, StatusCompleted, true, now)
	if err != nil {
		return nil, fmt.Errorf("complete order: %w", err)
	}
	if !ok {
		return nil, ErrConflict
	}

	if o.DriverID != nil {
		if err := s.fleet.Release(ctx, tx, *o.DriverID); err != nil {
			return nil, fmt.Errorf("release driver: %w", err)
		}
	}

	event := &Event{OrderID: orderID, FromStatus: o.Status, ToStatus: StatusCompleted, Actor: "system", CreatedAt: now}
	if err := s.store.AppendEvent(ctx, tx, event); err != nil {
		return nil, fmt.Errorf("append event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit payment tx: %w", err)
	}

	observability.PaymentsCompleted.Inc()
	s.publish(ctx, *event)

	p.Status = PaymentCompleted
	p.TransactionID = transactionID
	p.PaidAt = &now
	return p, nil
}

// Cancel moves a live order to cancelled and frees the driver, if any.
func (s *Service) Cancel(ctx context.Context, orderID types.ID, actor string) error {
	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if !CanTransition(o.Status, StatusCancelled) {
		return ErrInvalidState
	}

	now := time.Now()
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin cancel tx: %w", err)
	}
	defer tx.Rollback(ctx)

	ok, err := s.store.UpdateStatus(ctx, tx, orderID, o.Status, StatusCancelled, false, now)
	if err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}
	if !ok {
		return ErrConflict
	}
	if o.DriverID != nil {
		if err := s.fleet.Release(ctx, tx, *o.DriverID); err != nil {
			return fmt.Errorf("release driver: %w", err)
		}
	}
	event := &Event{OrderID: orderID, FromStatus: o.Status, ToStatus: StatusCancelled, Actor: actor, CreatedAt: now}
	if err := s.store.AppendEvent(ctx, tx, event); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit cancel tx: %w", err)
	}
	s.publish(ctx, *event)
	return nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Order, error) {
	return s.store.GetOrder(ctx, id)
}

func (s *Service) GetPayment(ctx context.Context, orderID types.ID) (*Payment, error) {
	if _, err := s.store.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.store.GetPayment(ctx, orderID)
}

func (s *Service) ListRecent(ctx context.Context, limit int) ([]*Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.ListRecent(ctx, limit)
}

func (s *Service) publish(ctx context.Context, e Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderEvent(ctx, e); err != nil {
		s.log.Warn("publish order event",
			zap.Int64("order_id", int64(e.OrderID)), zap.Error(err))
	}
}

// IsExpected reports whether err maps to a user-facing status rather than
// a storage failure worth logging with cause.
func IsExpected(err error) bool {
	for _, e := range []error{
		ErrValidation, ErrNotFound, ErrTariffUnknown, ErrMethodUnknown,
		ErrConflict, ErrInvalidState, ErrPaymentMissing, ErrAlreadyPaid, ErrPaymentFailed,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

func validateCreate(cmd CreateCommand) error {
	required := []struct {
		field string
		ok    bool
	}{
		{"customer_name", strings.TrimSpace(cmd.CustomerName) != ""},
		{"customer_phone", strings.TrimSpace(cmd.CustomerPhone) != ""},
		{"pickup_address", strings.TrimSpace(cmd.PickupAddress) != ""},
		{"destination", strings.TrimSpace(cmd.Destination) != ""},
		{"tariff_id", cmd.TariffID > 0},
		{"payment_method_id", cmd.PaymentMethodID > 0},
		{"distance_km", cmd.DistanceKm > 0},
	}
	for _, r := range required {
		if !r.ok {
			return fmt.Errorf("%w: %s", ErrValidation, r.field)
		}
	}
	return nil
}
