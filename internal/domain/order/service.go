package order

import (
	"context"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"github.com/xenking/floormaster/internal/domain/product"
	"github.com/xenking/floormaster/internal/domain/tax"
)

// ServiceConfig holds the optional collaborators of a Service.
type ServiceConfig struct {
	// Journal receives every successful add, edit and remove. Nil disables
	// auditing.
	Journal       Journal
	MeterProvider metric.MeterProvider
	Logger        *zap.Logger
}

// Service orchestrates the store, validator and calculator and enforces key
// uniqueness and existence.
type Service struct {
	store      Store
	taxes      tax.Provider
	products   product.Provider
	validator  *Validator
	calculator *Calculator
	journal    Journal
	ops        metric.Int64Counter
	lg         *zap.Logger
}

// NewService creates an order Service.
func NewService(store Store, taxes tax.Provider, products product.Provider, cfg ServiceConfig) (*Service, error) {
	if cfg.MeterProvider == nil {
		cfg.MeterProvider = noop.NewMeterProvider()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	ops, err := cfg.MeterProvider.Meter("floormaster/order").Int64Counter(
		"floormaster.orders.operations",
		metric.WithDescription("Completed order mutations by operation"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create operations counter")
	}

	v := NewValidator(taxes, products)
	return &Service{
		store:      store,
		taxes:      taxes,
		products:   products,
		validator:  v,
		calculator: NewCalculator(v),
		journal:    cfg.Journal,
		ops:        ops,
		lg:         cfg.Logger,
	}, nil
}

// GetNextOrderNumber returns a fresh order number.
func (s *Service) GetNextOrderNumber() int {
	return s.store.NextOrderNumber()
}

// AddOrder stores o under a free key. It does not validate: o must already
// have gone through CalculateOrderCosts.
func (s *Service) AddOrder(ctx context.Context, o Order) error {
	if _, ok := s.store.Get(o.Key()); ok {
		return &DuplicateOrderError{Key: o.Key()}
	}
	s.store.Add(o)
	s.done(ctx, ActionAdd, o)
	return nil
}

// EditOrder re-validates o without a date bound, since historical orders
// may be edited, and replaces the stored order with the same key.
func (s *Service) EditOrder(ctx context.Context, o Order) error {
	if err := s.validator.Validate(o, Date{}); err != nil {
		return err
	}
	if _, err := s.store.Edit(o); err != nil {
		return err
	}
	s.done(ctx, ActionEdit, o)
	return nil
}

// RemoveOrder deletes and returns the order under key.
func (s *Service) RemoveOrder(ctx context.Context, key Key) (Order, bool) {
	o, ok := s.store.Remove(key)
	if ok {
		s.done(ctx, ActionRemove, o)
	}
	return o, ok
}

// GetOrder returns the order under key.
func (s *Service) GetOrder(key Key) (Order, bool) {
	return s.store.Get(key)
}

// OrdersForDate returns the orders placed for date.
func (s *Service) OrdersForDate(date Date) []Order {
	return s.store.OrdersForDate(date)
}

// AllOrders returns a snapshot of every stored order, e.g. for export.
func (s *Service) AllOrders() Snapshot {
	return s.store.AllOrders()
}

// CalculateOrderCosts validates o with asOf as the exclusive lower bound for
// the order date and returns it with derived costs filled in.
func (s *Service) CalculateOrderCosts(o Order, asOf Date) (Order, error) {
	priced, err := s.calculator.Calculate(o, asOf)
	if err != nil {
		return Order{}, errors.Wrap(err, "calculate order costs")
	}
	return priced, nil
}

// SaveOrders flushes the store.
func (s *Service) SaveOrders(ctx context.Context) error {
	if err := s.store.Save(ctx); err != nil {
		return errors.Wrap(err, "save orders")
	}
	return nil
}

// Taxes returns the tax catalog.
func (s *Service) Taxes() []tax.Rate {
	return s.taxes.Rates()
}

// Products returns the product catalog.
func (s *Service) Products() []product.Product {
	return s.products.Products()
}

func (s *Service) done(ctx context.Context, action Action, o Order) {
	s.ops.Add(ctx, 1, metric.WithAttributes(attribute.String("op", string(action))))
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, action, o); err != nil {
		s.lg.Warn("Audit record failed",
			zap.String("action", string(action)),
			zap.Stringer("order", o.Key()),
			zap.Error(err),
		)
	}
}
