package order

import (
	"context"
	"errors"
	"fmt"

	domain "tg_pizzeria/internal/domain/order"
	"tg_pizzeria/internal/domain/repository"
	"tg_pizzeria/pkg/logger"
	"tg_pizzeria/pkg/metrics"
)

// ChangePublisher pushes a store change event to subscribed dashboard
// sessions. Publishing is best effort; the row is already durable.
type ChangePublisher interface {
	PublishChange(ctx context.Context, ev domain.ChangeEvent) error
}

type Service struct {
	store   repository.OrderStore
	changes ChangePublisher
	log     logger.Logger
	metrics *metrics.Metrics
}

// SubmitCommand is the intake request body.
type SubmitCommand struct {
	CustomerName  string        `json:"customerName"`
	CustomerPhone string        `json:"customerPhone"`
	Items         []domain.Item `json:"items"`
	TotalAmount   float64       `json:"totalAmount"`
	PaymentMethod string        `json:"paymentMethod"`
	Notes         string        `json:"notes"`
}

// NewService wires the submission service. changes and m may be nil.
func NewService(store repository.OrderStore, changes ChangePublisher, log logger.Logger, m *metrics.Metrics) *Service {
	return &Service{store: store, changes: changes, log: log, metrics: m}
}

// Submit validates the command, generates the order number and inserts the
// row with both status fields pending. Exactly one row is written on
// success, none on any failure. A failed submission discards the generated
// order number; resubmitting generates a fresh one.
func (s *Service) Submit(ctx context.Context, cmd SubmitCommand) (*domain.Order, error) {
	o, err := domain.New(cmd.CustomerName, cmd.CustomerPhone, cmd.Items, cmd.TotalAmount, cmd.PaymentMethod, cmd.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.store.Insert(ctx, o); err != nil {
		return nil, fmt.Errorf("%w: insert order: %v", domain.ErrPersistence, err)
	}

	if s.metrics != nil {
		s.metrics.OrdersCreated.Inc()
	}
	s.log.Info("order created",
		logger.String("order_id", o.ID),
		logger.String("order_number", o.OrderNumber),
		logger.Float64("total_amount", o.TotalAmount),
	)

	s.publish(ctx, domain.ChangeEvent{Type: domain.ChangeInsert, Order: *o})
	return o, nil
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.store.SelectAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: select orders: %v", domain.ErrPersistence, err)
	}
	return orders, nil
}

// Patch applies a partial status update to one order. At least one of the
// two status fields must be present.
func (s *Service) Patch(ctx context.Context, id string, upd domain.StatusUpdate) error {
	if id == "" {
		return fmt.Errorf("%w: order id is required", domain.ErrValidation)
	}
	if err := upd.Validate(); err != nil {
		return err
	}

	updated, err := s.store.UpdateByID(ctx, id, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: update order %s: %v", domain.ErrPersistence, id, err)
	}

	s.log.Info("order updated", logger.String("order_id", id))
	s.publish(ctx, domain.ChangeEvent{Type: domain.ChangeUpdate, Order: *updated})
	return nil
}

// publish sends a change event and logs failures without propagating them;
// the poll fallback will pick the change up if the push channel is down.
func (s *Service) publish(ctx context.Context, ev domain.ChangeEvent) {
	if s.changes == nil {
		return
	}
	if err := s.changes.PublishChange(ctx, ev); err != nil {
		s.log.Warn("publish change event failed",
			logger.String("type", string(ev.Type)),
			logger.String("order_id", ev.Order.ID),
			logger.Error(err),
		)
		return
	}
	if s.metrics != nil {
		s.metrics.ChangesPublished.WithLabelValues(string(ev.Type)).Inc()
	}
}
