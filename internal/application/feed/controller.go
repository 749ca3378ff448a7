package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tg_pizzeria/internal/domain/order"
	"tg_pizzeria/pkg/logger"
)

// Patcher applies a partial status update to one order in the store.
type Patcher interface {
	Patch(ctx context.Context, id string, upd order.StatusUpdate) error
}

// Field names the two mutable order fields.
type Field string

const (
	FieldOrderStatus   Field = "orderStatus"
	FieldPaymentStatus Field = "paymentStatus"
)

// ErrUpdateInFlight is returned when an edit for the same order is still
// running; the dashboard disables that order's controls until it finishes.
var ErrUpdateInFlight = errors.New("order update already in flight")

// Controller applies user-initiated status transitions. It does not touch
// the mirror itself; the change flows back through the push or poll channel,
// which means a slow channel shows the pre-update value for a while. That
// staleness window is accepted.
type Controller struct {
	patcher Patcher
	log     logger.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewController(patcher Patcher, log logger.Logger) *Controller {
	return &Controller{
		patcher:  patcher,
		log:      log,
		inFlight: make(map[string]struct{}),
	}
}

// UpdateStatus patches one field of one order. The order is marked in
// flight for the duration of the call and always released, whatever the
// outcome.
func (c *Controller) UpdateStatus(ctx context.Context, id string, field Field, value string) error {
	if !c.begin(id) {
		return ErrUpdateInFlight
	}
	defer c.end(id)

	var upd order.StatusUpdate
	switch field {
	case FieldOrderStatus:
		upd.OrderStatus = &value
	case FieldPaymentStatus:
		upd.PaymentStatus = &value
	default:
		return fmt.Errorf("%w: unknown field %q", order.ErrValidation, field)
	}

	if err := c.patcher.Patch(ctx, id, upd); err != nil {
		c.log.Warn("status update failed",
			logger.String("order_id", id),
			logger.String("field", string(field)),
			logger.Error(err),
		)
		return err
	}
	return nil
}

// InFlight reports whether an edit for the given order is still running.
func (c *Controller) InFlight(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inFlight[id]
	return ok
}

func (c *Controller) begin(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.inFlight[id]; ok {
		return false
	}
	c.inFlight[id] = struct{}{}
	return true
}

func (c *Controller) end(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, id)
}
