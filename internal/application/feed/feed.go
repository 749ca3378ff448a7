package feed

import (
	"context"
	"sync"
	"time"

	"tg_pizzeria/internal/domain/order"
	"tg_pizzeria/pkg/logger"
	"tg_pizzeria/pkg/metrics"
)

// Source is where the feed fetches the full order list from.
type Source interface {
	List(ctx context.Context) ([]order.Order, error)
}

// Notifier is invoked once per raised new-order alert (the dashboard beep).
// It must not call back into the feed.
type Notifier func()

// Config carries the feed timing knobs. Zero values fall back to the
// defaults the dashboard ships with.
type Config struct {
	PollInterval time.Duration
	AlertTTL     time.Duration
}

const (
	defaultPollInterval = 30 * time.Second
	defaultAlertTTL     = 5 * time.Second
)

// Feed keeps one dashboard session's mirror of the order store consistent
// across three channels: the bootstrap fetch, pushed change events, and the
// poll fallback that runs only while the push channel is down.
//
// All state mutations happen under one mutex and each event is applied
// atomically, so the three channels can fire from different goroutines.
type Feed struct {
	source  Source
	log     logger.Logger
	metrics *metrics.Metrics
	notify  Notifier

	pollInterval time.Duration
	alertTTL     time.Duration

	mu         sync.Mutex
	orders     []order.Order
	knownIDs   map[string]struct{}
	connected  bool
	alert      bool
	alertTimer *time.Timer
	lastUpdate time.Time

	// updates carries a coalesced "mirror changed" signal for the UI.
	updates chan struct{}
}

// New builds a feed. notify and m may be nil.
func New(source Source, log logger.Logger, m *metrics.Metrics, notify Notifier, cfg Config) *Feed {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.AlertTTL <= 0 {
		cfg.AlertTTL = defaultAlertTTL
	}
	return &Feed{
		source:       source,
		log:          log,
		metrics:      m,
		notify:       notify,
		pollInterval: cfg.PollInterval,
		alertTTL:     cfg.AlertTTL,
		knownIDs:     make(map[string]struct{}),
		updates:      make(chan struct{}, 1),
	}
}

// Bootstrap populates the mirror with one full fetch. First population is
// not a notification-worthy event, so no alert is raised here.
func (f *Feed) Bootstrap(ctx context.Context) error {
	return f.refresh(ctx, false)
}

// Refresh is a manual full refresh (the dashboard's retry button). Unlike
// Bootstrap it treats unseen ids as new orders.
func (f *Feed) Refresh(ctx context.Context) error {
	return f.refresh(ctx, true)
}

// refresh replaces the mirror wholesale. With detect set, ids not in the
// previous known set raise the new-order alert, the same as a pushed
// insert. A failed fetch leaves the existing mirror untouched; stale data
// beats no data.
func (f *Feed) refresh(ctx context.Context, detect bool) error {
	orders, err := f.source.List(ctx)
	if err != nil {
		if f.metrics != nil {
			f.metrics.FeedRefreshes.WithLabelValues("error").Inc()
		}
		return err
	}

	f.mu.Lock()
	raised := false
	if detect && len(f.knownIDs) > 0 {
		for i := range orders {
			if _, seen := f.knownIDs[orders[i].ID]; !seen {
				f.raiseAlertLocked()
				raised = true
				break
			}
		}
	}

	f.orders = orders
	f.knownIDs = make(map[string]struct{}, len(orders))
	for i := range orders {
		f.knownIDs[orders[i].ID] = struct{}{}
	}
	f.lastUpdate = time.Now()
	f.mu.Unlock()

	if f.metrics != nil {
		f.metrics.FeedRefreshes.WithLabelValues("ok").Inc()
	}
	if raised && f.notify != nil {
		f.notify()
	}
	f.signal()
	return nil
}

// Apply consumes one pushed change event. Inserts are prepended (the store
// emits them in commit order, newest first for a descending list), updates
// replace the matching row in place, deletes splice it out. Replaying the
// same update is a no-op for the resulting state.
func (f *Feed) Apply(ev order.ChangeEvent) {
	f.mu.Lock()
	raised := false

	switch ev.Type {
	case order.ChangeInsert:
		if _, seen := f.knownIDs[ev.Order.ID]; !seen {
			if len(f.knownIDs) > 0 {
				f.raiseAlertLocked()
				raised = true
			}
			f.orders = append([]order.Order{ev.Order}, f.orders...)
			f.knownIDs[ev.Order.ID] = struct{}{}
		}
	case order.ChangeUpdate:
		idx := -1
		for i := range f.orders {
			if f.orders[i].ID == ev.Order.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			// This mirror never saw the row; the next refresh reconciles it.
			// Recording the id here would shadow a later insert event.
			f.mu.Unlock()
			return
		}
		f.orders[idx] = ev.Order
	case order.ChangeDelete:
		for i := range f.orders {
			if f.orders[i].ID == ev.Order.ID {
				f.orders = append(f.orders[:i], f.orders[i+1:]...)
				break
			}
		}
		delete(f.knownIDs, ev.Order.ID)
	default:
		f.mu.Unlock()
		return
	}

	f.lastUpdate = time.Now()
	f.mu.Unlock()

	if f.metrics != nil {
		f.metrics.ChangesApplied.WithLabelValues(string(ev.Type)).Inc()
	}
	if raised && f.notify != nil {
		f.notify()
	}
	f.signal()
}

// raiseAlertLocked arms the transient alert and schedules its auto-clear.
func (f *Feed) raiseAlertLocked() {
	f.alert = true
	if f.alertTimer != nil {
		f.alertTimer.Stop()
	}
	f.alertTimer = time.AfterFunc(f.alertTTL, func() {
		f.mu.Lock()
		f.alert = false
		f.mu.Unlock()
		f.signal()
	})
}

// SetConnected is toggled by the push subscription lifecycle. While
// connected the poll fallback is disarmed.
func (f *Feed) SetConnected(connected bool) {
	f.mu.Lock()
	changed := f.connected != connected
	f.connected = connected
	f.mu.Unlock()
	if changed {
		f.signal()
	}
}

// Run drives the poll fallback until ctx is done. Ticks while the push
// channel is connected do nothing at all.
func (f *Feed) Run(ctx context.Context) error {
	ticker := time.NewTicker(f.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := f.pollTick(ctx); err != nil {
				f.log.Warn("poll refresh failed", logger.Error(err))
			}
		}
	}
}

// pollTick runs one fallback refresh, with new-order detection, unless the
// push channel is connected.
func (f *Feed) pollTick(ctx context.Context) error {
	if f.Connected() {
		return nil
	}
	return f.refresh(ctx, true)
}

// Snapshot returns a copy of the mirror, newest first.
func (f *Feed) Snapshot() []order.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]order.Order, len(f.orders))
	copy(out, f.orders)
	return out
}

func (f *Feed) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

// Alert reports whether the transient new-order alert is currently raised.
func (f *Feed) Alert() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.alert
}

// LastUpdate is the time the mirror last changed, zero before bootstrap.
func (f *Feed) LastUpdate() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastUpdate
}

// Updates signals mirror changes to the UI. Signals are coalesced; a reader
// that falls behind sees one pending signal, not a backlog.
func (f *Feed) Updates() <-chan struct{} {
	return f.updates
}

func (f *Feed) signal() {
	select {
	case f.updates <- struct{}{}:
	default:
	}
}
