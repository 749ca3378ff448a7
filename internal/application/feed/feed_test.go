package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tg_pizzeria/internal/domain/order"
	"tg_pizzeria/pkg/logger"
)

// fakeSource serves a canned order list and counts calls.
type fakeSource struct {
	mu     sync.Mutex
	orders []order.Order
	err    error
	calls  int
}

func (s *fakeSource) List(ctx context.Context) ([]order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]order.Order, len(s.orders))
	copy(out, s.orders)
	return out, nil
}

func (s *fakeSource) set(orders []order.Order, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = orders
	s.err = err
}

func (s *fakeSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func someOrders(n int) []order.Order {
	base := time.Now()
	out := make([]order.Order, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, order.Order{
			ID:        string(rune('a' + i)),
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		})
	}
	return out
}

// alertCounter counts notifier invocations.
type alertCounter struct {
	mu sync.Mutex
	n  int
}

func (a *alertCounter) notify() {
	a.mu.Lock()
	a.n++
	a.mu.Unlock()
}

func (a *alertCounter) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.n
}

func newTestFeed(src Source, notify Notifier) *Feed {
	return New(src, logger.Nop(), nil, notify, Config{
		PollInterval: 10 * time.Millisecond,
		AlertTTL:     25 * time.Millisecond,
	})
}

func TestFeed_Bootstrap_SuppressesAlert(t *testing.T) {
	src := &fakeSource{orders: someOrders(5)}
	alerts := &alertCounter{}
	f := newTestFeed(src, alerts.notify)

	require.NoError(t, f.Bootstrap(context.Background()))

	assert.Len(t, f.Snapshot(), 5)
	assert.False(t, f.Alert())
	assert.Equal(t, 0, alerts.count())
	assert.False(t, f.LastUpdate().IsZero())
}

func TestFeed_InsertAfterBootstrap_RaisesOneAlert(t *testing.T) {
	src := &fakeSource{orders: someOrders(5)}
	alerts := &alertCounter{}
	f := newTestFeed(src, alerts.notify)
	require.NoError(t, f.Bootstrap(context.Background()))

	sixth := order.Order{ID: "f", CreatedAt: time.Now()}
	f.Apply(order.ChangeEvent{Type: order.ChangeInsert, Order: sixth})

	got := f.Snapshot()
	require.Len(t, got, 6)
	assert.Equal(t, "f", got[0].ID, "insert prepends")
	assert.True(t, f.Alert())
	assert.Equal(t, 1, alerts.count())

	// The alert auto-clears after the TTL.
	assert.Eventually(t, func() bool { return !f.Alert() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, alerts.count())
}

func TestFeed_InsertIntoEmptyMirror_NoAlert(t *testing.T) {
	src := &fakeSource{}
	alerts := &alertCounter{}
	f := newTestFeed(src, alerts.notify)
	require.NoError(t, f.Bootstrap(context.Background()))

	f.Apply(order.ChangeEvent{Type: order.ChangeInsert, Order: order.Order{ID: "a"}})

	// The known set was empty before the event; first arrival is not an alert.
	assert.Len(t, f.Snapshot(), 1)
	assert.Equal(t, 0, alerts.count())
}

func TestFeed_InsertIsDeduplicatedByID(t *testing.T) {
	src := &fakeSource{orders: someOrders(2)}
	f := newTestFeed(src, nil)
	require.NoError(t, f.Bootstrap(context.Background()))

	dup := order.Order{ID: "a", CreatedAt: time.Now()}
	f.Apply(order.ChangeEvent{Type: order.ChangeInsert, Order: dup})

	assert.Len(t, f.Snapshot(), 2)
}

func TestFeed_UpdateIsIdempotent(t *testing.T) {
	src := &fakeSource{orders: someOrders(3)}
	f := newTestFeed(src, nil)
	require.NoError(t, f.Bootstrap(context.Background()))

	changed := order.Order{ID: "b", OrderStatus: order.StatusReady}
	f.Apply(order.ChangeEvent{Type: order.ChangeUpdate, Order: changed})
	once := f.Snapshot()

	f.Apply(order.ChangeEvent{Type: order.ChangeUpdate, Order: changed})
	twice := f.Snapshot()

	assert.Equal(t, once, twice)
	assert.Equal(t, order.StatusReady, once[1].OrderStatus)
	assert.Equal(t, "b", once[1].ID, "update keeps position")
}

func TestFeed_UpdateForUnknownOrder_DoesNotShadowInsert(t *testing.T) {
	src := &fakeSource{orders: someOrders(2)}
	f := newTestFeed(src, nil)
	require.NoError(t, f.Bootstrap(context.Background()))

	// An update for a row this mirror never saw is skipped outright.
	f.Apply(order.ChangeEvent{Type: order.ChangeUpdate, Order: order.Order{ID: "x", OrderStatus: order.StatusReady}})
	assert.Len(t, f.Snapshot(), 2)

	// The insert for that order must still land afterwards.
	f.Apply(order.ChangeEvent{Type: order.ChangeInsert, Order: order.Order{ID: "x"}})
	got := f.Snapshot()
	require.Len(t, got, 3)
	assert.Equal(t, "x", got[0].ID)
}

func TestFeed_Delete(t *testing.T) {
	src := &fakeSource{orders: someOrders(3)}
	f := newTestFeed(src, nil)
	require.NoError(t, f.Bootstrap(context.Background()))

	f.Apply(order.ChangeEvent{Type: order.ChangeDelete, Order: order.Order{ID: "b"}})

	got := f.Snapshot()
	require.Len(t, got, 2)
	for _, o := range got {
		assert.NotEqual(t, "b", o.ID)
	}

	// Re-inserting a deleted id is a fresh arrival.
	f.Apply(order.ChangeEvent{Type: order.ChangeInsert, Order: order.Order{ID: "b"}})
	assert.Len(t, f.Snapshot(), 3)
}

func TestFeed_PollTick_SkippedWhileConnected(t *testing.T) {
	src := &fakeSource{orders: someOrders(2)}
	f := newTestFeed(src, nil)
	require.NoError(t, f.Bootstrap(context.Background()))
	before := src.callCount()

	f.SetConnected(true)
	for i := 0; i < 5; i++ {
		require.NoError(t, f.pollTick(context.Background()))
	}

	assert.Equal(t, before, src.callCount(), "no fetches while the push channel is up")
}

func TestFeed_PollTick_DetectsNewOrdersWhileDisconnected(t *testing.T) {
	src := &fakeSource{orders: someOrders(2)}
	alerts := &alertCounter{}
	f := newTestFeed(src, alerts.notify)
	require.NoError(t, f.Bootstrap(context.Background()))

	f.SetConnected(false)
	src.set(someOrders(3), nil)
	require.NoError(t, f.pollTick(context.Background()))

	assert.Len(t, f.Snapshot(), 3)
	assert.True(t, f.Alert())
	assert.Equal(t, 1, alerts.count())
}

func TestFeed_FailedRefreshKeepsMirror(t *testing.T) {
	src := &fakeSource{orders: someOrders(4)}
	f := newTestFeed(src, nil)
	require.NoError(t, f.Bootstrap(context.Background()))

	src.set(nil, errors.New("store down"))
	err := f.Refresh(context.Background())

	assert.Error(t, err)
	assert.Len(t, f.Snapshot(), 4, "stale data beats no data")
}

func TestFeed_Run_PollsOnlyWhileDisconnected(t *testing.T) {
	src := &fakeSource{orders: someOrders(1)}
	f := newTestFeed(src, nil)
	require.NoError(t, f.Bootstrap(context.Background()))
	f.SetConnected(true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = f.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	connectedCalls := src.callCount()

	f.SetConnected(false)
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, 1, connectedCalls, "only the bootstrap fetch while connected")
	assert.Greater(t, src.callCount(), connectedCalls, "fallback polling resumes when disconnected")
}

func TestFeed_UpdatesSignalIsCoalesced(t *testing.T) {
	src := &fakeSource{orders: someOrders(1)}
	f := newTestFeed(src, nil)

	require.NoError(t, f.Bootstrap(context.Background()))
	f.Apply(order.ChangeEvent{Type: order.ChangeInsert, Order: order.Order{ID: "x"}})

	select {
	case <-f.Updates():
	default:
		t.Fatal("expected a pending update signal")
	}
	select {
	case <-f.Updates():
		t.Fatal("signals should coalesce")
	default:
	}
}
