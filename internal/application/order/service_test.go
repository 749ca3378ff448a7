package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "tg_pizzeria/internal/domain/order"
	"tg_pizzeria/pkg/logger"
)

// MockStore mocks the order store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Insert(ctx context.Context, o *domain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockStore) SelectAll(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockStore) UpdateByID(ctx context.Context, id string, upd domain.StatusUpdate) (*domain.Order, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

// MockPublisher mocks the change publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishChange(ctx context.Context, ev domain.ChangeEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func validCommand() SubmitCommand {
	return SubmitCommand{
		CustomerName:  "Anna",
		CustomerPhone: "0701234567",
		Items:         []domain.Item{{Name: "Margherita", Price: 100, Quantity: 2}},
		TotalAmount:   200,
		PaymentMethod: domain.MethodSwish,
	}
}

func TestService_Submit_Success(t *testing.T) {
	// Arrange
	store := new(MockStore)
	pub := new(MockPublisher)
	svc := NewService(store, pub, logger.Nop(), nil)

	ctx := context.Background()
	store.On("Insert", ctx, mock.AnythingOfType("*order.Order")).Run(func(args mock.Arguments) {
		o := args.Get(1).(*domain.Order)
		o.ID = "id-1"
		o.CreatedAt = time.Now()
		o.UpdatedAt = o.CreatedAt
	}).Return(nil).Once()
	pub.On("PublishChange", ctx, mock.MatchedBy(func(ev domain.ChangeEvent) bool {
		return ev.Type == domain.ChangeInsert && ev.Order.ID == "id-1"
	})).Return(nil).Once()

	// Act
	o, err := svc.Submit(ctx, validCommand())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "id-1", o.ID)
	assert.Equal(t, domain.StatusPending, o.OrderStatus)
	assert.Equal(t, domain.PaymentPending, o.PaymentStatus)
	assert.Len(t, o.OrderNumber, 11)
	store.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestService_Submit_ValidationSkipsStore(t *testing.T) {
	store := new(MockStore)
	pub := new(MockPublisher)
	svc := NewService(store, pub, logger.Nop(), nil)

	cmd := validCommand()
	cmd.Items = nil

	o, err := svc.Submit(context.Background(), cmd)

	assert.Nil(t, o)
	assert.ErrorIs(t, err, domain.ErrValidation)
	store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	pub.AssertNotCalled(t, "PublishChange", mock.Anything, mock.Anything)
}

func TestService_Submit_StoreError(t *testing.T) {
	store := new(MockStore)
	pub := new(MockPublisher)
	svc := NewService(store, pub, logger.Nop(), nil)

	ctx := context.Background()
	store.On("Insert", ctx, mock.Anything).Return(errors.New("connection refused")).Once()

	o, err := svc.Submit(ctx, validCommand())

	assert.Nil(t, o)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	pub.AssertNotCalled(t, "PublishChange", mock.Anything, mock.Anything)
}

func TestService_Submit_PublishFailureDoesNotFail(t *testing.T) {
	store := new(MockStore)
	pub := new(MockPublisher)
	svc := NewService(store, pub, logger.Nop(), nil)

	ctx := context.Background()
	store.On("Insert", ctx, mock.Anything).Return(nil).Once()
	pub.On("PublishChange", ctx, mock.Anything).Return(errors.New("broker down")).Once()

	o, err := svc.Submit(ctx, validCommand())

	// The row is durable; the poll fallback picks the change up later.
	require.NoError(t, err)
	assert.NotNil(t, o)
}

func TestService_List(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, nil, logger.Nop(), nil)

	ctx := context.Background()
	newer := domain.Order{ID: "b", CreatedAt: time.Now()}
	older := domain.Order{ID: "a", CreatedAt: time.Now().Add(-time.Hour)}
	store.On("SelectAll", ctx).Return([]domain.Order{newer, older}, nil).Once()

	orders, err := svc.List(ctx)

	require.NoError(t, err)
	require.Len(t, orders, 2)
	// Newest first, never increasing in CreatedAt.
	assert.True(t, !orders[0].CreatedAt.Before(orders[1].CreatedAt))
}

func TestService_List_StoreError(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, nil, logger.Nop(), nil)

	store.On("SelectAll", mock.Anything).Return(nil, errors.New("timeout")).Once()

	orders, err := svc.List(context.Background())

	assert.Nil(t, orders)
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestService_Patch_Success(t *testing.T) {
	store := new(MockStore)
	pub := new(MockPublisher)
	svc := NewService(store, pub, logger.Nop(), nil)

	ctx := context.Background()
	preparing := domain.StatusPreparing
	updated := &domain.Order{ID: "id-1", OrderStatus: preparing}

	store.On("UpdateByID", ctx, "id-1", mock.Anything).Return(updated, nil).Once()
	pub.On("PublishChange", ctx, mock.MatchedBy(func(ev domain.ChangeEvent) bool {
		return ev.Type == domain.ChangeUpdate && ev.Order.ID == "id-1"
	})).Return(nil).Once()

	err := svc.Patch(ctx, "id-1", domain.StatusUpdate{OrderStatus: &preparing})

	require.NoError(t, err)
	store.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestService_Patch_EmptyID(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, nil, logger.Nop(), nil)

	err := svc.Patch(context.Background(), "", domain.StatusUpdate{})

	assert.ErrorIs(t, err, domain.ErrValidation)
	store.AssertNotCalled(t, "UpdateByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Patch_NoFields(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, nil, logger.Nop(), nil)

	err := svc.Patch(context.Background(), "id-1", domain.StatusUpdate{})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "no fields to update")
	store.AssertNotCalled(t, "UpdateByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Patch_NotFound(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, nil, logger.Nop(), nil)

	paid := domain.PaymentPaid
	store.On("UpdateByID", mock.Anything, "missing", mock.Anything).Return(nil, domain.ErrNotFound).Once()

	err := svc.Patch(context.Background(), "missing", domain.StatusUpdate{PaymentStatus: &paid})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_Patch_StoreError(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, nil, logger.Nop(), nil)

	paid := domain.PaymentPaid
	store.On("UpdateByID", mock.Anything, "id-1", mock.Anything).Return(nil, errors.New("timeout")).Once()

	err := svc.Patch(context.Background(), "id-1", domain.StatusUpdate{PaymentStatus: &paid})

	assert.ErrorIs(t, err, domain.ErrPersistence)
}
