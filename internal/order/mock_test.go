package order

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) WithTx(tx *sqlx.Tx) Repository { return m }

func (m *MockRepository) Create(ctx context.Context, o *Order, items []Item) (*Order, error) {
	args := m.Called(ctx, o, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, id string) (*Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) GetForUpdate(ctx context.Context, id string) (*Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) SetStatus(ctx context.Context, id string, status Status) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockRepository) ListByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]Order), args.Error(1)
}

func (m *MockRepository) ListByProvider(ctx context.Context, providerID string) ([]Order, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).([]Order), args.Error(1)
}

func (m *MockRepository) ListAll(ctx context.Context) ([]Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Order), args.Error(1)
}

func (m *MockRepository) HasProviderItem(ctx context.Context, orderID, providerID string) (bool, error) {
	args := m.Called(ctx, orderID, providerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Items(ctx context.Context, orderIDs ...string) (map[string][]Item, error) {
	args := m.Called(ctx, orderIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]Item), args.Error(1)
}
