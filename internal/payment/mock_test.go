package payment

import (
	"context"

	"gfuture/internal/order"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) WithTx(tx *sqlx.Tx) Repository { return m }

func (m *MockRepository) result(args mock.Arguments) (*Payment, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Payment, error) {
	return m.result(m.Called(ctx, id))
}

func (m *MockRepository) GetByIDForUpdate(ctx context.Context, id string) (*Payment, error) {
	return m.result(m.Called(ctx, id))
}

func (m *MockRepository) GetByOrder(ctx context.Context, orderID string) (*Payment, error) {
	return m.result(m.Called(ctx, orderID))
}

func (m *MockRepository) CreatePending(ctx context.Context, orderID string, amount decimal.Decimal, upiID string) (*Payment, error) {
	return m.result(m.Called(ctx, orderID, amount, upiID))
}

func (m *MockRepository) UpsertCompleted(ctx context.Context, orderID string, amount decimal.Decimal, method Method, ref string) (*Payment, error) {
	return m.result(m.Called(ctx, orderID, amount, method, ref))
}

func (m *MockRepository) Complete(ctx context.Context, id, ref string) (*Payment, error) {
	return m.result(m.Called(ctx, id, ref))
}

type stubOrders struct {
	order.Repository
	orders map[string]*order.Order
}

func (s *stubOrders) Get(ctx context.Context, id string) (*order.Order, error) {
	if o, ok := s.orders[id]; ok {
		return o, nil
	}
	return nil, order.ErrOrderNotFound
}
