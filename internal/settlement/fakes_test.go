package settlement

import (
	"context"
	"sync"
	"time"

	"gfuture/internal/catalog"
	"gfuture/internal/email"
	"gfuture/internal/offer"
	"gfuture/internal/order"
	"gfuture/internal/payment"
	"gfuture/internal/user"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type fakeOrders struct {
	orders  map[string]*order.Order
	created *order.Order
	failSet error
}

func newFakeOrders(orders ...*order.Order) *fakeOrders {
	f := &fakeOrders{orders: make(map[string]*order.Order)}
	for _, o := range orders {
		f.orders[o.ID] = o
	}
	return f
}

func (f *fakeOrders) WithTx(tx *sqlx.Tx) order.Repository { return f }

func (f *fakeOrders) Create(ctx context.Context, o *order.Order, items []order.Item) (*order.Order, error) {
	stored := *o
	stored.Items = items
	f.orders[o.ID] = &stored
	f.created = &stored
	return &stored, nil
}

func (f *fakeOrders) Get(ctx context.Context, id string) (*order.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (f *fakeOrders) GetForUpdate(ctx context.Context, id string) (*order.Order, error) {
	return f.Get(ctx, id)
}

func (f *fakeOrders) SetStatus(ctx context.Context, id string, status order.Status) error {
	if f.failSet != nil {
		return f.failSet
	}
	o, ok := f.orders[id]
	if !ok {
		return order.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func (f *fakeOrders) ListByCustomer(ctx context.Context, customerID string) ([]order.Order, error) {
	return nil, nil
}

func (f *fakeOrders) ListByProvider(ctx context.Context, providerID string) ([]order.Order, error) {
	return nil, nil
}

func (f *fakeOrders) ListAll(ctx context.Context) ([]order.Order, error) { return nil, nil }

func (f *fakeOrders) HasProviderItem(ctx context.Context, orderID, providerID string) (bool, error) {
	return false, nil
}

func (f *fakeOrders) Items(ctx context.Context, orderIDs ...string) (map[string][]order.Item, error) {
	return map[string][]order.Item{}, nil
}

type fakePayments struct {
	byOrder map[string]*payment.Payment
}

func newFakePayments(ps ...*payment.Payment) *fakePayments {
	f := &fakePayments{byOrder: make(map[string]*payment.Payment)}
	for _, p := range ps {
		f.byOrder[p.OrderID] = p
	}
	return f
}

func (f *fakePayments) WithTx(tx *sqlx.Tx) payment.Repository { return f }

func (f *fakePayments) GetByID(ctx context.Context, id string) (*payment.Payment, error) {
	for _, p := range f.byOrder {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, payment.ErrPaymentNotFound
}

func (f *fakePayments) GetByIDForUpdate(ctx context.Context, id string) (*payment.Payment, error) {
	return f.GetByID(ctx, id)
}

func (f *fakePayments) GetByOrder(ctx context.Context, orderID string) (*payment.Payment, error) {
	p, ok := f.byOrder[orderID]
	if !ok {
		return nil, payment.ErrPaymentNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakePayments) CreatePending(ctx context.Context, orderID string, amount decimal.Decimal, upiID string) (*payment.Payment, error) {
	p := &payment.Payment{ID: uuid.NewString(), OrderID: orderID, Amount: amount, Status: payment.StatusPending, Method: payment.MethodUPI}
	f.byOrder[orderID] = p
	return p, nil
}

func (f *fakePayments) UpsertCompleted(ctx context.Context, orderID string, amount decimal.Decimal, method payment.Method, ref string) (*payment.Payment, error) {
	now := time.Now()
	p, ok := f.byOrder[orderID]
	if !ok {
		p = &payment.Payment{ID: uuid.NewString(), OrderID: orderID}
		f.byOrder[orderID] = p
	}
	p.Amount, p.Status, p.Method, p.TransactionRef, p.PaidAt = amount, payment.StatusCompleted, method, &ref, &now
	return p, nil
}

func (f *fakePayments) Complete(ctx context.Context, id, ref string) (*payment.Payment, error) {
	for _, p := range f.byOrder {
		if p.ID == id {
			now := time.Now()
			p.Status, p.TransactionRef, p.PaidAt = payment.StatusCompleted, &ref, &now
			copied := *p
			return &copied, nil
		}
	}
	return nil, payment.ErrPaymentNotFound
}

type fakeCatalog map[int64]*catalog.Service

func (f fakeCatalog) GetActiveService(ctx context.Context, id int64) (*catalog.Service, error) {
	s, ok := f[id]
	if !ok || !s.Active {
		return nil, catalog.ErrServiceNotFound
	}
	return s, nil
}

type fakeOffers map[string]*offer.Offer

func (f fakeOffers) FindActiveByCode(ctx context.Context, code string) (*offer.Offer, error) {
	o, ok := f[code]
	if !ok {
		return nil, offer.ErrOfferNotFound
	}
	return o, nil
}

type fakeUsers map[string]*user.User

func (f fakeUsers) FindByID(ctx context.Context, id string) (*user.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

type recordingMailer struct {
	mu           sync.Mutex
	orders       []email.OrderSummary
	receipts     []email.Receipt
	receiptsSent []string
	err          error
}

func (m *recordingMailer) SendOrderConfirmation(ctx context.Context, to, name string, o email.OrderSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, o)
	return m.err
}

func (m *recordingMailer) SendPaymentReceipt(ctx context.Context, to, name string, r email.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts = append(m.receipts, r)
	m.receiptsSent = append(m.receiptsSent, to)
	return m.err
}
