// Package ledgertest provides an in-memory ledger.Repository for tests of
// code built on top of the ledger.
package ledgertest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gfuture/internal/ledger"
	"gfuture/internal/money"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// Memory follows the same rules as the Postgres repository: accounts open
// with the signup bonus and no entry may drive balance or points negative.
type Memory struct {
	mu       sync.Mutex
	accounts map[string]*ledger.Account
	journal  []ledger.Transaction
	nextID   int64

	// ApplyErr, when set, fails every ApplyTransaction call.
	ApplyErr error
}

func NewMemory() *Memory {
	return &Memory{accounts: make(map[string]*ledger.Account)}
}

func (m *Memory) WithTx(tx *sqlx.Tx) ledger.Repository { return m }

// Seed opens the account and sets its balance through a top-up entry.
func (m *Memory) Seed(userID string, balance decimal.Decimal) *ledger.Account {
	m.mu.Lock()
	defer m.mu.Unlock()

	acct := m.ensure(userID)
	if balance.IsPositive() {
		m.apply(acct, ledger.Entry{Type: ledger.TypeTopUp, Amount: balance, Description: "seed", ReferenceType: ledger.RefTopUp})
	}
	copied := *acct
	return &copied
}

// Journal returns the user's entries in the order they were written.
func (m *Memory) Journal(userID string) []ledger.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []ledger.Transaction{}
	for _, t := range m.journal {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

func (m *Memory) EnsureAccount(ctx context.Context, userID string) (*ledger.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *m.ensure(userID)
	return &copied, nil
}

func (m *Memory) LockAccount(ctx context.Context, userID string) (*ledger.Account, error) {
	return m.EnsureAccount(ctx, userID)
}

func (m *Memory) ApplyTransaction(ctx context.Context, userID string, e ledger.Entry) (*ledger.Account, error) {
	if !e.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ledger.ErrInvalidEntry, e.Type)
	}
	if m.ApplyErr != nil {
		return nil, m.ApplyErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	acct := m.ensure(userID)
	e.Amount = money.Round2(e.Amount)
	if acct.Balance.Add(e.Amount).IsNegative() {
		return nil, ledger.ErrInsufficientBalance
	}
	if acct.CreditPoints+e.CreditPoints < 0 {
		return nil, ledger.ErrInsufficientCredits
	}

	m.apply(acct, e)
	copied := *acct
	return &copied, nil
}

func (m *Memory) ListTransactions(ctx context.Context, userID string, f ledger.Filter) ([]ledger.Transaction, int, error) {
	f = f.Normalize()

	m.mu.Lock()
	var matched []ledger.Transaction
	for _, t := range m.journal {
		if t.UserID == userID && (f.Type == "" || t.Type == f.Type) {
			matched = append(matched, t)
		}
	}
	m.mu.Unlock()

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	page := []ledger.Transaction{}
	for i := f.Offset(); i < len(matched) && len(page) < f.Limit; i++ {
		page = append(page, matched[i])
	}
	return page, len(matched), nil
}

func (m *Memory) AllTransactions(ctx context.Context, userID string) ([]ledger.Transaction, error) {
	return m.Journal(userID), nil
}

func (m *Memory) ensure(userID string) *ledger.Account {
	if acct, ok := m.accounts[userID]; ok {
		return acct
	}

	now := time.Now()
	acct := &ledger.Account{
		ID:        int64(len(m.accounts) + 1),
		UserID:    userID,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.accounts[userID] = acct
	m.apply(acct, ledger.Entry{
		Type:          ledger.TypeCreditEarned,
		Amount:        decimal.Zero,
		CreditPoints:  money.SignupBonusPoints,
		Description:   "Welcome bonus credit points",
		ReferenceType: ledger.RefSignup,
	})
	return acct
}

func (m *Memory) apply(acct *ledger.Account, e ledger.Entry) {
	acct.Balance = acct.Balance.Add(e.Amount)
	acct.CreditPoints += e.CreditPoints
	acct.UpdatedAt = time.Now()

	m.nextID++
	m.journal = append(m.journal, ledger.Transaction{
		ID:            m.nextID,
		UserID:        acct.UserID,
		Type:          e.Type,
		Amount:        e.Amount,
		CreditPoints:  e.CreditPoints,
		Description:   e.Description,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
		BalanceAfter:  acct.Balance,
		CreditsAfter:  acct.CreditPoints,
		CreatedAt:     acct.UpdatedAt,
	})
}
