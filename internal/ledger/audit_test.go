package ledger

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func journal() []Transaction {
	return []Transaction{
		{ID: 1, Type: TypeCreditEarned, Amount: d("0"), CreditPoints: 100, BalanceAfter: d("0"), CreditsAfter: 100},
		{ID: 2, Type: TypeTopUp, Amount: d("1000"), BalanceAfter: d("1000"), CreditsAfter: 100},
		{ID: 3, Type: TypePayment, Amount: d("-950"), CreditPoints: -100, BalanceAfter: d("50"), CreditsAfter: 0},
		{ID: 4, Type: TypeCreditEarned, Amount: d("0"), CreditPoints: 20, BalanceAfter: d("50"), CreditsAfter: 20},
	}
}

func TestReplay(t *testing.T) {
	balance, credits := Replay(journal())
	assert.True(t, balance.Equal(d("50")))
	assert.Equal(t, 20, credits)

	balance, credits = Replay(nil)
	assert.True(t, balance.IsZero())
	assert.Equal(t, 0, credits)
}

func TestBuildReport(t *testing.T) {
	t.Run("consistent", func(t *testing.T) {
		r := buildReport(&Account{UserID: "u-1", Balance: d("50.00"), CreditPoints: 20}, journal())
		assert.True(t, r.Consistent)
		assert.Nil(t, r.FirstMismatchID)
		assert.Equal(t, 4, r.Transactions)
	})

	t.Run("stored balance drifted", func(t *testing.T) {
		r := buildReport(&Account{UserID: "u-1", Balance: d("60"), CreditPoints: 20}, journal())
		assert.False(t, r.Consistent)
		assert.Nil(t, r.FirstMismatchID)
		assert.True(t, r.ReplayedBalance.Equal(d("50")))
	})

	t.Run("journal row disagrees", func(t *testing.T) {
		txs := journal()
		txs[2].BalanceAfter = d("40")
		r := buildReport(&Account{UserID: "u-1", Balance: d("50"), CreditPoints: 20}, txs)
		assert.False(t, r.Consistent)
		require.NotNil(t, r.FirstMismatchID)
		assert.Equal(t, int64(3), *r.FirstMismatchID)
	})
}

func TestAudit(t *testing.T) {
	repo, mock, _ := setupLedgerMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM wallets WHERE user_id = $1")).
		WithArgs("u-1").
		WillReturnRows(accountRow(1, "u-1", "1000.00", 100))
	mock.ExpectQuery(regexp.QuoteMeta("FROM wallet_transactions WHERE user_id = $1 ORDER BY id ASC")).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(txCols).
			AddRow(1, "u-1", "credit_earned", "0.00", 100, "Welcome bonus credit points", "signup", nil, "0.00", 100, time.Now()).
			AddRow(2, "u-1", "top_up", "1000.00", 0, "Added funds to wallet", "top_up", nil, "1000.00", 100, time.Now()))

	report, err := Audit(context.Background(), repo, "u-1")
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.Equal(t, 2, report.Transactions)
	assert.NoError(t, mock.ExpectationsWereMet())
}
