package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// Replay folds the journal from an empty account. The result is what the
// account should hold if every change went through ApplyTransaction.
func Replay(txs []Transaction) (decimal.Decimal, int) {
	balance := decimal.Zero
	credits := 0
	for _, t := range txs {
		balance = balance.Add(t.Amount)
		credits += t.CreditPoints
	}
	return balance, credits
}

type AuditReport struct {
	UserID          string          `json:"userId"`
	Transactions    int             `json:"transactions"`
	StoredBalance   decimal.Decimal `json:"storedBalance"`
	ReplayedBalance decimal.Decimal `json:"replayedBalance"`
	StoredCredits   int             `json:"storedCredits"`
	ReplayedCredits int             `json:"replayedCredits"`
	// FirstMismatchID is the first journal row whose running totals disagree
	// with its recorded balance_after or credits_after.
	FirstMismatchID *int64 `json:"firstMismatchId,omitempty"`
	Consistent      bool   `json:"consistent"`
}

// Audit replays the user's journal and compares it with the stored account.
func Audit(ctx context.Context, repo Repository, userID string) (*AuditReport, error) {
	acct, err := repo.EnsureAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	txs, err := repo.AllTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return buildReport(acct, txs), nil
}

func buildReport(acct *Account, txs []Transaction) *AuditReport {
	report := &AuditReport{
		UserID:        acct.UserID,
		Transactions:  len(txs),
		StoredBalance: acct.Balance,
		StoredCredits: acct.CreditPoints,
	}

	balance := decimal.Zero
	credits := 0
	for i := range txs {
		t := txs[i]
		balance = balance.Add(t.Amount)
		credits += t.CreditPoints
		if report.FirstMismatchID == nil && (!balance.Equal(t.BalanceAfter) || credits != t.CreditsAfter) {
			id := t.ID
			report.FirstMismatchID = &id
		}
	}

	report.ReplayedBalance = balance
	report.ReplayedCredits = credits
	report.Consistent = report.FirstMismatchID == nil &&
		balance.Equal(acct.Balance) &&
		credits == acct.CreditPoints
	return report
}
