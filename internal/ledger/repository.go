package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gfuture/internal/apperr"
	"gfuture/internal/db"
	"gfuture/internal/metrics"
	"gfuture/internal/money"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientBalance error = &apperr.Error{Kind: apperr.ErrInsufficientFunds, Message: "Insufficient wallet balance"}
	ErrInsufficientCredits error = &apperr.Error{Kind: apperr.ErrValidation, Message: "Insufficient credit points"}
	ErrInvalidEntry              = errors.New("invalid ledger entry")
)

const (
	accountColumns = `id, user_id, balance, credit_points, created_at, updated_at`
	txColumns      = `id, user_id, type, amount, credit_points, description, reference_type, reference_id, balance_after, credits_after, created_at`
)

type repository struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sqlx.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) querier() db.Querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// inTx runs fn on the bound transaction, or opens one when the repository is
// not bound.
func (r *repository) inTx(ctx context.Context, fn func(q db.Querier) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	return db.RunInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return fn(tx)
	})
}

// EnsureAccount returns the user's account, opening it with the signup bonus
// if it does not exist yet. Concurrent first calls create exactly one account
// and one bootstrap entry.
func (r *repository) EnsureAccount(ctx context.Context, userID string) (*Account, error) {
	acct, err := getAccount(ctx, r.querier(), userID, false)
	if err == nil {
		return acct, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = r.inTx(ctx, func(q db.Querier) error {
		acct, err = openAccount(ctx, q, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// LockAccount takes a row lock on the user's account for the rest of the
// enclosing transaction. Outside a transaction the lock is released at once.
func (r *repository) LockAccount(ctx context.Context, userID string) (*Account, error) {
	var acct *Account
	err := r.inTx(ctx, func(q db.Querier) error {
		var err error
		acct, err = lockAccount(ctx, q, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// ApplyTransaction moves the account by e and journals it. Balance and credit
// points can never go below zero.
func (r *repository) ApplyTransaction(ctx context.Context, userID string, e Entry) (*Account, error) {
	if !e.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidEntry, e.Type)
	}
	e.Amount = money.Round2(e.Amount)

	var acct Account
	err := r.inTx(ctx, func(q db.Querier) error {
		current, err := lockAccount(ctx, q, userID)
		if err != nil {
			return err
		}

		newBalance := current.Balance.Add(e.Amount)
		newCredits := current.CreditPoints + e.CreditPoints
		if newBalance.IsNegative() {
			return ErrInsufficientBalance
		}
		if newCredits < 0 {
			return ErrInsufficientCredits
		}

		err = q.QueryRowxContext(ctx,
			`UPDATE wallets
			 SET balance = $1, credit_points = $2, updated_at = NOW()
			 WHERE id = $3
			 RETURNING `+accountColumns,
			newBalance, newCredits, current.ID,
		).StructScan(&acct)
		if err != nil {
			return fmt.Errorf("update wallet: %w", err)
		}

		_, err = insertTransaction(ctx, q, userID, e, newBalance, newCredits)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordLedgerTransaction(string(e.Type))
	return &acct, nil
}

func (r *repository) ListTransactions(ctx context.Context, userID string, f Filter) ([]Transaction, int, error) {
	f = f.Normalize()

	where := []string{"user_id = $1"}
	args := []interface{}{userID}
	if f.Type != "" {
		args = append(args, f.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.querier().GetContext(ctx, &total,
		`SELECT COUNT(*) FROM wallet_transactions WHERE `+cond, args...); err != nil {
		return nil, 0, err
	}

	txs := []Transaction{}
	query := fmt.Sprintf(`SELECT %s FROM wallet_transactions WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, txColumns, cond, len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset())
	if err := r.querier().SelectContext(ctx, &txs, query, args...); err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}

// AllTransactions returns the full journal in the order it was written.
func (r *repository) AllTransactions(ctx context.Context, userID string) ([]Transaction, error) {
	txs := []Transaction{}
	err := r.querier().SelectContext(ctx, &txs,
		`SELECT `+txColumns+` FROM wallet_transactions
		 WHERE user_id = $1
		 ORDER BY id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func getAccount(ctx context.Context, q db.Querier, userID string, forUpdate bool) (*Account, error) {
	query := `SELECT ` + accountColumns + ` FROM wallets WHERE user_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	acct := &Account{}
	if err := q.GetContext(ctx, acct, query, userID); err != nil {
		return nil, err
	}
	return acct, nil
}

func lockAccount(ctx context.Context, q db.Querier, userID string) (*Account, error) {
	acct, err := getAccount(ctx, q, userID, true)
	if err == nil {
		return acct, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if _, err := openAccount(ctx, q, userID); err != nil {
		return nil, err
	}
	return getAccount(ctx, q, userID, true)
}

// openAccount must run inside a transaction. When another transaction wins the
// insert race it returns that transaction's account untouched.
func openAccount(ctx context.Context, q db.Querier, userID string) (*Account, error) {
	acct := &Account{}
	err := q.QueryRowxContext(ctx,
		`INSERT INTO wallets (user_id, balance, credit_points)
		 VALUES ($1, 0, $2)
		 ON CONFLICT (user_id) DO NOTHING
		 RETURNING `+accountColumns,
		userID, money.SignupBonusPoints,
	).StructScan(acct)
	if errors.Is(err, sql.ErrNoRows) {
		return getAccount(ctx, q, userID, false)
	}
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}

	bonus := Entry{
		Type:          TypeCreditEarned,
		Amount:        decimal.Zero,
		CreditPoints:  money.SignupBonusPoints,
		Description:   "Welcome bonus credit points",
		ReferenceType: RefSignup,
	}
	if _, err := insertTransaction(ctx, q, userID, bonus, acct.Balance, acct.CreditPoints); err != nil {
		return nil, err
	}
	metrics.RecordLedgerTransaction(string(bonus.Type))

	return acct, nil
}

func insertTransaction(ctx context.Context, q db.Querier, userID string, e Entry, balanceAfter decimal.Decimal, creditsAfter int) (*Transaction, error) {
	t := &Transaction{}
	err := q.QueryRowxContext(ctx,
		`INSERT INTO wallet_transactions
		 (user_id, type, amount, credit_points, description, reference_type, reference_id, balance_after, credits_after)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+txColumns,
		userID, e.Type, e.Amount, e.CreditPoints, e.Description, e.ReferenceType, e.ReferenceID, balanceAfter, creditsAfter,
	).StructScan(t)
	if err != nil {
		return nil, fmt.Errorf("insert wallet transaction: %w", err)
	}
	return t, nil
}
