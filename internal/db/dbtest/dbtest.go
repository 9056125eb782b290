// Package dbtest provides test doubles for code that runs inside db.Transactor.
package dbtest

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Transactor runs fn directly with a nil *sqlx.Tx. Repositories under test are
// expected to be mocks whose WithTx returns themselves.
type Transactor struct {
	Calls int
	// Err, when set, is returned instead of calling fn, as if BEGIN failed.
	Err error
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	t.Calls++
	if t.Err != nil {
		return t.Err
	}
	return fn(nil)
}
