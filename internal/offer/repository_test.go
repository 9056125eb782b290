package offer

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var offerCols = []string{"id", "provider_id", "title", "description", "discount_percent", "discount_flat", "code",
	"target", "image", "badge", "valid_from", "valid_until", "active", "sort_order", "created_at", "updated_at"}

func setupOfferMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(conn, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })
	return NewRepository(sqlxDB), mock
}

func offerRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(offerCols).AddRow(
		1, "p-1", "Festive 20", "", "20.00", "0.00", "FEST20",
		"customer", nil, nil, nil, nil, true, 0, now, now)
}

func TestFindActiveByCode_UpperCases(t *testing.T) {
	repo, mock := setupOfferMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE UPPER(code) = $1 AND active = TRUE")).
		WithArgs("FEST20").
		WillReturnRows(offerRow())

	o, err := repo.FindActiveByCode(context.Background(), " fest20 ")
	require.NoError(t, err)
	assert.Equal(t, "FEST20", *o.Code)
	assert.Nil(t, o.ValidUntil)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActiveByCode_NotFound(t *testing.T) {
	repo, mock := setupOfferMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM offers")).
		WithArgs("GONE").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindActiveByCode(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrOfferNotFound)
}

func TestFindActiveByCode_SkipsExpired(t *testing.T) {
	repo, mock := setupOfferMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("AND (valid_until IS NULL OR valid_until >= NOW())")).
		WithArgs("OLD10").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindActiveByCode(context.Background(), "old10")
	assert.ErrorIs(t, err, ErrOfferNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActive_TargetFilter(t *testing.T) {
	repo, mock := setupOfferMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("AND target IN ($1, 'both') ORDER BY sort_order ASC")).
		WithArgs("customer").
		WillReturnRows(offerRow())

	offers, err := repo.ListActive(context.Background(), "customer")
	require.NoError(t, err)
	assert.Len(t, offers, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateCode(t *testing.T) {
	repo, mock := setupOfferMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO offers")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), sampleOffer())
	assert.ErrorIs(t, err, ErrDuplicateCode)
}

func TestDelete(t *testing.T) {
	repo, mock := setupOfferMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM offers WHERE id = $1 AND provider_id = $2")).
		WithArgs(int64(4), "p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM offers")).
		WithArgs(int64(5), "p-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Delete(context.Background(), 4, "p-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(context.Background(), 5, "p-1")
	require.NoError(t, err)
	assert.False(t, ok)
}
