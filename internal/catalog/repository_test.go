package catalog

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var serviceCols = []string{"id", "name", "category_id", "category_name", "provider_id", "price", "rating",
	"reviews", "image", "description", "duration", "warranty", "includes", "active", "created_at", "updated_at"}

func setupCatalogMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(conn, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })
	return NewRepository(sqlxDB), mock
}

func serviceRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(serviceCols).AddRow(
		5, "Deep Cleaning", 2, "Cleaning", "p-1", "1499.00", "4.80",
		120, nil, "Full home", "3 hrs", nil, "{kitchen,bathroom}", true, now, now)
}

func TestGetActiveService(t *testing.T) {
	repo, mock := setupCatalogMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.id = $1 AND s.active = TRUE")).
		WithArgs(int64(5)).
		WillReturnRows(serviceRows())

	svc, err := repo.GetActiveService(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, svc.Price.Equal(decimal.RequireFromString("1499")))
	assert.Equal(t, []string{"kitchen", "bathroom"}, []string(svc.Includes))
	assert.Equal(t, "Cleaning", *svc.CategoryName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetActiveService_Inactive(t *testing.T) {
	repo, mock := setupCatalogMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("s.active = TRUE")).
		WithArgs(int64(6)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetActiveService(context.Background(), 6)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestListServices_Filters(t *testing.T) {
	repo, mock := setupCatalogMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM services s WHERE s.active = TRUE AND s.category_id = $1 AND (s.name ILIKE $2 OR s.description ILIKE $2)")).
		WithArgs(int64(2), "%clean%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY s.price ASC, s.id ASC LIMIT $3 OFFSET $4")).
		WithArgs(int64(2), "%clean%", 20, 0).
		WillReturnRows(serviceRows())

	items, total, err := repo.ListServices(context.Background(), Filter{
		CategoryID: 2, Search: "clean", Sort: SortPriceLow, Page: 1, Limit: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListServices_UnknownSortFallsBack(t *testing.T) {
	repo, mock := setupCatalogMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY s.reviews DESC")).
		WithArgs(10, 10).
		WillReturnRows(sqlmock.NewRows(serviceCols))

	items, _, err := repo.ListServices(context.Background(), Filter{Sort: "cheapest", Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}
