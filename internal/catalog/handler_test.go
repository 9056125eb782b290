package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"gfuture/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) ListServices(ctx context.Context, f Filter) ([]Service, int, Filter, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]Service), args.Int(1), args.Get(2).(Filter), args.Error(3)
}

func (m *MockCatalog) GetService(ctx context.Context, id int64) (*Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Service), args.Error(1)
}

func (m *MockCatalog) ListCategories(ctx context.Context) ([]Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Category), args.Error(1)
}

func setupRouter(svc Catalog) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc)
	r.GET("/api/services", h.ListServices)
	r.GET("/api/services/:id", h.GetService)
	r.GET("/api/categories", h.ListCategories)
	return r
}

func TestHandler_ListServices(t *testing.T) {
	svc := new(MockCatalog)
	svc.On("ListServices", mock.Anything, Filter{CategoryID: 2, Sort: SortRating, Page: 2}).
		Return([]Service{}, 45, Filter{CategoryID: 2, Sort: SortRating, Page: 2, Limit: 20}, nil)

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest("GET", "/api/services?category=2&sort=rating&page=2", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"services":[],"total":45,"page":2,"totalPages":3}`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestHandler_GetService(t *testing.T) {
	svc := new(MockCatalog)
	svc.On("GetService", mock.Anything, int64(404)).Return(nil, apperr.NotFound("Service not found"))

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest("GET", "/api/services/404", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest("GET", "/api/services/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestService_ListServicesClampsPaging(t *testing.T) {
	repo := new(mockRepo)
	repo.On("ListServices", mock.Anything, Filter{Page: 1, Limit: maxLimit}).Return([]Service{}, 0, nil)

	_, _, used, err := NewService(repo).ListServices(context.Background(), Filter{Page: 0, Limit: 500})
	assert.NoError(t, err)
	assert.Equal(t, 1, used.Page)
	assert.Equal(t, maxLimit, used.Limit)
	repo.AssertExpectations(t)
}

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetActiveService(ctx context.Context, id int64) (*Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Service), args.Error(1)
}

func (m *mockRepo) GetService(ctx context.Context, id int64) (*Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Service), args.Error(1)
}

func (m *mockRepo) ListServices(ctx context.Context, f Filter) ([]Service, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]Service), args.Int(1), args.Error(2)
}

func (m *mockRepo) ListCategories(ctx context.Context) ([]Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Category), args.Error(1)
}
