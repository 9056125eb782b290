package plan

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gfuture/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupRouter(repo Repository, who *auth.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if who != nil {
			auth.SetIdentity(c, *who)
		}
		c.Next()
	})

	h := NewHandler(NewService(repo))
	r.GET("/api/plans", h.List)
	r.GET("/api/plans/my", h.Mine)
	r.POST("/api/plans/subscribe", h.Subscribe)
	r.POST("/api/plans/cancel", h.Cancel)
	r.GET("/api/plans/recommend", h.Recommend)
	return r
}

var customer = &auth.Identity{ID: "u-1", Role: auth.RoleCustomer}

func TestHandler_List(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListActive", mock.Anything, "").Return([]Plan{}, nil)

	w := httptest.NewRecorder()
	setupRouter(repo, nil).ServeHTTP(w, httptest.NewRequest("GET", "/api/plans", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"plans":[]}`, w.Body.String())
}

func TestHandler_MineWithoutPlan(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Current", mock.Anything, "u-1").Return(nil, ErrSubscriptionNotFound)

	w := httptest.NewRecorder()
	setupRouter(repo, customer).ServeHTTP(w, httptest.NewRequest("GET", "/api/plans/my", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"plan":null}`, w.Body.String())
}

func TestHandler_Subscribe(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetActive", mock.Anything, int64(2)).Return(&Plan{ID: 2}, nil)
		repo.On("Subscribe", mock.Anything, "u-1", int64(2)).Return(&Subscription{ID: 7, PlanID: 2, Status: StatusActive}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/plans/subscribe", strings.NewReader(`{"plan_id":2}`))
		req.Header.Set("Content-Type", "application/json")
		setupRouter(repo, customer).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"message":"Plan subscribed successfully"`)
	})

	t.Run("missing plan id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/plans/subscribe", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		setupRouter(new(MockRepository), customer).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/plans/subscribe", strings.NewReader(`{"plan_id":2}`))
		req.Header.Set("Content-Type", "application/json")
		setupRouter(new(MockRepository), nil).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandler_Cancel(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Cancel", mock.Anything, "u-1").Return(true, nil)

	w := httptest.NewRecorder()
	setupRouter(repo, customer).ServeHTTP(w, httptest.NewRequest("POST", "/api/plans/cancel", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Plan cancelled"}`, w.Body.String())
}

func TestHandler_RecommendNone(t *testing.T) {
	repo := new(MockRepository)
	repo.On("FindRecommended", mock.Anything, "customer").Return(nil, ErrPlanNotFound)
	repo.On("FindCheapest", mock.Anything, "customer").Return(nil, ErrPlanNotFound)

	w := httptest.NewRecorder()
	setupRouter(repo, customer).ServeHTTP(w, httptest.NewRequest("GET", "/api/plans/recommend", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"recommendation":null}`, w.Body.String())
}
