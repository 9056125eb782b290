package user

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"gfuture/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubRepo map[string]*User

func (s stubRepo) FindByID(ctx context.Context, id string) (*User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func serveMe(repo Repository, who *auth.Identity) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if who != nil {
		r.Use(func(c *gin.Context) {
			auth.SetIdentity(c, *who)
			c.Next()
		})
	}
	r.GET("/api/me", NewHandler(repo).GetMe)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/me", nil))
	return w
}

func TestGetMe(t *testing.T) {
	repo := stubRepo{"u-1": {ID: "u-1", Name: "Alice", Role: auth.RoleCustomer}}

	w := serveMe(repo, &auth.Identity{ID: "u-1", Role: auth.RoleCustomer})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Alice"`)

	w = serveMe(repo, &auth.Identity{ID: "u-2", Role: auth.RoleCustomer})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serveMe(repo, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
