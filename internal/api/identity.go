package api

import (
	"net/http"

	"gfuture/internal/auth"

	"github.com/gin-gonic/gin"
)

// Requester returns the authenticated identity, or writes 401 and returns
// false when the route was reached without one.
func Requester(c *gin.Context) (auth.Identity, bool) {
	id, ok := auth.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return auth.Identity{}, false
	}
	return id, true
}
