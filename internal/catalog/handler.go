package catalog

import (
	"net/http"
	"strconv"

	"gfuture/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Catalog
}

func NewHandler(service Catalog) *Handler {
	return &Handler{service: service}
}

// ListServices serves GET /api/services?category=&provider_id=&search=&sort=&page=&limit=
func (h *Handler) ListServices(c *gin.Context) {
	f := Filter{
		ProviderID: c.Query("provider_id"),
		Search:     c.Query("search"),
		Sort:       Sort(c.Query("sort")),
	}
	f.CategoryID, _ = strconv.ParseInt(c.Query("category"), 10, 64)
	f.Page, _ = strconv.Atoi(c.Query("page"))
	f.Limit, _ = strconv.Atoi(c.Query("limit"))

	items, total, used, err := h.service.ListServices(c.Request.Context(), f)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"services":   items,
		"total":      total,
		"page":       used.Page,
		"totalPages": api.TotalPages(total, used.Limit),
	})
}

func (h *Handler) GetService(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid service ID"})
		return
	}

	svc, err := h.service.GetService(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"service": svc})
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
