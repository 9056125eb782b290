package plan

import (
	"net/http"

	"gfuture/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// List serves GET /api/plans?target=
func (h *Handler) List(c *gin.Context) {
	plans, err := h.service.List(c.Request.Context(), c.Query("target"))
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (h *Handler) Mine(c *gin.Context) {
	who, ok := api.Requester(c)
	if !ok {
		return
	}

	sub, err := h.service.Mine(c.Request.Context(), who.ID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": sub})
}

func (h *Handler) Subscribe(c *gin.Context) {
	who, ok := api.Requester(c)
	if !ok {
		return
	}

	var req SubscribeRequest
	if !api.BindAndValidate(c, &req) {
		return
	}

	sub, err := h.service.Subscribe(c.Request.Context(), who.ID, req.PlanID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"subscription": sub,
		"message":      "Plan subscribed successfully",
	})
}

func (h *Handler) Cancel(c *gin.Context) {
	who, ok := api.Requester(c)
	if !ok {
		return
	}

	cancelled, err := h.service.Cancel(c.Request.Context(), who.ID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	msg := "No active plan to cancel"
	if cancelled {
		msg = "Plan cancelled"
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: msg})
}

func (h *Handler) Recommend(c *gin.Context) {
	who, ok := api.Requester(c)
	if !ok {
		return
	}

	p, err := h.service.Recommend(c.Request.Context(), who)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendation": p})
}
