package order

import (
	"net/http"

	"gfuture/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	creator Creator
}

func NewHandler(service Service, creator Creator) *Handler {
	return &Handler{service: service, creator: creator}
}

func (h *Handler) Create(c *gin.Context) {
	who, ok := api.Requester(c)
	if !ok {
		return
	}

	var in CreateInput
	if !api.BindAndValidate(c, &in) {
		return
	}

	o, err := h.creator.CreateOrder(c.Request.Context(), who, in)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": o})
}

func (h *Handler) List(c *gin.Context) {
	who, ok := api.Requester(c)
	if !ok {
		return
	}

	orders, err := h.service.List(c.Request.Context(), who)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) Get(c *gin.Context) {
	who, ok := api.Requester(c)
	if !ok {
		return
	}

	o, err := h.service.Get(c.Request.Context(), who, c.Param("id"))
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": o})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	who, ok := api.Requester(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !api.BindAndValidate(c, &req) {
		return
	}

	o, err := h.service.UpdateStatus(c.Request.Context(), who, c.Param("id"), req.Status)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": o})
}
