package offer

import (
	"net/http"
	"strconv"

	"gfuture/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// List returns active offers, optionally only those for ?target=.
func (h *Handler) List(c *gin.Context) {
	offers, err := h.service.List(c.Request.Context(), c.Query("target"))
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

func (h *Handler) Apply(c *gin.Context) {
	who, ok := api.Requester(c)
	if !ok {
		return
	}

	var req ApplyRequest
	if !api.BindAndValidate(c, &req) {
		return
	}

	result, err := h.service.Apply(c.Request.Context(), who, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ListMine(c *gin.Context) {
	who, ok := api.Requester(c)
	if !ok {
		return
	}

	offers, err := h.service.ListMine(c.Request.Context(), who.ID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

func (h *Handler) Create(c *gin.Context) {
	who, ok := api.Requester(c)
	if !ok {
		return
	}

	var req CreateOfferRequest
	if !api.BindAndValidate(c, &req) {
		return
	}

	o, err := h.service.Create(c.Request.Context(), who.ID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *Handler) Update(c *gin.Context) {
	who, ok := api.Requester(c)
	if !ok {
		return
	}
	id, ok := offerID(c)
	if !ok {
		return
	}

	var patch OfferPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	o, err := h.service.Update(c.Request.Context(), who.ID, id, patch)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) Delete(c *gin.Context) {
	who, ok := api.Requester(c)
	if !ok {
		return
	}
	id, ok := offerID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), who.ID, id); err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Offer deleted"})
}

func offerID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid offer ID"})
		return 0, false
	}
	return id, true
}
