package payment

import (
	"net/http"

	"gfuture/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service   Service
	confirmer Confirmer
}

func NewHandler(service Service, confirmer Confirmer) *Handler {
	return &Handler{service: service, confirmer: confirmer}
}

func (h *Handler) Initiate(c *gin.Context) {
	who, ok := api.Requester(c)
	if !ok {
		return
	}

	var req InitiateRequest
	if !api.BindAndValidate(c, &req) {
		return
	}

	checkout, err := h.service.Initiate(c.Request.Context(), who, req.OrderID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": checkout})
}

func (h *Handler) Verify(c *gin.Context) {
	who, ok := api.Requester(c)
	if !ok {
		return
	}

	var req VerifyRequest
	if !api.BindAndValidate(c, &req) {
		return
	}

	p, err := h.confirmer.ConfirmExternalPayment(c.Request.Context(), who, req.PaymentID, req.TransactionRef)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"payment": p,
		"message": "Payment verified successfully",
	})
}

func (h *Handler) Get(c *gin.Context) {
	who, ok := api.Requester(c)
	if !ok {
		return
	}

	p, err := h.service.ForOrder(c.Request.Context(), who, c.Param("orderId"))
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": p})
}
