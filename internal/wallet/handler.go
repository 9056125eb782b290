package wallet

import (
	"fmt"
	"net/http"
	"strconv"

	"gfuture/internal/api"
	"gfuture/internal/ledger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetBalance(c *gin.Context) {
	who, ok := api.Requester(c)
	if !ok {
		return
	}

	w, err := h.service.Balance(c.Request.Context(), who.ID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallet": w})
}

func (h *Handler) ListTransactions(c *gin.Context) {
	who, ok := api.Requester(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(ledger.DefaultPageLimit)))

	history, err := h.service.History(c.Request.Context(), who.ID, ledger.Filter{
		Type:  ledger.TxType(c.Query("type")),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

func (h *Handler) AddFunds(c *gin.Context) {
	who, ok := api.Requester(c)
	if !ok {
		return
	}

	var req AddFundsRequest
	if !api.BindAndValidate(c, &req) {
		return
	}

	w, err := h.service.AddFunds(c.Request.Context(), who.ID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wallet":  w,
		"message": "Funds added successfully",
	})
}

func (h *Handler) RedeemCredits(c *gin.Context) {
	who, ok := api.Requester(c)
	if !ok {
		return
	}

	var req RedeemRequest
	if !api.BindAndValidate(c, &req) {
		return
	}

	res, err := h.service.RedeemCredits(c.Request.Context(), who.ID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wallet":   res.Wallet,
		"redeemed": res.Redeemed,
		"message":  fmt.Sprintf("Redeemed %d points for ₹%s", res.Redeemed.Points, res.Redeemed.CashValue),
	})
}

func (h *Handler) Pay(c *gin.Context) {
	who, ok := api.Requester(c)
	if !ok {
		return
	}

	var req PayRequest
	if !api.BindAndValidate(c, &req) {
		return
	}

	res, err := h.service.Pay(c.Request.Context(), who, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wallet":  res.Wallet,
		"payment": res.Payment,
		"message": "Payment successful",
	})
}

// Audit replays a user's journal against the stored wallet. Admin only.
func (h *Handler) Audit(c *gin.Context) {
	report, err := h.service.Audit(c.Request.Context(), c.Param("userId"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"audit": report})
}
