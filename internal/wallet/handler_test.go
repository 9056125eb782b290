package wallet

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gfuture/internal/apperr"
	"gfuture/internal/auth"
	"gfuture/internal/ledger"
	"gfuture/internal/ledger/ledgertest"
	"gfuture/internal/settlement"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupRouter(mem *ledgertest.Memory, payer Payer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		auth.SetIdentity(c, auth.Identity{ID: "u-1", Role: auth.RoleCustomer})
		c.Next()
	})

	h := NewHandler(NewService(mem, payer))
	r.GET("/api/wallet", h.GetBalance)
	r.GET("/api/wallet/transactions", h.ListTransactions)
	r.POST("/api/wallet/add-funds", h.AddFunds)
	r.POST("/api/wallet/redeem-credits", h.RedeemCredits)
	r.POST("/api/wallet/pay", h.Pay)
	r.GET("/api/admin/wallets/:userId/audit", h.Audit)
	return r
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_GetBalance(t *testing.T) {
	r := setupRouter(ledgertest.NewMemory(), &stubPayer{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/wallet", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"balance":0`)
	assert.Contains(t, w.Body.String(), `"credit_points":100`)
}

func TestHandler_AddFunds(t *testing.T) {
	r := setupRouter(ledgertest.NewMemory(), &stubPayer{})

	w := post(r, "/api/wallet/add-funds", `{"amount":250.5}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"balance":250.5`)
	assert.Contains(t, w.Body.String(), `"message":"Funds added successfully"`)

	w = post(r, "/api/wallet/add-funds", `{"amount":-5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Valid amount is required"}`, w.Body.String())

	w = post(r, "/api/wallet/add-funds", `{"amount":"lots"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_RedeemCredits(t *testing.T) {
	r := setupRouter(ledgertest.NewMemory(), &stubPayer{})

	w := post(r, "/api/wallet/redeem-credits", `{"points":60}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redeemed":{"points":60,"cashValue":30}`)
	assert.Contains(t, w.Body.String(), `"message":"Redeemed 60 points for ₹30"`)

	w = post(r, "/api/wallet/redeem-credits", `{"points":50}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Insufficient credit points"}`, w.Body.String())

	w = post(r, "/api/wallet/redeem-credits", `{"points":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"Points","tag":"gt"`)

	w = post(r, "/api/wallet/redeem-credits", `{"points":"many"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, w.Body.String())
}

func TestHandler_Pay(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		payer := &stubPayer{res: &settlement.PayResult{
			Wallet:  &ledger.Account{UserID: "u-1", Balance: d("0"), CreditPoints: 120},
			Payment: settlement.PaySummary{OrderID: "o-1", AmountPaid: d("1000"), PointsEarned: 20},
		}}
		r := setupRouter(ledgertest.NewMemory(), payer)

		w := post(r, "/api/wallet/pay", `{"orderId":"o-1"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"payment":{"orderId":"o-1","amountPaid":1000,"creditsUsed":0,"pointsEarned":20}`)
		assert.Contains(t, w.Body.String(), `"message":"Payment successful"`)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		payer := &stubPayer{err: &apperr.InsufficientFundsError{Required: d("1000"), Available: d("500")}}
		r := setupRouter(ledgertest.NewMemory(), payer)

		w := post(r, "/api/wallet/pay", `{"orderId":"o-1"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Insufficient wallet balance","required":1000,"available":500}`, w.Body.String())
	})

	t.Run("missing order id", func(t *testing.T) {
		r := setupRouter(ledgertest.NewMemory(), &stubPayer{})

		w := post(r, "/api/wallet/pay", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"error":"validation failed"`)
		assert.Contains(t, w.Body.String(), `"field":"OrderID","tag":"required"`)
	})

	t.Run("malformed body", func(t *testing.T) {
		r := setupRouter(ledgertest.NewMemory(), &stubPayer{})

		w := post(r, "/api/wallet/pay", `{"orderId":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"invalid request body"}`, w.Body.String())
	})
}

func TestHandler_ListTransactions(t *testing.T) {
	r := setupRouter(ledgertest.NewMemory(), &stubPayer{})
	post(r, "/api/wallet/add-funds", `{"amount":10}`)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/wallet/transactions?type=top_up&limit=500", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
	assert.Contains(t, w.Body.String(), `"page":1`)
	assert.Contains(t, w.Body.String(), `"totalPages":1`)
}

func TestHandler_Audit(t *testing.T) {
	r := setupRouter(ledgertest.NewMemory(), &stubPayer{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/admin/wallets/u-7/audit", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"consistent":true`)
}
