package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gfuture_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gfuture_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	LedgerTransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gfuture_ledger_transactions_total",
			Help: "Total number of wallet journal entries written",
		},
		[]string{"type"},
	)

	SettlementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gfuture_settlements_total",
			Help: "Total number of order payment attempts",
		},
		[]string{"method", "outcome"},
	)

	OrdersCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gfuture_orders_created_total",
			Help: "Total number of orders created",
		},
		[]string{"coupon"},
	)

	WalletTopUpsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gfuture_wallet_topups_total",
			Help: "Total number of wallet top-ups",
		},
	)

	CreditsRedeemedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gfuture_credits_redeemed_total",
			Help: "Total credit points converted to wallet balance",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gfuture_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gfuture_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordLedgerTransaction(txType string) {
	LedgerTransactionsTotal.WithLabelValues(txType).Inc()
}

// RecordSettlement counts a payment attempt. outcome is "success" or a short
// failure reason such as "insufficient_funds".
func RecordSettlement(method, outcome string) {
	SettlementsTotal.WithLabelValues(method, outcome).Inc()
}

func RecordOrderCreated(withCoupon bool) {
	label := "none"
	if withCoupon {
		label = "applied"
	}
	OrdersCreatedTotal.WithLabelValues(label).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordWalletTopUp() {
	WalletTopUpsTotal.Inc()
}

func RecordCreditsRedeemed(points int) {
	CreditsRedeemedTotal.Add(float64(points))
}
