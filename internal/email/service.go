package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"gfuture/internal/logger"
	"gfuture/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	queueKey  = "emails"
	failedKey = "emails:failed"

	maxTries = 3
)

const (
	TypeOrderConfirmation = "order_confirmation"
	TypePaymentReceipt    = "payment_receipt"
)

type Job struct {
	Type    string    `json:"type"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// OrderSummary is the content of an order confirmation mail.
type OrderSummary struct {
	OrderID       string
	Items         int
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	PlatformFee   decimal.Decimal
	Total         decimal.Decimal
	ScheduledDate string
}

// Receipt is the content of a payment receipt mail.
type Receipt struct {
	OrderID      string
	Method       string
	AmountPaid   decimal.Decimal
	CreditsUsed  int
	PointsEarned int
	PaidAt       time.Time
}

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Pass     string
	From     string
	FromName string
}

type Service struct {
	redis      *redis.Client
	smtp       SMTPConfig
	retryDelay time.Duration
	deliver    func(Job) error
}

func New(rdb *redis.Client, cfg SMTPConfig) *Service {
	s := &Service{
		redis:      rdb,
		smtp:       cfg,
		retryDelay: 5 * time.Second,
	}
	s.deliver = s.sendNow
	return s
}

func (s *Service) Send(ctx context.Context, kind, to, name, subject, body string) error {
	job := Job{
		Type:    kind,
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Error("failed to queue email", "to", to, "type", kind, "error", err)
		return err
	}

	logger.Debug("email queued", "to", to, "type", kind)
	return nil
}

// Start consumes the queue until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("dropping malformed email job", "error", err)
		return
	}

	job.Tries++
	if err := s.deliver(job); err != nil {
		logger.Warn("email delivery failed", "to", job.To, "type", job.Type, "attempt", job.Tries, "error", err)

		if job.Tries < maxTries {
			time.Sleep(s.retryDelay)
			data, _ := json.Marshal(job)
			s.redis.LPush(ctx, queueKey, string(data))
			metrics.RecordEmail(job.Type, "retry")
		} else {
			s.saveFailed(ctx, job, err)
			metrics.RecordEmail(job.Type, "failed")
		}
		return
	}

	metrics.RecordEmail(job.Type, "sent")
	logger.Info("email sent", "to", job.To, "type", job.Type)
}

func (s *Service) sendNow(job Job) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.smtp.FromName, s.smtp.From)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtp.User != "" && s.smtp.Pass != "" {
		auth = smtp.PlainAuth("", s.smtp.User, s.smtp.Pass, s.smtp.Host)
	}

	addr := s.smtp.Host + ":" + s.smtp.Port
	return smtp.SendMail(addr, auth, s.smtp.From, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(ctx context.Context, job Job, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(ctx, failedKey, string(data))
	logger.Error("email moved to failed queue", "to", job.To, "type", job.Type, "tries", job.Tries)
}

// QueueLength reports the pending job count and publishes it as a gauge.
func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	metrics.EmailQueueLength.Set(float64(length))
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func (s *Service) SendOrderConfirmation(ctx context.Context, to, name string, o OrderSummary) error {
	subject := "Order Placed - #" + shortID(o.OrderID)
	body := fmt.Sprintf(`Hi %s,

Your order has been placed.

Order: #%s
Services: %d
Subtotal: ₹%s
Discount: ₹%s
Platform fee: ₹%s
Total: ₹%s
`, name, shortID(o.OrderID), o.Items,
		o.Subtotal.StringFixed(2), o.Discount.StringFixed(2), o.PlatformFee.StringFixed(2), o.Total.StringFixed(2))
	if o.ScheduledDate != "" {
		body += "Scheduled: " + o.ScheduledDate + "\n"
	}
	body += "\nPay from your wallet or by UPI to confirm the booking.\n\n- GFuture Team"

	return s.Send(ctx, TypeOrderConfirmation, to, name, subject, body)
}

func (s *Service) SendPaymentReceipt(ctx context.Context, to, name string, r Receipt) error {
	subject := "Payment Received - #" + shortID(r.OrderID)
	body := fmt.Sprintf(`Hi %s,

We received your payment.

Order: #%s
Method: %s
Amount paid: ₹%s
`, name, shortID(r.OrderID), r.Method, r.AmountPaid.StringFixed(2))
	if r.CreditsUsed > 0 {
		body += fmt.Sprintf("Credits used: %d\n", r.CreditsUsed)
	}
	if r.PointsEarned > 0 {
		body += fmt.Sprintf("Points earned: %d\n", r.PointsEarned)
	}
	body += fmt.Sprintf("Paid at: %s\n\nYour order is confirmed.\n\n- GFuture Team", r.PaidAt.Format("Jan 2, 2006 at 3:04 PM"))

	return s.Send(ctx, TypePaymentReceipt, to, name, subject, body)
}

func shortID(id string) string {
	if len(id) < 8 {
		return id
	}
	return id[:8]
}
