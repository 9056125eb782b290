package payment

import (
	"encoding/base64"
	"fmt"
	"image/color"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 300

var qrForeground = color.RGBA{R: 0x0a, G: 0x16, B: 0x28, A: 0xff}

// Merchant is the UPI payee shown on every checkout.
type Merchant struct {
	UPIID string
	Name  string
}

// UPILink builds the upi://pay deep link for a payment.
func UPILink(m Merchant, orderID string, amount decimal.Decimal, paymentID string) string {
	note := "GFuture-" + orderID
	if len(orderID) > 8 {
		note = "GFuture-" + orderID[:8]
	}
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%s&cu=INR&tn=%s&tr=%s",
		escape(m.UPIID), escape(m.Name), amount.StringFixed(2), escape(note), paymentID)
}

// QRDataURL renders content as a PNG QR code inside a data URL.
func QRDataURL(content string) (string, error) {
	q, err := qrcode.New(content, qrcode.High)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	q.ForegroundColor = qrForeground

	png, err := q.PNG(qrSize)
	if err != nil {
		return "", fmt.Errorf("render qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// escape percent-encodes s for a query value, spaces as %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
