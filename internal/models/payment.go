package models

import "time"

// Payment represents one payment attempt for a campaign.
type Payment struct {
	ID             string     `json:"id"`
	UseCase        string     `json:"use_case"`
	Method         string     `json:"method"` // "paypal", "mobile_money", "card", "flutterwave"
	Amount         float64    `json:"amount"`
	Currency       string     `json:"currency"`
	TxRef          string     `json:"tx_ref"`
	Status         string     `json:"status"` // "pending", "captured", "failed"
	IdempotencyKey string     `json:"-"`
	CapturedAt     *time.Time `json:"captured_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Payment status constants
const (
	PaymentStatusPending  = "pending"
	PaymentStatusCaptured = "captured"
	PaymentStatusFailed   = "failed"
)

// MethodFlutterwave marks payments started through the hosted
// Flutterwave page rather than the demo checkout.
const MethodFlutterwave = "flutterwave"
