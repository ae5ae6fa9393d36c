package models

import "time"

// Recipient is a single phone/name pair inside a campaign draft.
// Phone is always stored normalized: digits plus at most one leading "+".
type Recipient struct {
	Phone string `json:"phone"`
	Name  string `json:"name,omitempty"`
}

// Draft is one bulk-SMS campaign in progress. Exactly one draft exists
// per use case at a time; saving overwrites the previous one.
type Draft struct {
	UseCase      string      `json:"useCase"`
	CampaignName string      `json:"campaignName"`
	SenderID     string      `json:"senderId"`
	Recipients   []Recipient `json:"recipients"`
	Message      string      `json:"message"`
	ScheduledAt  *time.Time  `json:"scheduledAt,omitempty"`
	CreatedAt    int64       `json:"createdAt"` // unix millis

	// Stage tracks where the campaign sits in the wizard.
	Stage string `json:"stage"`

	// Version is bumped on every save. A save that carries a stale
	// expected version is rejected so concurrent editors notice each
	// other instead of silently overwriting.
	Version int64 `json:"version"`

	// TxRef is set once payment for this draft has been captured.
	TxRef string `json:"txRef,omitempty"`
}

// Wizard stage constants
const (
	StageCompose = "compose"
	StageConfirm = "confirm"
	StagePayment = "payment"
	StageSuccess = "success"
)

// Payment method constants
const (
	MethodPayPal      = "paypal"
	MethodMobileMoney = "mobile_money"
	MethodCard        = "card"
)

// ValidPaymentMethod reports whether m is one of the offered methods.
func ValidPaymentMethod(m string) bool {
	switch m {
	case MethodPayPal, MethodMobileMoney, MethodCard:
		return true
	}
	return false
}

// HasRecipients reports whether the draft can move past compose.
func (d *Draft) HasRecipients() bool {
	return len(d.Recipients) > 0
}

// CostEstimate is derived from a draft on every read. It is never
// stored, so it cannot drift from the draft it was computed from.
type CostEstimate struct {
	Qty      int     `json:"qty"`
	Segments int     `json:"segments"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}
