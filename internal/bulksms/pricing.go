package bulksms

import (
	"math"

	"github.com/md2563430-netizen/KABS-WEBSITE/internal/models"
)

// Pricing holds the fixed rate card for bulk SMS campaigns.
type Pricing struct {
	Currency    string
	PerMessage  float64 // per segment, per recipient
	SegmentSize int
	MinCharge   float64
}

// DefaultPricing is the platform rate card.
var DefaultPricing = Pricing{
	Currency:    "USD",
	PerMessage:  0.015,
	SegmentSize: 160,
	MinCharge:   5,
}

// CalcSegments returns how many SMS segments a message occupies.
// An empty message still costs one segment.
func CalcSegments(text string) int {
	return DefaultPricing.Segments(text)
}

// Segments returns how many SMS segments a message occupies under
// this rate card. Length counts characters, not bytes.
func (p Pricing) Segments(text string) int {
	n := len([]rune(text))
	if n <= p.SegmentSize {
		return 1
	}
	return (n + p.SegmentSize - 1) / p.SegmentSize
}

// EstimateCost computes the charge for sending the draft as it stands.
// The estimate is derived fresh on every call and never stored.
func EstimateCost(draft *models.Draft) models.CostEstimate {
	return DefaultPricing.Estimate(draft)
}

// Estimate computes qty * segments * rate, rounded to cents, with the
// minimum charge applied as a floor.
func (p Pricing) Estimate(draft *models.Draft) models.CostEstimate {
	segments := p.Segments(draft.Message)
	qty := len(draft.Recipients)

	raw := float64(qty) * float64(segments) * p.PerMessage
	total := math.Round(raw*100) / 100
	if total < p.MinCharge {
		total = p.MinCharge
	}

	return models.CostEstimate{
		Qty:      qty,
		Segments: segments,
		Total:    total,
		Currency: p.Currency,
	}
}
