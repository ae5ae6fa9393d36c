package services

import (
	"errors"
	"log"
	"strings"

	"github.com/md2563430-netizen/KABS-WEBSITE/internal/models"
	"github.com/md2563430-netizen/KABS-WEBSITE/internal/storage"
)

// ErrInvalidDraft means the draft has no recipients or a blank message.
var ErrInvalidDraft = errors.New("invalid draft")

// SMSSender is the dispatch backend used by SendService. TwilioService
// satisfies it; tests substitute their own.
type SMSSender interface {
	SendSMS(to string, body string) error
}

// SendService dispatches a campaign to its recipients, either through
// Twilio or through the simulated provider, and records the outcome.
type SendService struct {
	store    storage.Store
	sender   SMSSender
	provider string // "simulated" or "twilio"
}

// NewSendService creates a new send service. sender may be nil, which
// forces the simulated provider.
func NewSendService(store storage.Store, sender SMSSender, provider string) *SendService {
	if sender == nil {
		provider = "simulated"
	}
	return &SendService{
		store:    store,
		sender:   sender,
		provider: provider,
	}
}

// SendCampaign submits the draft to the configured provider. A repeated
// idempotency key returns the original report without resending.
func (s *SendService) SendCampaign(draft *models.Draft, idempotencyKey string) (*models.SendReport, error) {
	if report, err := s.store.GetSendReportByIdempotencyKey(idempotencyKey); err == nil {
		return report, nil
	}

	if draft == nil || !draft.HasRecipients() || strings.TrimSpace(draft.Message) == "" {
		return nil, ErrInvalidDraft
	}

	var sent, failed int
	if s.provider == "twilio" {
		sent, failed = s.dispatchTwilio(draft)
	} else {
		sent, failed = s.dispatchSimulated(draft)
	}

	report := &models.SendReport{
		UseCase:        draft.UseCase,
		Success:        failed == 0,
		Sent:           sent,
		Failed:         failed,
		Provider:       s.provider,
		IdempotencyKey: idempotencyKey,
	}
	if _, err := s.store.CreateSendReport(report); err != nil {
		return nil, err
	}

	log.Printf("Campaign %q dispatched via %s: %d sent, %d failed", draft.CampaignName, s.provider, sent, failed)
	return report, nil
}

// dispatchSimulated pretends to send. Above 10 recipients it reports a
// 2% failure rate so the demo shows a non-trivial outcome.
func (s *SendService) dispatchSimulated(draft *models.Draft) (sent, failed int) {
	total := len(draft.Recipients)
	if total > 10 {
		failed = total * 2 / 100
	}
	return total - failed, failed
}

func (s *SendService) dispatchTwilio(draft *models.Draft) (sent, failed int) {
	for _, r := range draft.Recipients {
		body := PersonalizeMessage(draft.Message, r.Name)
		if err := s.sender.SendSMS(r.Phone, body); err != nil {
			failed++
			continue
		}
		sent++
	}
	return sent, failed
}

// PersonalizeMessage fills the {name} placeholder, falling back to
// "there" for recipients without a name.
func PersonalizeMessage(message, name string) string {
	if name == "" {
		name = "there"
	}
	return strings.ReplaceAll(message, "{name}", name)
}
