package services

import (
	"errors"
	"strings"

	"github.com/md2563430-netizen/KABS-WEBSITE/internal/bulksms"
	"github.com/md2563430-netizen/KABS-WEBSITE/internal/models"
	"github.com/md2563430-netizen/KABS-WEBSITE/internal/storage"
)

// Wizard errors surfaced to clients.
var (
	ErrUnknownUseCase = errors.New("unknown campaign type")

	// ErrDraftIncomplete gates the compose -> confirm transition:
	// recipients must be non-empty and the message non-blank.
	ErrDraftIncomplete = errors.New("draft needs recipients and a message")
)

// WizardService drives a campaign draft through
// compose -> confirm -> payment -> success.
type WizardService struct {
	store storage.Store
}

// NewWizardService creates a new wizard service
func NewWizardService(store storage.Store) *WizardService {
	return &WizardService{store: store}
}

// GetOrCreateDraft returns the stored draft for a use case, seeding it
// from the catalog defaults the first time the use case is opened.
func (w *WizardService) GetOrCreateDraft(useCase string) (*models.Draft, error) {
	if _, ok := models.FindUseCase(useCase); !ok {
		return nil, ErrUnknownUseCase
	}

	draft, err := w.store.GetDraft(useCase)
	if err == nil {
		return draft, nil
	}
	if !errors.Is(err, storage.ErrDraftNotFound) {
		return nil, err
	}

	return w.store.SaveDraft(models.DefaultDraft(useCase), 0)
}

// SaveDraft applies compose-screen edits and persists. Stage, TxRef and
// CreatedAt are server-owned and cannot be set by the edit.
// expectedVersion > 0 enables the conflict check.
func (w *WizardService) SaveDraft(useCase string, edit *models.Draft, expectedVersion int64) (*models.Draft, error) {
	current, err := w.GetOrCreateDraft(useCase)
	if err != nil {
		return nil, err
	}

	current.CampaignName = edit.CampaignName
	current.SenderID = edit.SenderID
	current.Message = edit.Message
	current.ScheduledAt = edit.ScheduledAt
	if edit.Recipients != nil {
		current.Recipients = normalizeRecipients(edit.Recipients)
	}
	current.Stage = models.StageCompose

	return w.store.SaveDraft(current, expectedVersion)
}

// normalizeRecipients re-normalizes client-supplied recipients so the
// stored list always honors the phone invariants.
func normalizeRecipients(in []models.Recipient) []models.Recipient {
	seen := make(map[string]bool)
	out := []models.Recipient{}
	for _, r := range in {
		phone := bulksms.NormalizePhone(r.Phone)
		if phone == "" || seen[phone] {
			continue
		}
		seen[phone] = true
		out = append(out, models.Recipient{Phone: phone, Name: strings.TrimSpace(r.Name)})
	}
	return out
}

// ResetDraft overwrites the draft with the use-case template defaults.
func (w *WizardService) ResetDraft(useCase string) (*models.Draft, error) {
	if _, ok := models.FindUseCase(useCase); !ok {
		return nil, ErrUnknownUseCase
	}
	return w.store.SaveDraft(models.DefaultDraft(useCase), 0)
}

// ImportRecipientsText replaces the draft's recipients with the parse
// of a pasted text blob (first occurrence of a phone wins).
func (w *WizardService) ImportRecipientsText(useCase, text string) (*models.Draft, error) {
	return w.SetRecipients(useCase, bulksms.ParseRecipientsText(text))
}

// ImportRecipientsCSV replaces the draft's recipients with the parse
// of CSV text (last row for a phone wins).
func (w *WizardService) ImportRecipientsCSV(useCase, text string) (*models.Draft, error) {
	return w.SetRecipients(useCase, bulksms.ParseRecipientsCSV(text))
}

// SetRecipients replaces the draft's recipients with an already-parsed
// list and returns the draft to compose.
func (w *WizardService) SetRecipients(useCase string, recipients []models.Recipient) (*models.Draft, error) {
	draft, err := w.GetOrCreateDraft(useCase)
	if err != nil {
		return nil, err
	}
	draft.Recipients = recipients
	draft.Stage = models.StageCompose
	return w.store.SaveDraft(draft, 0)
}

// Estimate recomputes the cost estimate from the stored draft.
func (w *WizardService) Estimate(useCase string) (models.CostEstimate, error) {
	draft, err := w.GetOrCreateDraft(useCase)
	if err != nil {
		return models.CostEstimate{}, err
	}
	return bulksms.EstimateCost(draft), nil
}

// Confirm moves the draft from compose to confirm, provided the gate
// holds: recipients non-empty and message non-blank.
func (w *WizardService) Confirm(useCase string) (*models.Draft, error) {
	draft, err := w.GetOrCreateDraft(useCase)
	if err != nil {
		return nil, err
	}

	if !draft.HasRecipients() || strings.TrimSpace(draft.Message) == "" {
		return nil, ErrDraftIncomplete
	}

	draft.Stage = models.StageConfirm
	return w.store.SaveDraft(draft, 0)
}

// Back returns the draft to the compose stage, keeping all content.
func (w *WizardService) Back(useCase string) (*models.Draft, error) {
	draft, err := w.GetOrCreateDraft(useCase)
	if err != nil {
		return nil, err
	}
	draft.Stage = models.StageCompose
	return w.store.SaveDraft(draft, 0)
}

// EnterPayment marks the draft as sitting on the payment screen. A
// failed charge leaves it there; resubmission is the user's call.
func (w *WizardService) EnterPayment(useCase string) (*models.Draft, error) {
	draft, err := w.GetOrCreateDraft(useCase)
	if err != nil {
		return nil, err
	}
	draft.Stage = models.StagePayment
	return w.store.SaveDraft(draft, 0)
}

// CompletePayment records the captured transaction and moves the draft
// to the terminal success stage.
func (w *WizardService) CompletePayment(useCase, txRef string) (*models.Draft, error) {
	draft, err := w.GetOrCreateDraft(useCase)
	if err != nil {
		return nil, err
	}
	draft.Stage = models.StageSuccess
	draft.TxRef = txRef
	return w.store.SaveDraft(draft, 0)
}

// MarkDispatched clears the schedule after a send so the scheduler
// does not pick the draft up again.
func (w *WizardService) MarkDispatched(useCase string) error {
	draft, err := w.store.GetDraft(useCase)
	if err != nil {
		return err
	}
	draft.ScheduledAt = nil
	_, err = w.store.SaveDraft(draft, 0)
	return err
}
