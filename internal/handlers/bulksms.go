package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/md2563430-netizen/KABS-WEBSITE/internal/bulksms"
	"github.com/md2563430-netizen/KABS-WEBSITE/internal/models"
	"github.com/md2563430-netizen/KABS-WEBSITE/internal/services"
	"github.com/md2563430-netizen/KABS-WEBSITE/internal/storage"
)

// BulkSMSHandler handles campaign wizard and send requests
type BulkSMSHandler struct {
	wizard *services.WizardService
	sender *services.SendService
	store  storage.Store
}

// NewBulkSMSHandler creates a new bulk SMS handler
func NewBulkSMSHandler(wizard *services.WizardService, sender *services.SendService, store storage.Store) *BulkSMSHandler {
	return &BulkSMSHandler{
		wizard: wizard,
		sender: sender,
		store:  store,
	}
}

// ListUseCases returns the campaign catalog
func (h *BulkSMSHandler) ListUseCases(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"useCases": models.UseCases,
	})
}

// GetDraft returns the draft for a use case, seeding defaults on first open
func (h *BulkSMSHandler) GetDraft(c *fiber.Ctx) error {
	draft, err := h.wizard.GetOrCreateDraft(useCaseParam(c))
	if err != nil {
		return draftError(c, err)
	}
	return c.JSON(draft)
}

// SaveDraft persists compose-screen edits. A non-zero version in the
// body enables the stale-write check.
func (h *BulkSMSHandler) SaveDraft(c *fiber.Ctx) error {
	var body models.Draft
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	draft, err := h.wizard.SaveDraft(useCaseParam(c), &body, body.Version)
	if err != nil {
		if errors.Is(err, storage.ErrVersionConflict) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Draft was changed elsewhere. Reload and retry.",
			})
		}
		return draftError(c, err)
	}
	return c.JSON(draft)
}

// ResetDraft overwrites the draft with the use-case template defaults
func (h *BulkSMSHandler) ResetDraft(c *fiber.Ctx) error {
	draft, err := h.wizard.ResetDraft(useCaseParam(c))
	if err != nil {
		return draftError(c, err)
	}
	return c.JSON(draft)
}

// ImportRecipients replaces the draft's recipients from pasted text or
// CSV content. Exactly one of the two fields must be set.
func (h *BulkSMSHandler) ImportRecipients(c *fiber.Ctx) error {
	var body struct {
		Text string `json:"text"`
		CSV  string `json:"csv"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	useCase := useCaseParam(c)

	var draft *models.Draft
	var err error
	switch {
	case body.CSV != "":
		parsed := bulksms.ParseRecipientsCSV(body.CSV)
		if len(parsed) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "CSV looks empty. Expected columns: phone,name",
			})
		}
		draft, err = h.wizard.SetRecipients(useCase, parsed)
	case body.Text != "":
		draft, err = h.wizard.ImportRecipientsText(useCase, body.Text)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Provide recipients as text or csv",
		})
	}
	if err != nil {
		return draftError(c, err)
	}

	return c.JSON(fiber.Map{
		"recipients": draft.Recipients,
		"count":      len(draft.Recipients),
		"draft":      draft,
	})
}

// GetEstimate recomputes the cost estimate from the stored draft
func (h *BulkSMSHandler) GetEstimate(c *fiber.Ctx) error {
	estimate, err := h.wizard.Estimate(useCaseParam(c))
	if err != nil {
		return draftError(c, err)
	}
	return c.JSON(estimate)
}

// Confirm moves the wizard from compose to confirm
func (h *BulkSMSHandler) Confirm(c *fiber.Ctx) error {
	draft, err := h.wizard.Confirm(useCaseParam(c))
	if err != nil {
		if errors.Is(err, services.ErrDraftIncomplete) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Add recipients and a message before continuing.",
			})
		}
		return draftError(c, err)
	}
	return c.JSON(draft)
}

// Back returns the wizard to the compose screen
func (h *BulkSMSHandler) Back(c *fiber.Ctx) error {
	draft, err := h.wizard.Back(useCaseParam(c))
	if err != nil {
		return draftError(c, err)
	}
	return c.JSON(draft)
}

// Send dispatches a campaign. The body carries either the full draft
// (legacy shape) or a useCase naming the stored draft.
func (h *BulkSMSHandler) Send(c *fiber.Ctx) error {
	var body struct {
		Draft   *models.Draft `json:"draft"`
		UseCase string        `json:"useCase"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "sent": 0, "failed": 0, "error": "Invalid draft.",
		})
	}

	draft := body.Draft
	fromStore := false
	if draft == nil && body.UseCase != "" {
		stored, err := h.store.GetDraft(body.UseCase)
		if err == nil {
			draft = stored
			fromStore = true
		}
	}

	report, err := h.sender.SendCampaign(draft, c.Get("Idempotency-Key"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidDraft) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false, "sent": 0, "failed": 0, "error": "Invalid draft.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "sent": 0, "failed": 0, "error": "Something went wrong",
		})
	}

	if fromStore && draft.ScheduledAt != nil {
		_ = h.wizard.MarkDispatched(draft.UseCase)
	}

	return c.JSON(fiber.Map{
		"success": report.Success,
		"sent":    report.Sent,
		"failed":  report.Failed,
	})
}

// GetReports returns past dispatch outcomes for a use case
func (h *BulkSMSHandler) GetReports(c *fiber.Ctx) error {
	reports, err := h.store.GetSendReportsByUseCase(useCaseParam(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve reports",
		})
	}
	return c.JSON(fiber.Map{
		"reports": reports,
		"count":   len(reports),
	})
}

// useCaseParam copies the route parameter out of fasthttp's reusable
// request buffer. Without the copy, later requests mutate any string
// that escaped into the store.
func useCaseParam(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("useCase"))
}

func draftError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrUnknownUseCase) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unknown campaign type.",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Something went wrong",
	})
}
