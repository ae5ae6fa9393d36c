package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/md2563430-netizen/KABS-WEBSITE/internal/models"
	"github.com/md2563430-netizen/KABS-WEBSITE/internal/storage"
)

func newWizard(t *testing.T) (*WizardService, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	return NewWizardService(store), store
}

func TestGetOrCreateDraftSeedsTemplateDefaults(t *testing.T) {
	wizard, _ := newWizard(t)

	draft, err := wizard.GetOrCreateDraft("wedding")
	require.NoError(t, err)
	assert.Equal(t, "wedding", draft.UseCase)
	assert.Equal(t, "Wedding Invitation", draft.CampaignName)
	assert.Equal(t, "KABS", draft.SenderID)
	assert.Contains(t, draft.Message, "{name}")
	assert.Empty(t, draft.Recipients)
	assert.Equal(t, models.StageCompose, draft.Stage)
	assert.NotZero(t, draft.CreatedAt)
}

func TestGetOrCreateDraftUnknownUseCase(t *testing.T) {
	wizard, _ := newWizard(t)

	_, err := wizard.GetOrCreateDraft("karaoke")
	assert.ErrorIs(t, err, ErrUnknownUseCase)
}

func TestGetOrCreateDraftReturnsExisting(t *testing.T) {
	wizard, _ := newWizard(t)

	first, err := wizard.GetOrCreateDraft("event")
	require.NoError(t, err)

	first.Message = "edited"
	_, err = wizard.SaveDraft("event", first, 0)
	require.NoError(t, err)

	again, err := wizard.GetOrCreateDraft("event")
	require.NoError(t, err)
	assert.Equal(t, "edited", again.Message)
}

func TestSaveDraftNormalizesRecipients(t *testing.T) {
	wizard, _ := newWizard(t)

	edit, err := wizard.GetOrCreateDraft("marketing")
	require.NoError(t, err)
	edit.Recipients = []models.Recipient{
		{Phone: "+256 700 000 001", Name: " Monica "},
		{Phone: "abc"},
		{Phone: "+256700000001", Name: "Duplicate"},
	}

	saved, err := wizard.SaveDraft("marketing", edit, 0)
	require.NoError(t, err)
	require.Len(t, saved.Recipients, 1)
	assert.Equal(t, "+256700000001", saved.Recipients[0].Phone)
	assert.Equal(t, "Monica", saved.Recipients[0].Name)
}

func TestResetDraftRestoresTemplate(t *testing.T) {
	wizard, _ := newWizard(t)

	draft, err := wizard.GetOrCreateDraft("community")
	require.NoError(t, err)
	draft.Message = "scribbles"
	draft.Recipients = []models.Recipient{{Phone: "+256700000001"}}
	_, err = wizard.SaveDraft("community", draft, 0)
	require.NoError(t, err)

	reset, err := wizard.ResetDraft("community")
	require.NoError(t, err)
	assert.Contains(t, reset.Message, "KABS Community")
	assert.Empty(t, reset.Recipients)
	assert.Equal(t, models.StageCompose, reset.Stage)
}

func TestImportRecipients(t *testing.T) {
	wizard, _ := newWizard(t)

	draft, err := wizard.ImportRecipientsText("event", "+256700000001\n+256700000002,+256700000001")
	require.NoError(t, err)
	assert.Len(t, draft.Recipients, 2)

	draft, err = wizard.ImportRecipientsCSV("event", "phone,name\n+256700000003,Monica")
	require.NoError(t, err)
	require.Len(t, draft.Recipients, 1)
	assert.Equal(t, "Monica", draft.Recipients[0].Name)
}

func TestConfirmGate(t *testing.T) {
	wizard, _ := newWizard(t)

	// fresh draft has a template message but no recipients
	_, err := wizard.GetOrCreateDraft("wedding")
	require.NoError(t, err)
	_, err = wizard.Confirm("wedding")
	assert.ErrorIs(t, err, ErrDraftIncomplete)

	_, err = wizard.ImportRecipientsText("wedding", "+256700000001")
	require.NoError(t, err)

	confirmed, err := wizard.Confirm("wedding")
	require.NoError(t, err)
	assert.Equal(t, models.StageConfirm, confirmed.Stage)
}

func TestConfirmGateBlankMessage(t *testing.T) {
	wizard, _ := newWizard(t)

	draft, err := wizard.GetOrCreateDraft("event")
	require.NoError(t, err)
	draft.Message = "   \n "
	draft.Recipients = []models.Recipient{{Phone: "+256700000001"}}
	_, err = wizard.SaveDraft("event", draft, 0)
	require.NoError(t, err)

	_, err = wizard.Confirm("event")
	assert.ErrorIs(t, err, ErrDraftIncomplete)
}

func TestWizardFullFlow(t *testing.T) {
	wizard, _ := newWizard(t)

	_, err := wizard.ImportRecipientsText("marketing", "+256700000001,+256700000002")
	require.NoError(t, err)

	_, err = wizard.Confirm("marketing")
	require.NoError(t, err)

	entered, err := wizard.EnterPayment("marketing")
	require.NoError(t, err)
	assert.Equal(t, models.StagePayment, entered.Stage)

	done, err := wizard.CompletePayment("marketing", "TX-ABCDEFGH")
	require.NoError(t, err)
	assert.Equal(t, models.StageSuccess, done.Stage)
	assert.Equal(t, "TX-ABCDEFGH", done.TxRef)

	// user can loop back and edit the same campaign
	back, err := wizard.Back("marketing")
	require.NoError(t, err)
	assert.Equal(t, models.StageCompose, back.Stage)
	assert.Equal(t, "TX-ABCDEFGH", back.TxRef)
}

func TestMarkDispatchedClearsSchedule(t *testing.T) {
	wizard, store := newWizard(t)

	draft, err := wizard.GetOrCreateDraft("reminders")
	require.NoError(t, err)

	at := time.Now().Add(time.Hour)
	draft.ScheduledAt = &at
	draft.Recipients = []models.Recipient{{Phone: "+256700000001"}}
	_, err = wizard.SaveDraft("reminders", draft, 0)
	require.NoError(t, err)

	saved, err := store.GetDraft("reminders")
	require.NoError(t, err)
	require.NotNil(t, saved.ScheduledAt)
	require.NoError(t, wizard.MarkDispatched("reminders"))

	after, err := store.GetDraft("reminders")
	require.NoError(t, err)
	assert.Nil(t, after.ScheduledAt)
	assert.Equal(t, saved.Recipients, after.Recipients)
}
