package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/md2563430-netizen/KABS-WEBSITE/internal/models"
)

func TestDraftRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	draft := models.DefaultDraft("wedding")
	draft.Recipients = []models.Recipient{
		{Phone: "+256700000001", Name: "Monica"},
		{Phone: "+256700000002"},
	}
	draft.Message = "Hello {name}!"

	saved, err := store.SaveDraft(draft, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.Version)

	got, err := store.GetDraft("wedding")
	require.NoError(t, err)
	assert.Equal(t, saved, got)
	assert.Equal(t, draft.CampaignName, got.CampaignName)
	assert.Equal(t, draft.SenderID, got.SenderID)
	assert.Equal(t, draft.Recipients, got.Recipients)
	assert.Equal(t, draft.Message, got.Message)
	assert.Equal(t, draft.CreatedAt, got.CreatedAt)
}

func TestGetDraftAbsent(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.GetDraft("marketing")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestSaveDraftOverwritesPerUseCase(t *testing.T) {
	store := NewMemoryStore()

	first := models.DefaultDraft("event")
	first.Message = "first"
	_, err := store.SaveDraft(first, 0)
	require.NoError(t, err)

	second := models.DefaultDraft("event")
	second.Message = "second"
	saved, err := store.SaveDraft(second, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), saved.Version)

	got, err := store.GetDraft("event")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Message)
}

func TestSaveDraftVersionConflict(t *testing.T) {
	store := NewMemoryStore()

	draft := models.DefaultDraft("community")
	saved, err := store.SaveDraft(draft, 0)
	require.NoError(t, err)

	// concurrent editor bumps the version
	_, err = store.SaveDraft(saved, saved.Version)
	require.NoError(t, err)

	// stale save is rejected
	_, err = store.SaveDraft(saved, saved.Version)
	assert.ErrorIs(t, err, ErrVersionConflict)

	// expectedVersion 0 keeps legacy last-write-wins
	_, err = store.SaveDraft(saved, 0)
	assert.NoError(t, err)
}

func TestGetDraftReturnsCopy(t *testing.T) {
	store := NewMemoryStore()

	draft := models.DefaultDraft("reminders")
	draft.Recipients = []models.Recipient{{Phone: "+256700000001"}}
	_, err := store.SaveDraft(draft, 0)
	require.NoError(t, err)

	got, err := store.GetDraft("reminders")
	require.NoError(t, err)
	got.Recipients[0].Phone = "mutated"
	got.Message = "mutated"

	again, err := store.GetDraft("reminders")
	require.NoError(t, err)
	assert.Equal(t, "+256700000001", again.Recipients[0].Phone)
	assert.NotEqual(t, "mutated", again.Message)
}

func TestGetDueScheduledDrafts(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()

	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	due := models.DefaultDraft("wedding")
	due.ScheduledAt = &past
	due.Stage = models.StageSuccess
	due.TxRef = "TX-ABCDEFGH"
	_, err := store.SaveDraft(due, 0)
	require.NoError(t, err)

	notYet := models.DefaultDraft("event")
	notYet.ScheduledAt = &future
	notYet.Stage = models.StageSuccess
	notYet.TxRef = "TX-IJKLMNOP"
	_, err = store.SaveDraft(notYet, 0)
	require.NoError(t, err)

	unpaid := models.DefaultDraft("marketing")
	unpaid.ScheduledAt = &past
	_, err = store.SaveDraft(unpaid, 0)
	require.NoError(t, err)

	drafts, err := store.GetDueScheduledDrafts(now)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "wedding", drafts[0].UseCase)
}

func TestPaymentLifecycle(t *testing.T) {
	store := NewMemoryStore()

	payment := &models.Payment{
		UseCase:        "event",
		Method:         models.MethodCard,
		Amount:         5,
		Currency:       "USD",
		TxRef:          "TX-12345678",
		Status:         models.PaymentStatusPending,
		IdempotencyKey: "idem-1",
	}

	created, err := store.CreatePayment(payment)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	byRef, err := store.GetPaymentByTxRef("TX-12345678")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byRef.ID)

	byKey, err := store.GetPaymentByIdempotencyKey("idem-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byKey.ID)

	_, err = store.GetPaymentByIdempotencyKey("")
	assert.ErrorIs(t, err, ErrPaymentNotFound)

	byRef.Status = models.PaymentStatusCaptured
	require.NoError(t, store.UpdatePayment(byRef))

	updated, err := store.GetPaymentByTxRef("TX-12345678")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCaptured, updated.Status)
}

func TestSendReports(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.CreateSendReport(&models.SendReport{
		UseCase:        "community",
		Success:        true,
		Sent:           8,
		Provider:       "simulated",
		IdempotencyKey: "send-1",
	})
	require.NoError(t, err)

	byKey, err := store.GetSendReportByIdempotencyKey("send-1")
	require.NoError(t, err)
	assert.Equal(t, 8, byKey.Sent)

	reports, err := store.GetSendReportsByUseCase("community")
	require.NoError(t, err)
	assert.Len(t, reports, 1)

	reports, err = store.GetSendReportsByUseCase("event")
	require.NoError(t, err)
	assert.Empty(t, reports)
}
