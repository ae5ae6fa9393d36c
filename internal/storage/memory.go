package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/md2563430-netizen/KABS-WEBSITE/internal/models"
)

// MemoryStore holds all data in memory, for development and tests.
type MemoryStore struct {
	drafts   map[string]*models.Draft // keyed by use case
	payments map[string]*models.Payment
	reports  map[string]*models.SendReport

	draftMu   sync.RWMutex
	paymentMu sync.RWMutex
	reportMu  sync.RWMutex
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		drafts:   make(map[string]*models.Draft),
		payments: make(map[string]*models.Payment),
		reports:  make(map[string]*models.SendReport),
	}
}

func copyDraft(d *models.Draft) *models.Draft {
	copied := *d
	copied.Recipients = append([]models.Recipient{}, d.Recipients...)
	return &copied
}

// Draft operations

func (m *MemoryStore) GetDraft(useCase string) (*models.Draft, error) {
	m.draftMu.RLock()
	defer m.draftMu.RUnlock()

	draft, exists := m.drafts[useCase]
	if !exists {
		return nil, ErrDraftNotFound
	}
	return copyDraft(draft), nil
}

func (m *MemoryStore) SaveDraft(draft *models.Draft, expectedVersion int64) (*models.Draft, error) {
	m.draftMu.Lock()
	defer m.draftMu.Unlock()

	current, exists := m.drafts[draft.UseCase]
	if expectedVersion > 0 && exists && current.Version != expectedVersion {
		return nil, ErrVersionConflict
	}

	copied := copyDraft(draft)
	if exists {
		copied.Version = current.Version + 1
	} else {
		copied.Version = 1
	}

	m.drafts[draft.UseCase] = copied
	return copyDraft(copied), nil
}

func (m *MemoryStore) DeleteDraft(useCase string) error {
	m.draftMu.Lock()
	defer m.draftMu.Unlock()

	delete(m.drafts, useCase)
	return nil
}

func (m *MemoryStore) GetDueScheduledDrafts(now time.Time) ([]*models.Draft, error) {
	m.draftMu.RLock()
	defer m.draftMu.RUnlock()

	var due []*models.Draft
	for _, draft := range m.drafts {
		if draft.ScheduledAt == nil || draft.ScheduledAt.After(now) {
			continue
		}
		if draft.Stage != models.StageSuccess || draft.TxRef == "" {
			continue
		}
		due = append(due, copyDraft(draft))
	}
	return due, nil
}

// Payment operations

func (m *MemoryStore) CreatePayment(payment *models.Payment) (*models.Payment, error) {
	m.paymentMu.Lock()
	defer m.paymentMu.Unlock()

	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = time.Now()

	copied := *payment
	m.payments[payment.ID] = &copied
	return payment, nil
}

func (m *MemoryStore) GetPaymentByTxRef(txRef string) (*models.Payment, error) {
	m.paymentMu.RLock()
	defer m.paymentMu.RUnlock()

	for _, p := range m.payments {
		if p.TxRef == txRef {
			copied := *p
			return &copied, nil
		}
	}
	return nil, ErrPaymentNotFound
}

func (m *MemoryStore) GetPaymentByIdempotencyKey(key string) (*models.Payment, error) {
	if key == "" {
		return nil, ErrPaymentNotFound
	}

	m.paymentMu.RLock()
	defer m.paymentMu.RUnlock()

	for _, p := range m.payments {
		if p.IdempotencyKey == key {
			copied := *p
			return &copied, nil
		}
	}
	return nil, ErrPaymentNotFound
}

func (m *MemoryStore) UpdatePayment(payment *models.Payment) error {
	m.paymentMu.Lock()
	defer m.paymentMu.Unlock()

	if _, exists := m.payments[payment.ID]; !exists {
		return ErrPaymentNotFound
	}
	payment.UpdatedAt = time.Now()

	copied := *payment
	m.payments[payment.ID] = &copied
	return nil
}

// Send report operations

func (m *MemoryStore) CreateSendReport(report *models.SendReport) (*models.SendReport, error) {
	m.reportMu.Lock()
	defer m.reportMu.Unlock()

	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	report.CreatedAt = time.Now()

	copied := *report
	m.reports[report.ID] = &copied
	return report, nil
}

func (m *MemoryStore) GetSendReportByIdempotencyKey(key string) (*models.SendReport, error) {
	if key == "" {
		return nil, ErrReportNotFound
	}

	m.reportMu.RLock()
	defer m.reportMu.RUnlock()

	for _, r := range m.reports {
		if r.IdempotencyKey == key {
			copied := *r
			return &copied, nil
		}
	}
	return nil, ErrReportNotFound
}

func (m *MemoryStore) GetSendReportsByUseCase(useCase string) ([]*models.SendReport, error) {
	m.reportMu.RLock()
	defer m.reportMu.RUnlock()

	var reports []*models.SendReport
	for _, r := range m.reports {
		if r.UseCase == useCase {
			copied := *r
			reports = append(reports, &copied)
		}
	}
	return reports, nil
}
