package storage

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/md2563430-netizen/KABS-WEBSITE/internal/models"
)

// DatabaseStore persists everything in PostgreSQL via GORM.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a store backed by the given GORM connection.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// DraftRecord is the GORM row for a campaign draft. Recipients are
// stored as a JSON blob; a row whose blob no longer parses is treated
// as absent, never surfaced as an error.
type DraftRecord struct {
	UseCase        string `gorm:"primaryKey"`
	CampaignName   string
	SenderID       string
	RecipientsJSON string
	Message        string
	ScheduledAt    *time.Time `gorm:"index"`
	DraftCreatedAt int64
	Stage          string
	Version        int64
	TxRef          string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PaymentRecord is the GORM row for a payment attempt.
type PaymentRecord struct {
	ID             string `gorm:"primaryKey"`
	UseCase        string `gorm:"index"`
	Method         string
	Amount         float64
	Currency       string
	TxRef          string `gorm:"uniqueIndex"`
	Status         string
	IdempotencyKey string `gorm:"index"`
	CapturedAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SendReportRecord is the GORM row for one campaign dispatch outcome.
type SendReportRecord struct {
	ID             string `gorm:"primaryKey"`
	UseCase        string `gorm:"index"`
	Success        bool
	Sent           int
	Failed         int
	Provider       string
	IdempotencyKey string `gorm:"index"`

	CreatedAt time.Time
}

func toDraftRecord(d *models.Draft) (*DraftRecord, error) {
	recipients, err := json.Marshal(d.Recipients)
	if err != nil {
		return nil, err
	}
	return &DraftRecord{
		UseCase:        d.UseCase,
		CampaignName:   d.CampaignName,
		SenderID:       d.SenderID,
		RecipientsJSON: string(recipients),
		Message:        d.Message,
		ScheduledAt:    d.ScheduledAt,
		DraftCreatedAt: d.CreatedAt,
		Stage:          d.Stage,
		Version:        d.Version,
		TxRef:          d.TxRef,
	}, nil
}

func (r *DraftRecord) toDraft() (*models.Draft, error) {
	var recipients []models.Recipient
	if r.RecipientsJSON != "" {
		if err := json.Unmarshal([]byte(r.RecipientsJSON), &recipients); err != nil {
			return nil, err
		}
	}
	if recipients == nil {
		recipients = []models.Recipient{}
	}
	return &models.Draft{
		UseCase:      r.UseCase,
		CampaignName: r.CampaignName,
		SenderID:     r.SenderID,
		Recipients:   recipients,
		Message:      r.Message,
		ScheduledAt:  r.ScheduledAt,
		CreatedAt:    r.DraftCreatedAt,
		Stage:        r.Stage,
		Version:      r.Version,
		TxRef:        r.TxRef,
	}, nil
}

// Draft operations

func (s *DatabaseStore) GetDraft(useCase string) (*models.Draft, error) {
	var record DraftRecord
	err := s.db.First(&record, "use_case = ?", useCase).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}

	draft, err := record.toDraft()
	if err != nil {
		// Corrupted row: treat as no draft yet
		return nil, ErrDraftNotFound
	}
	return draft, nil
}

func (s *DatabaseStore) SaveDraft(draft *models.Draft, expectedVersion int64) (*models.Draft, error) {
	record, err := toDraftRecord(draft)
	if err != nil {
		return nil, err
	}

	var saved *models.Draft
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var current DraftRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&current, "use_case = ?", draft.UseCase).Error
		exists := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if expectedVersion > 0 && exists && current.Version != expectedVersion {
			return ErrVersionConflict
		}

		if exists {
			record.Version = current.Version + 1
		} else {
			record.Version = 1
		}

		if err := tx.Save(record).Error; err != nil {
			return err
		}

		saved, err = record.toDraft()
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *DatabaseStore) DeleteDraft(useCase string) error {
	return s.db.Delete(&DraftRecord{}, "use_case = ?", useCase).Error
}

func (s *DatabaseStore) GetDueScheduledDrafts(now time.Time) ([]*models.Draft, error) {
	var records []DraftRecord
	err := s.db.
		Where("scheduled_at IS NOT NULL AND scheduled_at <= ?", now).
		Where("stage = ? AND tx_ref <> ''", models.StageSuccess).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	var due []*models.Draft
	for i := range records {
		draft, err := records[i].toDraft()
		if err != nil {
			continue // skip corrupted rows
		}
		due = append(due, draft)
	}
	return due, nil
}

// Payment operations

func (s *DatabaseStore) CreatePayment(payment *models.Payment) (*models.Payment, error) {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = time.Now()

	record := PaymentRecord(*payment)
	if err := s.db.Create(&record).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *DatabaseStore) GetPaymentByTxRef(txRef string) (*models.Payment, error) {
	var record PaymentRecord
	err := s.db.First(&record, "tx_ref = ?", txRef).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	payment := models.Payment(record)
	return &payment, nil
}

func (s *DatabaseStore) GetPaymentByIdempotencyKey(key string) (*models.Payment, error) {
	if key == "" {
		return nil, ErrPaymentNotFound
	}

	var record PaymentRecord
	err := s.db.First(&record, "idempotency_key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	payment := models.Payment(record)
	return &payment, nil
}

func (s *DatabaseStore) UpdatePayment(payment *models.Payment) error {
	payment.UpdatedAt = time.Now()
	record := PaymentRecord(*payment)
	return s.db.Save(&record).Error
}

// Send report operations

func (s *DatabaseStore) CreateSendReport(report *models.SendReport) (*models.SendReport, error) {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	report.CreatedAt = time.Now()

	record := SendReportRecord(*report)
	if err := s.db.Create(&record).Error; err != nil {
		return nil, err
	}
	return report, nil
}

func (s *DatabaseStore) GetSendReportByIdempotencyKey(key string) (*models.SendReport, error) {
	if key == "" {
		return nil, ErrReportNotFound
	}

	var record SendReportRecord
	err := s.db.First(&record, "idempotency_key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	report := models.SendReport(record)
	return &report, nil
}

func (s *DatabaseStore) GetSendReportsByUseCase(useCase string) ([]*models.SendReport, error) {
	var records []SendReportRecord
	err := s.db.Where("use_case = ?", useCase).Order("created_at desc").Find(&records).Error
	if err != nil {
		return nil, err
	}

	reports := make([]*models.SendReport, 0, len(records))
	for i := range records {
		report := models.SendReport(records[i])
		reports = append(reports, &report)
	}
	return reports, nil
}
