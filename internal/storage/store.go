package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/md2563430-netizen/KABS-WEBSITE/internal/models"
)

var (
	storeInstance Store
	storeOnce     sync.Once
)

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	return storeInstance
}

// Sentinel errors shared by all store implementations.
var (
	ErrDraftNotFound   = errors.New("draft not found")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrReportNotFound  = errors.New("report not found")

	// ErrVersionConflict is returned when a save carries an expected
	// version that no longer matches the stored draft.
	ErrVersionConflict = errors.New("draft version conflict")
)

// Store defines the interface for storage operations
type Store interface {
	// Draft operations. One draft per use case; SaveDraft upserts and
	// bumps the version. expectedVersion > 0 enables the conflict
	// check; 0 means unconditional last-write-wins.
	GetDraft(useCase string) (*models.Draft, error)
	SaveDraft(draft *models.Draft, expectedVersion int64) (*models.Draft, error)
	DeleteDraft(useCase string) error
	GetDueScheduledDrafts(now time.Time) ([]*models.Draft, error)

	// Payment operations
	CreatePayment(payment *models.Payment) (*models.Payment, error)
	GetPaymentByTxRef(txRef string) (*models.Payment, error)
	GetPaymentByIdempotencyKey(key string) (*models.Payment, error)
	UpdatePayment(payment *models.Payment) error

	// Send report operations
	CreateSendReport(report *models.SendReport) (*models.SendReport, error)
	GetSendReportByIdempotencyKey(key string) (*models.SendReport, error)
	GetSendReportsByUseCase(useCase string) ([]*models.SendReport, error)
}
