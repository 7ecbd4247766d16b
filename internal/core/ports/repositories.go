package ports

//go:generate mockgen -source=repositories.go -destination=mocks/repositories.go -package=mocks

import (
	"context"
	"time"

	"supplier-payout-gateway/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// PayoutRepository persists payout requests and their outcomes.
// Methods accepting pgx.Tx are used inside transaction blocks for row locking.
type PayoutRepository interface {
	// EnsureRequest inserts the request row if it does not exist yet.
	EnsureRequest(ctx context.Context, rec *domain.PayoutRecord) (bool, error)
	Get(ctx context.Context, requestID string) (*domain.PayoutRecord, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, requestID string) (*domain.PayoutRecord, error)
	UpdateOutcome(ctx context.Context, tx pgx.Tx, requestID string, outcome domain.PayoutOutcome) error
	AttachBeneficiary(ctx context.Context, requestID, beneficiaryID string) error
	// FindByTransferRef matches either our request id or the provider's transfer id.
	FindByTransferRef(ctx context.Context, transferID, remoteTransferID string) (*domain.PayoutRecord, error)
	// ListUnsettled returns Pending or Unknown payouts neither updated nor
	// polled since olderThan, least recently polled first.
	ListUnsettled(ctx context.Context, olderThan time.Time, limit int) ([]domain.PayoutRecord, error)
	// MarkPolled records when the reconciler last asked the provider about requestID.
	MarkPolled(ctx context.Context, requestID string, at time.Time) error
	List(ctx context.Context, params PayoutListParams) ([]domain.PayoutRecord, int64, error)
}

// PayoutListParams holds filter + pagination for listing payouts.
type PayoutListParams struct {
	Status   *domain.InternalStatus
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// BankAccountRepository is the supplier bank account store.
type BankAccountRepository interface {
	// GetContact returns nil, nil when the account has no linked contact.
	GetContact(ctx context.Context, accountRef string) (*domain.Contact, error)
	SaveBeneficiaryID(ctx context.Context, accountRef, beneficiaryID string) error
}

// AuditRepository is the append-only audit trail.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	ListByRequest(ctx context.Context, requestID string) ([]domain.AuditEntry, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
