package ports

//go:generate mockgen -source=services.go -destination=mocks/services.go -package=mocks

import (
	"context"
	"time"

	"supplier-payout-gateway/internal/core/domain"
)

// SignatureService handles HMAC-SHA256 signing and verification.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
	WebhookPayload(timestamp string, body []byte) string
}

// TokenService handles operator JWT operations.
type TokenService interface {
	Generate(subject string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// OutcomeCache is the Redis-layer idempotency check (fast path).
type OutcomeCache interface {
	// Get returns nil, nil on a cache miss.
	Get(ctx context.Context, requestID string) (*domain.PayoutOutcome, error)
	Set(ctx context.Context, requestID string, outcome domain.PayoutOutcome, ttl time.Duration) error
}

// PayoutLocker serialises trigger handling per request id.
type PayoutLocker interface {
	// Acquire returns ok=false when another holder owns the lock.
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Release(ctx context.Context, key, token string) error
}

// OutcomePublisher announces outcome changes to downstream consumers.
type OutcomePublisher interface {
	Publish(ctx context.Context, event domain.OutcomeEvent) error
}

// AuditService records audit entries.
type AuditService interface {
	Record(ctx context.Context, entry *domain.AuditEntry)
}

// --- Service Ports (Business Logic) ---

// Disposition says what handling an event did.
type Disposition string

const (
	DispositionCreated  Disposition = "created"
	DispositionExisting Disposition = "existing"
	DispositionApplied  Disposition = "applied"
	DispositionNoop     Disposition = "noop"
	DispositionIgnored  Disposition = "ignored"
)

// Result is the outcome of handling one event.
type Result struct {
	RequestID   string
	Disposition Disposition
	Outcome     *domain.PayoutOutcome
}

// BeneficiaryResolver makes sure a beneficiary exists remotely.
type BeneficiaryResolver interface {
	Resolve(ctx context.Context, requestID string, src domain.BeneficiarySource) (*domain.BeneficiaryIdentity, error)
}

// AppliedOutcome is the stored outcome after ApplyOutcome.
type AppliedOutcome struct {
	Outcome    domain.PayoutOutcome
	Transition domain.Transition
}

// OutcomeLedger is the single write path for payout status fields.
type OutcomeLedger interface {
	ApplyOutcome(ctx context.Context, requestID string, candidate domain.PayoutOutcome) (*AppliedOutcome, error)
}

// PayoutService orchestrates payout creation for a trigger.
type PayoutService interface {
	Trigger(ctx context.Context, event domain.TriggerEvent) (*Result, error)
}

// ReconciliationService applies asynchronous status notifications.
type ReconciliationService interface {
	HandleNotification(ctx context.Context, n domain.TransferNotification) (*Result, error)
}

// ReportingService serves payout read models.
type ReportingService interface {
	GetPayout(ctx context.Context, requestID string) (*domain.PayoutRecord, error)
	ListPayouts(ctx context.Context, params PayoutListParams) ([]domain.PayoutRecord, int64, error)
	AuditTrail(ctx context.Context, requestID string) ([]domain.AuditEntry, error)
}

// EventDispatcher routes events to their registered handler.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event domain.Event) (*Result, error)
}

// HealthChecker is a dependency probed by GET /health.
type HealthChecker interface {
	Ping(ctx context.Context) error
	// Name is the key in the health response, e.g. "postgresql".
	Name() string
}
