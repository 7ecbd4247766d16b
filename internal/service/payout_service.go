package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"supplier-payout-gateway/config"
	"supplier-payout-gateway/internal/core/domain"
	"supplier-payout-gateway/internal/core/ports"
	"supplier-payout-gateway/pkg/apperror"
	"supplier-payout-gateway/pkg/logger"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const maxRemarksLength = 70

// PayoutServiceImpl implements ports.PayoutService.
type PayoutServiceImpl struct {
	repo      ports.PayoutRepository
	resolver  ports.BeneficiaryResolver
	gateway   ports.PayoutGateway
	ledger    ports.OutcomeLedger
	locker    ports.PayoutLocker
	cache     ports.OutcomeCache
	publisher ports.OutcomePublisher
	audit     ports.AuditService
	cfg       config.PayoutConfig
	triggers  map[string]struct{}
	log       zerolog.Logger
}

// NewPayoutService creates a new PayoutServiceImpl.
func NewPayoutService(
	repo ports.PayoutRepository,
	resolver ports.BeneficiaryResolver,
	gateway ports.PayoutGateway,
	ledger ports.OutcomeLedger,
	locker ports.PayoutLocker,
	cache ports.OutcomeCache,
	publisher ports.OutcomePublisher,
	audit ports.AuditService,
	cfg config.PayoutConfig,
	log zerolog.Logger,
) *PayoutServiceImpl {
	triggers := make(map[string]struct{}, len(cfg.TriggerStates))
	for _, s := range cfg.TriggerStates {
		triggers[normalizeState(s)] = struct{}{}
	}
	return &PayoutServiceImpl{
		repo:      repo,
		resolver:  resolver,
		gateway:   gateway,
		ledger:    ledger,
		locker:    locker,
		cache:     cache,
		publisher: publisher,
		audit:     audit,
		cfg:       cfg,
		triggers:  triggers,
		log:       logger.Component(log, "payout"),
	}
}

// Trigger creates at most one remote transfer for the event's request id.
//
// A request that already has a recorded transfer is answered from the
// stored outcome without any remote call. Otherwise the request is locked,
// its beneficiary resolved and a single transfer requested with the request
// id as transfer_id.
func (s *PayoutServiceImpl) Trigger(ctx context.Context, ev domain.TriggerEvent) (result *ports.Result, err error) {
	requestID := strings.TrimSpace(ev.RequestID)
	ctx, span := tracer().Start(ctx, "payout.trigger", trace.WithAttributes(attribute.String("request_id", requestID)))
	defer func() { endSpan(span, err) }()

	if requestID == "" {
		return nil, apperror.Validation("request_id is required")
	}
	if !s.isTriggerState(ev.WorkflowState) {
		return nil, apperror.ErrTriggerNotReady(ev.WorkflowState)
	}

	existing, err := s.existingOutcome(ctx, requestID, true)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &ports.Result{RequestID: requestID, Disposition: ports.DispositionExisting, Outcome: existing}, nil
	}

	if !domain.ValidAmount(ev.Amount) {
		return nil, apperror.ErrInvalidAmount()
	}
	if !ev.Beneficiary.Resolvable() {
		return nil, apperror.ErrMissingBeneficiarySource()
	}
	if s.cfg.RequireVerifiedAccount && !ev.Beneficiary.Verified {
		return nil, apperror.ErrUnverifiedAccount()
	}

	lockKey := "payout:" + requestID
	token, acquired, err := s.locker.Acquire(ctx, lockKey, s.cfg.LockTTL)
	switch {
	case err != nil:
		s.log.Warn().Err(err).Str("request_id", requestID).Msg("payout lock unavailable, relying on provider idempotency")
	case !acquired:
		return nil, apperror.ErrPayoutInProgress()
	default:
		defer func() {
			if err := s.locker.Release(context.WithoutCancel(ctx), lockKey, token); err != nil {
				s.log.Warn().Err(err).Str("request_id", requestID).Msg("failed to release payout lock")
			}
		}()
	}

	// Another holder may have finished between the first check and the lock.
	existing, err = s.existingOutcome(ctx, requestID, false)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &ports.Result{RequestID: requestID, Disposition: ports.DispositionExisting, Outcome: existing}, nil
	}

	req := ev.PayoutRequest()
	req.RequestID = requestID
	req.TransferMode = s.transferMode(req.TransferMode)
	req.Remarks = s.remarks(req.Remarks, requestID)

	if _, err := s.repo.EnsureRequest(ctx, domain.NewPayoutRecord(req)); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("ensure payout request: %w", err))
	}

	beneficiary, err := s.resolver.Resolve(ctx, requestID, req.Beneficiary)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AttachBeneficiary(ctx, requestID, beneficiary.ID); err != nil {
		s.log.Warn().Err(err).Str("request_id", requestID).Msg("failed to attach beneficiary to payout")
	}

	status, err := s.createTransfer(ctx, req, beneficiary.ID)
	if err != nil {
		return nil, err
	}

	internal, known := domain.MapRemoteStatus(status.Status)
	if !known {
		s.log.Warn().
			Bool("mapping_gap", true).
			Str("request_id", requestID).
			Str("raw_status", status.Status).
			Msg("unmapped transfer status")
	}

	candidate := domain.PayoutOutcome{
		RemoteTransferID: firstNonBlank(status.RemoteTransferID, status.TransferID, requestID),
		RawStatus:        status.Status,
		Status:           internal,
		UTR:              status.UTR,
		FailureReason:    status.Reason,
	}
	applied, err := s.ledger.ApplyOutcome(ctx, requestID, candidate)
	if err != nil {
		return nil, err
	}

	s.afterChange(ctx, requestID, applied, domain.SourceTransferCreate)

	s.log.Info().
		Str("request_id", requestID).
		Str("beneficiary_id", beneficiary.ID).
		Str("transfer_id", applied.Outcome.RemoteTransferID).
		Str("raw_status", applied.Outcome.RawStatus).
		Str("internal_status", applied.Outcome.Status.String()).
		Msg("payout initiated")

	return &ports.Result{RequestID: requestID, Disposition: ports.DispositionCreated, Outcome: &applied.Outcome}, nil
}

// createTransfer sends the single transfer request. A duplicate transfer id
// means the transfer already exists, so its current state is read instead.
func (s *PayoutServiceImpl) createTransfer(ctx context.Context, req domain.PayoutRequest, beneficiaryID string) (*ports.TransferStatus, error) {
	status, ex, err := s.gateway.CreateTransfer(ctx, ports.TransferCreate{
		TransferID:    req.RequestID,
		BeneficiaryID: beneficiaryID,
		Amount:        req.Amount,
		Mode:          req.TransferMode,
		Remarks:       req.Remarks,
	})
	if ports.IsConflict(err) {
		s.audit.Record(ctx, ExchangeEntry(req.RequestID, domain.AuditTransferCreate, ex, domain.AuditOutcomeExists, nil))
		s.log.Info().Str("request_id", req.RequestID).Msg("transfer already exists, fetching current state")
		status, ex, err = s.gateway.GetTransfer(ctx, req.RequestID)
	}
	if err != nil {
		s.audit.Record(ctx, ExchangeEntry(req.RequestID, domain.AuditTransferCreate, ex, domain.AuditOutcomeError, err))
		s.log.Error().Err(err).Str("request_id", req.RequestID).Msg("transfer creation failed")
		return nil, remoteFailure(err, apperror.ErrTransferCreation)
	}

	s.audit.Record(ctx, ExchangeEntry(req.RequestID, domain.AuditTransferCreate, ex, domain.AuditOutcomeCreated, nil))
	return status, nil
}

// existingOutcome returns the recorded outcome when a transfer already
// exists for requestID. The cache is consulted only when useCache is set and
// only a terminal cached outcome is served; anything still open is re-read
// from the database, which reconciliation may have moved on.
func (s *PayoutServiceImpl) existingOutcome(ctx context.Context, requestID string, useCache bool) (*domain.PayoutOutcome, error) {
	if useCache {
		cached, err := s.cache.Get(ctx, requestID)
		if err != nil {
			s.log.Warn().Err(err).Str("request_id", requestID).Msg("outcome cache read failed, falling through to DB")
		}
		if cached != nil && cached.HasTransfer() && cached.Status.IsTerminal() {
			return cached, nil
		}
	}

	rec, err := s.repo.Get(ctx, requestID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("load payout: %w", err))
	}
	if rec == nil || !rec.Outcome.HasTransfer() {
		return nil, nil
	}
	s.cacheOutcome(ctx, requestID, rec.Outcome)
	return &rec.Outcome, nil
}

// afterChange refreshes the cache and announces the change. Both are best effort.
func (s *PayoutServiceImpl) afterChange(ctx context.Context, requestID string, applied *ports.AppliedOutcome, source domain.NotificationSource) {
	s.cacheOutcome(ctx, requestID, applied.Outcome)
	if !applied.Transition.Changed {
		return
	}
	publishOutcome(ctx, s.publisher, s.log, requestID, applied, source)
}

func (s *PayoutServiceImpl) cacheOutcome(ctx context.Context, requestID string, o domain.PayoutOutcome) {
	if err := s.cache.Set(ctx, requestID, o, s.cfg.OutcomeCacheTTL); err != nil {
		s.log.Warn().Err(err).Str("request_id", requestID).Msg("failed to cache outcome")
	}
}

func (s *PayoutServiceImpl) isTriggerState(state string) bool {
	_, ok := s.triggers[normalizeState(state)]
	return ok
}

func (s *PayoutServiceImpl) transferMode(requested string) string {
	if m := strings.TrimSpace(requested); m != "" {
		return strings.ToLower(m)
	}
	return s.cfg.TransferMode
}

// remarks keeps letters, digits and spaces, at most 70 characters. An empty
// result falls back to "<prefix> <request id>".
func (s *PayoutServiceImpl) remarks(requested, requestID string) string {
	if r := sanitizeRemarks(requested); r != "" {
		return r
	}
	return sanitizeRemarks(s.cfg.RemarksPrefix + " " + requestID)
}

func publishOutcome(ctx context.Context, publisher ports.OutcomePublisher, log zerolog.Logger, requestID string, applied *ports.AppliedOutcome, source domain.NotificationSource) {
	ev := domain.OutcomeEvent{
		RequestID:  requestID,
		Outcome:    applied.Outcome,
		Previous:   applied.Transition.From,
		Source:     source,
		OccurredAt: time.Now().UTC(),
	}
	if err := publisher.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).Str("request_id", requestID).Msg("failed to publish outcome event")
	}
}

func sanitizeRemarks(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == ' ' {
			b.WriteRune(r)
		}
	}
	out := strings.Join(strings.Fields(b.String()), " ")
	if len(out) > maxRemarksLength {
		out = strings.TrimSpace(out[:maxRemarksLength])
	}
	return out
}

func normalizeState(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
