package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"supplier-payout-gateway/internal/core/domain"
	"supplier-payout-gateway/internal/core/ports"
	"supplier-payout-gateway/pkg/apperror"
	"supplier-payout-gateway/pkg/logger"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ReconciliationServiceImpl applies asynchronous transfer status updates.
type ReconciliationServiceImpl struct {
	repo      ports.PayoutRepository
	ledger    ports.OutcomeLedger
	cache     ports.OutcomeCache
	publisher ports.OutcomePublisher
	audit     ports.AuditService
	cacheTTL  time.Duration
	log       zerolog.Logger
}

// NewReconciliationService creates a new ReconciliationServiceImpl.
func NewReconciliationService(
	repo ports.PayoutRepository,
	ledger ports.OutcomeLedger,
	cache ports.OutcomeCache,
	publisher ports.OutcomePublisher,
	audit ports.AuditService,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *ReconciliationServiceImpl {
	return &ReconciliationServiceImpl{
		repo:      repo,
		ledger:    ledger,
		cache:     cache,
		publisher: publisher,
		audit:     audit,
		cacheTTL:  cacheTTL,
		log:       logger.Component(log, "reconciliation"),
	}
}

// HandleNotification merges a status notification into the stored outcome.
// Unknown transfers and duplicate deliveries are not errors.
func (s *ReconciliationServiceImpl) HandleNotification(ctx context.Context, n domain.TransferNotification) (result *ports.Result, err error) {
	n.TransferID = strings.TrimSpace(n.TransferID)
	n.RemoteTransferID = strings.TrimSpace(n.RemoteTransferID)

	ctx, span := tracer().Start(ctx, "payout.reconcile", trace.WithAttributes(
		attribute.String("transfer_id", n.Ref()),
		attribute.String("source", string(n.Source)),
	))
	defer func() { endSpan(span, err) }()

	if n.Ref() == "" {
		return nil, apperror.Validation("transfer_id or cf_transfer_id is required")
	}

	rec, err := s.repo.FindByTransferRef(ctx, n.TransferID, n.RemoteTransferID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("find payout by transfer: %w", err))
	}
	if rec == nil {
		s.log.Warn().
			Err(apperror.ErrUnknownTransfer(n.Ref())).
			Str("transfer_id", n.TransferID).
			Str("cf_transfer_id", n.RemoteTransferID).
			Str("source", string(n.Source)).
			Msg("notification for unknown transfer ignored")
		s.audit.Record(ctx, notificationEntry("", n, domain.AuditOutcomeIgnored, nil))
		return &ports.Result{Disposition: ports.DispositionIgnored}, nil
	}

	log := s.log.With().Str("request_id", rec.RequestID).Str("source", string(n.Source)).Logger()

	internal, known := domain.MapRemoteStatus(n.RawStatus)
	if !known {
		log.Warn().
			Bool("mapping_gap", true).
			Str("raw_status", n.RawStatus).
			Msg("unmapped transfer status")
	}

	applied, err := s.ledger.ApplyOutcome(ctx, rec.RequestID, domain.PayoutOutcome{
		RemoteTransferID: firstNonBlank(n.RemoteTransferID, rec.RequestID),
		RawStatus:        n.RawStatus,
		Status:           internal,
		UTR:              n.UTR,
		FailureReason:    n.FailureReason,
	})
	if err != nil {
		return nil, err
	}

	if !applied.Transition.Changed {
		log.Info().
			Str("raw_status", n.RawStatus).
			Str("internal_status", applied.Outcome.Status.String()).
			Msg("notification did not change payout outcome")
		s.audit.Record(ctx, notificationEntry(rec.RequestID, n, domain.AuditOutcomeNoop, &applied.Transition))
		return &ports.Result{RequestID: rec.RequestID, Disposition: ports.DispositionNoop, Outcome: &applied.Outcome}, nil
	}

	log.Info().
		Str("transfer_id", applied.Outcome.RemoteTransferID).
		Str("raw_status", applied.Outcome.RawStatus).
		Str("internal_status", applied.Outcome.Status.String()).
		Str("utr", applied.Outcome.UTR).
		Msg("payout outcome updated")
	s.audit.Record(ctx, notificationEntry(rec.RequestID, n, domain.AuditOutcomeApplied, &applied.Transition))

	if err := s.cache.Set(ctx, rec.RequestID, applied.Outcome, s.cacheTTL); err != nil {
		log.Warn().Err(err).Msg("failed to cache outcome")
	}
	publishOutcome(ctx, s.publisher, log, rec.RequestID, applied, n.Source)

	return &ports.Result{RequestID: rec.RequestID, Disposition: ports.DispositionApplied, Outcome: &applied.Outcome}, nil
}

// notificationEntry records a reconciliation decision. The transition, when
// present, is stored as "FROM->TO".
func notificationEntry(requestID string, n domain.TransferNotification, outcome string, tr *domain.Transition) *domain.AuditEntry {
	entry := &domain.AuditEntry{
		RequestID: requestID,
		Category:  domain.AuditReconciliation,
		Outcome:   outcome,
	}
	entry.RequestPayload, _ = json.Marshal(n)
	if tr != nil {
		entry.ResponsePayload, _ = json.Marshal(map[string]any{
			"transition": tr.From.String() + "->" + tr.To.String(),
			"changed":    tr.Changed,
		})
	}
	return entry
}
