package worker

import (
	"context"
	"time"

	"supplier-payout-gateway/config"
	"supplier-payout-gateway/internal/core/domain"
	"supplier-payout-gateway/internal/core/ports"
	"supplier-payout-gateway/internal/service"
	"supplier-payout-gateway/pkg/logger"

	"github.com/rs/zerolog"
)

const leaderLockKey = "reconciler:leader"

// Summary counts what one reconciliation pass did.
type Summary struct {
	Scanned int  `json:"scanned"`
	Applied int  `json:"applied"`
	Noop    int  `json:"noop"`
	Missing int  `json:"missing"`
	Failed  int  `json:"failed"`
	Skipped bool `json:"skipped"`
}

// Reconciler polls the payout API for payouts whose outcome is still open
// and feeds the answers through the same path as webhooks. Every lookup is
// audited and stamps the row's poll cursor. It never creates transfers.
type Reconciler struct {
	repo       ports.PayoutRepository
	gateway    ports.PayoutGateway
	dispatcher ports.EventDispatcher
	locker     ports.PayoutLocker
	audit      ports.AuditService
	interval   time.Duration
	minAge     time.Duration
	batchSize  int
	now        func() time.Time
	log        zerolog.Logger
}

// NewReconciler creates a reconciler. locker may be nil, in which case
// every replica polls.
func NewReconciler(
	repo ports.PayoutRepository,
	gateway ports.PayoutGateway,
	dispatcher ports.EventDispatcher,
	locker ports.PayoutLocker,
	audit ports.AuditService,
	cfg config.ReconcilerConfig,
	log zerolog.Logger,
) *Reconciler {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 100
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	return &Reconciler{
		repo:       repo,
		gateway:    gateway,
		dispatcher: dispatcher,
		locker:     locker,
		audit:      audit,
		interval:   interval,
		minAge:     cfg.MinAge,
		batchSize:  batch,
		now:        time.Now,
		log:        logger.Component(log, "reconciler"),
	}
}

// Start runs a pass on every tick until ctx is cancelled.
func (r *Reconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.Info().Dur("interval", r.interval).Int("batch_size", r.batchSize).Msg("starting background reconciler")

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("stopping background reconciler")
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single reconciliation pass.
func (r *Reconciler) RunOnce(ctx context.Context) Summary {
	var sum Summary

	if r.locker != nil {
		token, ok, err := r.locker.Acquire(ctx, leaderLockKey, r.interval)
		switch {
		case err != nil:
			r.log.Warn().Err(err).Msg("leader lock unavailable, polling anyway")
		case !ok:
			r.log.Debug().Msg("another replica holds the reconciler lock")
			sum.Skipped = true
			return sum
		default:
			defer func() {
				if err := r.locker.Release(context.WithoutCancel(ctx), leaderLockKey, token); err != nil {
					r.log.Warn().Err(err).Msg("leader lock release failed")
				}
			}()
		}
	}

	open, err := r.repo.ListUnsettled(ctx, r.now().Add(-r.minAge), r.batchSize)
	if err != nil {
		r.log.Error().Err(err).Msg("failed to list unsettled payouts")
		return sum
	}
	if len(open) == 0 {
		return sum
	}

	r.log.Info().Int("count", len(open)).Msg("reconciling unsettled payouts")

	for i := range open {
		if ctx.Err() != nil {
			break
		}
		sum.Scanned++
		r.reconcile(ctx, &open[i], &sum)
	}

	r.log.Info().
		Int("scanned", sum.Scanned).
		Int("applied", sum.Applied).
		Int("noop", sum.Noop).
		Int("missing", sum.Missing).
		Int("failed", sum.Failed).
		Msg("reconciliation pass finished")
	return sum
}

func (r *Reconciler) reconcile(ctx context.Context, rec *domain.PayoutRecord, sum *Summary) {
	log := r.log.With().
		Str("request_id", rec.RequestID).
		Str("internal_status", string(rec.Outcome.Status)).
		Logger()

	status, ex, err := r.gateway.GetTransfer(ctx, rec.RequestID)
	if markErr := r.repo.MarkPolled(ctx, rec.RequestID, r.now().UTC()); markErr != nil {
		log.Warn().Err(markErr).Msg("failed to record poll time")
	}
	if err != nil {
		if ports.IsNotFound(err) {
			r.audit.Record(ctx, service.ExchangeEntry(rec.RequestID, domain.AuditReconciliation, ex, domain.AuditOutcomeNotFound, err))
			log.Warn().Msg("transfer not found at provider")
			sum.Missing++
			return
		}
		r.audit.Record(ctx, service.ExchangeEntry(rec.RequestID, domain.AuditReconciliation, ex, domain.AuditOutcomeError, err))
		log.Error().Err(err).Msg("transfer status lookup failed")
		sum.Failed++
		return
	}
	r.audit.Record(ctx, service.ExchangeEntry(rec.RequestID, domain.AuditReconciliation, ex, domain.AuditOutcomeFound, nil))

	res, err := r.dispatcher.Dispatch(ctx, domain.TransferNotification{
		TransferID:       rec.RequestID,
		RemoteTransferID: status.RemoteTransferID,
		RawStatus:        status.Status,
		UTR:              status.UTR,
		FailureReason:    status.Reason,
		Source:           domain.SourcePoll,
		ReceivedAt:       r.now().UTC(),
	})
	if err != nil {
		log.Error().Err(err).Msg("reconciliation failed for payout")
		sum.Failed++
		return
	}

	switch res.Disposition {
	case ports.DispositionApplied:
		sum.Applied++
		log.Info().Str("raw_status", status.Status).Msg("payout outcome updated by poll")
	default:
		sum.Noop++
	}
}
