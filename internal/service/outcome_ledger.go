package service

import (
	"context"
	"fmt"

	"supplier-payout-gateway/internal/core/domain"
	"supplier-payout-gateway/internal/core/ports"
	"supplier-payout-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// OutcomeLedger implements ports.OutcomeLedger. It is the only writer of
// payout status fields.
type OutcomeLedger struct {
	repo       ports.PayoutRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewOutcomeLedger creates a new OutcomeLedger.
func NewOutcomeLedger(repo ports.PayoutRepository, transactor ports.DBTransactor, log zerolog.Logger) *OutcomeLedger {
	return &OutcomeLedger{repo: repo, transactor: transactor, log: log}
}

// ApplyOutcome merges candidate into the stored outcome under a row lock.
// Writers for the same request id are serialised by SELECT ... FOR UPDATE.
func (l *OutcomeLedger) ApplyOutcome(ctx context.Context, requestID string, candidate domain.PayoutOutcome) (*ports.AppliedOutcome, error) {
	dbTx, err := l.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	rec, err := l.repo.GetForUpdate(ctx, dbTx, requestID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("lock payout: %w", err))
	}
	if rec == nil {
		return nil, apperror.ErrNotFound("Payout")
	}

	next, tr := rec.Outcome.Advance(candidate)
	if !tr.Changed {
		return &ports.AppliedOutcome{Outcome: rec.Outcome, Transition: tr}, nil
	}

	if err := l.repo.UpdateOutcome(ctx, dbTx, requestID, next); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("update outcome: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("commit tx: %w", err))
	}

	l.log.Debug().
		Str("request_id", requestID).
		Str("from", tr.From.String()).
		Str("to", tr.To.String()).
		Bool("status_changed", tr.StatusChanged).
		Msg("outcome applied")

	return &ports.AppliedOutcome{Outcome: next, Transition: tr}, nil
}
