package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"supplier-payout-gateway/internal/core/domain"
	"supplier-payout-gateway/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

const payoutColumns = `request_id, account_ref, party_name, amount, transfer_mode, remarks, beneficiary_id,
		COALESCE(remote_transfer_id, ''), raw_status, internal_status, utr, failure_reason, created_at, updated_at`

// PayoutRepo implements ports.PayoutRepository.
type PayoutRepo struct {
	pool Pool
}

// NewPayoutRepo creates a new PayoutRepo.
func NewPayoutRepo(pool Pool) *PayoutRepo {
	return &PayoutRepo{pool: pool}
}

// EnsureRequest inserts the request row unless it already exists.
// Returns true when a new row was written.
func (r *PayoutRepo) EnsureRequest(ctx context.Context, rec *domain.PayoutRecord) (bool, error) {
	query := `INSERT INTO payout_requests (request_id, account_ref, party_name, amount, transfer_mode, remarks)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (request_id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query,
		rec.RequestID, rec.AccountRef, rec.PartyName, rec.Amount, rec.TransferMode, rec.Remarks,
	)
	if err != nil {
		return false, fmt.Errorf("insert payout request: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Get fetches a payout by request id. Returns nil, nil if absent.
func (r *PayoutRepo) Get(ctx context.Context, requestID string) (*domain.PayoutRecord, error) {
	query := `SELECT ` + payoutColumns + ` FROM payout_requests WHERE request_id = $1`
	return scanPayout(r.pool.QueryRow(ctx, query, requestID))
}

// GetForUpdate fetches a payout with a row lock held by tx.
func (r *PayoutRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, requestID string) (*domain.PayoutRecord, error) {
	query := `SELECT ` + payoutColumns + ` FROM payout_requests WHERE request_id = $1 FOR UPDATE`
	return scanPayout(tx.QueryRow(ctx, query, requestID))
}

// UpdateOutcome writes the outcome fields within a database transaction.
func (r *PayoutRepo) UpdateOutcome(ctx context.Context, tx pgx.Tx, requestID string, o domain.PayoutOutcome) error {
	query := `UPDATE payout_requests
		SET remote_transfer_id = NULLIF($1, ''), raw_status = $2, internal_status = $3,
			utr = $4, failure_reason = $5, updated_at = now()
		WHERE request_id = $6`

	tag, err := tx.Exec(ctx, query,
		o.RemoteTransferID, o.RawStatus, string(o.Status), o.UTR, o.FailureReason, requestID,
	)
	if err != nil {
		return fmt.Errorf("update payout outcome: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payout not found: %s", requestID)
	}
	return nil
}

// AttachBeneficiary records which beneficiary the payout is sent to.
func (r *PayoutRepo) AttachBeneficiary(ctx context.Context, requestID, beneficiaryID string) error {
	query := `UPDATE payout_requests SET beneficiary_id = $1, updated_at = now() WHERE request_id = $2`

	if _, err := r.pool.Exec(ctx, query, beneficiaryID, requestID); err != nil {
		return fmt.Errorf("attach beneficiary: %w", err)
	}
	return nil
}

// FindByTransferRef matches our request id first, then the provider's transfer id.
func (r *PayoutRepo) FindByTransferRef(ctx context.Context, transferID, remoteTransferID string) (*domain.PayoutRecord, error) {
	query := `SELECT ` + payoutColumns + ` FROM payout_requests
		WHERE request_id = $1 OR remote_transfer_id = $2
		ORDER BY (request_id = $1) DESC
		LIMIT 1`
	return scanPayout(r.pool.QueryRow(ctx, query, transferID, remoteTransferID))
}

// ListUnsettled returns Pending or Unknown payouts neither updated nor
// polled since olderThan. Never-polled rows come first, then the longest
// unpolled, so repeated passes rotate through every open payout.
func (r *PayoutRepo) ListUnsettled(ctx context.Context, olderThan time.Time, limit int) ([]domain.PayoutRecord, error) {
	query := `SELECT ` + payoutColumns + ` FROM payout_requests
		WHERE internal_status IN ('PENDING', 'UNKNOWN') AND updated_at < $1
			AND (last_polled_at IS NULL OR last_polled_at < $1)
		ORDER BY last_polled_at ASC NULLS FIRST, updated_at ASC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("list unsettled payouts: %w", err)
	}
	return collectPayouts(rows)
}

// MarkPolled stamps the poll cursor. It leaves updated_at untouched.
func (r *PayoutRepo) MarkPolled(ctx context.Context, requestID string, at time.Time) error {
	query := `UPDATE payout_requests SET last_polled_at = $1 WHERE request_id = $2`

	if _, err := r.pool.Exec(ctx, query, at, requestID); err != nil {
		return fmt.Errorf("mark payout polled: %w", err)
	}
	return nil
}

// List fetches payouts with filtering and pagination.
func (r *PayoutRepo) List(ctx context.Context, params ports.PayoutListParams) ([]domain.PayoutRecord, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("internal_status = $%d", argIdx))
		args = append(args, string(*params.Status))
		argIdx++
	}
	if params.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *params.From)
		argIdx++
	}
	if params.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argIdx))
		args = append(args, *params.To)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM payout_requests %s", where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payouts: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT %s FROM payout_requests %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		payoutColumns, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list payouts: %w", err)
	}
	payouts, err := collectPayouts(rows)
	if err != nil {
		return nil, 0, err
	}
	return payouts, total, nil
}

func collectPayouts(rows pgx.Rows) ([]domain.PayoutRecord, error) {
	defer rows.Close()

	var payouts []domain.PayoutRecord
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payout rows: %w", err)
	}
	return payouts, nil
}

// scanPayout scans a single row into a PayoutRecord. Returns nil, nil on no rows.
func scanPayout(row pgx.Row) (*domain.PayoutRecord, error) {
	p := &domain.PayoutRecord{}
	var status string
	err := row.Scan(
		&p.RequestID, &p.AccountRef, &p.PartyName, &p.Amount, &p.TransferMode, &p.Remarks, &p.BeneficiaryID,
		&p.Outcome.RemoteTransferID, &p.Outcome.RawStatus, &status, &p.Outcome.UTR, &p.Outcome.FailureReason,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan payout: %w", err)
	}
	p.Outcome.Status = domain.InternalStatus(status)
	return p, nil
}
