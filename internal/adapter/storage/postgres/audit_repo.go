package postgres

import (
	"context"
	"fmt"

	"supplier-payout-gateway/internal/core/domain"
)

// AuditRepo implements ports.AuditRepository. Rows are never updated.
type AuditRepo struct {
	pool Pool
}

// NewAuditRepo creates a PostgreSQL-backed audit repository.
func NewAuditRepo(pool Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// Create appends an audit entry.
func (r *AuditRepo) Create(ctx context.Context, e *domain.AuditEntry) error {
	query := `INSERT INTO payout_audit_log (id, request_id, category, request_payload, response_payload, outcome, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		e.ID, e.RequestID, string(e.Category), nullJSON(e.RequestPayload), nullJSON(e.ResponsePayload),
		e.Outcome, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListByRequest returns the audit trail of a payout, oldest first.
func (r *AuditRepo) ListByRequest(ctx context.Context, requestID string) ([]domain.AuditEntry, error) {
	query := `SELECT id, request_id, category, request_payload, response_payload, outcome, created_at
		FROM payout_audit_log WHERE request_id = $1 ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var category string
		var reqPayload, respPayload []byte
		if err := rows.Scan(&e.ID, &e.RequestID, &category, &reqPayload, &respPayload, &e.Outcome, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Category = domain.AuditCategory(category)
		e.RequestPayload = reqPayload
		e.ResponsePayload = respPayload
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit rows: %w", err)
	}
	return entries, nil
}

// nullJSON maps an empty payload to SQL NULL.
func nullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
