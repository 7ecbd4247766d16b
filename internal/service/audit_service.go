package service

import (
	"context"
	"encoding/json"
	"time"

	"supplier-payout-gateway/internal/core/domain"
	"supplier-payout-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService creates a new audit service.
// If repo is nil, audit entries are only written to the logger.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record persists an audit entry before returning. A failed write is logged
// and swallowed so it never masks the caller's own error.
func (s *auditService) Record(ctx context.Context, entry *domain.AuditEntry) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	s.log.Info().
		Str("request_id", entry.RequestID).
		Str("category", string(entry.Category)).
		Str("outcome", entry.Outcome).
		Msg("audit")

	if s.repo == nil {
		return
	}
	if err := s.repo.Create(context.WithoutCancel(ctx), entry); err != nil {
		s.log.Error().Err(err).
			Str("request_id", entry.RequestID).
			Str("category", string(entry.Category)).
			Msg("failed to persist audit entry")
	}
}

// ExchangeEntry builds an audit entry from a remote call. ex may be nil when
// the call never left the process.
func ExchangeEntry(requestID string, category domain.AuditCategory, ex *ports.Exchange, outcome string, cause error) *domain.AuditEntry {
	entry := &domain.AuditEntry{
		RequestID: requestID,
		Category:  category,
		Outcome:   outcome,
	}
	if ex != nil {
		entry.RequestPayload, _ = json.Marshal(map[string]any{
			"method": ex.Method,
			"path":   ex.Path,
			"body":   ex.Request,
		})
		resp := map[string]any{"status_code": ex.StatusCode, "body": ex.Response}
		if cause != nil {
			resp["error"] = cause.Error()
		}
		entry.ResponsePayload, _ = json.Marshal(resp)
	} else if cause != nil {
		entry.ResponsePayload, _ = json.Marshal(map[string]any{"error": cause.Error()})
	}
	return entry
}
