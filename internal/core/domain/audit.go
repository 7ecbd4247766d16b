package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditCategory groups audit entries by the interaction they record.
type AuditCategory string

const (
	AuditBeneficiaryLookup AuditCategory = "beneficiary_lookup"
	AuditBeneficiaryCreate AuditCategory = "beneficiary_create"
	AuditTransferCreate    AuditCategory = "transfer_create"
	AuditReconciliation    AuditCategory = "reconciliation"
)

// Audit outcomes.
const (
	AuditOutcomeFound    = "found"
	AuditOutcomeNotFound = "not_found"
	AuditOutcomeCreated  = "created"
	AuditOutcomeExists   = "already_exists"
	AuditOutcomeError    = "error"
	AuditOutcomeApplied  = "applied"
	AuditOutcomeNoop     = "noop"
	AuditOutcomeIgnored  = "ignored"
)

// AuditEntry is an append-only record of one remote interaction or one
// reconciliation decision.
type AuditEntry struct {
	ID              uuid.UUID       `json:"id"`
	RequestID       string          `json:"request_id,omitempty"`
	Category        AuditCategory   `json:"category"`
	RequestPayload  json.RawMessage `json:"request_payload,omitempty"`
	ResponsePayload json.RawMessage `json:"response_payload,omitempty"`
	Outcome         string          `json:"outcome"`
	CreatedAt       time.Time       `json:"created_at"`
}
