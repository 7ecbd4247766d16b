package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType names an event the dispatcher routes.
type EventType string

const (
	EventPayoutTriggered      EventType = "payout.triggered"
	EventTransferNotification EventType = "transfer.notification"
	EventOutcomeChanged       EventType = "payout.outcome_changed"
)

// Event is anything the dispatcher can route.
type Event interface {
	EventType() EventType
}

// TriggerEvent is raised when a payment record changes workflow state.
type TriggerEvent struct {
	RequestID     string            `json:"request_id"`
	WorkflowState string            `json:"workflow_state"`
	Amount        decimal.Decimal   `json:"amount"`
	Remarks       string            `json:"remarks,omitempty"`
	TransferMode  string            `json:"transfer_mode,omitempty"`
	Beneficiary   BeneficiarySource `json:"beneficiary"`
}

func (TriggerEvent) EventType() EventType { return EventPayoutTriggered }

// PayoutRequest extracts the payout part of the trigger.
func (e TriggerEvent) PayoutRequest() PayoutRequest {
	return PayoutRequest{
		RequestID:    e.RequestID,
		Amount:       e.Amount,
		Beneficiary:  e.Beneficiary,
		Remarks:      e.Remarks,
		TransferMode: e.TransferMode,
	}
}

// NotificationSource says how a transfer status reached us.
type NotificationSource string

const (
	SourceTransferCreate NotificationSource = "transfer_create"
	SourceWebhook        NotificationSource = "webhook"
	SourcePoll           NotificationSource = "poll"
)

// TransferNotification carries a status update for a previously created
// transfer. TransferID is our request id as echoed by the provider;
// RemoteTransferID is the provider's own id.
type TransferNotification struct {
	TransferID       string             `json:"transfer_id,omitempty"`
	RemoteTransferID string             `json:"cf_transfer_id,omitempty"`
	RawStatus        string             `json:"status"`
	UTR              string             `json:"utr,omitempty"`
	FailureReason    string             `json:"failure_reason,omitempty"`
	Source           NotificationSource `json:"source"`
	ReceivedAt       time.Time          `json:"received_at"`
}

func (TransferNotification) EventType() EventType { return EventTransferNotification }

// Ref returns the most specific transfer reference present.
func (n TransferNotification) Ref() string {
	if n.TransferID != "" {
		return n.TransferID
	}
	return n.RemoteTransferID
}

// OutcomeEvent is published whenever a payout outcome changes.
type OutcomeEvent struct {
	RequestID  string             `json:"request_id"`
	Outcome    PayoutOutcome      `json:"outcome"`
	Previous   InternalStatus     `json:"previous_status"`
	Source     NotificationSource `json:"source"`
	OccurredAt time.Time          `json:"occurred_at"`
}

func (OutcomeEvent) EventType() EventType { return EventOutcomeChanged }
