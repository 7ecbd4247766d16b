package dto

import (
	"encoding/json"
	"strings"
)

// TriggerRequest is the request body for POST /api/v1/payouts/trigger.
type TriggerRequest struct {
	RequestID     string             `json:"request_id" binding:"required,max=100,safe_id"`
	WorkflowState string             `json:"workflow_state" binding:"required,max=100"`
	Amount        json.Number        `json:"amount" binding:"required,decimal_gt0"`
	Remarks       string             `json:"remarks,omitempty" binding:"max=200"`
	TransferMode  string             `json:"transfer_mode,omitempty" binding:"omitempty,oneof=banktransfer imps neft rtgs upi BANKTRANSFER IMPS NEFT RTGS UPI"`
	Beneficiary   BeneficiaryRequest `json:"beneficiary" binding:"required"`
}

// BeneficiaryRequest is the supplier account data carried by a trigger.
type BeneficiaryRequest struct {
	AccountRef          string `json:"account_ref" binding:"required,max=100,safe_id"`
	PartyName           string `json:"party_name" binding:"required,max=140"`
	AccountNumber       string `json:"account_number" binding:"required,min=6,max=34,alphanum"`
	IFSC                string `json:"ifsc" binding:"required,ifsc"`
	StoredBeneficiaryID string `json:"stored_beneficiary_id,omitempty" binding:"omitempty,max=50,safe_id"`
	Verified            bool   `json:"verified"`
}

// TriggerResponse is the response body for a handled trigger.
type TriggerResponse struct {
	RequestID   string `json:"request_id"`
	Disposition string `json:"disposition"`
	TransferID  string `json:"transfer_id,omitempty"`
	RawStatus   string `json:"raw_status,omitempty"`
	Status      string `json:"status"`
	UTR         string `json:"utr,omitempty"`
}

// PayoutResponse is the read model of a stored payout.
type PayoutResponse struct {
	RequestID     string `json:"request_id"`
	AccountRef    string `json:"account_ref"`
	PartyName     string `json:"party_name"`
	Amount        string `json:"amount"`
	TransferMode  string `json:"transfer_mode"`
	Remarks       string `json:"remarks,omitempty"`
	BeneficiaryID string `json:"beneficiary_id,omitempty"`
	TransferID    string `json:"transfer_id,omitempty"`
	RawStatus     string `json:"raw_status,omitempty"`
	Status        string `json:"status"`
	UTR           string `json:"utr,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// AuditEntryResponse is one audit trail row.
type AuditEntryResponse struct {
	ID              string          `json:"id"`
	Category        string          `json:"category"`
	Outcome         string          `json:"outcome"`
	RequestPayload  json.RawMessage `json:"request_payload,omitempty"`
	ResponsePayload json.RawMessage `json:"response_payload,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

// NotificationResponse acknowledges a transfer notification.
type NotificationResponse struct {
	Status      string `json:"status"`
	Disposition string `json:"disposition"`
	RequestID   string `json:"request_id,omitempty"`
}

// TransferWebhook is the inbound transfer status notification. Fields are
// accepted at the top level, under data, and under data.transfer.
type TransferWebhook struct {
	Event string `json:"event"`
	Type  string `json:"type"`
	TransferFields
	Data *struct {
		TransferFields
		Transfer *TransferFields `json:"transfer"`
	} `json:"data"`
}

// TransferFields are the status fields a notification may carry.
type TransferFields struct {
	TransferID        FlexString `json:"transfer_id"`
	TransferIDCamel   FlexString `json:"transferId"`
	CFTransferID      FlexString `json:"cf_transfer_id"`
	ReferenceID       FlexString `json:"referenceId"`
	Status            string     `json:"status"`
	TransferStatus    string     `json:"transfer_status"`
	UTR               string     `json:"utr"`
	TransferUTR       string     `json:"transfer_utr"`
	Reason            string     `json:"reason"`
	FailureReason     string     `json:"failure_reason"`
	StatusDescription string     `json:"status_description"`
}

// Normalized flattens the notification, preferring the most specific level.
// The event type (TRANSFER_SUCCESS) stands in for a missing status.
func (w TransferWebhook) Normalized() (transferID, cfTransferID, status, utr, reason string) {
	levels := []TransferFields{w.TransferFields}
	if w.Data != nil {
		levels = append(levels, w.Data.TransferFields)
		if w.Data.Transfer != nil {
			levels = append(levels, *w.Data.Transfer)
		}
	}

	pick := func(get func(f TransferFields) string) string {
		for i := len(levels) - 1; i >= 0; i-- {
			if v := strings.TrimSpace(get(levels[i])); v != "" {
				return v
			}
		}
		return ""
	}

	transferID = pick(func(f TransferFields) string { return firstOf(string(f.TransferID), string(f.TransferIDCamel)) })
	cfTransferID = pick(func(f TransferFields) string { return firstOf(string(f.CFTransferID), string(f.ReferenceID)) })
	status = pick(func(f TransferFields) string { return firstOf(f.Status, f.TransferStatus) })
	utr = pick(func(f TransferFields) string { return firstOf(f.UTR, f.TransferUTR) })
	reason = pick(func(f TransferFields) string { return firstOf(f.Reason, f.FailureReason, f.StatusDescription) })

	if status == "" {
		event := strings.ToUpper(strings.TrimSpace(firstOf(w.Type, w.Event)))
		status = strings.TrimPrefix(event, "TRANSFER_")
	}
	return transferID, cfTransferID, status, utr, reason
}

// FlexString accepts a JSON string or number.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	if string(b) == "null" {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func firstOf(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
