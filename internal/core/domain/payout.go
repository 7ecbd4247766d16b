package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayoutRequest is a single logical payment to a supplier. RequestID is
// supplied by the caller and doubles as the provider's transfer_id.
type PayoutRequest struct {
	RequestID    string            `json:"request_id"`
	Amount       decimal.Decimal   `json:"amount"`
	Beneficiary  BeneficiarySource `json:"beneficiary"`
	Remarks      string            `json:"remarks,omitempty"`
	TransferMode string            `json:"transfer_mode,omitempty"`
}

// amountScale is the number of decimal places the payout API settles in.
const amountScale = 2

// ValidAmount reports whether amount is positive and needs no rounding to be
// sent as rupees and paise.
func ValidAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.Equal(amount.Round(amountScale))
}

// PayoutOutcome is the provider-side result of a payout.
type PayoutOutcome struct {
	RemoteTransferID string         `json:"remote_transfer_id,omitempty"`
	RawStatus        string         `json:"raw_status,omitempty"`
	Status           InternalStatus `json:"internal_status"`
	UTR              string         `json:"utr,omitempty"`
	FailureReason    string         `json:"failure_reason,omitempty"`
}

// HasTransfer reports whether a remote transfer has been recorded.
func (o PayoutOutcome) HasTransfer() bool {
	return o.RemoteTransferID != ""
}

// Transition describes the effect of applying a candidate outcome.
type Transition struct {
	From          InternalStatus
	To            InternalStatus
	StatusChanged bool
	Changed       bool
}

// Advance merges a candidate outcome into o following the forward-only rule.
//
// The remote transfer id is recorded once. The status moves only when
// CanTransition allows it. The settlement reference and failure reason are
// recorded once, and only when the candidate agrees with the resulting status.
func (o PayoutOutcome) Advance(c PayoutOutcome) (PayoutOutcome, Transition) {
	next := o
	tr := Transition{From: o.Status, To: o.Status}

	if next.RemoteTransferID == "" && c.RemoteTransferID != "" {
		next.RemoteTransferID = c.RemoteTransferID
		tr.Changed = true
	}

	accepted := false
	switch {
	case CanTransition(o.Status, c.Status):
		next.Status = c.Status
		next.RawStatus = c.RawStatus
		tr.To = c.Status
		tr.StatusChanged = true
		tr.Changed = true
		accepted = true
	case c.Status == o.Status && o.Status != StatusNone:
		accepted = true
		if !o.Status.IsTerminal() && c.RawStatus != "" && c.RawStatus != o.RawStatus {
			next.RawStatus = c.RawStatus
			tr.Changed = true
		}
	}

	if accepted {
		if next.UTR == "" && c.UTR != "" {
			next.UTR = c.UTR
			tr.Changed = true
		}
		if next.FailureReason == "" && c.FailureReason != "" &&
			(next.Status == StatusFailed || next.Status == StatusReversed) {
			next.FailureReason = c.FailureReason
			tr.Changed = true
		}
	}

	return next, tr
}

// PayoutRecord is the persisted payout request together with its outcome.
type PayoutRecord struct {
	RequestID     string          `json:"request_id"`
	AccountRef    string          `json:"account_ref"`
	PartyName     string          `json:"party_name"`
	Amount        decimal.Decimal `json:"amount"`
	TransferMode  string          `json:"transfer_mode"`
	Remarks       string          `json:"remarks,omitempty"`
	BeneficiaryID string          `json:"beneficiary_id,omitempty"`
	Outcome       PayoutOutcome   `json:"outcome"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewPayoutRecord builds the initial record for a request, before any
// remote call has been made.
func NewPayoutRecord(req PayoutRequest) *PayoutRecord {
	return &PayoutRecord{
		RequestID:    req.RequestID,
		AccountRef:   req.Beneficiary.AccountRef,
		PartyName:    req.Beneficiary.PartyName,
		Amount:       req.Amount,
		TransferMode: req.TransferMode,
		Remarks:      req.Remarks,
	}
}
