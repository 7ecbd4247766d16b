package cashfree

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

type beneficiaryRequest struct {
	BeneficiaryID     string            `json:"beneficiary_id"`
	BeneficiaryName   string            `json:"beneficiary_name"`
	InstrumentDetails instrumentDetails `json:"beneficiary_instrument_details"`
	ContactDetails    contactDetails    `json:"beneficiary_contact_details"`
}

type instrumentDetails struct {
	BankAccountNumber string `json:"bank_account_number"`
	BankIFSC          string `json:"bank_ifsc"`
}

type contactDetails struct {
	Email       string `json:"beneficiary_email"`
	Phone       string `json:"beneficiary_phone"`
	CountryCode string `json:"beneficiary_country_code,omitempty"`
	Address     string `json:"beneficiary_address,omitempty"`
	City        string `json:"beneficiary_city,omitempty"`
	State       string `json:"beneficiary_state,omitempty"`
	PostalCode  string `json:"beneficiary_postal_code,omitempty"`
}

type transferRequest struct {
	TransferID         string             `json:"transfer_id"`
	TransferAmount     json.Number        `json:"transfer_amount"`
	TransferMode       string             `json:"transfer_mode,omitempty"`
	BeneficiaryDetails beneficiaryDetails `json:"beneficiary_details"`
	Remarks            string             `json:"remarks,omitempty"`
}

type beneficiaryDetails struct {
	BeneficiaryID string `json:"beneficiary_id"`
}

// amountNumber renders a decimal as a JSON number with two places.
func amountNumber(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

// transferFields is the set of fields a transfer answer may carry, at the
// top level, under "data" or under "data.transfer_details".
type transferFields struct {
	TransferID        flexString `json:"transfer_id"`
	CFTransferID      flexString `json:"cf_transfer_id"`
	Status            string     `json:"status"`
	StatusCode        string     `json:"status_code"`
	TransferStatus    string     `json:"transfer_status"`
	StatusDescription string     `json:"status_description"`
	TransferUTR       string     `json:"transfer_utr"`
	UTR               string     `json:"utr"`
	Reason            string     `json:"reason"`
}

type transferResponse struct {
	transferFields
	Data *struct {
		transferFields
		TransferDetails *transferFields `json:"transfer_details"`
	} `json:"data"`
}

// merged returns the first non-empty value of every field, most specific
// level first.
func (r transferResponse) merged() transferFields {
	levels := make([]transferFields, 0, 3)
	if r.Data != nil {
		if r.Data.TransferDetails != nil {
			levels = append(levels, *r.Data.TransferDetails)
		}
		levels = append(levels, r.Data.transferFields)
	}
	levels = append(levels, r.transferFields)

	var out transferFields
	for _, l := range levels {
		out.TransferID = flexString(firstNonEmpty(string(out.TransferID), string(l.TransferID)))
		out.CFTransferID = flexString(firstNonEmpty(string(out.CFTransferID), string(l.CFTransferID)))
		out.Status = firstNonEmpty(out.Status, l.Status, l.TransferStatus)
		out.StatusCode = firstNonEmpty(out.StatusCode, l.StatusCode)
		out.StatusDescription = firstNonEmpty(out.StatusDescription, l.StatusDescription)
		out.TransferUTR = firstNonEmpty(out.TransferUTR, l.TransferUTR, l.UTR)
		out.Reason = firstNonEmpty(out.Reason, l.Reason)
	}
	return out
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// auditJSON returns b when it is valid JSON, otherwise b quoted as a JSON
// string so it can be stored in a jsonb column.
func auditJSON(b []byte) json.RawMessage {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if json.Valid(b) {
		return json.RawMessage(b)
	}
	quoted, _ := json.Marshal(string(b))
	return quoted
}
