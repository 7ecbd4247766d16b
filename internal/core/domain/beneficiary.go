package domain

import (
	"strings"
	"unicode"
)

const (
	beneficiaryPrefix      = "BENE_"
	maxPartySegment        = 20
	maxBeneficiaryIDLength = 50
	accountSuffixLength    = 4
	missingAccountSuffix   = "0000"
	unknownParty           = "UNKNOWN"
)

// Instrument is the bank account a beneficiary is paid into.
type Instrument struct {
	AccountNumber string `json:"bank_account_number"`
	IFSC          string `json:"bank_ifsc"`
}

// Contact holds beneficiary contact details.
type Contact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// BeneficiaryIdentity is a payee confirmed (or about to be confirmed) at the
// payout provider. Its ID is derived, never assigned.
type BeneficiaryIdentity struct {
	ID          string     `json:"beneficiary_id"`
	DisplayName string     `json:"beneficiary_name"`
	Instrument  Instrument `json:"instrument"`
	Contact     Contact    `json:"contact"`
}

// BeneficiarySource is the account data a trigger carries.
type BeneficiarySource struct {
	AccountRef          string `json:"account_ref"`
	PartyName           string `json:"party_name"`
	AccountNumber       string `json:"account_number"`
	IFSC                string `json:"ifsc"`
	StoredBeneficiaryID string `json:"stored_beneficiary_id,omitempty"`
	// Verified is set by the supplier system once the account is both
	// approved and ownership-verified.
	Verified bool `json:"verified"`
}

// Resolvable reports whether enough account data is present to look up or
// register a beneficiary.
func (s BeneficiarySource) Resolvable() bool {
	return strings.TrimSpace(s.AccountRef) != "" &&
		strings.TrimSpace(s.PartyName) != "" &&
		strings.TrimSpace(s.AccountNumber) != "" &&
		strings.TrimSpace(s.IFSC) != ""
}

// DerivedID returns the deterministic beneficiary id for this source.
func (s BeneficiarySource) DerivedID() string {
	return DeriveBeneficiaryID(s.PartyName, s.AccountNumber)
}

// DeriveBeneficiaryID builds "BENE_<party>_<last4>".
//
// The party segment keeps ASCII letters and digits, turns runs of whitespace,
// hyphens and underscores into a single underscore and is cut to 20
// characters. The result never exceeds 50 characters and only contains
// [A-Za-z0-9_].
func DeriveBeneficiaryID(partyName, accountNumber string) string {
	id := beneficiaryPrefix + normalizeParty(partyName) + "_" + accountSuffix(accountNumber)
	if len(id) > maxBeneficiaryIDLength {
		id = id[:maxBeneficiaryIDLength]
	}
	return id
}

func normalizeParty(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range name {
		switch {
		case unicode.IsSpace(r) || r == '-' || r == '_':
			pendingSep = b.Len() > 0
		case isASCIIAlnum(r):
			if pendingSep {
				b.WriteByte('_')
				pendingSep = false
			}
			b.WriteRune(r)
		}
	}

	s := b.String()
	if len(s) > maxPartySegment {
		s = strings.TrimRight(s[:maxPartySegment], "_")
	}
	if s == "" {
		return unknownParty
	}
	return s
}

func accountSuffix(accountNumber string) string {
	alnum := keepASCIIAlnum(accountNumber)
	if alnum == "" {
		return missingAccountSuffix
	}
	if len(alnum) > accountSuffixLength {
		return alnum[len(alnum)-accountSuffixLength:]
	}
	return alnum
}

// MaskAccountNumber hides all but the last four characters.
func MaskAccountNumber(accountNumber string) string {
	n := len(accountNumber)
	if n <= accountSuffixLength {
		return accountNumber
	}
	return strings.Repeat("X", n-accountSuffixLength) + accountNumber[n-accountSuffixLength:]
}

// DigitsOnly strips everything but 0-9.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func keepASCIIAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isASCIIAlnum(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
