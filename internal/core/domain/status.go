package domain

import "strings"

// InternalStatus is the reconciliation state of a payout.
// The zero value means no outcome has been recorded yet.
type InternalStatus string

const (
	StatusNone     InternalStatus = ""
	StatusPending  InternalStatus = "PENDING"
	StatusSuccess  InternalStatus = "SUCCESS"
	StatusFailed   InternalStatus = "FAILED"
	StatusReversed InternalStatus = "REVERSED"
	StatusUnknown  InternalStatus = "UNKNOWN"
)

var remoteStatuses = map[string]InternalStatus{
	"RECEIVED": StatusPending,
	"PENDING":  StatusPending,
	"QUEUED":   StatusPending,
	"SUCCESS":  StatusSuccess,
	"FAILED":   StatusFailed,
	"ERROR":    StatusFailed,
	"REJECTED": StatusFailed,
	"REVERSED": StatusReversed,
}

// MapRemoteStatus maps the provider's transfer status to an InternalStatus.
// Unrecognised values map to StatusUnknown with known=false.
func MapRemoteStatus(raw string) (status InternalStatus, known bool) {
	if s, ok := remoteStatuses[strings.ToUpper(strings.TrimSpace(raw))]; ok {
		return s, true
	}
	return StatusUnknown, false
}

// ParseInternalStatus validates a stored or user-supplied status value.
func ParseInternalStatus(s string) (InternalStatus, bool) {
	switch st := InternalStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusSuccess, StatusFailed, StatusReversed, StatusUnknown:
		return st, true
	}
	return StatusNone, false
}

// IsTerminal returns true for Success, Failed and Reversed.
func (s InternalStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed || s == StatusReversed
}

func (s InternalStatus) String() string {
	if s == StatusNone {
		return "NONE"
	}
	return string(s)
}

// CanTransition reports whether a payout may move from one status to another.
// Terminal states are final and Unknown never replaces a known state.
func CanTransition(from, to InternalStatus) bool {
	if to == StatusNone || from == to || from.IsTerminal() {
		return false
	}
	switch from {
	case StatusNone:
		return true
	case StatusPending:
		return to.IsTerminal()
	case StatusUnknown:
		return to == StatusPending || to.IsTerminal()
	}
	return false
}
