package ports

//go:generate mockgen -source=gateway.go -destination=mocks/gateway.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"supplier-payout-gateway/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// APICredentials are the headers every payout API call carries.
type APICredentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"-"`
	APIVersion   string `json:"api_version"`
	ContentType  string `json:"content_type"`
}

// Apply writes the credentials onto an outbound request's headers.
func (c APICredentials) Apply(h http.Header) {
	h.Set("x-client-id", c.ClientID)
	h.Set("x-client-secret", c.ClientSecret)
	h.Set("x-api-version", c.APIVersion)
	h.Set("Content-Type", c.ContentType)
}

func (c APICredentials) String() string {
	return fmt.Sprintf("client_id=%s secret=[REDACTED] api_version=%s", c.ClientID, c.APIVersion)
}

// MarshalZerologObject logs the credentials without the secret.
func (c APICredentials) MarshalZerologObject(e *zerolog.Event) {
	e.Str("client_id", c.ClientID).Str("api_version", c.APIVersion)
}

// CredentialProvider supplies base URL and headers for the payout API.
type CredentialProvider interface {
	Headers(env string) (APICredentials, error)
	BaseURL(env string) (string, error)
	Environment() string
}

// Exchange is the auditable record of one remote call.
type Exchange struct {
	Method     string          `json:"method"`
	Path       string          `json:"path"`
	StatusCode int             `json:"status_code,omitempty"`
	Request    json.RawMessage `json:"request,omitempty"`
	Response   json.RawMessage `json:"response,omitempty"`
}

// RemoteError is a non-success answer (or no answer) from the payout API.
type RemoteError struct {
	Op         string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, string(e.Body))
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a remote 404.
func IsNotFound(err error) bool {
	return remoteStatus(err) == http.StatusNotFound
}

// IsConflict reports whether err is a remote 409 "already exists".
func IsConflict(err error) bool {
	return remoteStatus(err) == http.StatusConflict
}

func remoteStatus(err error) int {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}

// BeneficiaryCreate is the payload for registering a beneficiary.
type BeneficiaryCreate struct {
	BeneficiaryID string
	Name          string
	Instrument    domain.Instrument
	Contact       domain.Contact
	CountryCode   string
	Address       string
	City          string
	State         string
	PostalCode    string
}

// TransferCreate is the payload for a single payout.
type TransferCreate struct {
	TransferID    string
	BeneficiaryID string
	Amount        decimal.Decimal
	Mode          string
	Remarks       string
}

// TransferStatus is the provider's view of a transfer.
type TransferStatus struct {
	TransferID       string
	RemoteTransferID string
	Status           string
	UTR              string
	Reason           string
}

// PayoutGateway is the remote payout API. Every method returns the
// Exchange when a request was sent, even on error.
type PayoutGateway interface {
	GetBeneficiary(ctx context.Context, beneficiaryID string) (*Exchange, error)
	CreateBeneficiary(ctx context.Context, req BeneficiaryCreate) (*Exchange, error)
	CreateTransfer(ctx context.Context, req TransferCreate) (*TransferStatus, *Exchange, error)
	GetTransfer(ctx context.Context, transferID string) (*TransferStatus, *Exchange, error)
}
