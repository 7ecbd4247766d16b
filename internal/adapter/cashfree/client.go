package cashfree

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"supplier-payout-gateway/internal/core/domain"
	"supplier-payout-gateway/internal/core/ports"
	"supplier-payout-gateway/pkg/logger"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxResponseBody = 1 << 20

// Client implements ports.PayoutGateway against the Cashfree Payouts v2 API.
// It never retries; callers rely on idempotent ids instead.
type Client struct {
	creds      ports.CredentialProvider
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a payout API client. The transport is traced with otelhttp.
func NewClient(creds ports.CredentialProvider, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		creds: creds,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: logger.Component(log, "cashfree"),
	}
}

// GetBeneficiary looks a beneficiary up by id. A missing beneficiary is a
// *ports.RemoteError with status 404.
func (c *Client) GetBeneficiary(ctx context.Context, beneficiaryID string) (*ports.Exchange, error) {
	path := "/beneficiaries/" + url.PathEscape(beneficiaryID)
	ex, _, err := c.do(ctx, "get beneficiary", http.MethodGet, path, nil, nil)
	return ex, err
}

// CreateBeneficiary registers a beneficiary. A duplicate id surfaces as a
// *ports.RemoteError with status 409.
func (c *Client) CreateBeneficiary(ctx context.Context, req ports.BeneficiaryCreate) (*ports.Exchange, error) {
	body := beneficiaryRequest{
		BeneficiaryID:   req.BeneficiaryID,
		BeneficiaryName: req.Name,
		InstrumentDetails: instrumentDetails{
			BankAccountNumber: req.Instrument.AccountNumber,
			BankIFSC:          req.Instrument.IFSC,
		},
		ContactDetails: contactDetails{
			Email:       req.Contact.Email,
			Phone:       req.Contact.Phone,
			CountryCode: req.CountryCode,
			Address:     req.Address,
			City:        req.City,
			State:       req.State,
			PostalCode:  req.PostalCode,
		},
	}

	masked := body
	masked.InstrumentDetails.BankAccountNumber = domain.MaskAccountNumber(req.Instrument.AccountNumber)

	ex, _, err := c.do(ctx, "create beneficiary", http.MethodPost, "/beneficiary", body, masked)
	return ex, err
}

// CreateTransfer requests a single payout. The transfer id is the caller's
// request id, which makes the call idempotent on the provider side.
func (c *Client) CreateTransfer(ctx context.Context, req ports.TransferCreate) (*ports.TransferStatus, *ports.Exchange, error) {
	body := transferRequest{
		TransferID:         req.TransferID,
		TransferAmount:     amountNumber(req.Amount),
		TransferMode:       req.Mode,
		BeneficiaryDetails: beneficiaryDetails{BeneficiaryID: req.BeneficiaryID},
		Remarks:            req.Remarks,
	}

	ex, raw, err := c.do(ctx, "create transfer", http.MethodPost, "/transfers", body, body)
	if err != nil {
		return nil, ex, err
	}
	status, err := parseTransfer(raw, req.TransferID)
	if err != nil {
		return nil, ex, &ports.RemoteError{Op: "create transfer", StatusCode: ex.StatusCode, Body: raw, Err: err}
	}
	return status, ex, nil
}

// GetTransfer fetches the current state of a transfer by our transfer id.
func (c *Client) GetTransfer(ctx context.Context, transferID string) (*ports.TransferStatus, *ports.Exchange, error) {
	path := "/transfers?" + url.Values{"transfer_id": {transferID}}.Encode()

	ex, raw, err := c.do(ctx, "get transfer", http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, ex, err
	}
	status, err := parseTransfer(raw, transferID)
	if err != nil {
		return nil, ex, &ports.RemoteError{Op: "get transfer", StatusCode: ex.StatusCode, Body: raw, Err: err}
	}
	return status, ex, nil
}

// do sends one request. auditBody is what the Exchange records as the request;
// it differs from body when fields must be masked.
func (c *Client) do(ctx context.Context, op, method, path string, body, auditBody any) (*ports.Exchange, []byte, error) {
	creds, err := c.creds.Headers("")
	if err != nil {
		return nil, nil, err
	}
	baseURL, err := c.creds.BaseURL("")
	if err != nil {
		return nil, nil, err
	}

	ex := &ports.Exchange{Method: method, Path: path}

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal %s request: %w", op, err)
		}
		bodyReader = bytes.NewReader(payload)

		audited, err := json.Marshal(auditBody)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal %s audit payload: %w", op, err)
		}
		ex.Request = audited
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, baseURL+path, bodyReader)
	if err != nil {
		return ex, nil, fmt.Errorf("build %s request: %w", op, err)
	}
	creds.Apply(httpReq.Header)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Warn().Err(err).Str("op", op).Str("path", path).Msg("payout API unreachable")
		return ex, nil, &ports.RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return ex, nil, &ports.RemoteError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	ex.StatusCode = resp.StatusCode
	ex.Response = auditJSON(raw)

	c.log.Debug().
		Str("op", op).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("payout API call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ex, raw, &ports.RemoteError{Op: op, StatusCode: resp.StatusCode, Body: raw}
	}
	return ex, raw, nil
}

func parseTransfer(raw []byte, fallbackID string) (*ports.TransferStatus, error) {
	var resp transferResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode transfer response: %w", err)
	}
	f := resp.merged()

	return &ports.TransferStatus{
		TransferID:       firstNonEmpty(string(f.TransferID), fallbackID),
		RemoteTransferID: string(f.CFTransferID),
		Status:           firstNonEmpty(f.Status, f.StatusCode),
		UTR:              f.TransferUTR,
		Reason:           firstNonEmpty(f.Reason, f.StatusDescription),
	}, nil
}
