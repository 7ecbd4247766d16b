package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"supplier-payout-gateway/internal/core/domain"
	"supplier-payout-gateway/internal/core/ports"
	"supplier-payout-gateway/internal/core/ports/mocks"
	"supplier-payout-gateway/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const triggerBody = `{
	"request_id": "PR-1001",
	"workflow_state": "Queued",
	"amount": 1500.5,
	"beneficiary": {
		"account_ref": "ACC-RR",
		"party_name": "  Red Rock Enterprises ",
		"account_number": "50100222432439",
		"ifsc": "HDFC0001234",
		"verified": true
	}
}`

func newContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// --- Payout Handler Tests ---

func TestTrigger_Created(t *testing.T) {
	ctrl := gomock.NewController(t)
	dispatcher := mocks.NewMockEventDispatcher(ctrl)
	h := NewPayoutHandler(dispatcher, mocks.NewMockReportingService(ctrl))

	dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, ev domain.Event) (*ports.Result, error) {
		trigger, ok := ev.(domain.TriggerEvent)
		require.True(t, ok)
		assert.Equal(t, "PR-1001", trigger.RequestID)
		assert.True(t, decimal.RequireFromString("1500.50").Equal(trigger.Amount))
		assert.Equal(t, "Red Rock Enterprises", trigger.Beneficiary.PartyName)
		assert.True(t, trigger.Beneficiary.Verified)
		return &ports.Result{
			RequestID:   "PR-1001",
			Disposition: ports.DispositionCreated,
			Outcome:     &domain.PayoutOutcome{RemoteTransferID: "CF-77", RawStatus: "QUEUED", Status: domain.StatusPending},
		}, nil
	})

	c, w := newContext(http.MethodPost, "/api/v1/payouts/trigger", triggerBody)
	h.Trigger(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "created", data["disposition"])
	assert.Equal(t, "PENDING", data["status"])
	assert.Equal(t, "CF-77", data["transfer_id"])
	assert.NotContains(t, data, "utr")
}

func TestTrigger_ExistingReturns200(t *testing.T) {
	ctrl := gomock.NewController(t)
	dispatcher := mocks.NewMockEventDispatcher(ctrl)
	h := NewPayoutHandler(dispatcher, mocks.NewMockReportingService(ctrl))

	dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(&ports.Result{
		RequestID:   "PR-1001",
		Disposition: ports.DispositionExisting,
		Outcome:     &domain.PayoutOutcome{RemoteTransferID: "CF-77", Status: domain.StatusSuccess, UTR: "UTR-1"},
	}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/payouts/trigger", triggerBody)
	h.Trigger(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "existing", data["disposition"])
	assert.Equal(t, "UTR-1", data["utr"])
}

func TestTrigger_ValidationError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"zero amount", strings.Replace(triggerBody, "1500.5", "0", 1)},
		{"bad ifsc", strings.Replace(triggerBody, "HDFC0001234", "HDFC1234", 1)},
		{"not json", `amount=5`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			h := NewPayoutHandler(mocks.NewMockEventDispatcher(ctrl), mocks.NewMockReportingService(ctrl))

			c, w := newContext(http.MethodPost, "/api/v1/payouts/trigger", tt.body)
			h.Trigger(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, apperror.CodeValidation, decodeBody(t, w)["error_code"])
		})
	}
}

func TestTrigger_ServiceErrors(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{apperror.ErrPayoutInProgress(), http.StatusConflict},
		{apperror.ErrTriggerNotReady("Draft"), http.StatusUnprocessableEntity},
		{apperror.ErrTransferCreation(errors.New("timeout")), http.StatusBadGateway},
		{errors.New("unclassified"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			dispatcher := mocks.NewMockEventDispatcher(ctrl)
			h := NewPayoutHandler(dispatcher, mocks.NewMockReportingService(ctrl))
			dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			c, w := newContext(http.MethodPost, "/api/v1/payouts/trigger", triggerBody)
			h.Trigger(c)

			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestList_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	reporting := mocks.NewMockReportingService(ctrl)
	h := NewPayoutHandler(mocks.NewMockEventDispatcher(ctrl), reporting)

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	reporting.EXPECT().ListPayouts(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p ports.PayoutListParams) ([]domain.PayoutRecord, int64, error) {
		require.NotNil(t, p.Status)
		assert.Equal(t, domain.StatusPending, *p.Status)
		require.NotNil(t, p.From)
		assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), *p.From)
		assert.Equal(t, 2, p.Page)
		return []domain.PayoutRecord{{
			RequestID: "PR-1",
			Amount:    decimal.RequireFromString("99.5"),
			Outcome:   domain.PayoutOutcome{Status: domain.StatusPending},
			CreatedAt: now,
			UpdatedAt: now,
		}}, int64(21), nil
	})

	c, w := newContext(http.MethodGet, "/api/v1/payouts?status=pending&from=2024-05-01&page=2&page_size=10", "")
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	items := resp["data"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "99.50", items[0].(map[string]interface{})["amount"])
	meta := resp["meta"].(map[string]interface{})
	assert.Equal(t, float64(21), meta["total"])
	assert.Equal(t, float64(3), meta["total_pages"])
}

func TestList_InvalidFilters(t *testing.T) {
	for _, query := range []string{"status=settled", "from=last-week"} {
		ctrl := gomock.NewController(t)
		h := NewPayoutHandler(mocks.NewMockEventDispatcher(ctrl), mocks.NewMockReportingService(ctrl))

		c, w := newContext(http.MethodGet, "/api/v1/payouts?"+query, "")
		h.List(c)

		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

func TestGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	reporting := mocks.NewMockReportingService(ctrl)
	h := NewPayoutHandler(mocks.NewMockEventDispatcher(ctrl), reporting)

	reporting.EXPECT().GetPayout(gomock.Any(), "PR-404").Return(nil, apperror.ErrNotFound("Payout"))

	c, w := newContext(http.MethodGet, "/api/v1/payouts/PR-404", "")
	c.Params = gin.Params{{Key: "request_id", Value: "PR-404"}}
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperror.CodeNotFound, decodeBody(t, w)["error_code"])
}

func TestAudit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	reporting := mocks.NewMockReportingService(ctrl)
	h := NewPayoutHandler(mocks.NewMockEventDispatcher(ctrl), reporting)

	reporting.EXPECT().AuditTrail(gomock.Any(), "PR-1").Return([]domain.AuditEntry{{
		ID:              uuid.New(),
		RequestID:       "PR-1",
		Category:        domain.AuditTransferCreate,
		Outcome:         domain.AuditOutcomeCreated,
		ResponsePayload: json.RawMessage(`{"status_code":200}`),
		CreatedAt:       time.Now(),
	}}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/payouts/PR-1/audit", "")
	c.Params = gin.Params{{Key: "request_id", Value: "PR-1"}}
	h.Audit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	items := decodeBody(t, w)["data"].([]interface{})
	require.Len(t, items, 1)
	entry := items[0].(map[string]interface{})
	assert.Equal(t, "transfer_create", entry["category"])
	assert.Equal(t, float64(200), entry["response_payload"].(map[string]interface{})["status_code"])
}

// --- Webhook Handler Tests ---

func TestWebhook_Applied(t *testing.T) {
	ctrl := gomock.NewController(t)
	dispatcher := mocks.NewMockEventDispatcher(ctrl)
	h := NewWebhookHandler(dispatcher, testLogger())

	dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, ev domain.Event) (*ports.Result, error) {
		n := ev.(domain.TransferNotification)
		assert.Equal(t, "PR-1", n.TransferID)
		assert.Equal(t, "98765", n.RemoteTransferID)
		assert.Equal(t, "SUCCESS", n.RawStatus)
		assert.Equal(t, "UTR-1", n.UTR)
		assert.Equal(t, domain.SourceWebhook, n.Source)
		return &ports.Result{RequestID: "PR-1", Disposition: ports.DispositionApplied}, nil
	})

	body := `{"type":"TRANSFER_SUCCESS","data":{"transfer_id":"PR-1","cf_transfer_id":98765,"transfer_utr":"UTR-1"}}`
	c, w := newContext(http.MethodPost, "/api/v1/webhooks/cashfree", body)
	h.Receive(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "applied", data["disposition"])
}

func TestWebhook_UnknownTransferAcknowledged(t *testing.T) {
	ctrl := gomock.NewController(t)
	dispatcher := mocks.NewMockEventDispatcher(ctrl)
	h := NewWebhookHandler(dispatcher, testLogger())

	dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(&ports.Result{Disposition: ports.DispositionIgnored}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/webhooks/cashfree", `{"transfer_id":"PR-X","status":"SUCCESS"}`)
	h.Receive(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ignored", decodeBody(t, w)["data"].(map[string]interface{})["disposition"])
}

func TestWebhook_BadPayloads(t *testing.T) {
	for _, body := range []string{`not json`, `{"status":"SUCCESS"}`, `{"transfer_id":"PR-1"}`} {
		ctrl := gomock.NewController(t)
		h := NewWebhookHandler(mocks.NewMockEventDispatcher(ctrl), testLogger())

		c, w := newContext(http.MethodPost, "/api/v1/webhooks/cashfree", body)
		h.Receive(c)

		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestWebhook_StorageFailureIsRetryable(t *testing.T) {
	ctrl := gomock.NewController(t)
	dispatcher := mocks.NewMockEventDispatcher(ctrl)
	h := NewWebhookHandler(dispatcher, testLogger())

	dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrDatabaseError(errors.New("conn refused")))

	c, w := newContext(http.MethodPost, "/api/v1/webhooks/cashfree", `{"transfer_id":"PR-1","status":"SUCCESS"}`)
	h.Receive(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// --- Health & Docs ---

func TestHealthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	pg := mocks.NewMockHealthChecker(ctrl)
	rd := mocks.NewMockHealthChecker(ctrl)
	pg.EXPECT().Name().Return("postgresql").AnyTimes()
	rd.EXPECT().Name().Return("redis").AnyTimes()
	pg.EXPECT().Ping(gomock.Any()).Return(nil)
	rd.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))

	c, w := newContext(http.MethodGet, "/health", "")
	HealthCheck(pg, rd)(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "degraded", resp["status"])
	deps := resp["dependencies"].(map[string]interface{})
	assert.Equal(t, "healthy", deps["postgresql"].(map[string]interface{})["status"])
	assert.Equal(t, "unhealthy", deps["redis"].(map[string]interface{})["status"])
}

func TestSwagger(t *testing.T) {
	c, w := newContext(http.MethodGet, "/swagger", "")
	SwaggerUI(c)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "/swagger/spec")

	c, w = newContext(http.MethodGet, "/swagger/spec", "")
	spec := SwaggerSpec([]byte("openapi: 3.0.3\n"))
	spec(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("openapi")))
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	c, w = newContext(http.MethodGet, "/swagger/spec", "")
	c.Request.Header.Set("If-None-Match", etag)
	spec(c)
	assert.Equal(t, http.StatusNotModified, c.Writer.Status())

	c, w = newContext(http.MethodGet, "/swagger/spec", "")
	SwaggerSpec(nil)(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
