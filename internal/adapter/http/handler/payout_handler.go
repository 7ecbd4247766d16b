package handler

import (
	"strconv"
	"time"

	"supplier-payout-gateway/internal/adapter/http/dto"
	"supplier-payout-gateway/internal/core/domain"
	"supplier-payout-gateway/internal/core/ports"
	"supplier-payout-gateway/pkg/apperror"
	"supplier-payout-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PayoutHandler handles the operator payout endpoints.
type PayoutHandler struct {
	dispatcher ports.EventDispatcher
	reporting  ports.ReportingService
}

// NewPayoutHandler creates a new PayoutHandler.
func NewPayoutHandler(dispatcher ports.EventDispatcher, reporting ports.ReportingService) *PayoutHandler {
	return &PayoutHandler{dispatcher: dispatcher, reporting: reporting}
}

// Trigger handles POST /api/v1/payouts/trigger.
func (h *PayoutHandler) Trigger(c *gin.Context) {
	var req dto.TriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.TrimStrings(&req)

	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	result, err := h.dispatcher.Dispatch(c.Request.Context(), domain.TriggerEvent{
		RequestID:     req.RequestID,
		WorkflowState: req.WorkflowState,
		Amount:        amount,
		Remarks:       req.Remarks,
		TransferMode:  req.TransferMode,
		Beneficiary: domain.BeneficiarySource{
			AccountRef:          req.Beneficiary.AccountRef,
			PartyName:           req.Beneficiary.PartyName,
			AccountNumber:       req.Beneficiary.AccountNumber,
			IFSC:                req.Beneficiary.IFSC,
			StoredBeneficiaryID: req.Beneficiary.StoredBeneficiaryID,
			Verified:            req.Beneficiary.Verified,
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := toTriggerResponse(result)
	if result.Disposition == ports.DispositionCreated {
		response.Created(c, resp)
		return
	}
	response.OK(c, resp)
}

// List handles GET /api/v1/payouts.
func (h *PayoutHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	params := ports.PayoutListParams{Page: page, PageSize: pageSize}

	if s := c.Query("status"); s != "" {
		status, ok := domain.ParseInternalStatus(s)
		if !ok {
			response.Error(c, apperror.Validation("status must be one of PENDING, SUCCESS, FAILED, REVERSED, UNKNOWN"))
			return
		}
		params.Status = &status
	}
	for _, q := range []struct {
		name string
		dst  **time.Time
	}{{"from", &params.From}, {"to", &params.To}} {
		raw := c.Query(q.name)
		if raw == "" {
			continue
		}
		t, err := parseTimeParam(raw)
		if err != nil {
			response.Error(c, apperror.Validation(q.name+" must be RFC3339, YYYY-MM-DD or unix seconds"))
			return
		}
		*q.dst = &t
	}

	payouts, total, err := h.reporting.ListPayouts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.PayoutResponse, 0, len(payouts))
	for i := range payouts {
		items = append(items, toPayoutResponse(&payouts[i]))
	}
	page, pageSize = effectivePaging(page, pageSize)
	response.Page(c, items, page, pageSize, total)
}

// Get handles GET /api/v1/payouts/:request_id.
func (h *PayoutHandler) Get(c *gin.Context) {
	rec, err := h.reporting.GetPayout(c.Request.Context(), c.Param("request_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toPayoutResponse(rec))
}

// Audit handles GET /api/v1/payouts/:request_id/audit.
func (h *PayoutHandler) Audit(c *gin.Context) {
	entries, err := h.reporting.AuditTrail(c.Request.Context(), c.Param("request_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.AuditEntryResponse{
			ID:              e.ID.String(),
			Category:        string(e.Category),
			Outcome:         e.Outcome,
			RequestPayload:  e.RequestPayload,
			ResponsePayload: e.ResponsePayload,
			CreatedAt:       e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	response.OK(c, items)
}

func parseTimeParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	secs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(secs, 0).UTC(), nil
}

// effectivePaging mirrors the defaults the reporting service applies.
func effectivePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func toTriggerResponse(r *ports.Result) dto.TriggerResponse {
	resp := dto.TriggerResponse{
		RequestID:   r.RequestID,
		Disposition: string(r.Disposition),
		Status:      domain.StatusNone.String(),
	}
	if r.Outcome != nil {
		resp.TransferID = r.Outcome.RemoteTransferID
		resp.RawStatus = r.Outcome.RawStatus
		resp.Status = r.Outcome.Status.String()
		resp.UTR = r.Outcome.UTR
	}
	return resp
}

func toPayoutResponse(rec *domain.PayoutRecord) dto.PayoutResponse {
	return dto.PayoutResponse{
		RequestID:     rec.RequestID,
		AccountRef:    rec.AccountRef,
		PartyName:     rec.PartyName,
		Amount:        rec.Amount.StringFixed(2),
		TransferMode:  rec.TransferMode,
		Remarks:       rec.Remarks,
		BeneficiaryID: rec.BeneficiaryID,
		TransferID:    rec.Outcome.RemoteTransferID,
		RawStatus:     rec.Outcome.RawStatus,
		Status:        rec.Outcome.Status.String(),
		UTR:           rec.Outcome.UTR,
		FailureReason: rec.Outcome.FailureReason,
		CreatedAt:     rec.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     rec.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
