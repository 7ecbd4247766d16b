package service

import (
	"context"

	"supplier-payout-gateway/internal/core/domain"
	"supplier-payout-gateway/internal/core/ports"
	"supplier-payout-gateway/pkg/apperror"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// reportingService implements ports.ReportingService.
type reportingService struct {
	payoutRepo ports.PayoutRepository
	auditRepo  ports.AuditRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(payoutRepo ports.PayoutRepository, auditRepo ports.AuditRepository) ports.ReportingService {
	return &reportingService{
		payoutRepo: payoutRepo,
		auditRepo:  auditRepo,
	}
}

// GetPayout returns a payout with its current outcome.
func (s *reportingService) GetPayout(ctx context.Context, requestID string) (*domain.PayoutRecord, error) {
	rec, err := s.payoutRepo.Get(ctx, requestID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if rec == nil {
		return nil, apperror.ErrNotFound("Payout")
	}
	return rec, nil
}

// ListPayouts returns a paginated list of payouts, newest first.
func (s *reportingService) ListPayouts(ctx context.Context, params ports.PayoutListParams) ([]domain.PayoutRecord, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = defaultPageSize
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}
	if params.From != nil && params.To != nil && params.To.Before(*params.From) {
		return nil, 0, apperror.Validation("to must not be before from")
	}

	payouts, total, err := s.payoutRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(err)
	}
	return payouts, total, nil
}

// AuditTrail returns every audit entry recorded for a request, oldest first.
func (s *reportingService) AuditTrail(ctx context.Context, requestID string) ([]domain.AuditEntry, error) {
	entries, err := s.auditRepo.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return entries, nil
}
