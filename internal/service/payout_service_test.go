package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"supplier-payout-gateway/config"
	"supplier-payout-gateway/internal/core/domain"
	"supplier-payout-gateway/internal/core/ports"
	"supplier-payout-gateway/internal/core/ports/mocks"
	"supplier-payout-gateway/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type payoutTestDeps struct {
	svc       *PayoutServiceImpl
	repo      *mocks.MockPayoutRepository
	resolver  *mocks.MockBeneficiaryResolver
	gateway   *mocks.MockPayoutGateway
	ledger    *mocks.MockOutcomeLedger
	locker    *mocks.MockPayoutLocker
	cache     *mocks.MockOutcomeCache
	publisher *mocks.MockOutcomePublisher
	audit     *mocks.MockAuditService
	audited   []*domain.AuditEntry
}

func testPayoutConfig() config.PayoutConfig {
	return config.PayoutConfig{
		TriggerStates:   []string{"queued", "Queue for Payout"},
		TransferMode:    "banktransfer",
		RemarksPrefix:   "TK",
		LockTTL:         2 * time.Minute,
		OutcomeCacheTTL: time.Hour,
	}
}

func setupPayoutService(t *testing.T) *payoutTestDeps {
	ctrl := gomock.NewController(t)
	d := &payoutTestDeps{
		repo:      mocks.NewMockPayoutRepository(ctrl),
		resolver:  mocks.NewMockBeneficiaryResolver(ctrl),
		gateway:   mocks.NewMockPayoutGateway(ctrl),
		ledger:    mocks.NewMockOutcomeLedger(ctrl),
		locker:    mocks.NewMockPayoutLocker(ctrl),
		cache:     mocks.NewMockOutcomeCache(ctrl),
		publisher: mocks.NewMockOutcomePublisher(ctrl),
		audit:     mocks.NewMockAuditService(ctrl),
	}
	d.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e *domain.AuditEntry) {
		d.audited = append(d.audited, e)
	}).AnyTimes()
	d.svc = NewPayoutService(d.repo, d.resolver, d.gateway, d.ledger, d.locker, d.cache, d.publisher, d.audit, testPayoutConfig(), zerolog.Nop())
	return d
}

func (d *payoutTestDeps) outcomes() []string {
	out := make([]string, 0, len(d.audited))
	for _, e := range d.audited {
		out = append(out, string(e.Category)+":"+e.Outcome)
	}
	return out
}

// expectFreshRequest covers the gate misses and the lock for a request that
// has never been paid.
func (d *payoutTestDeps) expectFreshRequest(requestID string) {
	d.cache.EXPECT().Get(gomock.Any(), requestID).Return(nil, nil)
	d.repo.EXPECT().Get(gomock.Any(), requestID).Return(nil, nil).Times(2)
	d.locker.EXPECT().Acquire(gomock.Any(), "payout:"+requestID, 2*time.Minute).Return("tok", true, nil)
	d.locker.EXPECT().Release(gomock.Any(), "payout:"+requestID, "tok").Return(nil)
}

func queuedEvent() domain.TriggerEvent {
	return domain.TriggerEvent{
		RequestID:     "PR-1001",
		WorkflowState: "Queued",
		Amount:        decimal.RequireFromString("1500.50"),
		Beneficiary:   verifiedSource(),
	}
}

func verifiedSource() domain.BeneficiarySource {
	src := redRockSource()
	src.Verified = true
	return src
}

func redRockIdentity() *domain.BeneficiaryIdentity {
	return &domain.BeneficiaryIdentity{ID: "BENE_Red_Rock_Enterprises_2439", DisplayName: "Red Rock Enterprises"}
}

func TestPayoutService_Trigger_CreatesTransfer(t *testing.T) {
	d := setupPayoutService(t)
	ctx := context.Background()
	ev := queuedEvent()

	d.expectFreshRequest("PR-1001")
	d.repo.EXPECT().EnsureRequest(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, rec *domain.PayoutRecord) (bool, error) {
		assert.Equal(t, "PR-1001", rec.RequestID)
		assert.Equal(t, "banktransfer", rec.TransferMode)
		assert.Equal(t, "TK PR1001", rec.Remarks)
		return true, nil
	})
	d.resolver.EXPECT().Resolve(gomock.Any(), "PR-1001", ev.Beneficiary).Return(redRockIdentity(), nil)
	d.repo.EXPECT().AttachBeneficiary(gomock.Any(), "PR-1001", "BENE_Red_Rock_Enterprises_2439").Return(nil)
	d.gateway.EXPECT().CreateTransfer(gomock.Any(), ports.TransferCreate{
		TransferID:    "PR-1001",
		BeneficiaryID: "BENE_Red_Rock_Enterprises_2439",
		Amount:        ev.Amount,
		Mode:          "banktransfer",
		Remarks:       "TK PR1001",
	}).Return(&ports.TransferStatus{TransferID: "PR-1001", RemoteTransferID: "CF-77", Status: "QUEUED"}, &ports.Exchange{StatusCode: 200}, nil)

	want := domain.PayoutOutcome{RemoteTransferID: "CF-77", RawStatus: "QUEUED", Status: domain.StatusPending}
	applied := &ports.AppliedOutcome{Outcome: want, Transition: domain.Transition{From: domain.StatusNone, To: domain.StatusPending, StatusChanged: true, Changed: true}}
	d.ledger.EXPECT().ApplyOutcome(gomock.Any(), "PR-1001", want).Return(applied, nil)
	d.cache.EXPECT().Set(gomock.Any(), "PR-1001", want, time.Hour).Return(nil)
	d.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, ev domain.OutcomeEvent) error {
		assert.Equal(t, "PR-1001", ev.RequestID)
		assert.Equal(t, domain.StatusNone, ev.Previous)
		assert.Equal(t, domain.SourceTransferCreate, ev.Source)
		return nil
	})

	res, err := d.svc.Trigger(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, ports.DispositionCreated, res.Disposition)
	assert.Equal(t, domain.StatusPending, res.Outcome.Status)
	assert.Empty(t, res.Outcome.UTR)
	assert.Equal(t, []string{"transfer_create:created"}, d.outcomes())
}

func TestPayoutService_Trigger_ExistingOutcomeFromCache(t *testing.T) {
	d := setupPayoutService(t)
	ev := queuedEvent()
	stored := &domain.PayoutOutcome{RemoteTransferID: "CF-77", RawStatus: "SUCCESS", Status: domain.StatusSuccess, UTR: "UTR1"}

	d.cache.EXPECT().Get(gomock.Any(), "PR-1001").Return(stored, nil)

	res, err := d.svc.Trigger(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, ports.DispositionExisting, res.Disposition)
	assert.Equal(t, stored, res.Outcome)
	assert.Empty(t, d.audited)
}

func TestPayoutService_Trigger_ExistingOutcomeFromDB(t *testing.T) {
	d := setupPayoutService(t)
	ev := queuedEvent()
	// An invalid amount must not matter once a transfer exists.
	ev.Amount = decimal.Zero
	rec := &domain.PayoutRecord{RequestID: "PR-1001", Outcome: domain.PayoutOutcome{RemoteTransferID: "CF-77", Status: domain.StatusPending}}

	d.cache.EXPECT().Get(gomock.Any(), "PR-1001").Return(nil, errors.New("redis down"))
	d.repo.EXPECT().Get(gomock.Any(), "PR-1001").Return(rec, nil)
	d.cache.EXPECT().Set(gomock.Any(), "PR-1001", rec.Outcome, time.Hour).Return(nil)

	res, err := d.svc.Trigger(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, ports.DispositionExisting, res.Disposition)
	assert.Equal(t, "CF-77", res.Outcome.RemoteTransferID)
}

func TestPayoutService_Trigger_NotReady(t *testing.T) {
	d := setupPayoutService(t)
	ev := queuedEvent()
	ev.WorkflowState = "Draft"

	_, err := d.svc.Trigger(context.Background(), ev)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeTriggerNotReady))
}

func TestPayoutService_Trigger_StateMatchIsCaseAndSpaceInsensitive(t *testing.T) {
	d := setupPayoutService(t)
	ev := queuedEvent()
	ev.WorkflowState = "  queue   FOR payout "

	d.cache.EXPECT().Get(gomock.Any(), "PR-1001").Return(&domain.PayoutOutcome{RemoteTransferID: "CF-77", Status: domain.StatusFailed}, nil)

	res, err := d.svc.Trigger(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, ports.DispositionExisting, res.Disposition)
}

func TestPayoutService_Trigger_OpenCachedOutcomeRereadFromDB(t *testing.T) {
	d := setupPayoutService(t)
	stale := &domain.PayoutOutcome{RemoteTransferID: "CF-77", RawStatus: "PENDING", Status: domain.StatusPending}
	rec := &domain.PayoutRecord{RequestID: "PR-1001", Outcome: domain.PayoutOutcome{
		RemoteTransferID: "CF-77", RawStatus: "SUCCESS", Status: domain.StatusSuccess, UTR: "UTR-5",
	}}

	d.cache.EXPECT().Get(gomock.Any(), "PR-1001").Return(stale, nil)
	d.repo.EXPECT().Get(gomock.Any(), "PR-1001").Return(rec, nil)
	d.cache.EXPECT().Set(gomock.Any(), "PR-1001", rec.Outcome, time.Hour).Return(nil)

	res, err := d.svc.Trigger(context.Background(), queuedEvent())
	require.NoError(t, err)
	assert.Equal(t, ports.DispositionExisting, res.Disposition)
	assert.Equal(t, domain.StatusSuccess, res.Outcome.Status)
	assert.Equal(t, "UTR-5", res.Outcome.UTR)
}

func TestPayoutService_Trigger_MissingRequestID(t *testing.T) {
	d := setupPayoutService(t)
	ev := queuedEvent()
	ev.RequestID = "  "

	_, err := d.svc.Trigger(context.Background(), ev)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestPayoutService_Trigger_ZeroAmount(t *testing.T) {
	d := setupPayoutService(t)
	ev := queuedEvent()
	ev.Amount = decimal.Zero

	d.cache.EXPECT().Get(gomock.Any(), "PR-1001").Return(nil, nil)
	d.repo.EXPECT().Get(gomock.Any(), "PR-1001").Return(nil, nil)

	_, err := d.svc.Trigger(context.Background(), ev)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidAmount))
	assert.Empty(t, d.audited)
}

func TestPayoutService_Trigger_SubPaiseAmountRejected(t *testing.T) {
	for _, amount := range []string{"0.004", "10.005"} {
		t.Run(amount, func(t *testing.T) {
			d := setupPayoutService(t)
			ev := queuedEvent()
			ev.Amount = decimal.RequireFromString(amount)

			d.cache.EXPECT().Get(gomock.Any(), "PR-1001").Return(nil, nil)
			d.repo.EXPECT().Get(gomock.Any(), "PR-1001").Return(nil, nil)

			_, err := d.svc.Trigger(context.Background(), ev)
			require.Error(t, err)
			assert.True(t, apperror.HasCode(err, apperror.CodeInvalidAmount))
			assert.Empty(t, d.audited)
		})
	}
}

func TestPayoutService_Trigger_MissingBeneficiaryData(t *testing.T) {
	d := setupPayoutService(t)
	ev := queuedEvent()
	ev.Beneficiary.IFSC = ""

	d.cache.EXPECT().Get(gomock.Any(), "PR-1001").Return(nil, nil)
	d.repo.EXPECT().Get(gomock.Any(), "PR-1001").Return(nil, nil)

	_, err := d.svc.Trigger(context.Background(), ev)
	assert.True(t, apperror.HasCode(err, apperror.CodeMissingBeneficiary))
}

func TestPayoutService_Trigger_UnverifiedAccountRejected(t *testing.T) {
	d := setupPayoutService(t)
	cfg := testPayoutConfig()
	cfg.RequireVerifiedAccount = true
	d.svc = NewPayoutService(d.repo, d.resolver, d.gateway, d.ledger, d.locker, d.cache, d.publisher, d.audit, cfg, zerolog.Nop())

	ev := queuedEvent()
	ev.Beneficiary.Verified = false

	d.cache.EXPECT().Get(gomock.Any(), "PR-1001").Return(nil, nil)
	d.repo.EXPECT().Get(gomock.Any(), "PR-1001").Return(nil, nil)

	_, err := d.svc.Trigger(context.Background(), ev)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeUnverifiedAccount))
	assert.Empty(t, d.audited)
}

func TestPayoutService_Trigger_VerifiedAccountProceeds(t *testing.T) {
	d := setupPayoutService(t)
	cfg := testPayoutConfig()
	cfg.RequireVerifiedAccount = true
	d.svc = NewPayoutService(d.repo, d.resolver, d.gateway, d.ledger, d.locker, d.cache, d.publisher, d.audit, cfg, zerolog.Nop())

	d.cache.EXPECT().Get(gomock.Any(), "PR-1001").Return(nil, nil)
	d.repo.EXPECT().Get(gomock.Any(), "PR-1001").Return(nil, nil)
	d.locker.EXPECT().Acquire(gomock.Any(), "payout:PR-1001", 2*time.Minute).Return("", false, nil)

	_, err := d.svc.Trigger(context.Background(), queuedEvent())
	assert.True(t, apperror.HasCode(err, apperror.CodePayoutInProgress))
}

func TestPayoutService_Trigger_LockHeld(t *testing.T) {
	d := setupPayoutService(t)

	d.cache.EXPECT().Get(gomock.Any(), "PR-1001").Return(nil, nil)
	d.repo.EXPECT().Get(gomock.Any(), "PR-1001").Return(nil, nil)
	d.locker.EXPECT().Acquire(gomock.Any(), "payout:PR-1001", 2*time.Minute).Return("", false, nil)

	_, err := d.svc.Trigger(context.Background(), queuedEvent())
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodePayoutInProgress))
}

func TestPayoutService_Trigger_RecheckAfterLock(t *testing.T) {
	d := setupPayoutService(t)
	rec := &domain.PayoutRecord{RequestID: "PR-1001", Outcome: domain.PayoutOutcome{RemoteTransferID: "CF-77", Status: domain.StatusPending}}

	d.cache.EXPECT().Get(gomock.Any(), "PR-1001").Return(nil, nil)
	gomock.InOrder(
		d.repo.EXPECT().Get(gomock.Any(), "PR-1001").Return(nil, nil),
		d.repo.EXPECT().Get(gomock.Any(), "PR-1001").Return(rec, nil),
	)
	d.locker.EXPECT().Acquire(gomock.Any(), "payout:PR-1001", gomock.Any()).Return("tok", true, nil)
	d.locker.EXPECT().Release(gomock.Any(), "payout:PR-1001", "tok").Return(nil)
	d.cache.EXPECT().Set(gomock.Any(), "PR-1001", rec.Outcome, time.Hour).Return(nil)

	res, err := d.svc.Trigger(context.Background(), queuedEvent())
	require.NoError(t, err)
	assert.Equal(t, ports.DispositionExisting, res.Disposition)
}

func TestPayoutService_Trigger_ConflictFetchesExistingTransfer(t *testing.T) {
	d := setupPayoutService(t)
	ev := queuedEvent()

	d.expectFreshRequest("PR-1001")
	d.repo.EXPECT().EnsureRequest(gomock.Any(), gomock.Any()).Return(false, nil)
	d.resolver.EXPECT().Resolve(gomock.Any(), "PR-1001", ev.Beneficiary).Return(redRockIdentity(), nil)
	d.repo.EXPECT().AttachBeneficiary(gomock.Any(), "PR-1001", gomock.Any()).Return(errors.New("db blip"))
	d.gateway.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).Return(nil, &ports.Exchange{StatusCode: 409}, remoteErr(http.StatusConflict))
	d.gateway.EXPECT().GetTransfer(gomock.Any(), "PR-1001").
		Return(&ports.TransferStatus{TransferID: "PR-1001", RemoteTransferID: "CF-77", Status: "SUCCESS", UTR: "UTR-9"}, &ports.Exchange{StatusCode: 200}, nil)

	want := domain.PayoutOutcome{RemoteTransferID: "CF-77", RawStatus: "SUCCESS", Status: domain.StatusSuccess, UTR: "UTR-9"}
	d.ledger.EXPECT().ApplyOutcome(gomock.Any(), "PR-1001", want).
		Return(&ports.AppliedOutcome{Outcome: want, Transition: domain.Transition{To: domain.StatusSuccess, Changed: true, StatusChanged: true}}, nil)
	d.cache.EXPECT().Set(gomock.Any(), "PR-1001", want, time.Hour).Return(errors.New("redis down"))
	d.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	res, err := d.svc.Trigger(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, ports.DispositionCreated, res.Disposition)
	assert.Equal(t, "UTR-9", res.Outcome.UTR)
	assert.Equal(t, []string{"transfer_create:already_exists", "transfer_create:created"}, d.outcomes())
}

func TestPayoutService_Trigger_TransferFailure(t *testing.T) {
	d := setupPayoutService(t)
	ev := queuedEvent()

	d.expectFreshRequest("PR-1001")
	d.repo.EXPECT().EnsureRequest(gomock.Any(), gomock.Any()).Return(true, nil)
	d.resolver.EXPECT().Resolve(gomock.Any(), "PR-1001", gomock.Any()).Return(redRockIdentity(), nil)
	d.repo.EXPECT().AttachBeneficiary(gomock.Any(), "PR-1001", gomock.Any()).Return(nil)
	d.gateway.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).Return(nil, &ports.Exchange{StatusCode: 422}, remoteErr(http.StatusUnprocessableEntity))

	_, err := d.svc.Trigger(context.Background(), ev)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeTransferCreation))
	assert.Equal(t, []string{"transfer_create:error"}, d.outcomes())
}

func TestPayoutService_Trigger_BeneficiaryFailureStopsBeforeTransfer(t *testing.T) {
	d := setupPayoutService(t)

	d.expectFreshRequest("PR-1001")
	d.repo.EXPECT().EnsureRequest(gomock.Any(), gomock.Any()).Return(true, nil)
	d.resolver.EXPECT().Resolve(gomock.Any(), "PR-1001", gomock.Any()).Return(nil, apperror.ErrIncompleteContact())

	_, err := d.svc.Trigger(context.Background(), queuedEvent())
	assert.True(t, apperror.HasCode(err, apperror.CodeIncompleteContact))
}

func TestPayoutService_Trigger_UnknownStatusRecordedAsUnknown(t *testing.T) {
	d := setupPayoutService(t)

	d.expectFreshRequest("PR-1001")
	d.repo.EXPECT().EnsureRequest(gomock.Any(), gomock.Any()).Return(true, nil)
	d.resolver.EXPECT().Resolve(gomock.Any(), "PR-1001", gomock.Any()).Return(redRockIdentity(), nil)
	d.repo.EXPECT().AttachBeneficiary(gomock.Any(), "PR-1001", gomock.Any()).Return(nil)
	d.gateway.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).Return(&ports.TransferStatus{Status: "MANUALLY_REVIEWED"}, &ports.Exchange{}, nil)

	want := domain.PayoutOutcome{RemoteTransferID: "PR-1001", RawStatus: "MANUALLY_REVIEWED", Status: domain.StatusUnknown}
	d.ledger.EXPECT().ApplyOutcome(gomock.Any(), "PR-1001", want).
		Return(&ports.AppliedOutcome{Outcome: want, Transition: domain.Transition{To: domain.StatusUnknown, Changed: true, StatusChanged: true}}, nil)
	d.cache.EXPECT().Set(gomock.Any(), "PR-1001", want, time.Hour).Return(nil)
	d.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	res, err := d.svc.Trigger(context.Background(), queuedEvent())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnknown, res.Outcome.Status)
}

func TestPayoutService_Trigger_LockUnavailableStillProceeds(t *testing.T) {
	d := setupPayoutService(t)
	ev := queuedEvent()
	ev.TransferMode = "IMPS"
	ev.Remarks = "Invoice #42 / March!"

	d.cache.EXPECT().Get(gomock.Any(), "PR-1001").Return(nil, nil)
	d.repo.EXPECT().Get(gomock.Any(), "PR-1001").Return(nil, nil).Times(2)
	d.locker.EXPECT().Acquire(gomock.Any(), "payout:PR-1001", gomock.Any()).Return("", false, errors.New("redis down"))
	d.repo.EXPECT().EnsureRequest(gomock.Any(), gomock.Any()).Return(true, nil)
	d.resolver.EXPECT().Resolve(gomock.Any(), "PR-1001", gomock.Any()).Return(redRockIdentity(), nil)
	d.repo.EXPECT().AttachBeneficiary(gomock.Any(), "PR-1001", gomock.Any()).Return(nil)
	d.gateway.EXPECT().CreateTransfer(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req ports.TransferCreate) (*ports.TransferStatus, *ports.Exchange, error) {
		assert.Equal(t, "imps", req.Mode)
		assert.Equal(t, "Invoice 42 March", req.Remarks)
		return &ports.TransferStatus{RemoteTransferID: "CF-1", Status: "RECEIVED"}, &ports.Exchange{}, nil
	})
	want := domain.PayoutOutcome{RemoteTransferID: "CF-1", RawStatus: "RECEIVED", Status: domain.StatusPending}
	d.ledger.EXPECT().ApplyOutcome(gomock.Any(), "PR-1001", want).Return(&ports.AppliedOutcome{Outcome: want}, nil)
	d.cache.EXPECT().Set(gomock.Any(), "PR-1001", want, time.Hour).Return(nil)

	res, err := d.svc.Trigger(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, ports.DispositionCreated, res.Disposition)
}

func TestSanitizeRemarks(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"TK PR-1001", "TK PR1001"},
		{"  multiple   spaces  ", "multiple spaces"},
		{"ünïcødé & symbols", "ncd symbols"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeRemarks(tt.in), tt.in)
	}

	long := sanitizeRemarks("ABCDEFGHIJ KLMNOPQRST UVWXYZ0123 456789ABCD EFGHIJKLMN OPQRSTUVWX YZ0123456789")
	assert.LessOrEqual(t, len(long), 70)
}
