package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"supplier-payout-gateway/internal/core/domain"
	"supplier-payout-gateway/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// memPayoutStore is an in-memory payout repository and ledger.
type memPayoutStore struct {
	mu      sync.Mutex
	records map[string]*domain.PayoutRecord
}

func newMemPayoutStore() *memPayoutStore {
	return &memPayoutStore{records: make(map[string]*domain.PayoutRecord)}
}

func (m *memPayoutStore) EnsureRequest(_ context.Context, rec *domain.PayoutRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[rec.RequestID]; ok {
		return false, nil
	}
	cp := *rec
	m.records[rec.RequestID] = &cp
	return true, nil
}

func (m *memPayoutStore) Get(_ context.Context, requestID string) (*domain.PayoutRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[requestID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *memPayoutStore) GetForUpdate(ctx context.Context, _ pgx.Tx, requestID string) (*domain.PayoutRecord, error) {
	return m.Get(ctx, requestID)
}

func (m *memPayoutStore) UpdateOutcome(_ context.Context, _ pgx.Tx, requestID string, outcome domain.PayoutOutcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[requestID].Outcome = outcome
	return nil
}

func (m *memPayoutStore) AttachBeneficiary(_ context.Context, requestID, beneficiaryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[requestID].BeneficiaryID = beneficiaryID
	return nil
}

func (m *memPayoutStore) FindByTransferRef(_ context.Context, transferID, remoteTransferID string) (*domain.PayoutRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.RequestID == transferID || (remoteTransferID != "" && rec.Outcome.RemoteTransferID == remoteTransferID) {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memPayoutStore) ListUnsettled(context.Context, time.Time, int) ([]domain.PayoutRecord, error) {
	return nil, nil
}

func (m *memPayoutStore) MarkPolled(context.Context, string, time.Time) error { return nil }

func (m *memPayoutStore) List(context.Context, ports.PayoutListParams) ([]domain.PayoutRecord, int64, error) {
	return nil, 0, nil
}

// ApplyOutcome serialises on the store mutex the way SELECT FOR UPDATE does.
func (m *memPayoutStore) ApplyOutcome(_ context.Context, requestID string, candidate domain.PayoutOutcome) (*ports.AppliedOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.records[requestID]
	next, tr := rec.Outcome.Advance(candidate)
	rec.Outcome = next
	return &ports.AppliedOutcome{Outcome: next, Transition: tr}, nil
}

type memLocker struct {
	mu   sync.Mutex
	held map[string]string
}

func newMemLocker() *memLocker { return &memLocker{held: make(map[string]string)} }

func (l *memLocker) Acquire(_ context.Context, key string, _ time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return "", false, nil
	}
	token := key + "#" + time.Now().String()
	l.held[key] = token
	return token, true, nil
}

func (l *memLocker) Release(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == token {
		delete(l.held, key)
	}
	return nil
}

type nopCache struct{}

func (nopCache) Get(context.Context, string) (*domain.PayoutOutcome, error) { return nil, nil }
func (nopCache) Set(context.Context, string, domain.PayoutOutcome, time.Duration) error {
	return nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, domain.OutcomeEvent) error { return nil }

type nopAudit struct{}

func (nopAudit) Record(context.Context, *domain.AuditEntry) {}

type staticResolver struct{}

func (staticResolver) Resolve(_ context.Context, _ string, src domain.BeneficiarySource) (*domain.BeneficiaryIdentity, error) {
	return &domain.BeneficiaryIdentity{ID: src.DerivedID(), DisplayName: src.PartyName}, nil
}

// countingGateway records transfer creations and blocks each one until
// release is closed.
type countingGateway struct {
	creates atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (g *countingGateway) GetBeneficiary(context.Context, string) (*ports.Exchange, error) {
	return &ports.Exchange{}, nil
}

func (g *countingGateway) CreateBeneficiary(context.Context, ports.BeneficiaryCreate) (*ports.Exchange, error) {
	return &ports.Exchange{}, nil
}

func (g *countingGateway) CreateTransfer(ctx context.Context, req ports.TransferCreate) (*ports.TransferStatus, *ports.Exchange, error) {
	g.creates.Add(1)
	select {
	case g.entered <- struct{}{}:
	default:
	}
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}
	return &ports.TransferStatus{TransferID: req.TransferID, RemoteTransferID: "CF-" + req.TransferID, Status: "QUEUED"}, &ports.Exchange{}, nil
}

func (g *countingGateway) GetTransfer(_ context.Context, transferID string) (*ports.TransferStatus, *ports.Exchange, error) {
	return &ports.TransferStatus{TransferID: transferID, RemoteTransferID: "CF-" + transferID, Status: "QUEUED"}, &ports.Exchange{}, nil
}
