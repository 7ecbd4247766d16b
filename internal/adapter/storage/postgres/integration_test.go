//go:build integration

package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"supplier-payout-gateway/config"
	"supplier-payout-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	pool, err := NewPool(ctx, config.DatabaseConfig{
		Host:     host,
		Port:     port.Int(),
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
		SSLMode:  "disable",
		MaxConns: 10,
		MinConns: 1,
	}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool, zerolog.Nop()))
	// A second run must be harmless.
	require.NoError(t, Migrate(ctx, pool, zerolog.Nop()))
	return pool
}

func TestIntegration_PayoutLifecycle(t *testing.T) {
	pool := setupDatabase(t)
	ctx := context.Background()
	repo := NewPayoutRepo(pool)
	tx := NewTransactor(pool)

	rec := &domain.PayoutRecord{
		RequestID:    "PR-INT-1",
		AccountRef:   "ACC-INT",
		PartyName:    "Red Rock Traders",
		Amount:       decimal.RequireFromString("1500.50"),
		TransferMode: "banktransfer",
	}

	created, err := repo.EnsureRequest(ctx, rec)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.EnsureRequest(ctx, rec)
	require.NoError(t, err)
	assert.False(t, created)

	require.NoError(t, repo.AttachBeneficiary(ctx, rec.RequestID, "BENE_Red_Rock_Traders_6789"))

	dbTx, err := tx.Begin(ctx)
	require.NoError(t, err)
	locked, err := repo.GetForUpdate(ctx, dbTx, rec.RequestID)
	require.NoError(t, err)
	require.NotNil(t, locked)
	assert.Equal(t, domain.StatusNone, locked.Outcome.Status)

	require.NoError(t, repo.UpdateOutcome(ctx, dbTx, rec.RequestID, domain.PayoutOutcome{
		RemoteTransferID: "CF-INT-1",
		RawStatus:        "PENDING",
		Status:           domain.StatusPending,
	}))
	require.NoError(t, dbTx.Commit(ctx))

	got, err := repo.Get(ctx, rec.RequestID)
	require.NoError(t, err)
	assert.True(t, rec.Amount.Equal(got.Amount))
	assert.Equal(t, "BENE_Red_Rock_Traders_6789", got.BeneficiaryID)
	assert.Equal(t, domain.StatusPending, got.Outcome.Status)

	byRemote, err := repo.FindByTransferRef(ctx, "", "CF-INT-1")
	require.NoError(t, err)
	require.NotNil(t, byRemote)
	assert.Equal(t, rec.RequestID, byRemote.RequestID)

	unsettled, err := repo.ListUnsettled(ctx, time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	assert.Len(t, unsettled, 1)

	// A recent poll hides the row from passes whose cutoff precedes it.
	polledAt := time.Now().Add(30 * time.Second)
	require.NoError(t, repo.MarkPolled(ctx, rec.RequestID, polledAt))

	unsettled, err = repo.ListUnsettled(ctx, time.Now().Add(20*time.Second), 10)
	require.NoError(t, err)
	assert.Empty(t, unsettled)

	unsettled, err = repo.ListUnsettled(ctx, polledAt.Add(time.Second), 10)
	require.NoError(t, err)
	assert.Len(t, unsettled, 1)
}

func TestIntegration_AuditLogIsAppendOnly(t *testing.T) {
	pool := setupDatabase(t)
	ctx := context.Background()
	audit := NewAuditRepo(pool)

	id := uuid.New()
	require.NoError(t, audit.Create(ctx, &domain.AuditEntry{
		ID:              id,
		RequestID:       "PR-INT-2",
		Category:        domain.AuditTransferCreate,
		RequestPayload:  json.RawMessage(`{"transfer_id":"PR-INT-2"}`),
		ResponsePayload: json.RawMessage(`"upstream timeout"`),
		Outcome:         domain.AuditOutcomeError,
		CreatedAt:       time.Now().UTC(),
	}))

	entries, err := audit.ListByRequest(ctx, "PR-INT-2")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = pool.Exec(ctx, `UPDATE payout_audit_log SET outcome = 'noop' WHERE id = $1`, id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append-only")
}

func TestIntegration_BankAccountBeneficiary(t *testing.T) {
	pool := setupDatabase(t)
	ctx := context.Background()
	accounts := NewBankAccountRepo(pool)

	c, err := accounts.GetContact(ctx, "ACC-NEW")
	require.NoError(t, err)
	assert.Nil(t, c)

	require.NoError(t, accounts.SaveBeneficiaryID(ctx, "ACC-NEW", "BENE_Blue_Sky_1234"))
	require.NoError(t, accounts.SaveBeneficiaryID(ctx, "ACC-NEW", "BENE_Blue_Sky_1234"))

	var stored string
	require.NoError(t, pool.QueryRow(ctx, `SELECT beneficiary_id FROM bank_accounts WHERE account_ref = $1`, "ACC-NEW").Scan(&stored))
	assert.Equal(t, "BENE_Blue_Sky_1234", stored)
}
