package postgres

import (
	"context"
	"errors"
	"fmt"

	"supplier-payout-gateway/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// BankAccountRepo implements ports.BankAccountRepository.
type BankAccountRepo struct {
	pool Pool
}

// NewBankAccountRepo creates a new BankAccountRepo.
func NewBankAccountRepo(pool Pool) *BankAccountRepo {
	return &BankAccountRepo{pool: pool}
}

// GetContact returns the contact linked to the account, or nil if none is on file.
func (r *BankAccountRepo) GetContact(ctx context.Context, accountRef string) (*domain.Contact, error) {
	query := `SELECT contact_email, contact_phone FROM bank_accounts WHERE account_ref = $1`

	c := &domain.Contact{}
	err := r.pool.QueryRow(ctx, query, accountRef).Scan(&c.Email, &c.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account contact: %w", err)
	}
	if c.Email == "" && c.Phone == "" {
		return nil, nil
	}
	return c, nil
}

// SaveBeneficiaryID stores the confirmed beneficiary id against the account.
func (r *BankAccountRepo) SaveBeneficiaryID(ctx context.Context, accountRef, beneficiaryID string) error {
	query := `INSERT INTO bank_accounts (account_ref, beneficiary_id, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (account_ref) DO UPDATE
		SET beneficiary_id = EXCLUDED.beneficiary_id, updated_at = EXCLUDED.updated_at`

	if _, err := r.pool.Exec(ctx, query, accountRef, beneficiaryID); err != nil {
		return fmt.Errorf("save beneficiary id: %w", err)
	}
	return nil
}
