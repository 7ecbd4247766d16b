package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"supplier-payout-gateway/config"
	"supplier-payout-gateway/internal/core/domain"
	"supplier-payout-gateway/internal/core/ports"
	"supplier-payout-gateway/pkg/apperror"
	"supplier-payout-gateway/pkg/logger"

	"github.com/rs/zerolog"
)

const maxDisplayName = 100

// BeneficiaryResolver implements ports.BeneficiaryResolver.
type BeneficiaryResolver struct {
	gateway  ports.PayoutGateway
	accounts ports.BankAccountRepository
	audit    ports.AuditService
	policy   config.BeneficiaryConfig
	log      zerolog.Logger
}

// NewBeneficiaryResolver creates a new BeneficiaryResolver.
func NewBeneficiaryResolver(
	gateway ports.PayoutGateway,
	accounts ports.BankAccountRepository,
	audit ports.AuditService,
	policy config.BeneficiaryConfig,
	log zerolog.Logger,
) *BeneficiaryResolver {
	return &BeneficiaryResolver{
		gateway:  gateway,
		accounts: accounts,
		audit:    audit,
		policy:   policy,
		log:      logger.Component(log, "beneficiary"),
	}
}

// Resolve makes sure a beneficiary for src exists at the provider and
// returns its identity. Steps, stopping at the first hit:
//  1. the stored id, if any, is looked up
//  2. the derived id is looked up when it differs from the stored one
//  3. the derived id is registered; "already exists" counts as success
func (r *BeneficiaryResolver) Resolve(ctx context.Context, requestID string, src domain.BeneficiarySource) (*domain.BeneficiaryIdentity, error) {
	identity := &domain.BeneficiaryIdentity{
		ID:          src.DerivedID(),
		DisplayName: displayName(src.PartyName),
		Instrument: domain.Instrument{
			AccountNumber: strings.TrimSpace(src.AccountNumber),
			IFSC:          strings.ToUpper(strings.TrimSpace(src.IFSC)),
		},
	}
	log := r.log.With().Str("request_id", requestID).Str("account_ref", src.AccountRef).Logger()

	stored := strings.TrimSpace(src.StoredBeneficiaryID)
	if stored != "" {
		found, err := r.lookup(ctx, requestID, stored)
		if err != nil {
			return nil, err
		}
		if found {
			identity.ID = stored
			log.Debug().Str("beneficiary_id", stored).Msg("stored beneficiary confirmed")
			return identity, nil
		}
		log.Info().Str("beneficiary_id", stored).Msg("stored beneficiary missing at provider")
	}

	if identity.ID != stored {
		found, err := r.lookup(ctx, requestID, identity.ID)
		if err != nil {
			return nil, err
		}
		if found {
			r.persist(ctx, log, src.AccountRef, identity.ID)
			return identity, nil
		}
	}

	contact, err := r.contact(ctx, src.AccountRef)
	if err != nil {
		return nil, err
	}
	identity.Contact = *contact

	ex, err := r.gateway.CreateBeneficiary(ctx, ports.BeneficiaryCreate{
		BeneficiaryID: identity.ID,
		Name:          identity.DisplayName,
		Instrument:    identity.Instrument,
		Contact:       identity.Contact,
		CountryCode:   r.policy.CountryCode,
		Address:       r.policy.Address,
		City:          r.policy.City,
		State:         r.policy.State,
		PostalCode:    r.policy.PostalCode,
	})
	switch {
	case err == nil:
		r.audit.Record(ctx, ExchangeEntry(requestID, domain.AuditBeneficiaryCreate, ex, domain.AuditOutcomeCreated, nil))
		log.Info().Str("beneficiary_id", identity.ID).Msg("beneficiary created")
	case ports.IsConflict(err):
		r.audit.Record(ctx, ExchangeEntry(requestID, domain.AuditBeneficiaryCreate, ex, domain.AuditOutcomeExists, nil))
		log.Info().Str("beneficiary_id", identity.ID).Msg("beneficiary already exists")
	default:
		r.audit.Record(ctx, ExchangeEntry(requestID, domain.AuditBeneficiaryCreate, ex, domain.AuditOutcomeError, err))
		log.Error().Err(err).Str("beneficiary_id", identity.ID).Msg("beneficiary creation failed")
		return nil, remoteFailure(err, apperror.ErrBeneficiaryCreation)
	}

	r.persist(ctx, log, src.AccountRef, identity.ID)
	return identity, nil
}

// lookup reports whether the beneficiary exists. Anything but found or
// not-found aborts resolution.
func (r *BeneficiaryResolver) lookup(ctx context.Context, requestID, beneficiaryID string) (bool, error) {
	ex, err := r.gateway.GetBeneficiary(ctx, beneficiaryID)
	switch {
	case err == nil:
		r.audit.Record(ctx, ExchangeEntry(requestID, domain.AuditBeneficiaryLookup, ex, domain.AuditOutcomeFound, nil))
		return true, nil
	case ports.IsNotFound(err):
		r.audit.Record(ctx, ExchangeEntry(requestID, domain.AuditBeneficiaryLookup, ex, domain.AuditOutcomeNotFound, nil))
		return false, nil
	default:
		r.audit.Record(ctx, ExchangeEntry(requestID, domain.AuditBeneficiaryLookup, ex, domain.AuditOutcomeError, err))
		r.log.Error().Err(err).Str("request_id", requestID).Str("beneficiary_id", beneficiaryID).Msg("beneficiary lookup failed")
		return false, remoteFailure(err, apperror.ErrBeneficiaryLookup)
	}
}

// contact returns the account's contact, filled with placeholders where the
// policy allows it.
func (r *BeneficiaryResolver) contact(ctx context.Context, accountRef string) (*domain.Contact, error) {
	c, err := r.accounts.GetContact(ctx, accountRef)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get contact: %w", err))
	}
	if c == nil {
		c = &domain.Contact{}
	}

	out := domain.Contact{
		Email: strings.TrimSpace(c.Email),
		Phone: domain.DigitsOnly(c.Phone),
	}
	if out.Email != "" && out.Phone != "" {
		return &out, nil
	}
	if !r.policy.AllowPlaceholderContact {
		return nil, apperror.ErrIncompleteContact()
	}
	if out.Email == "" {
		out.Email = r.policy.PlaceholderEmail
	}
	if out.Phone == "" {
		out.Phone = domain.DigitsOnly(r.policy.PlaceholderPhone)
	}
	r.log.Warn().Str("account_ref", accountRef).Msg("using placeholder beneficiary contact")
	return &out, nil
}

func (r *BeneficiaryResolver) persist(ctx context.Context, log zerolog.Logger, accountRef, beneficiaryID string) {
	if err := r.accounts.SaveBeneficiaryID(ctx, accountRef, beneficiaryID); err != nil {
		log.Warn().Err(err).Str("beneficiary_id", beneficiaryID).Msg("failed to store beneficiary id")
	}
}

// remoteFailure keeps configuration and other classified errors as they are
// and wraps raw remote failures with wrap.
func remoteFailure(err error, wrap func(error) *apperror.AppError) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return wrap(err)
}

func displayName(party string) string {
	name := strings.Join(strings.Fields(party), " ")
	if runes := []rune(name); len(runes) > maxDisplayName {
		name = strings.TrimSpace(string(runes[:maxDisplayName]))
	}
	return name
}
