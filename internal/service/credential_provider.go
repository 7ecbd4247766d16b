package service

import (
	"fmt"
	"strings"

	"supplier-payout-gateway/config"
	"supplier-payout-gateway/internal/core/ports"
	"supplier-payout-gateway/pkg/apperror"
)

// CredentialProvider implements ports.CredentialProvider from a config value
// built at start-up.
type CredentialProvider struct {
	cfg config.CashfreeConfig
}

// NewCredentialProvider creates a credential provider for the payout API.
func NewCredentialProvider(cfg config.CashfreeConfig) *CredentialProvider {
	return &CredentialProvider{cfg: cfg}
}

// Environment returns the configured default environment.
func (p *CredentialProvider) Environment() string {
	return p.cfg.Environment
}

// Headers returns the credentials for env. An empty env selects the default.
func (p *CredentialProvider) Headers(env string) (ports.APICredentials, error) {
	if _, err := p.resolveEnv(env); err != nil {
		return ports.APICredentials{}, err
	}
	if strings.TrimSpace(p.cfg.ClientID) == "" {
		return ports.APICredentials{}, apperror.ErrConfiguration("cashfree.client_id is not set")
	}
	if strings.TrimSpace(p.cfg.ClientSecret) == "" {
		return ports.APICredentials{}, apperror.ErrConfiguration("cashfree.client_secret is not set")
	}
	return ports.APICredentials{
		ClientID:     p.cfg.ClientID,
		ClientSecret: p.cfg.ClientSecret,
		APIVersion:   p.cfg.APIVersion,
		ContentType:  "application/json",
	}, nil
}

// BaseURL returns the API root for env without a trailing slash.
func (p *CredentialProvider) BaseURL(env string) (string, error) {
	env, err := p.resolveEnv(env)
	if err != nil {
		return "", err
	}

	base := p.cfg.SandboxURL
	if env == config.EnvProduction {
		base = p.cfg.ProductionURL
	}
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return "", apperror.ErrConfiguration(fmt.Sprintf("cashfree %s URL is not set", env))
	}
	return base, nil
}

func (p *CredentialProvider) resolveEnv(env string) (string, error) {
	if env == "" {
		env = p.cfg.Environment
	}
	switch env {
	case config.EnvSandbox, config.EnvProduction:
		return env, nil
	default:
		return "", apperror.ErrConfiguration(fmt.Sprintf("unknown cashfree environment %q", env))
	}
}
