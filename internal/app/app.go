// Package app assembles the payout gateway object graph shared by the
// API server and the operator CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"supplier-payout-gateway/config"
	"supplier-payout-gateway/internal/adapter/cashfree"
	httpHandler "supplier-payout-gateway/internal/adapter/http/handler"
	"supplier-payout-gateway/internal/adapter/http/middleware"
	"supplier-payout-gateway/internal/adapter/messaging/kafka"
	pgStorage "supplier-payout-gateway/internal/adapter/storage/postgres"
	redisStorage "supplier-payout-gateway/internal/adapter/storage/redis"
	"supplier-payout-gateway/internal/core/ports"
	"supplier-payout-gateway/internal/service"
	"supplier-payout-gateway/internal/worker"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Infra is the set of connections the graph is built on.
type Infra struct {
	DB    pgStorage.Pool
	Redis goredis.UniversalClient
}

// App holds the wired services.
type App struct {
	Config     *config.Config
	Log        zerolog.Logger
	Gateway    ports.PayoutGateway
	Dispatcher *service.Dispatcher
	Reporting  ports.ReportingService
	Reconciler *worker.Reconciler
	// Consumer is nil when no Kafka brokers are configured.
	Consumer *kafka.TriggerConsumer

	infra     Infra
	rateStore *redisStorage.RateLimitStore
	sigSvc    ports.SignatureService
	tokenSvc  ports.TokenService
	closers   []func() error
}

// New connects to Postgres and Redis and builds the graph on top.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	a := Build(cfg, Infra{DB: pool, Redis: rdb}, log)
	infraClosers := []func() error{func() error { pool.Close(); return nil }, rdb.Close}
	a.closers = append(infraClosers, a.closers...)
	return a, nil
}

// Build wires every service over already open connections.
func Build(cfg *config.Config, infra Infra, log zerolog.Logger) *App {
	a := &App{Config: cfg, Log: log, infra: infra}

	payoutRepo := pgStorage.NewPayoutRepo(infra.DB)
	accountRepo := pgStorage.NewBankAccountRepo(infra.DB)
	auditRepo := pgStorage.NewAuditRepo(infra.DB)
	transactor := pgStorage.NewTransactor(infra.DB)

	cache := redisStorage.NewOutcomeCache(infra.Redis)
	locker := redisStorage.NewPayoutLocker(infra.Redis)
	a.rateStore = redisStorage.NewRateLimitStore(infra.Redis)

	a.Gateway = NewGateway(cfg, log)
	a.sigSvc = service.NewHMACSignatureService()
	a.tokenSvc = service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	var publisher ports.OutcomePublisher = kafka.NopPublisher{}
	if cfg.Kafka.Enabled() {
		p := kafka.NewOutcomePublisher(cfg.Kafka)
		publisher = p
		a.closers = append(a.closers, p.Close)
	}

	auditSvc := service.NewAuditService(auditRepo, log)
	ledger := service.NewOutcomeLedger(payoutRepo, transactor, log)
	resolver := service.NewBeneficiaryResolver(a.Gateway, accountRepo, auditSvc, cfg.Beneficiary, log)

	payouts := service.NewPayoutService(payoutRepo, resolver, a.Gateway, ledger, locker, cache, publisher, auditSvc, cfg.Payout, log)
	reconciliation := service.NewReconciliationService(payoutRepo, ledger, cache, publisher, auditSvc, cfg.Payout.OutcomeCacheTTL, log)

	a.Dispatcher = service.NewPayoutDispatcher(payouts, reconciliation, log)
	a.Reporting = service.NewReportingService(payoutRepo, auditRepo)
	a.Reconciler = worker.NewReconciler(payoutRepo, a.Gateway, a.Dispatcher, locker, auditSvc, cfg.Reconciler, log)

	if cfg.Kafka.Enabled() {
		a.Consumer = kafka.NewTriggerConsumer(cfg.Kafka, a.Dispatcher, log)
	}
	return a
}

// NewGateway builds the payout API client alone, for commands that need
// no storage.
func NewGateway(cfg *config.Config, log zerolog.Logger) *cashfree.Client {
	creds := service.NewCredentialProvider(cfg.Cashfree)
	return cashfree.NewClient(creds, cfg.Cashfree.Timeout, log)
}

// Handler returns the HTTP router. openAPISpec may be nil.
func (a *App) Handler(openAPISpec []byte) http.Handler {
	return httpHandler.SetupRouter(httpHandler.RouterDeps{
		Dispatcher:   a.Dispatcher,
		ReportingSvc: a.Reporting,
		SigSvc:       a.sigSvc,
		TokenSvc:     a.tokenSvc,
		Webhook: middleware.WebhookOptions{
			Secret:           a.Config.WebhookSecret(),
			RequireSignature: a.Config.Webhook.RequireSignature,
			Tolerance:        a.Config.Webhook.Tolerance,
		},
		WebhookRate:    a.Config.Webhook.RateLimit,
		RateLimitStore: a.rateStore,
		HealthCheckers: []ports.HealthChecker{
			pgStorage.NewHealthCheck(a.infra.DB),
			redisStorage.NewHealthCheck(a.infra.Redis),
		},
		OpenAPISpec: openAPISpec,
		Mode:        a.Config.Server.Mode,
		Logger:      a.Log,
	})
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
