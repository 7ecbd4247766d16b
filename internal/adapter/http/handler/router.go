package handler

import (
	"supplier-payout-gateway/internal/adapter/http/middleware"
	redisStore "supplier-payout-gateway/internal/adapter/storage/redis"
	"supplier-payout-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Dispatcher     ports.EventDispatcher
	ReportingSvc   ports.ReportingService
	SigSvc         ports.SignatureService
	TokenSvc       ports.TokenService
	Webhook        middleware.WebhookOptions
	WebhookRate    int64                      // per client IP per minute; 0 = default
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	OpenAPISpec    []byte
	Mode           string
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	if deps.Mode != "" {
		gin.SetMode(deps.Mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(middleware.DefaultMaxBodyBytes))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec(deps.OpenAPISpec))
	}

	rules := middleware.DefaultRateLimitRules(deps.WebhookRate)
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rules[group], deps.Logger)
	}

	v1 := r.Group("/api/v1")

	// --- Provider notifications (HMAC signed) ---
	webhookHandler := NewWebhookHandler(deps.Dispatcher, deps.Logger)
	webhooks := v1.Group("/webhooks")
	{
		webhooks.POST("/cashfree", rl("webhooks"), middleware.WebhookSignature(deps.SigSvc, deps.Webhook, deps.Logger), webhookHandler.Receive)
	}

	// --- Operator routes (JWT) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	payoutHandler := NewPayoutHandler(deps.Dispatcher, deps.ReportingSvc)
	payouts := v1.Group("/payouts", jwtAuth)
	{
		payouts.POST("/trigger", rl("payouts_trigger"), payoutHandler.Trigger)
		payouts.GET("", rl("payouts_read"), payoutHandler.List)
		payouts.GET("/:request_id", rl("payouts_read"), payoutHandler.Get)
		payouts.GET("/:request_id/audit", rl("payouts_read"), payoutHandler.Audit)
	}

	return r
}
