package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"supplier-payout-gateway/internal/core/ports"
	"supplier-payout-gateway/pkg/apperror"
	"supplier-payout-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	HeaderWebhookSignature = "x-webhook-signature"
	HeaderWebhookTimestamp = "x-webhook-timestamp"

	// Timestamps above this are taken to be milliseconds.
	millisecondThreshold = 1_000_000_000_000
)

// WebhookOptions configures WebhookSignature.
type WebhookOptions struct {
	Secret           string
	RequireSignature bool
	Tolerance        time.Duration
	Now              func() time.Time
}

// WebhookSignature verifies base64(HMAC-SHA256(secret, timestamp + body))
// against the x-webhook-signature header. The body is restored for the
// next handler.
func WebhookSignature(sigSvc ports.SignatureService, opts WebhookOptions, log zerolog.Logger) gin.HandlerFunc {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				response.AbortError(c, apperror.New("VAL_001", "Request body too large", http.StatusRequestEntityTooLarge))
				return
			}
			response.AbortError(c, apperror.Validation("cannot read request body"))
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if !opts.RequireSignature {
			log.Debug().Msg("webhook signature check disabled")
			c.Next()
			return
		}

		signature := strings.TrimSpace(c.GetHeader(HeaderWebhookSignature))
		timestamp := strings.TrimSpace(c.GetHeader(HeaderWebhookTimestamp))
		if signature == "" || timestamp == "" {
			log.Warn().Str("client_ip", c.ClientIP()).Msg("webhook without signature headers")
			response.AbortError(c, apperror.ErrInvalidSignature())
			return
		}

		sentAt, err := parseWebhookTimestamp(timestamp)
		if err != nil {
			response.AbortError(c, apperror.ErrTimestampExpired())
			return
		}
		if drift := opts.Now().Sub(sentAt).Abs(); opts.Tolerance > 0 && drift > opts.Tolerance {
			log.Warn().Dur("drift", drift).Msg("webhook timestamp outside tolerance")
			response.AbortError(c, apperror.ErrTimestampExpired())
			return
		}

		if !sigSvc.Verify(opts.Secret, sigSvc.WebhookPayload(timestamp, body), signature) {
			log.Warn().Str("client_ip", c.ClientIP()).Msg("webhook signature mismatch")
			response.AbortError(c, apperror.ErrInvalidSignature())
			return
		}

		c.Next()
	}
}

// parseWebhookTimestamp accepts unix seconds or milliseconds.
func parseWebhookTimestamp(s string) (time.Time, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	if v > millisecondThreshold {
		return time.UnixMilli(v), nil
	}
	return time.Unix(v, 0), nil
}
