package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"supplier-payout-gateway/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// OutcomeCache implements ports.OutcomeCache. It only short-circuits
// repeat triggers; the database row stays authoritative.
type OutcomeCache struct {
	client goredis.UniversalClient
	prefix string
}

// NewOutcomeCache creates a Redis-backed outcome cache.
func NewOutcomeCache(client goredis.UniversalClient) *OutcomeCache {
	return &OutcomeCache{
		client: client,
		prefix: "payout-outcome:",
	}
}

// Get returns the cached outcome for a request, or nil, nil on a miss.
func (c *OutcomeCache) Get(ctx context.Context, requestID string) (*domain.PayoutOutcome, error) {
	val, err := c.client.Get(ctx, c.prefix+requestID).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis outcome get: %w", err)
	}

	var o domain.PayoutOutcome
	if err := json.Unmarshal(val, &o); err != nil {
		return nil, fmt.Errorf("decode cached outcome: %w", err)
	}
	return &o, nil
}

// Set stores the outcome with a TTL.
func (c *OutcomeCache) Set(ctx context.Context, requestID string, outcome domain.PayoutOutcome, ttl time.Duration) error {
	val, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("encode outcome: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+requestID, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis outcome set: %w", err)
	}
	return nil
}
