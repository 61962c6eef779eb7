package dex

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dex-mcp-server/internal/logging"

	"github.com/redis/go-redis/v9"
)

// CachedClient is a read-through Redis cache in front of a Client.
// Only hot, token-independent read endpoints are cached; anything
// wallet-scoped or mutating always goes upstream.
type CachedClient struct {
	Client

	rdb    *redis.Client
	ttl    time.Duration
	logger logging.Logger
}

// NewCachedClient wraps inner with a Redis read-through cache
func NewCachedClient(inner Client, rdb *redis.Client, ttl time.Duration, logger logging.Logger) *CachedClient {
	return &CachedClient{
		Client: inner,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.WithComponent("dex-cache"),
	}
}

// cached fetches key from Redis or falls back to load, storing the
// result. Cache failures degrade to upstream calls, never to errors.
func cached[T any](ctx context.Context, c *CachedClient, key string, load func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if data, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var value T
		if err := json.Unmarshal(data, &value); err == nil {
			return value, nil
		}
		// Corrupt entry, drop it and fall through
		_ = c.rdb.Del(ctx, key).Err()
	} else if err != redis.Nil {
		c.logger.WarnContext(ctx, "cache read failed, going upstream", "key", key, "error", err.Error())
	}

	value, err := load(ctx)
	if err != nil {
		return zero, err
	}

	if data, err := json.Marshal(value); err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err.Error())
		}
	}

	return value, nil
}

func (c *CachedClient) GetTokenInfo(ctx context.Context, chain, address string) (*TokenInfo, error) {
	key := fmt.Sprintf("dex:token:%s:%s", chain, address)
	return cached(ctx, c, key, func(ctx context.Context) (*TokenInfo, error) {
		return c.Client.GetTokenInfo(ctx, chain, address)
	})
}

func (c *CachedClient) GetTokenSecurity(ctx context.Context, chain, address string) (*TokenSecurity, error) {
	key := fmt.Sprintf("dex:security:%s:%s", chain, address)
	return cached(ctx, c, key, func(ctx context.Context) (*TokenSecurity, error) {
		return c.Client.GetTokenSecurity(ctx, chain, address)
	})
}

func (c *CachedClient) GetTrendingTokens(ctx context.Context, chain, window string, limit int) ([]TrendingToken, error) {
	key := fmt.Sprintf("dex:trending:%s:%s:%d", chain, window, limit)
	return cached(ctx, c, key, func(ctx context.Context) ([]TrendingToken, error) {
		return c.Client.GetTrendingTokens(ctx, chain, window, limit)
	})
}

func (c *CachedClient) GetNewPairs(ctx context.Context, chain string, limit int) ([]Pair, error) {
	key := fmt.Sprintf("dex:newpairs:%s:%d", chain, limit)
	return cached(ctx, c, key, func(ctx context.Context) ([]Pair, error) {
		return c.Client.GetNewPairs(ctx, chain, limit)
	})
}

func (c *CachedClient) GetSmartMoneyRanking(ctx context.Context, chain, window string, limit int) ([]SmartMoneyEntry, error) {
	key := fmt.Sprintf("dex:smartmoney:%s:%s:%d", chain, window, limit)
	return cached(ctx, c, key, func(ctx context.Context) ([]SmartMoneyEntry, error) {
		return c.Client.GetSmartMoneyRanking(ctx, chain, window, limit)
	})
}
