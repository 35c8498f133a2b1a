package tier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Catalog is a read-through cache over the tier catalog. The catalog is
// static per billing period, so a short TTL is enough to keep every engine
// reading the same configuration without hitting Postgres per request.
// Works without Redis: a nil client falls back to the repository.
type Catalog struct {
	repo  Repository
	redis *redis.Client
	ttl   time.Duration
}

// NewCatalog creates a catalog cache
func NewCatalog(repo Repository, redisClient *redis.Client, ttl time.Duration) *Catalog {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Catalog{repo: repo, redis: redisClient, ttl: ttl}
}

func (c *Catalog) GetConfig(ctx context.Context, t Tier) (*Config, error) {
	if !t.IsValid() {
		return nil, ErrInvalidTier
	}

	key := "tier:config:" + string(t)
	if c.redis != nil {
		if raw, err := c.redis.Get(ctx, key).Bytes(); err == nil {
			var cfg Config
			if err := json.Unmarshal(raw, &cfg); err == nil {
				return &cfg, nil
			}
		}
	}

	cfg, err := c.repo.GetConfig(ctx, t)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, cfg)
	return cfg, nil
}

func (c *Catalog) ListConfigs(ctx context.Context) ([]*Config, error) {
	return c.repo.ListConfigs(ctx)
}

func (c *Catalog) GetGlobalDiscount(ctx context.Context) (*GlobalDiscount, error) {
	key := "tier:global_discount"
	if c.redis != nil {
		if raw, err := c.redis.Get(ctx, key).Bytes(); err == nil {
			var gd GlobalDiscount
			if err := json.Unmarshal(raw, &gd); err == nil {
				return &gd, nil
			}
		}
	}

	gd, err := c.repo.GetGlobalDiscount(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, gd)
	return gd, nil
}

// ProgressionThresholds returns ads_required_for_next_tier per tier.
// Tiers without a configured threshold (diamond) are absent from the map.
func (c *Catalog) ProgressionThresholds(ctx context.Context) (map[Tier]int64, error) {
	configs, err := c.repo.ListConfigs(ctx)
	if err != nil {
		return nil, err
	}

	thresholds := make(map[Tier]int64, len(configs))
	for _, cfg := range configs {
		if cfg.AdsRequiredForNextTier.Valid {
			thresholds[cfg.Tier] = cfg.AdsRequiredForNextTier.Int64
		}
	}
	return thresholds, nil
}

func (c *Catalog) store(ctx context.Context, key string, v interface{}) {
	if c.redis == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to cache tier catalog entry")
	}
}
