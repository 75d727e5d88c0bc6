package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"acquisition-console/internal/common/database"
	"acquisition-console/internal/common/logger"
	"acquisition-console/internal/common/metrics"
	"acquisition-console/internal/models"
)

const cacheKeyPrefix = "lookup"

// CachedSource keeps successful lookups in Redis for ttl. Cache errors are
// logged and bypassed.
type CachedSource struct {
	next   Source
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedSource(next Source, redis *database.RedisClient, ttl time.Duration, log logger.Logger) *CachedSource {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &CachedSource{next: next, redis: redis, ttl: ttl, logger: logger.Component(log, "lookup-cache")}
}

func (c *CachedSource) Competitors(ctx context.Context, company, industry string) ([]models.Competitor, error) {
	key := cacheKey(KindCompetitors, company, industry)

	var cached []models.Competitor
	if c.get(ctx, key, &cached) {
		metrics.LookupRequests.WithLabelValues(KindCompetitors, metrics.OutcomeCached).Inc()
		return cached, nil
	}

	found, err := c.next.Competitors(ctx, company, industry)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, found)
	return found, nil
}

func (c *CachedSource) AcquisitionTargets(ctx context.Context, acquirer string) ([]models.Acquisition, error) {
	key := cacheKey(KindAcquisitions, acquirer)

	var cached []models.Acquisition
	if c.get(ctx, key, &cached) {
		metrics.LookupRequests.WithLabelValues(KindAcquisitions, metrics.OutcomeCached).Inc()
		return cached, nil
	}

	found, err := c.next.AcquisitionTargets(ctx, acquirer)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, found)
	return found, nil
}

func (c *CachedSource) get(ctx context.Context, key string, dst interface{}) bool {
	err := c.redis.GetJSON(ctx, key, dst)
	if err == nil {
		return true
	}
	if !errors.Is(err, database.ErrCacheMiss) {
		c.logger.Warn("cache read failed", map[string]interface{}{"key": key, "error": err})
	}
	return false
}

func (c *CachedSource) set(ctx context.Context, key string, value interface{}) {
	if err := c.redis.SetJSON(ctx, key, value, c.ttl); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{"key": key, "error": err})
	}
}

func cacheKey(kind string, parts ...string) string {
	normalized := make([]string, len(parts))
	for i, p := range parts {
		normalized[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return fmt.Sprintf("%s:%s:%s", cacheKeyPrefix, kind, strings.Join(normalized, ":"))
}
