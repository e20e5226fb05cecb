// Package cache provides a read-through redis cache for public tracking
// lookups, the one read path hit by unauthenticated traffic.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"admissio/internal/admission/models"
	"admissio/internal/platform/metrics"
	"admissio/internal/platform/redis"
)

const keyPrefix = "tracking:"

// TrackingCache caches application snapshots keyed by tracking ID.
//
// The cache is strictly best-effort: every redis failure degrades to a miss
// and every write failure is logged and dropped. A nil *TrackingCache is
// valid and always misses, so callers need no redis-configured branch.
type TrackingCache struct {
	client  *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewTrackingCache(client *redis.Client, ttl time.Duration, logger *slog.Logger, m *metrics.Metrics) *TrackingCache {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TrackingCache{client: client, ttl: ttl, logger: logger, metrics: m}
}

// Get returns the cached application for trackingID, or (nil, false) on a
// miss or any redis error.
func (c *TrackingCache) Get(ctx context.Context, trackingID string) (*models.Application, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, keyPrefix+trackingID).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.logger.WarnContext(ctx, "tracking cache read failed",
				slog.String("tracking_id", trackingID), slog.Any("error", err))
		}
		c.metrics.CacheHit(false)
		return nil, false
	}

	var app models.Application
	if err := json.Unmarshal(raw, &app); err != nil {
		c.logger.WarnContext(ctx, "tracking cache entry corrupt",
			slog.String("tracking_id", trackingID), slog.Any("error", err))
		c.metrics.CacheHit(false)
		return nil, false
	}
	c.metrics.CacheHit(true)
	return &app, true
}

// Set stores an application snapshot under its tracking ID.
func (c *TrackingCache) Set(ctx context.Context, app *models.Application) {
	if c == nil || app.TrackingID == "" {
		return
	}
	payload, err := json.Marshal(app)
	if err != nil {
		c.logger.WarnContext(ctx, "tracking cache marshal failed", slog.Any("error", err))
		return
	}
	if err := c.client.Set(ctx, keyPrefix+app.TrackingID, payload, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "tracking cache write failed",
			slog.String("tracking_id", app.TrackingID), slog.Any("error", err))
	}
}

// Invalidate drops the cached snapshot after a status change so public
// lookups never serve a stale status past the TTL window.
func (c *TrackingCache) Invalidate(ctx context.Context, trackingID string) {
	if c == nil || trackingID == "" {
		return
	}
	if err := c.client.Del(ctx, keyPrefix+trackingID).Err(); err != nil {
		c.logger.WarnContext(ctx, "tracking cache invalidate failed",
			slog.String("tracking_id", trackingID), slog.Any("error", err))
	}
}
