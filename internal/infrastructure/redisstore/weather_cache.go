package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/prbeaches/directory/api/internal/logging"
	"github.com/prbeaches/directory/api/internal/metrics"
	"github.com/prbeaches/directory/api/internal/public/domain"
)

// SnapshotSource is the provider a WeatherCache fronts.
type SnapshotSource interface {
	Snapshot(ctx context.Context, at domain.Coordinates) (domain.WeatherSnapshot, error)
}

// WeatherCache memoizes snapshots per rounded coordinate. Cache failures fall through to the
// provider; provider failures are never cached.
type WeatherCache struct {
	client *redis.Client
	next   SnapshotSource
	ttl    time.Duration
}

func NewWeatherCache(client *redis.Client, next SnapshotSource, ttl time.Duration) *WeatherCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &WeatherCache{client: client, next: next, ttl: ttl}
}

func (c *WeatherCache) Snapshot(ctx context.Context, at domain.Coordinates) (domain.WeatherSnapshot, error) {
	key := weatherKey(at)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var snap domain.WeatherSnapshot
		if err := json.Unmarshal(raw, &snap); err == nil {
			metrics.WeatherRequests.WithLabelValues("hit").Inc()
			return snap, nil
		}
		logging.Ctx(ctx).Warn().Str("key", key).Msg("discarding undecodable weather cache entry")
	case !errors.Is(err, redis.Nil):
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("weather cache read failed")
	}

	snap, err := c.next.Snapshot(ctx, at)
	if err != nil {
		return domain.WeatherSnapshot{}, err
	}
	if payload, err := json.Marshal(snap); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("weather cache write failed")
		}
	}
	return snap, nil
}

// weatherKey rounds to ~1 km so neighbouring beaches share an entry.
func weatherKey(at domain.Coordinates) string {
	return fmt.Sprintf("weather:%.2f:%.2f", at.Lat, at.Lng)
}
