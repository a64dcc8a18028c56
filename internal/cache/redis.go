package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fekuna/stockflow-service/internal/events"
	"github.com/fekuna/stockflow-service/internal/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix     = "analytics:"
	generationKey = keyPrefix + "gen"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings so misconfiguration shows up at startup.
func NewRedisClient(ctx context.Context, cfg *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func GlobalNamesKey() string {
	return keyPrefix + "names:global"
}

func FolderNamesKey(folderID int64) string {
	return keyPrefix + "names:folder:" + strconv.FormatInt(folderID, 10)
}

func GlobalSeriesKey(metric string) string {
	return keyPrefix + "global:" + metric
}

func FolderSeriesKey(folderID int64, metric string) string {
	return keyPrefix + "folder:" + strconv.FormatInt(folderID, 10) + ":" + metric
}

// AnalyticsCache stores JSON encoded analytics results. A nil client turns
// every call into a miss.
type AnalyticsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.ZapLogger
}

func NewAnalyticsCache(client *redis.Client, ttl time.Duration, log logger.ZapLogger) *AnalyticsCache {
	return &AnalyticsCache{
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

// Get decodes the cached value into dst and reports whether it was found.
func (c *AnalyticsCache) Get(ctx context.Context, key string, dst any) bool {
	if c.client == nil {
		return false
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("analytics cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		c.logger.Warn("analytics cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *AnalyticsCache) Set(ctx context.Context, key string, v any) {
	if c.client == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("analytics cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// generation returns the current cache generation. Entries are stored under
// keys carrying the generation they were read at, so bumping it retires every
// entry at once, including ones still being loaded. ok is false when the
// cache should be bypassed.
func (c *AnalyticsCache) generation(ctx context.Context) (gen int64, ok bool) {
	if c.client == nil {
		return 0, false
	}
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		c.logger.Warn("analytics cache read failed", zap.String("key", generationKey), zap.Error(err))
		return 0, false
	}
	return gen, true
}

func versioned(key string, gen int64) string {
	return key + "#" + strconv.FormatInt(gen, 10)
}

// Invalidate retires every analytics entry. Old entries are left to expire.
func (c *AnalyticsCache) Invalidate(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("bump analytics generation: %w", err)
	}
	return nil
}

// Publish lets the cache subscribe to catalog events: any change may alter
// any series, so everything is retired.
func (c *AnalyticsCache) Publish(ctx context.Context, ev events.Event) error {
	return c.Invalidate(ctx)
}

// Close is a no-op; the client is owned by the caller.
func (c *AnalyticsCache) Close() error { return nil }
