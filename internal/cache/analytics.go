package cache

import (
	"context"
	"strings"

	"github.com/fekuna/stockflow-service/internal/analytics"
	"github.com/fekuna/stockflow-service/internal/model"
)

type cachedAnalytics struct {
	next  analytics.UseCase
	cache *AnalyticsCache
}

// NewCachedAnalytics serves analytics reads from the cache, falling back to next.
func NewCachedAnalytics(next analytics.UseCase, c *AnalyticsCache) analytics.UseCase {
	return &cachedAnalytics{next: next, cache: c}
}

func (a *cachedAnalytics) GlobalMetricNames(ctx context.Context) ([]string, error) {
	return readThrough(ctx, a.cache, GlobalNamesKey(), func() ([]string, error) {
		return a.next.GlobalMetricNames(ctx)
	})
}

func (a *cachedAnalytics) FolderMetricNames(ctx context.Context, folderID int64) ([]string, error) {
	return readThrough(ctx, a.cache, FolderNamesKey(folderID), func() ([]string, error) {
		return a.next.FolderMetricNames(ctx, folderID)
	})
}

func (a *cachedAnalytics) GlobalMetricSeries(ctx context.Context, metric string) (*model.Series, error) {
	metric = strings.TrimSpace(metric)
	if metric == "" {
		return a.next.GlobalMetricSeries(ctx, metric)
	}
	return readThrough(ctx, a.cache, GlobalSeriesKey(metric), func() (*model.Series, error) {
		return a.next.GlobalMetricSeries(ctx, metric)
	})
}

func (a *cachedAnalytics) FolderMetricSeries(ctx context.Context, folderID int64, metric string) (*model.Series, error) {
	metric = strings.TrimSpace(metric)
	if metric == "" {
		return a.next.FolderMetricSeries(ctx, folderID, metric)
	}
	return readThrough(ctx, a.cache, FolderSeriesKey(folderID, metric), func() (*model.Series, error) {
		return a.next.FolderMetricSeries(ctx, folderID, metric)
	})
}

func readThrough[T any](ctx context.Context, c *AnalyticsCache, key string, load func() (T, error)) (T, error) {
	gen, ok := c.generation(ctx)
	if !ok {
		return load()
	}
	key = versioned(key, gen)

	var cached T
	if c.Get(ctx, key, &cached) {
		return cached, nil
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	c.Set(ctx, key, v)
	return v, nil
}
