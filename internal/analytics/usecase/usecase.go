package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/fekuna/stockflow-service/internal/analytics"
	"github.com/fekuna/stockflow-service/internal/apperror"
	"github.com/fekuna/stockflow-service/internal/logger"
	"github.com/fekuna/stockflow-service/internal/model"
	"go.uber.org/zap"
)

type analyticsUseCase struct {
	repo   analytics.Repository
	logger logger.ZapLogger
}

func NewAnalyticsUseCase(repo analytics.Repository, log logger.ZapLogger) analytics.UseCase {
	return &analyticsUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *analyticsUseCase) GlobalMetricNames(ctx context.Context) ([]string, error) {
	names, err := uc.repo.GlobalMetricNames(ctx)
	if err != nil {
		return nil, apperror.Store(err)
	}
	return sortedNames(names), nil
}

func (uc *analyticsUseCase) FolderMetricNames(ctx context.Context, folderID int64) ([]string, error) {
	names, err := uc.repo.FolderMetricNames(ctx, folderID)
	if err != nil {
		return nil, apperror.Store(err)
	}
	return sortedNames(names), nil
}

// GlobalMetricSeries sums the metric per folder. Fields are matched by name,
// so same-named numeric fields in different folders share one series.
func (uc *analyticsUseCase) GlobalMetricSeries(ctx context.Context, metric string) (*model.Series, error) {
	metric = strings.TrimSpace(metric)
	if metric == "" {
		return model.EmptySeries(), nil
	}

	rows, err := uc.repo.GlobalMetricRows(ctx, metric)
	if err != nil {
		return nil, apperror.Store(err)
	}

	series := model.EmptySeries()
	index := map[int64]int{}
	for _, row := range rows {
		v := parseCell(uc.logger, row)
		i, ok := index[row.GroupID]
		if !ok {
			i = len(series.Labels)
			index[row.GroupID] = i
			series.Labels = append(series.Labels, row.Label)
			series.Values = append(series.Values, 0)
		}
		series.Values[i] += v
		series.Total += v
	}
	return series, nil
}

// FolderMetricSeries reports each product as its own point.
func (uc *analyticsUseCase) FolderMetricSeries(ctx context.Context, folderID int64, metric string) (*model.Series, error) {
	metric = strings.TrimSpace(metric)
	if metric == "" {
		return model.EmptySeries(), nil
	}

	rows, err := uc.repo.FolderMetricRows(ctx, folderID, metric)
	if err != nil {
		return nil, apperror.Store(err)
	}

	series := model.EmptySeries()
	for _, row := range rows {
		v := parseCell(uc.logger, row)
		series.Labels = append(series.Labels, row.Label)
		series.Values = append(series.Values, v)
		series.Total += v
	}
	return series, nil
}

func parseCell(log logger.ZapLogger, row model.MetricRow) float64 {
	v, ok := analytics.ParseNumber(row.Value)
	if !ok {
		log.Debug("Treating malformed numeric cell as zero",
			zap.String("label", row.Label),
			zap.String("value", *row.Value),
		)
	}
	return v
}

func sortedNames(names []string) []string {
	out := make([]string, 0, len(names))
	out = append(out, names...)
	sort.Strings(out)
	return out
}
