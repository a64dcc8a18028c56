package analytics

import (
	"context"

	"github.com/fekuna/stockflow-service/internal/model"
)

type UseCase interface {
	GlobalMetricNames(ctx context.Context) ([]string, error)
	GlobalMetricSeries(ctx context.Context, metric string) (*model.Series, error)
	FolderMetricNames(ctx context.Context, folderID int64) ([]string, error)
	FolderMetricSeries(ctx context.Context, folderID int64, metric string) (*model.Series, error)
}
