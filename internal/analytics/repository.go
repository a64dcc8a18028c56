package analytics

import (
	"context"

	"github.com/fekuna/stockflow-service/internal/model"
)

type Repository interface {
	GlobalMetricNames(ctx context.Context) ([]string, error)
	FolderMetricNames(ctx context.Context, folderID int64) ([]string, error)

	// GlobalMetricRows returns one row per (product, matching field), grouped by folder.
	GlobalMetricRows(ctx context.Context, metric string) ([]model.MetricRow, error)
	// FolderMetricRows returns one row per (product, matching field) of the folder.
	FolderMetricRows(ctx context.Context, folderID int64, metric string) ([]model.MetricRow, error)
}
