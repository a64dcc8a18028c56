package folder

import (
	"context"

	"github.com/fekuna/stockflow-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, f *model.Folder) error
	FindAll(ctx context.Context) ([]model.Folder, error)
	UpdateName(ctx context.Context, id int64, name string) (bool, error)
	// Delete removes the folder with its fields, products and values.
	Delete(ctx context.Context, id int64) (bool, error)
}
