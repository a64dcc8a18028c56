package field

import (
	"context"

	"github.com/fekuna/stockflow-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, f *model.Field) error
	FindByID(ctx context.Context, id int64) (*model.Field, error)
	FindByFolder(ctx context.Context, folderID int64) ([]model.Field, error)
	UpdateName(ctx context.Context, id int64, name string) (bool, error)
	// Delete removes the field and every value stored against it.
	Delete(ctx context.Context, id int64) (bool, error)
	FolderExists(ctx context.Context, folderID int64) (bool, error)
}
