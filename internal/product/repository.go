package product

import (
	"context"

	"github.com/fekuna/stockflow-service/internal/model"
)

type Repository interface {
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	// FindByFolderWithValues reads the folder's products and their densified
	// values in one transaction. Values are ordered by product id, then field id.
	FindByFolderWithValues(ctx context.Context, folderID int64) ([]model.Product, []model.ProductValue, error)

	Create(ctx context.Context, p *model.Product, values []model.FieldValue) error
	// Update renames when name is non-nil and upserts values. Values are never deleted.
	Update(ctx context.Context, id int64, name *string, values []model.FieldValue) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)

	FolderExists(ctx context.Context, folderID int64) (bool, error)
	FieldIDsByFolder(ctx context.Context, folderID int64) ([]int64, error)
}
