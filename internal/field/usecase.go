package field

import (
	"context"

	"github.com/fekuna/stockflow-service/internal/field/dto"
	"github.com/fekuna/stockflow-service/internal/model"
)

type UseCase interface {
	ListFields(ctx context.Context, folderID int64) ([]model.Field, error)
	CreateField(ctx context.Context, input *dto.CreateFieldInput) (*model.Field, error)
	RenameField(ctx context.Context, input *dto.RenameFieldInput) (*model.Field, error)
	DeleteField(ctx context.Context, id int64) error
}
