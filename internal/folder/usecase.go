package folder

import (
	"context"

	"github.com/fekuna/stockflow-service/internal/folder/dto"
	"github.com/fekuna/stockflow-service/internal/model"
)

type UseCase interface {
	ListFolders(ctx context.Context) ([]model.Folder, error)
	CreateFolder(ctx context.Context, input *dto.CreateFolderInput) (*model.Folder, error)
	RenameFolder(ctx context.Context, input *dto.RenameFolderInput) (*model.Folder, error)
	DeleteFolder(ctx context.Context, id int64) error
}
