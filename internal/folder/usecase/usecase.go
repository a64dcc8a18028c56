package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/stockflow-service/internal/apperror"
	"github.com/fekuna/stockflow-service/internal/auth"
	"github.com/fekuna/stockflow-service/internal/events"
	"github.com/fekuna/stockflow-service/internal/folder"
	"github.com/fekuna/stockflow-service/internal/folder/dto"
	"github.com/fekuna/stockflow-service/internal/logger"
	"github.com/fekuna/stockflow-service/internal/model"
	"go.uber.org/zap"
)

type folderUseCase struct {
	repo      folder.Repository
	publisher events.Publisher
	logger    logger.ZapLogger
}

func NewFolderUseCase(repo folder.Repository, pub events.Publisher, log logger.ZapLogger) folder.UseCase {
	return &folderUseCase{
		repo:      repo,
		publisher: pub,
		logger:    log,
	}
}

func (uc *folderUseCase) ListFolders(ctx context.Context) ([]model.Folder, error) {
	folders, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, apperror.Store(err)
	}
	return folders, nil
}

func (uc *folderUseCase) CreateFolder(ctx context.Context, input *dto.CreateFolderInput) (*model.Folder, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}

	f := &model.Folder{Name: name}
	if err := uc.repo.Create(ctx, f); err != nil {
		return nil, apperror.Store(err)
	}

	uc.logger.Info("Folder created", zap.Int64("folder_id", f.ID), zap.String("by", auth.Username(ctx)))
	events.Emit(ctx, uc.publisher, uc.logger, events.New(events.FolderCreated, f.ID, f.ID))
	return f, nil
}

func (uc *folderUseCase) RenameFolder(ctx context.Context, input *dto.RenameFolderInput) (*model.Folder, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}

	ok, err := uc.repo.UpdateName(ctx, input.ID, name)
	if err != nil {
		return nil, apperror.Store(err)
	}
	if !ok {
		return nil, apperror.NotFound("folder %d not found", input.ID)
	}

	events.Emit(ctx, uc.publisher, uc.logger, events.New(events.FolderRenamed, input.ID, input.ID))
	return &model.Folder{ID: input.ID, Name: name}, nil
}

func (uc *folderUseCase) DeleteFolder(ctx context.Context, id int64) error {
	ok, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return apperror.Store(err)
	}
	if !ok {
		return apperror.NotFound("folder %d not found", id)
	}

	uc.logger.Info("Folder deleted", zap.Int64("folder_id", id), zap.String("by", auth.Username(ctx)))
	events.Emit(ctx, uc.publisher, uc.logger, events.New(events.FolderDeleted, id, id))
	return nil
}
