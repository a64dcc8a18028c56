package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/stockflow-service/internal/apperror"
	"github.com/fekuna/stockflow-service/internal/auth"
	"github.com/fekuna/stockflow-service/internal/events"
	"github.com/fekuna/stockflow-service/internal/field"
	"github.com/fekuna/stockflow-service/internal/field/dto"
	"github.com/fekuna/stockflow-service/internal/logger"
	"github.com/fekuna/stockflow-service/internal/model"
	"go.uber.org/zap"
)

type fieldUseCase struct {
	repo      field.Repository
	publisher events.Publisher
	logger    logger.ZapLogger
}

func NewFieldUseCase(repo field.Repository, pub events.Publisher, log logger.ZapLogger) field.UseCase {
	return &fieldUseCase{
		repo:      repo,
		publisher: pub,
		logger:    log,
	}
}

// ListFields returns an empty list for a folder that does not exist.
func (uc *fieldUseCase) ListFields(ctx context.Context, folderID int64) ([]model.Field, error) {
	fields, err := uc.repo.FindByFolder(ctx, folderID)
	if err != nil {
		return nil, apperror.Store(err)
	}
	return fields, nil
}

func (uc *fieldUseCase) CreateField(ctx context.Context, input *dto.CreateFieldInput) (*model.Field, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}
	if input.FolderID <= 0 {
		return nil, apperror.Validation("folder_id is required")
	}
	typ := model.FieldType(strings.ToLower(strings.TrimSpace(string(input.ResolvedType()))))
	if !typ.IsValid() {
		return nil, apperror.Validation("invalid field type %q", typ)
	}

	exists, err := uc.repo.FolderExists(ctx, input.FolderID)
	if err != nil {
		return nil, apperror.Store(err)
	}
	if !exists {
		return nil, apperror.NotFound("folder %d not found", input.FolderID)
	}

	f := &model.Field{
		FolderID:  input.FolderID,
		Name:      name,
		FieldType: typ,
	}
	if err := uc.repo.Create(ctx, f); err != nil {
		return nil, apperror.Store(err)
	}

	uc.logger.Info("Field created",
		zap.Int64("field_id", f.ID),
		zap.Int64("folder_id", f.FolderID),
		zap.String("type", string(f.FieldType)),
		zap.String("by", auth.Username(ctx)),
	)
	events.Emit(ctx, uc.publisher, uc.logger, events.New(events.FieldCreated, f.ID, f.FolderID))
	return f, nil
}

func (uc *fieldUseCase) RenameField(ctx context.Context, input *dto.RenameFieldInput) (*model.Field, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}

	f, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, apperror.Store(err)
	}
	if f == nil {
		return nil, apperror.NotFound("field %d not found", input.ID)
	}

	ok, err := uc.repo.UpdateName(ctx, input.ID, name)
	if err != nil {
		return nil, apperror.Store(err)
	}
	if !ok {
		return nil, apperror.NotFound("field %d not found", input.ID)
	}
	f.Name = name

	events.Emit(ctx, uc.publisher, uc.logger, events.New(events.FieldRenamed, f.ID, f.FolderID))
	return f, nil
}

func (uc *fieldUseCase) DeleteField(ctx context.Context, id int64) error {
	f, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return apperror.Store(err)
	}
	if f == nil {
		return apperror.NotFound("field %d not found", id)
	}

	ok, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return apperror.Store(err)
	}
	if !ok {
		return apperror.NotFound("field %d not found", id)
	}

	uc.logger.Info("Field deleted", zap.Int64("field_id", id), zap.String("by", auth.Username(ctx)))
	events.Emit(ctx, uc.publisher, uc.logger, events.New(events.FieldDeleted, id, f.FolderID))
	return nil
}
