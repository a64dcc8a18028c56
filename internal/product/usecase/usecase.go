package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/stockflow-service/internal/apperror"
	"github.com/fekuna/stockflow-service/internal/auth"
	"github.com/fekuna/stockflow-service/internal/events"
	"github.com/fekuna/stockflow-service/internal/logger"
	"github.com/fekuna/stockflow-service/internal/model"
	"github.com/fekuna/stockflow-service/internal/product"
	"github.com/fekuna/stockflow-service/internal/product/dto"
	"go.uber.org/zap"
)

type productUseCase struct {
	repo      product.Repository
	publisher events.Publisher
	logger    logger.ZapLogger
}

func NewProductUseCase(repo product.Repository, pub events.Publisher, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:      repo,
		publisher: pub,
		logger:    log,
	}
}

// ListProducts attaches every field of the folder to each product, with a
// nil value where nothing has been stored.
func (uc *productUseCase) ListProducts(ctx context.Context, folderID int64) ([]model.ProductWithValues, error) {
	products, values, err := uc.repo.FindByFolderWithValues(ctx, folderID)
	if err != nil {
		return nil, apperror.Store(err)
	}

	byProduct := make(map[int64][]model.ProductValue, len(products))
	for _, v := range values {
		byProduct[v.ProductID] = append(byProduct[v.ProductID], v)
	}

	out := make([]model.ProductWithValues, 0, len(products))
	for _, p := range products {
		vals := byProduct[p.ID]
		if vals == nil {
			vals = []model.ProductValue{}
		}
		out = append(out, model.ProductWithValues{Product: p, Values: vals})
	}
	return out, nil
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}
	if input.FolderID <= 0 {
		return nil, apperror.Validation("folder_id is required")
	}

	exists, err := uc.repo.FolderExists(ctx, input.FolderID)
	if err != nil {
		return nil, apperror.Store(err)
	}
	if !exists {
		return nil, apperror.NotFound("folder %d not found", input.FolderID)
	}

	values, err := input.Values.FieldValues(0)
	if err != nil {
		return nil, apperror.Validation("%s", err.Error())
	}
	if err := uc.checkFieldsBelong(ctx, input.FolderID, values); err != nil {
		return nil, err
	}

	p := &model.Product{FolderID: input.FolderID, Name: name}
	if err := uc.repo.Create(ctx, p, values); err != nil {
		return nil, apperror.Store(err)
	}

	uc.logger.Info("Product created",
		zap.Int64("product_id", p.ID),
		zap.Int64("folder_id", p.FolderID),
		zap.Int("values", len(values)),
		zap.String("by", auth.Username(ctx)),
	)
	events.Emit(ctx, uc.publisher, uc.logger, events.New(events.ProductCreated, p.ID, p.FolderID))
	return p, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	var name *string
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, apperror.Validation("name must not be empty")
		}
		name = &trimmed
	}

	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, apperror.Store(err)
	}
	if p == nil {
		return nil, apperror.NotFound("product %d not found", input.ID)
	}

	values, err := input.Values.FieldValues(p.ID)
	if err != nil {
		return nil, apperror.Validation("%s", err.Error())
	}
	if err := uc.checkFieldsBelong(ctx, p.FolderID, values); err != nil {
		return nil, err
	}

	ok, err := uc.repo.Update(ctx, p.ID, name, values)
	if err != nil {
		return nil, apperror.Store(err)
	}
	if !ok {
		return nil, apperror.NotFound("product %d not found", input.ID)
	}
	if name != nil {
		p.Name = *name
	}

	events.Emit(ctx, uc.publisher, uc.logger, events.New(events.ProductUpdated, p.ID, p.FolderID))
	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id int64) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return apperror.Store(err)
	}
	if p == nil {
		return apperror.NotFound("product %d not found", id)
	}

	ok, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return apperror.Store(err)
	}
	if !ok {
		return apperror.NotFound("product %d not found", id)
	}

	uc.logger.Info("Product deleted", zap.Int64("product_id", id), zap.String("by", auth.Username(ctx)))
	events.Emit(ctx, uc.publisher, uc.logger, events.New(events.ProductDeleted, id, p.FolderID))
	return nil
}

// checkFieldsBelong rejects values whose field is not part of folderID.
func (uc *productUseCase) checkFieldsBelong(ctx context.Context, folderID int64, values []model.FieldValue) error {
	if len(values) == 0 {
		return nil
	}

	ids, err := uc.repo.FieldIDsByFolder(ctx, folderID)
	if err != nil {
		return apperror.Store(err)
	}
	allowed := make(map[int64]bool, len(ids))
	for _, id := range ids {
		allowed[id] = true
	}

	for _, v := range values {
		if !allowed[v.FieldID] {
			return apperror.Validation("field %d does not belong to folder %d", v.FieldID, folderID)
		}
	}
	return nil
}
