package product

import (
	"context"

	"github.com/fekuna/stockflow-service/internal/model"
	"github.com/fekuna/stockflow-service/internal/product/dto"
)

type UseCase interface {
	ListProducts(ctx context.Context, folderID int64) ([]model.ProductWithValues, error)
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}
