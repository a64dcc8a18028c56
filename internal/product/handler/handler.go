package handler

import (
	"net/http"

	"github.com/fekuna/stockflow-service/internal/httpjson"
	"github.com/fekuna/stockflow-service/internal/logger"
	"github.com/fekuna/stockflow-service/internal/product"
	"github.com/fekuna/stockflow-service/internal/product/dto"
	"go.uber.org/zap"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	folderID, err := httpjson.QueryID(r, "folder_id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	products, err := h.uc.ListProducts(r.Context(), folderID)
	if err != nil {
		h.logger.Error("failed to list products", zap.Int64("folder_id", folderID), zap.Error(err))
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, products)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in dto.CreateProductInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, err)
		return
	}
	if in.FolderID == 0 && r.URL.Query().Has("folder_id") {
		id, err := httpjson.QueryID(r, "folder_id")
		if err != nil {
			httpjson.Error(w, err)
			return
		}
		in.FolderID = id
	}

	p, err := h.uc.CreateProduct(r.Context(), &in)
	if err != nil {
		h.logger.Error("failed to create product", zap.Error(err))
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, p)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpjson.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	var in dto.UpdateProductInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, err)
		return
	}
	in.ID = id

	if _, err := h.uc.UpdateProduct(r.Context(), &in); err != nil {
		h.logger.Error("failed to update product", zap.Int64("product_id", id), zap.Error(err))
		httpjson.Error(w, err)
		return
	}
	httpjson.Message(w, "Product updated")
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpjson.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	if err := h.uc.DeleteProduct(r.Context(), id); err != nil {
		h.logger.Error("failed to delete product", zap.Int64("product_id", id), zap.Error(err))
		httpjson.Error(w, err)
		return
	}
	httpjson.Message(w, "Product deleted")
}
