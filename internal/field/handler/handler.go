package handler

import (
	"net/http"

	"github.com/fekuna/stockflow-service/internal/field"
	"github.com/fekuna/stockflow-service/internal/field/dto"
	"github.com/fekuna/stockflow-service/internal/httpjson"
	"github.com/fekuna/stockflow-service/internal/logger"
	"go.uber.org/zap"
)

type FieldHandler struct {
	uc     field.UseCase
	logger logger.ZapLogger
}

func NewFieldHandler(uc field.UseCase, log logger.ZapLogger) *FieldHandler {
	return &FieldHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *FieldHandler) List(w http.ResponseWriter, r *http.Request) {
	folderID, err := httpjson.QueryID(r, "folder_id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	fields, err := h.uc.ListFields(r.Context(), folderID)
	if err != nil {
		h.logger.Error("failed to list fields", zap.Int64("folder_id", folderID), zap.Error(err))
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, fields)
}

func (h *FieldHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in dto.CreateFieldInput
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

	f, err := h.uc.CreateField(r.Context(), &in)
	if err != nil {
		h.logger.Error("failed to create field", zap.Error(err))
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, f)
}

func (h *FieldHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := httpjson.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	var in dto.RenameFieldInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, err)
		return
	}
	in.ID = id

	if _, err := h.uc.RenameField(r.Context(), &in); err != nil {
		h.logger.Error("failed to rename field", zap.Int64("field_id", id), zap.Error(err))
		httpjson.Error(w, err)
		return
	}
	httpjson.Message(w, "Field updated")
}

func (h *FieldHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpjson.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	if err := h.uc.DeleteField(r.Context(), id); err != nil {
		h.logger.Error("failed to delete field", zap.Int64("field_id", id), zap.Error(err))
		httpjson.Error(w, err)
		return
	}
	httpjson.Message(w, "Field deleted")
}
