package handler

import (
	"net/http"

	"github.com/fekuna/stockflow-service/internal/folder"
	"github.com/fekuna/stockflow-service/internal/folder/dto"
	"github.com/fekuna/stockflow-service/internal/httpjson"
	"github.com/fekuna/stockflow-service/internal/logger"
	"go.uber.org/zap"
)

type FolderHandler struct {
	uc     folder.UseCase
	logger logger.ZapLogger
}

func NewFolderHandler(uc folder.UseCase, log logger.ZapLogger) *FolderHandler {
	return &FolderHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	folders, err := h.uc.ListFolders(r.Context())
	if err != nil {
		h.logger.Error("failed to list folders", zap.Error(err))
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, folders)
}

func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in dto.CreateFolderInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, err)
		return
	}

	f, err := h.uc.CreateFolder(r.Context(), &in)
	if err != nil {
		h.logger.Error("failed to create folder", zap.Error(err))
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, f)
}

func (h *FolderHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := httpjson.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	var in dto.RenameFolderInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, err)
		return
	}
	in.ID = id

	if _, err := h.uc.RenameFolder(r.Context(), &in); err != nil {
		h.logger.Error("failed to rename folder", zap.Int64("folder_id", id), zap.Error(err))
		httpjson.Error(w, err)
		return
	}
	httpjson.Message(w, "Folder updated")
}

func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpjson.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	if err := h.uc.DeleteFolder(r.Context(), id); err != nil {
		h.logger.Error("failed to delete folder", zap.Int64("folder_id", id), zap.Error(err))
		httpjson.Error(w, err)
		return
	}
	httpjson.Message(w, "Folder deleted")
}
