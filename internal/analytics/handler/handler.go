package handler

import (
	"net/http"

	"github.com/fekuna/stockflow-service/internal/analytics"
	"github.com/fekuna/stockflow-service/internal/httpjson"
	"github.com/fekuna/stockflow-service/internal/logger"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	uc     analytics.UseCase
	logger logger.ZapLogger
}

func NewAnalyticsHandler(uc analytics.UseCase, log logger.ZapLogger) *AnalyticsHandler {
	return &AnalyticsHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *AnalyticsHandler) GlobalMetrics(w http.ResponseWriter, r *http.Request) {
	names, err := h.uc.GlobalMetricNames(r.Context())
	if err != nil {
		h.logger.Error("failed to list metrics", zap.Error(err))
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, names)
}

func (h *AnalyticsHandler) GlobalData(w http.ResponseWriter, r *http.Request) {
	series, err := h.uc.GlobalMetricSeries(r.Context(), r.URL.Query().Get("metric"))
	if err != nil {
		h.logger.Error("failed to build metric series", zap.Error(err))
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, series)
}

func (h *AnalyticsHandler) FolderMetrics(w http.ResponseWriter, r *http.Request) {
	folderID, err := httpjson.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	names, err := h.uc.FolderMetricNames(r.Context(), folderID)
	if err != nil {
		h.logger.Error("failed to list folder metrics", zap.Int64("folder_id", folderID), zap.Error(err))
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, names)
}

func (h *AnalyticsHandler) FolderData(w http.ResponseWriter, r *http.Request) {
	folderID, err := httpjson.PathID(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	series, err := h.uc.FolderMetricSeries(r.Context(), folderID, r.URL.Query().Get("metric"))
	if err != nil {
		h.logger.Error("failed to build folder metric series", zap.Int64("folder_id", folderID), zap.Error(err))
		httpjson.Error(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, series)
}
