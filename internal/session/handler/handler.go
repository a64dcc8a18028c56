package handler

import (
	"errors"
	"net/http"

	"github.com/fekuna/stockflow-service/internal/apperror"
	"github.com/fekuna/stockflow-service/internal/httpjson"
	"github.com/fekuna/stockflow-service/internal/logger"
	"github.com/fekuna/stockflow-service/internal/session"
	"github.com/fekuna/stockflow-service/internal/session/dto"
	"go.uber.org/zap"
)

type SessionHandler struct {
	uc     session.UseCase
	logger logger.ZapLogger
}

func NewSessionHandler(uc session.UseCase, log logger.ZapLogger) *SessionHandler {
	return &SessionHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in dto.LoginInput
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Error(w, err)
		return
	}

	s, err := h.uc.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		if errors.Is(err, apperror.ErrInvalidCredentials) {
			h.logger.Warn("failed login attempt", zap.String("username", in.Username))
		}
		httpjson.Error(w, err)
		return
	}

	httpjson.Write(w, http.StatusOK, dto.LoginResponse{
		Token:     s.Token,
		Username:  s.Username,
		ExpiresAt: s.ExpiresAt,
	})
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.Logout(r.Context(), r.Header.Get("Authorization")); err != nil {
		h.logger.Error("failed to delete session", zap.Error(err))
		httpjson.Error(w, err)
		return
	}
	httpjson.Message(w, "Logged out successfully")
}

func (h *SessionHandler) Verify(w http.ResponseWriter, r *http.Request) {
	s, err := h.uc.Validate(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	if s == nil {
		httpjson.Write(w, http.StatusOK, dto.VerifyResponse{Valid: false})
		return
	}

	httpjson.Write(w, http.StatusOK, dto.VerifyResponse{
		Valid:     true,
		Username:  s.Username,
		ExpiresAt: &s.ExpiresAt,
	})
}
