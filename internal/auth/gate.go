package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/fekuna/stockflow-service/internal/apperror"
	"github.com/fekuna/stockflow-service/internal/httpjson"
	"github.com/fekuna/stockflow-service/internal/logger"
	"github.com/fekuna/stockflow-service/internal/model"
	"go.uber.org/zap"
)

const bearerPrefix = "bearer "

type Validator interface {
	Validate(ctx context.Context, token string) (*model.Session, error)
}

// ExtractToken returns the token from an Authorization header value. The
// Bearer scheme is optional and matched case-insensitively.
func ExtractToken(header string) string {
	h := strings.TrimSpace(header)
	if strings.EqualFold(h, strings.TrimSpace(bearerPrefix)) {
		return ""
	}
	if len(h) >= len(bearerPrefix) && strings.EqualFold(h[:len(bearerPrefix)], bearerPrefix) {
		h = strings.TrimSpace(h[len(bearerPrefix):])
	}
	return h
}

// RequireSession rejects requests that do not carry a live session token.
func RequireSession(v Validator, log logger.ZapLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r.Header.Get("Authorization"))
			if token == "" {
				httpjson.Error(w, apperror.ErrAuthRequired)
				return
			}

			sess, err := v.Validate(r.Context(), token)
			if err != nil {
				log.Error("session validation failed", zap.Error(err))
				httpjson.Error(w, apperror.Store(err))
				return
			}
			if sess == nil {
				httpjson.Error(w, apperror.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}
