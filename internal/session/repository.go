package session

import (
	"context"
	"time"

	"github.com/fekuna/stockflow-service/internal/model"
)

type Repository interface {
	GetUserByUsername(ctx context.Context, username string) (*model.AdminUser, error)
	CreateUser(ctx context.Context, user *model.AdminUser) error
	UpdatePasswordHash(ctx context.Context, username, hash string) (bool, error)
	CountUsers(ctx context.Context) (int, error)

	CreateSession(ctx context.Context, s *model.Session) error
	GetSessionByToken(ctx context.Context, token string) (*model.Session, error)
	DeleteSessionByToken(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}
