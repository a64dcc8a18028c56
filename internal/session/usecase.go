package session

import (
	"context"

	"github.com/fekuna/stockflow-service/internal/model"
)

type UseCase interface {
	Login(ctx context.Context, username, password string) (*model.Session, error)
	Validate(ctx context.Context, token string) (*model.Session, error)
	Logout(ctx context.Context, token string) error
	PurgeExpired(ctx context.Context) (int64, error)

	CountAdmins(ctx context.Context) (int, error)
	EnsureAdmin(ctx context.Context, username, password string) (bool, error)
	ResetPassword(ctx context.Context, username, password string) (bool, error)
}
