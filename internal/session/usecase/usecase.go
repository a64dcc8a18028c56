package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/stockflow-service/internal/apperror"
	"github.com/fekuna/stockflow-service/internal/auth"
	"github.com/fekuna/stockflow-service/internal/logger"
	"github.com/fekuna/stockflow-service/internal/model"
	"github.com/fekuna/stockflow-service/internal/session"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultTTL = 7 * 24 * time.Hour

	tokenBytes = 32
)

// Compared against when the username is unknown so both failure paths cost
// one bcrypt verification.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

type sessionUseCase struct {
	repo   session.Repository
	ttl    time.Duration
	now    func() time.Time
	logger logger.ZapLogger
}

type Option func(*sessionUseCase)

func WithClock(now func() time.Time) Option {
	return func(uc *sessionUseCase) { uc.now = now }
}

func NewSessionUseCase(repo session.Repository, ttl time.Duration, log logger.ZapLogger, opts ...Option) session.UseCase {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	uc := &sessionUseCase{
		repo:   repo,
		ttl:    ttl,
		now:    time.Now,
		logger: log,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *sessionUseCase) clock() time.Time {
	return uc.now().UTC()
}

func (uc *sessionUseCase) Login(ctx context.Context, username, password string) (*model.Session, error) {
	if username == "" || password == "" {
		return nil, apperror.Validation("username and password are required")
	}

	user, err := uc.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, apperror.Store(err)
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, apperror.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	now := uc.clock()
	s := &model.Session{
		BaseModel: model.BaseModel{CreatedAt: now},
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: now.Add(uc.ttl),
		Username:  user.Username,
	}
	if err := uc.repo.CreateSession(ctx, s); err != nil {
		return nil, apperror.Store(err)
	}

	uc.logger.Info("Admin logged in", zap.String("username", user.Username), zap.Int64("session_id", s.ID))
	return s, nil
}

// Validate returns nil, nil for an empty, unknown or expired token.
func (uc *sessionUseCase) Validate(ctx context.Context, token string) (*model.Session, error) {
	token = auth.ExtractToken(token)
	if token == "" {
		return nil, nil
	}

	s, err := uc.repo.GetSessionByToken(ctx, token)
	if err != nil {
		return nil, apperror.Store(err)
	}
	if s == nil || s.Expired(uc.clock()) {
		return nil, nil
	}
	return s, nil
}

func (uc *sessionUseCase) Logout(ctx context.Context, token string) error {
	token = auth.ExtractToken(token)
	if token == "" {
		return nil
	}
	if err := uc.repo.DeleteSessionByToken(ctx, token); err != nil {
		return apperror.Store(err)
	}
	return nil
}

func (uc *sessionUseCase) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := uc.repo.DeleteExpiredSessions(ctx, uc.clock())
	if err != nil {
		return 0, apperror.Store(err)
	}
	return n, nil
}

// EnsureAdmin creates the account unless it already exists.
func (uc *sessionUseCase) CountAdmins(ctx context.Context) (int, error) {
	n, err := uc.repo.CountUsers(ctx)
	if err != nil {
		return 0, apperror.Store(err)
	}
	return n, nil
}

func (uc *sessionUseCase) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if err := validateCredentials(username, password); err != nil {
		return false, err
	}

	existing, err := uc.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return false, apperror.Store(err)
	}
	if existing != nil {
		return false, nil
	}

	if err := uc.createUser(ctx, username, password); err != nil {
		return false, err
	}
	return true, nil
}

// ResetPassword replaces the hash, creating the account when it is missing.
func (uc *sessionUseCase) ResetPassword(ctx context.Context, username, password string) (bool, error) {
	if err := validateCredentials(username, password); err != nil {
		return false, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return false, err
	}

	updated, err := uc.repo.UpdatePasswordHash(ctx, username, hash)
	if err != nil {
		return false, apperror.Store(err)
	}
	if updated {
		uc.logger.Info("Admin password reset", zap.String("username", username))
		return false, nil
	}

	if err := uc.createUser(ctx, username, password); err != nil {
		return false, err
	}
	return true, nil
}

func (uc *sessionUseCase) createUser(ctx context.Context, username, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	user := &model.AdminUser{
		BaseModel:    model.BaseModel{CreatedAt: uc.clock()},
		Username:     username,
		PasswordHash: hash,
	}
	if err := uc.repo.CreateUser(ctx, user); err != nil {
		return apperror.Store(err)
	}
	uc.logger.Info("Admin user created", zap.String("username", username), zap.Int64("user_id", user.ID))
	return nil
}

func validateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return apperror.Validation("username is required")
	}
	if password == "" {
		return apperror.Validation("password is required")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperror.Validation("password is too long")
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// newToken returns 256 bits from crypto/rand, base64url encoded.
func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
