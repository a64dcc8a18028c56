// Package setup holds the one-off maintenance flows run from the CLI:
// schema application, admin bootstrap and password reset.
package setup

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/fekuna/stockflow-service/internal/database"
	"github.com/fekuna/stockflow-service/internal/logger"
	"github.com/fekuna/stockflow-service/internal/session"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const generatedPasswordBytes = 18

type Result struct {
	Applied int
	Skipped int

	Username string
	// Password is only set when it was generated here and must be shown
	// to the operator once.
	Password string
	Created  bool
	// FirstRun is true when no admin account existed before this run.
	FirstRun bool
}

type Runner struct {
	db       *sqlx.DB
	driver   string
	sessions session.UseCase
	logger   logger.ZapLogger
}

func NewRunner(db *sqlx.DB, driver string, sessions session.UseCase, log logger.ZapLogger) *Runner {
	return &Runner{
		db:       db,
		driver:   driver,
		sessions: sessions,
		logger:   log,
	}
}

// Setup applies the schema and creates the admin account when it does not
// exist yet. An existing account keeps its password.
func (r *Runner) Setup(ctx context.Context, username, password string) (*Result, error) {
	applied, skipped, err := database.ApplySchema(ctx, r.db, r.driver, r.logger)
	if err != nil {
		return nil, err
	}
	res := &Result{Applied: applied, Skipped: skipped, Username: username}

	admins, err := r.sessions.CountAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("count admins: %w", err)
	}
	res.FirstRun = admins == 0

	generated := password == ""
	if generated {
		if password, err = GeneratePassword(); err != nil {
			return nil, err
		}
	}

	created, err := r.sessions.EnsureAdmin(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("ensure admin %q: %w", username, err)
	}
	res.Created = created
	if created && generated {
		res.Password = password
	}

	if created {
		r.logger.Info("Admin account ready", zap.String("username", username))
	} else {
		r.logger.Info("Admin account already exists, password unchanged", zap.String("username", username))
	}
	return res, nil
}

// ResetPassword replaces the password of username, creating the account
// when it is missing.
func (r *Runner) ResetPassword(ctx context.Context, username, password string) (*Result, error) {
	res := &Result{Username: username}

	generated := password == ""
	if generated {
		var err error
		if password, err = GeneratePassword(); err != nil {
			return nil, err
		}
	}

	created, err := r.sessions.ResetPassword(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("reset password for %q: %w", username, err)
	}
	res.Created = created
	if generated {
		res.Password = password
	}
	return res, nil
}

func GeneratePassword() (string, error) {
	b := make([]byte, generatedPasswordBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
