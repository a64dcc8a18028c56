package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/stockflow-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) GetUserByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	var user model.AdminUser
	query := r.DB.Rebind(`SELECT id, username, password_hash, created_at FROM admin_users WHERE username = ?`)
	err := r.DB.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get admin user: %w", err)
	}
	return &user, nil
}

func (r *SQLRepository) CreateUser(ctx context.Context, u *model.AdminUser) error {
	query := r.DB.Rebind(`
        INSERT INTO admin_users (username, password_hash, created_at)
        VALUES (?, ?, ?)
        RETURNING id
    `)
	if err := r.DB.QueryRowxContext(ctx, query, u.Username, u.PasswordHash, u.CreatedAt).Scan(&u.ID); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	return nil
}

func (r *SQLRepository) UpdatePasswordHash(ctx context.Context, username, hash string) (bool, error) {
	query := r.DB.Rebind(`UPDATE admin_users SET password_hash = ? WHERE username = ?`)
	res, err := r.DB.ExecContext(ctx, query, hash, username)
	if err != nil {
		return false, fmt.Errorf("update password hash: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SQLRepository) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := r.DB.GetContext(ctx, &count, `SELECT count(*) FROM admin_users`); err != nil {
		return 0, fmt.Errorf("count admin users: %w", err)
	}
	return count, nil
}

func (r *SQLRepository) CreateSession(ctx context.Context, s *model.Session) error {
	query := r.DB.Rebind(`
        INSERT INTO sessions (user_id, token, expires_at, created_at)
        VALUES (?, ?, ?, ?)
        RETURNING id
    `)
	if err := r.DB.QueryRowxContext(ctx, query, s.UserID, s.Token, s.ExpiresAt, s.CreatedAt).Scan(&s.ID); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSessionByToken does not filter on expiry; callers decide with Session.Expired.
func (r *SQLRepository) GetSessionByToken(ctx context.Context, token string) (*model.Session, error) {
	var s model.Session
	query := r.DB.Rebind(`
        SELECT s.id, s.user_id, s.token, s.expires_at, s.created_at, u.username
        FROM sessions s
        JOIN admin_users u ON u.id = s.user_id
        WHERE s.token = ?
    `)
	err := r.DB.GetContext(ctx, &s, query, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

func (r *SQLRepository) DeleteSessionByToken(ctx context.Context, token string) error {
	query := r.DB.Rebind(`DELETE FROM sessions WHERE token = ?`)
	if _, err := r.DB.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SQLRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	query := r.DB.Rebind(`DELETE FROM sessions WHERE expires_at <= ?`)
	res, err := r.DB.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
