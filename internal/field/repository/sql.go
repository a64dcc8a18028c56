package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/stockflow-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, f *model.Field) error {
	query := r.DB.Rebind(`INSERT INTO fields (folder_id, name, field_type) VALUES (?, ?, ?) RETURNING id`)
	if err := r.DB.QueryRowxContext(ctx, query, f.FolderID, f.Name, string(f.FieldType)).Scan(&f.ID); err != nil {
		return fmt.Errorf("insert field: %w", err)
	}
	return nil
}

func (r *SQLRepository) FindByID(ctx context.Context, id int64) (*model.Field, error) {
	var f model.Field
	query := r.DB.Rebind(`SELECT id, folder_id, name, field_type FROM fields WHERE id = ?`)
	err := r.DB.GetContext(ctx, &f, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get field: %w", err)
	}
	return &f, nil
}

func (r *SQLRepository) FindByFolder(ctx context.Context, folderID int64) ([]model.Field, error) {
	fields := []model.Field{}
	query := r.DB.Rebind(`SELECT id, folder_id, name, field_type FROM fields WHERE folder_id = ? ORDER BY id`)
	if err := r.DB.SelectContext(ctx, &fields, query, folderID); err != nil {
		return nil, fmt.Errorf("select fields: %w", err)
	}
	return fields, nil
}

func (r *SQLRepository) UpdateName(ctx context.Context, id int64, name string) (bool, error) {
	query := r.DB.Rebind(`UPDATE fields SET name = ? WHERE id = ?`)
	res, err := r.DB.ExecContext(ctx, query, name, id)
	if err != nil {
		return false, fmt.Errorf("update field: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM field_values WHERE field_id = ?`), id); err != nil {
		return false, fmt.Errorf("cascade field delete: %w", err)
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM fields WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("delete field: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

func (r *SQLRepository) FolderExists(ctx context.Context, folderID int64) (bool, error) {
	var count int
	query := r.DB.Rebind(`SELECT count(*) FROM folders WHERE id = ?`)
	if err := r.DB.GetContext(ctx, &count, query, folderID); err != nil {
		return false, fmt.Errorf("check folder: %w", err)
	}
	return count > 0, nil
}
