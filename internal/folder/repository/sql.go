package repository

import (
	"context"
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

func (r *SQLRepository) Create(ctx context.Context, f *model.Folder) error {
	query := r.DB.Rebind(`INSERT INTO folders (name) VALUES (?) RETURNING id`)
	if err := r.DB.QueryRowxContext(ctx, query, f.Name).Scan(&f.ID); err != nil {
		return fmt.Errorf("insert folder: %w", err)
	}
	return nil
}

func (r *SQLRepository) FindAll(ctx context.Context) ([]model.Folder, error) {
	folders := []model.Folder{}
	if err := r.DB.SelectContext(ctx, &folders, `SELECT id, name FROM folders ORDER BY id`); err != nil {
		return nil, fmt.Errorf("select folders: %w", err)
	}
	return folders, nil
}

func (r *SQLRepository) UpdateName(ctx context.Context, id int64, name string) (bool, error) {
	query := r.DB.Rebind(`UPDATE folders SET name = ? WHERE id = ?`)
	res, err := r.DB.ExecContext(ctx, query, name, id)
	if err != nil {
		return false, fmt.Errorf("update folder: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete cascades explicitly in one transaction rather than relying on the
// store to enforce foreign keys.
func (r *SQLRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	cascade := []string{
		`DELETE FROM field_values WHERE product_id IN (SELECT id FROM products WHERE folder_id = ?)`,
		`DELETE FROM field_values WHERE field_id IN (SELECT id FROM fields WHERE folder_id = ?)`,
		`DELETE FROM products WHERE folder_id = ?`,
		`DELETE FROM fields WHERE folder_id = ?`,
	}
	for _, q := range cascade {
		if _, err := tx.ExecContext(ctx, tx.Rebind(q), id); err != nil {
			return false, fmt.Errorf("cascade folder delete: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM folders WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("delete folder: %w", err)
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
