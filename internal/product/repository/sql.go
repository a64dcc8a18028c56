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

const upsertValue = `
    INSERT INTO field_values (product_id, field_id, value)
    VALUES (:product_id, :field_id, :value)
    ON CONFLICT (product_id, field_id) DO UPDATE SET value = excluded.value
`

func (r *SQLRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	query := r.DB.Rebind(`SELECT id, folder_id, name FROM products WHERE id = ?`)
	err := r.DB.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (r *SQLRepository) FindByFolderWithValues(ctx context.Context, folderID int64) ([]model.Product, []model.ProductValue, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	products := []model.Product{}
	query := tx.Rebind(`SELECT id, folder_id, name FROM products WHERE folder_id = ? ORDER BY id`)
	if err := tx.SelectContext(ctx, &products, query, folderID); err != nil {
		return nil, nil, fmt.Errorf("select products: %w", err)
	}

	// Every field of the folder appears once per product; value is NULL
	// when no cell has been written.
	var values []model.ProductValue
	query = tx.Rebind(`
        SELECT p.id AS product_id, fl.id AS field_id, fl.name AS name, v.value AS value
        FROM products p
        JOIN fields fl ON fl.folder_id = p.folder_id
        LEFT JOIN field_values v ON v.product_id = p.id AND v.field_id = fl.id
        WHERE p.folder_id = ?
        ORDER BY p.id, fl.id
    `)
	if err := tx.SelectContext(ctx, &values, query, folderID); err != nil {
		return nil, nil, fmt.Errorf("select product values: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	return products, values, nil
}

func (r *SQLRepository) Create(ctx context.Context, p *model.Product, values []model.FieldValue) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	query := tx.Rebind(`INSERT INTO products (folder_id, name) VALUES (?, ?) RETURNING id`)
	if err := tx.QueryRowxContext(ctx, query, p.FolderID, p.Name).Scan(&p.ID); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	if err := upsertValues(ctx, tx, p.ID, values); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *SQLRepository) Update(ctx context.Context, id int64, name *string, values []model.FieldValue) (bool, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if name != nil {
		res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE products SET name = ? WHERE id = ?`), *name, id)
		if err != nil {
			return false, fmt.Errorf("update product: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return false, err
		}
		if n == 0 {
			return false, nil
		}
	} else {
		var count int
		if err := tx.GetContext(ctx, &count, tx.Rebind(`SELECT count(*) FROM products WHERE id = ?`), id); err != nil {
			return false, fmt.Errorf("check product: %w", err)
		}
		if count == 0 {
			return false, nil
		}
	}

	if err := upsertValues(ctx, tx, id, values); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM field_values WHERE product_id = ?`), id); err != nil {
		return false, fmt.Errorf("cascade product delete: %w", err)
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
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

func (r *SQLRepository) FieldIDsByFolder(ctx context.Context, folderID int64) ([]int64, error) {
	var ids []int64
	query := r.DB.Rebind(`SELECT id FROM fields WHERE folder_id = ? ORDER BY id`)
	if err := r.DB.SelectContext(ctx, &ids, query, folderID); err != nil {
		return nil, fmt.Errorf("select folder field ids: %w", err)
	}
	return ids, nil
}

// upsertValues writes each cell, overwriting an existing (product, field) pair.
func upsertValues(ctx context.Context, tx *sqlx.Tx, productID int64, values []model.FieldValue) error {
	for _, v := range values {
		v.ProductID = productID
		if _, err := tx.NamedExecContext(ctx, upsertValue, v); err != nil {
			return fmt.Errorf("upsert field value %d: %w", v.FieldID, err)
		}
	}
	return nil
}
