package repository

import (
	"context"
	"fmt"

	"github.com/fekuna/stockflow-service/internal/model"
	"github.com/jmoiron/sqlx"
)

var numberType = string(model.FieldTypeNumber)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) GlobalMetricNames(ctx context.Context) ([]string, error) {
	var names []string
	query := r.DB.Rebind(`SELECT DISTINCT name FROM fields WHERE field_type = ?`)
	if err := r.DB.SelectContext(ctx, &names, query, numberType); err != nil {
		return nil, fmt.Errorf("select global metric names: %w", err)
	}
	return names, nil
}

func (r *SQLRepository) FolderMetricNames(ctx context.Context, folderID int64) ([]string, error) {
	var names []string
	query := r.DB.Rebind(`SELECT DISTINCT name FROM fields WHERE folder_id = ? AND field_type = ?`)
	if err := r.DB.SelectContext(ctx, &names, query, folderID, numberType); err != nil {
		return nil, fmt.Errorf("select folder metric names: %w", err)
	}
	return names, nil
}

// Product driven: a folder with the field but no products yields no rows.
func (r *SQLRepository) GlobalMetricRows(ctx context.Context, metric string) ([]model.MetricRow, error) {
	var rows []model.MetricRow
	query := r.DB.Rebind(`
        SELECT f.id AS group_id, f.name AS label, v.value AS value
        FROM folders f
        JOIN fields fl ON fl.folder_id = f.id
        JOIN products p ON p.folder_id = f.id
        LEFT JOIN field_values v ON v.product_id = p.id AND v.field_id = fl.id
        WHERE fl.name = ? AND fl.field_type = ?
        ORDER BY f.id, p.id, fl.id
    `)
	if err := r.DB.SelectContext(ctx, &rows, query, metric, numberType); err != nil {
		return nil, fmt.Errorf("select global metric rows: %w", err)
	}
	return rows, nil
}

func (r *SQLRepository) FolderMetricRows(ctx context.Context, folderID int64, metric string) ([]model.MetricRow, error) {
	var rows []model.MetricRow
	query := r.DB.Rebind(`
        SELECT p.id AS group_id, p.name AS label, v.value AS value
        FROM products p
        JOIN fields fl ON fl.folder_id = p.folder_id
        LEFT JOIN field_values v ON v.product_id = p.id AND v.field_id = fl.id
        WHERE p.folder_id = ? AND fl.name = ? AND fl.field_type = ?
        ORDER BY p.id, fl.id
    `)
	if err := r.DB.SelectContext(ctx, &rows, query, folderID, metric, numberType); err != nil {
		return nil, fmt.Errorf("select folder metric rows: %w", err)
	}
	return rows, nil
}
