package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fekuna/stockflow-service/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStatements(t *testing.T) {
	for _, driver := range []string{DriverPostgres, DriverSQLite} {
		stmts, err := Statements(driver)
		require.NoError(t, err, driver)
		assert.Len(t, stmts, 9, driver)
		for _, s := range stmts {
			assert.NotContains(t, s, ";")
		}
	}

	_, err := Statements("oracle")
	assert.Error(t, err)
}

func TestApplySchema_Idempotent(t *testing.T) {
	ctx := context.Background()
	db, err := NewSQLite(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	applied, skipped, err := ApplySchema(ctx, db, DriverSQLite, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 9, applied)
	assert.Zero(t, skipped)

	applied, skipped, err = ApplySchema(ctx, db, DriverSQLite, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 9, applied)
	assert.Zero(t, skipped)

	var tables []string
	require.NoError(t, db.SelectContext(ctx, &tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`))
	assert.Equal(t, []string{"admin_users", "field_values", "fields", "folders", "products", "sessions"}, tables)
}

func TestApplySchema_SkipsFailingStatements(t *testing.T) {
	ctx := context.Background()
	db, err := NewSQLite(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	// A stale fields table without folder_id breaks only the index statement.
	_, err = db.ExecContext(ctx, `CREATE TABLE fields (id INTEGER PRIMARY KEY)`)
	require.NoError(t, err)

	core, logs := observer.New(zap.WarnLevel)
	applied, skipped, err := ApplySchema(ctx, db, DriverSQLite, logger.FromZap(zap.New(core)))
	require.NoError(t, err)

	assert.Equal(t, 1, skipped)
	assert.Equal(t, 8, applied)
	assert.Equal(t, 1, logs.FilterMessage("Skipping schema statement").Len())

	var n int
	require.NoError(t, db.GetContext(ctx, &n, `SELECT count(*) FROM admin_users`))
	assert.Zero(t, n)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &Config{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported driver")
}
