package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fekuna/stockflow-service/internal/database"
	"github.com/fekuna/stockflow-service/internal/logger"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// NewDB returns a fresh sqlite database with the schema applied. It is
// closed when the test ends.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	ctx := context.Background()
	db, err := database.NewSQLite(ctx, filepath.Join(t.TempDir(), "stockflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, skipped, err := database.ApplySchema(ctx, db, database.DriverSQLite, logger.NewNop())
	require.NoError(t, err)
	require.Zero(t, skipped, "schema statements failed")

	return db
}
