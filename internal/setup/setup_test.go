package setup

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fekuna/stockflow-service/internal/database"
	"github.com/fekuna/stockflow-service/internal/logger"
	"github.com/fekuna/stockflow-service/internal/session"
	"github.com/fekuna/stockflow-service/internal/session/repository"
	"github.com/fekuna/stockflow-service/internal/session/usecase"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner(t *testing.T) (*Runner, session.UseCase, *sqlx.DB) {
	t.Helper()
	db, err := database.NewSQLite(context.Background(), filepath.Join(t.TempDir(), "setup.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logger.NewNop()
	sessions := usecase.NewSessionUseCase(repository.NewSQLRepository(db), time.Hour, log)
	return NewRunner(db, database.DriverSQLite, sessions, log), sessions, db
}

func TestSetup_FreshDatabase(t *testing.T) {
	r, sessions, _ := newRunner(t)
	ctx := context.Background()

	res, err := r.Setup(ctx, "admin", "")
	require.NoError(t, err)
	assert.Equal(t, 9, res.Applied)
	assert.Zero(t, res.Skipped)
	assert.True(t, res.Created)
	assert.True(t, res.FirstRun)
	require.NotEmpty(t, res.Password)

	s, err := sessions.Login(ctx, "admin", res.Password)
	require.NoError(t, err)
	assert.Equal(t, "admin", s.Username)
}

func TestSetup_KeepsExistingPassword(t *testing.T) {
	r, sessions, _ := newRunner(t)
	ctx := context.Background()

	_, err := r.Setup(ctx, "admin", "first-password")
	require.NoError(t, err)

	res, err := r.Setup(ctx, "admin", "second-password")
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.False(t, res.FirstRun)
	assert.Empty(t, res.Password)

	_, err = sessions.Login(ctx, "admin", "first-password")
	assert.NoError(t, err)
}

func TestSetup_SecondAdminIsNotFirstRun(t *testing.T) {
	r, sessions, _ := newRunner(t)
	ctx := context.Background()

	_, err := r.Setup(ctx, "admin", "first-password")
	require.NoError(t, err)

	res, err := r.Setup(ctx, "ops", "ops-password")
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.False(t, res.FirstRun)

	n, err := sessions.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSetup_SkipsFailingStatements(t *testing.T) {
	r, _, db := newRunner(t)
	ctx := context.Background()

	_, err := db.Exec(`CREATE TABLE fields (id INTEGER PRIMARY KEY)`)
	require.NoError(t, err)

	res, err := r.Setup(ctx, "admin", "password-1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.True(t, res.Created)
}

func TestResetPassword(t *testing.T) {
	r, sessions, _ := newRunner(t)
	ctx := context.Background()

	_, err := r.Setup(ctx, "admin", "old-password")
	require.NoError(t, err)

	res, err := r.ResetPassword(ctx, "admin", "new-password")
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Empty(t, res.Password)

	_, err = sessions.Login(ctx, "admin", "old-password")
	assert.Error(t, err)
	_, err = sessions.Login(ctx, "admin", "new-password")
	assert.NoError(t, err)

	res, err = r.ResetPassword(ctx, "operator", "")
	require.NoError(t, err)
	assert.True(t, res.Created)
	require.NotEmpty(t, res.Password)
	_, err = sessions.Login(ctx, "operator", res.Password)
	assert.NoError(t, err)
}

func TestGeneratePassword(t *testing.T) {
	a, err := GeneratePassword()
	require.NoError(t, err)
	b, err := GeneratePassword()
	require.NoError(t, err)

	assert.Len(t, a, 24)
	assert.NotEqual(t, a, b)
}
