package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/stockflow-service/internal/apperror"
	"github.com/fekuna/stockflow-service/internal/events"
	"github.com/fekuna/stockflow-service/internal/folder"
	"github.com/fekuna/stockflow-service/internal/folder/dto"
	"github.com/fekuna/stockflow-service/internal/folder/repository"
	"github.com/fekuna/stockflow-service/internal/logger"
	"github.com/fekuna/stockflow-service/internal/testutil"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct{ types []events.Type }

func (r *recorder) Publish(_ context.Context, ev events.Event) error {
	r.types = append(r.types, ev.Type)
	return nil
}

func (r *recorder) Close() error { return nil }

func setup(t *testing.T) (folder.UseCase, *sqlx.DB, *recorder) {
	t.Helper()
	db := testutil.NewDB(t)
	rec := &recorder{}
	return NewFolderUseCase(repository.NewSQLRepository(db), rec, logger.NewNop()), db, rec
}

func TestFolderLifecycle(t *testing.T) {
	uc, _, rec := setup(t)
	ctx := context.Background()

	a, err := uc.CreateFolder(ctx, &dto.CreateFolderInput{Name: "  Warehouse A "})
	require.NoError(t, err)
	assert.Equal(t, "Warehouse A", a.Name)
	assert.Positive(t, a.ID)

	b, err := uc.CreateFolder(ctx, &dto.CreateFolderInput{Name: "Warehouse B"})
	require.NoError(t, err)

	renamed, err := uc.RenameFolder(ctx, &dto.RenameFolderInput{ID: b.ID, Name: "Overflow"})
	require.NoError(t, err)
	assert.Equal(t, "Overflow", renamed.Name)

	folders, err := uc.ListFolders(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "Warehouse A", folders[0].Name)
	assert.Equal(t, "Overflow", folders[1].Name)

	require.NoError(t, uc.DeleteFolder(ctx, a.ID))
	folders, err = uc.ListFolders(ctx)
	require.NoError(t, err)
	assert.Len(t, folders, 1)

	assert.Equal(t, []events.Type{
		events.FolderCreated, events.FolderCreated, events.FolderRenamed, events.FolderDeleted,
	}, rec.types)
}

func TestListFolders_EmptyIsNotNil(t *testing.T) {
	uc, _, _ := setup(t)

	folders, err := uc.ListFolders(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, folders)
	assert.Empty(t, folders)
}

func TestFolderValidationAndNotFound(t *testing.T) {
	uc, _, rec := setup(t)
	ctx := context.Background()

	_, err := uc.CreateFolder(ctx, &dto.CreateFolderInput{Name: "   "})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = uc.RenameFolder(ctx, &dto.RenameFolderInput{ID: 42, Name: "x"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = uc.RenameFolder(ctx, &dto.RenameFolderInput{ID: 42, Name: ""})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	err = uc.DeleteFolder(ctx, 42)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	assert.Empty(t, rec.types)
}

func TestDeleteFolder_Cascades(t *testing.T) {
	uc, db, _ := setup(t)
	ctx := context.Background()

	keep, err := uc.CreateFolder(ctx, &dto.CreateFolderInput{Name: "Keep"})
	require.NoError(t, err)
	drop, err := uc.CreateFolder(ctx, &dto.CreateFolderInput{Name: "Drop"})
	require.NoError(t, err)

	for _, folderID := range []int64{keep.ID, drop.ID} {
		var fieldID, productID int64
		require.NoError(t, db.QueryRowx(`INSERT INTO fields (folder_id, name, field_type) VALUES (?, 'Qty', 'number') RETURNING id`, folderID).Scan(&fieldID))
		require.NoError(t, db.QueryRowx(`INSERT INTO products (folder_id, name) VALUES (?, 'Widget') RETURNING id`, folderID).Scan(&productID))
		_, err := db.Exec(`INSERT INTO field_values (product_id, field_id, value) VALUES (?, ?, '5')`, productID, fieldID)
		require.NoError(t, err)
	}

	require.NoError(t, uc.DeleteFolder(ctx, drop.ID))

	count := func(query string, args ...any) int {
		var n int
		require.NoError(t, db.Get(&n, query, args...))
		return n
	}
	assert.Zero(t, count(`SELECT count(*) FROM fields WHERE folder_id = ?`, drop.ID))
	assert.Zero(t, count(`SELECT count(*) FROM products WHERE folder_id = ?`, drop.ID))
	assert.Equal(t, 1, count(`SELECT count(*) FROM field_values`))
	assert.Equal(t, 1, count(`SELECT count(*) FROM fields`))
	assert.Equal(t, 1, count(`SELECT count(*) FROM products`))
}
