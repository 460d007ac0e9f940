package postgres

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/tenvelde/receptenapi/internal/apperror"
	"github.com/tenvelde/receptenapi/internal/catalog"
)

func TestImageStoreUpsertAndGet(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewImageStore(mock)
	require.NoError(t, err)

	image := catalog.RecipeImage{
		RecipeID:    "r1",
		ContentType: "image/jpeg",
		Data:        []byte{0xff, 0xd8, 0xff},
	}
	mock.ExpectExec("INSERT INTO recipe_images").
		WithArgs(image.RecipeID, image.ContentType, image.Data).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, store.Upsert(context.Background(), image))

	mock.ExpectQuery("SELECT content_type, image FROM recipe_images").
		WithArgs("r1").
		WillReturnRows(pgxmock.NewRows([]string{"content_type", "image"}).
			AddRow(image.ContentType, image.Data))

	got, err := store.Get(context.Background(), "r1")
	require.NoError(t, err)
	require.Equal(t, image, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestImageStoreGetMissing(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewImageStore(mock)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT content_type, image FROM recipe_images").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"content_type", "image"}))

	_, err = store.Get(context.Background(), "missing")
	require.ErrorIs(t, err, apperror.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestImageStoreDeleteMissing(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewImageStore(mock)
	require.NoError(t, err)

	mock.ExpectExec("DELETE FROM recipe_images").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = store.Delete(context.Background(), "missing")
	require.ErrorIs(t, err, apperror.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
