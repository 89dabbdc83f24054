package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nrjais/tablesorter/internal/db"
	"github.com/nrjais/tablesorter/internal/db/mocks"
)

func TestPostgresStore_Load(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	t.Run("returns stored payload", func(t *testing.T) {
		pool := mocks.NewMockPostgresPool(ctrl)
		row := mocks.NewMockRow(ctrl)
		pool.EXPECT().QueryRow(ctx, gomock.Any(), "w1").Return(row)
		row.EXPECT().Scan(gomock.Any()).DoAndReturn(func(dest ...any) error {
			*(dest[0].(*[]byte)) = []byte(`j{"primaryKey":"A"}`)
			return nil
		})

		store := db.NewPostgresStore(pool, 0)
		payload, found, err := store.Load(ctx, "w1")

		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `{"primaryKey":"A"}`, payload)
	})

	t.Run("missing row", func(t *testing.T) {
		pool := mocks.NewMockPostgresPool(ctrl)
		row := mocks.NewMockRow(ctrl)
		pool.EXPECT().QueryRow(ctx, gomock.Any(), "w2").Return(row)
		row.EXPECT().Scan(gomock.Any()).Return(pgx.ErrNoRows)

		store := db.NewPostgresStore(pool, 0)
		_, found, err := store.Load(ctx, "w2")

		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("query error", func(t *testing.T) {
		pool := mocks.NewMockPostgresPool(ctrl)
		row := mocks.NewMockRow(ctrl)
		pool.EXPECT().QueryRow(ctx, gomock.Any(), "w3").Return(row)
		row.EXPECT().Scan(gomock.Any()).Return(errors.New("connection reset"))

		store := db.NewPostgresStore(pool, 0)
		_, _, err := store.Load(ctx, "w3")

		assert.ErrorContains(t, err, "connection reset")
	})
}

func TestPostgresStore_Save(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	pool := mocks.NewMockPostgresPool(ctrl)
	tag := mocks.NewMockCommandTag(ctrl)

	pool.EXPECT().Exec(ctx, gomock.Any(), "w1", []byte(`j{"primaryKey":"A"}`)).Return(tag, nil)

	store := db.NewPostgresStore(pool, 1024)
	assert.NoError(t, store.Save(ctx, "w1", `{"primaryKey":"A"}`))

	pool.EXPECT().Exec(ctx, gomock.Any(), "w1", gomock.Any()).Return(nil, errors.New("boom"))
	assert.ErrorContains(t, store.Save(ctx, "w1", `{}`), "boom")
}

func TestPostgresStore_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	pool := mocks.NewMockPostgresPool(ctrl)
	store := db.NewPostgresStore(pool, 0)

	t.Run("deletes existing row", func(t *testing.T) {
		tag := mocks.NewMockCommandTag(ctrl)
		tag.EXPECT().RowsAffected().Return(int64(1))
		pool.EXPECT().Exec(ctx, gomock.Any(), "w1").Return(tag, nil)

		assert.NoError(t, store.Delete(ctx, "w1"))
	})

	t.Run("missing row", func(t *testing.T) {
		tag := mocks.NewMockCommandTag(ctrl)
		tag.EXPECT().RowsAffected().Return(int64(0))
		pool.EXPECT().Exec(ctx, gomock.Any(), "w2").Return(tag, nil)

		assert.ErrorIs(t, store.Delete(ctx, "w2"), db.ErrNotFound)
	})
}

func TestPostgresStore_Close(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pool := mocks.NewMockPostgresPool(ctrl)
	pool.EXPECT().Close()

	assert.NoError(t, db.NewPostgresStore(pool, 0).Close())
}
