package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LENAX/task-order/pkg/storage"
)

func setupRepo(t *testing.T) *storage.SQLRepository {
	t.Helper()
	repo, err := Open(":memory:", storage.PoolOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLRepository_SaveAndGet(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	rec := &storage.OrderingRecord{
		ID:         "rec-1",
		Tasks:      5,
		Edges:      [][2]int{{1, 2}, {2, 3}, {1, 3}, {1, 5}},
		Order:      []int{1, 4, 2, 5, 3},
		Duration:   1500 * time.Microsecond,
		CreateTime: time.Now(),
	}
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.GetByID(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, rec.Tasks, got.Tasks)
	assert.Equal(t, rec.Edges, got.Edges)
	assert.Equal(t, rec.Order, got.Order)
	assert.False(t, got.Cycle)
	assert.Empty(t, got.ErrorMessage)
	assert.Equal(t, rec.Duration, got.Duration)
	assert.WithinDuration(t, rec.CreateTime, got.CreateTime, time.Second)
}

func TestSQLRepository_CycleRecord(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	rec := &storage.OrderingRecord{
		ID:           "rec-cycle",
		Tasks:        3,
		Edges:        [][2]int{{1, 2}, {2, 3}, {3, 1}},
		Cycle:        true,
		ErrorMessage: "检测到循环依赖",
		CreateTime:   time.Now(),
	}
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.GetByID(ctx, "rec-cycle")
	require.NoError(t, err)
	assert.True(t, got.Cycle)
	assert.Nil(t, got.Order)
	assert.Equal(t, "检测到循环依赖", got.ErrorMessage)
}

func TestSQLRepository_GetByID_NotFound(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSQLRepository_ListAndDeleteBefore(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Save(ctx, &storage.OrderingRecord{
			ID:         id,
			Tasks:      1,
			Order:      []int{1},
			CreateTime: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	list, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "a", list[2].ID)
	assert.Empty(t, list[0].Edges)

	page, err := repo.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b", page[0].ID)

	deleted, err := repo.DeleteBefore(ctx, base.Add(90*time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	list, err = repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c", list[0].ID)
}

func TestSQLRepository_InitSchemaTwice(t *testing.T) {
	repo := setupRepo(t)

	_, err := storage.NewSQLRepository(repo.DB(), NewSQLiteDialect())
	assert.NoError(t, err)
}
