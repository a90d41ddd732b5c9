package instances

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/locallibrary/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "instances.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.BookInstance{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return NewRepository(db)
}

func TestRepository_CreateInstance(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	instance := &entities.BookInstance{BookID: "book-1", Imprint: "Penguin, 2001", Status: entities.StatusLoaned, DueBack: &due}
	require.NoError(t, repo.CreateInstance(ctx, instance))
	assert.NotEmpty(t, instance.ID)

	stored, err := repo.GetInstance(ctx, instance.ID)
	require.NoError(t, err)
	assert.Equal(t, "book-1", stored.BookID)
	assert.Equal(t, entities.StatusLoaned, stored.Status)
	require.NotNil(t, stored.DueBack)
	assert.True(t, due.Equal(*stored.DueBack))
}

func TestRepository_GetInstance_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetInstance(context.Background(), "missing")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestRepository_Counts(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	statuses := []entities.BookInstanceStatus{
		entities.StatusAvailable,
		entities.StatusAvailable,
		entities.StatusLoaned,
		entities.StatusMaintenance,
	}
	for _, status := range statuses {
		require.NoError(t, repo.CreateInstance(ctx, &entities.BookInstance{BookID: "b", Imprint: "i", Status: status}))
	}

	total, err := repo.CountInstances(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	available, err := repo.CountInstancesByStatus(ctx, entities.StatusAvailable)
	require.NoError(t, err)
	assert.Equal(t, int64(2), available)

	reserved, err := repo.CountInstancesByStatus(ctx, entities.StatusReserved)
	require.NoError(t, err)
	assert.Zero(t, reserved)
}

func TestRepository_ListInstancesByBook(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateInstance(ctx, &entities.BookInstance{BookID: "b1", Imprint: "first", Status: entities.StatusAvailable}))
	require.NoError(t, repo.CreateInstance(ctx, &entities.BookInstance{BookID: "b1", Imprint: "second", Status: entities.StatusLoaned}))
	require.NoError(t, repo.CreateInstance(ctx, &entities.BookInstance{BookID: "b2", Imprint: "other", Status: entities.StatusLoaned}))

	instances, err := repo.ListInstancesByBook(ctx, "b1")
	require.NoError(t, err)
	assert.Len(t, instances, 2)

	all, err := repo.ListInstances(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRepository_ReplaceAndDeleteInstance(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	due := time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)
	instance := &entities.BookInstance{BookID: "b1", Imprint: "old", Status: entities.StatusLoaned, DueBack: &due}
	require.NoError(t, repo.CreateInstance(ctx, instance))

	replacement := &entities.BookInstance{ID: instance.ID, BookID: "b2", Imprint: "new", Status: entities.StatusAvailable}
	require.NoError(t, repo.ReplaceInstance(ctx, replacement))

	stored, err := repo.GetInstance(ctx, instance.ID)
	require.NoError(t, err)
	assert.Equal(t, "b2", stored.BookID)
	assert.Equal(t, "new", stored.Imprint)
	assert.Equal(t, entities.StatusAvailable, stored.Status)
	assert.Nil(t, stored.DueBack)

	err = repo.ReplaceInstance(ctx, &entities.BookInstance{ID: "missing", Status: entities.StatusLoaned})
	assert.ErrorIs(t, err, entities.ErrNotFound)

	deleted, err := repo.DeleteInstance(ctx, instance.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteInstance(ctx, instance.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
