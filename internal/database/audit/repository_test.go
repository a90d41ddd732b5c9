package audit

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

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.AuditEvent{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return NewRepository(db)
}

func seedEvents(t *testing.T, repo *Repository, events ...entities.AuditEvent) {
	t.Helper()
	for i := range events {
		require.NoError(t, repo.LogEvent(context.Background(), &events[i]))
	}
}

func TestRepository_LogEvent(t *testing.T) {
	repo := newTestRepository(t)

	event := &entities.AuditEvent{
		RequestID:   "req-1",
		EventType:   entities.AuditEventCreate,
		Action:      "genre_create",
		Description: "Created genre: Fantasy",
		EntityType:  entities.KindGenre,
		EntityID:    "g-1",
		Status:      entities.AuditStatusSuccess,
	}

	require.NoError(t, repo.LogEvent(context.Background(), event))
	assert.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestRepository_FindEvents(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 12; i++ {
		seedEvents(t, repo, entities.AuditEvent{
			EventType: entities.AuditEventCreate, EntityType: entities.KindBook, EntityID: "b-1",
			Status: entities.AuditStatusSuccess, CreatedAt: now.Add(time.Duration(-i) * time.Minute),
		})
	}
	seedEvents(t, repo,
		entities.AuditEvent{EventType: entities.AuditEventDelete, EntityType: entities.KindAuthor, EntityID: "a-1", Status: entities.AuditStatusBlocked},
		entities.AuditEvent{EventType: entities.AuditEventDelete, EntityType: entities.KindAuthor, EntityID: "a-2", Status: entities.AuditStatusSuccess},
		entities.AuditEvent{EventType: entities.AuditEventCreate, EntityType: entities.KindBook, EntityID: "b-2", Status: entities.AuditStatusFailed},
	)

	tests := []struct {
		name      string
		query     entities.AuditQuery
		wantTotal int64
		wantLen   int
	}{
		{"everything", entities.AuditQuery{}, 15, 15},
		{"by kind", entities.AuditQuery{Kind: entities.KindAuthor}, 2, 2},
		{"by record", entities.AuditQuery{Kind: entities.KindBook, EntityID: "b-1"}, 12, 12},
		{"by status", entities.AuditQuery{Status: entities.AuditStatusBlocked}, 1, 1},
		{"first page", entities.AuditQuery{Kind: entities.KindBook, Limit: 5}, 13, 5},
		{"last page", entities.AuditQuery{Kind: entities.KindBook, Limit: 5, Offset: 10}, 13, 3},
		{"unlimited", entities.AuditQuery{Limit: -1}, 15, 15},
		{"nothing", entities.AuditQuery{Kind: entities.KindGenre}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, total, err := repo.FindEvents(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
			assert.Len(t, events, tt.wantLen)
			assert.NotNil(t, events)
		})
	}

	t.Run("newest first", func(t *testing.T) {
		events, _, err := repo.FindEvents(ctx, entities.AuditQuery{EntityID: "b-1"})
		require.NoError(t, err)
		for i := 1; i < len(events); i++ {
			assert.False(t, events[i-1].CreatedAt.Before(events[i].CreatedAt))
		}
	})
}

func TestRepository_DeleteOlderThan(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now()

	seedEvents(t, repo,
		entities.AuditEvent{Action: "author_create", Status: entities.AuditStatusSuccess, CreatedAt: now.Add(-48 * time.Hour)},
		entities.AuditEvent{Action: "author_delete", Status: entities.AuditStatusSuccess, CreatedAt: now.Add(-1 * time.Hour)},
	)

	deleted, err := repo.DeleteOlderThan(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, total, err := repo.FindEvents(ctx, entities.AuditQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "author_delete", events[0].Action)
}

func TestRepository_CancelledContext(t *testing.T) {
	repo := newTestRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := repo.FindEvents(ctx, entities.AuditQuery{})
	assert.ErrorIs(t, err, context.Canceled)
}
