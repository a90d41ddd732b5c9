package audit

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/locallibrary/internal/catalog"
	auditRepo "github.com/mrlokans/locallibrary/internal/database/audit"
	"github.com/mrlokans/locallibrary/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
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

	return NewService(auditRepo.NewRepository(db)), db
}

func TestService_Log(t *testing.T) {
	svc, db := setupTestService(t)

	event := &entities.AuditEvent{
		EventType:  entities.AuditEventCreate,
		Action:     "genre_create",
		EntityType: entities.KindGenre,
		EntityID:   "g-1",
		Status:     entities.AuditStatusSuccess,
	}
	require.NoError(t, svc.Log(context.Background(), event))

	var saved entities.AuditEvent
	require.NoError(t, db.First(&saved, event.ID).Error)
	assert.Equal(t, "genre_create", saved.Action)
	assert.False(t, saved.CreatedAt.IsZero())
}

func TestService_Observe(t *testing.T) {
	violation := &catalog.IntegrityViolation{
		Kind: entities.KindBook,
		ID:   "b-1",
		Dependents: []catalog.Dependent{
			{Kind: entities.KindBookInstance, ID: "i-1"},
			{Kind: entities.KindBookInstance, ID: "i-2"},
		},
	}

	tests := []struct {
		name  string
		event catalog.Event
		check func(t *testing.T, got entities.AuditEvent)
	}{
		{
			name:  "successful create",
			event: catalog.Event{Kind: entities.KindAuthor, Op: catalog.OpCreate, ID: "a-1", Label: "Le Guin, Ursula", Outcome: catalog.OutcomeSuccess},
			check: func(t *testing.T, got entities.AuditEvent) {
				assert.Equal(t, "author_create", got.Action)
				assert.Equal(t, entities.AuditEventCreate, got.EventType)
				assert.Equal(t, entities.AuditStatusSuccess, got.Status)
				assert.Equal(t, "a-1", got.EntityID)
				assert.Equal(t, "Created author: Le Guin, Ursula", got.Description)
			},
		},
		{
			name:  "reused genre",
			event: catalog.Event{Kind: entities.KindGenre, Op: catalog.OpCreate, ID: "g-1", Label: "Fantasy", Outcome: catalog.OutcomeReused},
			check: func(t *testing.T, got entities.AuditEvent) {
				assert.Equal(t, "genre_reuse", got.Action)
				assert.Equal(t, entities.AuditEventReuse, got.EventType)
				assert.Equal(t, "Reused existing genre: Fantasy", got.Description)
			},
		},
		{
			name:  "delete of a missing record",
			event: catalog.Event{Kind: entities.KindGenre, Op: catalog.OpDelete, ID: "g-9", Outcome: catalog.OutcomeGone},
			check: func(t *testing.T, got entities.AuditEvent) {
				assert.Equal(t, entities.AuditStatusSuccess, got.Status)
				assert.Contains(t, got.Description, "already gone")
			},
		},
		{
			name:  "blocked delete",
			event: catalog.Event{Kind: entities.KindBook, Op: catalog.OpDelete, ID: "b-1", Outcome: catalog.OutcomeBlocked, Err: violation},
			check: func(t *testing.T, got entities.AuditEvent) {
				assert.Equal(t, entities.AuditStatusBlocked, got.Status)
				assert.JSONEq(t, `{"dependents":{"bookinstance":["i-1","i-2"]}}`, got.Metadata)
				assert.Contains(t, got.ErrorMsg, "2 dependent record(s)")
			},
		},
		{
			name:  "store failure",
			event: catalog.Event{Kind: entities.KindBook, Op: catalog.OpUpdate, ID: "b-1", Outcome: catalog.OutcomeError, Err: errors.New("connection timeout")},
			check: func(t *testing.T, got entities.AuditEvent) {
				assert.Equal(t, entities.AuditStatusFailed, got.Status)
				assert.Equal(t, "book_update", got.Action)
				assert.Equal(t, "connection timeout", got.ErrorMsg)
			},
		},
		{
			name:  "request id",
			event: catalog.Event{Kind: entities.KindAuthor, Op: catalog.OpUpdate, ID: "a-1", Outcome: catalog.OutcomeSuccess, RequestID: "req-42"},
			check: func(t *testing.T, got entities.AuditEvent) {
				assert.Equal(t, "req-42", got.RequestID)
				assert.Equal(t, "Updated author a-1", got.Description)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db := setupTestService(t)
			svc.Observe(context.Background(), tt.event)
			svc.Flush()

			var got entities.AuditEvent
			require.NoError(t, db.First(&got).Error)
			tt.check(t, got)
		})
	}
}

func TestService_ObserveSkipsInvalidInput(t *testing.T) {
	svc, db := setupTestService(t)
	svc.Observe(context.Background(), catalog.Event{
		Kind: entities.KindGenre, Op: catalog.OpCreate, Outcome: catalog.OutcomeInvalid,
		Err: catalog.ValidationErrors{{Field: "name"}},
	})
	svc.Flush()

	var count int64
	require.NoError(t, db.Model(&entities.AuditEvent{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestService_ObserveOutlivesRequest(t *testing.T) {
	svc, db := setupTestService(t)

	ctx, cancel := context.WithCancel(context.Background())
	svc.Observe(ctx, catalog.Event{Kind: entities.KindGenre, Op: catalog.OpCreate, ID: "g-1", Outcome: catalog.OutcomeSuccess})
	cancel()
	svc.Flush()

	var count int64
	require.NoError(t, db.Model(&entities.AuditEvent{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestService_ListEvents(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	for i, kind := range []entities.Kind{entities.KindBook, entities.KindAuthor, entities.KindBook, entities.KindAuthor, entities.KindBook} {
		status := entities.AuditStatusSuccess
		if i == 0 {
			status = entities.AuditStatusBlocked
		}
		require.NoError(t, svc.Log(ctx, &entities.AuditEvent{
			EventType: entities.AuditEventCreate, Action: string(kind) + "_create", EntityType: kind, Status: status,
		}))
	}

	events, total, err := svc.ListEvents(ctx, entities.AuditQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, events, 5)

	events, total, err = svc.ListEvents(ctx, entities.AuditQuery{Kind: entities.KindBook, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, events, 2)

	_, total, err = svc.ListEvents(ctx, entities.AuditQuery{Status: entities.AuditStatusBlocked})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestService_GetEventsForEntity(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		svc.Observe(ctx, catalog.Event{Kind: entities.KindGenre, Op: catalog.OpUpdate, ID: "g-1", Label: "Poetry", Outcome: catalog.OutcomeSuccess})
	}
	svc.Observe(ctx, catalog.Event{Kind: entities.KindGenre, Op: catalog.OpCreate, ID: "g-2", Outcome: catalog.OutcomeSuccess})
	svc.Flush()

	events, err := svc.GetEventsForEntity(ctx, entities.KindGenre, "g-1")
	require.NoError(t, err)
	assert.Len(t, events, 60, "history is not paged")
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, db := setupTestService(t)

	require.NoError(t, db.Create(&entities.AuditEvent{Action: "old", Status: entities.AuditStatusSuccess, CreatedAt: time.Now().Add(-48 * time.Hour)}).Error)
	require.NoError(t, db.Create(&entities.AuditEvent{Action: "new", Status: entities.AuditStatusSuccess, CreatedAt: time.Now()}).Error)

	deleted, err := svc.DeleteOldEvents(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining []entities.AuditEvent
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "new", remaining[0].Action)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly10c", truncate("exactly10c", 10))
	assert.Equal(t, "this is...", truncate("this is a very long string", 10))
}
