package audit

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/locallibrary/internal/entities"
)

const defaultPageSize = 50

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) LogEvent(ctx context.Context, event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

// FindEvents returns one page of matching events, newest first, together with
// the number of events matching q regardless of paging.
func (r *Repository) FindEvents(ctx context.Context, q entities.AuditQuery) ([]entities.AuditEvent, int64, error) {
	scope := r.db.WithContext(ctx).Model(&entities.AuditEvent{})
	if q.Kind != "" {
		scope = scope.Where("entity_type = ?", q.Kind)
	}
	if q.EntityID != "" {
		scope = scope.Where("entity_id = ?", q.EntityID)
	}
	if q.Status != "" {
		scope = scope.Where("status = ?", q.Status)
	}

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := q.Limit, q.Offset
	if limit == 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	events := []entities.AuditEvent{}
	err := scope.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}

// DeleteOlderThan removes events created before cutoff and reports how many went.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&entities.AuditEvent{})
	return result.RowsAffected, result.Error
}
