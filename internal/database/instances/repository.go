// Package instances provides database operations for book instances, the
// physical copies of a book that can be loaned.
package instances

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/locallibrary/internal/entities"
)

// Repository handles all book instance database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new book instances repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetInstance retrieves a book instance by ID.
func (r *Repository) GetInstance(ctx context.Context, id string) (*entities.BookInstance, error) {
	var instance entities.BookInstance
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&instance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entities.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &instance, nil
}

// ListInstances retrieves all book instances in insertion order.
func (r *Repository) ListInstances(ctx context.Context) ([]entities.BookInstance, error) {
	instances := []entities.BookInstance{}
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&instances).Error
	return instances, err
}

// ListInstancesByBook retrieves the copies of a book.
func (r *Repository) ListInstancesByBook(ctx context.Context, bookID string) ([]entities.BookInstance, error) {
	instances := []entities.BookInstance{}
	err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Order("created_at ASC, id ASC").
		Find(&instances).Error
	return instances, err
}

// CountInstances returns the number of stored book instances.
func (r *Repository) CountInstances(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.BookInstance{}).Count(&count).Error
	return count, err
}

// CountInstancesByStatus returns the number of book instances in a status.
func (r *Repository) CountInstancesByStatus(ctx context.Context, status entities.BookInstanceStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.BookInstance{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// CreateInstance inserts a book instance; the ID is assigned on insert.
func (r *Repository) CreateInstance(ctx context.Context, instance *entities.BookInstance) error {
	return r.db.WithContext(ctx).Create(instance).Error
}

// ReplaceInstance overwrites every field of an existing book instance, keeping its ID.
func (r *Repository) ReplaceInstance(ctx context.Context, instance *entities.BookInstance) error {
	result := r.db.WithContext(ctx).Model(&entities.BookInstance{}).
		Where("id = ?", instance.ID).
		Updates(map[string]any{
			"book_id":  instance.BookID,
			"imprint":  instance.Imprint,
			"status":   instance.Status,
			"due_back": instance.DueBack,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entities.ErrNotFound
	}
	return nil
}

// DeleteInstance removes a book instance. Returns false when no row matched.
func (r *Repository) DeleteInstance(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.BookInstance{})
	return result.RowsAffected > 0, result.Error
}
