// Package genres provides database operations for genres.
//
// Genre names carry a unique index; writes that clash with it report
// entities.ErrDuplicate so callers can fall back to the existing record.
package genres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/locallibrary/internal/entities"
)

// Repository handles all genre database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new genres repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetGenre retrieves a genre by ID.
func (r *Repository) GetGenre(ctx context.Context, id string) (*entities.Genre, error) {
	var genre entities.Genre
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&genre).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entities.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &genre, nil
}

// FindGenreByName looks a genre up by exact, case-sensitive name.
func (r *Repository) FindGenreByName(ctx context.Context, name string) (*entities.Genre, error) {
	var genres []entities.Genre
	// Limit(1)+Find keeps gorm from logging a missing row as an error.
	err := r.db.WithContext(ctx).Where("name = ?", name).Limit(1).Find(&genres).Error
	if err != nil {
		return nil, err
	}
	if len(genres) == 0 {
		return nil, entities.ErrNotFound
	}
	return &genres[0], nil
}

// ListGenres retrieves all genres ordered by name.
func (r *Repository) ListGenres(ctx context.Context) ([]entities.Genre, error) {
	genres := []entities.Genre{}
	err := r.db.WithContext(ctx).Order("name ASC").Find(&genres).Error
	return genres, err
}

// GetGenresByIDs retrieves the genres with the given IDs, in the order of ids.
// Unknown IDs are skipped.
func (r *Repository) GetGenresByIDs(ctx context.Context, ids []string) ([]entities.Genre, error) {
	genres := []entities.Genre{}
	if len(ids) == 0 {
		return genres, nil
	}
	var found []entities.Genre
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]entities.Genre, len(found))
	for _, g := range found {
		byID[g.ID] = g
	}
	for _, id := range ids {
		if g, ok := byID[id]; ok {
			genres = append(genres, g)
		}
	}
	return genres, nil
}

// CountGenres returns the number of stored genres.
func (r *Repository) CountGenres(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Genre{}).Count(&count).Error
	return count, err
}

// CreateGenre inserts a genre; the ID is assigned on insert.
func (r *Repository) CreateGenre(ctx context.Context, genre *entities.Genre) error {
	return translate(r.db.WithContext(ctx).Create(genre).Error)
}

// ReplaceGenre renames an existing genre, keeping its ID.
func (r *Repository) ReplaceGenre(ctx context.Context, genre *entities.Genre) error {
	result := r.db.WithContext(ctx).Model(&entities.Genre{}).
		Where("id = ?", genre.ID).
		Updates(map[string]any{"name": genre.Name})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrNotFound
	}
	return nil
}

// DeleteGenre removes a genre. Returns false when no row matched.
func (r *Repository) DeleteGenre(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Genre{})
	return result.RowsAffected > 0, result.Error
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return entities.ErrDuplicate
	}
	return err
}
