package catalog

import (
	"context"
	"errors"

	"github.com/mrlokans/locallibrary/internal/entities"
)

type Resolution string

const (
	Created Resolution = "created"
	Reused  Resolution = "reused"
)

// GenreResolver reuses an existing genre with the same name instead of
// creating a duplicate.
type GenreResolver struct {
	store GenreStore
}

func NewGenreResolver(store GenreStore) *GenreResolver {
	return &GenreResolver{store: store}
}

// Resolve returns the stored genre named like candidate, creating it when
// absent. Names match exactly and case-sensitively. If a concurrent request
// inserts the same name first, the unique index rejects this insert and the
// winner is returned as Reused.
func (r *GenreResolver) Resolve(ctx context.Context, candidate *entities.Genre) (*entities.Genre, Resolution, error) {
	existing, err := r.store.FindGenreByName(ctx, candidate.Name)
	if err == nil {
		return existing, Reused, nil
	}
	if !errors.Is(err, entities.ErrNotFound) {
		return nil, "", storeErr("find", entities.KindGenre, "", err)
	}

	genre := &entities.Genre{Name: candidate.Name}
	err = r.store.CreateGenre(ctx, genre)
	if errors.Is(err, entities.ErrDuplicate) {
		existing, findErr := r.store.FindGenreByName(ctx, candidate.Name)
		if findErr != nil {
			return nil, "", storeErr("find", entities.KindGenre, "", findErr)
		}
		return existing, Reused, nil
	}
	if err != nil {
		return nil, "", storeErr("create", entities.KindGenre, "", err)
	}
	return genre, Created, nil
}
