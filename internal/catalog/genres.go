package catalog

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/locallibrary/internal/entities"
)

type GenreDetail struct {
	Genre entities.Genre `json:"genre"`
	Books []BookRef      `json:"books"`
}

// ListGenres returns every genre ordered by name.
func (s *Service) ListGenres(ctx context.Context) ([]entities.Genre, error) {
	genres, err := s.genres.ListGenres(ctx)
	if err != nil {
		return nil, storeErr("list", entities.KindGenre, "", err)
	}
	return genres, nil
}

// GenreDetail fetches a genre and the books in it concurrently.
func (s *Service) GenreDetail(ctx context.Context, id string) (*GenreDetail, error) {
	var (
		genre *entities.Genre
		books []entities.Book
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		genre, err = s.genres.GetGenre(gctx, id)
		return storeErr("get", entities.KindGenre, id, err)
	})
	g.Go(func() (err error) {
		books, err = s.books.ListBooksByGenre(gctx, id)
		return storeErr("list by genre", entities.KindBook, id, err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &GenreDetail{Genre: *genre, Books: bookRefs(books)}, nil
}

func (s *Service) GenreCreateForm(ctx context.Context) (*FormData[entities.Genre], error) {
	return &FormData[entities.Genre]{}, nil
}

func (s *Service) GenreUpdateForm(ctx context.Context, id string) (*FormData[entities.Genre], error) {
	genre, err := s.genres.GetGenre(ctx, id)
	if err != nil {
		return nil, storeErr("get", entities.KindGenre, id, err)
	}
	return &FormData[entities.Genre]{Record: genre}, nil
}

// CreateGenre validates input and resolves it against existing genres: an
// exact name match is returned with Reused set instead of being duplicated.
func (s *Service) CreateGenre(ctx context.Context, input RawInput) (*MutationResult[entities.Genre], error) {
	sub := Validate(GenreSchema, input)
	candidate := &entities.Genre{Name: sub.Text("name")}

	if !sub.Valid() {
		s.invalid(ctx, entities.KindGenre, OpCreate, "", sub.Errors)
		return &MutationResult[entities.Genre]{Record: candidate, Errors: sub.Errors}, nil
	}

	genre, resolution, err := s.resolver.Resolve(ctx, candidate)
	if err != nil {
		return nil, s.failed(ctx, entities.KindGenre, OpCreate, "", err)
	}

	outcome := OutcomeSuccess
	if resolution == Reused {
		outcome = OutcomeReused
	}
	s.notify(ctx, Event{Kind: entities.KindGenre, Op: OpCreate, ID: genre.ID, Label: genre.Name, Outcome: outcome})
	return &MutationResult[entities.Genre]{OK: true, Record: genre, Reused: resolution == Reused}, nil
}

// UpdateGenre renames a genre. Renaming onto a name another genre already
// uses is reported as a field error.
func (s *Service) UpdateGenre(ctx context.Context, id string, input RawInput) (*MutationResult[entities.Genre], error) {
	if _, err := s.genres.GetGenre(ctx, id); err != nil {
		return nil, s.failed(ctx, entities.KindGenre, OpUpdate, id, storeErr("get", entities.KindGenre, id, err))
	}

	sub := Validate(GenreSchema, input)
	genre := &entities.Genre{ID: id, Name: sub.Text("name")}

	if !sub.Valid() {
		s.invalid(ctx, entities.KindGenre, OpUpdate, id, sub.Errors)
		return &MutationResult[entities.Genre]{Record: genre, Errors: sub.Errors}, nil
	}

	err := s.genres.ReplaceGenre(ctx, genre)
	if errors.Is(err, entities.ErrDuplicate) {
		errs := ValidationErrors{{Field: "name", Message: "Genre name already exists", Value: genre.Name}}
		s.invalid(ctx, entities.KindGenre, OpUpdate, id, errs)
		return &MutationResult[entities.Genre]{Record: genre, Errors: errs}, nil
	}
	if err != nil {
		return nil, s.failed(ctx, entities.KindGenre, OpUpdate, id, storeErr("replace", entities.KindGenre, id, err))
	}

	stored, err := s.genres.GetGenre(ctx, id)
	if err != nil {
		return nil, storeErr("get", entities.KindGenre, id, err)
	}
	s.notify(ctx, Event{Kind: entities.KindGenre, Op: OpUpdate, ID: id, Label: stored.Name, Outcome: OutcomeSuccess})
	return &MutationResult[entities.Genre]{OK: true, Record: stored}, nil
}

func (s *Service) GenreDeleteForm(ctx context.Context, id string) (*DeleteForm, error) {
	return s.deleteForm(ctx, entities.KindGenre, id, func(ctx context.Context) (any, error) {
		genre, err := s.genres.GetGenre(ctx, id)
		if err != nil {
			return nil, storeErr("get", entities.KindGenre, id, err)
		}
		return genre, nil
	})
}

// DeleteGenre removes a genre that no book lists.
func (s *Service) DeleteGenre(ctx context.Context, id string) (*DeleteResult, error) {
	return s.remove(ctx, entities.KindGenre, id, s.genres.DeleteGenre)
}
