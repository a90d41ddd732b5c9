package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/locallibrary/internal/entities"
)

// Summary holds the catalog-wide record counts shown on the index page.
type Summary struct {
	BookCount                  int64 `json:"book_count"`
	BookInstanceCount          int64 `json:"book_instance_count"`
	BookInstanceAvailableCount int64 `json:"book_instance_available_count"`
	AuthorCount                int64 `json:"author_count"`
	GenreCount                 int64 `json:"genre_count"`
}

// Summarize runs the five counts concurrently. The first failure cancels the
// remaining queries and no partial summary is returned.
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	var sum Summary
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		sum.BookCount, err = s.books.CountBooks(ctx)
		return storeErr("count", entities.KindBook, "", err)
	})
	g.Go(func() (err error) {
		sum.BookInstanceCount, err = s.instances.CountInstances(ctx)
		return storeErr("count", entities.KindBookInstance, "", err)
	})
	g.Go(func() (err error) {
		sum.BookInstanceAvailableCount, err = s.instances.CountInstancesByStatus(ctx, entities.StatusAvailable)
		return storeErr("count available", entities.KindBookInstance, "", err)
	})
	g.Go(func() (err error) {
		sum.AuthorCount, err = s.authors.CountAuthors(ctx)
		return storeErr("count", entities.KindAuthor, "", err)
	})
	g.Go(func() (err error) {
		sum.GenreCount, err = s.genres.CountGenres(ctx)
		return storeErr("count", entities.KindGenre, "", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &sum, nil
}
