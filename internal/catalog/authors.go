package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/locallibrary/internal/entities"
)

// AuthorView adds the derived display fields to an author.
type AuthorView struct {
	entities.Author
	Name     string `json:"name"`
	Lifespan string `json:"lifespan"`
}

func newAuthorView(a entities.Author) AuthorView {
	return AuthorView{Author: a, Name: a.Name(), Lifespan: a.Lifespan()}
}

type AuthorRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AuthorDetail struct {
	Author AuthorView `json:"author"`
	Books  []BookRef  `json:"books"`
}

// ListAuthors returns every author in insertion order.
func (s *Service) ListAuthors(ctx context.Context) ([]AuthorView, error) {
	authors, err := s.authors.ListAuthors(ctx)
	if err != nil {
		return nil, storeErr("list", entities.KindAuthor, "", err)
	}
	views := make([]AuthorView, 0, len(authors))
	for _, a := range authors {
		views = append(views, newAuthorView(a))
	}
	return views, nil
}

// AuthorDetail fetches an author and their books concurrently.
func (s *Service) AuthorDetail(ctx context.Context, id string) (*AuthorDetail, error) {
	var (
		author *entities.Author
		books  []entities.Book
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		author, err = s.authors.GetAuthor(gctx, id)
		return storeErr("get", entities.KindAuthor, id, err)
	})
	g.Go(func() (err error) {
		books, err = s.books.ListBooksByAuthor(gctx, id)
		return storeErr("list by author", entities.KindBook, id, err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &AuthorDetail{Author: newAuthorView(*author), Books: bookRefs(books)}, nil
}

// AuthorCreateForm returns the (empty) data for a new author form.
func (s *Service) AuthorCreateForm(ctx context.Context) (*FormData[AuthorView], error) {
	return &FormData[AuthorView]{}, nil
}

// AuthorUpdateForm returns the author to prefill an edit form.
func (s *Service) AuthorUpdateForm(ctx context.Context, id string) (*FormData[AuthorView], error) {
	author, err := s.authors.GetAuthor(ctx, id)
	if err != nil {
		return nil, storeErr("get", entities.KindAuthor, id, err)
	}
	view := newAuthorView(*author)
	return &FormData[AuthorView]{Record: &view}, nil
}

func decodeAuthor(sub *Submission) *entities.Author {
	return &entities.Author{
		FirstName:   sub.Text("first_name"),
		FamilyName:  sub.Text("family_name"),
		DateOfBirth: sub.Date("date_of_birth"),
		DateOfDeath: sub.Date("date_of_death"),
	}
}

// CreateAuthor validates input and stores a new author.
func (s *Service) CreateAuthor(ctx context.Context, input RawInput) (*MutationResult[AuthorView], error) {
	sub := Validate(AuthorSchema, input)
	author := decodeAuthor(sub)

	if !sub.Valid() {
		s.invalid(ctx, entities.KindAuthor, OpCreate, "", sub.Errors)
		view := newAuthorView(*author)
		return &MutationResult[AuthorView]{Record: &view, Errors: sub.Errors}, nil
	}

	if err := s.authors.CreateAuthor(ctx, author); err != nil {
		return nil, s.failed(ctx, entities.KindAuthor, OpCreate, "", storeErr("create", entities.KindAuthor, "", err))
	}

	view := newAuthorView(*author)
	s.notify(ctx, Event{Kind: entities.KindAuthor, Op: OpCreate, ID: author.ID, Label: view.Name, Outcome: OutcomeSuccess})
	return &MutationResult[AuthorView]{OK: true, Record: &view}, nil
}

// UpdateAuthor validates input and replaces the stored author, keeping its ID.
func (s *Service) UpdateAuthor(ctx context.Context, id string, input RawInput) (*MutationResult[AuthorView], error) {
	if _, err := s.authors.GetAuthor(ctx, id); err != nil {
		return nil, s.failed(ctx, entities.KindAuthor, OpUpdate, id, storeErr("get", entities.KindAuthor, id, err))
	}

	sub := Validate(AuthorSchema, input)
	author := decodeAuthor(sub)
	author.ID = id

	if !sub.Valid() {
		s.invalid(ctx, entities.KindAuthor, OpUpdate, id, sub.Errors)
		view := newAuthorView(*author)
		return &MutationResult[AuthorView]{Record: &view, Errors: sub.Errors}, nil
	}

	if err := s.authors.ReplaceAuthor(ctx, author); err != nil {
		return nil, s.failed(ctx, entities.KindAuthor, OpUpdate, id, storeErr("replace", entities.KindAuthor, id, err))
	}

	stored, err := s.authors.GetAuthor(ctx, id)
	if err != nil {
		return nil, storeErr("get", entities.KindAuthor, id, err)
	}
	view := newAuthorView(*stored)
	s.notify(ctx, Event{Kind: entities.KindAuthor, Op: OpUpdate, ID: id, Label: view.Name, Outcome: OutcomeSuccess})
	return &MutationResult[AuthorView]{OK: true, Record: &view}, nil
}

// AuthorDeleteForm returns the author together with the books blocking its deletion.
func (s *Service) AuthorDeleteForm(ctx context.Context, id string) (*DeleteForm, error) {
	return s.deleteForm(ctx, entities.KindAuthor, id, func(ctx context.Context) (any, error) {
		author, err := s.authors.GetAuthor(ctx, id)
		if err != nil {
			return nil, storeErr("get", entities.KindAuthor, id, err)
		}
		return newAuthorView(*author), nil
	})
}

// DeleteAuthor removes an author that has no books.
func (s *Service) DeleteAuthor(ctx context.Context, id string) (*DeleteResult, error) {
	return s.remove(ctx, entities.KindAuthor, id, s.authors.DeleteAuthor)
}
