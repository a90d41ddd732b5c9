package catalog

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/locallibrary/internal/entities"
)

type BookRef struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
}

type BookListItem struct {
	ID     string     `json:"id"`
	Title  string     `json:"title"`
	Author *AuthorRef `json:"author"`
}

type BookDetail struct {
	Book      entities.Book           `json:"book"`
	Author    *AuthorRef              `json:"author"`
	Genres    []entities.Genre        `json:"genres"`
	Instances []entities.BookInstance `json:"instances"`
}

// GenreOption pairs a genre with whether the book being edited lists it.
type GenreOption struct {
	entities.Genre
	Selected bool `json:"selected"`
}

type BookForm struct {
	Authors []AuthorRef   `json:"authors"`
	Genres  []GenreOption `json:"genres"`
}

func bookRefs(books []entities.Book) []BookRef {
	refs := make([]BookRef, 0, len(books))
	for _, b := range books {
		refs = append(refs, BookRef{ID: b.ID, Title: b.Title, Summary: b.Summary})
	}
	return refs
}

func authorRefs(authors []entities.Author) []AuthorRef {
	refs := make([]AuthorRef, 0, len(authors))
	for _, a := range authors {
		refs = append(refs, AuthorRef{ID: a.ID, Name: a.Name()})
	}
	return refs
}

// genreOptions marks the genres whose IDs are in selected. The fetched
// genres are copied, never modified.
func genreOptions(genres []entities.Genre, selected []string) []GenreOption {
	marked := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		marked[id] = struct{}{}
	}
	options := make([]GenreOption, 0, len(genres))
	for _, g := range genres {
		_, ok := marked[g.ID]
		options = append(options, GenreOption{Genre: g, Selected: ok})
	}
	return options
}

// ListBooks returns every book with its author's name, in insertion order.
func (s *Service) ListBooks(ctx context.Context) ([]BookListItem, error) {
	var (
		books   []entities.Book
		authors []entities.Author
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		books, err = s.books.ListBooks(gctx)
		return storeErr("list", entities.KindBook, "", err)
	})
	g.Go(func() (err error) {
		authors, err = s.authors.ListAuthors(gctx)
		return storeErr("list", entities.KindAuthor, "", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[string]AuthorRef, len(authors))
	for _, ref := range authorRefs(authors) {
		byID[ref.ID] = ref
	}
	items := make([]BookListItem, 0, len(books))
	for _, b := range books {
		item := BookListItem{ID: b.ID, Title: b.Title}
		if ref, ok := byID[b.AuthorID]; ok {
			item.Author = &ref
		}
		items = append(items, item)
	}
	return items, nil
}

// BookDetail fetches a book and its copies concurrently, then its author and
// genres concurrently.
func (s *Service) BookDetail(ctx context.Context, id string) (*BookDetail, error) {
	var (
		book      *entities.Book
		instances []entities.BookInstance
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		book, err = s.books.GetBook(gctx, id)
		return storeErr("get", entities.KindBook, id, err)
	})
	g.Go(func() (err error) {
		instances, err = s.instances.ListInstancesByBook(gctx, id)
		return storeErr("list by book", entities.KindBookInstance, id, err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	detail := &BookDetail{Book: *book, Instances: instances}
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		author, err := s.authors.GetAuthor(gctx, book.AuthorID)
		if errors.Is(err, entities.ErrNotFound) {
			return nil
		}
		if err != nil {
			return storeErr("get", entities.KindAuthor, book.AuthorID, err)
		}
		detail.Author = &AuthorRef{ID: author.ID, Name: author.Name()}
		return nil
	})
	g.Go(func() (err error) {
		detail.Genres, err = s.genres.GetGenresByIDs(gctx, book.GenreIDs)
		return storeErr("get", entities.KindGenre, "", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}

// bookForm loads the author and genre lists concurrently and marks the
// genres listed by selected.
func (s *Service) bookForm(ctx context.Context, selected []string) (*BookForm, error) {
	var (
		authors []entities.Author
		genres  []entities.Genre
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		authors, err = s.authors.ListAuthors(gctx)
		return storeErr("list", entities.KindAuthor, "", err)
	})
	g.Go(func() (err error) {
		genres, err = s.genres.ListGenres(gctx)
		return storeErr("list", entities.KindGenre, "", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &BookForm{Authors: authorRefs(authors), Genres: genreOptions(genres, selected)}, nil
}

// BookCreateForm returns the author and genre choices for a new book.
func (s *Service) BookCreateForm(ctx context.Context) (*FormData[entities.Book], error) {
	form, err := s.bookForm(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &FormData[entities.Book]{Form: form}, nil
}

// BookUpdateForm returns the book with its genres marked among all choices.
func (s *Service) BookUpdateForm(ctx context.Context, id string) (*FormData[entities.Book], error) {
	var (
		book    *entities.Book
		authors []entities.Author
		genres  []entities.Genre
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		book, err = s.books.GetBook(gctx, id)
		return storeErr("get", entities.KindBook, id, err)
	})
	g.Go(func() (err error) {
		authors, err = s.authors.ListAuthors(gctx)
		return storeErr("list", entities.KindAuthor, "", err)
	})
	g.Go(func() (err error) {
		genres, err = s.genres.ListGenres(gctx)
		return storeErr("list", entities.KindGenre, "", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	form := &BookForm{Authors: authorRefs(authors), Genres: genreOptions(genres, book.GenreIDs)}
	return &FormData[entities.Book]{Record: book, Form: form}, nil
}

func decodeBook(sub *Submission) *entities.Book {
	return &entities.Book{
		Title:    sub.Text("title"),
		AuthorID: sub.Text("author"),
		Summary:  sub.Text("summary"),
		ISBN:     sub.Text("isbn"),
		GenreIDs: uniqueStrings(sub.List("genre")),
	}
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func (s *Service) rejectBook(ctx context.Context, op Operation, book *entities.Book, errs ValidationErrors) (*MutationResult[entities.Book], error) {
	s.invalid(ctx, entities.KindBook, op, book.ID, errs)
	form, err := s.bookForm(ctx, book.GenreIDs)
	if err != nil {
		return nil, err
	}
	return &MutationResult[entities.Book]{Record: book, Errors: errs, Form: form}, nil
}

// CreateBook validates input and stores a new book with its genres.
func (s *Service) CreateBook(ctx context.Context, input RawInput) (*MutationResult[entities.Book], error) {
	sub := Validate(BookSchema, input)
	book := decodeBook(sub)

	if !sub.Valid() {
		return s.rejectBook(ctx, OpCreate, book, sub.Errors)
	}

	if err := s.books.CreateBook(ctx, book); err != nil {
		return nil, s.failed(ctx, entities.KindBook, OpCreate, "", storeErr("create", entities.KindBook, "", err))
	}

	s.notify(ctx, Event{Kind: entities.KindBook, Op: OpCreate, ID: book.ID, Label: book.Title, Outcome: OutcomeSuccess})
	return &MutationResult[entities.Book]{OK: true, Record: book}, nil
}

// UpdateBook validates input and replaces the stored book, keeping its ID.
func (s *Service) UpdateBook(ctx context.Context, id string, input RawInput) (*MutationResult[entities.Book], error) {
	if _, err := s.books.GetBook(ctx, id); err != nil {
		return nil, s.failed(ctx, entities.KindBook, OpUpdate, id, storeErr("get", entities.KindBook, id, err))
	}

	sub := Validate(BookSchema, input)
	book := decodeBook(sub)
	book.ID = id

	if !sub.Valid() {
		return s.rejectBook(ctx, OpUpdate, book, sub.Errors)
	}

	if err := s.books.ReplaceBook(ctx, book); err != nil {
		return nil, s.failed(ctx, entities.KindBook, OpUpdate, id, storeErr("replace", entities.KindBook, id, err))
	}

	stored, err := s.books.GetBook(ctx, id)
	if err != nil {
		return nil, storeErr("get", entities.KindBook, id, err)
	}
	s.notify(ctx, Event{Kind: entities.KindBook, Op: OpUpdate, ID: id, Label: stored.Title, Outcome: OutcomeSuccess})
	return &MutationResult[entities.Book]{OK: true, Record: stored}, nil
}

func (s *Service) BookDeleteForm(ctx context.Context, id string) (*DeleteForm, error) {
	return s.deleteForm(ctx, entities.KindBook, id, func(ctx context.Context) (any, error) {
		book, err := s.books.GetBook(ctx, id)
		if err != nil {
			return nil, storeErr("get", entities.KindBook, id, err)
		}
		return book, nil
	})
}

// DeleteBook removes a book that has no copies.
func (s *Service) DeleteBook(ctx context.Context, id string) (*DeleteResult, error) {
	return s.remove(ctx, entities.KindBook, id, s.books.DeleteBook)
}
