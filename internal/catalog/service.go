// Package catalog implements the library catalog: validated mutations,
// delete guarding, genre deduplication and the concurrent read paths that
// assemble summaries, details and form data from the record stores.
package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/locallibrary/internal/entities"
)

// AuthorStore defines the author operations the catalog needs.
type AuthorStore interface {
	GetAuthor(ctx context.Context, id string) (*entities.Author, error)
	ListAuthors(ctx context.Context) ([]entities.Author, error)
	CountAuthors(ctx context.Context) (int64, error)
	CreateAuthor(ctx context.Context, author *entities.Author) error
	ReplaceAuthor(ctx context.Context, author *entities.Author) error
	DeleteAuthor(ctx context.Context, id string) (bool, error)
}

// GenreStore defines the genre operations the catalog needs.
type GenreStore interface {
	GetGenre(ctx context.Context, id string) (*entities.Genre, error)
	FindGenreByName(ctx context.Context, name string) (*entities.Genre, error)
	ListGenres(ctx context.Context) ([]entities.Genre, error)
	GetGenresByIDs(ctx context.Context, ids []string) ([]entities.Genre, error)
	CountGenres(ctx context.Context) (int64, error)
	CreateGenre(ctx context.Context, genre *entities.Genre) error
	ReplaceGenre(ctx context.Context, genre *entities.Genre) error
	DeleteGenre(ctx context.Context, id string) (bool, error)
}

// BookStore defines the book operations the catalog needs.
type BookStore interface {
	GetBook(ctx context.Context, id string) (*entities.Book, error)
	ListBooks(ctx context.Context) ([]entities.Book, error)
	ListBooksByAuthor(ctx context.Context, authorID string) ([]entities.Book, error)
	ListBooksByGenre(ctx context.Context, genreID string) ([]entities.Book, error)
	CountBooks(ctx context.Context) (int64, error)
	CreateBook(ctx context.Context, book *entities.Book) error
	ReplaceBook(ctx context.Context, book *entities.Book) error
	DeleteBook(ctx context.Context, id string) (bool, error)
}

// InstanceStore defines the book instance operations the catalog needs.
type InstanceStore interface {
	GetInstance(ctx context.Context, id string) (*entities.BookInstance, error)
	ListInstances(ctx context.Context) ([]entities.BookInstance, error)
	ListInstancesByBook(ctx context.Context, bookID string) ([]entities.BookInstance, error)
	CountInstances(ctx context.Context) (int64, error)
	CountInstancesByStatus(ctx context.Context, status entities.BookInstanceStatus) (int64, error)
	CreateInstance(ctx context.Context, instance *entities.BookInstance) error
	ReplaceInstance(ctx context.Context, instance *entities.BookInstance) error
	DeleteInstance(ctx context.Context, id string) (bool, error)
}

// Stores groups the per-kind stores the service is built from.
type Stores struct {
	Authors   AuthorStore
	Genres    GenreStore
	Books     BookStore
	Instances InstanceStore
}

type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeReused  Outcome = "reused"
	OutcomeInvalid Outcome = "invalid"
	OutcomeBlocked Outcome = "blocked"
	OutcomeGone    Outcome = "gone"
	OutcomeError   Outcome = "error"
)

// Event describes one finished mutation attempt. RequestID is taken from
// the context the mutation ran under, see WithRequestID.
type Event struct {
	Kind      entities.Kind
	Op        Operation
	ID        string
	Label     string
	Outcome   Outcome
	Err       error
	RequestID string
}

type requestIDKey struct{}

// WithRequestID tags ctx so events raised under it carry id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Observer is notified after every mutation attempt.
type Observer interface {
	Observe(ctx context.Context, e Event)
}

type Option func(*Service)

func WithObserver(o Observer) Option {
	return func(s *Service) {
		s.observers = append(s.observers, o)
	}
}

type Service struct {
	authors   AuthorStore
	genres    GenreStore
	books     BookStore
	instances InstanceStore

	guard     *Guard
	resolver  *GenreResolver
	observers []Observer
}

func NewService(stores Stores, opts ...Option) *Service {
	s := &Service{
		authors:   stores.Authors,
		genres:    stores.Genres,
		books:     stores.Books,
		instances: stores.Instances,
		guard:     NewGuard(stores.Books, stores.Instances),
		resolver:  NewGenreResolver(stores.Genres),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CanDelete exposes the integrity guard.
func (s *Service) CanDelete(ctx context.Context, kind entities.Kind, id string) (bool, []Dependent, error) {
	return s.guard.CanDelete(ctx, kind, id)
}

func (s *Service) notify(ctx context.Context, e Event) {
	e.RequestID = RequestIDFrom(ctx)
	for _, o := range s.observers {
		o.Observe(ctx, e)
	}
}

// MutationResult is the response to a create or update. On failure Record
// holds the sanitized candidate and Form the data needed to redisplay it.
type MutationResult[T any] struct {
	OK     bool             `json:"success"`
	Record *T               `json:"record"`
	Errors ValidationErrors `json:"errors,omitempty"`
	Form   any              `json:"form,omitempty"`
	Reused bool             `json:"reused,omitempty"`
}

// FormData is the response to a create-form or update-form request.
type FormData[T any] struct {
	Record *T  `json:"record,omitempty"`
	Form   any `json:"form,omitempty"`
}

// DeleteForm shows a record together with whatever blocks its deletion.
type DeleteForm struct {
	Kind       entities.Kind `json:"kind"`
	ID         string        `json:"id"`
	Record     any           `json:"record"`
	Dependents []Dependent   `json:"dependents"`
}

// DeleteResult is the response to a delete. A blocked delete carries the
// violation; deleting a record that is already gone still succeeds.
type DeleteResult struct {
	OK          bool                `json:"success"`
	Kind        entities.Kind       `json:"kind"`
	ID          string              `json:"id"`
	AlreadyGone bool                `json:"already_gone,omitempty"`
	Violation   *IntegrityViolation `json:"violation,omitempty"`
}

func (s *Service) deleteForm(ctx context.Context, kind entities.Kind, id string, get func(ctx context.Context) (any, error)) (*DeleteForm, error) {
	form := &DeleteForm{Kind: kind, ID: id}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		record, err := get(gctx)
		if err != nil {
			return err
		}
		form.Record = record
		return nil
	})
	g.Go(func() error {
		_, dependents, err := s.guard.CanDelete(gctx, kind, id)
		form.Dependents = dependents
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return form, nil
}

// remove runs the guard and, when nothing depends on the record, deletes it.
// The check and the delete are separate statements; see DESIGN.md.
func (s *Service) remove(ctx context.Context, kind entities.Kind, id string, del func(ctx context.Context, id string) (bool, error)) (*DeleteResult, error) {
	allowed, dependents, err := s.guard.CanDelete(ctx, kind, id)
	if err != nil {
		s.notify(ctx, Event{Kind: kind, Op: OpDelete, ID: id, Outcome: OutcomeError, Err: err})
		return nil, err
	}
	if !allowed {
		violation := &IntegrityViolation{Kind: kind, ID: id, Dependents: dependents}
		s.notify(ctx, Event{Kind: kind, Op: OpDelete, ID: id, Outcome: OutcomeBlocked, Err: violation})
		return &DeleteResult{Kind: kind, ID: id, Violation: violation}, nil
	}

	removed, err := del(ctx, id)
	if err != nil {
		err = storeErr("delete", kind, id, err)
		s.notify(ctx, Event{Kind: kind, Op: OpDelete, ID: id, Outcome: OutcomeError, Err: err})
		return nil, err
	}

	outcome := OutcomeSuccess
	if !removed {
		outcome = OutcomeGone
	}
	s.notify(ctx, Event{Kind: kind, Op: OpDelete, ID: id, Outcome: outcome})
	return &DeleteResult{OK: true, Kind: kind, ID: id, AlreadyGone: !removed}, nil
}

// failed reports a store failure of a create or update to the observers.
func (s *Service) failed(ctx context.Context, kind entities.Kind, op Operation, id string, err error) error {
	s.notify(ctx, Event{Kind: kind, Op: op, ID: id, Outcome: OutcomeError, Err: err})
	return err
}

func (s *Service) invalid(ctx context.Context, kind entities.Kind, op Operation, id string, errs ValidationErrors) {
	s.notify(ctx, Event{Kind: kind, Op: op, ID: id, Outcome: OutcomeInvalid, Err: errs})
}
