package catalog

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/locallibrary/internal/entities"
)

type InstanceListItem struct {
	ID      string                      `json:"id"`
	Imprint string                      `json:"imprint"`
	Status  entities.BookInstanceStatus `json:"status"`
	DueBack *time.Time                  `json:"due_back,omitempty"`
	Book    *BookRef                    `json:"book"`
}

type InstanceDetail struct {
	Instance entities.BookInstance `json:"instance"`
	Book     *BookRef              `json:"book"`
}

type InstanceForm struct {
	Books        []BookRef                     `json:"books"`
	Statuses     []entities.BookInstanceStatus `json:"statuses"`
	SelectedBook string                        `json:"selected_book,omitempty"`
}

// ListInstances returns every copy with its book's title, in insertion order.
func (s *Service) ListInstances(ctx context.Context) ([]InstanceListItem, error) {
	var (
		instances []entities.BookInstance
		books     []entities.Book
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		instances, err = s.instances.ListInstances(gctx)
		return storeErr("list", entities.KindBookInstance, "", err)
	})
	g.Go(func() (err error) {
		books, err = s.books.ListBooks(gctx)
		return storeErr("list", entities.KindBook, "", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[string]BookRef, len(books))
	for _, b := range books {
		byID[b.ID] = BookRef{ID: b.ID, Title: b.Title}
	}
	items := make([]InstanceListItem, 0, len(instances))
	for _, i := range instances {
		item := InstanceListItem{ID: i.ID, Imprint: i.Imprint, Status: i.Status, DueBack: i.DueBack}
		if ref, ok := byID[i.BookID]; ok {
			item.Book = &ref
		}
		items = append(items, item)
	}
	return items, nil
}

// InstanceDetail fetches a copy and then the book it belongs to.
func (s *Service) InstanceDetail(ctx context.Context, id string) (*InstanceDetail, error) {
	instance, err := s.instances.GetInstance(ctx, id)
	if err != nil {
		return nil, storeErr("get", entities.KindBookInstance, id, err)
	}

	detail := &InstanceDetail{Instance: *instance}
	book, err := s.books.GetBook(ctx, instance.BookID)
	switch {
	case errors.Is(err, entities.ErrNotFound):
	case err != nil:
		return nil, storeErr("get", entities.KindBook, instance.BookID, err)
	default:
		detail.Book = &BookRef{ID: book.ID, Title: book.Title}
	}
	return detail, nil
}

func (s *Service) instanceForm(ctx context.Context, selected string) (*InstanceForm, error) {
	books, err := s.books.ListBooks(ctx)
	if err != nil {
		return nil, storeErr("list", entities.KindBook, "", err)
	}
	refs := make([]BookRef, 0, len(books))
	for _, b := range books {
		refs = append(refs, BookRef{ID: b.ID, Title: b.Title})
	}
	return &InstanceForm{Books: refs, Statuses: entities.BookInstanceStatuses(), SelectedBook: selected}, nil
}

// InstanceCreateForm returns the book titles and statuses for a new copy.
func (s *Service) InstanceCreateForm(ctx context.Context) (*FormData[entities.BookInstance], error) {
	form, err := s.instanceForm(ctx, "")
	if err != nil {
		return nil, err
	}
	return &FormData[entities.BookInstance]{Form: form}, nil
}

// InstanceUpdateForm fetches the copy and the book choices concurrently.
func (s *Service) InstanceUpdateForm(ctx context.Context, id string) (*FormData[entities.BookInstance], error) {
	var (
		instance *entities.BookInstance
		form     *InstanceForm
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		instance, err = s.instances.GetInstance(gctx, id)
		return storeErr("get", entities.KindBookInstance, id, err)
	})
	g.Go(func() (err error) {
		form, err = s.instanceForm(gctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	form.SelectedBook = instance.BookID
	return &FormData[entities.BookInstance]{Record: instance, Form: form}, nil
}

func decodeInstance(sub *Submission) *entities.BookInstance {
	instance := &entities.BookInstance{
		BookID:  sub.Text("book"),
		Imprint: sub.Text("imprint"),
		Status:  entities.BookInstanceStatus(sub.Text("status")),
		DueBack: sub.Date("due_back"),
	}
	instance.Normalize()
	return instance
}

func (s *Service) rejectInstance(ctx context.Context, op Operation, instance *entities.BookInstance, errs ValidationErrors) (*MutationResult[entities.BookInstance], error) {
	s.invalid(ctx, entities.KindBookInstance, op, instance.ID, errs)
	form, err := s.instanceForm(ctx, instance.BookID)
	if err != nil {
		return nil, err
	}
	return &MutationResult[entities.BookInstance]{Record: instance, Errors: errs, Form: form}, nil
}

// CreateInstance validates input and stores a new copy. A missing status
// defaults to Maintenance; Available copies carry no due date.
func (s *Service) CreateInstance(ctx context.Context, input RawInput) (*MutationResult[entities.BookInstance], error) {
	sub := Validate(BookInstanceSchema, input)
	instance := decodeInstance(sub)

	if !sub.Valid() {
		return s.rejectInstance(ctx, OpCreate, instance, sub.Errors)
	}

	if err := s.instances.CreateInstance(ctx, instance); err != nil {
		return nil, s.failed(ctx, entities.KindBookInstance, OpCreate, "", storeErr("create", entities.KindBookInstance, "", err))
	}

	s.notify(ctx, Event{Kind: entities.KindBookInstance, Op: OpCreate, ID: instance.ID, Label: instance.Imprint, Outcome: OutcomeSuccess})
	return &MutationResult[entities.BookInstance]{OK: true, Record: instance}, nil
}

// UpdateInstance validates input and replaces the stored copy, keeping its ID.
func (s *Service) UpdateInstance(ctx context.Context, id string, input RawInput) (*MutationResult[entities.BookInstance], error) {
	if _, err := s.instances.GetInstance(ctx, id); err != nil {
		return nil, s.failed(ctx, entities.KindBookInstance, OpUpdate, id, storeErr("get", entities.KindBookInstance, id, err))
	}

	sub := Validate(BookInstanceSchema, input)
	instance := decodeInstance(sub)
	instance.ID = id

	if !sub.Valid() {
		return s.rejectInstance(ctx, OpUpdate, instance, sub.Errors)
	}

	if err := s.instances.ReplaceInstance(ctx, instance); err != nil {
		return nil, s.failed(ctx, entities.KindBookInstance, OpUpdate, id, storeErr("replace", entities.KindBookInstance, id, err))
	}

	stored, err := s.instances.GetInstance(ctx, id)
	if err != nil {
		return nil, storeErr("get", entities.KindBookInstance, id, err)
	}
	s.notify(ctx, Event{Kind: entities.KindBookInstance, Op: OpUpdate, ID: id, Label: stored.Imprint, Outcome: OutcomeSuccess})
	return &MutationResult[entities.BookInstance]{OK: true, Record: stored}, nil
}

func (s *Service) InstanceDeleteForm(ctx context.Context, id string) (*DeleteForm, error) {
	return s.deleteForm(ctx, entities.KindBookInstance, id, func(ctx context.Context) (any, error) {
		instance, err := s.instances.GetInstance(ctx, id)
		if err != nil {
			return nil, storeErr("get", entities.KindBookInstance, id, err)
		}
		return instance, nil
	})
}

// DeleteInstance removes a copy. Copies have no dependents.
func (s *Service) DeleteInstance(ctx context.Context, id string) (*DeleteResult, error) {
	return s.remove(ctx, entities.KindBookInstance, id, s.instances.DeleteInstance)
}
