package catalog

import (
	"context"

	"github.com/mrlokans/locallibrary/internal/entities"
)

// DependentFinder lists the records of one dependent kind that reference parentID.
type DependentFinder func(ctx context.Context, parentID string) ([]Dependent, error)

// relation is one row of the relationship table: records of Dependent point
// at Parent through Field.
type relation struct {
	Parent    entities.Kind
	Dependent entities.Kind
	Field     string
	Find      DependentFinder
}

// Guard decides whether a record can be deleted without orphaning others.
type Guard struct {
	relations map[entities.Kind][]relation
}

// NewGuard builds the relationship table: books reference authors and genres,
// book instances reference books.
func NewGuard(books BookStore, instances InstanceStore) *Guard {
	g := &Guard{relations: make(map[entities.Kind][]relation)}

	g.add(relation{
		Parent: entities.KindAuthor, Dependent: entities.KindBook, Field: "author",
		Find: func(ctx context.Context, id string) ([]Dependent, error) {
			found, err := books.ListBooksByAuthor(ctx, id)
			return bookDependents(found), err
		},
	})
	g.add(relation{
		Parent: entities.KindGenre, Dependent: entities.KindBook, Field: "genre",
		Find: func(ctx context.Context, id string) ([]Dependent, error) {
			found, err := books.ListBooksByGenre(ctx, id)
			return bookDependents(found), err
		},
	})
	g.add(relation{
		Parent: entities.KindBook, Dependent: entities.KindBookInstance, Field: "book",
		Find: func(ctx context.Context, id string) ([]Dependent, error) {
			found, err := instances.ListInstancesByBook(ctx, id)
			return instanceDependents(found), err
		},
	})

	return g
}

func (g *Guard) add(r relation) {
	g.relations[r.Parent] = append(g.relations[r.Parent], r)
}

// CanDelete reports whether the record kind/id has no dependents. When it
// does, the dependents are returned as found and the delete must not proceed.
func (g *Guard) CanDelete(ctx context.Context, kind entities.Kind, id string) (bool, []Dependent, error) {
	dependents := []Dependent{}
	for _, r := range g.relations[kind] {
		found, err := r.Find(ctx, id)
		if err != nil {
			return false, nil, storeErr("find dependents", r.Dependent, id, err)
		}
		dependents = append(dependents, found...)
	}
	return len(dependents) == 0, dependents, nil
}

func bookDependents(books []entities.Book) []Dependent {
	out := make([]Dependent, 0, len(books))
	for _, b := range books {
		out = append(out, Dependent{Kind: entities.KindBook, ID: b.ID, Label: b.Title, Record: b})
	}
	return out
}

func instanceDependents(instances []entities.BookInstance) []Dependent {
	out := make([]Dependent, 0, len(instances))
	for _, i := range instances {
		out = append(out, Dependent{Kind: entities.KindBookInstance, ID: i.ID, Label: i.Imprint, Record: i})
	}
	return out
}
