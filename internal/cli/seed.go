package cli

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/mrlokans/locallibrary/internal/catalog"
	"github.com/mrlokans/locallibrary/internal/entities"
	"github.com/mrlokans/locallibrary/internal/entrypoint"
)

// Seeder is the subset of the catalog the seed command writes through.
type Seeder interface {
	CreateAuthor(ctx context.Context, input catalog.RawInput) (*catalog.MutationResult[catalog.AuthorView], error)
	CreateGenre(ctx context.Context, input catalog.RawInput) (*catalog.MutationResult[entities.Genre], error)
	CreateBook(ctx context.Context, input catalog.RawInput) (*catalog.MutationResult[entities.Book], error)
	CreateInstance(ctx context.Context, input catalog.RawInput) (*catalog.MutationResult[entities.BookInstance], error)
}

func newSeedCommand() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the catalog with public domain demo books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := offlineConfig(dbPath)
			app, err := entrypoint.NewApp(cfg)
			if err != nil {
				return err
			}
			defer app.Shutdown(context.Background())

			log.Printf("Seeding catalog at %s...", cfg.Database.Path)
			return Seed(cmd.Context(), app.Catalog, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "Path to the catalog database (default: DATABASE_PATH)")
	return cmd
}

type seedCopy struct {
	Imprint string
	Status  entities.BookInstanceStatus
	DueBack string
}

type seedBook struct {
	Title   string
	Summary string
	ISBN    string
	Genres  []string
	Copies  []seedCopy
}

type seedAuthor struct {
	FirstName   string
	FamilyName  string
	DateOfBirth string
	DateOfDeath string
	Books       []seedBook
}

func publicDomainAuthors() []seedAuthor {
	return []seedAuthor{
		{
			FirstName: "Marcus", FamilyName: "Aurelius",
			Books: []seedBook{{
				Title:   "Meditations",
				Summary: "Private notes of a Roman emperor on Stoic philosophy and self-discipline.",
				ISBN:    "9780140449334",
				Genres:  []string{"Philosophy", "Classic"},
				Copies: []seedCopy{
					{Imprint: "Penguin Classics, 2006", Status: entities.StatusAvailable},
					{Imprint: "Penguin Classics, 2006", Status: entities.StatusLoaned, DueBack: "2026-11-01"},
				},
			}},
		},
		{
			FirstName: "Charles", FamilyName: "Darwin", DateOfBirth: "1809-02-12", DateOfDeath: "1882-04-19",
			Books: []seedBook{{
				Title:   "On the Origin of Species",
				Summary: "The foundational account of evolution by natural selection.",
				ISBN:    "9780451529060",
				Genres:  []string{"Science", "Classic"},
				Copies: []seedCopy{
					{Imprint: "Signet Classics, 2003", Status: entities.StatusAvailable},
					{Imprint: "John Murray, 1859", Status: entities.StatusMaintenance},
				},
			}},
		},
		{
			FirstName: "Mary", FamilyName: "Shelley", DateOfBirth: "1797-08-30", DateOfDeath: "1851-02-01",
			Books: []seedBook{{
				Title:   "Frankenstein",
				Summary: "A young scientist creates a sapient creature and is undone by it.",
				ISBN:    "9780141439471",
				Genres:  []string{"Fiction", "Science Fiction", "Classic"},
				Copies: []seedCopy{
					{Imprint: "Penguin Classics, 2003", Status: entities.StatusReserved},
				},
			}},
		},
		{
			FirstName: "Herbert George", FamilyName: "Wells", DateOfBirth: "1866-09-21", DateOfDeath: "1946-08-13",
			Books: []seedBook{
				{
					Title:   "The Time Machine",
					Summary: "A Victorian inventor travels to the distant future of mankind.",
					ISBN:    "9780451530707",
					Genres:  []string{"Science Fiction", "Fiction"},
					Copies: []seedCopy{
						{Imprint: "Signet Classics, 2002", Status: entities.StatusAvailable},
					},
				},
				{
					Title:   "The War of the Worlds",
					Summary: "Martians invade southern England.",
					ISBN:    "9780141441030",
					Genres:  []string{"Science Fiction"},
				},
			},
		},
		{
			FirstName: "Jane", FamilyName: "Austen", DateOfBirth: "1775-12-16", DateOfDeath: "1817-07-18",
			Books: []seedBook{{
				Title:   "Pride and Prejudice",
				Summary: "Elizabeth Bennet and Mr Darcy overcome first impressions.",
				ISBN:    "9780141439518",
				Genres:  []string{"Fiction", "Classic"},
				Copies: []seedCopy{
					{Imprint: "Penguin Classics, 2002"},
				},
			}},
		},
	}
}

// Seed creates the demo authors, genres, books and copies through the
// catalog so every record passes validation. Genres are created once per
// name and reused afterwards. Running it twice duplicates authors and books.
func Seed(ctx context.Context, svc Seeder, out io.Writer) error {
	genreIDs := make(map[string]string)
	var books, copies int

	for _, a := range publicDomainAuthors() {
		author, err := svc.CreateAuthor(ctx, catalog.RawInput{
			"first_name":    a.FirstName,
			"family_name":   a.FamilyName,
			"date_of_birth": a.DateOfBirth,
			"date_of_death": a.DateOfDeath,
		})
		if err := checkSeed("author", a.FamilyName, author, err); err != nil {
			return err
		}

		for _, b := range a.Books {
			genres := make([]string, 0, len(b.Genres))
			for _, name := range b.Genres {
				if id, ok := genreIDs[name]; ok {
					genres = append(genres, id)
					continue
				}
				genre, err := svc.CreateGenre(ctx, catalog.RawInput{"name": name})
				if err := checkSeed("genre", name, genre, err); err != nil {
					return err
				}
				genreIDs[name] = genre.Record.ID
				genres = append(genres, genre.Record.ID)
			}

			book, err := svc.CreateBook(ctx, catalog.RawInput{
				"title":   b.Title,
				"author":  author.Record.ID,
				"summary": b.Summary,
				"isbn":    b.ISBN,
				"genre":   genres,
			})
			if err := checkSeed("book", b.Title, book, err); err != nil {
				return err
			}
			books++
			fmt.Fprintf(out, "Saved: %s by %s (%d copies)\n", b.Title, author.Record.Name, len(b.Copies))

			for _, c := range b.Copies {
				instance, err := svc.CreateInstance(ctx, catalog.RawInput{
					"book":     book.Record.ID,
					"imprint":  c.Imprint,
					"status":   string(c.Status),
					"due_back": c.DueBack,
				})
				if err := checkSeed("copy", c.Imprint, instance, err); err != nil {
					return err
				}
				copies++
			}
		}
	}

	fmt.Fprintf(out, "Seeded %d books, %d copies and %d genres\n", books, copies, len(genreIDs))
	return nil
}

func checkSeed[T any](kind, label string, res *catalog.MutationResult[T], err error) error {
	if err != nil {
		return fmt.Errorf("seed %s %q: %w", kind, label, err)
	}
	if !res.OK {
		return fmt.Errorf("seed %s %q: %w", kind, label, res.Errors)
	}
	return nil
}
