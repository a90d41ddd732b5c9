package books

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/locallibrary/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "books.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Author{}, &entities.Genre{}, &entities.Book{}, &entities.BookGenre{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return NewRepository(db), db
}

func createGenre(t *testing.T, db *gorm.DB, name string) entities.Genre {
	genre := entities.Genre{Name: name}
	require.NoError(t, db.Create(&genre).Error)
	return genre
}

func TestRepository_CreateBook(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()

	fantasy := createGenre(t, db, "Fantasy")
	classic := createGenre(t, db, "Classic")

	book := &entities.Book{
		Title:    "The Hobbit",
		AuthorID: "author-1",
		Summary:  "There and back again.",
		ISBN:     "9780261102217",
		GenreIDs: []string{fantasy.ID, classic.ID},
	}
	require.NoError(t, repo.CreateBook(ctx, book))
	assert.NotEmpty(t, book.ID)

	stored, err := repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Hobbit", stored.Title)
	assert.Equal(t, "author-1", stored.AuthorID)
	assert.Equal(t, "9780261102217", stored.ISBN)
	assert.Equal(t, []string{fantasy.ID, classic.ID}, stored.GenreIDs)
}

func TestRepository_GetBook_NoGenres(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	book := &entities.Book{Title: "T", AuthorID: "a", Summary: "s", ISBN: "i"}
	require.NoError(t, repo.CreateBook(ctx, book))

	stored, err := repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.GenreIDs)
	assert.Empty(t, stored.GenreIDs)
}

func TestRepository_GetBook_NotFound(t *testing.T) {
	repo, _ := setupTestDB(t)

	_, err := repo.GetBook(context.Background(), "missing")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestRepository_ListBooks(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	for _, title := range []string{"First", "Second", "Third"} {
		require.NoError(t, repo.CreateBook(ctx, &entities.Book{Title: title, AuthorID: "a", Summary: "long summary", ISBN: "i"}))
		time.Sleep(2 * time.Millisecond)
	}

	books, err := repo.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "First", books[0].Title)
	assert.Equal(t, "Third", books[2].Title)
	assert.Equal(t, "a", books[0].AuthorID)
	assert.Empty(t, books[0].Summary, "list is projected to title and author")
	assert.NotNil(t, books[0].GenreIDs)
}

func TestRepository_DependentLookups(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()

	poetry := createGenre(t, db, "Poetry")
	drama := createGenre(t, db, "Drama")

	require.NoError(t, repo.CreateBook(ctx, &entities.Book{Title: "Odes", AuthorID: "keats", Summary: "s", ISBN: "1", GenreIDs: []string{poetry.ID}}))
	require.NoError(t, repo.CreateBook(ctx, &entities.Book{Title: "Endymion", AuthorID: "keats", Summary: "s", ISBN: "2", GenreIDs: []string{poetry.ID, drama.ID}}))
	require.NoError(t, repo.CreateBook(ctx, &entities.Book{Title: "Hamlet", AuthorID: "shakespeare", Summary: "s", ISBN: "3", GenreIDs: []string{drama.ID}}))

	t.Run("by author", func(t *testing.T) {
		books, err := repo.ListBooksByAuthor(ctx, "keats")
		require.NoError(t, err)
		assert.Len(t, books, 2)

		books, err = repo.ListBooksByAuthor(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, books)
		assert.Empty(t, books)
	})

	t.Run("by genre", func(t *testing.T) {
		books, err := repo.ListBooksByGenre(ctx, drama.ID)
		require.NoError(t, err)
		require.Len(t, books, 2)
		titles := []string{books[0].Title, books[1].Title}
		assert.ElementsMatch(t, []string{"Endymion", "Hamlet"}, titles)
	})

	count, err := repo.CountBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestRepository_ReplaceBook(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()

	a := createGenre(t, db, "A")
	b := createGenre(t, db, "B")

	book := &entities.Book{Title: "Draft", AuthorID: "x", Summary: "s", ISBN: "1", GenreIDs: []string{a.ID}}
	require.NoError(t, repo.CreateBook(ctx, book))

	replacement := &entities.Book{ID: book.ID, Title: "Final", AuthorID: "y", Summary: "t", ISBN: "2", GenreIDs: []string{b.ID, a.ID}}
	require.NoError(t, repo.ReplaceBook(ctx, replacement))

	stored, err := repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", stored.Title)
	assert.Equal(t, "y", stored.AuthorID)
	assert.Equal(t, []string{b.ID, a.ID}, stored.GenreIDs)

	err = repo.ReplaceBook(ctx, &entities.Book{ID: "missing", Title: "T"})
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestRepository_DeleteBook(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()

	g := createGenre(t, db, "G")
	book := &entities.Book{Title: "Gone", AuthorID: "x", Summary: "s", ISBN: "1", GenreIDs: []string{g.ID}}
	require.NoError(t, repo.CreateBook(ctx, book))

	deleted, err := repo.DeleteBook(ctx, book.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	var memberships int64
	require.NoError(t, db.Model(&entities.BookGenre{}).Where("book_id = ?", book.ID).Count(&memberships).Error)
	assert.Zero(t, memberships)

	deleted, err = repo.DeleteBook(ctx, book.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
