// Package books provides database operations for books and their genre
// membership.
//
// A book's genres live in the book_genres table; Position keeps the order in
// which they were submitted so GetBook returns GenreIDs exactly as stored.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetBook(ctx, id)
//	dependents, err := repo.ListBooksByGenre(ctx, genreID)
package books

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/locallibrary/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetBook retrieves a book by ID with its genre IDs.
func (r *Repository) GetBook(ctx context.Context, id string) (*entities.Book, error) {
	db := r.db.WithContext(ctx)

	var book entities.Book
	err := db.Where("id = ?", id).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entities.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	genreIDs, err := genreIDsFor(db, book.ID)
	if err != nil {
		return nil, err
	}
	book.GenreIDs = genreIDs
	return &book, nil
}

// ListBooks retrieves every book in insertion order, projected to ID, title
// and author.
func (r *Repository) ListBooks(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).
		Select("id", "title", "author_id", "created_at").
		Order("created_at ASC, id ASC").
		Find(&books).Error
	return withEmptyGenres(books), err
}

// ListBooksByAuthor retrieves the books written by an author.
func (r *Repository) ListBooksByAuthor(ctx context.Context, authorID string) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).
		Select("id", "title", "author_id", "summary", "created_at").
		Where("author_id = ?", authorID).
		Order("created_at ASC, id ASC").
		Find(&books).Error
	return withEmptyGenres(books), err
}

// ListBooksByGenre retrieves the books that list a genre among theirs.
func (r *Repository) ListBooksByGenre(ctx context.Context, genreID string) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).
		Select("books.id", "books.title", "books.author_id", "books.summary", "books.created_at").
		Joins("JOIN book_genres ON book_genres.book_id = books.id").
		Where("book_genres.genre_id = ?", genreID).
		Order("books.created_at ASC, books.id ASC").
		Find(&books).Error
	return withEmptyGenres(books), err
}

// CountBooks returns the number of stored books.
func (r *Repository) CountBooks(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Count(&count).Error
	return count, err
}

// CreateBook inserts a book and its genre membership in one transaction.
func (r *Repository) CreateBook(ctx context.Context, book *entities.Book) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(book).Error; err != nil {
			return err
		}
		return setGenres(tx, book.ID, book.GenreIDs)
	})
}

// ReplaceBook overwrites an existing book and its genre membership, keeping its ID.
func (r *Repository) ReplaceBook(ctx context.Context, book *entities.Book) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.Book{}).
			Where("id = ?", book.ID).
			Updates(map[string]any{
				"title":     book.Title,
				"author_id": book.AuthorID,
				"summary":   book.Summary,
				"isbn":      book.ISBN,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return entities.ErrNotFound
		}
		if err := tx.Where("book_id = ?", book.ID).Delete(&entities.BookGenre{}).Error; err != nil {
			return err
		}
		return setGenres(tx, book.ID, book.GenreIDs)
	})
}

// DeleteBook removes a book and its genre membership rows.
// Returns false when no book matched.
func (r *Repository) DeleteBook(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&entities.BookGenre{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&entities.Book{})
		deleted = result.RowsAffected > 0
		return result.Error
	})
	return deleted, err
}

func setGenres(tx *gorm.DB, bookID string, genreIDs []string) error {
	if len(genreIDs) == 0 {
		return nil
	}
	rows := make([]entities.BookGenre, 0, len(genreIDs))
	for i, genreID := range genreIDs {
		rows = append(rows, entities.BookGenre{BookID: bookID, GenreID: genreID, Position: i})
	}
	return tx.Create(&rows).Error
}

func genreIDsFor(db *gorm.DB, bookID string) ([]string, error) {
	genreIDs := []string{}
	err := db.Model(&entities.BookGenre{}).
		Where("book_id = ?", bookID).
		Order("position ASC").
		Pluck("genre_id", &genreIDs).Error
	return genreIDs, err
}

func withEmptyGenres(books []entities.Book) []entities.Book {
	if books == nil {
		return []entities.Book{}
	}
	for i := range books {
		if books[i].GenreIDs == nil {
			books[i].GenreIDs = []string{}
		}
	}
	return books
}
