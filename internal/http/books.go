package http

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/locallibrary/internal/catalog"
	"github.com/mrlokans/locallibrary/internal/entities"
)

// BookCatalog defines the catalog operations the book endpoints need.
type BookCatalog interface {
	ListBooks(ctx context.Context) ([]catalog.BookListItem, error)
	BookDetail(ctx context.Context, id string) (*catalog.BookDetail, error)
	BookCreateForm(ctx context.Context) (*catalog.FormData[entities.Book], error)
	CreateBook(ctx context.Context, input catalog.RawInput) (*catalog.MutationResult[entities.Book], error)
	BookUpdateForm(ctx context.Context, id string) (*catalog.FormData[entities.Book], error)
	UpdateBook(ctx context.Context, id string, input catalog.RawInput) (*catalog.MutationResult[entities.Book], error)
	BookDeleteForm(ctx context.Context, id string) (*catalog.DeleteForm, error)
	DeleteBook(ctx context.Context, id string) (*catalog.DeleteResult, error)
}

type BooksController struct {
	catalog BookCatalog
}

func NewBooksController(svc BookCatalog) *BooksController {
	return &BooksController{catalog: svc}
}

// List returns every book with its author
// GET /catalog/books
func (bc *BooksController) List(c *gin.Context) {
	books, err := bc.catalog.ListBooks(c.Request.Context())
	respondRead(c, gin.H{"books": books, "count": len(books)}, err, "list books")
}

// Detail returns a book with its author, genres and copies
// GET /catalog/book/:id
func (bc *BooksController) Detail(c *gin.Context) {
	detail, err := bc.catalog.BookDetail(c.Request.Context(), c.Param("id"))
	respondRead(c, detail, err, "book detail")
}

// CreateForm returns the author and genre choices
// GET /catalog/book/create
func (bc *BooksController) CreateForm(c *gin.Context) {
	form, err := bc.catalog.BookCreateForm(c.Request.Context())
	respondRead(c, form, err, "book create form")
}

// POST /catalog/book/create
func (bc *BooksController) Create(c *gin.Context) {
	input, ok := bindInput(c)
	if !ok {
		return
	}
	res, err := bc.catalog.CreateBook(c.Request.Context(), input)
	respondMutation(c, res, err, true, "create book")
}

// GET /catalog/book/:id/update
func (bc *BooksController) UpdateForm(c *gin.Context) {
	form, err := bc.catalog.BookUpdateForm(c.Request.Context(), c.Param("id"))
	respondRead(c, form, err, "book update form")
}

// POST /catalog/book/:id/update
func (bc *BooksController) Update(c *gin.Context) {
	input, ok := bindInput(c)
	if !ok {
		return
	}
	res, err := bc.catalog.UpdateBook(c.Request.Context(), c.Param("id"), input)
	respondMutation(c, res, err, false, "update book")
}

// GET /catalog/book/:id/delete
func (bc *BooksController) DeleteForm(c *gin.Context) {
	form, err := bc.catalog.BookDeleteForm(c.Request.Context(), c.Param("id"))
	respondRead(c, form, err, "book delete form")
}

// POST /catalog/book/:id/delete
func (bc *BooksController) Delete(c *gin.Context) {
	res, err := bc.catalog.DeleteBook(c.Request.Context(), c.Param("id"))
	respondDelete(c, res, err, "delete book")
}
