package http

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/locallibrary/internal/catalog"
)

// AuthorCatalog defines the catalog operations the author endpoints need.
type AuthorCatalog interface {
	ListAuthors(ctx context.Context) ([]catalog.AuthorView, error)
	AuthorDetail(ctx context.Context, id string) (*catalog.AuthorDetail, error)
	AuthorCreateForm(ctx context.Context) (*catalog.FormData[catalog.AuthorView], error)
	CreateAuthor(ctx context.Context, input catalog.RawInput) (*catalog.MutationResult[catalog.AuthorView], error)
	AuthorUpdateForm(ctx context.Context, id string) (*catalog.FormData[catalog.AuthorView], error)
	UpdateAuthor(ctx context.Context, id string, input catalog.RawInput) (*catalog.MutationResult[catalog.AuthorView], error)
	AuthorDeleteForm(ctx context.Context, id string) (*catalog.DeleteForm, error)
	DeleteAuthor(ctx context.Context, id string) (*catalog.DeleteResult, error)
}

type AuthorsController struct {
	catalog AuthorCatalog
}

func NewAuthorsController(svc AuthorCatalog) *AuthorsController {
	return &AuthorsController{catalog: svc}
}

// List returns all authors
// GET /catalog/authors
func (ac *AuthorsController) List(c *gin.Context) {
	authors, err := ac.catalog.ListAuthors(c.Request.Context())
	respondRead(c, gin.H{"authors": authors, "count": len(authors)}, err, "list authors")
}

// Detail returns an author with their books
// GET /catalog/author/:id
func (ac *AuthorsController) Detail(c *gin.Context) {
	detail, err := ac.catalog.AuthorDetail(c.Request.Context(), c.Param("id"))
	respondRead(c, detail, err, "author detail")
}

// GET /catalog/author/create
func (ac *AuthorsController) CreateForm(c *gin.Context) {
	form, err := ac.catalog.AuthorCreateForm(c.Request.Context())
	respondRead(c, form, err, "author create form")
}

// POST /catalog/author/create
func (ac *AuthorsController) Create(c *gin.Context) {
	input, ok := bindInput(c)
	if !ok {
		return
	}
	res, err := ac.catalog.CreateAuthor(c.Request.Context(), input)
	respondMutation(c, res, err, true, "create author")
}

// GET /catalog/author/:id/update
func (ac *AuthorsController) UpdateForm(c *gin.Context) {
	form, err := ac.catalog.AuthorUpdateForm(c.Request.Context(), c.Param("id"))
	respondRead(c, form, err, "author update form")
}

// POST /catalog/author/:id/update
func (ac *AuthorsController) Update(c *gin.Context) {
	input, ok := bindInput(c)
	if !ok {
		return
	}
	res, err := ac.catalog.UpdateAuthor(c.Request.Context(), c.Param("id"), input)
	respondMutation(c, res, err, false, "update author")
}

// DeleteForm returns the author and the books that block deleting it
// GET /catalog/author/:id/delete
func (ac *AuthorsController) DeleteForm(c *gin.Context) {
	form, err := ac.catalog.AuthorDeleteForm(c.Request.Context(), c.Param("id"))
	respondRead(c, form, err, "author delete form")
}

// POST /catalog/author/:id/delete
func (ac *AuthorsController) Delete(c *gin.Context) {
	res, err := ac.catalog.DeleteAuthor(c.Request.Context(), c.Param("id"))
	respondDelete(c, res, err, "delete author")
}
