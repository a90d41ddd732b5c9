package http

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/locallibrary/internal/catalog"
	"github.com/mrlokans/locallibrary/internal/entities"
)

// GenreCatalog defines the catalog operations the genre endpoints need.
type GenreCatalog interface {
	ListGenres(ctx context.Context) ([]entities.Genre, error)
	GenreDetail(ctx context.Context, id string) (*catalog.GenreDetail, error)
	GenreCreateForm(ctx context.Context) (*catalog.FormData[entities.Genre], error)
	CreateGenre(ctx context.Context, input catalog.RawInput) (*catalog.MutationResult[entities.Genre], error)
	GenreUpdateForm(ctx context.Context, id string) (*catalog.FormData[entities.Genre], error)
	UpdateGenre(ctx context.Context, id string, input catalog.RawInput) (*catalog.MutationResult[entities.Genre], error)
	GenreDeleteForm(ctx context.Context, id string) (*catalog.DeleteForm, error)
	DeleteGenre(ctx context.Context, id string) (*catalog.DeleteResult, error)
}

type GenresController struct {
	catalog GenreCatalog
}

func NewGenresController(svc GenreCatalog) *GenresController {
	return &GenresController{catalog: svc}
}

// List returns all genres ordered by name
// GET /catalog/genres
func (gc *GenresController) List(c *gin.Context) {
	genres, err := gc.catalog.ListGenres(c.Request.Context())
	respondRead(c, gin.H{"genres": genres, "count": len(genres)}, err, "list genres")
}

// Detail returns a genre with the books in it
// GET /catalog/genre/:id
func (gc *GenresController) Detail(c *gin.Context) {
	detail, err := gc.catalog.GenreDetail(c.Request.Context(), c.Param("id"))
	respondRead(c, detail, err, "genre detail")
}

// GET /catalog/genre/create
func (gc *GenresController) CreateForm(c *gin.Context) {
	form, err := gc.catalog.GenreCreateForm(c.Request.Context())
	respondRead(c, form, err, "genre create form")
}

// Create stores a genre, or returns the existing one with the same name (200, reused)
// POST /catalog/genre/create
func (gc *GenresController) Create(c *gin.Context) {
	input, ok := bindInput(c)
	if !ok {
		return
	}
	res, err := gc.catalog.CreateGenre(c.Request.Context(), input)
	respondMutation(c, res, err, true, "create genre")
}

// GET /catalog/genre/:id/update
func (gc *GenresController) UpdateForm(c *gin.Context) {
	form, err := gc.catalog.GenreUpdateForm(c.Request.Context(), c.Param("id"))
	respondRead(c, form, err, "genre update form")
}

// POST /catalog/genre/:id/update
func (gc *GenresController) Update(c *gin.Context) {
	input, ok := bindInput(c)
	if !ok {
		return
	}
	res, err := gc.catalog.UpdateGenre(c.Request.Context(), c.Param("id"), input)
	respondMutation(c, res, err, false, "update genre")
}

// GET /catalog/genre/:id/delete
func (gc *GenresController) DeleteForm(c *gin.Context) {
	form, err := gc.catalog.GenreDeleteForm(c.Request.Context(), c.Param("id"))
	respondRead(c, form, err, "genre delete form")
}

// POST /catalog/genre/:id/delete
func (gc *GenresController) Delete(c *gin.Context) {
	res, err := gc.catalog.DeleteGenre(c.Request.Context(), c.Param("id"))
	respondDelete(c, res, err, "delete genre")
}
