package http

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/locallibrary/internal/catalog"
	"github.com/mrlokans/locallibrary/internal/entities"
)

// InstanceCatalog defines the catalog operations the book instance endpoints need.
type InstanceCatalog interface {
	ListInstances(ctx context.Context) ([]catalog.InstanceListItem, error)
	InstanceDetail(ctx context.Context, id string) (*catalog.InstanceDetail, error)
	InstanceCreateForm(ctx context.Context) (*catalog.FormData[entities.BookInstance], error)
	CreateInstance(ctx context.Context, input catalog.RawInput) (*catalog.MutationResult[entities.BookInstance], error)
	InstanceUpdateForm(ctx context.Context, id string) (*catalog.FormData[entities.BookInstance], error)
	UpdateInstance(ctx context.Context, id string, input catalog.RawInput) (*catalog.MutationResult[entities.BookInstance], error)
	InstanceDeleteForm(ctx context.Context, id string) (*catalog.DeleteForm, error)
	DeleteInstance(ctx context.Context, id string) (*catalog.DeleteResult, error)
}

type InstancesController struct {
	catalog InstanceCatalog
}

func NewInstancesController(svc InstanceCatalog) *InstancesController {
	return &InstancesController{catalog: svc}
}

// GET /catalog/bookinstances
func (ic *InstancesController) List(c *gin.Context) {
	instances, err := ic.catalog.ListInstances(c.Request.Context())
	respondRead(c, gin.H{"bookinstances": instances, "count": len(instances)}, err, "list book instances")
}

// GET /catalog/bookinstance/:id
func (ic *InstancesController) Detail(c *gin.Context) {
	detail, err := ic.catalog.InstanceDetail(c.Request.Context(), c.Param("id"))
	respondRead(c, detail, err, "book instance detail")
}

// CreateForm returns the book titles and statuses
// GET /catalog/bookinstance/create
func (ic *InstancesController) CreateForm(c *gin.Context) {
	form, err := ic.catalog.InstanceCreateForm(c.Request.Context())
	respondRead(c, form, err, "book instance create form")
}

// POST /catalog/bookinstance/create
func (ic *InstancesController) Create(c *gin.Context) {
	input, ok := bindInput(c)
	if !ok {
		return
	}
	res, err := ic.catalog.CreateInstance(c.Request.Context(), input)
	respondMutation(c, res, err, true, "create book instance")
}

// GET /catalog/bookinstance/:id/update
func (ic *InstancesController) UpdateForm(c *gin.Context) {
	form, err := ic.catalog.InstanceUpdateForm(c.Request.Context(), c.Param("id"))
	respondRead(c, form, err, "book instance update form")
}

// POST /catalog/bookinstance/:id/update
func (ic *InstancesController) Update(c *gin.Context) {
	input, ok := bindInput(c)
	if !ok {
		return
	}
	res, err := ic.catalog.UpdateInstance(c.Request.Context(), c.Param("id"), input)
	respondMutation(c, res, err, false, "update book instance")
}

// GET /catalog/bookinstance/:id/delete
func (ic *InstancesController) DeleteForm(c *gin.Context) {
	form, err := ic.catalog.InstanceDeleteForm(c.Request.Context(), c.Param("id"))
	respondRead(c, form, err, "book instance delete form")
}

// POST /catalog/bookinstance/:id/delete
func (ic *InstancesController) Delete(c *gin.Context) {
	res, err := ic.catalog.DeleteInstance(c.Request.Context(), c.Param("id"))
	respondDelete(c, res, err, "delete book instance")
}
