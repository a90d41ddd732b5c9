package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/locallibrary/internal/catalog"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data       any   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	HasMore    bool  `json:"has_more"`
	TotalPages int   `json:"total_pages"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: "not_found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondCatalogError maps a catalog error to its status code.
func respondCatalogError(c *gin.Context, err error, context string) {
	var nf *catalog.NotFoundError
	switch {
	case errors.As(err, &nf):
		respondNotFound(c, string(nf.Kind))
	case errors.Is(err, catalog.ErrNotFound):
		respondNotFound(c, "record")
	default:
		respondInternalError(c, err, context)
	}
}

// --- Success Response Helpers ---

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, data)
}

// respondRead sends the result of a read operation, or the mapped error.
func respondRead(c *gin.Context, data any, err error, context string) {
	if err != nil {
		respondCatalogError(c, err, context)
		return
	}
	c.JSON(http.StatusOK, data)
}

// respondMutation sends a create or update result: 422 when validation
// failed, 201 for a new record, 200 otherwise.
func respondMutation[T any](c *gin.Context, res *catalog.MutationResult[T], err error, created bool, context string) {
	switch {
	case err != nil:
		respondCatalogError(c, err, context)
	case !res.OK:
		c.JSON(http.StatusUnprocessableEntity, res)
	case created && !res.Reused:
		respondCreated(c, res)
	default:
		c.JSON(http.StatusOK, res)
	}
}

// respondDelete sends a delete result: 409 when dependents block it.
func respondDelete(c *gin.Context, res *catalog.DeleteResult, err error, context string) {
	switch {
	case err != nil:
		respondCatalogError(c, err, context)
	case res.Violation != nil:
		c.JSON(http.StatusConflict, res)
	default:
		c.JSON(http.StatusOK, res)
	}
}

// --- Request Parsing ---

// bindInput reads the submitted fields from a JSON object or from form
// values. Repeated form keys are kept as a list.
func bindInput(c *gin.Context) (catalog.RawInput, bool) {
	if strings.HasPrefix(c.ContentType(), gin.MIMEJSON) {
		input := catalog.RawInput{}
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBadRequest(c, "invalid JSON body")
			return nil, false
		}
		return input, true
	}

	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
			respondBadRequest(c, "invalid form body")
			return nil, false
		}
	} else if err := c.Request.ParseForm(); err != nil {
		respondBadRequest(c, "invalid form body")
		return nil, false
	}

	input := make(catalog.RawInput, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		input[key] = values
	}
	return input, true
}

// parsePagination reads page and limit query parameters, clamping limit to
// 1..100 with a default of 25.
func parsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "25"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	pages := (int(total) + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	return pages
}
