package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/locallibrary/internal/entities"
)

type AuditController struct {
	reader AuditReader
}

func NewAuditController(reader AuditReader) *AuditController {
	return &AuditController{reader: reader}
}

// GetAuditEvents returns paginated audit events as JSON, optionally filtered
// by kind and status
// GET /catalog/audit?kind=genre&status=blocked&page=1&limit=25
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	page, limit := parsePagination(c)
	kind := entities.Kind(c.Query("kind"))
	if !validKind(kind) {
		respondBadRequest(c, "invalid kind")
		return
	}
	status := entities.AuditStatus(c.Query("status"))
	if !validStatus(status) {
		respondBadRequest(c, "invalid status")
		return
	}

	events, total, err := ac.reader.ListEvents(c.Request.Context(), entities.AuditQuery{
		Kind:   kind,
		Status: status,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		respondInternalError(c, err, "load audit events")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:       events,
		Total:      total,
		Page:       page,
		Limit:      limit,
		HasMore:    int64(page*limit) < total,
		TotalPages: totalPages(total, limit),
	})
}

// GetRecordHistory returns every audit event for one record
// GET /catalog/audit/:kind/:id
func (ac *AuditController) GetRecordHistory(c *gin.Context) {
	kind := entities.Kind(c.Param("kind"))
	if kind == "" || !validKind(kind) {
		respondBadRequest(c, "invalid kind")
		return
	}

	events, err := ac.reader.GetEventsForEntity(c.Request.Context(), kind, c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "load record history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

// validKind accepts the four record kinds and the empty filter.
func validKind(kind entities.Kind) bool {
	switch kind {
	case "", entities.KindAuthor, entities.KindGenre, entities.KindBook, entities.KindBookInstance:
		return true
	}
	return false
}

func validStatus(status entities.AuditStatus) bool {
	switch status {
	case "", entities.AuditStatusSuccess, entities.AuditStatusBlocked, entities.AuditStatusFailed:
		return true
	}
	return false
}
