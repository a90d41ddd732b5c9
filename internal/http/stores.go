package http

import (
	"context"

	"github.com/mrlokans/locallibrary/internal/catalog"
	"github.com/mrlokans/locallibrary/internal/entities"
)

// This file consolidates the interfaces the HTTP controllers consume.
// Each controller declares only the operations it calls; Catalog combines
// them for the router, and is satisfied by *catalog.Service.

// Summarizer computes the catalog-wide counts.
type Summarizer interface {
	Summarize(ctx context.Context) (*catalog.Summary, error)
}

// Catalog combines every per-kind interface.
type Catalog interface {
	Summarizer
	AuthorCatalog
	GenreCatalog
	BookCatalog
	InstanceCatalog
}

// AuditReader lists recorded catalog mutations.
type AuditReader interface {
	ListEvents(ctx context.Context, q entities.AuditQuery) ([]entities.AuditEvent, int64, error)
	GetEventsForEntity(ctx context.Context, kind entities.Kind, id string) ([]entities.AuditEvent, error)
}
