package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/locallibrary/internal/audit"
	"github.com/mrlokans/locallibrary/internal/catalog"
	"github.com/mrlokans/locallibrary/internal/cli"
	"github.com/mrlokans/locallibrary/internal/database"
	"github.com/mrlokans/locallibrary/internal/database/authors"
	"github.com/mrlokans/locallibrary/internal/database/books"
	"github.com/mrlokans/locallibrary/internal/database/genres"
	"github.com/mrlokans/locallibrary/internal/database/instances"
	"github.com/mrlokans/locallibrary/internal/http"
	"github.com/mrlokans/locallibrary/internal/metrics"
	"github.com/mrlokans/locallibrary/internal/scheduler"
	"github.com/mrlokans/locallibrary/internal/tasks"
)

// =============================================================================
// Record Stores
// =============================================================================

var _ catalog.AuthorStore = (*authors.Repository)(nil)
var _ catalog.GenreStore = (*genres.Repository)(nil)
var _ catalog.BookStore = (*books.Repository)(nil)
var _ catalog.InstanceStore = (*instances.Repository)(nil)

// =============================================================================
// Catalog Service
// =============================================================================

var _ http.Catalog = (*catalog.Service)(nil)
var _ cli.Seeder = (*catalog.Service)(nil)
var _ cli.Summarizer = (*catalog.Service)(nil)

// Mutation observers
var _ catalog.Observer = (*audit.Service)(nil)
var _ catalog.Observer = (*metrics.Metrics)(nil)

// =============================================================================
// HTTP Boundary
// =============================================================================

var _ http.Pinger = (*database.Database)(nil)
var _ http.Pinger = (*tasks.Client)(nil)
var _ http.AuditReader = (*audit.Service)(nil)
var _ http.MetricsProvider = (*metrics.Metrics)(nil)
var _ http.CleanupTrigger = (*scheduler.AuditCleanupScheduler)(nil)
var _ http.TaskStatusReader = (*tasks.Client)(nil)

// =============================================================================
// Background Tasks
// =============================================================================

var _ scheduler.Enqueuer = (*tasks.Client)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
