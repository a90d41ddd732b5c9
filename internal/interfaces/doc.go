// Package interfaces documents the core abstractions used throughout the application.
//
// Interfaces are declared by the package that consumes them. This package
// lists them in one place and holds the compile-time checks in checks.go.
//
// # Interface Categories
//
// ## Record Stores
//
//   - AuthorStore, GenreStore, BookStore, InstanceStore: per-kind persistence
//     (internal/catalog/service.go), implemented by the gorm repositories under
//     internal/database/
//
// ## Catalog
//
//   - Observer: notified after every create, update and delete attempt
//     (internal/catalog/service.go); implemented by the audit trail and metrics
//   - AuthorCatalog, GenreCatalog, BookCatalog, InstanceCatalog, Summarizer:
//     what the HTTP controllers call (internal/http/*.go)
//   - Seeder, Summarizer: what the CLI calls (internal/cli/)
//
// ## Infrastructure
//
//   - Pinger: database health (internal/http/health.go)
//   - AuditReader: audit trail listing (internal/http/stores.go)
//   - MetricsProvider: request instrumentation and scrape handler (internal/http/config.go)
//   - CleanupTrigger, TaskStatusReader: task endpoints (internal/http/tasks.go)
//   - Enqueuer: queue used by the cleanup scheduler (internal/scheduler/)
//   - AuditEventCleaner: retention cleanup target (internal/tasks/cleanup_audit.go)
//
// # Adding a New Record Kind
//
//  1. Add the entity to internal/entities/ and to AutoMigrate in
//     internal/database/database.go
//
//  2. Create a repository sub-package:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Declare its Store interface in internal/catalog/ and a Schema for its
//     fields; register any references in NewGuard so deletes stay guarded
//
//  4. Add the controller and call registerKind in internal/http/router.go
//
//  5. Add compile-time checks:
//
//     var _ catalog.ShelfStore = (*shelves.Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
