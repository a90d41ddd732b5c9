// Package database provides the data access layer for the catalog.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (sqlite or postgres), migrations
//	├── authors/         # Author CRUD and counts
//	├── genres/          # Genre CRUD, lookup by name
//	├── books/           # Book CRUD, genre membership, dependent lookups
//	├── instances/       # BookInstance CRUD, counts by status
//	└── audit/           # Mutation audit trail
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase(cfg.Database)
//
//	authorsRepo := authors.NewRepository(db.DB)
//	booksRepo := books.NewRepository(db.DB)
//
//	author, err := authorsRepo.GetAuthor(ctx, id)
//	books, err := booksRepo.ListBooksByAuthor(ctx, id)
//
// Every method takes a context and runs its query through db.WithContext, so
// an abandoned request cancels its in-flight queries. Missing rows are
// reported as entities.ErrNotFound.
//
// # Interface Implementations
//
// The repositories implement the store interfaces declared in
// internal/catalog; the compile-time checks live in internal/interfaces.
package database
