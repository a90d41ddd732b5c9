package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/locallibrary/internal/config"
	"github.com/mrlokans/locallibrary/internal/entities"
)

func TestNewSQLiteDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "library.db")

	db, err := NewSQLiteDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Ping(context.Background()))

	for _, table := range []any{
		&entities.Author{},
		&entities.Genre{},
		&entities.Book{},
		&entities.BookGenre{},
		&entities.BookInstance{},
		&entities.AuditEvent{},
	} {
		assert.True(t, db.DB.Migrator().HasTable(table), "table for %T should exist", table)
	}
}

func TestNewDatabase_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Database
	}{
		{"unknown driver", config.Database{Driver: "oracle"}},
		{"sqlite without path", config.Database{Driver: "sqlite"}},
		{"postgres without dsn", config.Database{Driver: "postgres"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := NewDatabase(tt.cfg)
			assert.Error(t, err)
			assert.Nil(t, db)
		})
	}
}

func TestDatabase_PingAfterClose(t *testing.T) {
	db, err := NewSQLiteDatabase(filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping(context.Background()))
}
