package store

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMigrationURL(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@localhost:5432/space?sslmode=disable": "pgx5://u:p@localhost:5432/space?sslmode=disable",
		"postgresql://localhost/space":                        "pgx5://localhost/space",
		"pgx5://localhost/space":                              "pgx5://localhost/space",
	}
	for in, want := range tests {
		assert.Equal(t, want, migrationURL(in), in)
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	assert.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "0001_init.up.sql")
	assert.Contains(t, names, "0001_init.down.sql")
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23505"}), ErrConflict)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23503"}), ErrReferenced)

	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
}
