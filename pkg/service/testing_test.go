package service

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func prepareDB(t *testing.T) *sqlx.DB {
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)

	// every connection of an in-memory sqlite opens a new database
	db.SetMaxOpenConns(1)

	require.NoError(t, Migrate(context.Background(), db))
	return db
}
