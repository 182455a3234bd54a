package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewDBCreatesSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDB(dbPath, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"recipes", "meal_plans", "run_metrics"} {
		var name string
		err := db.SQL.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		assert.NoError(t, err, "table %s should exist", table)
	}
}

func TestNewDBReopenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDB(dbPath, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Second open finds the schema already current.
	db, err = NewDB(dbPath, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, db.Close())
}
