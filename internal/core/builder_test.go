package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmitev/dbsession"
	"github.com/gmitev/dbsession/internal/core"
)

func TestValidIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"users", true},
		{"user_accounts", true},
		{"_hidden", true},
		{"t2", true},
		{"", false},
		{"2fast", false},
		{"user-accounts", false},
		{"users; DROP TABLE users", false},
		{`users"`, false},
		{"users table", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, core.ValidIdentifier(tt.name), tt.name)
	}
}

func TestBuildInsert(t *testing.T) {
	query, params, err := core.BuildInsert(dbsession.PostgresDialect{}, "users", map[string]any{
		"name": "ada",
		"id":   1,
	})
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" ("id", "name") VALUES ($1, $2)`, query)
	assert.Equal(t, []any{1, "ada"}, params)
}

func TestBuildInsertEmptyData(t *testing.T) {
	_, _, err := core.BuildInsert(dbsession.PostgresDialect{}, "users", nil)
	assert.Error(t, err)
}

func TestBuildInsertRejectsBadColumn(t *testing.T) {
	_, _, err := core.BuildInsert(dbsession.PostgresDialect{}, "users", map[string]any{
		`name") VALUES ('x'); --`: "ada",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid column name")
}

func TestBuildUpdate(t *testing.T) {
	query, params, err := core.BuildUpdate(dbsession.PostgresDialect{}, "items",
		map[string]any{"v": "x"},
		map[string]any{"id": 1},
	)
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "items" SET "v" = $1 WHERE "id" = $2`, query)
	assert.Equal(t, []any{"x", 1}, params)
}

func TestBuildUpdateNoWhere(t *testing.T) {
	query, params, err := core.BuildUpdate(dbsession.MySQLDialect{},
		"items", map[string]any{"v": "x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE `items` SET `v` = ?", query)
	assert.Equal(t, []any{"x"}, params)
}

func TestBuildUpdateMultipleConditions(t *testing.T) {
	query, params, err := core.BuildUpdate(dbsession.PostgresDialect{}, "items",
		map[string]any{"a": 1, "b": 2},
		map[string]any{"c": 3, "d": 4},
	)
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "items" SET "a" = $1, "b" = $2 WHERE "c" = $3 AND "d" = $4`, query)
	assert.Equal(t, []any{1, 2, 3, 4}, params)
}

func TestBuildUpsertMySQL(t *testing.T) {
	query, params, err := core.BuildUpsert(dbsession.MySQLDialect{}, "kv",
		map[string]any{"k": "lang", "v": "go"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `kv` (`k`, `v`) VALUES (?, ?) "+
		"ON DUPLICATE KEY UPDATE `k` = VALUES(`k`), `v` = VALUES(`v`)", query)
	assert.Equal(t, []any{"lang", "go"}, params)
}

func TestBuildUpsertPostgres(t *testing.T) {
	query, _, err := core.BuildUpsert(dbsession.PostgresDialect{}, "kv",
		map[string]any{"k": "lang", "v": "go"}, []string{"k"})
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "kv" ("k", "v") VALUES ($1, $2) `+
		`ON CONFLICT ("k") DO UPDATE SET "k" = EXCLUDED."k", "v" = EXCLUDED."v"`, query)
}

func TestBuildUpsertRejectsBadKeyColumn(t *testing.T) {
	_, _, err := core.BuildUpsert(dbsession.PostgresDialect{}, "kv",
		map[string]any{"k": "lang"}, []string{"k) DO NOTHING; --"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid column name")
}
