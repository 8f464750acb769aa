package dbsession_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmitev/dbsession"
)

func TestDialectByName(t *testing.T) {
	for name, want := range map[string]string{
		"postgres":   "postgres",
		"postgresql": "postgres",
		"pg":         "postgres",
		"MySQL":      "mysql",
		"sqlite":     "sqlite",
		"sqlite3":    "sqlite",
	} {
		d, err := dbsession.DialectByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, d.Name())
	}

	_, err := dbsession.DialectByName("oracle")
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	dsn := dbsession.PostgresDialect{}.BuildDSN(dbsession.Options{
		Host:     "localhost",
		Port:     "5432",
		Database: "app",
		Username: "app",
		Password: "secret",
	})
	assert.Equal(t, "host=localhost port=5432 user=app password=secret dbname=app sslmode=disable", dsn)

	dsn = dbsession.PostgresDialect{SSLMode: "require"}.BuildDSN(dbsession.Options{Host: "db"})
	assert.Contains(t, dsn, "sslmode=require")
}

func TestMySQLDSN(t *testing.T) {
	dsn := dbsession.MySQLDialect{}.BuildDSN(dbsession.Options{
		Host:     "localhost",
		Port:     "3306",
		Database: "app",
		Username: "app",
		Password: "secret",
	})
	assert.Contains(t, dsn, "app:secret@tcp(localhost:3306)/app")
}

func TestSQLiteDSNIsDatabasePath(t *testing.T) {
	dsn := dbsession.SQLiteDialect{}.BuildDSN(dbsession.Options{Database: "/tmp/app.db"})
	assert.Equal(t, "/tmp/app.db", dsn)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "$3", dbsession.PostgresDialect{}.Placeholder(3))
	assert.Equal(t, "?", dbsession.MySQLDialect{}.Placeholder(3))
	assert.Equal(t, "?", dbsession.SQLiteDialect{}.Placeholder(3))
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"users"`, dbsession.PostgresDialect{}.QuoteIdentifier("users"))
	assert.Equal(t, "`users`", dbsession.MySQLDialect{}.QuoteIdentifier("users"))
}

func TestMySQLUpsertSuffix(t *testing.T) {
	suffix, err := dbsession.MySQLDialect{}.UpsertSuffix([]string{"k", "v"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ON DUPLICATE KEY UPDATE `k` = VALUES(`k`), `v` = VALUES(`v`)", suffix)
}

func TestConflictUpsertSuffix(t *testing.T) {
	suffix, err := dbsession.PostgresDialect{}.UpsertSuffix([]string{"k", "v"}, []string{"k"})
	require.NoError(t, err)
	assert.Equal(t, `ON CONFLICT ("k") DO UPDATE SET "k" = EXCLUDED."k", "v" = EXCLUDED."v"`, suffix)

	_, err = dbsession.SQLiteDialect{}.UpsertSuffix([]string{"k"}, nil)
	assert.Error(t, err)
}
