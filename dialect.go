package dbsession

import (
	"fmt"
	"strconv"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
)

// Dialect encapsulates database-engine-specific behavior: DSN assembly,
// identifier quoting, parameter placeholders, and the insert-or-update
// construct used by Upsert.
type Dialect interface {
	// Name is the user-facing dialect name ("postgres", "mysql", "sqlite").
	Name() string

	// DriverName is the database/sql driver to open.
	DriverName() string

	// BuildDSN constructs the driver-specific connection string.
	BuildDSN(opts Options) string

	// QuoteIdentifier wraps a table/column name in dialect-specific quoting.
	QuoteIdentifier(name string) string

	// Placeholder returns the parameter placeholder for the n-th parameter
	// (1-based).
	Placeholder(n int) string

	// UpsertSuffix returns the clause appended to an INSERT to update cols
	// on a uniqueness conflict. keyCols names the conflict target for
	// dialects that need one.
	UpsertSuffix(cols, keyCols []string) (string, error)
}

// DialectByName resolves a dialect from its user-facing name.
func DialectByName(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "postgres", "postgresql", "pg":
		return PostgresDialect{}, nil
	case "mysql":
		return MySQLDialect{}, nil
	case "sqlite", "sqlite3":
		return SQLiteDialect{}, nil
	}
	return nil, fmt.Errorf("unknown dialect %q", name)
}

// PostgresDialect targets PostgreSQL via lib/pq.
type PostgresDialect struct {
	// SSLMode overrides the default of "disable" when set.
	SSLMode string
}

func (PostgresDialect) Name() string       { return "postgres" }
func (PostgresDialect) DriverName() string { return "postgres" }

func (d PostgresDialect) BuildDSN(opts Options) string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	parts := []string{
		"host=" + opts.Host,
		"port=" + opts.Port,
		"user=" + opts.Username,
		"password=" + opts.Password,
		"dbname=" + opts.Database,
		"sslmode=" + sslmode,
	}
	return strings.Join(parts, " ")
}

func (PostgresDialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (PostgresDialect) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func (d PostgresDialect) UpsertSuffix(cols, keyCols []string) (string, error) {
	return conflictUpsertSuffix(d, cols, keyCols)
}

// MySQLDialect targets MySQL/MariaDB via go-sql-driver.
type MySQLDialect struct{}

func (MySQLDialect) Name() string       { return "mysql" }
func (MySQLDialect) DriverName() string { return "mysql" }

func (MySQLDialect) BuildDSN(opts Options) string {
	cfg := mysqldriver.NewConfig()
	cfg.User = opts.Username
	cfg.Passwd = opts.Password
	cfg.Net = "tcp"
	cfg.Addr = opts.Addr()
	cfg.DBName = opts.Database
	cfg.AllowNativePasswords = true
	return cfg.FormatDSN()
}

func (MySQLDialect) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (MySQLDialect) Placeholder(int) string { return "?" }

// UpsertSuffix resolves conflicts against any unique key of the table, so
// keyCols is ignored.
func (d MySQLDialect) UpsertSuffix(cols, _ []string) (string, error) {
	assignments := make([]string, len(cols))
	for i, col := range cols {
		quoted := d.QuoteIdentifier(col)
		assignments[i] = quoted + " = VALUES(" + quoted + ")"
	}
	return "ON DUPLICATE KEY UPDATE " + strings.Join(assignments, ", "), nil
}

// SQLiteDialect targets SQLite via the pure-Go modernc driver. The Database
// option is the file path (or ":memory:"); the address fields are unused.
type SQLiteDialect struct{}

func (SQLiteDialect) Name() string       { return "sqlite" }
func (SQLiteDialect) DriverName() string { return "sqlite" }

func (SQLiteDialect) BuildDSN(opts Options) string {
	return opts.Database
}

func (SQLiteDialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (SQLiteDialect) Placeholder(int) string { return "?" }

func (d SQLiteDialect) UpsertSuffix(cols, keyCols []string) (string, error) {
	return conflictUpsertSuffix(d, cols, keyCols)
}

// conflictUpsertSuffix builds the ON CONFLICT ... DO UPDATE clause shared by
// Postgres and SQLite. Both require an explicit conflict target.
func conflictUpsertSuffix(d Dialect, cols, keyCols []string) (string, error) {
	if len(keyCols) == 0 {
		return "", fmt.Errorf("%s upsert requires conflict key columns", d.Name())
	}

	keys := make([]string, len(keyCols))
	for i, col := range keyCols {
		keys[i] = d.QuoteIdentifier(col)
	}
	assignments := make([]string, len(cols))
	for i, col := range cols {
		quoted := d.QuoteIdentifier(col)
		assignments[i] = quoted + " = EXCLUDED." + quoted
	}
	return "ON CONFLICT (" + strings.Join(keys, ", ") + ") DO UPDATE SET " +
		strings.Join(assignments, ", "), nil
}
