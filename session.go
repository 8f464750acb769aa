package dbsession

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/gmitev/dbsession/internal/core"
)

var (
	errNotConnected = errors.New("session is not connected")
	errColumnIndex  = errors.New("fetch column: index out of range")
)

// Options holds the connection parameters for a Session. All fields are
// passed through to the dialect's DSN builder as-is; nothing is validated.
type Options struct {
	Host     string
	Port     string
	Database string
	Username string
	Password string
}

// Addr returns "host:port" for dialects that address the server that way.
func (o Options) Addr() string {
	return o.Host + ":" + o.Port
}

// Session wraps a single database connection with one active row cursor and
// an append-only error log. Every fallible method reports failure through a
// boolean return and Errors(); no driver error ever propagates to the caller.
//
// A Session is not safe for concurrent use; the caller serializes access.
type Session struct {
	dialect  Dialect
	db       *sql.DB
	rows     *sql.Rows
	affected int64
	lastID   int64
	errs     []string
}

// New creates a disconnected Session for the given dialect.
func New(dialect Dialect) *Session {
	return &Session{dialect: dialect}
}

// NewWithDB wraps an already-open handle; pass a configured *sql.DB from
// main when the host application owns the pool.
func NewWithDB(dialect Dialect, db *sql.DB) *Session {
	return &Session{dialect: dialect, db: db}
}

// Connect opens a connection using opts and verifies it with a ping.
// On failure the driver's error text is appended to the error log.
func (s *Session) Connect(opts Options) bool {
	db, err := sql.Open(s.dialect.DriverName(), s.dialect.BuildDSN(opts))
	if err != nil {
		return s.fail(err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return s.fail(err)
	}
	s.db = db
	return true
}

// Connected reports whether the Session currently holds a connection handle.
func (s *Session) Connected() bool {
	return s.db != nil
}

// Close releases the cursor and the connection handle. Idempotent; always
// returns true.
func (s *Session) Close() bool {
	s.closeCursor()
	if s.db != nil {
		s.db.Close()
		s.db = nil
	}
	return true
}

// Query runs a SQL statement with positional parameters. SELECT-like
// statements open the row cursor for the fetch methods; anything else is
// executed directly and records the affected-row count. On failure the
// cursor and the count keep their previous state.
func (s *Session) Query(query string, params ...any) bool {
	if s.db == nil {
		return s.fail(errNotConnected)
	}

	if returnsRows(query) {
		rows, err := s.db.Query(query, params...)
		if err != nil {
			return s.fail(err)
		}
		s.closeCursor()
		s.rows = rows
		return true
	}

	result, err := s.db.Exec(query, params...)
	if err != nil {
		return s.fail(err)
	}
	s.record(result)
	return true
}

// Insert builds and executes INSERT INTO table (cols...) VALUES (...) with
// data bound as parameters in sorted column order.
func (s *Session) Insert(table string, data map[string]any) bool {
	if s.db == nil {
		return s.fail(errNotConnected)
	}

	query, params, err := core.BuildInsert(s.dialect, table, data)
	if err != nil {
		return s.fail(err)
	}

	result, err := s.db.Exec(query, params...)
	if err != nil {
		return s.fail(err)
	}
	s.record(result)
	return true
}

// Update builds and executes UPDATE table SET ... with an optional WHERE
// clause of ANDed equality conditions. A nil or empty where map updates
// every row in the table.
func (s *Session) Update(table string, data, where map[string]any) bool {
	if s.db == nil {
		return s.fail(errNotConnected)
	}

	query, params, err := core.BuildUpdate(s.dialect, table, data, where)
	if err != nil {
		return s.fail(err)
	}

	result, err := s.db.Exec(query, params...)
	if err != nil {
		return s.fail(err)
	}
	s.record(result)
	return true
}

// Upsert inserts data, updating all given columns when a uniqueness
// conflict occurs instead of failing. MySQL resolves the conflict against
// any unique key and ignores keyCols; Postgres and SQLite require keyCols
// to name the conflict target.
func (s *Session) Upsert(table string, data map[string]any, keyCols ...string) bool {
	if s.db == nil {
		return s.fail(errNotConnected)
	}

	query, params, err := core.BuildUpsert(s.dialect, table, data, keyCols)
	if err != nil {
		return s.fail(err)
	}

	result, err := s.db.Exec(query, params...)
	if err != nil {
		return s.fail(err)
	}
	s.record(result)
	return true
}

// Fetch returns the next row of the current cursor in associative shape and
// closes the cursor. It returns nil when no cursor is open or the result
// set is exhausted; a second Fetch without an intervening Query returns nil.
func (s *Session) Fetch() map[string]any {
	if s.rows == nil {
		return nil
	}
	defer s.closeCursor()

	if !s.rows.Next() {
		return nil
	}
	row, err := scanRowMap(s.rows)
	if err != nil {
		s.fail(err)
		return nil
	}
	return row
}

// FetchInto populates dest, a pointer to a struct, from the next row of the
// current cursor field-by-field in column order, then closes the cursor.
func (s *Session) FetchInto(dest any) bool {
	if s.rows == nil {
		return false
	}
	defer s.closeCursor()

	if !s.rows.Next() {
		return false
	}
	if err := scanRowStruct(s.rows, dest); err != nil {
		return s.fail(err)
	}
	return true
}

// FetchAll returns all remaining rows of the current cursor in backend
// order and closes it. An exhausted or missing cursor yields an empty
// slice, not an error.
func (s *Session) FetchAll() []map[string]any {
	all := make([]map[string]any, 0)
	if s.rows == nil {
		return all
	}
	defer s.closeCursor()

	for s.rows.Next() {
		row, err := scanRowMap(s.rows)
		if err != nil {
			s.fail(err)
			return all
		}
		all = append(all, row)
	}
	if err := s.rows.Err(); err != nil {
		s.fail(err)
	}
	return all
}

// FetchAllInto appends all remaining rows to dest, a pointer to a slice of
// structs, then closes the cursor.
func (s *Session) FetchAllInto(dest any) bool {
	if s.rows == nil {
		return false
	}
	defer s.closeCursor()

	if err := scanRowsSlice(s.rows, dest); err != nil {
		return s.fail(err)
	}
	return true
}

// FetchColumn returns a single value from the next row at the given
// zero-based column position (default 0) and closes the cursor. The second
// return is false when no row was available.
func (s *Session) FetchColumn(idx ...int) (any, bool) {
	col := 0
	if len(idx) > 0 {
		col = idx[0]
	}
	if s.rows == nil {
		return nil, false
	}
	defer s.closeCursor()

	if !s.rows.Next() {
		return nil, false
	}
	values, err := scanRowValues(s.rows)
	if err != nil {
		s.fail(err)
		return nil, false
	}
	if col < 0 || col >= len(values) {
		s.fail(errColumnIndex)
		return nil, false
	}
	return values[col], true
}

// AffectedRows returns the row count recorded by the most recent successful
// mutating call. Failed calls leave the previous value in place.
func (s *Session) AffectedRows() int64 {
	return s.affected
}

// LastInsertID returns the insert id recorded by the most recent successful
// mutating call, where the driver supports it.
func (s *Session) LastInsertID() int64 {
	return s.lastID
}

// Errors returns a copy of the accumulated error log. Entries are never
// cleared; callers correlate them with failed calls by order.
func (s *Session) Errors() []string {
	return append([]string(nil), s.errs...)
}

func (s *Session) record(result sql.Result) {
	if n, err := result.RowsAffected(); err == nil {
		s.affected = n
	}
	// lib/pq has no LastInsertId; keep the previous value there.
	if id, err := result.LastInsertId(); err == nil {
		s.lastID = id
	}
}

func (s *Session) fail(err error) bool {
	s.errs = append(s.errs, err.Error())
	return false
}

func (s *Session) closeCursor() {
	if s.rows != nil {
		s.rows.Close()
		s.rows = nil
	}
}

// returnsRows reports whether a statement produces a result set rather than
// an affected-row count.
func returnsRows(query string) bool {
	trimmed := strings.ToUpper(strings.TrimSpace(query))
	for _, prefix := range []string{"SELECT", "SHOW", "DESCRIBE", "DESC ", "EXPLAIN", "WITH", "PRAGMA", "VALUES"} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}
