// File: internal/core/builder.go
package core

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Dialect is the subset of dialect behavior the builders need.
type Dialect interface {
	QuoteIdentifier(name string) string
	Placeholder(n int) string
	UpsertSuffix(cols, keyCols []string) (string, error)
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether name is safe to interpolate as a table or
// column identifier. Values never go through this path; they are always
// bound as parameters.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

func checkIdentifiers(table string, names ...string) error {
	if !ValidIdentifier(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	for _, name := range names {
		if !ValidIdentifier(name) {
			return fmt.Errorf("invalid column name %q", name)
		}
	}
	return nil
}

// sortedColumns returns data's column names in deterministic order.
func sortedColumns(data map[string]any) []string {
	cols := make([]string, 0, len(data))
	for col := range data {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// BuildInsert assembles INSERT INTO table (cols...) VALUES (...) with one
// placeholder per column and the bound values in matching order.
func BuildInsert(d Dialect, table string, data map[string]any) (string, []any, error) {
	if len(data) == 0 {
		return "", nil, fmt.Errorf("insert into %s: no columns given", table)
	}
	cols := sortedColumns(data)
	if err := checkIdentifiers(table, cols...); err != nil {
		return "", nil, err
	}

	quoted := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	params := make([]any, len(cols))
	for i, col := range cols {
		quoted[i] = d.QuoteIdentifier(col)
		placeholders[i] = d.Placeholder(i + 1)
		params[i] = data[col]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdentifier(table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "))
	return query, params, nil
}

// BuildUpdate assembles UPDATE table SET ... [WHERE ... AND ...]. WHERE
// parameters are numbered after the SET parameters, so a column may appear
// in both maps without colliding. An empty where updates every row.
func BuildUpdate(d Dialect, table string, data, where map[string]any) (string, []any, error) {
	if len(data) == 0 {
		return "", nil, fmt.Errorf("update %s: no columns given", table)
	}
	setCols := sortedColumns(data)
	whereCols := sortedColumns(where)
	if err := checkIdentifiers(table, append(setCols, whereCols...)...); err != nil {
		return "", nil, err
	}

	var params []any
	n := 0

	assignments := make([]string, len(setCols))
	for i, col := range setCols {
		n++
		assignments[i] = d.QuoteIdentifier(col) + " = " + d.Placeholder(n)
		params = append(params, data[col])
	}

	query := fmt.Sprintf("UPDATE %s SET %s",
		d.QuoteIdentifier(table), strings.Join(assignments, ", "))

	if len(whereCols) > 0 {
		conditions := make([]string, len(whereCols))
		for i, col := range whereCols {
			n++
			conditions[i] = d.QuoteIdentifier(col) + " = " + d.Placeholder(n)
			params = append(params, where[col])
		}
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	return query, params, nil
}

// BuildUpsert assembles an INSERT with the dialect's insert-or-update
// suffix, updating all given columns on a uniqueness conflict.
func BuildUpsert(d Dialect, table string, data map[string]any, keyCols []string) (string, []any, error) {
	if err := checkIdentifiers(table, keyCols...); err != nil {
		return "", nil, err
	}

	query, params, err := BuildInsert(d, table, data)
	if err != nil {
		return "", nil, err
	}
	suffix, err := d.UpsertSuffix(sortedColumns(data), keyCols)
	if err != nil {
		return "", nil, fmt.Errorf("upsert into %s: %w", table, err)
	}
	return query + " " + suffix, params, nil
}
