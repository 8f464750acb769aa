package dbsession

import (
	"database/sql"
	"fmt"
	"reflect"
)

// scanRowValues scans the current row into a slice of generic values.
func scanRowValues(rows *sql.Rows) ([]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("get columns: %w", err)
	}

	values := make([]any, len(columns))
	targets := make([]any, len(columns))
	for i := range values {
		targets[i] = &values[i]
	}
	if err := rows.Scan(targets...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	for i, v := range values {
		values[i] = normalizeValue(v)
	}
	return values, nil
}

// scanRowMap scans the current row into an associative column→value map.
func scanRowMap(rows *sql.Rows) (map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("get columns: %w", err)
	}

	values, err := scanRowValues(rows)
	if err != nil {
		return nil, err
	}

	row := make(map[string]any, len(columns))
	for i, name := range columns {
		row[name] = values[i]
	}
	return row, nil
}

// scanRowStruct populates dest, a pointer to a struct, from the current row.
// Fields are filled positionally in column order.
func scanRowStruct(rows *sql.Rows, dest any) error {
	destVal := reflect.ValueOf(dest)
	if destVal.Kind() != reflect.Ptr || destVal.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("dest must be a pointer to a struct")
	}

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("get columns: %w", err)
	}

	elemVal := destVal.Elem()
	if len(columns) > elemVal.NumField() {
		return fmt.Errorf("row has %d columns but %s has %d fields", len(columns), elemVal.Type().Name(), elemVal.NumField())
	}

	fieldPtrs := make([]any, len(columns))
	for i := range columns {
		fieldPtrs[i] = elemVal.Field(i).Addr().Interface()
	}
	if err := rows.Scan(fieldPtrs...); err != nil {
		return fmt.Errorf("failed to scan row: %w", err)
	}
	return nil
}

// scanRowsSlice appends every remaining row to dest, a pointer to a slice
// of structs.
func scanRowsSlice(rows *sql.Rows, dest any) error {
	destVal := reflect.ValueOf(dest)
	if destVal.Kind() != reflect.Ptr || destVal.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("dest must be a pointer to a slice")
	}

	sliceVal := destVal.Elem()
	elemType := sliceVal.Type().Elem()
	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("dest elements must be structs")
	}

	for rows.Next() {
		elemPtr := reflect.New(elemType)
		if err := scanRowStruct(rows, elemPtr.Interface()); err != nil {
			return err
		}
		sliceVal.Set(reflect.Append(sliceVal, elemPtr.Elem()))
	}
	return rows.Err()
}

// normalizeValue converts driver-scanned values to standard Go types.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
