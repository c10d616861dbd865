package executor

import (
	"database/sql"
	"fmt"
)

// Cursor iterates the rows of one query. It satisfies serializer.Rows.
type Cursor struct {
	rows    *sql.Rows
	columns []string
	count   int
}

func newCursor(rows *sql.Rows) (*Cursor, error) {
	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	return &Cursor{rows: rows, columns: columns}, nil
}

// Columns returns the column names of the result set
func (c *Cursor) Columns() []string {
	return c.columns
}

// Next advances to the next row
func (c *Cursor) Next() bool {
	return c.rows.Next()
}

// Values scans the current row. []byte values are returned as strings.
func (c *Cursor) Values() ([]interface{}, error) {
	values := make([]interface{}, len(c.columns))
	valuePtrs := make([]interface{}, len(c.columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}

	if err := c.rows.Scan(valuePtrs...); err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	c.count++

	for i, val := range values {
		if b, ok := val.([]byte); ok {
			values[i] = string(b)
		}
	}
	return values, nil
}

// Count returns the number of rows scanned so far
func (c *Cursor) Count() int {
	return c.count
}

// Err returns the error, if any, that ended iteration
func (c *Cursor) Err() error {
	return c.rows.Err()
}

// Close closes the underlying rows
func (c *Cursor) Close() error {
	return c.rows.Close()
}
