package models

// Row is one source row: column name to raw cell value. Missing columns are
// simply absent keys. Immutable for the duration of a record's parse.
type Row map[string]string

// Get returns the raw cell value, "" when the column is absent.
func (r Row) Get(column string) string {
	return r[column]
}

// Has reports whether the column exists in the row, even with an empty cell.
func (r Row) Has(column string) bool {
	_, ok := r[column]
	return ok
}
