package po

// Table is the canonical PO table: the subset of allow-list columns actually
// present in the upload (first-seen order) plus the retained rows. Column
// presence matters downstream — a column that never appeared in the upload is
// distinct from one that appeared with null values.
type Table struct {
	Columns []string
	Rows    []Record
}

// Has reports whether the named column was present in the upload.
func (t *Table) Has(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Missing returns the subset of cols not present in the table, in input order.
func (t *Table) Missing(cols []string) []string {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Len returns the row count.
func (t *Table) Len() int {
	return len(t.Rows)
}
