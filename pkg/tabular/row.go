package tabular

// Row maps column names to tagged values.
type Row map[string]Value

// Get returns the value for a column, or null when the column is absent.
func (r Row) Get(column string) Value {
	if v, ok := r[column]; ok {
		return v
	}
	return Null()
}

// Text returns the display form of a column value.
func (r Row) Text(column string) string {
	return r.Get(column).Text()
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// Table pairs an ordered column list with its rows. Column order is
// preserved from the source; Row maps alone cannot carry it.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}
