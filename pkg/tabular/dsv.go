package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoHeader indicates a delimited source with no header record.
var ErrNoHeader = errors.New("tabular: source has no header record")

// ParseDSV reads a delimiter-separated source into a Table. The first record
// is the header; subsequent records are auto-typed cell by cell. Records
// shorter than the header leave trailing columns null, longer records have
// their extra fields dropped.
func ParseDSV(r io.Reader, comma rune) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
	}

	table := &Table{Columns: columns}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record %d: %w", len(table.Rows)+2, err)
		}

		row := make(Row, len(columns))
		for i, column := range columns {
			if i < len(record) {
				row[column] = Auto(record[i])
			} else {
				row[column] = Null()
			}
		}

		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// ParseCSV reads comma-separated data into a Table.
func ParseCSV(data []byte) (*Table, error) {
	return ParseDSV(bytes.NewReader(data), ',')
}

// ParseTSV reads tab-separated data into a Table.
func ParseTSV(data []byte) (*Table, error) {
	return ParseDSV(bytes.NewReader(data), '\t')
}

// WriteCSV renders the table as comma-separated output with a header record.
// Cells are written in display form, nulls as empty fields.
func WriteCSV(w io.Writer, table *Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, column := range table.Columns {
			record[i] = row.Text(column)
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
