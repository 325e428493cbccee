package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"slices"
)

// Table is a CSV file held in memory. Missing cells are empty strings.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// NewTable returns an empty table with the given header.
func NewTable(columns ...string) *Table {
	return &Table{Columns: slices.Clone(columns)}
}

// ParseCSV reads a header row followed by data rows. Short rows are padded. Cells
// beyond the header are kept under "Unnamed: <position>" columns so a rewrite of
// the file never loses them.
func ParseCSV(data []byte) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty csv")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	t := NewTable(header...)
	ragged := 0
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(t.Rows)+1, err)
		}
		row := make(map[string]string, len(rec))
		for i, cell := range rec {
			if i < len(header) {
				row[header[i]] = cell
				continue
			}
			col := extraColumn(header, i)
			if !slices.Contains(t.Columns, col) {
				t.Columns = append(t.Columns, col)
			}
			row[col] = cell
		}
		if len(rec) > len(header) {
			ragged++
		}
		t.Rows = append(t.Rows, row)
	}
	if ragged > 0 {
		log.Printf("WARN: [Dataset] %d row(s) have more cells than the header; kept as unnamed columns.", ragged)
	}
	return t, nil
}

func extraColumn(header []string, pos int) string {
	name := fmt.Sprintf("Unnamed: %d", pos)
	for slices.Contains(header, name) {
		name += "_"
	}
	return name
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Append adds one row. Columns the table lacks are added at the end in the given
// order, so earlier rows read them as empty. Nil cells are written empty.
func (t *Table) Append(columns []string, cells map[string]*string) {
	for _, col := range columns {
		if !slices.Contains(t.Columns, col) {
			t.Columns = append(t.Columns, col)
		}
	}
	row := make(map[string]string, len(cells))
	for col, v := range cells {
		if v != nil {
			row[col] = *v
		}
	}
	t.Rows = append(t.Rows, row)
}

// EncodeCSV writes the header and all rows.
func (t *Table) EncodeCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, err
	}
	rec := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			rec[i] = row[col]
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
