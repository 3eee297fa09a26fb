// Package tabular holds the uniform record model produced by response
// normalization. A Result is immutable once built; display and export read
// from it and never fail.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Field is a single named value of a record.
type Field struct {
	Name  string
	Value string
}

// Record is an ordered list of fields. Field order is significant: the first
// record of a Result decides the leading column order.
type Record []Field

// Get returns the value stored under name.
func (r Record) Get(name string) (string, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Names returns the field names in order.
func (r Record) Names() []string {
	out := make([]string, len(r))
	for i, f := range r {
		out[i] = f.Name
	}
	return out
}

// Values returns the field values in order.
func (r Record) Values() []string {
	out := make([]string, len(r))
	for i, f := range r {
		out[i] = f.Value
	}
	return out
}

func (r Record) clone() Record {
	out := make(Record, len(r))
	copy(out, r)
	return out
}

// Result is an ordered sequence of records.
type Result struct {
	columns []string
	records []Record
}

// New builds a Result from records, keeping their order. Columns follow the
// first record; names that only later records carry are appended in the
// order they are first seen.
func New(records []Record) *Result {
	res := &Result{records: make([]Record, len(records))}
	seen := make(map[string]bool)
	for i, rec := range records {
		res.records[i] = rec.clone()
		for _, f := range rec {
			if !seen[f.Name] {
				seen[f.Name] = true
				res.columns = append(res.columns, f.Name)
			}
		}
	}
	return res
}

// Columns returns the column names in display order.
func (r *Result) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Records returns a copy of the records.
func (r *Result) Records() []Record {
	out := make([]Record, len(r.records))
	for i, rec := range r.records {
		out[i] = rec.clone()
	}
	return out
}

// Len returns the number of records.
func (r *Result) Len() int { return len(r.records) }

// Truncate returns a Result holding only the first n records. n <= 0 means
// no limit and returns r unchanged.
func (r *Result) Truncate(n int) *Result {
	if n <= 0 || n >= len(r.records) {
		return r
	}
	return &Result{columns: r.columns, records: r.records[:n]}
}

// row returns rec's values laid out under the result columns.
func (r *Result) row(rec Record) []string {
	out := make([]string, len(r.columns))
	for i, col := range r.columns {
		if i < len(rec) && rec[i].Name == col {
			out[i] = rec[i].Value
			continue
		}
		out[i], _ = rec.Get(col)
	}
	return out
}

// DisplayString renders the result as space-aligned columns with a header.
func (r *Result) DisplayString() string {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(r.columns, "\t"))
	for _, rec := range r.records {
		fmt.Fprintln(tw, strings.Join(r.row(rec), "\t"))
	}
	_ = tw.Flush()
	return sb.String()
}

// WriteCSV writes the header row followed by one line per record.
func (r *Result) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := writeRow(w, cw, r.columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range r.records {
		if err := writeRow(w, cw, r.row(rec)); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeRow writes a single empty field as "" instead of the blank line
// csv.Writer produces, which readers skip.
func writeRow(w io.Writer, cw *csv.Writer, row []string) error {
	if len(row) != 1 || row[0] != "" {
		return cw.Write(row)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\"\"\n")
	return err
}

// DelimitedText renders the result as comma-delimited text with a header row.
func (r *Result) DelimitedText() string {
	var sb strings.Builder
	// strings.Builder never returns a write error.
	_ = r.WriteCSV(&sb)
	return sb.String()
}

// Parse reads comma-delimited text whose first row is a header. Every row
// must have as many fields as the header. A \r\n inside a quoted field is
// read back as \n.
func Parse(rd io.Reader) (*Result, error) {
	cr := csv.NewReader(rd)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cr.FieldsPerRecord = len(header)

	var records []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(records)+1, err)
		}
		rec := make(Record, len(header))
		for i, name := range header {
			rec[i] = Field{Name: name, Value: row[i]}
		}
		records = append(records, rec)
	}

	res := New(records)
	res.columns = append([]string(nil), header...)
	return res, nil
}
