package tabular

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/etnz/viewprofit"
)

// FundTable converts derived rows into a table, newest-first, with the raw
// columns first and the derived ones after.
func FundTable(name string, kind viewprofit.Kind, rows []viewprofit.ReturnRow) Table {
	t := Table{
		Name:    name,
		Kind:    kind,
		Columns: append([]string{viewprofit.FieldDate}, viewprofit.ReturnFields...),
		Rows:    make([]Row, 0, len(rows)),
	}
	for _, r := range rows {
		row := Row{viewprofit.FieldDate: r.Month}
		for _, f := range viewprofit.ReturnFields {
			row[f], _ = r.Get(f)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// BenchmarkTable converts derived benchmark rows into a table.
func BenchmarkTable(name string, rows []viewprofit.BenchmarkReturnRow) Table {
	t := Table{
		Name:    name,
		Kind:    viewprofit.Benchmark,
		Columns: []string{viewprofit.FieldDate, viewprofit.FieldValue, viewprofit.FieldAccumulated},
		Rows:    make([]Row, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, Row{
			viewprofit.FieldDate:        r.Month,
			viewprofit.FieldValue:       r.Value,
			viewprofit.FieldAccumulated: r.Accumulated,
		})
	}
	return t
}

// PointsTable converts a derived series into a table of date, value rows.
func PointsTable(name string, points []viewprofit.Point) Table {
	t := Table{
		Name:    name,
		Kind:    viewprofit.Benchmark,
		Columns: []string{viewprofit.FieldDate, viewprofit.FieldValue},
		Rows:    make([]Row, 0, len(points)),
	}
	for _, p := range points {
		row := Row{viewprofit.FieldValue: p.Value}
		if !p.Month.IsZero() {
			row[viewprofit.FieldDate] = p.Month
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Encode writes the table as JSONL, one object per row with its columns in
// order. Undefined numbers are written as null.
func Encode(w io.Writer, t Table) error {
	for i, row := range t.Rows {
		b, err := encodeRow(columns(t.Columns, row), row)
		if err != nil {
			return fmt.Errorf("%s: row %d: %w", t.Name, i+1, err)
		}
		b = append(b, '\n')
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// columns returns the keys of row, those listed in order first.
func columns(order []string, row Row) []string {
	cols := make([]string, 0, len(row))
	for _, c := range order {
		if _, ok := row[c]; ok {
			cols = append(cols, c)
		}
	}
	var rest []string
	for c := range row {
		if !slices.Contains(order, c) {
			rest = append(rest, c)
		}
	}
	slices.Sort(rest)
	return append(cols, rest...)
}

// EncodeFile writes the table into folder/<name>.jsonl, creating folder if needed.
func EncodeFile(folder string, t Table) error {
	if err := os.MkdirAll(folder, 0755); err != nil {
		return fmt.Errorf("cannot create folder %q: %w", folder, err)
	}
	filename := filepath.Join(folder, t.Name+".jsonl")
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot open %q for writing: %w", filename, err)
	}
	if err := Encode(f, t); err != nil {
		f.Close()
		return fmt.Errorf("cannot write %q: %w", filename, err)
	}
	return f.Close()
}
