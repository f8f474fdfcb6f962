// Package tabular adapts row oriented record sources to typed series.
//
// A record source delivers tables: named lists of rows, each row mapping a
// column name to a value. Values can be numbers, numeric strings, dates in
// any encoding accepted by date.Normalize, or nil. The package converts
// them into viewprofit.Series, and derived rows back into tables.
package tabular

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/viewprofit"
	"github.com/etnz/viewprofit/date"
	"github.com/shopspring/decimal"
)

// Row is a record of a table.
type Row map[string]any

// Table is a named list of rows.
type Table struct {
	Name string
	Kind viewprofit.Kind
	// Columns is the preferred column order when encoding, columns not
	// listed follow in alphabetical order.
	Columns []string
	Rows    []Row
}

// Source delivers complete tables.
type Source interface {
	Tables(ctx context.Context) ([]Table, error)
}

// Columns maps the fields of typed rows to JSONPath expressions evaluated on
// each Row.
type Columns map[string]string

// DefaultColumns maps each field of kind to the column of the same name.
func DefaultColumns(kind viewprofit.Kind) Columns {
	fields := []string{viewprofit.FieldDeposit, viewprofit.FieldWithdrawal, viewprofit.FieldStartingBalance, viewprofit.FieldEndingBalance}
	if kind == viewprofit.Benchmark {
		fields = []string{viewprofit.FieldValue}
	}
	c := Columns{viewprofit.FieldDate: "$." + viewprofit.FieldDate}
	for _, f := range fields {
		c[f] = "$." + f
	}
	return c
}

// get evaluates the expression of field on row. A missing or null value is
// reported as nil.
func (c Columns) get(row Row, field string) (any, error) {
	expr, ok := c[field]
	if !ok {
		return nil, nil
	}
	v, err := jsonpath.Get(expr, map[string]any(row))
	if err != nil {
		// jsonpath reports unknown keys as errors, it is a missing value.
		if strings.Contains(err.Error(), "unknown key") {
			return nil, nil
		}
		return nil, fmt.Errorf("evaluating %q: %w", expr, err)
	}
	// wildcard and filter expressions return a list: keep its first value.
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return nil, nil
		}
		v = list[0]
	}
	return v, nil
}

// Series converts the table into a Series, sorted newest-first.
//
// Every row must have a date. Numeric fields are optional.
func (t Table) Series(cols Columns) (viewprofit.Series, error) {
	if cols == nil {
		cols = DefaultColumns(t.Kind)
	}
	s := viewprofit.Series{Name: t.Name, Kind: t.Kind, Observations: make([]viewprofit.Observation, 0, len(t.Rows))}
	var errs []error
	for i, row := range t.Rows {
		o, err := cols.observation(row)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: row %d: %w", t.Name, i+1, err))
			continue
		}
		s.Observations = append(s.Observations, o)
	}
	if err := errors.Join(errs...); err != nil {
		return viewprofit.Series{}, err
	}
	slices.SortStableFunc(s.Observations, func(a, b viewprofit.Observation) int { return b.Month.Compare(a.Month) })
	return s, nil
}

func (c Columns) observation(row Row) (viewprofit.Observation, error) {
	var o viewprofit.Observation
	v, err := c.get(row, viewprofit.FieldDate)
	if err != nil {
		return o, err
	}
	if v == nil {
		return o, fmt.Errorf("missing %q", viewprofit.FieldDate)
	}
	if o.Month, err = date.Normalize(v); err != nil {
		return o, err
	}

	o.Fields = make(map[string]float64, len(c))
	for field := range c {
		if field == viewprofit.FieldDate {
			continue
		}
		v, err := c.get(row, field)
		if err != nil {
			return o, err
		}
		if v == nil {
			continue
		}
		f, err := Number(v)
		if err != nil {
			return o, fmt.Errorf("%q: %w", field, err)
		}
		o.Fields[field] = f
	}
	return o, nil
}

// Number converts a record value into a float64.
//
// Numeric strings are parsed as decimals, a comma is accepted as the
// decimal separator when there is no dot.
func Number(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case decimal.Decimal:
		return x.InexactFloat64(), nil
	case json.Number:
		return parseDecimal(string(x))
	case string:
		return parseDecimal(x)
	default:
		return 0, fmt.Errorf("%v (%T) is not a number", v, v)
	}
}

func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return d.InexactFloat64(), nil
}

// Load reads all tables from src and converts them into series, funds and
// benchmarks apart. Errors of every table are reported together.
func Load(ctx context.Context, src Source) (funds, benchmarks []viewprofit.Series, err error) {
	tables, err := src.Tables(ctx)
	if err != nil {
		return nil, nil, err
	}
	var errs []error
	for _, t := range tables {
		s, err := t.Series(nil)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		switch t.Kind {
		case viewprofit.Benchmark:
			benchmarks = append(benchmarks, s)
		default:
			funds = append(funds, s)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, nil, err
	}
	return funds, benchmarks, nil
}
