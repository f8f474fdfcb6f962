// Package pgsource reads fund and benchmark tables from PostgreSQL.
//
// The schema is one table per series, as the records were kept by the
// desktop application: a fund table has date, deposit, withdrawal,
// starting_balance and ending_balance columns, a benchmark table has date
// and value columns. The date column may hold epoch seconds, a date, a
// timestamp or a text date.
package pgsource

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/etnz/viewprofit"
	"github.com/etnz/viewprofit/tabular"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultSchema is the schema scanned for tables.
const DefaultSchema = "public"

// parallel bounds the number of tables loaded at the same time.
const parallel = 4

var (
	fundColumns      = []string{viewprofit.FieldDeposit, viewprofit.FieldWithdrawal, viewprofit.FieldStartingBalance, viewprofit.FieldEndingBalance}
	benchmarkColumns = []string{viewprofit.FieldValue}
)

// DB is a record source backed by a PostgreSQL database.
type DB struct {
	pool   *pgxpool.Pool
	Schema string
	Log    zerolog.Logger
}

// New connects to the database at url and checks the connection.
func New(ctx context.Context, url string) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &DB{pool: pool, Schema: DefaultSchema, Log: zerolog.Nop()}, nil
}

// Close closes all connections.
func (db *DB) Close() { db.pool.Close() }

// Tables discovers and loads every fund and benchmark table.
func (db *DB) Tables(ctx context.Context) ([]tabular.Table, error) {
	funds, benchmarks, err := db.Discover(ctx)
	if err != nil {
		return nil, err
	}
	return db.Load(ctx, funds, benchmarks)
}

// Discover lists the fund and benchmark tables of the schema, sorted by name.
// Other tables are ignored.
func (db *DB) Discover(ctx context.Context) (funds, benchmarks []string, err error) {
	query := `
		SELECT table_name, column_name
		FROM information_schema.columns
		WHERE table_schema = $1
		ORDER BY table_name, ordinal_position
	`
	rows, err := db.pool.Query(ctx, query, db.Schema)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	columns := make(map[string][]string)
	var names []string
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return nil, nil, fmt.Errorf("failed to list tables: %w", err)
		}
		if _, ok := columns[table]; !ok {
			names = append(names, table)
		}
		columns[table] = append(columns[table], column)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to list tables: %w", err)
	}

	slices.Sort(names)
	for _, name := range names {
		kind, ok := Classify(name, columns[name])
		switch {
		case !ok:
			db.Log.Debug().Str("table", name).Msg("not a series table")
		case kind == viewprofit.Benchmark:
			benchmarks = append(benchmarks, name)
		default:
			funds = append(funds, name)
		}
	}
	return funds, benchmarks, nil
}

// Classify tells whether a table with those columns holds a fund or a
// benchmark. The portfolio table of the desktop application only holds
// derived values, it is not a series.
func Classify(name string, columns []string) (viewprofit.Kind, bool) {
	if name == viewprofit.PortfolioName || !slices.Contains(columns, viewprofit.FieldDate) {
		return viewprofit.Fund, false
	}
	if slices.Contains(columns, viewprofit.FieldStartingBalance) && slices.Contains(columns, viewprofit.FieldEndingBalance) {
		return viewprofit.Fund, true
	}
	if slices.Contains(columns, viewprofit.FieldValue) {
		return viewprofit.Benchmark, true
	}
	return viewprofit.Fund, false
}

// Load reads the named tables concurrently. The result lists funds first,
// in the order given.
func (db *DB) Load(ctx context.Context, funds, benchmarks []string) ([]tabular.Table, error) {
	tables := make([]tabular.Table, len(funds)+len(benchmarks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, name := range funds {
		g.Go(func() error {
			t, err := db.load(gctx, name, viewprofit.Fund)
			tables[i] = t
			return err
		})
	}
	for i, name := range benchmarks {
		g.Go(func() error {
			t, err := db.load(gctx, name, viewprofit.Benchmark)
			tables[len(funds)+i] = t
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

func (db *DB) load(ctx context.Context, name string, kind viewprofit.Kind) (tabular.Table, error) {
	start := time.Now()
	rows, err := db.pool.Query(ctx, SelectQuery(db.Schema, name, kind))
	if err != nil {
		return tabular.Table{}, fmt.Errorf("failed to query table %q: %w", name, err)
	}
	defer rows.Close()

	t := tabular.Table{Name: name, Kind: kind}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return tabular.Table{}, fmt.Errorf("failed to read table %q: %w", name, err)
		}
		row := make(tabular.Row, len(values))
		for i, fd := range rows.FieldDescriptions() {
			if values[i] != nil {
				row[fd.Name] = values[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return tabular.Table{}, fmt.Errorf("failed to read table %q: %w", name, err)
	}
	db.Log.Debug().Str("table", name).Int("rows", len(t.Rows)).Dur("elapsed", time.Since(start)).Msg("table loaded")
	return t, nil
}

// SelectQuery returns the query reading a series table, newest row first.
// Amounts are read as double precision whatever their column type.
func SelectQuery(schema, name string, kind viewprofit.Kind) string {
	columns := fundColumns
	if kind == viewprofit.Benchmark {
		columns = benchmarkColumns
	}
	selected := make([]string, 0, len(columns)+1)
	selected = append(selected, pgx.Identifier{viewprofit.FieldDate}.Sanitize())
	for _, c := range columns {
		id := pgx.Identifier{c}.Sanitize()
		selected = append(selected, id+"::float8 AS "+id)
	}
	table := pgx.Identifier{schema, name}.Sanitize()
	date := pgx.Identifier{viewprofit.FieldDate}.Sanitize()
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s DESC", strings.Join(selected, ", "), table, date)
}
