package tabular

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/viewprofit"
)

// Folders of a Dir, one JSONL file per table.
const (
	FundsFolder      = "funds"
	BenchmarksFolder = "benchmarks"
	filesGlob        = "*.jsonl"
)

// Dir is a folder of JSONL tables:
//
//	funds/<name>.jsonl
//	benchmarks/<name>.jsonl
//
// Each line of a file is a JSON object, a row of the table named after the file.
type Dir string

// Tables reads every table of the folder, sorted by kind then name.
func (d Dir) Tables(ctx context.Context) ([]Table, error) {
	var tables []Table
	var errs []error
	for _, f := range []struct {
		folder string
		kind   viewprofit.Kind
	}{
		{FundsFolder, viewprofit.Fund},
		{BenchmarksFolder, viewprofit.Benchmark},
	} {
		// Use glob to find all the files of the folder.
		filenames, err := filepath.Glob(filepath.Join(string(d), f.folder, filesGlob))
		if err != nil {
			return nil, fmt.Errorf("load error: cannot scan folder %q: %w", d, err)
		}
		for _, filename := range filenames {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			t, err := DecodeFile(filename, f.kind)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			tables = append(tables, t)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return tables, nil
}

// TableName returns the name of the table stored in filename.
func TableName(filename string) string {
	return strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
}

// DecodeFile reads a JSONL table.
func DecodeFile(filename string, kind viewprofit.Kind) (Table, error) {
	r, err := os.Open(filename)
	if err != nil {
		return Table{}, fmt.Errorf("cannot open %q for reading: %w", filename, err)
	}
	defer r.Close()
	return decode(filename, TableName(filename), kind, r)
}

// Decode reads a JSONL table named name from r.
func Decode(name string, kind viewprofit.Kind, r io.Reader) (Table, error) {
	return decode(name, name, kind, r)
}

func decode(filename, name string, kind viewprofit.Kind, r io.Reader) (Table, error) {
	t := Table{Name: name, Kind: kind}
	scanner := bufio.NewScanner(r)
	i := 0
	for scanner.Scan() {
		i++
		line := scanner.Text()
		// Start simply ignoring empty lines.
		if strings.TrimSpace(line) == "" {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(line))
		dec.UseNumber()
		var row Row
		if err := dec.Decode(&row); err != nil {
			return Table{}, fmt.Errorf("parse error %s:%v: not a correct json object: %w", filename, i, err)
		}
		t.Rows = append(t.Rows, row)
	}
	if err := scanner.Err(); err != nil {
		return Table{}, fmt.Errorf("read error %s:%v: %w", filename, i, err)
	}
	return t, nil
}
