// Package insee reads the time series exported by bdm.insee.fr, typically the
// consumer price index used as inflation benchmark.
//
// The export is a zip archive containing a semicolon separated CSV file, it
// is read from disk: downloading it is left to the user.
package insee

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/viewprofit"
	"github.com/etnz/viewprofit/date"
)

// valuesFiles are the names of the CSV files in the exported archive.
var valuesFiles = []string{"valeurs_mensuelles.csv", "valeurs_trimestrielles.csv"}

// Series holds the data from an INSEE time series CSV file.
type Series struct {
	Libelle    string
	IDBank     string
	LastUpdate time.Time
	Values     *date.History[float64]
}

// ParseFile reads a series from a CSV file or from the zip archive as
// downloaded from bdm.insee.fr.
func ParseFile(filename string) (*Series, error) {
	if strings.EqualFold(filepath.Ext(filename), ".zip") {
		return parseArchive(filename)
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot open %q for reading: %w", filename, err)
	}
	defer f.Close()
	return ParseSeries(f)
}

func parseArchive(filename string) (*Series, error) {
	archive, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip archive %q: %w", filename, err)
	}
	defer archive.Close()

	var foundFiles []string
	for _, f := range archive.File {
		foundFiles = append(foundFiles, f.Name)
		for _, name := range valuesFiles {
			if f.Name != name {
				continue
			}
			csvFile, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("failed to open '%s' from zip archive: %w", f.Name, err)
			}
			defer csvFile.Close()
			return ParseSeries(csvFile)
		}
	}
	return nil, fmt.Errorf("could not find a values file (mensuelles or trimestrielles) in %q (found: %s)", filename, strings.Join(foundFiles, ", "))
}

// parseInseeMonth parses a string like "2025-T2" or "2025-08" into the month
// closing that period.
func parseInseeMonth(s string) (date.Month, error) {
	// Try quarterly format: "YYYY-TQ"
	if strings.Contains(s, "-T") {
		return parseQuarter(s)
	}

	// Try monthly format: "YYYY-MM"
	parts := strings.Split(s, "-")
	if len(parts) == 2 {
		year, err := strconv.Atoi(parts[0])
		if err != nil {
			return date.Month{}, fmt.Errorf("invalid year in monthly date %q: %w", s, err)
		}
		month, err := strconv.Atoi(parts[1])
		if err != nil || month < 1 || month > 12 {
			return date.Month{}, fmt.Errorf("invalid month in monthly date %q", s)
		}
		return date.New(year, time.Month(month)), nil
	}
	return date.Month{}, fmt.Errorf("unrecognized insee date format: %q", s)
}

// parseQuarter parses a string like "2025-T2" into the last month of that quarter.
func parseQuarter(s string) (date.Month, error) {
	parts := strings.Split(s, "-T")
	if len(parts) != 2 {
		return date.Month{}, fmt.Errorf("invalid quarterly date format: %q", s)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return date.Month{}, fmt.Errorf("invalid year in quarterly date %q: %w", s, err)
	}

	quarter, err := strconv.Atoi(parts[1])
	if err != nil || quarter < 1 || quarter > 4 {
		return date.Month{}, fmt.Errorf("invalid quarter in quarterly date %q", s)
	}
	return date.New(year, time.Month(quarter*3)), nil
}

// ParseSeries reads the INSEE CSV format from an io.Reader.
func ParseSeries(r io.Reader) (*Series, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	if len(records) < 4 {
		return nil, fmt.Errorf("not enough records in csv to parse series")
	}
	for i := range 3 {
		if len(records[i]) < 2 {
			return nil, fmt.Errorf("invalid header line %d: %q", i+1, strings.Join(records[i], ";"))
		}
	}

	series := &Series{
		Libelle: records[0][1],
		IDBank:  records[1][1],
		Values:  new(date.History[float64]),
	}

	series.LastUpdate, err = time.Parse("02/01/2006 15:04", records[2][1])
	if err != nil {
		return nil, fmt.Errorf("failed to parse last update date %q: %w", records[2][1], err)
	}

	for i := 4; i < len(records); i++ {
		if len(records[i]) > 1 && records[i][1] != "" {
			m, err := parseInseeMonth(records[i][0])
			if err != nil {
				// Don't wrap, parseInseeMonth provides good context
				return nil, err
			}
			val, err := strconv.ParseFloat(records[i][1], 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse value %q for date %q: %w", records[i][1], records[i][0], err)
			}
			series.Values.Append(m, val)
		}
	}
	return series, nil
}

// Benchmark converts the index levels into percent changes from one value to
// the next, newest-first. The oldest value has no change and is skipped.
func (s *Series) Benchmark() []viewprofit.BenchmarkRow {
	if s.Values.Len() < 2 {
		return nil
	}
	rows := make([]viewprofit.BenchmarkRow, 0, s.Values.Len()-1)
	first := true
	var prev float64
	for m, v := range s.Values.Values() {
		if !first && prev != 0 {
			rows = append(rows, viewprofit.BenchmarkRow{Month: m, Value: 100 * (v/prev - 1)})
		}
		first = false
		prev = v
	}
	slices.Reverse(rows)
	return rows
}
