package cmd

import (
	"archive/zip"
	"context"
	"flag"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/etnz/viewprofit"
	"github.com/etnz/viewprofit/config"
	"github.com/etnz/viewprofit/date"
	"github.com/etnz/viewprofit/tabular"
	"github.com/google/subcommands"
)

var testRecords = map[string]string{
	"funds/a.jsonl": `{"date":"2024-04","starting_balance":1150,"ending_balance":1100}
{"date":"2024-03","starting_balance":1120,"ending_balance":1150}
{"date":"2024-02","starting_balance":1000,"ending_balance":1120}
{"date":"2024-01","deposit":1000,"starting_balance":0,"ending_balance":1000}
`,
	"funds/b.jsonl": `{"date":"2024-04","starting_balance":505,"ending_balance":520}
{"date":"2024-03","starting_balance":510,"ending_balance":505}
{"date":"2024-02","starting_balance":500,"ending_balance":510}
{"date":"2024-01","deposit":500,"starting_balance":0,"ending_balance":500}
`,
	"benchmarks/inflation.jsonl": `{"date":"2024-04","value":0.2}
{"date":"2024-03","value":0.1}
`,
}

// setupData writes the test records into a new data folder and points the
// global flags to it.
func setupData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range testRecords {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	// no configuration file nor database.
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("VIEWPROFIT_DATABASE_URL", "")

	*dataDir = dir
	*raw = true
	t.Cleanup(func() {
		*dataDir = ""
		*raw = false
	})
	return dir
}

func TestLoadConfig_Timezone(t *testing.T) {
	setupData(t)
	t.Setenv("VIEWPROFIT_TIMEZONE", "Europe/Paris")
	old := date.Location
	t.Cleanup(func() { date.Location = old })

	if _, err := LoadConfig(); err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if got := date.Location.String(); got != "Europe/Paris" {
		t.Fatalf("date.Location = %q, want Europe/Paris", got)
	}
	midnight := time.Date(2024, time.March, 1, 0, 0, 0, 0, date.Location).Unix()
	if got := date.FromEpoch(midnight); got != date.New(2024, time.March) {
		t.Errorf("FromEpoch(%d) = %v, want 2024-03", midnight, got)
	}

	t.Setenv("VIEWPROFIT_TIMEZONE", "Nowhere/Land")
	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() with an unknown timezone should fail")
	}
}

func TestRecompute(t *testing.T) {
	setupData(t)
	s, err := recompute(context.Background(), nil)
	if err != nil {
		t.Fatalf("recompute() failed: %v", err)
	}
	if got, want := s.res.FundNames, []string{"a", "b"}; !slices.Equal(got, want) {
		t.Errorf("recompute().FundNames = %v, want %v", got, want)
	}
	if got := len(s.res.Months); got != 4 {
		t.Errorf("recompute() has %d months, want 4", got)
	}

	rows, err := s.fund(viewprofit.PortfolioName)
	if err != nil || len(rows) != 4 || rows[0].EndingBalance != 1620 {
		t.Errorf("fund(portfolio) = %v, %v, want 4 rows ending at 1620", rows, err)
	}
	if _, err := s.fund("c"); err == nil || !strings.Contains(err.Error(), "available funds are: a, b") {
		t.Errorf("fund(c) error = %v", err)
	}
	if _, err := s.benchmark("cpi"); err == nil || !strings.Contains(err.Error(), "inflation") {
		t.Errorf("benchmark(cpi) error = %v", err)
	}
}

func TestRecompute_Override(t *testing.T) {
	setupData(t)
	s, err := recompute(context.Background(), func(cfg *config.Config) { cfg.Months = 2 })
	if err != nil {
		t.Fatalf("recompute() failed: %v", err)
	}
	if got := len(s.res.Months); got != 2 {
		t.Errorf("recompute() has %d months, want 2", got)
	}
	if got := len(s.res.Portfolio); got != 2 {
		t.Errorf("recompute() has %d portfolio rows, want 2", got)
	}
}

func TestFilterRows(t *testing.T) {
	rows := []viewprofit.ReturnRow{
		{Month: date.New(2024, 4)},
		{Month: date.New(2024, 3)},
		{Month: date.New(2024, 2)},
	}
	month := func(r viewprofit.ReturnRow) date.Month { return r.Month }
	testCases := []struct {
		from, to string
		want     int
	}{
		{"", "", 3},
		{"2024-03", "", 2},
		{"", "2024-02", 1},
		{"2024-05", "", 0},
	}
	for _, tc := range testCases {
		r := rangeFlags{from: tc.from, to: tc.to}
		rg, err := r.Range()
		if err != nil {
			t.Fatal(err)
		}
		if got := filterRows(rows, month, rg); len(got) != tc.want {
			t.Errorf("filterRows(%q, %q) = %d rows, want %d", tc.from, tc.to, len(got), tc.want)
		}
	}
}

func TestCommands(t *testing.T) {
	setupData(t)
	ctx := context.Background()
	testCases := []struct {
		name string
		cmd  subcommands.Command
		want subcommands.ExitStatus
	}{
		{"fund", &fundCmd{name: "a"}, subcommands.ExitSuccess},
		{"fund without name", &fundCmd{}, subcommands.ExitUsageError},
		{"unknown fund", &fundCmd{name: "c"}, subcommands.ExitFailure},
		{"fund bad range", &fundCmd{name: "a", rangeFlags: rangeFlags{from: "someday"}}, subcommands.ExitUsageError},
		{"portfolio", &portfolioCmd{months: -1, tax: -1}, subcommands.ExitSuccess},
		{"portfolio bad tax", &portfolioCmd{months: -1, tax: 101}, subcommands.ExitUsageError},
		{"benchmark", &benchmarkCmd{}, subcommands.ExitSuccess},
		{"unknown benchmark", &benchmarkCmd{name: "cpi"}, subcommands.ExitFailure},
		{"allocation", &allocationCmd{}, subcommands.ExitSuccess},
		{"stats", &statsCmd{name: "a", with: "b", months: -1}, subcommands.ExitSuccess},
		{"stats unknown", &statsCmd{name: "c", months: -1}, subcommands.ExitFailure},
		{"xcorr", &xcorrCmd{a: "a", b: "portfolio", months: -1}, subcommands.ExitSuccess},
		{"xcorr missing", &xcorrCmd{a: "a", months: -1}, subcommands.ExitUsageError},
		{"pca", &pcaCmd{months: -1, standardize: true}, subcommands.ExitSuccess},
		{"report", &reportCmd{}, subcommands.ExitSuccess},
		{"topic", &topicCmd{}, subcommands.ExitSuccess},
		{"topic list", &topicCmd{list: true}, subcommands.ExitSuccess},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cmd.Execute(ctx, flag.NewFlagSet(tc.name, flag.ContinueOnError)); got != tc.want {
				t.Errorf("%s Execute() = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

func TestReportHTML(t *testing.T) {
	setupData(t)
	file := filepath.Join(t.TempDir(), "report.html")
	c := &reportCmd{html: file}
	if got := c.Execute(context.Background(), flag.NewFlagSet("report", flag.ContinueOnError)); got != subcommands.ExitSuccess {
		t.Fatalf("report Execute() = %v", got)
	}
	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "<h1>Portfolio Report</h1>") {
		t.Errorf("report.html = %s", content)
	}
}

func TestCalc(t *testing.T) {
	setupData(t)
	out := t.TempDir()
	c := &calcCmd{output: out}
	if got := c.Execute(context.Background(), flag.NewFlagSet("calc", flag.ContinueOnError)); got != subcommands.ExitSuccess {
		t.Fatalf("calc Execute() = %v", got)
	}
	for _, name := range []string{
		"funds/a.jsonl",
		"funds/b.jsonl",
		"benchmarks/inflation.jsonl",
		"portfolio/portfolio.jsonl",
		"stats/a-stddev.jsonl",
		"stats/portfolio-second-derivative.jsonl",
	} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("calc did not write %s: %v", name, err)
		}
	}

	// derived tables can be read back as records.
	table, err := tabular.DecodeFile(filepath.Join(out, "funds/a.jsonl"), viewprofit.Fund)
	if err != nil {
		t.Fatal(err)
	}
	s, err := table.Series(nil)
	if err != nil {
		t.Fatal(err)
	}
	rows := viewprofit.FundRows(s)
	if len(rows) != 4 || rows[0].EndingBalance != 1100 {
		t.Errorf("funds/a.jsonl rows = %v", rows)
	}
}

const inseeCSV = `"Libellé";"Indice des prix à la consommation";"Codes"
"idBank";"001763852";""
"Dernière mise à jour";"15/03/2024 08:45";""
"Période";"";""
"2024-02";"118.5";"A"
"2024-01";"117.7";"A"
"2023-12";"118.2";"A"
`

func TestImportInsee(t *testing.T) {
	dir := setupData(t)
	archive := filepath.Join(t.TempDir(), "serie_001763852.zip")
	f, err := os.Create(archive)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("valeurs_mensuelles.csv")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte(inseeCSV))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	c := &importInseeCmd{file: archive, name: "cpi"}
	if got := c.Execute(context.Background(), flag.NewFlagSet("import-insee", flag.ContinueOnError)); got != subcommands.ExitSuccess {
		t.Fatalf("import-insee Execute() = %v", got)
	}
	table, err := tabular.DecodeFile(filepath.Join(dir, "benchmarks", "cpi.jsonl"), viewprofit.Benchmark)
	if err != nil {
		t.Fatal(err)
	}
	s, err := table.Series(nil)
	if err != nil {
		t.Fatal(err)
	}
	rows := viewprofit.BenchmarkRows(s)
	if len(rows) != 2 || rows[0].Month != date.New(2024, 2) {
		t.Errorf("cpi.jsonl rows = %v", rows)
	}

	if got := (&importInseeCmd{}).Execute(context.Background(), flag.NewFlagSet("import-insee", flag.ContinueOnError)); got != subcommands.ExitUsageError {
		t.Errorf("import-insee without file Execute() = %v, want %v", got, subcommands.ExitUsageError)
	}
}

func TestCompletion(t *testing.T) {
	setupData(t)
	commander := subcommands.NewCommander(flag.NewFlagSet("viewprofit", flag.ContinueOnError), "viewprofit")
	Register(commander)

	root := completionCommand(commander)
	for _, name := range []string{"fund", "portfolio", "stats", "xcorr", "pca", "calc", "import-insee", "topic"} {
		if _, ok := root.Sub[name]; !ok {
			t.Errorf("completion has no %q subcommand", name)
		}
	}
	if _, ok := root.Sub["fund"].Flags["n"]; !ok {
		t.Error("completion of fund has no -n flag")
	}

	got := seriesPredictor{}.Predict("")
	for _, want := range []string{"a", "b", "inflation", "portfolio"} {
		if !slices.Contains(got, want) {
			t.Errorf("seriesPredictor.Predict() = %v, want %q", got, want)
		}
	}
	if got := (seriesPredictor{}).Predict("inf"); !slices.Equal(got, []string{"inflation"}) {
		t.Errorf("seriesPredictor.Predict(inf) = %v", got)
	}
	if got := (topicPredictor{}).Predict("rec"); !slices.Contains(got, "records") {
		t.Errorf("topicPredictor.Predict(rec) = %v", got)
	}
}
