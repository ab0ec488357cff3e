package dataset

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Options control how a dataset file is read.
type Options struct {
	TeamColumn   string
	PlayerColumn string
	// Delimiter applies to delimited text files. Zero picks ',' or '\t' from the extension.
	Delimiter rune
	// Sheet selects the XLSX worksheet. Empty means the first sheet.
	Sheet string
	// Table selects the SQLite table.
	Table string
}

// DefaultOptions returns the column names used by the stock player-stats export.
func DefaultOptions() Options {
	return Options{
		TeamColumn:   "Team",
		PlayerColumn: "Player Name",
		Table:        "players",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TeamColumn == "" {
		o.TeamColumn = d.TeamColumn
	}
	if o.PlayerColumn == "" {
		o.PlayerColumn = d.PlayerColumn
	}
	if o.Table == "" {
		o.Table = d.Table
	}
	return o
}

// Load reads a dataset file, choosing the reader from its extension.
func Load(path string, opts Options) (*Store, error) {
	opts = opts.withDefaults()
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv", ".tsv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open dataset: %w", err)
		}
		defer f.Close()
		if opts.Delimiter == 0 && ext == ".tsv" {
			opts.Delimiter = '\t'
		}
		return readDelimited(path, f, opts)
	case ".xlsx", ".xlsm":
		return LoadXLSX(path, opts)
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(path, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// LoadCSV reads delimited text from r.
func LoadCSV(r io.Reader, opts Options) (*Store, error) {
	return readDelimited("csv", r, opts.withDefaults())
}

func readDelimited(source string, r io.Reader, opts Options) (*Store, error) {
	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}
	df := dataframe.ReadCSV(r,
		dataframe.WithDelimiter(delim),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("read %s: %w", source, df.Err)
	}
	return fromFrame(source, df, opts)
}

// FromRecords builds a store from a header row followed by data rows.
func FromRecords(source string, records [][]string, opts Options) (*Store, error) {
	opts = opts.withDefaults()
	if len(records) == 0 {
		return nil, &SchemaError{Source: source, Reason: "no header row"}
	}
	width := len(records[0])
	padded := make([][]string, len(records))
	for i, row := range records {
		if len(row) > width {
			return nil, &SchemaError{Source: source, Row: i, Reason: fmt.Sprintf("has %d cells, header has %d", len(row), width)}
		}
		padded[i] = row
		if len(row) < width {
			padded[i] = make([]string, width)
			copy(padded[i], row)
		}
	}
	df := dataframe.LoadRecords(padded,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("load %s: %w", source, df.Err)
	}
	return fromFrame(source, df, opts)
}

// fromFrame validates an all-string frame and converts it into a typed store.
func fromFrame(source string, raw dataframe.DataFrame, opts Options) (*Store, error) {
	names := raw.Names()
	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}

	var missing []string
	for _, want := range append([]string{opts.TeamColumn, opts.PlayerColumn}, Catalog...) {
		if !present[want] {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Source: source, Missing: missing}
	}
	if raw.Nrow() == 0 {
		return nil, &SchemaError{Source: source, Reason: "dataset has no rows"}
	}

	catalog := make(map[string]bool, len(Catalog))
	for _, c := range Catalog {
		catalog[c] = true
	}

	teams, err := identityColumn(source, raw, opts.TeamColumn)
	if err != nil {
		return nil, err
	}
	players, err := identityColumn(source, raw, opts.PlayerColumn)
	if err != nil {
		return nil, err
	}

	var columns []string
	values := make(map[string][]float64)
	for _, name := range names {
		if name == opts.TeamColumn || name == opts.PlayerColumn {
			continue
		}
		vals, err := numericColumn(source, name, raw.Col(name).Records())
		if err != nil {
			if catalog[name] {
				return nil, err
			}
			// Non-numeric extra columns are carried by the file but not offered as statistics.
			continue
		}
		columns = append(columns, name)
		values[name] = vals
	}

	typed := []series.Series{
		series.New(teams, series.String, opts.TeamColumn),
		series.New(players, series.String, opts.PlayerColumn),
	}
	for _, name := range columns {
		typed = append(typed, series.New(values[name], series.Float, name))
	}
	frame := dataframe.New(typed...)
	if frame.Err != nil {
		return nil, fmt.Errorf("build frame for %s: %w", source, frame.Err)
	}

	s := &Store{
		source:    source,
		teamCol:   opts.TeamColumn,
		playerCol: opts.PlayerColumn,
		frame:     frame,
		records:   make([]PlayerRecord, len(teams)),
		columns:   columns,
		columnSet: make(map[string]struct{}, len(columns)),
		rosters:   make(map[string]*roster),
		colValues: values,
	}
	for _, c := range columns {
		s.columnSet[c] = struct{}{}
	}

	for i := range teams {
		stats := make(map[string]float64, len(columns))
		for _, c := range columns {
			stats[c] = values[c][i]
		}
		s.records[i] = PlayerRecord{Team: teams[i], Player: players[i], Stats: stats, Row: i + 1}

		r, ok := s.rosters[teams[i]]
		if !ok {
			r = &roster{byName: make(map[string]int)}
			s.rosters[teams[i]] = r
			s.teams = append(s.teams, teams[i])
		}
		r.rows = append(r.rows, i)
		if _, seen := r.byName[players[i]]; !seen {
			r.byName[players[i]] = i
			r.players = append(r.players, players[i])
		}
	}
	return s, nil
}

func identityColumn(source string, df dataframe.DataFrame, name string) ([]string, error) {
	vals := df.Col(name).Records()
	for i, v := range vals {
		if strings.TrimSpace(v) == "" || v == "NaN" {
			return nil, &SchemaError{Source: source, Column: name, Row: i + 1, Reason: "value is missing"}
		}
	}
	return vals, nil
}

func numericColumn(source, name string, raw []string) ([]float64, error) {
	out := make([]float64, len(raw))
	for i, v := range raw {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &SchemaError{Source: source, Column: name, Row: i + 1, Value: v, Reason: "expected a finite number"}
		}
		out[i] = f
	}
	return out, nil
}
