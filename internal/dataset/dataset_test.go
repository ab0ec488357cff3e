package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var header = "Team,Player Name,FG,3P,2P,FT,TRB,AST,STL,BLK,TOV,PF,PTS,PER,Age"

func row(team, player string, v float64) string {
	cells := []string{team, player}
	for range Catalog {
		cells = append(cells, fmt.Sprintf("%g", v))
	}
	cells = append(cells, "25")
	return strings.Join(cells, ",")
}

func sampleCSV() string {
	return strings.Join([]string{
		header,
		row("Lakers", "A1", 10),
		row("Lakers", "A2", 20),
		row("Celtics", "B1", 30),
		row("Lakers", "A1", 99),
	}, "\n") + "\n"
}

func TestLoadCSV(t *testing.T) {
	s, err := LoadCSV(strings.NewReader(sampleCSV()), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 4, s.Len())
	assert.Equal(t, []string{"Lakers", "Celtics"}, s.Teams())
	assert.Equal(t, []string{"A1", "A2"}, s.Roster("Lakers"))
	assert.Equal(t, append(append([]string{}, Catalog...), "Age"), s.NumericColumns())
	assert.True(t, s.HasColumn("Age"))
	assert.False(t, s.HasColumn("Team"))

	rec, ok := s.Lookup("Lakers", "A1")
	require.True(t, ok)
	assert.Equal(t, 10.0, rec.Stats["PTS"])
	assert.Equal(t, 1, rec.Row)

	_, ok = s.Lookup("Celtics", "A1")
	assert.False(t, ok)

	assert.Len(t, s.TeamRecords("Lakers"), 3)
	assert.Empty(t, s.TeamRecords("Knicks"))
	assert.Empty(t, s.Roster("Knicks"))
}

func TestColumnAndFrame(t *testing.T) {
	s, err := LoadCSV(strings.NewReader(sampleCSV()), DefaultOptions())
	require.NoError(t, err)

	vals, ok := s.Column("PTS")
	require.True(t, ok)
	assert.Equal(t, []float64{10, 20, 30, 99}, vals)

	_, ok = s.Column("Team")
	assert.False(t, ok)

	frame := s.TeamFrame("Lakers")
	require.NoError(t, frame.Err)
	assert.Equal(t, 3, frame.Nrow())
	assert.Equal(t, []float64{10, 20, 99}, frame.Col("PTS").Float())

	assert.Equal(t, 4, s.Frame().Nrow())
}

func TestRosterLines(t *testing.T) {
	s, err := LoadCSV(strings.NewReader(sampleCSV()), DefaultOptions())
	require.NoError(t, err)

	lines := s.RosterLines("Celtics")
	require.Len(t, lines, 1)
	assert.Equal(t, RosterLine{Player: "B1", Points: 30, Assists: 30, Rebounds: 30}, lines[0])
}

func TestLoadCSVSchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		opts    Options
		missing []string
		column  string
		row     int
	}{
		{
			name:    "missing catalog column",
			input:   "Team,Player Name,FG\nX,Y,1\n",
			missing: Catalog[1:],
		},
		{
			name:    "missing team column",
			input:   strings.Replace(header, "Team", "Squad", 1) + "\n" + row("X", "Y", 1) + "\n",
			missing: []string{"Team"},
		},
		{
			name:   "non numeric catalog value",
			input:  header + "\n" + row("X", "Y", 1) + "\n" + strings.Replace(row("X", "Z", 1), ",1,", ",abc,", 1) + "\n",
			column: "FG",
			row:    2,
		},
		{
			name:   "blank player name",
			input:  header + "\n" + row("X", "", 1) + "\n",
			column: "Player Name",
			row:    1,
		},
		{
			name:    "custom column names",
			input:   header + "\n" + row("X", "Y", 1) + "\n",
			opts:    Options{TeamColumn: "Club", PlayerColumn: "Name"},
			missing: []string{"Club", "Name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCSV(strings.NewReader(tt.input), tt.opts)
			require.Error(t, err)
			var se *SchemaError
			require.ErrorAs(t, err, &se)
			assert.True(t, IsSchemaError(err))
			if tt.missing != nil {
				assert.Equal(t, tt.missing, se.Missing)
				return
			}
			assert.Equal(t, tt.column, se.Column)
			assert.Equal(t, tt.row, se.Row)
		})
	}
}

func TestLoadCSVHeaderOnly(t *testing.T) {
	_, err := LoadCSV(strings.NewReader(header+"\n"), DefaultOptions())
	require.Error(t, err)
	assert.True(t, IsSchemaError(err))
}

func TestNonNumericExtraColumnIgnored(t *testing.T) {
	input := header + ",Pos\n" + row("X", "Y", 1) + ",PG\n"
	s, err := LoadCSV(strings.NewReader(input), DefaultOptions())
	require.NoError(t, err)
	assert.False(t, s.HasColumn("Pos"))
	assert.True(t, s.HasColumn("Age"))
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "players.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sampleCSV()), 0o644))
	s, err := Load(csvPath, Options{})
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())

	tsvPath := filepath.Join(dir, "players.tsv")
	require.NoError(t, os.WriteFile(tsvPath, []byte(strings.ReplaceAll(sampleCSV(), ",", "\t")), 0o644))
	s, err = Load(tsvPath, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Lakers", "Celtics"}, s.Teams())

	_, err = Load(filepath.Join(dir, "players.json"), Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(filepath.Join(dir, "absent.csv"), Options{})
	assert.Error(t, err)
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "players.xlsx")

	f := excelize.NewFile()
	for i, line := range strings.Split(strings.TrimSpace(sampleCSV()), "\n") {
		cells := strings.Split(line, ",")
		vals := make([]interface{}, len(cells))
		for j, c := range cells {
			vals[j] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &vals))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	s, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, []string{"A1", "A2"}, s.Roster("Lakers"))

	_, err = Load(path, Options{Sheet: "Nope"})
	assert.True(t, IsSchemaError(err))
}

func TestSQLiteRoundTrip(t *testing.T) {
	src, err := LoadCSV(strings.NewReader(sampleCSV()), DefaultOptions())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "players.db")
	require.NoError(t, WriteSQLite(path, "players", src))

	s, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, src.Teams(), s.Teams())
	assert.Equal(t, src.NumericColumns(), s.NumericColumns())

	rec, ok := s.Lookup("Celtics", "B1")
	require.True(t, ok)
	assert.Equal(t, 30.0, rec.Stats["PER"])

	_, err = LoadSQLite(path, Options{Table: "bad name;"})
	assert.Error(t, err)
}

func TestParseStatList(t *testing.T) {
	assert.Nil(t, ParseStatList(""))
	assert.Nil(t, ParseStatList("  "))
	assert.Equal(t, []string{"PTS", "AST"}, ParseStatList("PTS, AST,,"))
}
