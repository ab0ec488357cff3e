package dataset

import (
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Catalog is the fixed statistic set used for player comparisons, in display order.
var Catalog = []string{"FG", "3P", "2P", "FT", "TRB", "AST", "STL", "BLK", "TOV", "PF", "PTS", "PER"}

// Roster chart columns.
const (
	StatPoints   = "PTS"
	StatAssists  = "AST"
	StatRebounds = "TRB"
)

// PlayerRecord is one dataset row.
type PlayerRecord struct {
	Team   string             `json:"team"`
	Player string             `json:"player"`
	Stats  map[string]float64 `json:"stats"`
	Row    int                `json:"row"`
}

// Stat returns the named statistic and whether the record carries it.
func (r PlayerRecord) Stat(name string) (float64, bool) {
	v, ok := r.Stats[name]
	return v, ok
}

// RosterLine is the per-player breakdown drawn in the roster bar chart.
type RosterLine struct {
	Player   string  `json:"player"`
	Points   float64 `json:"pts"`
	Assists  float64 `json:"ast"`
	Rebounds float64 `json:"trb"`
}

type roster struct {
	players []string
	rows    []int
	byName  map[string]int
}

// Store is an immutable, validated dataset. Safe for concurrent reads.
type Store struct {
	source    string
	teamCol   string
	playerCol string
	frame     dataframe.DataFrame
	records   []PlayerRecord
	columns   []string
	columnSet map[string]struct{}
	teams     []string
	rosters   map[string]*roster
	colValues map[string][]float64
}

// Source names where the dataset was loaded from.
func (s *Store) Source() string { return s.source }

// Len returns the number of player rows.
func (s *Store) Len() int { return len(s.records) }

// Records returns a copy of every row in dataset order.
func (s *Store) Records() []PlayerRecord {
	out := make([]PlayerRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Teams returns distinct team names in first-appearance order.
func (s *Store) Teams() []string {
	return append([]string(nil), s.teams...)
}

func (s *Store) HasTeam(team string) bool {
	_, ok := s.rosters[team]
	return ok
}

// Roster returns the distinct player names of a team in first-appearance order.
func (s *Store) Roster(team string) []string {
	r, ok := s.rosters[team]
	if !ok {
		return []string{}
	}
	return append([]string(nil), r.players...)
}

// Lookup finds a player within a team. When a name repeats within a team the
// first row wins.
func (s *Store) Lookup(team, player string) (PlayerRecord, bool) {
	r, ok := s.rosters[team]
	if !ok {
		return PlayerRecord{}, false
	}
	idx, ok := r.byName[player]
	if !ok {
		return PlayerRecord{}, false
	}
	return s.records[idx], true
}

// TeamRecords returns every row of a team, duplicates included, in dataset order.
func (s *Store) TeamRecords(team string) []PlayerRecord {
	r, ok := s.rosters[team]
	if !ok {
		return []PlayerRecord{}
	}
	out := make([]PlayerRecord, 0, len(r.rows))
	for _, idx := range r.rows {
		out = append(out, s.records[idx])
	}
	return out
}

// RosterLines returns points, assists and rebounds for every row of a team.
func (s *Store) RosterLines(team string) []RosterLine {
	rows := s.TeamRecords(team)
	lines := make([]RosterLine, 0, len(rows))
	for _, rec := range rows {
		lines = append(lines, RosterLine{
			Player:   rec.Player,
			Points:   rec.Stats[StatPoints],
			Assists:  rec.Stats[StatAssists],
			Rebounds: rec.Stats[StatRebounds],
		})
	}
	return lines
}

// NumericColumns returns every statistic column in dataset order.
func (s *Store) NumericColumns() []string {
	return append([]string(nil), s.columns...)
}

func (s *Store) HasColumn(name string) bool {
	_, ok := s.columnSet[name]
	return ok
}

// Column returns every value of a statistic column, or false when the column
// is unknown.
func (s *Store) Column(name string) ([]float64, bool) {
	vals, ok := s.colValues[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), vals...), true
}

// Frame returns a copy of the typed dataframe backing the store.
func (s *Store) Frame() dataframe.DataFrame {
	return s.frame.Copy()
}

// TeamFrame returns the rows of a team as a dataframe.
func (s *Store) TeamFrame(team string) dataframe.DataFrame {
	return s.frame.Filter(dataframe.F{
		Colname:    s.teamCol,
		Comparator: series.Eq,
		Comparando: team,
	})
}

func (s *Store) String() string {
	return fmt.Sprintf("dataset(%s: %d rows, %d teams, %d stats)", s.source, len(s.records), len(s.teams), len(s.columns))
}

// ParseStatList splits a comma-separated statistic list, dropping blanks.
func ParseStatList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
