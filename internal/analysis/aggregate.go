package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/ZanzyTHEbar/court-compare/internal/dataset"
)

// TeamAggregate holds per-statistic totals over every row of one team.
type TeamAggregate struct {
	Team   string             `json:"team"`
	Rows   int                `json:"rows"`
	Totals map[string]float64 `json:"totals"`
}

// Empty reports whether no dataset row matched the team.
func (a TeamAggregate) Empty() bool {
	return a.Rows == 0
}

// Total returns the sum for a statistic, 0 when it was not aggregated.
func (a TeamAggregate) Total(stat string) float64 {
	return a.Totals[stat]
}

// ValidateStats checks that every name is a numeric column of the store.
func ValidateStats(store *dataset.Store, stats []string) error {
	for _, st := range stats {
		if !store.HasColumn(st) {
			return &UnknownStatisticError{Stat: st}
		}
	}
	return nil
}

// Aggregate sums each requested statistic over all rows of team. A team with
// no rows yields an empty aggregate, not an error.
func Aggregate(store *dataset.Store, team string, stats []string) (TeamAggregate, error) {
	if err := ValidateStats(store, stats); err != nil {
		return TeamAggregate{}, err
	}
	agg := TeamAggregate{Team: team, Totals: make(map[string]float64, len(stats))}
	if !store.HasTeam(team) {
		return agg, nil
	}

	frame := store.TeamFrame(team)
	if frame.Err != nil {
		return TeamAggregate{}, fmt.Errorf("filter team %q: %w", team, frame.Err)
	}
	agg.Rows = frame.Nrow()
	for _, st := range stats {
		col := frame.Col(st)
		if col.Err != nil {
			return TeamAggregate{}, fmt.Errorf("column %q: %w", st, col.Err)
		}
		agg.Totals[st] = floats.Sum(col.Float())
	}
	return agg, nil
}

// PlayersOfTeam lists distinct player names of a team in dataset order.
func PlayersOfTeam(store *dataset.Store, team string) []string {
	return store.Roster(team)
}
