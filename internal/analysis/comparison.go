package analysis

import (
	"fmt"

	"github.com/ZanzyTHEbar/court-compare/internal/dataset"
)

type Kind string

const (
	KindTeam   Kind = "team"
	KindPlayer Kind = "player"
)

type WarningKind string

const (
	WarningDegenerateRange WarningKind = "degenerate_range"
	WarningEmptyAggregate  WarningKind = "empty_aggregate"
)

// Warning is a soft condition that did not stop a comparison.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Stat    string      `json:"stat,omitempty"`
	Subject string      `json:"subject,omitempty"`
	Message string      `json:"message"`
}

// Series is one side of a comparison. Scaled and Actual are aligned with Theta.
type Series struct {
	Name   string    `json:"name"`
	Team   string    `json:"team"`
	Theta  []string  `json:"theta"`
	Scaled []float64 `json:"scaled"`
	Actual []float64 `json:"actual"`
	Empty  bool      `json:"empty,omitempty"`
}

// ComparisonResult is the chart-ready output of a team or player comparison.
type ComparisonResult struct {
	Kind     Kind      `json:"kind"`
	Title    string    `json:"title"`
	Theta    []string  `json:"theta"`
	A        Series    `json:"a"`
	B        Series    `json:"b"`
	Divisor  float64   `json:"divisor"`
	Warnings []Warning `json:"warnings"`
}

// Options hold the presentation divisors applied after min-max scaling.
type Options struct {
	TeamDivisor   float64
	PlayerDivisor float64
}

func DefaultOptions() Options {
	return Options{TeamDivisor: 10, PlayerDivisor: 1}
}

// Validate rejects non-positive divisors.
func (o Options) Validate() error {
	if o.TeamDivisor <= 0 {
		return fmt.Errorf("team divisor: %w", ErrInvalidDivisor)
	}
	if o.PlayerDivisor <= 0 {
		return fmt.Errorf("player divisor: %w", ErrInvalidDivisor)
	}
	return nil
}

// Selection is the initial dashboard state.
type Selection struct {
	TeamA string   `json:"team_a"`
	TeamB string   `json:"team_b"`
	Stats []string `json:"stats"`
}

// Builder produces comparisons over one shared, read-only store. It keeps no
// per-call state, so one Builder serves concurrent requests.
type Builder struct {
	store *dataset.Store
	opts  Options
}

func NewBuilder(store *dataset.Store, opts Options) *Builder {
	return &Builder{store: store, opts: opts}
}

func (b *Builder) Store() *dataset.Store {
	return b.store
}

func (b *Builder) Options() Options {
	return b.opts
}

// DefaultSelection picks the first two teams in appearance order and the full
// catalog. A single-team dataset compares the team with itself.
func (b *Builder) DefaultSelection() Selection {
	sel := Selection{Stats: append([]string(nil), dataset.Catalog...)}
	teams := b.store.Teams()
	switch {
	case len(teams) >= 2:
		sel.TeamA, sel.TeamB = teams[0], teams[1]
	case len(teams) == 1:
		sel.TeamA, sel.TeamB = teams[0], teams[0]
	}
	return sel
}

// BuildTeamComparison compares team totals. Totals are scaled against the
// per-player bounds of the whole dataset and then divided by the team divisor.
func (b *Builder) BuildTeamComparison(teamA, teamB string, stats []string) (ComparisonResult, error) {
	theta := append([]string{}, stats...)
	aggA, err := Aggregate(b.store, teamA, theta)
	if err != nil {
		return ComparisonResult{}, err
	}
	aggB, err := Aggregate(b.store, teamB, theta)
	if err != nil {
		return ComparisonResult{}, err
	}
	bounds, err := ComputeBounds(b.store, theta)
	if err != nil {
		return ComparisonResult{}, err
	}

	res := ComparisonResult{
		Kind:     KindTeam,
		Title:    fmt.Sprintf("Team Comparison: %s vs %s", teamA, teamB),
		Theta:    theta,
		Divisor:  b.opts.TeamDivisor,
		Warnings: degenerateWarnings(theta, bounds),
	}
	for _, side := range []struct {
		agg TeamAggregate
		out *Series
	}{{aggA, &res.A}, {aggB, &res.B}} {
		if side.agg.Empty() {
			*side.out = emptySeries(side.agg.Team, theta)
			res.Warnings = append(res.Warnings, Warning{
				Kind:    WarningEmptyAggregate,
				Subject: side.agg.Team,
				Message: fmt.Sprintf("team %q has no players in the dataset", side.agg.Team),
			})
			continue
		}
		actual := make([]float64, len(theta))
		for i, st := range theta {
			actual[i] = side.agg.Total(st)
		}
		s, err := scaleSeries(side.agg.Team, side.agg.Team, theta, actual, bounds, b.opts.TeamDivisor)
		if err != nil {
			return ComparisonResult{}, err
		}
		*side.out = s
	}
	return res, nil
}

// BuildPlayerComparison compares two players over the full catalog. Both
// players are resolved before anything is scaled; any miss yields a
// *PlayerNotFoundError naming every unresolved player.
func (b *Builder) BuildPlayerComparison(teamA, playerA, teamB, playerB string) (ComparisonResult, error) {
	recA, okA := b.store.Lookup(teamA, playerA)
	recB, okB := b.store.Lookup(teamB, playerB)
	if !okA || !okB {
		nf := &PlayerNotFoundError{}
		if !okA {
			nf.Missing = append(nf.Missing, PlayerRef{Team: teamA, Player: playerA})
		}
		if !okB {
			nf.Missing = append(nf.Missing, PlayerRef{Team: teamB, Player: playerB})
		}
		return ComparisonResult{}, nf
	}

	theta := append([]string(nil), dataset.Catalog...)
	bounds, err := ComputeBounds(b.store, theta)
	if err != nil {
		return ComparisonResult{}, err
	}
	res := ComparisonResult{
		Kind:     KindPlayer,
		Title:    fmt.Sprintf("Player Comparison: %s vs %s", playerA, playerB),
		Theta:    theta,
		Divisor:  b.opts.PlayerDivisor,
		Warnings: degenerateWarnings(theta, bounds),
	}
	if res.A, err = b.playerSeries(recA, theta, bounds); err != nil {
		return ComparisonResult{}, err
	}
	if res.B, err = b.playerSeries(recB, theta, bounds); err != nil {
		return ComparisonResult{}, err
	}
	return res, nil
}

func (b *Builder) playerSeries(rec dataset.PlayerRecord, theta []string, bounds Bounds) (Series, error) {
	actual := make([]float64, len(theta))
	for i, st := range theta {
		actual[i] = rec.Stats[st]
	}
	return scaleSeries(rec.Player, rec.Team, theta, actual, bounds, b.opts.PlayerDivisor)
}

func scaleSeries(name, team string, theta []string, actual []float64, bounds Bounds, divisor float64) (Series, error) {
	scaled := make([]float64, len(theta))
	for i, st := range theta {
		v, err := Scale(actual[i], st, bounds, divisor)
		if err != nil {
			return Series{}, err
		}
		scaled[i] = v
	}
	return Series{
		Name:   name,
		Team:   team,
		Theta:  append([]string(nil), theta...),
		Scaled: scaled,
		Actual: actual,
	}, nil
}

func emptySeries(team string, theta []string) Series {
	return Series{
		Name:   team,
		Team:   team,
		Theta:  append([]string(nil), theta...),
		Scaled: make([]float64, len(theta)),
		Actual: make([]float64, len(theta)),
		Empty:  true,
	}
}

func degenerateWarnings(theta []string, bounds Bounds) []Warning {
	warnings := []Warning{}
	seen := make(map[string]bool, len(theta))
	for _, st := range theta {
		if seen[st] {
			continue
		}
		seen[st] = true
		if r := bounds[st]; r.Degenerate() {
			warnings = append(warnings, Warning{
				Kind:    WarningDegenerateRange,
				Stat:    st,
				Message: fmt.Sprintf("%s has the same value (%g) for every player; scaled to 0", st, r.Min),
			})
		}
	}
	return warnings
}
