package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ZanzyTHEbar/court-compare/internal/dataset"
)

// Range is the min and max of one statistic over the whole dataset.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) Degenerate() bool {
	return r.Max == r.Min
}

// Bounds maps statistic name to its dataset-wide range.
type Bounds map[string]Range

// ComputeBounds scans every row of the store, never a filtered subset.
func ComputeBounds(store *dataset.Store, stats []string) (Bounds, error) {
	b := make(Bounds, len(stats))
	for _, st := range stats {
		if _, done := b[st]; done {
			continue
		}
		vals, ok := store.Column(st)
		if !ok {
			return nil, &UnknownStatisticError{Stat: st}
		}
		if len(vals) == 0 {
			return nil, fmt.Errorf("column %q has no values", st)
		}
		b[st] = Range{Min: floats.Min(vals), Max: floats.Max(vals)}
	}
	return b, nil
}

// Scale maps value into ((value - min) / (max - min)) / divisor. The result is
// not clamped: team totals usually exceed the per-row max. A degenerate range
// scales to 0. Operands are halved before subtracting so ranges near the
// float64 limits stay finite; any non-finite result is an error.
func Scale(value float64, stat string, bounds Bounds, divisor float64) (float64, error) {
	if divisor <= 0 {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidDivisor, divisor)
	}
	r, ok := bounds[stat]
	if !ok {
		return 0, &UnknownStatisticError{Stat: stat}
	}
	if r.Degenerate() {
		return 0, nil
	}
	v := ((value/2 - r.Min/2) / (r.Max/2 - r.Min/2)) / divisor
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s", ErrNonFiniteScale, stat)
	}
	return v, nil
}
