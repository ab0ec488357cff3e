package analysis

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundNotice is shown in place of the player chart when a lookup misses.
const NotFoundNotice = "One or both player names are not found in the selected teams."

// ErrInvalidDivisor is returned for a zero or negative scaling divisor.
var ErrInvalidDivisor = errors.New("divisor must be positive")

// ErrNonFiniteScale is returned when scaling would produce NaN or an infinity.
var ErrNonFiniteScale = errors.New("scaled value is not finite")

// UnknownStatisticError names a statistic that is not a numeric dataset column.
type UnknownStatisticError struct {
	Stat string
}

func (e *UnknownStatisticError) Error() string {
	return fmt.Sprintf("unknown statistic %q", e.Stat)
}

// PlayerRef identifies a player within a team.
type PlayerRef struct {
	Team   string `json:"team"`
	Player string `json:"player"`
}

func (p PlayerRef) String() string {
	return p.Player + " (" + p.Team + ")"
}

// PlayerNotFoundError lists the players a comparison could not resolve.
type PlayerNotFoundError struct {
	Missing []PlayerRef
}

func (e *PlayerNotFoundError) Error() string {
	names := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		names[i] = m.String()
	}
	return "player not found: " + strings.Join(names, ", ")
}
