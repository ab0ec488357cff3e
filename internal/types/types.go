package types

import (
	"time"

	"github.com/ZanzyTHEbar/court-compare/internal/analysis"
	"github.com/ZanzyTHEbar/court-compare/internal/charts"
	"github.com/ZanzyTHEbar/court-compare/internal/dataset"
)

// TeamQuery selects two teams and the statistics axis for a team comparison.
// Stats is resolved separately so an omitted list can be told apart from an
// empty one.
type TeamQuery struct {
	TeamA string `form:"team_a" json:"team_a"`
	TeamB string `form:"team_b" json:"team_b"`
}

// PlayerQuery selects one player from each of two teams.
type PlayerQuery struct {
	TeamA   string `form:"team_a" json:"team_a" binding:"required"`
	PlayerA string `form:"player_a" json:"player_a" binding:"required"`
	TeamB   string `form:"team_b" json:"team_b" binding:"required"`
	PlayerB string `form:"player_b" json:"player_b" binding:"required"`
}

// DashboardQuery mirrors the dashboard controls.
type DashboardQuery struct {
	TeamA       string `form:"team_a" json:"team_a"`
	TeamB       string `form:"team_b" json:"team_b"`
	PlayerA     string `form:"player_a" json:"player_a"`
	PlayerB     string `form:"player_b" json:"player_b"`
	ShowPlayers bool   `form:"show_players" json:"show_players"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Source    string    `json:"source"`
	Rows      int       `json:"rows"`
	Teams     int       `json:"teams"`
}

type TeamsResponse struct {
	Teams    []string           `json:"teams"`
	Defaults analysis.Selection `json:"defaults"`
}

type StatsResponse struct {
	Catalog []string `json:"catalog"`
	Numeric []string `json:"numeric"`
}

type PlayersResponse struct {
	Team    string   `json:"team"`
	Players []string `json:"players"`
}

type RosterResponse struct {
	Team     string               `json:"team"`
	Title    string               `json:"title"`
	Players  []dataset.RosterLine `json:"players"`
	ChartURL string               `json:"chart_url"`
}

// ComparisonResponse pairs a comparison with its radar figure.
type ComparisonResponse struct {
	Comparison analysis.ComparisonResult `json:"comparison"`
	Figure     charts.Figure             `json:"figure"`
}

// NewComparisonResponse builds the figure for res.
func NewComparisonResponse(res analysis.ComparisonResult) ComparisonResponse {
	return ComparisonResponse{Comparison: res, Figure: charts.RadarFigure(res)}
}

// DashboardResponse carries every dashboard panel. Players is nil unless the
// rosters were requested; PlayerComparison is nil unless both players were
// selected and found, in which case Notice explains the miss.
type DashboardResponse struct {
	Teams            ComparisonResponse  `json:"teams"`
	Players          []RosterResponse    `json:"players,omitempty"`
	PlayerComparison *ComparisonResponse `json:"player_comparison,omitempty"`
	Notice           string              `json:"notice,omitempty"`
}
