package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/court-compare/internal/analysis"
	"github.com/ZanzyTHEbar/court-compare/internal/charts"
	"github.com/ZanzyTHEbar/court-compare/internal/dataset"
	apperrors "github.com/ZanzyTHEbar/court-compare/internal/errors"
	"github.com/ZanzyTHEbar/court-compare/internal/export"
	"github.com/ZanzyTHEbar/court-compare/internal/types"
)

// RosterChart godoc
// @Summary Stacked PTS/AST/TRB bar chart of a team's players
// @Tags charts
// @Produce image/svg+xml,image/png
// @Param team path string true "Team"
// @Param format query string false "svg or png" default(svg)
// @Success 200 {file} binary
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/teams/{team}/roster/chart [get]
func (h *Handler) RosterChart(c *gin.Context) {
	team, ok := h.knownTeam(c)
	if !ok {
		return
	}
	format, err := charts.ParseFormat(c.Query("format"))
	if err != nil {
		apperrors.Respond(c, apperrors.NewValidationError(err.Error(), map[string]string{"format": c.Query("format")}))
		return
	}

	var buf bytes.Buffer
	if err := charts.RosterChart(team, h.builder.Store().RosterLines(team), format, &buf); err != nil {
		apperrors.Respond(c, err)
		return
	}
	h.metrics.IncrementChartRendered()
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// CompareTeams godoc
// @Summary Radar comparison of two teams' summed statistics
// @Tags compare
// @Produce json
// @Param team_a query string false "First team (defaults to the first team in the dataset)"
// @Param team_b query string false "Second team (defaults to the second team in the dataset)"
// @Param stats query string false "Comma separated statistics; omitted means the full catalog, empty means none"
// @Success 200 {object} types.ComparisonResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/compare/teams [get]
func (h *Handler) CompareTeams(c *gin.Context) {
	var q types.TeamQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperrors.Respond(c, apperrors.NewValidationError(err.Error(), nil))
		return
	}
	res, err := h.compareTeams(q.TeamA, q.TeamB, h.statsParam(c))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewComparisonResponse(res))
}

// ComparePlayers godoc
// @Summary Radar comparison of two players over the full catalog
// @Tags compare
// @Produce json
// @Param team_a query string true "Team of the first player"
// @Param player_a query string true "First player"
// @Param team_b query string true "Team of the second player"
// @Param player_b query string true "Second player"
// @Success 200 {object} types.ComparisonResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/compare/players [get]
func (h *Handler) ComparePlayers(c *gin.Context) {
	var q types.PlayerQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperrors.Respond(c, apperrors.NewValidationError("team_a, player_a, team_b and player_b are required", nil))
		return
	}
	res, err := h.comparePlayers(q.TeamA, q.PlayerA, q.TeamB, q.PlayerB)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewComparisonResponse(res))
}

// Dashboard godoc
// @Summary Every dashboard panel in one response
// @Description The team comparison is always present. Rosters are included with show_players=true.
// @Description A player comparison is included when both players are given; a player missing from
// @Description the selected team yields a notice instead and leaves the team comparison intact.
// @Tags compare
// @Produce json
// @Param team_a query string false "First team"
// @Param team_b query string false "Second team"
// @Param stats query string false "Comma separated statistics"
// @Param show_players query bool false "Include both rosters"
// @Param player_a query string false "Player from team_a"
// @Param player_b query string false "Player from team_b"
// @Success 200 {object} types.DashboardResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/dashboard [get]
func (h *Handler) Dashboard(c *gin.Context) {
	var q types.DashboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperrors.Respond(c, apperrors.NewValidationError(err.Error(), nil))
		return
	}
	teamA, teamB := h.resolveTeams(q.TeamA, q.TeamB)

	teamRes, err := h.compareTeams(teamA, teamB, h.statsParam(c))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	resp := types.DashboardResponse{Teams: types.NewComparisonResponse(teamRes)}

	if q.ShowPlayers {
		resp.Players = []types.RosterResponse{h.roster(teamA), h.roster(teamB)}
	}

	if q.PlayerA != "" && q.PlayerB != "" {
		playerRes, err := h.comparePlayers(teamA, q.PlayerA, teamB, q.PlayerB)
		var notFound *analysis.PlayerNotFoundError
		switch {
		case errors.As(err, &notFound):
			resp.Notice = analysis.NotFoundNotice
		case err != nil:
			apperrors.Respond(c, err)
			return
		default:
			pc := types.NewComparisonResponse(playerRes)
			resp.PlayerComparison = &pc
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Export godoc
// @Summary Download the selected comparisons as an XLSX workbook
// @Tags compare
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param team_a query string false "First team"
// @Param team_b query string false "Second team"
// @Param stats query string false "Comma separated statistics"
// @Param player_a query string false "Player from team_a"
// @Param player_b query string false "Player from team_b"
// @Success 200 {file} binary
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/compare/export [get]
func (h *Handler) Export(c *gin.Context) {
	var q types.DashboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperrors.Respond(c, apperrors.NewValidationError(err.Error(), nil))
		return
	}
	teamA, teamB := h.resolveTeams(q.TeamA, q.TeamB)

	teamRes, err := h.compareTeams(teamA, teamB, h.statsParam(c))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	results := []analysis.ComparisonResult{teamRes}

	if q.PlayerA != "" && q.PlayerB != "" {
		playerRes, err := h.comparePlayers(teamA, q.PlayerA, teamB, q.PlayerB)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		results = append(results, playerRes)
	}

	var buf bytes.Buffer
	if err := export.WriteComparison(&buf, results...); err != nil {
		apperrors.Respond(c, err)
		return
	}
	h.metrics.IncrementExport()
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(teamA, teamB)))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

func (h *Handler) resolveTeams(teamA, teamB string) (string, string) {
	if teamA == "" || teamB == "" {
		def := h.builder.DefaultSelection()
		if teamA == "" {
			teamA = def.TeamA
		}
		if teamB == "" {
			teamB = def.TeamB
		}
	}
	return teamA, teamB
}

// statsParam distinguishes an omitted stats parameter (full catalog) from an
// explicitly empty one (no axes). Repeated parameters are concatenated.
func (h *Handler) statsParam(c *gin.Context) []string {
	raw, ok := c.GetQueryArray("stats")
	if !ok {
		return append([]string(nil), dataset.Catalog...)
	}
	stats := dataset.ParseStatList(strings.Join(raw, ","))
	if stats == nil {
		return []string{}
	}
	return stats
}

func (h *Handler) compareTeams(teamA, teamB string, stats []string) (analysis.ComparisonResult, error) {
	teamA, teamB = h.resolveTeams(teamA, teamB)
	start := time.Now()
	res, err := h.builder.BuildTeamComparison(teamA, teamB, stats)
	if err != nil {
		return res, err
	}
	h.record(res, start)
	return res, nil
}

func (h *Handler) comparePlayers(teamA, playerA, teamB, playerB string) (analysis.ComparisonResult, error) {
	start := time.Now()
	res, err := h.builder.BuildPlayerComparison(teamA, playerA, teamB, playerB)
	if err != nil {
		var notFound *analysis.PlayerNotFoundError
		if errors.As(err, &notFound) {
			h.metrics.IncrementPlayerNotFound()
		}
		return res, err
	}
	h.record(res, start)
	return res, nil
}

func (h *Handler) record(res analysis.ComparisonResult, start time.Time) {
	h.metrics.RecordComparison(string(res.Kind), len(res.Warnings))
	h.logger.ComparisonLogger(string(res.Kind), res.A.Name, res.B.Name, len(res.Theta), len(res.Warnings), time.Since(start))
}

func exportFilename(teamA, teamB string) string {
	clean := func(s string) string {
		return strings.Map(func(r rune) rune {
			if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-') {
				return r
			}
			return '_'
		}, s)
	}
	return fmt.Sprintf("comparison_%s_vs_%s.xlsx", clean(teamA), clean(teamB))
}
