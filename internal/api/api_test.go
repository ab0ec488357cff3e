package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ZanzyTHEbar/court-compare/internal/analysis"
	"github.com/ZanzyTHEbar/court-compare/internal/cache"
	"github.com/ZanzyTHEbar/court-compare/internal/dataset"
	apperrors "github.com/ZanzyTHEbar/court-compare/internal/errors"
	"github.com/ZanzyTHEbar/court-compare/internal/monitoring"
	"github.com/ZanzyTHEbar/court-compare/internal/types"
)

const fixture = `Team,Player Name,FG,3P,2P,FT,TRB,AST,STL,BLK,TOV,PF,PTS,PER
A,P1,4,1,3,1,5,2,1,0,1,2,10,12.5
A,P2,8,2,6,2,7,4,1,0,2,3,20,18
B,P3,6,1,5,2,9,6,2,0,1,1,15,15
`

type testServer struct {
	router  *gin.Engine
	metrics *monitoring.Metrics
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := dataset.LoadCSV(strings.NewReader(fixture), dataset.DefaultOptions())
	require.NoError(t, err)

	metrics := monitoring.NewMetrics()
	logger := monitoring.NewLoggerTo(io.Discard, slog.LevelError)
	h := NewHandler(analysis.NewBuilder(store, analysis.DefaultOptions()), metrics, logger, "test")

	listingCache := cache.NewCache(time.Minute)
	t.Cleanup(listingCache.Close)

	r := gin.New()
	r.Use(monitoring.RequestIDMiddleware())
	h.RegisterRoutes(r, listingCache)
	return testServer{router: r, metrics: metrics}
}

func (s testServer) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func indexOf(xs []string, x string) int {
	for i, v := range xs {
		if v == x {
			return i
		}
	}
	return -1
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.get(t, "/health")

	require.Equal(t, http.StatusOK, w.Code)
	body := decode[types.HealthResponse](t, w)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "test", body.Version)
	assert.Equal(t, 3, body.Rows)
	assert.Equal(t, 2, body.Teams)
}

func TestTeamsAndStats(t *testing.T) {
	s := newTestServer(t)

	w := s.get(t, "/api/v1/teams")
	require.Equal(t, http.StatusOK, w.Code)
	teams := decode[types.TeamsResponse](t, w)
	assert.Equal(t, []string{"A", "B"}, teams.Teams)
	assert.Equal(t, "A", teams.Defaults.TeamA)
	assert.Equal(t, "B", teams.Defaults.TeamB)
	assert.Equal(t, dataset.Catalog, teams.Defaults.Stats)

	w = s.get(t, "/api/v1/stats")
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[types.StatsResponse](t, w)
	assert.Equal(t, dataset.Catalog, stats.Catalog)
	assert.Subset(t, stats.Numeric, dataset.Catalog)
}

func TestPlayersAndRoster(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{"players", "/api/v1/teams/A/players", http.StatusOK},
		{"roster", "/api/v1/teams/A/roster", http.StatusOK},
		{"unknown team players", "/api/v1/teams/ZZZ/players", http.StatusNotFound},
		{"unknown team roster", "/api/v1/teams/ZZZ/roster", http.StatusNotFound},
		{"unknown team chart", "/api/v1/teams/ZZZ/roster/chart", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.get(t, tt.target)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	players := decode[types.PlayersResponse](t, s.get(t, "/api/v1/teams/A/players"))
	assert.Equal(t, []string{"P1", "P2"}, players.Players)

	roster := decode[types.RosterResponse](t, s.get(t, "/api/v1/teams/A/roster"))
	assert.Equal(t, "A Player Stats", roster.Title)
	assert.Equal(t, "/api/v1/teams/A/roster/chart", roster.ChartURL)
	require.Len(t, roster.Players, 2)
	assert.Equal(t, dataset.RosterLine{Player: "P1", Points: 10, Assists: 2, Rebounds: 5}, roster.Players[0])

	notFound := decode[apperrors.ErrorResponse](t, s.get(t, "/api/v1/teams/ZZZ/roster"))
	assert.Equal(t, "NOT_FOUND", notFound.Code)
	assert.Equal(t, "ZZZ", notFound.Details["team"])
}

func TestRosterChart(t *testing.T) {
	s := newTestServer(t)

	w := s.get(t, "/api/v1/teams/A/roster/chart")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<svg")
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

	w = s.get(t, "/api/v1/teams/A/roster/chart")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))

	w = s.get(t, "/api/v1/teams/A/roster/chart?format=png")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))

	w = s.get(t, "/api/v1/teams/A/roster/chart?format=gif")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, int64(2), s.metrics.GetStats()["charts_rendered"])
}

func TestCompareTeams(t *testing.T) {
	s := newTestServer(t)

	t.Run("defaults", func(t *testing.T) {
		w := s.get(t, "/api/v1/compare/teams")
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[types.ComparisonResponse](t, w)

		res := resp.Comparison
		assert.Equal(t, "Team Comparison: A vs B", res.Title)
		assert.Equal(t, dataset.Catalog, res.Theta)
		pts := indexOf(res.Theta, "PTS")
		assert.InDelta(t, 0.2, res.A.Scaled[pts], 1e-9)
		assert.InDelta(t, 0.05, res.B.Scaled[pts], 1e-9)
		assert.Equal(t, 30.0, res.A.Actual[pts])

		require.Len(t, resp.Figure.Data, 2)
		assert.Equal(t, "scatterpolar", resp.Figure.Data[0].Type)
		assert.Equal(t, res.Title, resp.Figure.Layout.Title.Text)
	})

	t.Run("selected stats keep order", func(t *testing.T) {
		resp := decode[types.ComparisonResponse](t, s.get(t, "/api/v1/compare/teams?team_a=B&team_b=A&stats=PTS,AST"))
		assert.Equal(t, []string{"PTS", "AST"}, resp.Comparison.Theta)
		assert.Equal(t, "B", resp.Comparison.A.Name)
		assert.InDelta(t, 0.05, resp.Comparison.A.Scaled[0], 1e-9)
	})

	t.Run("empty stats", func(t *testing.T) {
		w := s.get(t, "/api/v1/compare/teams?stats=")
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[types.ComparisonResponse](t, w)
		assert.Empty(t, resp.Comparison.Theta)
		assert.Empty(t, resp.Comparison.A.Scaled)
	})

	t.Run("unknown stat", func(t *testing.T) {
		w := s.get(t, "/api/v1/compare/teams?stats=PTS,XYZ")
		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decode[apperrors.ErrorResponse](t, w)
		assert.Equal(t, "VALIDATION_ERROR", body.Code)
		assert.Equal(t, "XYZ", body.Details["stat"])
	})

	t.Run("unknown team is an empty series", func(t *testing.T) {
		w := s.get(t, "/api/v1/compare/teams?team_a=A&team_b=ZZZ&stats=PTS")
		require.Equal(t, http.StatusOK, w.Code)
		res := decode[types.ComparisonResponse](t, w).Comparison
		assert.True(t, res.B.Empty)
		require.NotEmpty(t, res.Warnings)
		assert.Equal(t, analysis.WarningEmptyAggregate, res.Warnings[0].Kind)
	})

	t.Run("comparisons are not cached", func(t *testing.T) {
		w := s.get(t, "/api/v1/compare/teams")
		assert.Empty(t, w.Header().Get("X-Cache"))
	})
}

func TestComparePlayers(t *testing.T) {
	s := newTestServer(t)

	t.Run("found", func(t *testing.T) {
		w := s.get(t, "/api/v1/compare/players?team_a=A&player_a=P1&team_b=B&player_b=P3")
		require.Equal(t, http.StatusOK, w.Code)
		res := decode[types.ComparisonResponse](t, w).Comparison
		assert.Equal(t, "Player Comparison: P1 vs P3", res.Title)
		assert.Equal(t, dataset.Catalog, res.Theta)
		pts := indexOf(res.Theta, "PTS")
		assert.InDelta(t, 0.0, res.A.Scaled[pts], 1e-9)
		assert.InDelta(t, 0.5, res.B.Scaled[pts], 1e-9)

		var kinds []analysis.WarningKind
		for _, warn := range res.Warnings {
			kinds = append(kinds, warn.Kind)
		}
		assert.Contains(t, kinds, analysis.WarningDegenerateRange)
	})

	t.Run("missing parameters", func(t *testing.T) {
		w := s.get(t, "/api/v1/compare/players?team_a=A&player_a=P1")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("player on other team", func(t *testing.T) {
		w := s.get(t, "/api/v1/compare/players?team_a=A&player_a=P3&team_b=B&player_b=P3")
		require.Equal(t, http.StatusNotFound, w.Code)
		body := decode[apperrors.ErrorResponse](t, w)
		assert.Equal(t, analysis.NotFoundNotice, body.Notice)
		assert.Equal(t, "A", body.Details["P3 (A)"])
	})

	assert.Equal(t, int64(1), s.metrics.GetStats()["players_not_found"])
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t)

	t.Run("team comparison only", func(t *testing.T) {
		w := s.get(t, "/api/v1/dashboard")
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[types.DashboardResponse](t, w)
		assert.Equal(t, "Team Comparison: A vs B", resp.Teams.Comparison.Title)
		assert.Nil(t, resp.Players)
		assert.Nil(t, resp.PlayerComparison)
		assert.Empty(t, resp.Notice)
	})

	t.Run("rosters and player comparison", func(t *testing.T) {
		w := s.get(t, "/api/v1/dashboard?team_a=A&team_b=B&show_players=true&player_a=P2&player_b=P3")
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[types.DashboardResponse](t, w)
		require.Len(t, resp.Players, 2)
		assert.Equal(t, "A", resp.Players[0].Team)
		assert.Equal(t, "B", resp.Players[1].Team)
		require.NotNil(t, resp.PlayerComparison)
		assert.Equal(t, "Player Comparison: P2 vs P3", resp.PlayerComparison.Comparison.Title)
	})

	t.Run("missing player leaves team comparison intact", func(t *testing.T) {
		w := s.get(t, "/api/v1/dashboard?team_a=A&team_b=B&stats=PTS&player_a=Nobody&player_b=P3")
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[types.DashboardResponse](t, w)
		assert.Equal(t, analysis.NotFoundNotice, resp.Notice)
		assert.Nil(t, resp.PlayerComparison)
		assert.InDelta(t, 0.2, resp.Teams.Comparison.A.Scaled[0], 1e-9)
	})

	t.Run("single player selected", func(t *testing.T) {
		resp := decode[types.DashboardResponse](t, s.get(t, "/api/v1/dashboard?player_a=P1"))
		assert.Nil(t, resp.PlayerComparison)
		assert.Empty(t, resp.Notice)
	})
}

func TestExport(t *testing.T) {
	s := newTestServer(t)

	w := s.get(t, "/api/v1/compare/export?team_a=A&team_b=B&stats=PTS,AST&player_a=P1&player_b=P3")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="comparison_A_vs_B.xlsx"`, w.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Len(t, sheets, 2)
	title, err := f.GetCellValue(sheets[0], "A1")
	require.NoError(t, err)
	assert.Equal(t, "Team Comparison: A vs B", title)

	w = s.get(t, "/api/v1/compare/export?player_a=Nobody&player_b=P3")
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, int64(1), s.metrics.GetStats()["exports"])
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "comparison_LAL_vs_GSW.xlsx", exportFilename("LAL", "GSW"))
	assert.Equal(t, "comparison_Trail_Blazers_vs_A_B.xlsx", exportFilename("Trail Blazers", `A"B`))
}
