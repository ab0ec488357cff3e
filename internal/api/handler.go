package api

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/court-compare/internal/analysis"
	"github.com/ZanzyTHEbar/court-compare/internal/cache"
	"github.com/ZanzyTHEbar/court-compare/internal/charts"
	"github.com/ZanzyTHEbar/court-compare/internal/dataset"
	apperrors "github.com/ZanzyTHEbar/court-compare/internal/errors"
	"github.com/ZanzyTHEbar/court-compare/internal/monitoring"
	"github.com/ZanzyTHEbar/court-compare/internal/types"
)

const BasePath = "/api/v1"

// Handler serves the comparison API over one loaded dataset.
type Handler struct {
	builder *analysis.Builder
	metrics *monitoring.Metrics
	logger  *monitoring.Logger
	version string
	started time.Time
}

func NewHandler(builder *analysis.Builder, metrics *monitoring.Metrics, logger *monitoring.Logger, version string) *Handler {
	return &Handler{
		builder: builder,
		metrics: metrics,
		logger:  logger,
		version: version,
		started: time.Now(),
	}
}

// RegisterRoutes mounts the API. Listing, roster and roster chart responses
// depend only on the URI and the immutable dataset, so they go through
// listingCache; comparisons never do.
func (h *Handler) RegisterRoutes(r gin.IRouter, listingCache *cache.Cache) {
	r.GET("/health", h.Health)

	v1 := r.Group(BasePath)
	cached := v1.Group("")
	if listingCache != nil {
		cached.Use(listingCache.Middleware(h.metrics))
	}
	cached.GET("/teams", h.Teams)
	cached.GET("/stats", h.Stats)
	cached.GET("/teams/:team/players", h.Players)
	cached.GET("/teams/:team/roster", h.Roster)
	cached.GET("/teams/:team/roster/chart", h.RosterChart)

	v1.GET("/compare/teams", h.CompareTeams)
	v1.GET("/compare/players", h.ComparePlayers)
	v1.GET("/compare/export", h.Export)
	v1.GET("/dashboard", h.Dashboard)
}

// Health godoc
// @Summary Service health
// @Tags system
// @Produce json
// @Success 200 {object} types.HealthResponse
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	store := h.builder.Store()
	c.JSON(http.StatusOK, types.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   h.version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Source:    store.Source(),
		Rows:      store.Len(),
		Teams:     len(store.Teams()),
	})
}

// Teams godoc
// @Summary Teams in dataset order with the default dashboard selection
// @Tags dataset
// @Produce json
// @Success 200 {object} types.TeamsResponse
// @Router /api/v1/teams [get]
func (h *Handler) Teams(c *gin.Context) {
	c.JSON(http.StatusOK, types.TeamsResponse{
		Teams:    h.builder.Store().Teams(),
		Defaults: h.builder.DefaultSelection(),
	})
}

// Stats godoc
// @Summary Statistic catalog and every numeric column in the dataset
// @Tags dataset
// @Produce json
// @Success 200 {object} types.StatsResponse
// @Router /api/v1/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, types.StatsResponse{
		Catalog: append([]string(nil), dataset.Catalog...),
		Numeric: h.builder.Store().NumericColumns(),
	})
}

// Players godoc
// @Summary Player names of a team in dataset order
// @Tags dataset
// @Produce json
// @Param team path string true "Team"
// @Success 200 {object} types.PlayersResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/teams/{team}/players [get]
func (h *Handler) Players(c *gin.Context) {
	team, ok := h.knownTeam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, types.PlayersResponse{
		Team:    team,
		Players: analysis.PlayersOfTeam(h.builder.Store(), team),
	})
}

// Roster godoc
// @Summary Points, assists and rebounds per player of a team
// @Tags dataset
// @Produce json
// @Param team path string true "Team"
// @Success 200 {object} types.RosterResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/teams/{team}/roster [get]
func (h *Handler) Roster(c *gin.Context) {
	team, ok := h.knownTeam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.roster(team))
}

func (h *Handler) roster(team string) types.RosterResponse {
	return types.RosterResponse{
		Team:     team,
		Title:    charts.RosterTitle(team),
		Players:  h.builder.Store().RosterLines(team),
		ChartURL: BasePath + "/teams/" + url.PathEscape(team) + "/roster/chart",
	}
}

func (h *Handler) knownTeam(c *gin.Context) (string, bool) {
	team := c.Param("team")
	if !h.builder.Store().HasTeam(team) {
		apperrors.Respond(c, apperrors.NewNotFoundError("Team not found", map[string]string{"team": team}))
		return "", false
	}
	return team, true
}
