package main

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ZanzyTHEbar/court-compare/internal/analysis"
	"github.com/ZanzyTHEbar/court-compare/internal/config"
	"github.com/ZanzyTHEbar/court-compare/internal/dataset"
	apperrors "github.com/ZanzyTHEbar/court-compare/internal/errors"
	"github.com/ZanzyTHEbar/court-compare/internal/monitoring"
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "courtctl",
		Usage:   "compare NBA teams and players from the command line",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "data", Aliases: []string{"d"}, Usage: "dataset file (.csv, .tsv, .xlsx, .db)", EnvVars: []string{"DATA_PATH"}},
			&cli.StringFlag{Name: "sheet", Usage: "XLSX sheet name", EnvVars: []string{"DATA_SHEET"}},
			&cli.StringFlag{Name: "sqlite-table", Usage: "SQLite table name", EnvVars: []string{"DATA_TABLE"}},
			&cli.Float64Flag{Name: "team-divisor", Usage: "divisor applied to scaled team values", EnvVars: []string{"TEAM_DIVISOR"}},
			&cli.Float64Flag{Name: "player-divisor", Usage: "divisor applied to scaled player values", EnvVars: []string{"PLAYER_DIVISOR"}},
			&cli.BoolFlag{Name: "table", Aliases: []string{"t"}, Usage: "print a text table instead of JSON"},
			&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "debug, info, warn or error"},
		},
		Commands: []*cli.Command{
			teamsCommand(),
			playersCommand(),
			compareTeamsCommand(),
			comparePlayersCommand(),
			exportCommand(),
			importSQLiteCommand(),
		},
	}
}

// loadBuilder reads configuration, applies the global flags and loads the
// dataset.
func loadBuilder(c *cli.Context) (*analysis.Builder, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if c.IsSet("data") {
		cfg.DataPath = c.String("data")
	}
	if c.IsSet("sheet") {
		cfg.DataSheet = c.String("sheet")
	}
	if c.IsSet("sqlite-table") {
		cfg.DataTable = c.String("sqlite-table")
	}
	if c.IsSet("team-divisor") {
		cfg.TeamDivisor = c.Float64("team-divisor")
	}
	if c.IsSet("player-divisor") {
		cfg.PlayerDivisor = c.Float64("player-divisor")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := monitoring.NewLoggerTo(c.App.ErrWriter, monitoring.ParseLevel(c.String("log-level")))

	start := time.Now()
	store, err := dataset.Load(cfg.DataPath, cfg.DatasetOptions())
	if err != nil {
		return nil, apperrors.WrapError(err, "load %s", cfg.DataPath)
	}
	logger.DatasetLogger(store.Source(), store.Len(), len(store.Teams()), len(store.NumericColumns()), time.Since(start))

	return analysis.NewBuilder(store, cfg.BuilderOptions()), nil
}
