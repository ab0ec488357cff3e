package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ZanzyTHEbar/court-compare/internal/analysis"
	"github.com/ZanzyTHEbar/court-compare/internal/dataset"
	"github.com/ZanzyTHEbar/court-compare/internal/export"
)

func teamsCommand() *cli.Command {
	return &cli.Command{
		Name:  "teams",
		Usage: "list teams in dataset order with the default selection",
		Action: func(c *cli.Context) error {
			b, err := loadBuilder(c)
			if err != nil {
				return err
			}
			teams := b.Store().Teams()
			if c.Bool("table") {
				rows := make([][]string, len(teams))
				for i, t := range teams {
					rows[i] = []string{t, fmt.Sprint(len(b.Store().Roster(t)))}
				}
				return printTable(c, []string{"Team", "Players"}, rows)
			}
			return printJSON(c, map[string]interface{}{
				"teams":    teams,
				"defaults": b.DefaultSelection(),
			})
		},
	}
}

func playersCommand() *cli.Command {
	return &cli.Command{
		Name:  "players",
		Usage: "list a team's players with points, assists and rebounds",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "team", Required: true},
		},
		Action: func(c *cli.Context) error {
			b, err := loadBuilder(c)
			if err != nil {
				return err
			}
			team := c.String("team")
			if !b.Store().HasTeam(team) {
				return fmt.Errorf("team %q not found", team)
			}
			lines := b.Store().RosterLines(team)
			if c.Bool("table") {
				rows := make([][]string, len(lines))
				for i, l := range lines {
					rows[i] = []string{l.Player, formatValue(l.Points), formatValue(l.Assists), formatValue(l.Rebounds)}
				}
				return printTable(c, []string{"Player", dataset.StatPoints, dataset.StatAssists, dataset.StatRebounds}, rows)
			}
			return printJSON(c, map[string]interface{}{"team": team, "players": lines})
		},
	}
}

func compareTeamsCommand() *cli.Command {
	return &cli.Command{
		Name:  "compare-teams",
		Usage: "compare the summed statistics of two teams",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "a", Usage: "first team (defaults to the first team in the dataset)"},
			&cli.StringFlag{Name: "b", Usage: "second team (defaults to the second team in the dataset)"},
			&cli.StringFlag{Name: "stats", Usage: "comma separated statistics; omitted means the full catalog"},
		},
		Action: func(c *cli.Context) error {
			b, err := loadBuilder(c)
			if err != nil {
				return err
			}
			teamA, teamB := resolveTeams(b, c.String("a"), c.String("b"))
			res, err := b.BuildTeamComparison(teamA, teamB, statsFlag(c))
			if err != nil {
				return err
			}
			return printComparison(c, res)
		},
	}
}

func comparePlayersCommand() *cli.Command {
	return &cli.Command{
		Name:  "compare-players",
		Usage: "compare two players over the statistic catalog",
		Flags: playerFlags(true),
		Action: func(c *cli.Context) error {
			b, err := loadBuilder(c)
			if err != nil {
				return err
			}
			res, err := b.BuildPlayerComparison(c.String("team-a"), c.String("player-a"), c.String("team-b"), c.String("player-b"))
			if err != nil {
				var notFound *analysis.PlayerNotFoundError
				if errors.As(err, &notFound) {
					fmt.Fprintln(c.App.ErrWriter, analysis.NotFoundNotice)
				}
				return err
			}
			return printComparison(c, res)
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write a team comparison, and optionally a player comparison, to an XLSX workbook",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Required: true, Usage: "output .xlsx file"},
			&cli.StringFlag{Name: "a", Usage: "first team"},
			&cli.StringFlag{Name: "b", Usage: "second team"},
			&cli.StringFlag{Name: "stats", Usage: "comma separated statistics for the team sheet"},
		}, playerFlags(false)...),
		Action: func(c *cli.Context) error {
			b, err := loadBuilder(c)
			if err != nil {
				return err
			}
			teamA, teamB := resolveTeams(b, c.String("a"), c.String("b"))
			teamRes, err := b.BuildTeamComparison(teamA, teamB, statsFlag(c))
			if err != nil {
				return err
			}
			results := []analysis.ComparisonResult{teamRes}

			if c.String("player-a") != "" && c.String("player-b") != "" {
				pa, pb := c.String("team-a"), c.String("team-b")
				if pa == "" {
					pa = teamA
				}
				if pb == "" {
					pb = teamB
				}
				playerRes, err := b.BuildPlayerComparison(pa, c.String("player-a"), pb, c.String("player-b"))
				if err != nil {
					return err
				}
				results = append(results, playerRes)
			}

			f, err := os.Create(c.String("out"))
			if err != nil {
				return err
			}
			if err := export.WriteComparison(f, results...); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "wrote %d sheet(s) to %s\n", len(results), c.String("out"))
			return nil
		},
	}
}

func importSQLiteCommand() *cli.Command {
	return &cli.Command{
		Name:  "import-sqlite",
		Usage: "copy the dataset into a SQLite table the server can load",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Required: true, Usage: "SQLite database file"},
			&cli.StringFlag{Name: "into", Value: "players", Usage: "destination table"},
		},
		Action: func(c *cli.Context) error {
			b, err := loadBuilder(c)
			if err != nil {
				return err
			}
			if err := dataset.WriteSQLite(c.String("out"), c.String("into"), b.Store()); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "imported %d rows into %s#%s\n", b.Store().Len(), c.String("out"), c.String("into"))
			return nil
		},
	}
}

func playerFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "team-a", Required: required, Usage: "team of the first player"},
		&cli.StringFlag{Name: "player-a", Required: required, Usage: "first player"},
		&cli.StringFlag{Name: "team-b", Required: required, Usage: "team of the second player"},
		&cli.StringFlag{Name: "player-b", Required: required, Usage: "second player"},
	}
}

func resolveTeams(b *analysis.Builder, teamA, teamB string) (string, string) {
	def := b.DefaultSelection()
	if teamA == "" {
		teamA = def.TeamA
	}
	if teamB == "" {
		teamB = def.TeamB
	}
	return teamA, teamB
}

// statsFlag returns the full catalog when --stats is absent and no axes when
// it is given empty.
func statsFlag(c *cli.Context) []string {
	if !c.IsSet("stats") {
		return append([]string(nil), dataset.Catalog...)
	}
	stats := dataset.ParseStatList(c.String("stats"))
	if stats == nil {
		return []string{}
	}
	return stats
}

func formatValue(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", v), "0"), ".")
}
