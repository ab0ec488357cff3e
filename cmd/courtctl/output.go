package main

import (
	"encoding/json"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/ZanzyTHEbar/court-compare/internal/analysis"
)

func printJSON(c *cli.Context, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(data))
	return err
}

func printTable(c *cli.Context, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(c.App.Writer)
	table.SetHeader(header)
	table.AppendBulk(rows)
	table.Render()
	return nil
}

// printComparison writes one row per axis with both sides' actual and scaled
// values, followed by any warnings.
func printComparison(c *cli.Context, res analysis.ComparisonResult) error {
	if !c.Bool("table") {
		return printJSON(c, res)
	}
	fmt.Fprintln(c.App.Writer, res.Title)
	rows := make([][]string, len(res.Theta))
	for i, stat := range res.Theta {
		rows[i] = []string{
			stat,
			formatValue(res.A.Actual[i]), formatValue(res.A.Scaled[i]),
			formatValue(res.B.Actual[i]), formatValue(res.B.Scaled[i]),
		}
	}
	header := []string{"Stat", res.A.Name, res.A.Name + " scaled", res.B.Name, res.B.Name + " scaled"}
	if err := printTable(c, header, rows); err != nil {
		return err
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(c.App.Writer, "warning:", w.Message)
	}
	return nil
}
