package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ZanzyTHEbar/court-compare/internal/analysis"
	"github.com/ZanzyTHEbar/court-compare/internal/charts"
)

// ContentType is the MIME type of the workbook written by WriteComparison.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var ErrNothingToExport = errors.New("no comparisons to export")

const maxSheetName = 31

// WriteComparison writes one worksheet per comparison: a header, one row per
// statistic with scaled and actual values for both sides, then any warnings.
func WriteComparison(w io.Writer, results ...analysis.ComparisonResult) error {
	if len(results) == 0 {
		return ErrNothingToExport
	}
	f := excelize.NewFile()
	defer f.Close()

	first := f.GetSheetName(0)
	used := make(map[string]bool)
	for i, res := range results {
		name := uniqueSheetName(sheetName(res), used)
		if i == 0 {
			if err := f.SetSheetName(first, name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %q: %w", name, err)
		}
		if err := writeSheet(f, name, res); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, res analysis.ComparisonResult) error {
	rows := [][]interface{}{
		{res.Title},
		{"Stat", res.A.Name + " scaled", res.A.Name + " actual", res.B.Name + " scaled", res.B.Name + " actual"},
	}
	for i, stat := range res.Theta {
		rows = append(rows, []interface{}{
			stat,
			valueAt(res.A.Scaled, i), charts.Round2(valueAt(res.A.Actual, i)),
			valueAt(res.B.Scaled, i), charts.Round2(valueAt(res.B.Actual, i)),
		})
	}
	if len(res.Warnings) > 0 {
		rows = append(rows, []interface{}{}, []interface{}{"Warnings"})
		for _, wn := range res.Warnings {
			rows = append(rows, []interface{}{string(wn.Kind), wn.Message})
		}
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
		}
	}
	return f.SetColWidth(sheet, "A", "E", 18)
}

func valueAt(xs []float64, i int) float64 {
	if i < len(xs) {
		return xs[i]
	}
	return 0
}

func sheetName(res analysis.ComparisonResult) string {
	name := res.A.Name + " vs " + res.B.Name
	if strings.TrimSpace(res.A.Name+res.B.Name) == "" {
		name = string(res.Kind)
	}
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, "'")
	if name == "" {
		name = "Comparison"
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}

func uniqueSheetName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		r := []rune(name)
		if len(r)+len(suffix) > maxSheetName {
			r = r[:maxSheetName-len(suffix)]
		}
		candidate = string(r) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
