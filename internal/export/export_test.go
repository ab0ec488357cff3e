package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ZanzyTHEbar/court-compare/internal/analysis"
)

func result(a, b string) analysis.ComparisonResult {
	theta := []string{"PTS", "AST"}
	return analysis.ComparisonResult{
		Kind:  analysis.KindTeam,
		Title: "Team Comparison: " + a + " vs " + b,
		Theta: theta,
		A:     analysis.Series{Name: a, Theta: theta, Scaled: []float64{0.2, 0.1}, Actual: []float64{30, 6.456}},
		B:     analysis.Series{Name: b, Theta: theta, Scaled: []float64{0.05, 0.3}, Actual: []float64{15, 9}},
		Warnings: []analysis.Warning{
			{Kind: analysis.WarningDegenerateRange, Stat: "BLK", Message: "BLK is flat"},
		},
	}
}

func TestWriteComparison(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteComparison(&buf, result("A", "B"), result("A", "B"), result("C/D", "E")))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"A vs B", "A vs B (2)", "C_D vs E"}, f.GetSheetList())

	rows, err := f.GetRows("A vs B")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 4)
	assert.Equal(t, "Team Comparison: A vs B", rows[0][0])
	assert.Equal(t, []string{"Stat", "A scaled", "A actual", "B scaled", "B actual"}, rows[1])
	assert.Equal(t, "PTS", rows[2][0])
	assert.Equal(t, "0.2", rows[2][1])
	assert.Equal(t, "6.46", rows[3][2])
	assert.Equal(t, "Warnings", rows[5][0])
	assert.Equal(t, "degenerate_range", rows[6][0])
}

func TestWriteComparisonNothing(t *testing.T) {
	assert.ErrorIs(t, WriteComparison(&bytes.Buffer{}), ErrNothingToExport)
}

func TestSheetName(t *testing.T) {
	long := analysis.ComparisonResult{
		A: analysis.Series{Name: strings.Repeat("x", 40)},
		B: analysis.Series{Name: "y"},
	}
	assert.Len(t, []rune(sheetName(long)), maxSheetName)

	unnamed := analysis.ComparisonResult{Kind: analysis.KindPlayer}
	assert.Equal(t, "player", sheetName(unnamed))

	used := map[string]bool{}
	assert.Equal(t, "a", uniqueSheetName("a", used))
	assert.Equal(t, "A (2)", uniqueSheetName("A", used))
}
