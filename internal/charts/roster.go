package charts

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ZanzyTHEbar/court-compare/internal/dataset"
)

// ErrEmptyRoster is returned when a team has no rows to draw.
var ErrEmptyRoster = errors.New("roster has no players")

type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat accepts "svg" or "png", case-insensitively. Empty means SVG.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unsupported chart format %q", s)
	}
}

// ContentType returns the MIME type of rendered output.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

var segmentColors = []drawing.Color{chart.ColorBlue, chart.ColorOrange, chart.ColorGreen}

var segmentStats = []string{dataset.StatPoints, dataset.StatAssists, dataset.StatRebounds}

// Bars occupy the middle of each unit-wide x slot.
const barInset = 0.15

// RosterTitle is the heading used for a team's roster chart.
func RosterTitle(team string) string {
	return team + " Player Stats"
}

type barSegment struct {
	Stat        string
	Bottom, Top float64
}

type rosterBar struct {
	Player   string
	Slot     int
	Segments []barSegment
}

func (b rosterBar) Total() float64 {
	if len(b.Segments) == 0 {
		return 0
	}
	return b.Segments[len(b.Segments)-1].Top
}

// layoutRoster stacks PTS, AST and TRB in data units and returns the bars
// with the shared Y maximum. Negative values draw as zero.
func layoutRoster(lines []dataset.RosterLine) ([]rosterBar, float64) {
	bars := make([]rosterBar, 0, len(lines))
	yMax := 0.0
	for i, l := range lines {
		bar := rosterBar{Player: l.Player, Slot: i}
		base := 0.0
		for j, v := range []float64{l.Points, l.Assists, l.Rebounds} {
			if v < 0 || math.IsNaN(v) {
				v = 0
			}
			bar.Segments = append(bar.Segments, barSegment{Stat: segmentStats[j], Bottom: base, Top: base + v})
			base += v
		}
		if base > yMax {
			yMax = base
		}
		bars = append(bars, bar)
	}
	if yMax <= 0 {
		yMax = 1
	}
	return bars, yMax
}

// RosterChart draws one stacked bar per roster line (PTS, AST, TRB from the
// bottom up) on a shared absolute Y axis and writes it to w.
func RosterChart(team string, lines []dataset.RosterLine, format Format, w io.Writer) error {
	if len(lines) == 0 {
		return ErrEmptyRoster
	}

	bars, yMax := layoutRoster(lines)

	ticks := make([]chart.Tick, 0, len(bars))
	for _, b := range bars {
		ticks = append(ticks, chart.Tick{Value: float64(b.Slot) + 0.5, Label: b.Player})
	}

	// go-chart fills a line series down to zero, so the cumulative tops are
	// painted from the highest segment down.
	var series []chart.Series
	for j := len(segmentStats) - 1; j >= 0; j-- {
		c := segmentColors[j]
		for _, b := range bars {
			x0 := float64(b.Slot) + barInset
			x1 := float64(b.Slot) + 1 - barInset
			top := b.Segments[j].Top
			series = append(series, chart.ContinuousSeries{
				Name:    b.Player + " " + segmentStats[j],
				Style:   chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1},
				XValues: []float64{x0, x1},
				YValues: []float64{top, top},
			})
		}
	}

	width := 80*len(bars) + 120
	if width < 480 {
		width = 480
	}
	graph := chart.Chart{
		Title:      RosterTitle(team),
		Width:      width,
		Height:     480,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(len(bars))},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: yMax * 1.05},
		},
		Series:   series,
		Elements: []chart.Renderable{rosterLegend},
	}

	provider := chart.SVG
	if format == FormatPNG {
		provider = chart.PNG
	}
	if err := graph.Render(provider, w); err != nil {
		return fmt.Errorf("render roster chart: %w", err)
	}
	return nil
}

func rosterLegend(r chart.Renderer, canvas chart.Box, defaults chart.Style) {
	r.SetFont(defaults.Font)
	r.SetFontSize(10)
	r.SetFontColor(chart.ColorBlack)
	x := canvas.Left + 8
	y := canvas.Top + 8
	for j, stat := range segmentStats {
		r.SetFillColor(segmentColors[j])
		r.SetStrokeColor(segmentColors[j])
		r.SetStrokeWidth(1)
		r.MoveTo(x, y)
		r.LineTo(x+10, y)
		r.LineTo(x+10, y+10)
		r.LineTo(x, y+10)
		r.Close()
		r.FillStroke()
		r.Text(stat, x+14, y+10)
		x += 48
	}
}
