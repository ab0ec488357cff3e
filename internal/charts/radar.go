package charts

import (
	"math"

	"github.com/ZanzyTHEbar/court-compare/internal/analysis"
)

// HoverTemplate shows the axis, the scaled value and the unscaled statistic.
const HoverTemplate = "<b>%{theta}</b><br>Scaled: %{r:.2f}<br>Actual Stat: %{customdata}"

// Figure is a Plotly figure description the dashboard page passes to Plotly.newPlot.
type Figure struct {
	Data   []PolarTrace `json:"data"`
	Layout Layout       `json:"layout"`
}

type PolarTrace struct {
	Type          string    `json:"type"`
	Name          string    `json:"name"`
	R             []float64 `json:"r"`
	Theta         []string  `json:"theta"`
	Fill          string    `json:"fill"`
	CustomData    []float64 `json:"customdata"`
	HoverTemplate string    `json:"hovertemplate"`
}

type Layout struct {
	Title      Title `json:"title"`
	Polar      Polar `json:"polar"`
	ShowLegend bool  `json:"showlegend"`
}

type Title struct {
	Text string `json:"text"`
}

type Polar struct {
	RadialAxis RadialAxis `json:"radialaxis"`
}

type RadialAxis struct {
	Visible bool       `json:"visible"`
	Range   [2]float64 `json:"range"`
}

// RadarFigure turns a comparison into two filled scatterpolar traces.
func RadarFigure(res analysis.ComparisonResult) Figure {
	return Figure{
		Data: []PolarTrace{trace(res.A), trace(res.B)},
		Layout: Layout{
			Title:      Title{Text: res.Title},
			Polar:      Polar{RadialAxis: RadialAxis{Visible: true, Range: [2]float64{0, 1}}},
			ShowLegend: true,
		},
	}
}

func trace(s analysis.Series) PolarTrace {
	t := PolarTrace{
		Type:          "scatterpolar",
		Name:          s.Name,
		Fill:          "toself",
		HoverTemplate: HoverTemplate,
		R:             []float64{},
		Theta:         []string{},
		CustomData:    []float64{},
	}
	if s.Empty {
		return t
	}
	t.R = append(t.R, s.Scaled...)
	t.Theta = append(t.Theta, s.Theta...)
	for _, v := range s.Actual {
		t.CustomData = append(t.CustomData, Round2(v))
	}
	return t
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
