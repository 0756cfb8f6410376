package dashboard

import (
	"fmt"
	"html/template"
	"math"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"compboard/internal/listing"
)

const (
	chartID        = "listing-bubbles"
	echartsAsset   = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"
	maxSymbolSize  = 28.0
	minSymbolSize  = 4.0
	seriesListings = "listings"
)

// viridis stops, low to high.
var viridis = []string{"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"}

// chartSnippet is a rendered chart ready to embed in the page.
type chartSnippet struct {
	Element template.HTML
	Script  template.HTML
	Asset   string
}

// symbolSize maps a bubble size onto a diameter in pixels, area-proportional
// to the largest bubble.
func symbolSize(size, maxSize float64) int {
	if maxSize <= 0 || size <= 0 {
		return int(minSymbolSize)
	}
	return int(math.Round(math.Max(minSymbolSize, maxSymbolSize*math.Sqrt(size/maxSize))))
}

// colorRange is the domain of the color scale. A single value is widened so
// the scale stays well defined.
func colorRange(points []listing.ChartPoint) (lo, hi float64) {
	for i, p := range points {
		if i == 0 || p.Color < lo {
			lo = p.Color
		}
		if i == 0 || p.Color > hi {
			hi = p.Color
		}
	}
	if hi <= lo {
		lo, hi = lo-0.05, hi+0.05
	}
	return lo, hi
}

// yLabelFormatter prints the review-count label for each log10 tick and
// nothing for the positions in between.
func yLabelFormatter(ticks []listing.Tick) string {
	var b strings.Builder
	b.WriteString("function (v) { var labels = {")
	for i, t := range ticks {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: %q", fmt.Sprintf("%g", t.Value), t.Label)
	}
	b.WriteString("}; var l = labels[String(v)]; return l === undefined ? '' : l; }")
	return b.String()
}

const tooltipFormatter = `function (p) { return p.name + '<br/>评分: ' + p.value[0].toFixed(2) + '<br/>热度: 10^' + p.value[1].toFixed(2); }`

// newBubbleChart builds the scatter chart for the filtered points. Every point
// is part of the series; the x range only decides what is in view. The color
// scale reads the last value of each point. Labels are escaped since the
// tooltip renders them as HTML.
func newBubbleChart(points []listing.ChartPoint, axes listing.Axes, height int) *charts.Scatter {
	var maxSize float64
	for _, p := range points {
		maxSize = math.Max(maxSize, p.Size)
	}
	lo, hi := colorRange(points)

	data := make([]opts.ScatterData, 0, len(points))
	for _, p := range points {
		data = append(data, opts.ScatterData{
			Name:       template.HTMLEscapeString(p.Label),
			Value:      []any{p.X, p.Y, p.Color},
			SymbolSize: symbolSize(p.Size, maxSize),
		})
	}

	split := 0
	if axes.XDTick > 0 {
		split = int(math.Round((axes.XMax - axes.XMin) / axes.XDTick))
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: chartID,
			Width:   "100%",
			Height:  fmt.Sprintf("%dpx", height),
		}),
		charts.WithTitleOpts(opts.Title{Title: axes.Title}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: opts.FuncOpts(tooltipFormatter),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:        axes.XTitle,
			Type:        "value",
			Min:         axes.XMin,
			Max:         axes.XMax,
			SplitNumber: split,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: axes.YTitle,
			Type: "value",
			AxisLabel: &opts.AxisLabel{
				Formatter: opts.FuncOpts(yLabelFormatter(axes.YTicks)),
			},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Type:       "continuous",
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	scatter.AddSeries(seriesListings, data)
	return scatter
}

// renderBubbleChart renders the chart as an element plus its setup script.
func renderBubbleChart(points []listing.ChartPoint, axes listing.Axes, height int) *chartSnippet {
	s := newBubbleChart(points, axes, height).RenderSnippet()
	return &chartSnippet{
		Element: template.HTML(s.Element),
		Script:  template.HTML(s.Script),
		Asset:   echartsAsset,
	}
}
