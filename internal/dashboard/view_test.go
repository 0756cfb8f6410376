package dashboard

import (
	"net/url"
	"testing"

	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compboard/internal/config"
	"compboard/internal/listing"
)

func TestParseThresholds(t *testing.T) {
	rating := listing.Bounds{Min: 3.5, Max: 4.9, Default: 3.5, Step: 0.1}
	log := listing.Bounds{Min: 0, Max: 4.2, Default: 1, Step: 0.1}

	got := ParseThresholds(url.Values{}, rating, log)
	assert.Equal(t, listing.Thresholds{MinRating: 3.5, MinLog10: 1}, got)

	got = ParseThresholds(url.Values{"min_rating": {"4.2"}, "min_log": {"2.5"}}, rating, log)
	assert.Equal(t, listing.Thresholds{MinRating: 4.2, MinLog10: 2.5}, got)

	got = ParseThresholds(url.Values{"min_rating": {"9"}, "min_log": {"-3"}}, rating, log)
	assert.Equal(t, listing.Thresholds{MinRating: 4.9, MinLog10: 0}, got)

	got = ParseThresholds(url.Values{"min_rating": {"high"}, "min_log": {"NaN"}}, rating, log)
	assert.Equal(t, listing.Thresholds{MinRating: 3.5, MinLog10: 1}, got)
}

func TestBuildViewEmpty(t *testing.T) {
	ds := listing.NewDataset([]listing.CleanedRecord{listing.NewCleanedRecord(2, "a", 4.2, 40)})
	rating, log := Sliders(ds, 1)
	v := BuildView(ds, listing.Thresholds{MinRating: 5, MinLog10: 5}, rating, log, listing.DefaultAxes())
	assert.True(t, v.Empty)
	assert.NotNil(t, v.Points)
	assert.NotNil(t, v.Table)
	assert.False(t, v.Summary.HasMaxReviewCount)
	assert.Equal(t, 1, ds.Len())
}

func TestAxesFromConfig(t *testing.T) {
	c := config.Default().Chart
	c.XMin = 3.0
	a := AxesFromConfig(c)
	assert.Equal(t, 3.0, a.XMin)
	assert.Equal(t, 5.0, a.XMax)
	assert.Len(t, a.YTicks, 5)
}

func TestBubbleChartKeepsOutOfRangePoints(t *testing.T) {
	axes := listing.DefaultAxes()
	points := []listing.ChartPoint{
		{X: 4.5, Y: 2, Size: 20, Color: 4.5, Label: "visible"},
		{X: 3.1, Y: 1, Size: 12, Color: 3.1, Label: "hidden"},
	}

	chart := newBubbleChart(points, axes, 550)
	require.Len(t, chart.MultiSeries, 1)
	data, ok := chart.MultiSeries[0].Data.([]opts.ScatterData)
	require.True(t, ok)
	require.Len(t, data, 2)
	assert.Equal(t, "hidden", data[1].Name)
	assert.False(t, axes.Visible(points[1]))

	require.Len(t, chart.XAxisList, 1)
	assert.Equal(t, 3.8, chart.XAxisList[0].Min)
	assert.Equal(t, 5.0, chart.XAxisList[0].Max)
	assert.Equal(t, 12, chart.XAxisList[0].SplitNumber)

	snippet := renderBubbleChart(points, axes, 550)
	assert.Contains(t, string(snippet.Element), chartID)
	assert.Contains(t, string(snippet.Script), "hidden")
	assert.Contains(t, string(snippet.Script), "100K")
	assert.Equal(t, echartsAsset, snippet.Asset)
}

func TestSymbolSize(t *testing.T) {
	assert.Equal(t, 28, symbolSize(100, 100))
	assert.Equal(t, 14, symbolSize(25, 100))
	assert.Equal(t, 4, symbolSize(0, 100))
	assert.Equal(t, 4, symbolSize(5, 0))
}

func TestColorRange(t *testing.T) {
	lo, hi := colorRange([]listing.ChartPoint{{Color: 4.1}, {Color: 4.8}, {Color: 3.9}})
	assert.Equal(t, 3.9, lo)
	assert.Equal(t, 4.8, hi)

	lo, hi = colorRange([]listing.ChartPoint{{Color: 4.5}})
	assert.InDelta(t, 4.45, lo, 1e-9)
	assert.InDelta(t, 4.55, hi, 1e-9)
}

func TestYLabelFormatter(t *testing.T) {
	js := yLabelFormatter(listing.ReviewTicks)
	assert.Contains(t, js, `"1": "10"`)
	assert.Contains(t, js, `"3": "1K"`)
	assert.Contains(t, js, `"5": "100K"`)
}
