package listing

import "math"

// ChartPoint is one bubble: x=rating, y=log-review-count, size, color=rating, hover label.
type ChartPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Color float64 `json:"color"`
	Label string  `json:"label"`
}

// TableRow is one line of the data table.
type TableRow struct {
	Title       string  `json:"title"`
	Rating      float64 `json:"rating"`
	ReviewCount int64   `json:"review_count"`
}

// ChartPoints projects filtered records onto the bubble chart.
func ChartPoints(records []CleanedRecord) []ChartPoint {
	out := make([]ChartPoint, len(records))
	for i, r := range records {
		out[i] = ChartPoint{
			X:     r.Rating,
			Y:     r.ReviewCountLog10,
			Size:  r.BubbleSize,
			Color: r.Rating,
			Label: r.Title,
		}
	}
	return out
}

// TableRows projects filtered records onto the data table.
func TableRows(records []CleanedRecord) []TableRow {
	out := make([]TableRow, len(records))
	for i, r := range records {
		out[i] = TableRow{Title: r.Title, Rating: r.Rating, ReviewCount: r.ReviewCount}
	}
	return out
}

// Tick is a labelled axis position.
type Tick struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// ReviewTicks label the log10 review axis with the magnitudes they stand for.
var ReviewTicks = []Tick{
	{Value: 1, Label: "10"},
	{Value: 2, Label: "100"},
	{Value: 3, Label: "1K"},
	{Value: 4, Label: "10K"},
	{Value: 5, Label: "100K"},
}

// Axes is the display layout of the bubble chart. The x range only clips what
// is visible; it never filters records.
type Axes struct {
	Title  string  `json:"title"`
	XTitle string  `json:"x_title"`
	YTitle string  `json:"y_title"`
	XMin   float64 `json:"x_min"`
	XMax   float64 `json:"x_max"`
	XDTick float64 `json:"x_dtick"`
	YTicks []Tick  `json:"y_ticks"`
}

// DefaultAxes returns the standard chart layout.
func DefaultAxes() Axes {
	ticks := make([]Tick, len(ReviewTicks))
	copy(ticks, ReviewTicks)
	return Axes{
		Title:  "产品热度与质量分布（气泡图）",
		XTitle: "产品评分 (等级)",
		YTitle: "产品热度 (评论数)",
		XMin:   3.8,
		XMax:   5.0,
		XDTick: 0.1,
		YTicks: ticks,
	}
}

// Visible reports whether a point falls inside the x range.
func (a Axes) Visible(p ChartPoint) bool {
	return p.X >= a.XMin && p.X <= a.XMax
}

// Bounds describes a slider: its range, starting value and step.
type Bounds struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
	Step    float64 `json:"step"`
}

// Clamp pulls v into [Min, Max].
func (b Bounds) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return b.Default
	}
	return math.Min(math.Max(v, b.Min), b.Max)
}

// SliderStep is the granularity of both threshold sliders.
const SliderStep = 0.1

// MinLogSliderMax keeps the review slider from collapsing to a single point
// when every product has very few reviews.
const MinLogSliderMax = 1.0

// DefaultMinLog10 starts the review slider at 10 reviews.
const DefaultMinLog10 = 1.0

// RatingSlider spans the dataset's rating range and starts at its minimum.
func RatingSlider(records []CleanedRecord) Bounds {
	b := Bounds{Step: SliderStep}
	for i, r := range records {
		if i == 0 || r.Rating < b.Min {
			b.Min = r.Rating
		}
		if i == 0 || r.Rating > b.Max {
			b.Max = r.Rating
		}
	}
	b.Default = b.Min
	return b
}

// LogSlider spans [0, max log-review-count], never narrower than [0, 1].
func LogSlider(records []CleanedRecord, def float64) Bounds {
	b := Bounds{Min: 0, Max: MinLogSliderMax, Step: SliderStep}
	for _, r := range records {
		if r.ReviewCountLog10 > b.Max {
			b.Max = r.ReviewCountLog10
		}
	}
	b.Default = b.Clamp(def)
	return b
}
