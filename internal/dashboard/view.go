// Package dashboard serves the competitor listing dashboard: threshold
// sliders, three summary metrics, a bubble chart and the filtered table.
package dashboard

import (
	"net/url"
	"strconv"
	"strings"

	"compboard/internal/config"
	"compboard/internal/listing"
)

// Query parameters carrying the two thresholds.
const (
	ParamMinRating = "min_rating"
	ParamMinLog10  = "min_log"
)

// View is everything one render pass needs. It is derived fresh for every
// threshold change and never mutates the dataset.
type View struct {
	DataFile     string               `json:"data_file"`
	Thresholds   listing.Thresholds   `json:"thresholds"`
	RatingSlider listing.Bounds       `json:"rating_slider"`
	LogSlider    listing.Bounds       `json:"log_slider"`
	Summary      listing.Summary      `json:"summary"`
	Axes         listing.Axes         `json:"axes"`
	Points       []listing.ChartPoint `json:"points"`
	Table        []listing.TableRow   `json:"table"`
	Empty        bool                 `json:"empty"`
}

// Sliders derives the two slider ranges from the cleaned dataset.
func Sliders(ds *listing.Dataset, defaultMinLog10 float64) (rating, log listing.Bounds) {
	recs := ds.Records()
	return listing.RatingSlider(recs), listing.LogSlider(recs, defaultMinLog10)
}

// ParseThresholds reads the thresholds from a query. Missing or unparseable
// values fall back to the slider defaults; everything is clamped into range.
func ParseThresholds(q url.Values, rating, log listing.Bounds) listing.Thresholds {
	return listing.Thresholds{
		MinRating: queryFloat(q, ParamMinRating, rating),
		MinLog10:  queryFloat(q, ParamMinLog10, log),
	}
}

func queryFloat(q url.Values, key string, b listing.Bounds) float64 {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return b.Default
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return b.Default
	}
	return b.Clamp(v)
}

// AxesFromConfig overlays the configured chart range on the default layout.
func AxesFromConfig(c config.ChartConfig) listing.Axes {
	a := listing.DefaultAxes()
	a.XMin, a.XMax = c.XMin, c.XMax
	a.XDTick = c.XDTick
	return a
}

// BuildView recomputes the filtered view, metrics and projections.
func BuildView(ds *listing.Dataset, t listing.Thresholds, rating, log listing.Bounds, axes listing.Axes) View {
	filtered := ds.View(t)
	return View{
		Thresholds:   t,
		RatingSlider: rating,
		LogSlider:    log,
		Summary:      listing.Summarize(ds.Records(), filtered),
		Axes:         axes,
		Points:       listing.ChartPoints(filtered),
		Table:        listing.TableRows(filtered),
		Empty:        len(filtered) == 0,
	}
}
