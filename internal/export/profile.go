package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"compboard/internal/listing"
)

// BuildProfile summarizes a load: how many rows survived cleaning and what
// the rating and review distributions look like.
func BuildProfile(source string, stats listing.CleanStats, records []listing.CleanedRecord) string {
	lines := []string{
		"# Competitor listing cleaning report",
		"",
		fmt.Sprintf("Source: `%s`", source),
		"",
		"## Dataset shape",
		fmt.Sprintf("- Rows read: %s", humanize.Comma(int64(stats.RowsRead))),
		fmt.Sprintf("- Rows kept: %s", humanize.Comma(int64(stats.RowsKept))),
		fmt.Sprintf("- Dropped (no usable rating): %s", humanize.Comma(int64(stats.DroppedNoRating))),
		fmt.Sprintf("- Review count resolved to 0: %s", humanize.Comma(int64(stats.ZeroReviewRows))),
		fmt.Sprintf("- Review count in K shorthand: %s", humanize.Comma(int64(stats.ShorthandReviewRows))),
	}

	if len(records) == 0 {
		lines = append(lines, "", "No rows survived cleaning.")
		return strings.Join(lines, "\n") + "\n"
	}

	ratings := make([]float64, len(records))
	reviews := make([]float64, len(records))
	for i, r := range records {
		ratings[i] = r.Rating
		reviews[i] = float64(r.ReviewCount)
	}
	sort.Float64s(ratings)
	sort.Float64s(reviews)

	lines = append(lines,
		"",
		"## Rating",
		fmt.Sprintf("- Min / median / max: %.2f / %.2f / %.2f", ratings[0], median(ratings), ratings[len(ratings)-1]),
		fmt.Sprintf("- Mean: %.2f", mean(ratings)),
		"",
		"## Review count",
		fmt.Sprintf("- Min / median / max: %s / %s / %s",
			humanize.Comma(int64(reviews[0])), humanize.Commaf(median(reviews)), humanize.Comma(int64(reviews[len(reviews)-1]))),
		fmt.Sprintf("- Mean: %s", humanize.Commaf(float64(int64(mean(reviews)*10))/10)),
		"",
		"## Review magnitude buckets (log10)",
	)
	buckets := map[string]int{}
	for _, r := range records {
		buckets[magnitude(r.ReviewCount)]++
	}
	for _, label := range []string{"0", "1-9", "10-99", "100-999", "1K-9.9K", "10K-99K", "100K+"} {
		if n := buckets[label]; n > 0 {
			lines = append(lines, fmt.Sprintf("- %s: %s", label, humanize.Comma(int64(n))))
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

func magnitude(n int64) string {
	switch {
	case n == 0:
		return "0"
	case n < 10:
		return "1-9"
	case n < 100:
		return "10-99"
	case n < 1000:
		return "100-999"
	case n < 10000:
		return "1K-9.9K"
	case n < 100000:
		return "10K-99K"
	default:
		return "100K+"
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// median expects sorted input.
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	n := len(xs)
	if n%2 == 1 {
		return xs[n/2]
	}
	return (xs[n/2-1] + xs[n/2]) / 2
}
