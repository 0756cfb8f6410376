package listing

// Summary holds the three headline metrics of a filtered view.
type Summary struct {
	Count int `json:"count"`
	Total int `json:"total"`
	// Coverage is Count/Total as a percentage. HasCoverage is false when Total is 0.
	Coverage    float64 `json:"coverage_pct"`
	HasCoverage bool    `json:"has_coverage"`
	// AverageRating is 0 for an empty view.
	AverageRating         float64 `json:"average_rating"`
	OriginalAverageRating float64 `json:"original_average_rating"`
	// MaxReviewCount is only meaningful when HasMaxReviewCount is true.
	MaxReviewCount    int64 `json:"max_review_count"`
	HasMaxReviewCount bool  `json:"has_max_review_count"`
}

// Summarize derives the metrics for filtered against the full cleaned set.
func Summarize(original, filtered []CleanedRecord) Summary {
	s := Summary{
		Count:                 len(filtered),
		Total:                 len(original),
		AverageRating:         meanRating(filtered),
		OriginalAverageRating: meanRating(original),
	}
	if s.Total > 0 {
		s.Coverage = float64(s.Count) / float64(s.Total) * 100
		s.HasCoverage = true
	}
	for i, r := range filtered {
		if i == 0 || r.ReviewCount > s.MaxReviewCount {
			s.MaxReviewCount = r.ReviewCount
		}
		s.HasMaxReviewCount = true
	}
	return s
}

func meanRating(records []CleanedRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range records {
		sum += r.Rating
	}
	return sum / float64(len(records))
}
