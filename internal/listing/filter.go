package listing

// Thresholds are the two user-chosen minimums. Both are inclusive.
type Thresholds struct {
	MinRating float64 `json:"min_rating"`
	MinLog10  float64 `json:"min_log10"`
}

// Filter returns the records whose rating and log-review-count reach the
// thresholds. The input is never modified and the result is never nil.
func Filter(records []CleanedRecord, t Thresholds) []CleanedRecord {
	out := make([]CleanedRecord, 0, len(records))
	for _, r := range records {
		if r.Rating >= t.MinRating && r.ReviewCountLog10 >= t.MinLog10 {
			out = append(out, r)
		}
	}
	return out
}
