package listing

import (
	"math"
	"strconv"
	"strings"
)

// CleanStats counts what happened to the rows during cleaning.
type CleanStats struct {
	RowsRead            int `json:"rows_read"`
	RowsKept            int `json:"rows_kept"`
	DroppedNoRating     int `json:"dropped_no_rating"`
	ZeroReviewRows      int `json:"zero_review_rows"`
	ShorthandReviewRows int `json:"shorthand_review_rows"`
}

var kSuffix = strings.NewReplacer("K", "", "k", "")

// ParseReviewCount converts a review-count cell ("3.4K", "1,234", "无", 57)
// into a non-negative integer. Anything it cannot read becomes 0.
func ParseReviewCount(v any) int64 {
	switch t := v.(type) {
	case nil:
		return 0
	case string:
		return parseReviewText(t)
	case []byte:
		return parseReviewText(string(t))
	case int:
		return nonNegative(int64(t))
	case int64:
		return nonNegative(t)
	case int32:
		return nonNegative(int64(t))
	case uint:
		return truncCount(float64(t))
	case uint32:
		return int64(t)
	case uint64:
		return truncCount(float64(t))
	case float64:
		return truncCount(t)
	case float32:
		return truncCount(float64(t))
	default:
		return 0
	}
}

func parseReviewText(raw string) int64 {
	s := strings.TrimSpace(raw)
	if strings.ContainsAny(s, "Kk") {
		f, err := strconv.ParseFloat(strings.TrimSpace(kSuffix.Replace(s)), 64)
		if err != nil {
			return 0
		}
		return truncCount(f * 1000)
	}
	if _, ok := noReviewSentinels[strings.ToLower(s)]; ok {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return truncCount(f)
}

func truncCount(f float64) int64 {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(f)
}

func nonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

// NormalizeRating converts a rating cell into a float. The second result is
// false for the "no rating" sentinels, missing values and unparseable text.
func NormalizeRating(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case string:
		return parseRatingText(t)
	case []byte:
		return parseRatingText(string(t))
	case float64:
		return finite(t)
	case float32:
		return finite(float64(t))
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	default:
		return 0, false
	}
}

func parseRatingText(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if _, ok := noRatingSentinels[s]; ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Clean resolves every record and drops those without a usable rating.
func Clean(records []ProductRecord) (*Dataset, CleanStats) {
	stats := CleanStats{RowsRead: len(records)}
	out := make([]CleanedRecord, 0, len(records))
	for _, r := range records {
		rating, ok := NormalizeRating(r.RatingRaw)
		if !ok {
			stats.DroppedNoRating++
			continue
		}
		reviews := ParseReviewCount(r.ReviewCountRaw)
		if reviews == 0 {
			stats.ZeroReviewRows++
		}
		if s, isText := r.ReviewCountRaw.(string); isText && strings.ContainsAny(s, "Kk") {
			stats.ShorthandReviewRows++
		}
		out = append(out, NewCleanedRecord(r.Row, r.Title, rating, reviews))
	}
	stats.RowsKept = len(out)
	return &Dataset{records: out}, stats
}
