// Package listing turns raw competitor listing rows into a cleaned dataset and
// derives the filtered views, summary metrics and chart/table projections the
// dashboard renders.
package listing

import (
	"math"
	"slices"
)

// Column labels of the listing sheet. They are fixed by the upstream export.
const (
	ColumnTitle       = "标题"
	ColumnRating      = "等级"
	ColumnReviewCount = "评论数"
)

// RequiredColumns lists the sheet columns a data file must carry.
var RequiredColumns = []string{ColumnTitle, ColumnRating, ColumnReviewCount}

// noReviewSentinels mean "no reviews". Matched against the trimmed, lowercased text.
var noReviewSentinels = map[string]struct{}{
	"0":   {},
	"无评论": {},
	"无":   {},
	"":    {},
}

// noRatingSentinels mean "no rating". Matched against the trimmed text.
var noRatingSentinels = map[string]struct{}{
	"无评分":  {},
	"无":    {},
	"None": {},
	"无等级":  {},
}

// ProductRecord is one raw row of the listing sheet.
type ProductRecord struct {
	// Row is the 1-based sheet row the record came from (header is row 1).
	Row            int
	Title          string
	RatingRaw      any
	ReviewCountRaw any
}

// CleanedRecord is a ProductRecord with its numeric fields resolved.
// Every CleanedRecord has a defined rating.
type CleanedRecord struct {
	Row              int     `json:"row"`
	Title            string  `json:"title"`
	Rating           float64 `json:"rating"`
	ReviewCount      int64   `json:"review_count"`
	ReviewCountLog10 float64 `json:"review_count_log10"`
	BubbleSize       float64 `json:"bubble_size"`
}

// NewCleanedRecord derives the log-review-count and bubble size for a record.
func NewCleanedRecord(row int, title string, rating float64, reviews int64) CleanedRecord {
	if reviews < 0 {
		reviews = 0
	}
	n := float64(reviews)
	return CleanedRecord{
		Row:              row,
		Title:            title,
		Rating:           rating,
		ReviewCount:      reviews,
		ReviewCountLog10: math.Log10(n + 1),
		BubbleSize:       math.Sqrt(n) + 10,
	}
}

// Dataset is the cleaned, immutable set of records a data file produced.
type Dataset struct {
	records []CleanedRecord
}

// NewDataset wraps records. The slice is copied.
func NewDataset(records []CleanedRecord) *Dataset {
	return &Dataset{records: slices.Clone(records)}
}

// Len returns the number of cleaned records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Records returns a copy of the cleaned records.
func (d *Dataset) Records() []CleanedRecord {
	if d == nil {
		return []CleanedRecord{}
	}
	return slices.Clone(d.records)
}

// View filters the dataset without copying it first.
func (d *Dataset) View(t Thresholds) []CleanedRecord {
	if d == nil {
		return []CleanedRecord{}
	}
	return Filter(d.records, t)
}
