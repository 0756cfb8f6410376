package listing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReviewCount(t *testing.T) {
	cases := []struct {
		in   any
		want int64
	}{
		{"3.4K", 3400},
		{"3.4k", 3400},
		{" 12K ", 12000},
		{"1,234", 1234},
		{"1,234,567", 1234567},
		{"341", 341},
		{"57.9", 57},
		{"无", 0},
		{"无评论", 0},
		{"0", 0},
		{"", 0},
		{"   ", 0},
		{"abc", 0},
		{"K", 0},
		{"oops k", 0},
		{"-5", 0},
		{"NaN", 0},
		{nil, 0},
		{true, 0},
		{57, 57},
		{int64(2000), 2000},
		{99.7, 99},
		{-3, 0},
		{math.NaN(), 0},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, ParseReviewCount(tc.in), "ParseReviewCount(%#v)", tc.in)
	}
}

func TestNormalizeRating(t *testing.T) {
	defined := []struct {
		in   any
		want float64
	}{
		{"4.5", 4.5},
		{" 4.0 ", 4.0},
		{"5", 5},
		{4.7, 4.7},
		{4, 4},
	}
	for _, tc := range defined {
		got, ok := NormalizeRating(tc.in)
		require.Truef(t, ok, "NormalizeRating(%#v) should be defined", tc.in)
		assert.InDelta(t, tc.want, got, 1e-12)
	}

	for _, in := range []any{"无评分", "无", "None", "无等级", nil, "", "four", math.NaN(), math.Inf(1), struct{}{}} {
		_, ok := NormalizeRating(in)
		assert.Falsef(t, ok, "NormalizeRating(%#v) should be undefined", in)
	}
}

func TestCleanDropsUndefinedRatings(t *testing.T) {
	ds, stats := Clean([]ProductRecord{
		{Row: 2, Title: "A", RatingRaw: 4.5, ReviewCountRaw: "100"},
		{Row: 3, Title: "B", RatingRaw: "无评分", ReviewCountRaw: "50"},
		{Row: 4, Title: "C", RatingRaw: 4.0, ReviewCountRaw: "2K"},
		{Row: 5, Title: "D", RatingRaw: "4.2", ReviewCountRaw: "无"},
	})

	require.Equal(t, 3, ds.Len())
	assert.Equal(t, CleanStats{
		RowsRead:            4,
		RowsKept:            3,
		DroppedNoRating:     1,
		ZeroReviewRows:      1,
		ShorthandReviewRows: 1,
	}, stats)

	titles := []string{}
	for _, r := range ds.Records() {
		titles = append(titles, r.Title)
	}
	assert.Equal(t, []string{"A", "C", "D"}, titles)
}

func TestCleanedRecordDerivedFields(t *testing.T) {
	ds, _ := Clean([]ProductRecord{
		{Title: "zero", RatingRaw: "4.1", ReviewCountRaw: ""},
		{Title: "small", RatingRaw: "4.2", ReviewCountRaw: "9"},
		{Title: "big", RatingRaw: "4.3", ReviewCountRaw: "12.5K"},
	})
	for _, r := range ds.Records() {
		assert.InDelta(t, math.Log10(float64(r.ReviewCount)+1), r.ReviewCountLog10, 1e-12, r.Title)
		assert.InDelta(t, math.Sqrt(float64(r.ReviewCount))+10, r.BubbleSize, 1e-12, r.Title)
		assert.GreaterOrEqual(t, r.ReviewCountLog10, 0.0)
		assert.Greater(t, r.BubbleSize, 0.0)
	}
	assert.Equal(t, 10.0, ds.Records()[0].BubbleSize)
	assert.InDelta(t, 1.0, ds.Records()[1].ReviewCountLog10, 1e-12)
}

func TestDatasetRecordsAreCopies(t *testing.T) {
	ds, _ := Clean([]ProductRecord{{Title: "A", RatingRaw: "4.5", ReviewCountRaw: "10"}})
	recs := ds.Records()
	recs[0].Rating = 1
	assert.Equal(t, 4.5, ds.Records()[0].Rating)
}

func TestEndToEndThreeRows(t *testing.T) {
	ds, _ := Clean([]ProductRecord{
		{Title: "A", RatingRaw: 4.5, ReviewCountRaw: "100"},
		{Title: "B", RatingRaw: "无评分", ReviewCountRaw: "50"},
		{Title: "C", RatingRaw: 4.0, ReviewCountRaw: "2K"},
	})
	require.Equal(t, 2, ds.Len())

	filtered := ds.View(Thresholds{MinRating: 4.0, MinLog10: 0})
	require.Len(t, filtered, 2)
	assert.Equal(t, "A", filtered[0].Title)
	assert.Equal(t, "C", filtered[1].Title)

	s := Summarize(ds.Records(), filtered)
	assert.InDelta(t, 4.25, s.AverageRating, 1e-12)
	require.True(t, s.HasMaxReviewCount)
	assert.Equal(t, int64(2000), s.MaxReviewCount)
	assert.InDelta(t, 100.0, s.Coverage, 1e-12)
}

func TestCleanKeepsTitlesAsWritten(t *testing.T) {
	ds, _ := Clean([]ProductRecord{{Row: 2, Title: " Ball ", RatingRaw: "4.5", ReviewCountRaw: "10"}})
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, " Ball ", ds.Records()[0].Title)
}
