package dashboard

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compboard/internal/config"
	"compboard/internal/dataset"
)

const listingCSV = "标题,等级,评论数\n" +
	"Squeaky <ball>,4.5,100\n" +
	"Rope toy,无评分,50\n" +
	"Laser pointer,4.0,2K\n" +
	"Catnip mouse,3.6,3\n"

func newTestServer(t *testing.T, content string) (*Server, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.DataFile = filepath.Join(dir, "data.csv")
	if content != "" {
		require.NoError(t, os.WriteFile(cfg.DataFile, []byte(content), 0o644))
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader, err := dataset.NewLoader(2, logger)
	require.NoError(t, err)
	return NewServer(cfg, loader, logger), cfg
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, "")
	rec := get(t, s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestIndexRendersDashboard(t *testing.T) {
	s, _ := newTestServer(t, listingCSV)
	rec := get(t, s, "/?min_rating=4.0&min_log=0")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "2 条")
	assert.Contains(t, body, "占总数的 66.7%")
	assert.Contains(t, body, "4.25 分")
	assert.Contains(t, body, "2,000 条")
	assert.Contains(t, body, chartID)
	assert.Contains(t, body, echartsAsset)
	assert.Contains(t, body, "Squeaky &lt;ball&gt;")
	assert.NotContains(t, body, "Squeaky <ball>")
	assert.NotContains(t, body, "Catnip mouse")
	assert.NotContains(t, body, "Rope toy")
	assert.Contains(t, body, "当前显示 2 条数据")
}

func TestIndexDefaultsStartAtTenReviews(t *testing.T) {
	s, _ := newTestServer(t, listingCSV)
	body := get(t, s, "/").Body.String()
	// Default rating threshold is the dataset minimum, default log threshold is 1.0,
	// so only the 3-review mouse is hidden.
	assert.Contains(t, body, "当前显示 2 条数据")
	assert.NotContains(t, body, "Catnip mouse")
}

func TestIndexEmptyResult(t *testing.T) {
	s, _ := newTestServer(t, listingCSV)
	rec := get(t, s, "/?min_rating=5&min_log=9")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `id="empty-warning"`)
	assert.NotContains(t, body, chartID)
	assert.NotContains(t, body, echartsAsset)
	assert.Contains(t, body, "0 条")
	assert.Contains(t, body, "0.00 分")
	assert.Contains(t, body, "N/A")
}

func TestIndexMissingFileShowsErrorOnly(t *testing.T) {
	s, cfg := newTestServer(t, "")
	rec := get(t, s, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `id="load-error"`)
	assert.Contains(t, body, filepath.Base(cfg.DataFile))
	assert.Contains(t, body, ".xlsx")
	assert.NotContains(t, body, "关键指标概览")
}

func TestIndexWithoutRatedRowsShowsErrorOnly(t *testing.T) {
	s, _ := newTestServer(t, "标题,等级,评论数\nRope toy,无评分,50\nLaser pointer,无,2K\n")
	rec := get(t, s, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `id="load-error"`)
	assert.Contains(t, body, "等级")
	assert.NotContains(t, body, "关键指标概览")
	assert.NotContains(t, body, chartID)
}

func TestAPIView(t *testing.T) {
	s, _ := newTestServer(t, listingCSV)
	rec := get(t, s, "/api/view?min_rating=4.0&min_log=0")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json"))

	var v View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, 2, v.Summary.Count)
	assert.Equal(t, 3, v.Summary.Total)
	assert.InDelta(t, 4.25, v.Summary.AverageRating, 1e-9)
	assert.Equal(t, int64(2000), v.Summary.MaxReviewCount)
	require.Len(t, v.Points, 2)
	assert.Equal(t, v.Points[0].X, v.Points[0].Color)
	require.Len(t, v.Table, 2)
	assert.Equal(t, "Laser pointer", v.Table[1].Title)
	assert.Equal(t, 3.8, v.Axes.XMin)
	assert.Len(t, v.Axes.YTicks, 5)
	assert.Equal(t, 3.6, v.RatingSlider.Min)
	assert.Equal(t, 4.5, v.RatingSlider.Max)
}

func TestAPIViewMissingFile(t *testing.T) {
	s, _ := newTestServer(t, "")
	rec := get(t, s, "/api/view")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "Could not find data file")
}

func TestUnknownPathIsNotFound(t *testing.T) {
	s, _ := newTestServer(t, listingCSV)
	assert.Equal(t, http.StatusNotFound, get(t, s, "/nope").Code)
}
