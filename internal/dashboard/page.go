package dashboard

import (
	"fmt"
	"html/template"

	"github.com/dustin/go-humanize"

	"compboard/internal/listing"
)

const pageTitle = "亚马逊宠物玩具竞品监控看板"

// metricCard is one of the three headline numbers.
type metricCard struct {
	Label string
	Value string
	Delta string
}

func metricCards(s listing.Summary) []metricCard {
	coverage := "占总数的 N/A"
	if s.HasCoverage {
		coverage = fmt.Sprintf("占总数的 %.1f%%", s.Coverage)
	}
	maxReviews := "N/A"
	if s.HasMaxReviewCount {
		maxReviews = humanize.Comma(s.MaxReviewCount) + " 条"
	}
	return []metricCard{
		{Label: "总商品数 (已筛选)", Value: fmt.Sprintf("%d 条", s.Count), Delta: coverage},
		{Label: "平均产品评分", Value: fmt.Sprintf("%.2f 分", s.AverageRating), Delta: fmt.Sprintf("原始平均: %.2f", s.OriginalAverageRating)},
		{Label: "最高评论数", Value: maxReviews, Delta: "筛选集中的最高热度产品"},
	}
}

type pageData struct {
	Title   string
	View    View
	Metrics []metricCard
	Chart   *chartSnippet
}

var pageFuncs = template.FuncMap{
	"f1":    func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"f2":    func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"comma": humanize.Comma,
}

var pageTemplate = template.Must(template.New("page").Funcs(pageFuncs).Parse(`<!doctype html>
<html lang="zh">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{ .Title }}</title>
  <style>
    :root { --bg: #f7f7f5; --card: #fff; --ink: #0f172a; --muted: #64748b; --border: #e2e8f0; --warn: #fef3c7; }
    body { margin: 0; background: var(--bg); color: var(--ink); font-family: "Helvetica Neue", Arial, sans-serif; }
    .layout { display: grid; grid-template-columns: 300px 1fr; min-height: 100vh; }
    aside { background: #eef2f6; padding: 24px; border-right: 1px solid var(--border); }
    main { padding: 24px 40px 64px; }
    h1 { margin: 0 0 12px; }
    hr { border: 0; border-top: 1px solid var(--border); margin: 20px 0; }
    label { display: block; font-weight: 600; margin: 18px 0 6px; }
    input[type=range] { width: 100%; }
    .slider-value { color: var(--muted); font-size: 14px; }
    .metrics { display: grid; grid-template-columns: repeat(3, 1fr); gap: 16px; }
    .metric { background: var(--card); border: 1px solid var(--border); border-radius: 12px; padding: 16px; }
    .metric-label { color: var(--muted); font-size: 14px; }
    .metric-value { font-size: 30px; margin: 6px 0; }
    .metric-delta { color: var(--muted); font-size: 13px; }
    .warning { background: var(--warn); border-radius: 8px; padding: 14px 18px; }
    .chart-panel { background: var(--card); border: 1px solid var(--border); border-radius: 12px; padding: 12px; }
    table { width: 100%; border-collapse: collapse; background: var(--card); }
    th, td { text-align: left; padding: 8px 10px; border-bottom: 1px solid var(--border); font-size: 14px; }
    td.num { text-align: right; font-variant-numeric: tabular-nums; }
  </style>
</head>
<body>
<div class="layout">
  <aside>
    <h2>🔍 数据筛选与分析</h2>
    <form id="filters" method="get" action="/">
      <label for="min_rating">1. 筛选最低产品评分（等级）</label>
      <input type="range" id="min_rating" name="min_rating"
        min="{{ .View.RatingSlider.Min }}" max="{{ .View.RatingSlider.Max }}"
        step="{{ .View.RatingSlider.Step }}" value="{{ .View.Thresholds.MinRating }}" />
      <div class="slider-value"><output for="min_rating">{{ f2 .View.Thresholds.MinRating }}</output></div>

      <label for="min_log">2. 筛选最低评论数（热度）</label>
      <input type="range" id="min_log" name="min_log"
        min="{{ .View.LogSlider.Min }}" max="{{ .View.LogSlider.Max }}"
        step="{{ .View.LogSlider.Step }}" value="{{ .View.Thresholds.MinLog10 }}" />
      <div class="slider-value">评论数 &gt; 10^<output for="min_log">{{ f1 .View.Thresholds.MinLog10 }}</output></div>
      <noscript><button type="submit">应用</button></noscript>
    </form>
  </aside>
  <main>
    <h1>🐾 {{ .Title }}</h1>
    <hr />
    <h2>📊 关键指标概览</h2>
    <div class="metrics">
      {{ range .Metrics }}
      <div class="metric">
        <div class="metric-label">{{ .Label }}</div>
        <div class="metric-value">{{ .Value }}</div>
        <div class="metric-delta">{{ .Delta }}</div>
      </div>
      {{ end }}
    </div>
    <hr />
    <h2>⭐ 评分与热度（评论数）关系气泡图</h2>
    <p>💡 气泡越大 = 热度越高；颜色越亮 = 评分越高。鼠标悬停可查看标题。</p>
    {{ if .View.Empty }}
    <div class="warning" id="empty-warning">根据当前筛选条件，没有找到符合要求的商品。请调整侧边栏的滑块。</div>
    {{ else }}{{ with .Chart }}
    <div class="chart-panel">{{ .Element }}</div>
    <script src="{{ .Asset }}"></script>
    {{ .Script }}
    {{ end }}{{ end }}
    <h2>📋 筛选后的原始数据表</h2>
    <p><strong>当前显示 {{ len .View.Table }} 条数据。</strong></p>
    <table>
      <thead><tr><th title="亚马逊产品标题">标题</th><th>等级 (评分)</th><th>评论数 (数值)</th></tr></thead>
      <tbody>
      {{ range .View.Table }}
        <tr><td>{{ .Title }}</td><td class="num">{{ f2 .Rating }}</td><td class="num">{{ comma .ReviewCount }}</td></tr>
      {{ end }}
      </tbody>
    </table>
  </main>
</div>
<script>
  (function () {
    var form = document.getElementById("filters");
    form.querySelectorAll("input[type=range]").forEach(function (input) {
      var out = form.querySelector('output[for="' + input.id + '"]');
      input.addEventListener("input", function () { out.value = Number(input.value).toFixed(input.id === "min_log" ? 1 : 2); });
      input.addEventListener("change", function () { form.submit(); });
    });
  })();
</script>
</body>
</html>`))

type errorPageData struct {
	Title   string
	Message string
}

var errorTemplate = template.Must(template.New("error").Parse(`<!doctype html>
<html lang="zh">
<head>
  <meta charset="utf-8" />
  <title>{{ .Title }}</title>
  <style>
    body { margin: 0; font-family: "Helvetica Neue", Arial, sans-serif; background: #f7f7f5; color: #0f172a; }
    .wrap { max-width: 820px; margin: 64px auto; padding: 0 20px; }
    .error { background: #fee2e2; border: 1px solid #fca5a5; border-radius: 8px; padding: 16px 20px; }
  </style>
</head>
<body>
  <div class="wrap">
    <h1>🐾 {{ .Title }}</h1>
    <div class="error" id="load-error">Error: {{ .Message }}</div>
  </div>
</body>
</html>`))
