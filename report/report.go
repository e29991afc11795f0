// Package report renders a persisted inspection result as a
// self-contained, traffic-light themed HTML page, with an optional
// Markdown rendering for terminal and LLM consumption.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/sasangkyoo/slap/models"
)

// tierTheme carries the Tailwind classes for one difficulty tier.
type tierTheme struct {
	Bg     string
	Border string
	Badge  string
	Text   string
	Icon   string
}

var tierThemes = map[string]tierTheme{
	models.TierEasy: {
		Bg: "bg-green-50", Border: "border-green-200", Badge: "bg-green-500",
		Text: "text-green-900", Icon: "✅",
	},
	models.TierMedium: {
		Bg: "bg-yellow-50", Border: "border-yellow-300", Badge: "bg-yellow-500",
		Text: "text-yellow-900", Icon: "⚠️",
	},
	models.TierHard: {
		Bg: "bg-orange-50", Border: "border-orange-300", Badge: "bg-orange-600",
		Text: "text-orange-900", Icon: "🔥",
	},
	models.TierHell: {
		Bg: "bg-red-50", Border: "border-red-400", Badge: "bg-red-700",
		Text: "text-red-900", Icon: "💀",
	},
}

// strategyStyle carries the Tailwind classes for one strategy level.
type strategyStyle struct {
	Bg     string
	Border string
	Text   string
	Icon   string
}

var strategyStyles = map[string]strategyStyle{
	models.StrategyAbort:   {Bg: "bg-red-100", Border: "border-red-500", Text: "text-red-900", Icon: "🚫"},
	models.StrategyWarn:    {Bg: "bg-orange-100", Border: "border-orange-500", Text: "text-orange-900", Icon: "⚠️"},
	models.StrategyCaution: {Bg: "bg-yellow-100", Border: "border-yellow-500", Text: "text-yellow-900", Icon: "⚡"},
	models.StrategyInfo:    {Bg: "bg-blue-100", Border: "border-blue-500", Text: "text-blue-900", Icon: "ℹ️"},
	models.StrategySuccess: {Bg: "bg-green-100", Border: "border-green-500", Text: "text-green-900", Icon: "✅"},
}

// Axis maxima used for the breakdown bar widths.
const (
	apMax = 50
	sMax  = 30
	lMax  = 20
)

// reportData is the template context.
type reportData struct {
	Resp          *models.InspectResponse
	Theme         tierTheme
	StrategyStyle strategyStyle
	GeneratedAt   string
	APWidth       int
	SWidth        int
	LWidth        int
	TopDrivers    []string
	Modifiers     string
	Insight       template.HTML
}

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct": func(v float64) float64 { return v * 100 },
	"inc": func(i int) int { return i + 1 },
}).Parse(reportHTML))

// RenderHTML renders the result as a self-contained HTML report.
func RenderHTML(resp *models.InspectResponse) ([]byte, error) {
	theme, ok := tierThemes[resp.Score.Tier]
	if !ok {
		theme = tierThemes[models.TierEasy]
	}
	style, ok := strategyStyles[resp.Strategy.Level]
	if !ok {
		style = strategyStyles[models.StrategySuccess]
	}

	top := resp.Score.Drivers
	if len(top) > 3 {
		top = top[:3]
	}

	data := reportData{
		Resp:          resp,
		Theme:         theme,
		StrategyStyle: style,
		GeneratedAt:   time.Now().Format("2006-01-02 15:04:05"),
		APWidth:       barWidth(resp.Score.Breakdown.AP, apMax),
		SWidth:        barWidth(resp.Score.Breakdown.S, sMax),
		LWidth:        barWidth(resp.Score.Breakdown.L, lMax),
		TopDrivers:    top,
		Modifiers:     strings.Join(resp.Labels.Structure.Modifiers, ", "),

		// The insight is model-generated HTML and intentionally rendered
		// unescaped, mirroring its role as a report fragment.
		Insight: template.HTML(resp.Insight),
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("report: render: %w", err)
	}
	return buf.Bytes(), nil
}

func barWidth(value, max int) int {
	if value <= 0 {
		return 0
	}
	w := value * 100 / max
	if w > 100 {
		w = 100
	}
	return w
}

const reportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>SLAP Report - {{.Resp.URL}}</title>
    <script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="{{.Theme.Bg}} min-h-screen p-8">
    <div class="max-w-6xl mx-auto">
        <header class="mb-8">
            <h1 class="text-4xl font-bold {{.Theme.Text}} mb-2">SLAP Crawlability Report</h1>
            <p class="text-xl text-gray-700 mb-1">{{.Resp.URL}}</p>
            <p class="text-sm text-gray-500">Generated: {{.GeneratedAt}} | Run ID: {{.Resp.RunID}}</p>

            <div class="mt-4">
                <span class="{{.Theme.Badge}} text-white px-6 py-3 rounded-full text-2xl font-bold shadow-lg">
                    {{.Theme.Icon}} {{.Resp.Score.Tier}} TIER - {{.Resp.Score.TotalScore}}/100
                </span>
            </div>

            <div class="mt-6 p-6 border-l-4 {{.StrategyStyle.Bg}} {{.StrategyStyle.Border}} {{.StrategyStyle.Text}} rounded-lg shadow-md">
                <h2 class="text-2xl font-bold mb-3">{{.StrategyStyle.Icon}} RECOMMENDED STRATEGY</h2>
                <p class="text-lg font-medium leading-relaxed">{{.Resp.Strategy.Message}}</p>
            </div>
        </header>

        {{if .Insight}}
        <section class="mb-8">
            <div class="bg-gradient-to-r from-purple-50 to-indigo-50 rounded-lg shadow-lg p-6 border-2 border-purple-200">
                <h2 class="text-2xl font-bold mb-4 text-purple-900">🤖 AI Blueprint</h2>
                <div class="prose prose-purple max-w-none">
                    {{.Insight}}
                </div>
            </div>
        </section>
        {{end}}

        <section class="bg-white rounded-lg shadow-lg p-6 mb-8">
            <h2 class="text-2xl font-bold mb-6 text-gray-800">Difficulty Breakdown</h2>

            <div class="grid grid-cols-1 md:grid-cols-2 gap-6">
                <div>
                    <h3 class="font-semibold text-gray-700 mb-4">Score Components:</h3>

                    <div class="mb-4">
                        <div class="flex justify-between mb-1">
                            <span class="text-sm font-medium text-red-700">Access Protection</span>
                            <span class="text-sm font-bold text-red-700">{{.Resp.Score.Breakdown.AP}}/50</span>
                        </div>
                        <div class="w-full bg-gray-200 rounded-full h-4">
                            <div class="bg-red-500 h-4 rounded-full" style="width: {{.APWidth}}%"></div>
                        </div>
                    </div>

                    <div class="mb-4">
                        <div class="flex justify-between mb-1">
                            <span class="text-sm font-medium text-blue-700">Structure</span>
                            <span class="text-sm font-bold text-blue-700">{{.Resp.Score.Breakdown.S}}/30</span>
                        </div>
                        <div class="w-full bg-gray-200 rounded-full h-4">
                            <div class="bg-blue-500 h-4 rounded-full" style="width: {{.SWidth}}%"></div>
                        </div>
                    </div>

                    <div class="mb-4">
                        <div class="flex justify-between mb-1">
                            <span class="text-sm font-medium text-green-700">Loading</span>
                            <span class="text-sm font-bold text-green-700">{{.Resp.Score.Breakdown.L}}/20</span>
                        </div>
                        <div class="w-full bg-gray-200 rounded-full h-4">
                            <div class="bg-green-500 h-4 rounded-full" style="width: {{.LWidth}}%"></div>
                        </div>
                    </div>
                </div>

                <div>
                    <h3 class="font-semibold text-gray-700 mb-4">Top Difficulty Drivers:</h3>
                    <ol class="space-y-2">
                        {{range $i, $d := .TopDrivers}}<li class="text-gray-700">{{inc $i}}. <span class="font-semibold">{{$d}}</span></li>
                        {{end}}
                    </ol>
                </div>
            </div>
        </section>

        <section class="grid grid-cols-1 md:grid-cols-3 gap-6 mb-8">
            <div class="bg-white rounded-lg shadow p-6">
                <h3 class="text-xl font-bold text-blue-700 mb-4">📐 Structure</h3>
                <div class="mb-3">
                    <span class="text-sm text-gray-600">Primary:</span>
                    <p class="text-lg font-semibold text-gray-800">{{.Resp.Labels.Structure.Primary}}</p>
                    {{if .Modifiers}}<span class="text-orange-600 font-semibold">+ {{.Modifiers}}</span>{{end}}
                </div>
                <div class="text-sm text-gray-600 space-y-1">
                    <p>Text Ratio: <span class="font-medium">{{printf "%.3f" .Resp.HtmlStats.TextRatio}}</span></p>
                    <p>Hydration: <span class="font-medium">{{printf "%.2f%%" (pct .Resp.DomDiff.HydrationGrowth)}}</span></p>
                    <p>Root Div: <span class="font-medium">{{if .Resp.HtmlStats.HasRootDiv}}Yes{{else}}No{{end}}</span></p>
                </div>
            </div>

            <div class="bg-white rounded-lg shadow p-6">
                <h3 class="text-xl font-bold text-green-700 mb-4">📡 Loading</h3>
                <div class="mb-3">
                    <span class="text-sm text-gray-600">Pattern:</span>
                    <p class="text-lg font-semibold text-gray-800">{{.Resp.Labels.Loading}}</p>
                </div>
                <div class="text-sm text-gray-600 space-y-1">
                    <p>XHR/Fetch: <span class="font-medium">{{.Resp.NetworkSummary.XHRFetchCount}}</span></p>
                    <p>GraphQL: <span class="font-medium">{{index .Resp.NetworkSummary.DataTypes "graphql"}}</span></p>
                    <p>Scroll Growth: <span class="font-medium">{{printf "%.2f%%" (pct .Resp.DomDiff.ScrollGrowth)}}</span></p>
                </div>
            </div>

            <div class="bg-white rounded-lg shadow p-6">
                <h3 class="text-xl font-bold text-red-700 mb-4">🛡️ Protection</h3>
                <div class="mb-3">
                    <span class="text-sm text-gray-600">Detected Signals:</span>
                    <div class="mt-2">
                        {{if .Resp.Signals}}{{range .Resp.Signals}}
                        <div class="mb-2">
                            <span class="text-sm font-semibold">{{if eq .State "confirmed"}}🔴{{else}}🟠{{end}} {{.Label}}</span>
                            <span class="text-xs text-gray-600">({{.State}}, {{.Confidence}})</span>
                        </div>
                        {{end}}{{else}}<p class="text-gray-500 italic">None detected</p>{{end}}
                    </div>
                </div>
            </div>
        </section>

        <section class="bg-white rounded-lg shadow p-6">
            <h2 class="text-2xl font-bold mb-4 text-gray-800">📊 Evidence Detail</h2>

            <details class="mb-4">
                <summary class="cursor-pointer font-semibold text-gray-700 hover:text-blue-600">Network Statistics</summary>
                <div class="mt-3 pl-4 text-sm text-gray-600">
                    <p>Total Requests Captured: <span class="font-medium">{{.Resp.NetworkSummary.TotalCaptured}}</span></p>
                    <p>XHR/Fetch Count: <span class="font-medium">{{.Resp.NetworkSummary.XHRFetchCount}}</span></p>
                    <p>JSON Responses: <span class="font-medium">{{index .Resp.NetworkSummary.DataTypes "json"}}</span></p>
                    <p>GraphQL Detected: <span class="font-medium">{{index .Resp.NetworkSummary.DataTypes "graphql"}}</span></p>
                </div>
            </details>

            <details class="mb-4">
                <summary class="cursor-pointer font-semibold text-gray-700 hover:text-blue-600">DOM Timeline</summary>
                <div class="mt-3 pl-4 text-sm text-gray-600">
                    <p>t0 (Server): <span class="font-medium">{{.Resp.DomDiff.T0.NodeCount}} nodes</span></p>
                    <p>t1 (Hydrated): <span class="font-medium">{{.Resp.DomDiff.T1.NodeCount}} nodes</span></p>
                    <p>t2 (Scrolled): <span class="font-medium">{{.Resp.DomDiff.T2.NodeCount}} nodes</span></p>
                    <p>Hydration Growth: <span class="font-medium">{{printf "%.2f%%" (pct .Resp.DomDiff.HydrationGrowth)}}</span></p>
                    <p>Scroll Growth: <span class="font-medium">{{printf "%.2f%%" (pct .Resp.DomDiff.ScrollGrowth)}}</span></p>
                </div>
            </details>

            <details>
                <summary class="cursor-pointer font-semibold text-gray-700 hover:text-blue-600">HTML Statistics</summary>
                <div class="mt-3 pl-4 text-sm text-gray-600">
                    <p>Total Size: <span class="font-medium">{{.Resp.HtmlStats.TotalSize}} bytes</span></p>
                    <p>Tag Count: <span class="font-medium">{{.Resp.HtmlStats.TagCount}}</span></p>
                    <p>Link Count: <span class="font-medium">{{.Resp.HtmlStats.LinkCount}}</span></p>
                    <p>Text Ratio: <span class="font-medium">{{printf "%.3f" .Resp.HtmlStats.TextRatio}}</span></p>
                    <p>Status Code: <span class="font-medium">{{.Resp.StatusCode}}</span></p>
                </div>
            </details>
        </section>

        <footer class="mt-8 text-center text-sm text-gray-500">
            <p>Generated by slap {{.Resp.Score.Tier}} verdict engine</p>
        </footer>
    </div>
</body>
</html>
`
