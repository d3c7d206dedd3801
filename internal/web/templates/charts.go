package templates

import (
	"context"
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/quizdata/internal/charts"
)

// ChartMenu renders one link per chart kind. href maps a kind to its URL.
func ChartMenu(active charts.Kind, href func(charts.Kind) string) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<nav class="actions">`)
		for _, k := range charts.Kinds {
			h.raw(`<a class="button" href="`)
			h.text(href(k))
			h.raw(`"`)
			if k == active {
				h.raw(` aria-current="page"`)
			}
			h.raw(`>`)
			h.text(k.Label())
			h.raw(`</a>`)
		}
		h.raw(`</nav>`)
	})
}

// NoChart explains why a chart cannot be drawn.
func NoChart(kind charts.Kind) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<div class="chart"><h2>`)
		h.text(kind.Title())
		h.raw(`</h2>`)
		h.render(ctx, Notice(LevelWarn, "Required columns not found: "+strings.Join(kind.RequiredColumns(), ", ")))
		h.raw(`</div>`)
	})
}

// EmptyChart is shown when the table has no rows to count.
func EmptyChart(kind charts.Kind) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<div class="chart"><h2>`)
		h.text(kind.Title())
		h.raw(`</h2>`)
		h.render(ctx, Notice(LevelInfo, "No data to chart."))
		h.raw(`</div>`)
	})
}

// StackedBarChart draws one stacked column per country.
func StackedBarChart(bars []charts.Bar, legend []charts.LegendItem) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<div class="chart" data-kind="stacked-bar"><h2>`)
		h.text(charts.KindStackedBar.Title())
		h.raw(`</h2><div class="bars">`)
		for _, b := range bars {
			h.raw(`<div class="bar" title="`)
			h.text(b.Label)
			h.printf(`: %d">`, b.Total)
			for _, seg := range b.Segments {
				h.printf(`<div style="height:%.2f%%;background:%s" title="`, seg.Percent, seg.Color)
				h.text(seg.Key)
				h.printf(`: %d"></div>`, seg.Count)
			}
			h.raw(`</div>`)
		}
		h.raw(`</div><div class="bars" style="height:auto;border:0">`)
		for _, b := range bars {
			h.raw(`<div class="bar-label">`)
			h.text(b.Label)
			h.raw(`</div>`)
		}
		h.raw(`</div>`)
		h.render(ctx, chartLegend(legend))
		h.raw(`</div>`)
	})
}

// PieChart draws the wedges with a CSS conic gradient.
func PieChart(wedges []charts.Slice) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<div class="chart" data-kind="pie"><h2>`)
		h.text(charts.KindPie.Title())
		h.raw(`</h2>`)
		h.printf(`<div class="pie" style="background:%s"></div>`, charts.ConicGradient(wedges))
		legend := make([]charts.LegendItem, len(wedges))
		for i, w := range wedges {
			legend[i] = charts.LegendItem{Key: w.Key + " " + formatPercent(w.Percent), Color: w.Color}
		}
		h.render(ctx, chartLegend(legend))
		h.raw(`</div>`)
	})
}

// AreaChart draws the topic counts as a filled SVG line.
func AreaChart(a charts.AreaChart) templ.Component {
	return component(func(_ context.Context, h *html) {
		const pad = 30.0
		h.raw(`<div class="chart" data-kind="area"><h2>`)
		h.text(charts.KindArea.Title())
		h.raw(`</h2>`)
		h.printf(`<svg viewBox="%.0f %.0f %.0f %.0f" width="100%%" role="img">`,
			-pad, -pad/2, a.Width+2*pad, a.Height+2*pad)
		h.printf(`<polygon points="%s" fill="skyblue" fill-opacity="0.4"></polygon>`, a.Fill)
		h.printf(`<polyline points="%s" fill="none" stroke="slateblue" stroke-opacity="0.6" stroke-width="2"></polyline>`, a.Line)
		for _, p := range a.Points {
			h.printf(`<circle cx="%.1f" cy="%.1f" r="3" fill="slateblue"><title>`, p.X, p.Y)
			h.text(p.Key)
			h.printf(`: %d</title></circle>`, p.Count)
			h.printf(`<text x="%.1f" y="%.1f" font-size="10" text-anchor="middle">`, p.X, a.Height+14)
			h.text(p.Key)
			h.raw(`</text>`)
		}
		h.printf(`<text x="%.1f" y="-4" font-size="10">max %d</text>`, -pad+2, a.Max)
		h.raw(`</svg></div>`)
	})
}

func chartLegend(items []charts.LegendItem) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<div class="legend">`)
		for _, it := range items {
			h.printf(`<span><span class="swatch" style="background:%s"></span>`, it.Color)
			h.text(it.Key)
			h.raw(`</span>`)
		}
		h.raw(`</div>`)
	})
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}
