// Package charts turns aggregate views of the quiz-answer table into
// drawable shapes for the web UI and into an Excel workbook with native
// charts.
package charts

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/quizdata/internal/core"
)

// Kind identifies one of the three chart views.
type Kind string

const (
	KindStackedBar Kind = "stacked-bar"
	KindPie        Kind = "pie"
	KindArea       Kind = "area"
)

// Kinds lists the chart views in menu order.
var Kinds = []Kind{KindStackedBar, KindPie, KindArea}

// ParseKind validates a chart kind from a URL.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Title returns the heading shown above a chart.
func (k Kind) Title() string {
	switch k {
	case KindStackedBar:
		return "Stacked Bar Chart: Student Country vs. Type of Answer"
	case KindPie:
		return "Pie Chart: Question Levels"
	case KindArea:
		return "Area Chart: Topics"
	}
	return string(k)
}

// Label is the short button text.
func (k Kind) Label() string {
	switch k {
	case KindStackedBar:
		return "Stacked Bar Chart"
	case KindPie:
		return "Pie Chart"
	case KindArea:
		return "Area Chart"
	}
	return string(k)
}

// RequiredColumns names the columns a chart needs; used for "no chart" notices.
func (k Kind) RequiredColumns() []string {
	switch k {
	case KindStackedBar:
		return []string{core.ColStudentCountry, core.ColAnswerType}
	case KindPie:
		return []string{core.ColQuestionLevel}
	case KindArea:
		return []string{core.ColTopic}
	}
	return nil
}

// palette is cycled through for series and slices.
var palette = []string{
	"#d62728", "#2ca02c", "#1f77b4", "#ff7f0e", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Color returns the palette color for series i.
func Color(i int) string {
	return palette[i%len(palette)]
}

// LegendItem pairs a series name with its color.
type LegendItem struct {
	Key   string
	Color string
}

// Segment is one stacked piece of a bar.
type Segment struct {
	Key     string
	Count   int
	Percent float64 // height relative to the tallest bar
	Color   string
}

// Bar is one country in the stacked bar chart.
type Bar struct {
	Label    string
	Total    int
	Segments []Segment
}

// StackedBars lays out p as bars scaled to the largest row total.
func StackedBars(p *core.PairCounts) ([]Bar, []LegendItem) {
	legend := make([]LegendItem, len(p.Columns))
	for j, c := range p.Columns {
		legend[j] = LegendItem{Key: c, Color: Color(j)}
	}

	top := p.Max()
	bars := make([]Bar, len(p.Rows))
	for i, r := range p.Rows {
		bar := Bar{Label: r, Total: p.RowTotal(i)}
		for j, c := range p.Columns {
			n := p.Cells[i][j]
			if n == 0 {
				continue
			}
			bar.Segments = append(bar.Segments, Segment{
				Key:     c,
				Count:   n,
				Percent: percent(n, top),
				Color:   Color(j),
			})
		}
		bars[i] = bar
	}
	return bars, legend
}

// Slice is one wedge of the pie chart. Start and End are cumulative
// percentages of the whole.
type Slice struct {
	Key     string
	Count   int
	Percent float64
	Start   float64
	End     float64
	Color   string
}

// PieSlices converts counts to wedges in count order.
func PieSlices(c core.Counts) []Slice {
	total := c.Total()
	out := make([]Slice, 0, len(c))
	var at float64
	for i, v := range c {
		p := percent(v.Count, total)
		out = append(out, Slice{
			Key:     v.Key,
			Count:   v.Count,
			Percent: p,
			Start:   at,
			End:     at + p,
			Color:   Color(i),
		})
		at += p
	}
	return out
}

// ConicGradient renders slices as a CSS conic-gradient background.
func ConicGradient(slices []Slice) string {
	if len(slices) == 0 {
		return "none"
	}
	stops := make([]string, len(slices))
	for i, s := range slices {
		stops[i] = fmt.Sprintf("%s %.2f%% %.2f%%", s.Color, s.Start, s.End)
	}
	return "conic-gradient(" + strings.Join(stops, ", ") + ")"
}

// AreaPoint is one topic on the area chart in SVG coordinates.
type AreaPoint struct {
	Key   string
	Count int
	X     float64
	Y     float64
}

// AreaChart is an SVG-ready area plot.
type AreaChart struct {
	Width  float64
	Height float64
	Max    int
	Points []AreaPoint
	Line   string // polyline points
	Fill   string // closed polygon points
}

// Area plots counts left to right in count order inside a width x height box.
func Area(c core.Counts, width, height float64) AreaChart {
	chart := AreaChart{Width: width, Height: height}
	for _, v := range c {
		chart.Max = max(chart.Max, v.Count)
	}
	if len(c) == 0 {
		return chart
	}

	step := 0.0
	if len(c) > 1 {
		step = width / float64(len(c)-1)
	}
	line := make([]string, len(c))
	for i, v := range c {
		x := step * float64(i)
		if len(c) == 1 {
			x = width / 2
		}
		y := height - height*percent(v.Count, chart.Max)/100
		chart.Points = append(chart.Points, AreaPoint{Key: v.Key, Count: v.Count, X: x, Y: y})
		line[i] = fmt.Sprintf("%.1f,%.1f", x, y)
	}

	chart.Line = strings.Join(line, " ")
	first, last := chart.Points[0], chart.Points[len(chart.Points)-1]
	chart.Fill = fmt.Sprintf("%.1f,%.1f %s %.1f,%.1f", first.X, height, chart.Line, last.X, height)
	return chart
}

func percent(n, of int) float64 {
	if of == 0 {
		return 0
	}
	return float64(n) * 100 / float64(of)
}
