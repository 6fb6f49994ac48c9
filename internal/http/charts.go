package http

import (
	"errors"
	"fmt"
	"html/template"
	"io"

	"github.com/shopspring/decimal"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"pjes/internal/core"
	"pjes/internal/export"
)

const (
	chartWidth  = 640
	chartHeight = 400
)

// errNoChartData makes renderChart fall back to the placeholder panel.
var errNoChartData = errors.New("no chart data")

var palette = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
	drawing.ColorFromHex("e377c2"),
	drawing.ColorFromHex("7f7f7f"),
	drawing.ColorFromHex("bcbd22"),
	drawing.ColorFromHex("17becf"),
}

// chartPanel renders one dashboard chart as SVG.
type chartPanel struct {
	title  string
	render func(w io.Writer, rep core.Report) error
}

// chartPanels maps the /charts/{name}.svg path segment to its panel.
var chartPanels = map[string]chartPanel{
	"locais-bar": {title: "Top 10 Locais", render: func(w io.Writer, rep core.Report) error {
		return renderBars(w, rep.Locais)
	}},
	"locais-pie": {title: "Top 10 Locais (participação)", render: func(w io.Writer, rep core.Report) error {
		return renderPie(w, rep.Locais)
	}},
	"evolucao": {title: "Evolução Mensal", render: func(w io.Writer, rep core.Report) error {
		return renderEvolution(w, rep.Evolucao)
	}},
	"cargo": {title: "Total por Cargo", render: func(w io.Writer, rep core.Report) error {
		return renderBars(w, rep.Cargos)
	}},
}

func reaisFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return export.FormatReais(decimal.NewFromFloat(f))
	}
	return ""
}

// valueRange spans zero and every value, with headroom above the maximum.
// go-chart refuses zero-width ranges, so a flat series still gets [0, 1].
func valueRange(values []float64) *chart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi + (hi-lo)*0.1}
}

func renderBars(w io.Writer, groups []core.GroupTotal) error {
	if len(groups) == 0 {
		return errNoChartData
	}
	bars := make([]chart.Value, len(groups))
	values := make([]float64, len(groups))
	for i, g := range groups {
		values[i] = g.Total.InexactFloat64()
		color := palette[i%len(palette)]
		bars[i] = chart.Value{
			Label: g.Name,
			Value: values[i],
			Style: chart.Style{FillColor: color, StrokeColor: color},
		}
	}

	barWidth := (chartWidth-160)/len(bars) - 8
	barWidth = min(max(barWidth, 6), 60)

	bc := chart.BarChart{
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: barWidth,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 10, Right: 10, Bottom: 20},
		},
		XAxis: chart.Style{FontSize: 7},
		YAxis: chart.YAxis{
			Range:          valueRange(values),
			ValueFormatter: reaisFormatter,
			Style:          chart.Style{FontSize: 8},
		},
		Bars: bars,
	}
	return bc.Render(chart.SVG, w)
}

// renderPie draws the share of each group. Groups without a positive total
// have no slice.
func renderPie(w io.Writer, groups []core.GroupTotal) error {
	var slices []chart.Value
	for i, g := range groups {
		if !g.Total.IsPositive() {
			continue
		}
		color := palette[i%len(palette)]
		slices = append(slices, chart.Value{
			Label: g.Name,
			Value: g.Total.InexactFloat64(),
			Style: chart.Style{FillColor: color, StrokeColor: drawing.ColorWhite, FontSize: 8},
		})
	}
	if len(slices) == 0 {
		return errNoChartData
	}
	pc := chart.PieChart{
		Width:  chartWidth,
		Height: chartHeight,
		Values: slices,
	}
	return pc.Render(chart.SVG, w)
}

// renderEvolution plots monthly totals against the month rank so the x axis
// keeps calendar order.
func renderEvolution(w io.Writer, months []core.MonthTotal) error {
	if len(months) == 0 {
		return errNoChartData
	}
	xs := make([]float64, len(months))
	ys := make([]float64, len(months))
	ticks := make([]chart.Tick, len(months))
	for i, m := range months {
		xs[i] = float64(m.Month)
		ys[i] = m.Total.InexactFloat64()
		ticks[i] = chart.Tick{Value: xs[i], Label: abbreviate(m.Month.String(), 3)}
	}

	line := palette[0]
	c := chart.Chart{
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: xs[0] - 0.5, Max: xs[len(xs)-1] + 0.5},
			Ticks: ticks,
			Style: chart.Style{FontSize: 8},
		},
		YAxis: chart.YAxis{
			Range:          valueRange(ys),
			ValueFormatter: reaisFormatter,
			Style:          chart.Style{FontSize: 8},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "TOTAL",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: line,
					StrokeWidth: 2,
					DotColor:    line,
					DotWidth:    4,
				},
			},
		},
	}
	return c.Render(chart.SVG, w)
}

func abbreviate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// writePlaceholder draws an empty panel with a message.
func writePlaceholder(w io.Writer, title string) error {
	_, err := fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
		`<rect width="100%%" height="100%%" fill="#fafafa" stroke="#dddddd"/>`+
		`<text x="50%%" y="45%%" text-anchor="middle" font-family="sans-serif" font-size="16" fill="#555555">%s</text>`+
		`<text x="50%%" y="55%%" text-anchor="middle" font-family="sans-serif" font-size="12" fill="#888888">Sem dados para os filtros selecionados</text>`+
		`</svg>`,
		chartWidth, chartHeight, chartWidth, chartHeight, template.HTMLEscapeString(title))
	return err
}
