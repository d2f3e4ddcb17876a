package render

import (
	"bytes"
	"io"
	"math"
	"strconv"

	"github.com/labstack/gommon/log"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"realestate/internal/models"
)

func numberFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return FormatValue(f)
	}
	return ""
}

func yearFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.Itoa(int(math.Round(f)))
	}
	return ""
}

// paddedRange spans vals, widened when every value is the same so the axis
// never has a zero-width domain.
func paddedRange(vals ...float64) *chart.ContinuousRange {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo, hi = min(lo, v), max(hi, v)
	}
	if hi <= lo {
		pad := math.Max(1, math.Abs(lo)*0.1)
		return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

// renderPNG writes r to w, or a captioned placeholder if go-chart rejects
// the data.
func renderPNG(w io.Writer, caption string, r func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := r(&buf); err != nil {
		log.Warnf("Chart render error: %v; writing placeholder", err)
		return Placeholder(w, Width, Height, caption)
	}
	_, err := buf.WriteTo(w)
	return err
}

// referenceLine draws a dashed horizontal line at value v. lo and hi must be
// the y axis range the chart was rendered with.
func referenceLine(v, lo, hi float64) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		if hi <= lo || v < lo || v > hi {
			return
		}
		y := box.Bottom - int(math.Ceil((v-lo)/(hi-lo)*float64(box.Height())))

		r.SetStrokeColor(drawing.ColorRed)
		r.SetStrokeWidth(2)
		r.SetStrokeDashArray([]float64{6, 4})
		r.MoveTo(box.Left, y)
		r.LineTo(box.Right, y)
		r.Stroke()

		if defaults.Font != nil {
			r.SetFont(defaults.Font)
			r.SetFontColor(drawing.ColorRed)
			r.SetFontSize(10)
			r.Text(referenceLabel, box.Right-80, y-4)
		}
	}
}

// BarPNG renders the ranking as a bar chart with the national reference
// drawn across it.
func BarPNG(w io.Writer, rows models.RankedRows) error {
	if len(rows.Rows) == 0 {
		return Placeholder(w, Width, Height, NoData)
	}

	vals := make([]float64, 0, len(rows.Rows)+2)
	bars := make([]chart.Value, len(rows.Rows))
	for i, row := range rows.Rows {
		bars[i] = chart.Value{Label: row.Entity, Value: row.Value}
		vals = append(vals, row.Value)
	}
	// Bars grow from zero.
	vals = append(vals, 0)
	if rows.Reference != nil {
		vals = append(vals, *rows.Reference)
	}
	yr := paddedRange(vals...)
	yr.Max += (yr.Max - yr.Min) * 0.05

	bc := chart.BarChart{
		Title:      RankingTitle(rows),
		Width:      Width,
		Height:     Height,
		BarWidth:   min(60, max(8, (Width-200)/len(bars)/2)),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 80}},
		XAxis:      chart.Style{TextRotationDegrees: 45},
		YAxis:      chart.YAxis{Range: yr, ValueFormatter: numberFormatter},
		Bars:       bars,
	}
	if rows.Reference != nil {
		bc.Elements = []chart.Renderable{referenceLine(*rows.Reference, yr.Min, yr.Max)}
	}
	return renderPNG(w, NoData, func(out io.Writer) error { return bc.Render(chart.PNG, out) })
}

// LinePNG renders the trend of one entity over the years.
func LinePNG(w io.Writer, trend models.TrendSeries) error {
	if trend.Empty() {
		return Placeholder(w, Width, Height, NoData)
	}

	xs := make([]float64, len(trend.Points))
	ys := make([]float64, len(trend.Points))
	for i, p := range trend.Points {
		xs[i] = float64(p.Year)
		ys[i] = p.Value
	}

	graph := chart.Chart{
		Title:      TrendTitle(trend),
		Width:      Width,
		Height:     Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      chart.XAxis{Name: "Year", Range: paddedRange(xs...), ValueFormatter: yearFormatter},
		YAxis:      chart.YAxis{Name: string(trend.Dataset), Range: paddedRange(ys...), ValueFormatter: numberFormatter},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    trend.Entity,
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeWidth: 2, DotWidth: 3},
			},
		},
	}
	return renderPNG(w, NoData, func(out io.Writer) error { return graph.Render(chart.PNG, out) })
}

// MapPNG renders map points as a longitude/latitude scatter colored on the
// viridis scale.
func MapPNG(w io.Writer, m models.MapPoints) error {
	if len(m.Points) == 0 {
		return Placeholder(w, Width, Height, NoData)
	}

	lons := make([]float64, len(m.Points))
	lats := make([]float64, len(m.Points))
	vals := make([]float64, len(m.Points))
	for i, p := range m.Points {
		lons[i], lats[i], vals[i] = p.Longitude, p.Latitude, p.Value
	}
	vr := paddedRange(vals...)

	graph := chart.Chart{
		Title:      MapTitle(m),
		Width:      Width,
		Height:     Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      chart.XAxis{Name: "Longitude", Range: paddedRange(m.Viewport.West, m.Viewport.East)},
		YAxis:      chart.YAxis{Name: "Latitude", Range: paddedRange(m.Viewport.South, m.Viewport.North)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    MapLegend(m),
				XValues: lons,
				YValues: lats,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    5,
					DotColorProvider: func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
						return chart.Viridis(vals[index], vr.Min, vr.Max)
					},
				},
			},
		},
	}
	return renderPNG(w, NoData, func(out io.Writer) error { return graph.Render(chart.PNG, out) })
}
