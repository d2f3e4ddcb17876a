package render

import (
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"realestate/internal/models"
)

const (
	PageTitle = "US Real Estate Dashboard"
	NoData    = "No data"

	referenceLabel = "US Average"
)

// viridis stops for the map value scale.
var viridis = []string{"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"}

func initOpts() charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		Width:  strconv.Itoa(Width) + "px",
		Height: strconv.Itoa(Height) + "px",
	})
}

// Page writes the three dashboard views as a single HTML page. Parts of the
// dashboard that are nil are drawn as empty charts.
func Page(w io.Writer, d *models.Dashboard) error {
	var (
		m models.MapPoints
		r models.RankedRows
		t models.TrendSeries
	)
	if d != nil {
		if d.Map != nil {
			m = *d.Map
		}
		if d.Ranking != nil {
			r = *d.Ranking
		}
		if d.Trend != nil {
			t = *d.Trend
		}
	}

	page := components.NewPage()
	page.PageTitle = PageTitle
	page.AddCharts(MapChart(m), RankingChart(r), TrendChart(t))
	return page.Render(w)
}

// MapChart plots points by longitude and latitude, colored by value.
func MapChart(m models.MapPoints) *charts.Scatter {
	sc := charts.NewScatter()
	if len(m.Points) == 0 {
		sc.SetGlobalOptions(initOpts(), charts.WithTitleOpts(opts.Title{Title: NoData}))
		return sc
	}

	lo, hi := m.Points[0].Value, m.Points[0].Value
	data := make([]opts.ScatterData, len(m.Points))
	for i, p := range m.Points {
		lo, hi = min(lo, p.Value), max(hi, p.Value)
		data[i] = opts.ScatterData{
			Name:  p.Entity,
			Value: []float64{p.Longitude, p.Latitude, p.Value},
		}
	}

	sc.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{Title: MapTitle(m), Subtitle: MapLegend(m)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Longitude", Min: m.Viewport.West, Max: m.Viewport.East}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Latitude", Min: m.Viewport.South, Max: m.Viewport.North}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Dimension:  "2",
			Min:        float32(lo),
			Max:        float32(hi),
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	sc.AddSeries(MapLegend(m), data)
	return sc
}

// RankingChart draws the ranked bars with the national reference as a
// horizontal mark line.
func RankingChart(r models.RankedRows) *charts.Bar {
	bar := charts.NewBar()
	if len(r.Rows) == 0 {
		bar.SetGlobalOptions(initOpts(), charts.WithTitleOpts(opts.Title{Title: NoData}))
		return bar
	}

	labels := make([]string, len(r.Rows))
	data := make([]opts.BarData, len(r.Rows))
	for i, row := range r.Rows {
		labels[i] = row.Entity
		data[i] = opts.BarData{Name: row.Entity, Value: row.Value}
	}

	bar.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{Title: RankingTitle(r)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "City", AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithYAxisOpts(opts.YAxis{Name: string(r.Dataset)}),
	)

	var series []charts.SeriesOpts
	if r.Reference != nil {
		series = append(series, charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
			Name:  referenceLabel,
			YAxis: *r.Reference,
		}))
	}
	bar.SetXAxis(labels).AddSeries(string(r.Dataset), data, series...)
	return bar
}

// TrendChart draws the year series of one entity.
func TrendChart(t models.TrendSeries) *charts.Line {
	line := charts.NewLine()
	if t.Empty() {
		line.SetGlobalOptions(initOpts(), charts.WithTitleOpts(opts.Title{Title: NoData}))
		return line
	}

	years := make([]string, len(t.Points))
	data := make([]opts.LineData, len(t.Points))
	for i, p := range t.Points {
		years[i] = strconv.Itoa(p.Year)
		data[i] = opts.LineData{Value: p.Value}
	}

	line.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{Title: TrendTitle(t)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Year"}),
		charts.WithYAxisOpts(opts.YAxis{Name: string(t.Dataset)}),
	)
	line.SetXAxis(years).AddSeries(t.Entity, data)
	return line
}
