// Package render turns derived projections into charts: an
// interactive go-echarts page and static go-chart PNGs.
package render

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"realestate/internal/models"
)

const (
	Width  = 1200
	Height = 600
)

var printer = message.NewPrinter(language.English)

// FormatValue prints a value with thousands grouping and at most two
// decimals, e.g. 1,150,000 or 1,234.5.
func FormatValue(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

func RankingTitle(r models.RankedRows) string {
	side := "Top"
	if r.SortOrder == models.Ascending {
		side = "Bottom"
	}
	return fmt.Sprintf("%s %d Cities vs US Average (%d)", side, r.Limit, r.Year)
}

func TrendTitle(t models.TrendSeries) string {
	return fmt.Sprintf("%s Trend for %s", t.Dataset, t.Entity)
}

func MapTitle(m models.MapPoints) string {
	return fmt.Sprintf("%s (%d)", m.Dataset, m.Year)
}

// MapLegend names the value scale of the map.
func MapLegend(m models.MapPoints) string {
	return fmt.Sprintf("%s Average %s", m.Column, m.Dataset)
}
