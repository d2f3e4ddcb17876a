package engine

import (
	"cmp"
	"slices"

	"github.com/labstack/gommon/log"

	"realestate/internal/geo"
	"realestate/internal/models"
)

const (
	// NationalAggregate is the entity name of the whole-country row.
	NationalAggregate = "United States"
	// PreferredEntity is the trend default whenever a dataset has it.
	PreferredEntity = "New York City"
)

// Entities returns the distinct entity names of a table, sorted.
func Entities(t *Table, dataset string) []string {
	col, ok := resolveIndex(t, dataset, EntityName)
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for row := 0; row < t.NumRows(); row++ {
		name, ok := t.Text(row, col)
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// DefaultEntity picks the trend entity for a freshly selected dataset.
func DefaultEntity(entities []string) (string, bool) {
	if _, found := slices.BinarySearch(entities, PreferredEntity); found {
		return PreferredEntity, true
	}
	if len(entities) > 0 {
		return entities[0], true
	}
	return "", false
}

// BuildMapPoints collects every row with a value, latitude and longitude
// for year.
func BuildMapPoints(t *Table, dataset string, year int) models.MapPoints {
	out := models.MapPoints{
		Dataset: models.DatasetID(dataset),
		Year:    year,
		Points:  []models.MapPoint{},
	}

	// 1. Resolve the three required columns
	valName, okV := Resolve(t, dataset, YearValue(year))
	latCol, okLat := resolveIndex(t, dataset, Latitude)
	lonCol, okLon := resolveIndex(t, dataset, Longitude)
	if !okV || !okLat || !okLon {
		log.Debugf("map: %s/%d unresolved (value=%v lat=%v lon=%v)", dataset, year, okV, okLat, okLon)
		out.Viewport = geo.Viewport(nil)
		return out
	}
	out.Column = valName
	valCol, _ := t.Lookup(valName)

	// 2. Labels are optional
	entCol, okEnt := resolveIndex(t, dataset, EntityName)
	stateCol, okState := resolveIndex(t, dataset, StateName)

	// 3. Scan
	for row := 0; row < t.NumRows(); row++ {
		v, ok1 := t.Float(row, valCol)
		lat, ok2 := t.Float(row, latCol)
		lon, ok3 := t.Float(row, lonCol)
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		if !geo.Valid(lat, lon) {
			log.Debugf("map: %s row %d has invalid coordinates %f,%f", dataset, row, lat, lon)
			continue
		}
		p := models.MapPoint{
			Latitude:  lat,
			Longitude: lon,
			Value:     v,
			Cell:      geo.Cell(lat, lon),
		}
		if okEnt {
			p.Entity, _ = t.Text(row, entCol)
		}
		if okState {
			p.State, _ = t.Text(row, stateCol)
		}
		out.Points = append(out.Points, p)
	}

	out.Viewport = geo.Viewport(out.Points)
	return out
}

// BuildRankedRows ranks entities by their value for year, leaving out the
// national aggregate, whose value becomes the reference line instead.
func BuildRankedRows(t *Table, dataset string, year int, order models.SortOrder, limit int) models.RankedRows {
	out := models.RankedRows{
		Dataset:   models.DatasetID(dataset),
		Year:      year,
		SortOrder: order,
		Limit:     limit,
		Rows:      []models.RankedRow{},
	}

	entCol, okEnt := resolveIndex(t, dataset, EntityName)
	valCol, okVal := resolveIndex(t, dataset, YearValue(year))
	if !okEnt || !okVal || limit <= 0 {
		return out
	}

	rows := make([]models.RankedRow, 0, t.NumRows())
	for row := 0; row < t.NumRows(); row++ {
		name, ok := t.Text(row, entCol)
		if !ok {
			continue
		}
		v, ok := t.Float(row, valCol)
		if !ok {
			continue
		}
		if name == NationalAggregate {
			if out.Reference == nil {
				ref := v
				out.Reference = &ref
			}
			continue
		}
		rows = append(rows, models.RankedRow{Entity: name, Value: v})
	}

	// Ties fall back to the entity name so equal inputs give equal output
	slices.SortStableFunc(rows, func(a, b models.RankedRow) int {
		c := cmp.Compare(a.Value, b.Value)
		if order == models.Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.Entity, b.Entity)
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}
	out.Rows = rows
	return out
}

// BuildTrendSeries reads one entity's row across every year column.
func BuildTrendSeries(t *Table, dataset, entity string) models.TrendSeries {
	out := models.TrendSeries{
		Dataset: models.DatasetID(dataset),
		Entity:  entity,
		Points:  []models.TrendPoint{},
	}

	entCol, ok := resolveIndex(t, dataset, EntityName)
	if !ok || entity == "" {
		return out
	}
	row := -1
	for r := 0; r < t.NumRows(); r++ {
		if name, ok := t.Text(r, entCol); ok && name == entity {
			row = r
			break
		}
	}
	if row < 0 {
		return out
	}

	excluded := trendExclusions(t, dataset)
	// Only the dataset's own convention counts; a bare year column in a
	// prefixed dataset is not part of the series.
	c := DetectConvention(t, dataset)
	seen := make(map[int]bool)
	for col, name := range t.names {
		if excluded[name] {
			continue
		}
		year, ok := c.Year(dataset, name)
		if !ok || seen[year] {
			continue
		}
		v, ok := t.Float(row, col)
		if !ok {
			continue
		}
		seen[year] = true
		out.Points = append(out.Points, models.TrendPoint{Year: year, Value: v})
	}

	slices.SortFunc(out.Points, func(a, b models.TrendPoint) int {
		return cmp.Compare(a.Year, b.Year)
	})
	return out
}

// trendExclusions are the label and geographic columns a trend never reads.
func trendExclusions(t *Table, dataset string) map[string]bool {
	ex := map[string]bool{
		"RegionName": true,
		"Latitude":   true,
		"Longitude":  true,
		"State":      true,
		"StateName":  true,
	}
	for _, role := range []Role{EntityName, Latitude, Longitude, StateName} {
		if name, ok := Resolve(t, dataset, role); ok {
			ex[name] = true
		}
	}
	return ex
}
