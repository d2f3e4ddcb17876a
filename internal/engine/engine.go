package engine

import (
	"realestate/internal/models"
)

// Engine derives every view from a Selection and the registry. It holds no
// mutable state; all methods are safe for concurrent use and return
// freshly built values on every call.
type Engine struct {
	reg *Registry
}

func New(reg *Registry) *Engine {
	return &Engine{reg: reg}
}

func (e *Engine) Registry() *Registry { return e.reg }

// Has reports whether the dataset is loaded.
func (e *Engine) Has(ds models.DatasetID) bool {
	_, ok := e.reg.Table(ds)
	return ok
}

// table returns nil for unknown datasets; every builder treats nil as empty.
func (e *Engine) table(ds models.DatasetID) *Table {
	t, _ := e.reg.Table(ds)
	return t
}

func (e *Engine) ValidYears(ds models.DatasetID) []int {
	return Years(e.table(ds), string(ds))
}

func (e *Engine) DefaultYear(ds models.DatasetID) int {
	return LatestYear(e.table(ds), string(ds))
}

func (e *Engine) ValidEntities(ds models.DatasetID) []string {
	return Entities(e.table(ds), string(ds))
}

func (e *Engine) DefaultEntity(ds models.DatasetID) (string, bool) {
	return DefaultEntity(e.ValidEntities(ds))
}

// Selectors bundles both selector domains with their defaults.
func (e *Engine) Selectors(ds models.DatasetID) models.Selectors {
	years := e.ValidYears(ds)
	entities := e.ValidEntities(ds)
	if entities == nil {
		entities = []string{}
	}
	def, _ := DefaultEntity(entities)
	return models.Selectors{
		Dataset:       ds,
		Years:         years,
		DefaultYear:   years[len(years)-1],
		Entities:      entities,
		DefaultEntity: def,
	}
}

func (e *Engine) MapPoints(ds models.DatasetID, year int) models.MapPoints {
	return BuildMapPoints(e.table(ds), string(ds), year)
}

func (e *Engine) RankedRows(ds models.DatasetID, year int, order models.SortOrder, limit int) models.RankedRows {
	return BuildRankedRows(e.table(ds), string(ds), year, order, limit)
}

func (e *Engine) TrendSeries(ds models.DatasetID, entity string) models.TrendSeries {
	return BuildTrendSeries(e.table(ds), string(ds), entity)
}

// Derive builds the parts of the dashboard named by inv for a selection.
// The selection is resolved first, so stale values never reach a builder.
func (e *Engine) Derive(sel models.Selection, inv Invalidation) *models.Dashboard {
	sel = e.Resolve(sel)
	d := &models.Dashboard{
		Selection:   sel,
		Invalidated: inv.Names(),
	}
	if inv.Has(InvalidSelectors) {
		s := e.Selectors(sel.Dataset)
		d.Selectors = &s
	}
	if inv.Has(InvalidMap) {
		m := e.MapPoints(sel.Dataset, sel.Year)
		d.Map = &m
	}
	if inv.Has(InvalidRanking) {
		r := e.RankedRows(sel.Dataset, sel.Year, sel.SortOrder, sel.ResultCount)
		d.Ranking = &r
	}
	if inv.Has(InvalidTrend) {
		t := e.TrendSeries(sel.Dataset, sel.Entity)
		d.Trend = &t
	}
	return d
}

// Dashboard is Derive with everything invalidated.
func (e *Engine) Dashboard(sel models.Selection) *models.Dashboard {
	return e.Derive(sel, InvalidAll)
}

// Update applies a change and derives only what it invalidated.
func (e *Engine) Update(prev models.Selection, change models.Change) *models.Dashboard {
	next, inv := e.Apply(prev, change)
	return e.Derive(next, inv)
}
