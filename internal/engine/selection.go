package engine

import (
	"slices"

	"realestate/internal/models"
)

const (
	DefaultDataset     = models.ValueIndex
	DefaultSortOrder   = models.Descending
	DefaultResultCount = 10
)

// Invalidation is the set of derived values a selection change touches.
type Invalidation uint8

const (
	InvalidSelectors Invalidation = 1 << iota
	InvalidMap
	InvalidRanking
	InvalidTrend

	InvalidAll = InvalidSelectors | InvalidMap | InvalidRanking | InvalidTrend
)

var invalidationNames = []struct {
	bit  Invalidation
	name string
}{
	{InvalidSelectors, "selectors"},
	{InvalidMap, "map"},
	{InvalidRanking, "ranking"},
	{InvalidTrend, "trend"},
}

func (i Invalidation) Has(bit Invalidation) bool { return i&bit != 0 }

func (i Invalidation) Names() []string {
	var out []string
	for _, n := range invalidationNames {
		if i.Has(n.bit) {
			out = append(out, n.name)
		}
	}
	return out
}

// ParseSortOrder accepts "ascending"/"asc" and "descending"/"desc".
func ParseSortOrder(s string) (models.SortOrder, bool) {
	switch s {
	case "ascending", "asc":
		return models.Ascending, true
	case "descending", "desc":
		return models.Descending, true
	}
	return "", false
}

// Resolve fills unset fields with defaults and replaces a year that is not
// valid for the selected dataset. An entity the dataset lacks is kept, so it
// projects to an empty trend.
func (e *Engine) Resolve(sel models.Selection) models.Selection {
	if sel.Dataset == "" {
		sel.Dataset = DefaultDataset
	}
	if sel.SortOrder != models.Ascending && sel.SortOrder != models.Descending {
		sel.SortOrder = DefaultSortOrder
	}
	if sel.ResultCount <= 0 {
		sel.ResultCount = DefaultResultCount
	}

	years := e.ValidYears(sel.Dataset)
	if !slices.Contains(years, sel.Year) {
		sel.Year = years[len(years)-1]
	}

	if sel.Entity == "" {
		sel.Entity, _ = e.DefaultEntity(sel.Dataset)
	}
	return sel
}

// Apply folds a change into a selection and reports what must be
// recomputed. A dataset change resets year and entity to the new dataset's
// defaults; an explicit year or entity in the same change is kept only if
// it is valid there.
func (e *Engine) Apply(prev models.Selection, change models.Change) (models.Selection, Invalidation) {
	prev = e.Resolve(prev)
	next := prev
	var inv Invalidation

	if change.Dataset != nil && *change.Dataset != prev.Dataset {
		next.Dataset = *change.Dataset
		next.Year = 0
		next.Entity = ""
		inv |= InvalidAll
	}
	if change.Year != nil && *change.Year != next.Year {
		next.Year = *change.Year
		inv |= InvalidMap | InvalidRanking
	}
	if change.SortOrder != nil && *change.SortOrder != next.SortOrder {
		next.SortOrder = *change.SortOrder
		inv |= InvalidRanking
	}
	if change.ResultCount != nil && *change.ResultCount != next.ResultCount {
		next.ResultCount = *change.ResultCount
		inv |= InvalidRanking
	}
	if change.Entity != nil && *change.Entity != next.Entity {
		next.Entity = *change.Entity
		inv |= InvalidTrend
	}
	// After a dataset switch only an entity the new dataset has survives.
	if inv.Has(InvalidSelectors) && !e.hasEntity(next.Dataset, next.Entity) {
		next.Entity = ""
	}

	return e.Resolve(next), inv
}

func (e *Engine) hasEntity(ds models.DatasetID, entity string) bool {
	_, ok := slices.BinarySearch(e.ValidEntities(ds), entity)
	return ok
}
