package engine

import (
	"slices"
)

// PlaceholderYear is offered when a dataset has no year columns at all. It
// keeps the year selector usable and carries no meaning of its own.
const PlaceholderYear = 2000

// Years lists every year with a value column, ascending and without
// duplicates. It never returns an empty slice.
func Years(t *Table, dataset string) []int {
	c := DetectConvention(t, dataset)

	var years []int
	if c != NoConvention {
		for _, n := range t.names {
			if y, ok := c.Year(dataset, n); ok {
				years = append(years, y)
			}
		}
	}
	slices.Sort(years)
	years = slices.Compact(years)

	if len(years) == 0 {
		return []int{PlaceholderYear}
	}
	return years
}

// LatestYear is the default year selection: the maximum of Years.
func LatestYear(t *Table, dataset string) int {
	years := Years(t, dataset)
	return years[len(years)-1]
}
