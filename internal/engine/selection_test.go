package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"realestate/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestResolveDefaults(t *testing.T) {
	e := testEngine(t)

	sel := e.Resolve(models.Selection{})
	require.Equal(t, models.Selection{
		Dataset:     models.ValueIndex,
		Year:        2021,
		Entity:      "New York City",
		SortOrder:   models.Descending,
		ResultCount: DefaultResultCount,
	}, sel)

	// A year the dataset lacks is replaced; an entity it lacks is kept
	sel = e.Resolve(models.Selection{Dataset: models.RentalIndex, Year: 2021, Entity: "New York City", SortOrder: models.Ascending, ResultCount: 3})
	require.Equal(t, 2020, sel.Year)
	require.Equal(t, "New York City", sel.Entity)
	require.Equal(t, models.Ascending, sel.SortOrder)
	require.Equal(t, 3, sel.ResultCount)
}

func TestApplyInvalidation(t *testing.T) {
	e := testEngine(t)
	base := e.Resolve(models.Selection{})

	cases := []struct {
		name   string
		change models.Change
		want   Invalidation
	}{
		{"nothing", models.Change{}, 0},
		{"same dataset", models.Change{Dataset: ptr(models.ValueIndex)}, 0},
		{"dataset", models.Change{Dataset: ptr(models.RentalIndex)}, InvalidAll},
		{"year", models.Change{Year: ptr(2019)}, InvalidMap | InvalidRanking},
		{"sort", models.Change{SortOrder: ptr(models.Ascending)}, InvalidRanking},
		{"count", models.Change{ResultCount: ptr(50)}, InvalidRanking},
		{"entity", models.Change{Entity: ptr("Boston")}, InvalidTrend},
		{"sort and entity", models.Change{SortOrder: ptr(models.Ascending), Entity: ptr("Boston")}, InvalidRanking | InvalidTrend},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, inv := e.Apply(base, tc.change)
			require.Equal(t, tc.want, inv, "got %v", inv.Names())
		})
	}
}

func TestSwitchDatasetRecomputesEverything(t *testing.T) {
	e := testEngine(t)
	prev := e.Resolve(models.Selection{Dataset: models.ValueIndex, Year: 2019, Entity: "Boston"})

	d := e.Update(prev, models.Change{Dataset: ptr(models.RentalIndex)})

	require.Equal(t, models.RentalIndex, d.Selection.Dataset)
	require.Equal(t, 2020, d.Selection.Year)
	require.Equal(t, "Austin", d.Selection.Entity)
	require.Equal(t, []string{"selectors", "map", "ranking", "trend"}, d.Invalidated)

	require.NotNil(t, d.Selectors)
	require.Equal(t, []int{2018, 2019, 2020}, d.Selectors.Years)
	require.Equal(t, 2020, d.Selectors.DefaultYear)
	require.Equal(t, []string{"Austin", "Boise", "Chicago", "United States"}, d.Selectors.Entities)
	require.Equal(t, "Austin", d.Selectors.DefaultEntity)

	require.NotNil(t, d.Ranking)
	require.Equal(t, models.RentalIndex, d.Ranking.Dataset)
	require.NotNil(t, d.Ranking.Reference)
	require.Equal(t, 1500.0, *d.Ranking.Reference)
	require.NotNil(t, d.Trend)
	require.Equal(t, "Austin", d.Trend.Entity)
}

func TestSwitchDatasetKeepsValidExplicitYear(t *testing.T) {
	e := testEngine(t)
	prev := e.Resolve(models.Selection{})

	next, _ := e.Apply(prev, models.Change{Dataset: ptr(models.RentalIndex), Year: ptr(2018)})
	require.Equal(t, 2018, next.Year)

	next, _ = e.Apply(prev, models.Change{Dataset: ptr(models.RentalIndex), Year: ptr(2021)})
	require.Equal(t, 2020, next.Year)
}

func TestSwitchDatasetKeepsValidExplicitEntity(t *testing.T) {
	e := testEngine(t)
	prev := e.Resolve(models.Selection{})

	next, _ := e.Apply(prev, models.Change{Dataset: ptr(models.RentalIndex), Entity: ptr("Boise")})
	require.Equal(t, "Boise", next.Entity)

	// Present in Value Index only
	next, _ = e.Apply(prev, models.Change{Dataset: ptr(models.RentalIndex), Entity: ptr("Miami")})
	require.Equal(t, "Austin", next.Entity)
}

func TestUnknownEntityGivesEmptyTrend(t *testing.T) {
	e := testEngine(t)
	prev := e.Resolve(models.Selection{})

	d := e.Update(prev, models.Change{Entity: ptr("Atlantis")})
	require.Equal(t, []string{"trend"}, d.Invalidated)
	require.Equal(t, "Atlantis", d.Selection.Entity)
	require.NotNil(t, d.Trend)
	require.Equal(t, "Atlantis", d.Trend.Entity)
	require.True(t, d.Trend.Empty())

	d = e.Dashboard(models.Selection{Entity: "Atlantis"})
	require.Equal(t, "Atlantis", d.Selection.Entity)
	require.True(t, d.Trend.Empty())
	require.NotEmpty(t, d.Ranking.Rows)
}

func TestUpdateOnlyBuildsInvalidatedParts(t *testing.T) {
	e := testEngine(t)
	prev := e.Resolve(models.Selection{})

	d := e.Update(prev, models.Change{Entity: ptr("Miami")})
	require.Nil(t, d.Selectors)
	require.Nil(t, d.Map)
	require.Nil(t, d.Ranking)
	require.NotNil(t, d.Trend)
	require.Equal(t, "Miami", d.Trend.Entity)
	require.Len(t, d.Trend.Points, 3)
}

func TestDashboardIsIdempotent(t *testing.T) {
	e := testEngine(t)
	sel := models.Selection{Dataset: models.ValueIndex, Year: 2020, SortOrder: models.Descending, ResultCount: 10}

	first := e.Dashboard(sel)
	second := e.Dashboard(sel)
	require.Equal(t, first, second)

	require.Len(t, first.Ranking.Rows, 10)
	require.Equal(t, 250000.0, *first.Ranking.Reference)
	for _, r := range first.Ranking.Rows {
		require.NotEqual(t, NationalAggregate, r.Entity)
		require.GreaterOrEqual(t, first.Ranking.Rows[0].Value, r.Value)
	}
}

func TestUnknownDatasetDegradesToEmpty(t *testing.T) {
	e := testEngine(t)
	d := e.Dashboard(models.Selection{Dataset: models.MarketIndex})

	require.Equal(t, PlaceholderYear, d.Selection.Year)
	require.Empty(t, d.Selection.Entity)
	require.Empty(t, d.Map.Points)
	require.Empty(t, d.Ranking.Rows)
	require.True(t, d.Trend.Empty())
	require.Equal(t, []string{}, d.Selectors.Entities)
}

func TestParseSortOrder(t *testing.T) {
	o, ok := ParseSortOrder("asc")
	require.True(t, ok)
	require.Equal(t, models.Ascending, o)

	o, ok = ParseSortOrder("descending")
	require.True(t, ok)
	require.Equal(t, models.Descending, o)

	_, ok = ParseSortOrder("sideways")
	require.False(t, ok)
}
