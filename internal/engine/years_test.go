package engine

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestYears(t *testing.T) {
	cases := []struct {
		name    string
		csv     string
		dataset string
		want    []int
	}{
		{"prefixed", valueIndexCSV, "Value Index", []int{2019, 2020, 2021}},
		{"bare", rentalIndexCSV, "Rental Index", []int{2018, 2019, 2020}},
		{"placeholder", daysPendingCSV, "Days Pending", []int{PlaceholderYear}},
		{"unsorted with duplicates", "RegionName,2021,2019,2021 ,2020\nA,1,2,3,4\n", "Value Index", []int{2019, 2020, 2021}},
		{"other dataset prefix ignored", "RegionName,Rental Index 2020\nA,1\n", "Value Index", []int{PlaceholderYear}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Years(mustTable(t, tc.csv), tc.dataset)
			require.Equal(t, tc.want, got)
			require.True(t, slices.IsSorted(got))
			require.Equal(t, slices.Max(got), LatestYear(mustTable(t, tc.csv), tc.dataset))
		})
	}
}

func TestYearsNilTable(t *testing.T) {
	require.Equal(t, []int{PlaceholderYear}, Years(nil, "Value Index"))
}

func TestAdvertisedYearsResolve(t *testing.T) {
	for dataset, content := range map[string]string{
		"Value Index":  valueIndexCSV,
		"Rental Index": rentalIndexCSV,
	} {
		table := mustTable(t, content)
		for _, y := range Years(table, dataset) {
			_, ok := Resolve(table, dataset, YearValue(y))
			require.True(t, ok, "%s: year %d advertised but unresolvable", dataset, y)
		}
	}
}
