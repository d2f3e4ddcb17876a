package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"realestate/internal/models"
)

// Prefixed year columns, RegionName entities, admin columns and a header
// with stray whitespace.
const valueIndexCSV = `_id,RegionID,SizeRank,RegionName,RegionType,StateName,Latitude,Longitude,Value Index 2019,Value Index 2020, Value Index 2021
1,102001,0,United States,country,,,,240000,250000,270000
2,394913,1,New York City,msa,NY,40.71,-74.00,500000,520000,540000
3,753899,2,Los Angeles,msa,CA,34.05,-118.24,700000,750000,800000
4,394463,3,Chicago,msa,IL,41.88,-87.63,260000,270000,280000
5,394514,4,Dallas,msa,TX,32.78,-96.80,290000,300000,
6,394692,5,Houston,msa,TX,29.76,-95.37,230000,240000,250000
7,395209,6,Washington,msa,DC,38.91,-77.04,450000,460000,470000
8,394974,7,Philadelphia,msa,PA,39.95,-75.17,280000,290000,300000
9,394856,8,Miami,msa,FL,25.76,-80.19,350000,380000,410000
10,394347,9,Atlanta,msa,GA,33.75,-84.39,270000,280000,290000
11,395057,10,Boston,msa,MA,42.36,-71.06,580000,600000,620000
12,394976,11,Phoenix,msa,AZ,33.45,-112.07,330000,340000,350000
13,395078,12,San Francisco,msa,CA,37.77,-122.42,1100000,1150000,1200000
14,394998,13,Detroit,msa,MI,,,200000,,210000
`

// Bare year columns, a City column and lowercase coordinates.
const rentalIndexCSV = `City,State,latitude,longitude,2018,2019,2020
United States,,,,1400,1450,1500
Austin,TX,30.27,-97.74,1300,,1400
Boise,ID,43.62,-116.20,900,950,1000
Chicago,IL,41.88,-87.63,1600,1650,1700
`

// No year columns at all.
const daysPendingCSV = `RegionName,StateName,Metro
Springfield,IL,Springfield
Akron,OH,Akron
`

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func mustTable(t *testing.T, content string) *Table {
	t.Helper()
	tbl, err := ParseTable([]byte(content))
	require.NoError(t, err)
	t.Cleanup(tbl.Release)
	return tbl
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	reg := NewRegistry(map[models.DatasetID]*Table{
		models.ValueIndex:  mustTable(t, valueIndexCSV),
		models.RentalIndex: mustTable(t, rentalIndexCSV),
		models.DaysPending: mustTable(t, daysPendingCSV),
	})
	return New(reg)
}
