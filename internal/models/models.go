package models

// DatasetID names one of the six fixed datasets.
type DatasetID string

const (
	RentalIndex          DatasetID = "Rental Index"
	ValueIndex           DatasetID = "Value Index"
	MarketIndex          DatasetID = "Market Index"
	NewConstructionCount DatasetID = "New Construction Count"
	NewConstructionSales DatasetID = "New Construction Sales"
	DaysPending          DatasetID = "Days Pending"
)

// AllDatasets lists the datasets in display order.
var AllDatasets = []DatasetID{
	RentalIndex,
	ValueIndex,
	MarketIndex,
	NewConstructionCount,
	NewConstructionSales,
	DaysPending,
}

// KnownDataset reports whether id is one of the fixed datasets.
func KnownDataset(id DatasetID) bool {
	for _, d := range AllDatasets {
		if d == id {
			return true
		}
	}
	return false
}

type SortOrder string

const (
	Ascending  SortOrder = "ascending"
	Descending SortOrder = "descending"
)

// Selection is the complete user-controlled state. Year 0 and Entity ""
// mean "not yet resolved".
type Selection struct {
	Dataset     DatasetID `json:"dataset"`
	Year        int       `json:"year,omitempty"`
	Entity      string    `json:"entity,omitempty"`
	SortOrder   SortOrder `json:"sort_order"`
	ResultCount int       `json:"result_count"`
}

// Change carries the fields a user touched. Nil means untouched.
type Change struct {
	Dataset     *DatasetID `json:"dataset,omitempty"`
	Year        *int       `json:"year,omitempty"`
	Entity      *string    `json:"entity,omitempty"`
	SortOrder   *SortOrder `json:"sort_order,omitempty"`
	ResultCount *int       `json:"result_count,omitempty"`
}

type Selectors struct {
	Dataset       DatasetID `json:"dataset"`
	Years         []int     `json:"years"`
	DefaultYear   int       `json:"default_year"`
	Entities      []string  `json:"entities"`
	DefaultEntity string    `json:"default_entity,omitempty"`
}

type MapPoint struct {
	Entity    string  `json:"entity"`
	State     string  `json:"state,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Value     float64 `json:"value"`
	Cell      string  `json:"cell"`
}

type Viewport struct {
	South     float64 `json:"south"`
	West      float64 `json:"west"`
	North     float64 `json:"north"`
	East      float64 `json:"east"`
	CenterLat float64 `json:"center_lat"`
	CenterLon float64 `json:"center_lon"`
}

type MapPoints struct {
	Dataset  DatasetID  `json:"dataset"`
	Year     int        `json:"year"`
	Column   string     `json:"column,omitempty"`
	Points   []MapPoint `json:"points"`
	Viewport Viewport   `json:"viewport"`
}

type RankedRow struct {
	Entity string  `json:"entity"`
	Value  float64 `json:"value"`
}

type RankedRows struct {
	Dataset   DatasetID   `json:"dataset"`
	Year      int         `json:"year"`
	SortOrder SortOrder   `json:"sort_order"`
	Limit     int         `json:"limit"`
	Rows      []RankedRow `json:"rows"`
	Reference *float64    `json:"reference,omitempty"`
}

type TrendPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

type TrendSeries struct {
	Dataset DatasetID    `json:"dataset"`
	Entity  string       `json:"entity,omitempty"`
	Points  []TrendPoint `json:"points"`
}

// Empty reports whether the series has nothing to draw.
func (t TrendSeries) Empty() bool { return len(t.Points) == 0 }

// Dashboard bundles everything derived from one Selection. Parts that were
// not invalidated by an update are nil.
type Dashboard struct {
	Selection   Selection    `json:"selection"`
	Invalidated []string     `json:"invalidated,omitempty"`
	Selectors   *Selectors   `json:"selectors,omitempty"`
	Map         *MapPoints   `json:"map,omitempty"`
	Ranking     *RankedRows  `json:"ranking,omitempty"`
	Trend       *TrendSeries `json:"trend,omitempty"`
}
