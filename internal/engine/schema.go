package engine

import (
	"strconv"
	"strings"
)

type roleKind uint8

const (
	kindEntity roleKind = iota
	kindLatitude
	kindLongitude
	kindState
	kindYear
)

// Role is a logical column need, independent of how a file spells it.
type Role struct {
	kind roleKind
	year int
}

var (
	EntityName = Role{kind: kindEntity}
	Latitude   = Role{kind: kindLatitude}
	Longitude  = Role{kind: kindLongitude}
	StateName  = Role{kind: kindState}
)

// YearValue is the role of the value column for one year.
func YearValue(year int) Role { return Role{kind: kindYear, year: year} }

func (r Role) String() string {
	switch r.kind {
	case kindEntity:
		return "EntityName"
	case kindLatitude:
		return "Latitude"
	case kindLongitude:
		return "Longitude"
	case kindState:
		return "StateName"
	default:
		return "YearValue(" + strconv.Itoa(r.year) + ")"
	}
}

// matcher picks a column for a role, or reports no match.
type matcher func(t *Table) (string, bool)

func exact(name string) matcher {
	return func(t *Table) (string, bool) {
		if i, ok := t.Lookup(name); ok {
			return t.names[i], true
		}
		return "", false
	}
}

func fold(name string) matcher {
	return func(t *Table) (string, bool) {
		if t == nil {
			return "", false
		}
		for _, n := range t.names {
			if strings.EqualFold(n, name) {
				return n, true
			}
		}
		return "", false
	}
}

// Matchers in priority order. Year columns go through conventions instead.
var roleMatchers = map[roleKind][]matcher{
	kindEntity:    {exact("RegionName"), exact("City")},
	kindLatitude:  {exact("latitude"), exact("Latitude"), fold("latitude")},
	kindLongitude: {exact("longitude"), exact("Longitude"), fold("longitude")},
	kindState:     {exact("StateName"), exact("State")},
}

// Resolve finds the physical column serving role in a dataset's table.
func Resolve(t *Table, dataset string, role Role) (string, bool) {
	if role.kind == kindYear {
		c := DetectConvention(t, dataset)
		if c == NoConvention {
			return "", false
		}
		name := c.Column(dataset, role.year)
		if i, ok := t.Lookup(name); ok {
			return t.names[i], true
		}
		return "", false
	}
	for _, m := range roleMatchers[role.kind] {
		if name, ok := m(t); ok {
			return name, true
		}
	}
	return "", false
}

// resolveIndex is Resolve returning the column position.
func resolveIndex(t *Table, dataset string, role Role) (int, bool) {
	name, ok := Resolve(t, dataset, role)
	if !ok {
		return 0, false
	}
	return t.Lookup(name)
}

// Convention is how a dataset spells its year columns.
type Convention uint8

const (
	NoConvention Convention = iota
	// Prefixed columns read "<dataset> <year>", e.g. "Value Index 2020".
	Prefixed
	// Bare columns are just the year, e.g. "2020".
	Bare
)

// Tried in this order; the first one that matches any column wins for the
// whole dataset.
var conventions = []Convention{Prefixed, Bare}

func (c Convention) String() string {
	switch c {
	case Prefixed:
		return "prefixed"
	case Bare:
		return "bare"
	default:
		return "none"
	}
}

// Column spells year under the convention.
func (c Convention) Column(dataset string, year int) string {
	switch c {
	case Prefixed:
		return dataset + " " + strconv.Itoa(year)
	case Bare:
		return strconv.Itoa(year)
	default:
		return ""
	}
}

// Year is the inverse of Column.
func (c Convention) Year(dataset, column string) (int, bool) {
	column = strings.TrimSpace(column)
	switch c {
	case Prefixed:
		rest, ok := strings.CutPrefix(column, dataset+" ")
		if !ok {
			return 0, false
		}
		return parseYear(rest)
	case Bare:
		return parseYear(column)
	default:
		return 0, false
	}
}

// DetectConvention reports which year spelling the table uses.
func DetectConvention(t *Table, dataset string) Convention {
	if t == nil {
		return NoConvention
	}
	for _, c := range conventions {
		for _, n := range t.names {
			if _, ok := c.Year(dataset, n); ok {
				return c
			}
		}
	}
	return NoConvention
}

// parseYear accepts only canonical decimal spellings so that
// Column(Year(x)) == x always holds.
func parseYear(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || strconv.Itoa(n) != s {
		return 0, false
	}
	return n, true
}
