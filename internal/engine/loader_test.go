package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestLoadTable(t *testing.T) {
	// 1. Write fixture
	tmpFile, err := os.CreateTemp("", "value_index_*.csv")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write([]byte(valueIndexCSV)); err != nil {
		t.Fatal(err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatal(err)
	}

	// 2. Run Loader
	table, err := LoadTable(tmpFile.Name())
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	defer table.Release()

	// 3. Assertions
	if table.NumRows() != 14 {
		t.Fatalf("Expected 14 rows, got %d", table.NumRows())
	}

	for _, admin := range []string{"_id", "RegionID", "SizeRank", "RegionType"} {
		if table.Has(admin) {
			t.Errorf("Admin column %q should have been stripped", admin)
		}
	}

	// Header whitespace is gone
	if !table.Has("Value Index 2021") {
		t.Errorf("Expected trimmed column 'Value Index 2021', got %v", table.Columns())
	}

	ent, _ := table.Lookup("RegionName")
	val, _ := table.Lookup("Value Index 2020")
	name, ok := table.Text(1, ent)
	if !ok || name != "New York City" {
		t.Errorf("Row 1 entity: expected New York City, got %q", name)
	}
	v, ok := table.Float(1, val)
	if !ok || v != 520000 {
		t.Errorf("Row 1 value: expected 520000, got %v (%v)", v, ok)
	}

	// Empty cells are nulls
	lat, _ := table.Lookup("Latitude")
	if _, ok := table.Float(0, lat); ok {
		t.Error("United States latitude should be null")
	}
}

func TestLoadTableMissingFile(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist in chain, got %v", err)
	}
}

func TestParseTableMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":  "",
		"ragged": "RegionName,2020\nAustin,1,2\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTable([]byte(content))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestParseTableColumnKinds(t *testing.T) {
	table, err := ParseTable([]byte("RegionName,Code,2020\nAustin,A1,5\nBoise,7,NaN\n"))
	if err != nil {
		t.Fatal(err)
	}
	defer table.Release()

	code, _ := table.Lookup("Code")
	if s, ok := table.Text(1, code); !ok || s != "7" {
		t.Errorf("mixed column should stay textual, got %q", s)
	}
	if v, ok := table.Float(1, code); !ok || v != 7 {
		t.Errorf("numeric text should still read as a number, got %v", v)
	}

	year, _ := table.Lookup("2020")
	if _, ok := table.Float(1, year); ok {
		t.Error("NaN should read as null")
	}
	if s, ok := table.Text(0, year); !ok || s != "5" {
		t.Errorf("numeric cell text: expected 5, got %q", s)
	}
}

func TestParseTableHeaderOnly(t *testing.T) {
	table, err := ParseTable([]byte("RegionName,Value Index 2020\n"))
	if err != nil {
		t.Fatal(err)
	}
	defer table.Release()

	if table.NumRows() != 0 {
		t.Errorf("expected no rows, got %d", table.NumRows())
	}
	if !table.Has("Value Index 2020") {
		t.Error("columns should survive an empty body")
	}
}
